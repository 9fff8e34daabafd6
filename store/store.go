// Package store is an in-memory key-value cache that holds serialized frames.
//
// The store never looks inside a frame: values go through a Codec on Set and
// Get, and the bytes in between are opaque. A frame that no longer decodes is
// reported as a miss, not an error.
//
//	st, err := store.New(store.WithShards(32))
//	_ = st.Set("user:42", map[string]any{"name": "ada"})
//	v, ok := st.Get("user:42")
package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arloliu/tagframe"
	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/internal/hash"
	"github.com/arloliu/tagframe/internal/options"
	"github.com/arloliu/tagframe/value"
	"github.com/rs/zerolog"
)

// DefaultShards is the shard count used when WithShards is not given.
const DefaultShards = 16

// Codec turns values into frames and back. *tagframe.Serializer implements it.
type Codec interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte) (value.Value, error)
}

var _ Codec = (*tagframe.Serializer)(nil)

// Stats is a snapshot of the store counters.
type Stats struct {
	Hits           uint64
	Misses         uint64
	DecodeFailures uint64
	Entries        int
}

type shard struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// Store is safe for concurrent use.
type Store struct {
	shards []*shard
	codec  Codec
	logger zerolog.Logger

	hits           atomic.Uint64
	misses         atomic.Uint64
	decodeFailures atomic.Uint64
}

type config struct {
	shards int
	codec  Codec
	logger zerolog.Logger
}

// Option configures a Store.
type Option = options.Option[*config]

// WithShards sets the number of lock shards. n must be positive.
func WithShards(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: shard count must be positive, got %d", errs.ErrInvalidConfig, n)
		}
		c.shards = n

		return nil
	})
}

// WithCodec sets the codec. The default is a tagframe.Serializer with
// default settings.
func WithCodec(codec Codec) Option {
	return options.New(func(c *config) error {
		if codec == nil {
			return fmt.Errorf("%w: nil codec", errs.ErrInvalidConfig)
		}
		c.codec = codec

		return nil
	})
}

// WithLogger sets the logger used to report decode failures.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}

// New creates an empty Store.
func New(opts ...Option) (*Store, error) {
	cfg := &config{shards: DefaultShards, logger: zerolog.Nop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.codec == nil {
		s, err := tagframe.New(tagframe.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
		cfg.codec = s
	}

	st := &Store{
		shards: make([]*shard, cfg.shards),
		codec:  cfg.codec,
		logger: cfg.logger,
	}
	for i := range st.shards {
		st.shards[i] = &shard{items: make(map[string][]byte)}
	}

	return st, nil
}

func (st *Store) shardFor(key string) *shard {
	return st.shards[hash.Shard(key, len(st.shards))]
}

// Set serializes v and stores the frame under key, replacing any previous
// entry. Serialization errors are returned and leave the store unchanged.
func (st *Store) Set(key string, v any) error {
	data, err := st.codec.Serialize(v)
	if err != nil {
		return fmt.Errorf("store set %q: %w", key, err)
	}
	st.PutRaw(key, data)

	return nil
}

// Get returns the decoded value stored under key.
//
// It reports false when the key is absent or when the stored frame fails to
// decode; the latter is logged at debug level and counted in
// Stats.DecodeFailures.
func (st *Store) Get(key string) (value.Value, bool) {
	data, ok := st.GetRaw(key)
	if !ok {
		st.misses.Add(1)
		return nil, false
	}

	v, err := st.codec.Deserialize(data)
	if err != nil {
		st.misses.Add(1)
		st.decodeFailures.Add(1)
		st.logger.Debug().Err(err).Str("key", key).Int("size", len(data)).Msg("stored frame failed to decode, treating as miss")

		return nil, false
	}
	st.hits.Add(1)

	return v, true
}

// PutRaw stores an already serialized frame. The slice is retained.
func (st *Store) PutRaw(key string, data []byte) {
	sh := st.shardFor(key)
	sh.mu.Lock()
	sh.items[key] = data
	sh.mu.Unlock()
}

// GetRaw returns the stored frame without decoding it. Counters are not
// updated.
func (st *Store) GetRaw(key string) ([]byte, bool) {
	sh := st.shardFor(key)
	sh.mu.RLock()
	data, ok := sh.items[key]
	sh.mu.RUnlock()

	return data, ok
}

// Delete removes key and reports whether it was present.
func (st *Store) Delete(key string) bool {
	sh := st.shardFor(key)
	sh.mu.Lock()
	_, ok := sh.items[key]
	delete(sh.items, key)
	sh.mu.Unlock()

	return ok
}

// Len returns the number of stored entries.
func (st *Store) Len() int {
	n := 0
	for _, sh := range st.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}

	return n
}

// Stats returns a snapshot of the counters.
func (st *Store) Stats() Stats {
	return Stats{
		Hits:           st.hits.Load(),
		Misses:         st.misses.Load(),
		DecodeFailures: st.decodeFailures.Load(),
		Entries:        st.Len(),
	}
}
