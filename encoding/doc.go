// Package encoding turns a value.Value tree into the payload bytes of a frame
// and back, for each of the supported formats.
//
// # Formats
//
//   - json: text, self-describing. Extended kinds (arrays, frames, series,
//     datetimes, dates, binary) are written as marker maps.
//   - cbor: binary, general purpose. Extended kinds use CBOR tags: tag 0 for
//     datetimes, tag 1004 for dates, RFC 8746 tags for arrays and private
//     tags for frames and series.
//   - msgpack: binary, compact. Binary strings are native, the remaining
//     extended kinds are written as marker maps. Builds tagged nomsgpack
//     leave the format out and report it as unavailable.
//
// # Marker maps
//
// A marker map is a plain map carrying the reserved key MarkerKey, whose
// value names the extended kind:
//
//	{"__ext__": "array", "dtype": "float32", "data": [[1.5, 2.0], [3.0, 4.5]]}
//	{"__ext__": "datetime", "value": "2024-01-15T10:30:00.123456789Z"}
//	{"__ext__": "bytes", "value": "AAEC"}
//
// EncodeExtended builds marker maps and DecodeExtended turns them back into
// extended values. A map whose marker names no known kind is kept as a plain
// map. User maps that happen to contain MarkerKey with a known kind are read
// back as the extended value.
//
// # Usage
//
//	payload, err := encoding.Encode(v, format.FormatCBOR)
//	if err != nil {
//	    return err
//	}
//	decoded, err := encoding.Decode(payload, format.FormatCBOR)
//
// Encode failures wrap errs.ErrEncodingFailed and decode failures wrap
// errs.ErrDecodingFailed or errs.ErrMalformedExtendedValue.
package encoding
