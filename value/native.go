package value

// ToNative converts v into plain Go values, for printing or for handing the
// data to code that does not know about Value.
//
// Scalars become bool, int64, float64, string and []byte, lists become []any
// and maps map[string]any. Times stay time.Time and dates become their
// "YYYY-MM-DD" string. Arrays become nested []any following their shape,
// frames become {"columns", "index", "data"} maps with one record per row and
// series become {"name", "index", "data"} maps.
func ToNative(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Bytes:
		return []byte(x)
	case List:
		return nativeSlice(x)
	case Map:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = ToNative(item)
		}
		return out
	case Time:
		return x.Time
	case Date:
		return x.String()
	case *Array:
		return ToNative(x.Nested())
	case *Frame:
		records := make([]any, len(x.Rows))
		for i, rec := range x.Records() {
			records[i] = ToNative(rec)
		}
		columns := make([]any, len(x.Columns))
		for i, c := range x.Columns {
			columns[i] = c
		}
		return map[string]any{
			"columns": columns,
			"index":   nativeSlice(x.Index),
			"data":    records,
		}
	case *Series:
		var name any
		if x.Name != nil {
			name = *x.Name
		}
		return map[string]any{
			"name":  name,
			"index": nativeSlice(x.Index),
			"data":  nativeSlice(x.Data),
		}
	default:
		return nil
	}
}

func nativeSlice(vals []Value) []any {
	out := make([]any, len(vals))
	for i, item := range vals {
		out[i] = ToNative(item)
	}

	return out
}
