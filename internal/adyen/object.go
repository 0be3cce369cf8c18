package adyen

// Object is a raw decoded provider JSON object. Every parsed response keeps
// its Object next to the typed fields so data the typed model does not cover
// (a field added by a provider API upgrade) is never lost; callers fall back
// to these null-safe lookups as the documented escape hatch.
type Object map[string]any

// String returns the string at key, or ("", false) when the key is absent
// or holds a different type.
func (o Object) String(key string) (string, bool) {
	v, ok := o[key].(string)
	return v, ok
}

// Int64 returns the number at key. JSON numbers decode as float64; integral
// values convert losslessly up to 2^53.
func (o Object) Int64(key string) (int64, bool) {
	switch v := o[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func (o Object) Bool(key string) (bool, bool) {
	v, ok := o[key].(bool)
	return v, ok
}

func (o Object) Object(key string) (Object, bool) {
	v, ok := o[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Object(v), true
}

func (o Object) Array(key string) ([]any, bool) {
	v, ok := o[key].([]any)
	return v, ok
}

// Objects returns the array at key with every element asserted to be an
// object; elements of other types are skipped.
func (o Object) Objects(key string) ([]Object, bool) {
	raw, ok := o.Array(key)
	if !ok {
		return nil, false
	}
	out := make([]Object, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, Object(m))
		}
	}
	return out, true
}
