package migration

import (
	"encoding/json"
	"strconv"
	"strings"
)

// cloneValue deep-copies the maps and slices of an untyped record
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return cloneValue(m).(map[string]any)
}

// text renders a scalar leaf as text. Numbers are written without exponent or
// trailing zeros so legacy numeric fields keep their visible digits.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// hasValue reports whether key holds a non-blank scalar
func hasValue(m map[string]any, key string) bool {
	s, ok := text(m[key])
	return ok && strings.TrimSpace(s) != ""
}

// fill sets m[current] from the first legacy alias holding a value, unless
// m[current] already has one. Consumed aliases are removed.
func fill(m map[string]any, current string, aliases ...string) {
	for _, alias := range aliases {
		if alias == current {
			continue
		}
		v, present := m[alias]
		delete(m, alias)
		if !present || hasValue(m, current) {
			continue
		}
		if s, ok := text(v); ok && strings.TrimSpace(s) != "" {
			m[current] = v
		}
	}
}

// fillValue sets m[key] to value when m[key] has no value yet
func fillValue(m map[string]any, key, value string) {
	if value == "" || hasValue(m, key) {
		return
	}
	m[key] = value
}

// move transfers src[srcKey] into dst[dstKey] with fill semantics
func move(dst map[string]any, dstKey string, src map[string]any, srcKey string) {
	v, present := src[srcKey]
	if !present {
		return
	}
	delete(src, srcKey)
	if s, ok := text(v); ok {
		fillValue(dst, dstKey, s)
	}
}

// child returns m[key] as a map, or nil when absent or of another type
func child(m map[string]any, key string) map[string]any {
	c, _ := m[key].(map[string]any)
	return c
}

// ensureChild returns m[key] as a map, creating it when absent
func ensureChild(m map[string]any, key string) map[string]any {
	if c := child(m, key); c != nil {
		return c
	}
	c := map[string]any{}
	m[key] = c
	return c
}

// eachRecord calls fn for every map element of the list at doc[key]
func eachRecord(doc map[string]any, key string, fn func(map[string]any)) {
	list, _ := doc[key].([]any)
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			fn(rec)
		}
	}
}
