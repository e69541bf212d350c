// Package casing converts field names between the camelCase keys used by the
// application's records and the snake_case column names used by the table store.
//
// The conversions satisfy a round-trip law for keys built from ASCII letters
// and digits: a camelCase key that starts with a lower-case letter survives
// ToCamel(ToSnake(k)), and a snake_case key with no empty segments survives
// ToSnake(ToCamel(k)). Both functions are idempotent on keys that are already
// in the target convention.
package casing

import "strings"

// ToSnake rewrites a camelCase key as snake_case ("parcelaId" -> "parcela_id").
func ToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isUpper(c) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToCamel rewrites a snake_case key as camelCase ("parcela_id" -> "parcelaId").
// An underscore is only folded when it separates two segments and the next
// segment starts with a lower-case letter; other underscores are kept so that
// ToSnake can restore the key unchanged.
func ToCamel(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' && i > 0 && key[i-1] != '_' && i+1 < len(key) && isLower(key[i+1]) {
			b.WriteByte(key[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Normalize rewrites every object key of v from camelCase to snake_case,
// recursing into nested objects and arrays. Scalars are returned unchanged.
func Normalize(v any) any {
	return rewrite(v, ToSnake)
}

// Denormalize is the inverse of Normalize.
func Denormalize(v any) any {
	return rewrite(v, ToCamel)
}

// NormalizeMap is Normalize for the common top-level object case.
func NormalizeMap(m map[string]any) map[string]any {
	return rewriteMap(m, ToSnake)
}

// DenormalizeMap is Denormalize for the common top-level object case.
func DenormalizeMap(m map[string]any) map[string]any {
	return rewriteMap(m, ToCamel)
}

func rewrite(v any, conv func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		return rewriteMap(t, conv)
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = rewriteMap(m, conv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = rewrite(e, conv)
		}
		return out
	default:
		return v
	}
}

func rewriteMap(m map[string]any, conv func(string) string) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[conv(k)] = rewrite(v, conv)
	}
	return out
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
