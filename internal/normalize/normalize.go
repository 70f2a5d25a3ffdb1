// Package normalize coerces decoded JSON values into safe shapes.
//
// The orchestrator occasionally sends null or wrong-shaped data where an array
// or object is expected, and its legacy endpoints disagree on list field names.
// These helpers make downstream consumers total: they never panic and never
// return anything less usable than an empty sentinel.
package normalize

import "strings"

// EnsureArray returns v unchanged if it is a []any, otherwise an empty slice.
func EnsureArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{}
}

// EnsureObject returns v if it is a plain object, otherwise nil.
func EnsureObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return nil
}

// ExtractList scans candidate field names on a response object in order and
// returns the first one that holds an array. Returns an empty slice when the
// response is not an object or no candidate matches.
//
// Different orchestrator endpoints name their list field differently
// ("entries", "devices", "sessions", "data", "items"); this avoids bespoke
// unwrapping per endpoint.
func ExtractList(response any, candidates ...string) []any {
	obj := EnsureObject(response)
	if obj == nil {
		return []any{}
	}
	for _, name := range candidates {
		if arr, ok := obj[name].([]any); ok {
			return arr
		}
	}
	return []any{}
}

// ExtractData walks a dot-separated path into nested objects, returning nil at
// any missing or non-object step.
func ExtractData(v any, dotPath string) any {
	if dotPath == "" {
		return v
	}
	cur := v
	for _, part := range strings.Split(dotPath, ".") {
		obj := EnsureObject(cur)
		if obj == nil {
			return nil
		}
		next, ok := obj[part]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}
