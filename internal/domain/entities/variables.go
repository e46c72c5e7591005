package entities

import (
	"sort"
	"strconv"
)

// VariableMap holds the KEY=VALUE pairs of the variable section.
type VariableMap map[string]string

// Get returns the value stored under key.
func (v VariableMap) Get(key string) (string, bool) {
	val, ok := v[key]
	return val, ok
}

// Lookup returns the value of the first alias present in the map.
func (v VariableMap) Lookup(aliases ...string) string {
	for _, key := range aliases {
		if val, ok := v[key]; ok {
			return val
		}
	}
	return ""
}

// NumberedKey looks up prefix+n for each prefix in order and returns the
// first key present.
func (v VariableMap) NumberedKey(n int, prefixes ...string) (string, bool) {
	for _, prefix := range prefixes {
		key := prefix + strconv.Itoa(n)
		if _, ok := v[key]; ok {
			return key, true
		}
	}
	return "", false
}

// Keys returns the variable names in sorted order.
func (v VariableMap) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
