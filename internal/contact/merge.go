package contact

import (
	"strings"
)

// MergeInto absorbs the fields of duplicate into master. uid, match and
// certainty are never copied. A value already present as a ';'-separated
// sub-value of master's field is not appended again.
func MergeInto(master, duplicate *Record) {
	for _, key := range duplicate.keys {
		if key == FieldUID || IsMetadata(key) {
			continue
		}
		dupValue := strings.TrimSpace(duplicate.values[key])
		if dupValue == "" {
			continue
		}
		masterValue := strings.TrimSpace(master.Get(key))
		if masterValue == "" {
			master.Set(key, dupValue)
			continue
		}
		if containsValue(masterValue, dupValue) {
			continue
		}
		master.Set(key, masterValue+ValueSeparator+dupValue)
	}
}

func containsValue(joined, value string) bool {
	for _, part := range strings.Split(joined, ValueSeparator) {
		if part == value {
			return true
		}
	}
	return false
}
