package models

import (
	"errors"
	"strings"
)

var ErrIncorrectAssignment = errors.New("field assignment must be name=value")

// ParseAssignment splits "Company = Acme Corp" into its field name and value.
// Only the first '=' separates; the value may contain further '=' signs.
// Both sides are trimmed.
func ParseAssignment(s string) (field, value string, err error) {
	name, val, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", ErrIncorrectAssignment
	}
	return name, strings.TrimSpace(val), nil
}

// FieldsFromStrings parses several assignments into a map.
func FieldsFromStrings(s []string) (map[string]string, error) {
	out := make(map[string]string, len(s))
	for _, item := range s {
		k, v, err := ParseAssignment(item)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
