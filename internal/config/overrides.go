package config

import (
	"fmt"
	"strings"
)

// Override assigns a raw value expression to a dotted key path, as given by `--set`.
type Override struct {
	Path  []string
	Value string
}

// ParseOverride parses a single path=value pair. The value is kept verbatim so that it can
// be interpreted with the document value grammar, e.g. `database.port=5432` or
// `name="Red"`.
func ParseOverride(input string) (Override, error) {
	if strings.ContainsAny(input, "\r\n") {
		return Override{}, fmt.Errorf("override %q spans multiple lines", input)
	}
	key, val, found := strings.Cut(input, "=")
	if !found {
		return Override{}, fmt.Errorf("override %q is missing '='", input)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Override{}, fmt.Errorf("override %q has an empty key", input)
	}

	path := strings.Split(key, ".")
	for _, elem := range path {
		if elem == "" {
			return Override{}, fmt.Errorf("override %q has an empty path element", input)
		}
	}
	return Override{Path: path, Value: strings.TrimSpace(val)}, nil
}

// ParseOverrides parses each input in order. Empty inputs are ignored.
func ParseOverrides(inputs []string) ([]Override, error) {
	var result []Override
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		o, err := ParseOverride(input)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}
