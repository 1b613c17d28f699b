package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Override
		wantErr  bool
	}{
		{
			name:     "top level key",
			input:    "version=2",
			expected: Override{Path: []string{"version"}, Value: "2"},
		},
		{
			name:     "nested key",
			input:    "database.pool.max_connections=10",
			expected: Override{Path: []string{"database", "pool", "max_connections"}, Value: "10"},
		},
		{
			name:     "value with equals sign",
			input:    `motto="a=b"`,
			expected: Override{Path: []string{"motto"}, Value: `"a=b"`},
		},
		{
			name:     "whitespace trimmed",
			input:    " name = \"Red\" ",
			expected: Override{Path: []string{"name"}, Value: `"Red"`},
		},
		{
			name:     "empty value kept",
			input:    "name=",
			expected: Override{Path: []string{"name"}, Value: ""},
		},
		{name: "missing separator", input: "name", wantErr: true},
		{name: "empty key", input: "=1", wantErr: true},
		{name: "empty path element", input: "a..b=1", wantErr: true},
		{name: "newline in value", input: "a=1\n(o) value (o)", wantErr: true},
		{name: "carriage return in value", input: "a=1\r", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseOverride(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, o)
		})
	}
}

func TestParseOverrides(t *testing.T) {
	result, err := ParseOverrides([]string{"a=1", "", "b.c=2"})
	require.NoError(t, err)
	assert.Equal(t, []Override{
		{Path: []string{"a"}, Value: "1"},
		{Path: []string{"b", "c"}, Value: "2"},
	}, result)

	_, err = ParseOverrides([]string{"a=1", "broken"})
	assert.Error(t, err)
}
