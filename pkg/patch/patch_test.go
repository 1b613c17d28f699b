package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/bulba/parser"
	"github.com/Azure/bulba/pkg/document"
)

func parse(t *testing.T, src string) *document.Object {
	doc, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

const base = `BULBA!
app_name ~> "Pokedex_API"
version ~> 1.5
debug ~> SuperEffective
(o) database (o)
    host ~> "127.0.0.1"
    port ~> 5432
`

func TestMerge(t *testing.T) {
	overlay := parse(t, `BULBA!
version ~> 2.0
debug ~> MissingNo
(o) database (o)
    host ~> "db.internal"
    replicas ~> <| "r1", "r2" |>
`)

	merged, err := Merge(parse(t, base), overlay)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"app_name": "Pokedex_API",
		"version":  2.0,
		"database": map[string]any{
			"host":     "db.internal",
			"port":     int64(5432),
			"replicas": []any{"r1", "r2"},
		},
	}, merged.Interface())
}

func TestMergeKeepsInputs(t *testing.T) {
	b := parse(t, base)
	overlay := parse(t, "BULBA!\nversion ~> 3\n")

	_, err := Merge(b, overlay)
	require.NoError(t, err)

	v, _ := b.Get("version")
	assert.Equal(t, document.Float(1.5), v)
}

func TestApply(t *testing.T) {
	patched, err := Apply(parse(t, base), []byte(`[
		{"op": "replace", "path": "/database/port", "value": 6432},
		{"op": "add", "path": "/database/tags", "value": ["a"]},
		{"op": "remove", "path": "/debug"},
		{"op": "test", "path": "/app_name", "value": "Pokedex_API"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"app_name": "Pokedex_API",
		"version":  1.5,
		"database": map[string]any{
			"host": "127.0.0.1",
			"port": int64(6432),
			"tags": []any{"a"},
		},
	}, patched.Interface())
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply(parse(t, base), []byte(`{"op": "add"}`))
	assert.ErrorContains(t, err, "decoding patch")

	_, err = Apply(parse(t, base), []byte(`[{"op": "test", "path": "/version", "value": 9}]`))
	assert.ErrorContains(t, err, "applying patch")
}
