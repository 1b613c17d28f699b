package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/bulba/internal/testutil"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	a := newApp()
	a.newLogger = func(bool, string) (logr.Logger, error) { return testr.New(t), nil }

	cmd := newRootCmd(a)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const simple = `
BULBA!
app_name ~> "Pokedex_API"
(o) database (o)
    port ~> 5432
`

func TestParseOutputs(t *testing.T) {
	file := testutil.WriteFile(t, "simple.bson", simple)

	tests := []struct {
		Name     string
		Args     []string
		Expected string
	}{
		{
			Name:     "text",
			Args:     []string{"parse", file},
			Expected: "app_name: Pokedex_API\ndatabase:\n  port: 5432\n",
		},
		{
			Name:     "json",
			Args:     []string{"parse", "-o", "json", file},
			Expected: "{\n  \"app_name\": \"Pokedex_API\",\n  \"database\": {\n    \"port\": 5432\n  }\n}\n",
		},
		{
			Name:     "yaml",
			Args:     []string{"parse", "--output=yaml", file},
			Expected: "app_name: Pokedex_API\ndatabase:\n  port: 5432\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			out, err := execute(t, "", tc.Args...)
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, out)
		})
	}
}

func TestParseTOML(t *testing.T) {
	out, err := execute(t, "", "parse", "-o", "toml", testutil.WriteFile(t, "simple.bson", simple))
	require.NoError(t, err)
	assert.Contains(t, out, `app_name = "Pokedex_API"`)
	assert.Contains(t, out, "[database]")
	assert.Contains(t, out, "port = 5432")
}

func TestParseStdin(t *testing.T) {
	out, err := execute(t, strings.TrimLeft(simple, "\n"), "parse", "-")
	require.NoError(t, err)
	assert.Equal(t, "app_name: Pokedex_API\ndatabase:\n  port: 5432\n", out)
}

func TestParsePipeline(t *testing.T) {
	base := testutil.WriteFile(t, "base.bson", `
BULBA!
app_name ~> "Pokedex_API"
version ~> 1.5
(o) database (o)
    host ~> "127.0.0.1"
    port ~> 5432
`)
	overlay := testutil.WriteFile(t, "overlay.bson", `
BULBA!
version ~> 2.0
(o) database (o)
    host ~> "db.internal"
`)
	patchFile := testutil.WriteFile(t, "patch.json", `[{"op": "add", "path": "/database/replicas", "value": 2}]`)
	mutateFile := testutil.WriteFile(t, "mutate.json", `[
		{"path": "self.database.port", "condition": "self.version >= 2.0", "value": 6432},
		{"path": "self.app_name", "condition": "self.version < 2.0", "value": "unused"}
	]`)

	out, err := execute(t, "", "parse", base, overlay,
		"--patch", patchFile,
		"--mutate", mutateFile,
		"--set", `trainer.name="Red"`,
		"--set", "debug=SuperEffective")
	require.NoError(t, err)
	assert.Equal(t, `app_name: Pokedex_API
database:
  host: db.internal
  port: 6432
  replicas: 2
debug: true
trainer:
  name: Red
version: 2
`, out)
}

func TestParseErrors(t *testing.T) {
	good := testutil.WriteFile(t, "good.bson", simple)
	bad := testutil.WriteFile(t, "bad.bson", "BULBA!\nkey ~> nope\n")

	_, err := execute(t, "", "parse", bad)
	assert.ErrorContains(t, err, "bad.bson: line 2: Target is immune!")

	_, err = execute(t, "", "parse", good, bad)
	assert.ErrorContains(t, err, "line 2: Target is immune!")

	_, err = execute(t, "", "parse", good, "--set", "app_name.port=1")
	assert.ErrorContains(t, err, "app_name is a string, not a section")

	_, err = execute(t, "", "parse", good, "--set", "port=nope")
	assert.ErrorContains(t, err, "override port")

	_, err = execute(t, "", "parse", good, "--set", "a=1\n(o) value (o)")
	assert.ErrorContains(t, err, "spans multiple lines")

	_, err = execute(t, "", "parse", good, "--set", "novalue")
	assert.ErrorContains(t, err, "missing '='")

	_, err = execute(t, "", "parse", good, "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")

	_, err = execute(t, "", "parse", filepath.Join(t.TempDir(), "missing.bson"))
	assert.Error(t, err)

	_, err = execute(t, "", "parse")
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	out, err := execute(t, "BULBA!\nkey ~> 1\n", "tokens", "-")
	require.NoError(t, err)
	assert.Equal(t, "1:Header\n2:Indent(0)\n2:Ident(\"key\")\n2:Assign\n2:Number(\"1\")\n2:EOF\n", out)

	_, err = execute(t, "BULBA!\n\tkey ~> 1\n", "tokens", "-")
	assert.ErrorContains(t, err, "Poison Type")
}

func TestCheck(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "bulba.prom")
	out, err := execute(t, "", "check", "--metrics-textfile", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Deep Nesting Violation: PASS")
	assert.True(t, strings.HasSuffix(out, "7/7 passed\n"), out)

	written, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(written), "bulba_documents_parsed_total")
}

func TestCheckDir(t *testing.T) {
	out, err := execute(t, "", "check", filepath.Join("..", "..", "parser", "testdata", "invalid"))
	require.NoError(t, err)
	assert.NotContains(t, out, "FAIL")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.bson"), []byte("BULBA!\nkey ~> 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.error"), []byte("Status: Fainted\n"), 0o644))

	out, err = execute(t, "", "check", dir)
	assert.EqualError(t, err, "1 of 1 cases failed")
	assert.Contains(t, out, "Test wrong: FAIL - expected error Status: Fainted but got none")
}

func TestEval(t *testing.T) {
	file := testutil.WriteFile(t, "doc.bson", `
BULBA!
(o) database (o)
    port ~> 5432
whitelist ~> <| "Prof_Oak", "Mom" |>
`)

	tests := []struct {
		Name     string
		Args     []string
		Expected string
	}{
		{Name: "scalar", Args: []string{"self.database.port + 1"}, Expected: "5433\n"},
		{Name: "bool", Args: []string{"self.database.port > 1024"}, Expected: "true\n"},
		{Name: "array", Args: []string{"self.whitelist"}, Expected: "- Prof_Oak\n- Mom\n"},
		{Name: "object", Args: []string{"self.database"}, Expected: "port: 5432\n"},
		{Name: "json object", Args: []string{"self.database", "-o", "json"}, Expected: "{\n  \"port\": 5432\n}\n"},
		{Name: "json scalar", Args: []string{"size(self.whitelist)", "-o", "json"}, Expected: "2\n"},
		{Name: "yaml array", Args: []string{"self.whitelist", "-o", "yaml"}, Expected: "- Prof_Oak\n- Mom\n"},
	}
	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"eval", file}, tc.Args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, out)
		})
	}

	_, err := execute(t, "", "eval", file, "self.database.port", "-o", "toml")
	assert.ErrorContains(t, err, "toml output requires an object")

	_, err = execute(t, "", "eval", file, "self.")
	assert.ErrorContains(t, err, "compiling expression")

	_, err = execute(t, "", "eval", file, "self.nope")
	assert.ErrorContains(t, err, "evaluating expression")
}

func TestConfigFile(t *testing.T) {
	cfg := testutil.WriteFile(t, "bulba.yaml", "output: json\n")
	file := testutil.WriteFile(t, "doc.bson", "BULBA!\nkey ~> 1\n")

	out, err := execute(t, "", "--config", cfg, "parse", file)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"key\": 1\n}\n", out)
}
