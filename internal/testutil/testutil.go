package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/require"
)

// NewContext returns a context that carries a verbose test logger and is canceled when the test ends.
func NewContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
	})
	return logr.NewContext(ctx, NewLogger(t))
}

func NewLogger(t *testing.T) logr.Logger {
	return testr.NewWithOptions(t, testr.Options{Verbosity: 99})
}

// ReadFixture reads a file relative to the calling package's directory.
func ReadFixture(t testing.TB, elem ...string) []byte {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join(elem...))
	require.NoError(t, err)
	return buf
}

// WriteFile writes content under a temporary directory that is removed when the test ends.
// Leading newlines are trimmed so fixtures can be declared as raw string literals.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0o644))
	return path
}
