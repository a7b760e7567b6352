package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEnvFile(t *testing.T) {
	path := writeEnvFile(t, `
# comment
TELEGRAM_BOT_TOKEN=123:abc
export REDIS_ADDR = localhost:6379
QUOTED="with spaces"
SINGLE='single'
garbage line without equals
=no-key
`)

	t.Setenv("TELEGRAM_BOT_TOKEN", "already-set")

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "already-set", os.Getenv("TELEGRAM_BOT_TOKEN"))
	assert.Equal(t, "localhost:6379", os.Getenv("REDIS_ADDR"))
	assert.Equal(t, "with spaces", os.Getenv("QUOTED"))
	assert.Equal(t, "single", os.Getenv("SINGLE"))

	t.Cleanup(func() {
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("QUOTED")
		os.Unsetenv("SINGLE")
	})
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	assert.NoError(t, LoadEnvFile("  "))
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{"A=1", "A", "1", true},
		{"export A=1", "A", "1", true},
		{`A="b c"`, "A", "b c", true},
		{"A='b'", "A", "b", true},
		{"A=", "A", "", true},
		{"# A=1", "", "", false},
		{"", "", "", false},
		{"no equals", "", "", false},
		{"=1", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := parseEnvLine(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		if tc.ok {
			assert.Equal(t, tc.key, key, tc.line)
			assert.Equal(t, tc.value, value, tc.line)
		}
	}
}
