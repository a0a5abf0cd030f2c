package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	o := Default()
	o.Config = filepath.Join(t.TempDir(), "missing.json")

	require.NoError(t, Load(o, envOf(nil)))
	assert.Equal(t, "localhost:8080", o.Addr)
	assert.Equal(t, "file", o.StorageKind)
	assert.Equal(t, "info", o.LogLevel)
}

func TestLoad_FlagsThenFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr":":9000","storage_kind":"sqlite","storage_dsn":"r.db"}`), 0o600))

	o := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, o)
	require.NoError(t, fs.Parse([]string{"-c", path, "-a", ":7000", "-l", "debug"}))

	require.NoError(t, Load(o, envOf(map[string]string{"STORAGE_DSN": "env.db"})))

	assert.Equal(t, ":9000", o.Addr, "file overrides flags")
	assert.Equal(t, "sqlite", o.StorageKind)
	assert.Equal(t, "env.db", o.StorageDSN, "env overrides file")
	assert.Equal(t, "debug", o.LogLevel, "flag kept when file is silent")
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reportkeeper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_kind: memory\ngenerator_fixture: testdata/response.json\n"), 0o600))

	o := Default()
	require.NoError(t, Load(o, envOf(map[string]string{"CONFIG": path})))

	assert.Equal(t, path, o.Config)
	assert.Equal(t, "memory", o.StorageKind)
	assert.Equal(t, "testdata/response.json", o.GeneratorFixture)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	o := Default()
	o.Config = path
	err := Load(o, envOf(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
