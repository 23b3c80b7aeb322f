package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.Addr)
	assert.Equal(t, "dev-secret-key", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.TokenValidity)
	assert.Empty(t, c.SeedFile)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\nsecret_key: from-file\ntoken_validity: 5m\n"), 0o600))
	os.Args = []string{"server", "-c", path, "-k", "from-flag"}

	cfg := LoadConfig()

	want := &Config{Addr: ":9000", SecretKey: "from-flag", TokenValidity: 5 * time.Minute}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFile_JSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seed_file":"seed.yaml","static_dir":"img"}`), 0o600))
	os.Args = []string{"server", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
	assert.Equal(t, "img", cfg.StaticDir)
	assert.Equal(t, ":8000", cfg.Addr)

	require.NoError(t, os.WriteFile(path, []byte(`{ broken`), 0o600))
	require.Panics(t, func() { parseFile(&Config{}) })
}

func TestLoadConfig_ShortValidityFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token_validity: 45s\n"), 0o600))

	os.Args = []string{"server", "-c", path}
	assert.Equal(t, 45*time.Second, LoadConfig().TokenValidity)

	os.Args = []string{"server", "-c", path, "-t", "2"}
	assert.Equal(t, 2*time.Minute, LoadConfig().TokenValidity)
}
