package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Database.Backend)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, uint32(0), cfg.Market.ProtocolFeeBps)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marketd.toml")
	content := `
[market]
protocol_fee_bps = 250
owner = "aa00000000000000000000000000000000000001"

[server]
port = 9090

[database]
backend = "pebble"
path = "/tmp/marketd-test.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(250), cfg.Market.ProtocolFeeBps)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "pebble", cfg.Database.Backend)

	fee, err := cfg.FeeConfig()
	require.NoError(t, err)
	require.Equal(t, uint32(250), fee.ProtocolFeeBps)
	require.False(t, fee.Owner.IsZero())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Market.ProtocolFeeBps = 501
	require.Error(t, cfg.Validate())

	cfg.Market.ProtocolFeeBps = 0
	cfg.Database.Backend = "flatfile"
	require.Error(t, cfg.Validate())

	cfg.Database.Backend = "pebble"
	cfg.Database.Path = ""
	require.Error(t, cfg.Validate())

	cfg.Database.Path = "x.db"
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg.Server.Port = 8080
	cfg.Market.Owner = "not-hex"
	require.Error(t, cfg.Validate())
}
