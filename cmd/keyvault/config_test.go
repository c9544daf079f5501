package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testConfig = `
rpc_endpoint: http://localhost:30333
wallet: wallet.json
account: NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM
contract: 0x9c5a5d0e3a9b1e3d5e0c9b2a1f0e9d8c7b6a5948
dial_timeout: 30s
max_retries: 2
page_size: 16
mirror_path: /tmp/mirror
`

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		require.Equal(t, defaultConfig(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "none.yml"))
		require.Error(t, err)
	})

	t.Run("file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(p, []byte(testConfig), 0600))

		cfg, err := loadConfig(p)
		require.NoError(t, err)
		require.Equal(t, Config{
			RPCEndpoint: "http://localhost:30333",
			Wallet:      "wallet.json",
			Account:     "NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM",
			Contract:    "0x9c5a5d0e3a9b1e3d5e0c9b2a1f0e9d8c7b6a5948",
			DialTimeout: 30 * time.Second,
			MaxRetries:  2,
			PageSize:    16,
			MirrorPath:  "/tmp/mirror",
		}, cfg)
		require.NoError(t, cfg.validate())
	})

	t.Run("partial", func(t *testing.T) {
		cfg := defaultConfig()
		require.NoError(t, decodeConfig(strings.NewReader("rpc_endpoint: ws://node:30333/ws\n"), &cfg))
		require.Equal(t, "ws://node:30333/ws", cfg.RPCEndpoint)
		require.Equal(t, defaultPageSize, cfg.PageSize)
	})

	t.Run("empty", func(t *testing.T) {
		cfg := defaultConfig()
		require.NoError(t, decodeConfig(strings.NewReader(""), &cfg))
		require.Equal(t, defaultConfig(), cfg)
	})

	t.Run("unknown field", func(t *testing.T) {
		cfg := defaultConfig()
		require.Error(t, decodeConfig(strings.NewReader("rpc: http://localhost:30333\n"), &cfg))
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := defaultConfig()
	valid.RPCEndpoint = "http://localhost:30333"
	require.NoError(t, valid.validate())

	for name, modify := range map[string]func(*Config){
		"endpoint":     func(c *Config) { c.RPCEndpoint = "" },
		"dial timeout": func(c *Config) { c.DialTimeout = 0 },
		"retries":      func(c *Config) { c.MaxRetries = -1 },
		"page size":    func(c *Config) { c.PageSize = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			c := valid
			modify(&c)
			require.Error(t, c.validate())
		})
	}
}

func TestConfig_ApplyFlags(t *testing.T) {
	cfg := defaultConfig()
	cfg.RPCEndpoint = "http://from-file"
	cfg.Wallet = "file-wallet.json"

	app := newApp()
	app.Action = func(cCtx *cli.Context) error {
		cfg.applyFlags(cCtx)
		return nil
	}

	err := app.Run([]string{"keyvault", "--rpc", "http://from-flag", "--contract", "NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM"})
	require.NoError(t, err)

	require.Equal(t, "http://from-flag", cfg.RPCEndpoint)
	require.Equal(t, "file-wallet.json", cfg.Wallet)
	require.Equal(t, "NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM", cfg.Contract)
	require.Empty(t, cfg.Account)
}

func TestParseHash160(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	res, err := parseHash160(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, res)

	res, err = parseHash160(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, res)

	res, err = parseHash160("0x" + h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, res)

	_, err = parseHash160("not a hash")
	require.Error(t, err)
}
