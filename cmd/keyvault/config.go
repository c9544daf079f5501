package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Config is a YAML configuration of the utility. Command line flags override
// the values read from the file.
type Config struct {
	RPCEndpoint string        `yaml:"rpc_endpoint"`
	Wallet      string        `yaml:"wallet"`
	Account     string        `yaml:"account"`
	Contract    string        `yaml:"contract"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	PageSize    int           `yaml:"page_size"`
	MirrorPath  string        `yaml:"mirror_path"`
}

const (
	defaultDialTimeout = 15 * time.Second
	defaultMaxRetries  = 5
	defaultPageSize    = 64
	defaultMirrorPath  = "keyvault-mirror"
)

func defaultConfig() Config {
	return Config{
		DialTimeout: defaultDialTimeout,
		MaxRetries:  defaultMaxRetries,
		PageSize:    defaultPageSize,
		MirrorPath:  defaultMirrorPath,
	}
}

// loadConfig reads configuration from the file. Unknown keys are rejected.
// Defaults are returned for empty path.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return cfg, decodeConfig(f, &cfg)
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyFlags overrides config values with explicitly set global flags.
func (c *Config) applyFlags(cCtx *cli.Context) {
	if cCtx.IsSet(flagRPC.Name) {
		c.RPCEndpoint = cCtx.String(flagRPC.Name)
	}
	if cCtx.IsSet(flagWallet.Name) {
		c.Wallet = cCtx.String(flagWallet.Name)
	}
	if cCtx.IsSet(flagAccount.Name) {
		c.Account = cCtx.String(flagAccount.Name)
	}
	if cCtx.IsSet(flagContract.Name) {
		c.Contract = cCtx.String(flagContract.Name)
	}
}

func (c Config) validate() error {
	switch {
	case c.RPCEndpoint == "":
		return errors.New("missing RPC endpoint")
	case c.DialTimeout <= 0:
		return fmt.Errorf("invalid dial timeout %s", c.DialTimeout)
	case c.MaxRetries < 0:
		return fmt.Errorf("invalid number of retries %d", c.MaxRetries)
	case c.PageSize <= 0:
		return fmt.Errorf("invalid page size %d", c.PageSize)
	}
	return nil
}

// parseHash160 decodes Neo address or hex-encoded little-endian script hash.
func parseHash160(s string) (util.Uint160, error) {
	if u, err := address.StringToUint160(s); err == nil {
		return u, nil
	}

	u, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return u, fmt.Errorf("'%s' is neither an address nor a script hash", s)
	}
	return u, nil
}
