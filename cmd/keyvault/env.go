package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// passwordEnv is an environment variable with the wallet password. Terminal
// prompt is used if it is not set.
const passwordEnv = "KEYVAULT_WALLET_PASSWORD"

// envMode specifies resources required by the command.
type envMode uint8

const (
	// transactions are signed by the configured wallet account
	withSigner envMode = 1 << iota
	// KeyVault contract address is required
	withContract
)

// env groups resources shared by the commands interacting with the
// blockchain.
type env struct {
	cfg Config
	log *zap.Logger

	rpc   *rpcclient.Client
	actor *actor.Actor
	acc   *wallet.Account

	// account the command works with, signer by default
	account  util.Uint160
	contract util.Uint160
}

// newLogger returns logger writing to stderr tagged with the unique run ID.
func newLogger(debug bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := c.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return l.With(zap.String("run", uuid.NewString())), nil
}

// newEnv reads the configuration and dials Neo RPC server. Without withSigner
// mode randomly generated account is used for test invocations only.
func newEnv(cCtx *cli.Context, mode envMode) (*env, error) {
	signer := mode&withSigner != 0

	cfg, err := loadConfig(cCtx.String(flagConfig.Name))
	if err != nil {
		return nil, err
	}

	cfg.applyFlags(cCtx)

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	var contract util.Uint160
	if cfg.Contract != "" {
		contract, err = parseHash160(cfg.Contract)
		if err != nil {
			return nil, fmt.Errorf("decode contract: %w", err)
		}
	} else if mode&withContract != 0 {
		return nil, errors.New("missing contract")
	}

	log, err := newLogger(cCtx.Bool(flagDebug.Name))
	if err != nil {
		return nil, err
	}

	var acc *wallet.Account
	if signer {
		acc, err = openAccount(cfg)
	} else {
		acc, err = wallet.NewAccount()
	}
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(cCtx.Context, cfg.RPCEndpoint, rpcclient.Options{
		DialTimeout:    cfg.DialTimeout,
		RequestTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	res := &env{
		cfg:      cfg,
		log:      log,
		rpc:      c,
		actor:    act,
		acc:      acc,
		account:  act.Sender(),
		contract: contract,
	}

	if !signer && cfg.Account != "" {
		res.account, err = parseHash160(cfg.Account)
		if err != nil {
			res.close()
			return nil, fmt.Errorf("decode account: %w", err)
		}
	}

	log.Debug("connected to the blockchain",
		zap.String("endpoint", cfg.RPCEndpoint),
		zap.Stringer("contract", contract),
		zap.Stringer("account", res.account))

	return res, nil
}

func (x *env) close() {
	x.rpc.Close()
	_ = x.log.Sync()
}

func (x *env) reader() *keyvault.ContractReader {
	return keyvault.NewReader(x.actor, x.contract)
}

func (x *env) contractRW() *keyvault.Contract {
	return keyvault.New(x.actor, x.contract)
}

func (x *env) client() (*client.Client, error) {
	return client.New(client.Prm{
		Ledger:      x.contractRW(),
		Waiter:      x.actor,
		Account:     x.account,
		Logger:      x.log,
		MaxAttempts: x.cfg.MaxRetries + 1,
		PageSize:    x.cfg.PageSize,
	})
}

// await waits for the transaction and checks its execution result.
func (x *env) await(h util.Uint256, vub uint32, err error) (util.Uint256, error) {
	if err != nil {
		return h, keyvault.ParseError(err)
	}

	x.log.Debug("transaction sent", zap.Stringer("tx", h), zap.Uint32("vub", vub))

	res, err := x.actor.Wait(h, vub, nil)
	if err != nil {
		return h, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}

	return h, keyvault.CheckExecResult(res)
}

// openAccount opens the configured wallet and decrypts the account using
// password from passwordEnv or the terminal.
func openAccount(cfg Config) (*wallet.Account, error) {
	if cfg.Wallet == "" {
		return nil, errors.New("missing wallet")
	}

	w, err := wallet.NewWalletFromFile(cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if cfg.Account != "" {
		h, err := parseHash160(cfg.Account)
		if err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", cfg.Account)
		}
	} else {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}
		acc = w.Accounts[0]
	}

	pass, err := readPassword(acc.Address)
	if err != nil {
		return nil, err
	}

	err = acc.Decrypt(pass, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

func readPassword(addr string) (string, error) {
	if v, ok := os.LookupEnv(passwordEnv); ok {
		return v, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("wallet password required; set %s or run interactively", passwordEnv)
	}

	fmt.Fprintf(os.Stderr, "Enter password for %s: ", addr)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimRight(string(b), "\r\n"), nil
}
