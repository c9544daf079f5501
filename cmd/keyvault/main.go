package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var flagConfig = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to YAML configuration file",
	EnvVars: []string{"KEYVAULT_CONFIG"},
}

var flagRPC = &cli.StringFlag{
	Name:  "rpc",
	Usage: "Network address of the Neo RPC server (overrides rpc_endpoint)",
}

var flagWallet = &cli.StringFlag{
	Name:    "wallet",
	Aliases: []string{"w"},
	Usage:   "Path to NEP-6 wallet (overrides wallet)",
}

var flagAccount = &cli.StringFlag{
	Name:    "account",
	Aliases: []string{"a"},
	Usage:   "Account address (overrides account)",
}

var flagContract = &cli.StringFlag{
	Name:  "contract",
	Usage: "KeyVault contract address or script hash (overrides contract)",
}

var flagDebug = &cli.BoolFlag{
	Name:  "debug",
	Usage: "Enable debug logging",
}

var flagEncoding = &cli.StringFlag{
	Name:  "encoding",
	Value: encodingHex,
	Usage: "Encoding of binary values: hex, base64 or base58",
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "keyvault",
		Usage: "Work with KeyVault contract accounts",
		Flags: []cli.Flag{
			flagConfig,
			flagRPC,
			flagWallet,
			flagAccount,
			flagContract,
			flagDebug,
		},
		Commands: []*cli.Command{
			createAccountCommand,
			addCommand,
			getCommand,
			listCommand,
			countCommand,
			resetCommand,
			versionsCommand,
			balanceCommand,
			adminCommand,
			syncCommand,
			exportCommand,
			importCommand,
			deployCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
