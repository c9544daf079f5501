package main

import (
	"fmt"

	"github.com/nspcc-dev/keyvault-contract/contracts"
	"github.com/nspcc-dev/keyvault-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
)

var flagContractDir = &cli.StringFlag{
	Name:  "contract-dir",
	Value: "contracts/keyvault",
	Usage: "Directory with compiled contract.nef and manifest.json",
}

var flagDeployOwner = &cli.StringFlag{
	Name:  "owner",
	Usage: "Owner of the deployed contract, the configured account if not set",
}

var flagDeployClientVersion = &cli.StringFlag{
	Name:  "client-version",
	Value: "1.0.0",
	Usage: "Latest compatible client version stored on deployment",
}

var deployCommand = &cli.Command{
	Name:  "deploy",
	Usage: "Deploy KeyVault contract or update the configured one",
	Flags: []cli.Flag{flagContractDir, flagDeployOwner, flagDeployClientVersion},
	Action: func(cCtx *cli.Context) error {
		c, err := contracts.ReadDir(cCtx.String(flagContractDir.Name))
		if err != nil {
			return err
		}

		var owner util.Uint160
		if s := cCtx.String(flagDeployOwner.Name); s != "" {
			owner, err = parseHash160(s)
			if err != nil {
				return fmt.Errorf("decode owner: %w", err)
			}
		}

		e, err := newEnv(cCtx, withSigner)
		if err != nil {
			return err
		}
		defer e.close()

		res, err := deploy.Deploy(cCtx.Context, deploy.Prm{
			Logger:        e.log,
			Blockchain:    e.rpc,
			LocalAccount:  e.acc,
			Contract:      c,
			Address:       e.contract,
			Owner:         owner,
			ClientVersion: cCtx.String(flagDeployClientVersion.Name),
			MaxAttempts:   e.cfg.MaxRetries + 1,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cCtx.App.Writer, "Contract %s (%s): %s\n",
			address.Uint160ToString(res.Address), res.Address.StringLE(), res.Action)
		return nil
	},
}
