package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
)

var versionsCommand = &cli.Command{
	Name:  "versions",
	Usage: "Print contract versions, owner and fee",
	Action: func(cCtx *cli.Context) error {
		e, err := newEnv(cCtx, withContract)
		if err != nil {
			return err
		}
		defer e.close()

		r := e.reader()

		v, err := r.Versions()
		if err != nil {
			return fmt.Errorf("get versions: %w", keyvault.ParseError(err))
		}

		owner, err := r.Owner()
		if err != nil {
			return fmt.Errorf("get owner: %w", keyvault.ParseError(err))
		}

		fee, err := r.Fee()
		if err != nil {
			return fmt.Errorf("get fee: %w", keyvault.ParseError(err))
		}

		w := cCtx.App.Writer
		fmt.Fprintf(w, "Contract version: %s\n", v.Self)
		fmt.Fprintf(w, "Latest version: %s\n", v.Latest)
		fmt.Fprintf(w, "Latest address: %s\n", address.Uint160ToString(v.LatestAddress))
		fmt.Fprintf(w, "Compatible client version: %s\n", v.ClientVersion)
		fmt.Fprintf(w, "Owner: %s\n", address.Uint160ToString(owner))
		fmt.Fprintf(w, "Fee: %s GAS\n", fixedn.ToString(fee, gasDecimals))
		return nil
	},
}

var balanceCommand = &cli.Command{
	Name:  "balance",
	Usage: "Print GAS balance of the contract",
	Action: func(cCtx *cli.Context) error {
		e, err := newEnv(cCtx, withContract)
		if err != nil {
			return err
		}
		defer e.close()

		b, err := e.reader().Balance()
		if err != nil {
			return fmt.Errorf("get balance: %w", keyvault.ParseError(err))
		}

		fmt.Fprintf(cCtx.App.Writer, "%s GAS\n", fixedn.ToString(b, gasDecimals))
		return nil
	},
}

var flagOwner = &cli.StringFlag{
	Name:     "owner",
	Usage:    "Address of the new owner",
	Required: true,
}

var flagFee = &cli.StringFlag{
	Name:     "fee",
	Usage:    "Account creation fee in GAS",
	Required: true,
}

var flagContractVersion = &cli.UintFlag{
	Name:     "version",
	Usage:    "Latest contract version",
	Required: true,
}

var flagLatestAddress = &cli.StringFlag{
	Name:     "address",
	Usage:    "Address or script hash of the latest contract",
	Required: true,
}

var flagClientVersion = &cli.StringFlag{
	Name:     "client-version",
	Usage:    "Latest compatible client version",
	Required: true,
}

var adminCommand = &cli.Command{
	Name:  "admin",
	Usage: "Contract owner operations",
	Subcommands: []*cli.Command{
		{
			Name:  "set-owner",
			Usage: "Transfer contract ownership",
			Flags: []cli.Flag{flagOwner},
			Action: func(cCtx *cli.Context) error {
				owner, err := parseHash160(cCtx.String(flagOwner.Name))
				if err != nil {
					return err
				}

				return ownerCall(cCtx, "owner changed", func(c *keyvault.Contract) (util.Uint256, uint32, error) {
					return c.SetOwner(owner)
				})
			},
		},
		{
			Name:  "set-fee",
			Usage: "Set account creation fee",
			Flags: []cli.Flag{flagFee},
			Action: func(cCtx *cli.Context) error {
				fee, err := fixedn.FromString(cCtx.String(flagFee.Name), gasDecimals)
				if err != nil {
					return fmt.Errorf("invalid fee: %w", err)
				}

				return ownerCall(cCtx, "fee changed", func(c *keyvault.Contract) (util.Uint256, uint32, error) {
					return c.SetFee(fee)
				})
			},
		},
		{
			Name:  "set-version",
			Usage: "Announce the latest contract version",
			Flags: []cli.Flag{flagContractVersion},
			Action: func(cCtx *cli.Context) error {
				v := new(big.Int).SetUint64(uint64(cCtx.Uint(flagContractVersion.Name)))

				return ownerCall(cCtx, "latest version changed", func(c *keyvault.Contract) (util.Uint256, uint32, error) {
					return c.SetLatestContractVersion(v)
				})
			},
		},
		{
			Name:  "set-address",
			Usage: "Announce the latest contract address",
			Flags: []cli.Flag{flagLatestAddress},
			Action: func(cCtx *cli.Context) error {
				addr, err := parseHash160(cCtx.String(flagLatestAddress.Name))
				if err != nil {
					return err
				}

				return ownerCall(cCtx, "latest address changed", func(c *keyvault.Contract) (util.Uint256, uint32, error) {
					return c.SetLatestContractAddress(addr)
				})
			},
		},
		{
			Name:  "set-client-version",
			Usage: "Announce the latest compatible client version",
			Flags: []cli.Flag{flagClientVersion},
			Action: func(cCtx *cli.Context) error {
				v := []byte(cCtx.String(flagClientVersion.Name))

				return ownerCall(cCtx, "client version changed", func(c *keyvault.Contract) (util.Uint256, uint32, error) {
					return c.SetLatestCompatibleClientVersion(v)
				})
			},
		},
		{
			Name:  "withdraw",
			Usage: "Transfer collected fees to the owner",
			Action: func(cCtx *cli.Context) error {
				return ownerCall(cCtx, "fees withdrawn", func(c *keyvault.Contract) (util.Uint256, uint32, error) {
					return c.Withdraw()
				})
			},
		},
	},
}

// ownerCall sends transaction composed by f on behalf of the configured
// account and waits for its successful execution.
func ownerCall(cCtx *cli.Context, done string, f func(*keyvault.Contract) (util.Uint256, uint32, error)) error {
	e, err := newEnv(cCtx, withSigner|withContract)
	if err != nil {
		return err
	}
	defer e.close()

	h, err := e.await(f(e.contractRW()))
	if err != nil {
		return err
	}

	fmt.Fprintf(cCtx.App.Writer, "Contract %s: %s (tx %s)\n", address.Uint160ToString(e.contract), done, h.StringLE())
	return nil
}
