package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/urfave/cli/v2"
)

// GAS token precision.
const gasDecimals = 8

var flagAcceptTerms = &cli.BoolFlag{
	Name:  "accept-terms",
	Usage: "Accept terms and conditions of the KeyVault service",
}

var flagAmount = &cli.StringFlag{
	Name:  "amount",
	Usage: "Amount of GAS to pay, current fee if not set",
}

var flagKeyHash = &cli.StringFlag{
	Name:  "key-hash",
	Usage: "Optional hash of the encryption key stored with the account",
}

var flagIV = &cli.StringFlag{
	Name:     "iv",
	Usage:    "Initialization vector of the encrypted entry",
	Required: true,
}

var flagCiphertext = &cli.StringFlag{
	Name:     "ciphertext",
	Usage:    "Encrypted entry",
	Required: true,
}

var flagIndex = &cli.UintFlag{
	Name:     "index",
	Aliases:  []string{"i"},
	Usage:    "Index of the entry",
	Required: true,
}

var flagStart = &cli.UintFlag{
	Name:  "start",
	Usage: "Index of the first listed entry",
}

var flagMax = &cli.UintFlag{
	Name:  "max",
	Usage: "Maximum number of listed entries, all entries if not set",
}

var createAccountCommand = &cli.Command{
	Name:  "create-account",
	Usage: "Create account by paying the fee in GAS",
	Flags: []cli.Flag{flagAcceptTerms, flagAmount, flagKeyHash, flagEncoding},
	Action: func(cCtx *cli.Context) error {
		if !cCtx.Bool(flagAcceptTerms.Name) {
			return errors.New("terms and conditions must be accepted, see --accept-terms")
		}

		var keyHash []byte
		if cCtx.IsSet(flagKeyHash.Name) {
			var err error
			keyHash, err = decodeBytes(cCtx.String(flagEncoding.Name), cCtx.String(flagKeyHash.Name))
			if err != nil {
				return fmt.Errorf("key hash: %w", err)
			}
		}

		e, err := newEnv(cCtx, withSigner|withContract)
		if err != nil {
			return err
		}
		defer e.close()

		var amount *big.Int
		if s := cCtx.String(flagAmount.Name); s != "" {
			amount, err = fixedn.FromString(s, gasDecimals)
			if err != nil {
				return fmt.Errorf("invalid amount '%s': %w", s, err)
			}
		} else {
			amount, err = e.reader().Fee()
			if err != nil {
				return fmt.Errorf("get fee: %w", keyvault.ParseError(err))
			}
		}

		h, err := e.await(keyvault.CreateAccount(e.actor, e.contract, e.account, amount, keyHash))
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		fmt.Fprintf(cCtx.App.Writer, "Account %s created, paid %s GAS (tx %s)\n",
			address.Uint160ToString(e.account), fixedn.ToString(amount, gasDecimals), h.StringLE())
		return nil
	},
}

var addCommand = &cli.Command{
	Name:  "add",
	Usage: "Append encrypted entry to the account log",
	Flags: []cli.Flag{flagIV, flagCiphertext, flagEncoding},
	Action: func(cCtx *cli.Context) error {
		enc := cCtx.String(flagEncoding.Name)

		iv, err := decodeBytes(enc, cCtx.String(flagIV.Name))
		if err != nil {
			return fmt.Errorf("IV: %w", err)
		}

		ciphertext, err := decodeBytes(enc, cCtx.String(flagCiphertext.Name))
		if err != nil {
			return fmt.Errorf("ciphertext: %w", err)
		}

		return withClient(cCtx, withSigner|withContract, func(_ *env, cl *client.Client) error {
			index, err := cl.Append(cCtx.Context, client.Entry{IV: iv, Ciphertext: ciphertext})
			if err != nil {
				return err
			}

			fmt.Fprintf(cCtx.App.Writer, "Entry #%d added\n", index)
			return nil
		})
	},
}

var getCommand = &cli.Command{
	Name:  "get",
	Usage: "Print encrypted entry of the account log",
	Flags: []cli.Flag{flagIndex, flagEncoding},
	Action: func(cCtx *cli.Context) error {
		return withClient(cCtx, withContract, func(_ *env, cl *client.Client) error {
			index := uint32(cCtx.Uint(flagIndex.Name))

			entry, err := cl.Get(index)
			if err != nil {
				return err
			}

			return printEntry(cCtx.App.Writer, cCtx.String(flagEncoding.Name), index, entry)
		})
	},
}

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "Print encrypted entries of the account log",
	Flags: []cli.Flag{flagStart, flagMax, flagEncoding},
	Action: func(cCtx *cli.Context) error {
		return withClient(cCtx, withContract, func(_ *env, cl *client.Client) error {
			start := uint32(cCtx.Uint(flagStart.Name))

			var (
				entries []client.Entry
				err     error
			)

			if cCtx.IsSet(flagMax.Name) {
				entries, err = cl.Range(start, uint32(cCtx.Uint(flagMax.Name)))
			} else {
				entries, err = cl.All(cCtx.Context)
				if err == nil {
					if int(start) > len(entries) {
						return fmt.Errorf("start %d is out of log bounds %d", start, len(entries))
					}
					entries = entries[start:]
				}
			}
			if err != nil {
				return err
			}

			for i := range entries {
				err = printEntry(cCtx.App.Writer, cCtx.String(flagEncoding.Name), start+uint32(i), entries[i])
				if err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var countCommand = &cli.Command{
	Name:  "count",
	Usage: "Print number of entries in the account log",
	Action: func(cCtx *cli.Context) error {
		return withClient(cCtx, withContract, func(_ *env, cl *client.Client) error {
			n, err := cl.Count()
			if err != nil {
				return err
			}

			fmt.Fprintln(cCtx.App.Writer, n)
			return nil
		})
	},
}

var resetCommand = &cli.Command{
	Name:  "reset",
	Usage: "Discard all entries of the account log",
	Action: func(cCtx *cli.Context) error {
		return withClient(cCtx, withSigner|withContract, func(_ *env, cl *client.Client) error {
			err := cl.Reset(cCtx.Context)
			if err != nil {
				return err
			}

			fmt.Fprintln(cCtx.App.Writer, "Account log reset")
			return nil
		})
	},
}

// withClient prepares environment with the account client and passes them
// into f.
func withClient(cCtx *cli.Context, mode envMode, f func(*env, *client.Client) error) error {
	e, err := newEnv(cCtx, mode)
	if err != nil {
		return err
	}
	defer e.close()

	cl, err := e.client()
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	return f(e, cl)
}

func printEntry(w io.Writer, enc string, index uint32, e client.Entry) error {
	iv, err := encodeBytes(enc, e.IV)
	if err != nil {
		return err
	}

	ciphertext, err := encodeBytes(enc, e.Ciphertext)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%d %s %s\n", index, iv, ciphertext)
	return err
}
