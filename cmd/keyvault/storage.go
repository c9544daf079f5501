package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/keyvault-contract/dump"
	"github.com/nspcc-dev/keyvault-contract/mirror"
	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
)

var flagDumpDir = &cli.StringFlag{
	Name:  "dir",
	Value: ".",
	Usage: "Directory with dumps",
}

var flagLabel = &cli.StringFlag{
	Name:  "label",
	Usage: "Label of the dump source (e.g. 'testnet'), must not contain hyphens",
}

var flagFrom = &cli.StringFlag{
	Name:  "from",
	Usage: "Account of the imported dump, the configured account if not set",
}

var syncCommand = &cli.Command{
	Name:  "sync",
	Usage: "Update local mirror of the account log",
	Action: func(cCtx *cli.Context) error {
		return withClient(cCtx, withContract, func(e *env, cl *client.Client) error {
			m, err := mirror.Open(e.cfg.MirrorPath, e.account,
				mirror.WithLogger(e.log),
				mirror.WithPageSize(uint32(e.cfg.PageSize)))
			if err != nil {
				return err
			}
			defer m.Close()

			res, err := m.Sync(cCtx.Context, cl)
			if err != nil {
				return err
			}

			n, err := m.Count()
			if err != nil {
				return err
			}

			if res.Reset {
				fmt.Fprintln(cCtx.App.Writer, "Remote log was reset, local copy discarded")
			}
			fmt.Fprintf(cCtx.App.Writer, "%d entries fetched, %d entries mirrored\n", res.Added, n)
			return nil
		})
	},
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Dump the account log to the file system",
	Flags: []cli.Flag{flagDumpDir, flagLabel},
	Action: func(cCtx *cli.Context) error {
		label := cCtx.String(flagLabel.Name)
		if label == "" {
			return errors.New("missing dump label")
		}

		return withClient(cCtx, withContract, func(e *env, cl *client.Client) error {
			block, err := e.actor.GetBlockCount()
			if err != nil {
				return fmt.Errorf("get number of the latest block: %w", err)
			}

			entries, err := cl.All(cCtx.Context)
			if err != nil {
				return err
			}

			keyHash, err := e.reader().KeyHash(e.account)
			if err != nil {
				return fmt.Errorf("get key hash: %w", keyvault.ParseError(err))
			}

			dir := cCtx.String(flagDumpDir.Name)

			err = os.MkdirAll(dir, 0700)
			if err != nil {
				return fmt.Errorf("create dump dir: %w", err)
			}

			id := dump.ID{Label: label, Account: e.account}

			d, err := dump.NewCreator(dir, id, dump.AccountInfo{
				Contract: e.contract,
				Block:    block,
				Count:    uint32(len(entries)),
				KeyHash:  keyHash,
			})
			if err != nil {
				return fmt.Errorf("init local dumper: %w", err)
			}
			defer d.Close()

			for i := range entries {
				err = d.Write(entries[i])
				if err != nil {
					return err
				}
			}

			err = d.Flush()
			if err != nil {
				return fmt.Errorf("flush dump: %w", err)
			}

			fmt.Fprintf(cCtx.App.Writer, "%d entries dumped to '%s' as %s\n", len(entries), dir, id)
			return nil
		})
	},
}

var importCommand = &cli.Command{
	Name:  "import",
	Usage: "Append dumped account log to the empty log of the configured account",
	Flags: []cli.Flag{flagDumpDir, flagLabel, flagFrom},
	Action: func(cCtx *cli.Context) error {
		return withClient(cCtx, withSigner|withContract, func(e *env, cl *client.Client) error {
			from := e.account
			if s := cCtx.String(flagFrom.Name); s != "" {
				var err error
				from, err = parseHash160(s)
				if err != nil {
					return fmt.Errorf("decode source account: %w", err)
				}
			}

			entries, err := readDump(cCtx.String(flagDumpDir.Name), cCtx.String(flagLabel.Name), from)
			if err != nil {
				return err
			}

			n, err := cl.Count()
			if err != nil {
				return err
			}
			if n != 0 {
				return fmt.Errorf("account log must be empty, has %d entries", n)
			}

			for len(entries) > 0 {
				batch := entries[:min(len(entries), e.cfg.PageSize)]

				err = cl.AppendAt(cCtx.Context, n, batch)
				if err != nil {
					if errors.Is(err, keyvault.ErrIndexMismatch) {
						return fmt.Errorf("account log changed during import after %d entries: %w", n, err)
					}
					return err
				}

				n += uint32(len(batch))
				entries = entries[len(batch):]
			}

			fmt.Fprintf(cCtx.App.Writer, "%d entries imported from %s\n", n, address.Uint160ToString(from))
			return nil
		})
	},
}

// readDump returns entries of the only dump of the given account. Any label
// matches if label is empty.
func readDump(dir, label string, account util.Uint160) ([]client.Entry, error) {
	var (
		found   bool
		entries []client.Entry
	)

	err := dump.IterateDumps(dir, func(id dump.ID, r *dump.Reader) error {
		if !id.Account.Equals(account) || (label != "" && id.Label != label) {
			return nil
		}
		if found {
			return fmt.Errorf("several dumps of %s found, specify label", address.Uint160ToString(account))
		}

		found = true
		entries = r.Entries()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read dumps: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("dump of %s not found in '%s'", address.Uint160ToString(account), dir)
	}

	return entries, nil
}
