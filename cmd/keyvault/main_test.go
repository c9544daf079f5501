package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/keyvault-contract/dump"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) error {
	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	return app.Run(append([]string{"keyvault"}, args...))
}

func TestApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{
		"create-account", "add", "get", "list", "count", "reset",
		"versions", "balance", "admin", "sync", "export", "import", "deploy",
	} {
		require.NotNil(t, app.Command(name), name)
	}

	var names []string
	for _, c := range app.Command("admin").Subcommands {
		names = append(names, c.Name)
	}
	require.ElementsMatch(t, []string{
		"set-owner", "set-fee", "set-version", "set-address", "set-client-version", "withdraw",
	}, names)
}

func TestApp_LocalFailures(t *testing.T) {
	t.Run("terms not accepted", func(t *testing.T) {
		require.ErrorContains(t, runApp(t, "create-account"), "terms and conditions")
	})
	t.Run("missing entry", func(t *testing.T) {
		require.Error(t, runApp(t, "add", "--iv", "00"))
	})
	t.Run("invalid IV", func(t *testing.T) {
		require.Error(t, runApp(t, "add", "--iv", "zz", "--ciphertext", "00"))
	})
	t.Run("missing endpoint", func(t *testing.T) {
		require.ErrorContains(t, runApp(t, "count"), "missing RPC endpoint")
	})
	t.Run("missing label", func(t *testing.T) {
		require.ErrorContains(t, runApp(t, "export"), "missing dump label")
	})
}

func TestPrintEntry(t *testing.T) {
	var buf bytes.Buffer

	err := printEntry(&buf, encodingHex, 3, client.Entry{IV: []byte{0xab}, Ciphertext: []byte{0xcd, 0xef}})
	require.NoError(t, err)
	require.Equal(t, "3 ab cdef\n", buf.String())

	require.Error(t, printEntry(&buf, "base32", 0, client.Entry{}))
}

func TestReadDump(t *testing.T) {
	dir := t.TempDir()
	acc := util.Uint160{1}

	write := func(label string, account util.Uint160, entries ...client.Entry) {
		d, err := dump.NewCreator(dir, dump.ID{Label: label, Account: account}, dump.AccountInfo{Count: uint32(len(entries))})
		require.NoError(t, err)
		for i := range entries {
			require.NoError(t, d.Write(entries[i]))
		}
		require.NoError(t, d.Flush())
		d.Close()
	}

	_, err := readDump(dir, "", acc)
	require.Error(t, err)

	e := client.Entry{IV: []byte{1}, Ciphertext: []byte{2}}
	write("testnet", acc, e, e)
	write("testnet", util.Uint160{2}, e)

	res, err := readDump(dir, "", acc)
	require.NoError(t, err)
	require.Len(t, res, 2)

	write("mainnet", acc, e)

	_, err = readDump(dir, "", acc)
	require.Error(t, err)

	res, err = readDump(dir, "mainnet", acc)
	require.NoError(t, err)
	require.Len(t, res, 1)
}
