package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	id := ID{Label: "testnet", Account: util.Uint160{1, 2, 3}}

	var res ID
	require.NoError(t, res.decodeString(id.String()+sep+infoFileSuffix))
	require.Equal(t, id, res)

	require.Error(t, res.decodeString("testnet"))
	require.Error(t, res.decodeString("testnet-0OIl"))
}

func TestCreatorReader(t *testing.T) {
	dir := t.TempDir()

	entries := []client.Entry{
		{IV: []byte{1, 2, 3}, Ciphertext: []byte("first")},
		{IV: []byte{4, 5, 6}, Ciphertext: []byte("second")},
		{IV: []byte{}, Ciphertext: []byte{}},
	}
	info := AccountInfo{
		Contract: util.Uint160{9},
		Block:    100,
		Count:    uint32(len(entries)),
		KeyHash:  []byte("hash"),
	}
	id := ID{Label: "mainnet", Account: util.Uint160{7}}

	c, err := NewCreator(dir, id, info)
	require.NoError(t, err)
	for i := range entries {
		require.NoError(t, c.Write(entries[i]))
	}
	require.NoError(t, c.Flush())
	c.Close()

	_, err = NewCreator(dir, id, info)
	require.ErrorIs(t, err, os.ErrExist)

	var found int
	err = IterateDumps(dir, func(readID ID, r *Reader) error {
		found++
		require.Equal(t, id, readID)
		require.Equal(t, info, r.Info())

		res := r.Entries()
		require.Len(t, res, len(entries))
		for i := range entries {
			require.Equal(t, entries[i].IV, append([]byte{}, res[i].IV...))
			require.Equal(t, entries[i].Ciphertext, append([]byte{}, res[i].Ciphertext...))
		}

		var next uint32
		r.IterateEntries(func(index uint32, _ client.Entry) {
			require.Equal(t, next, index)
			next++
		})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, found)
}

func TestCreator_ExistingFiles(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "testnet", Account: util.Uint160{5}}

	pathInfo := filepath.Join(dir, id.String()+sep+infoFileSuffix)
	require.NoError(t, os.WriteFile(pathInfo, []byte("{}"), 0600))

	_, err := NewCreator(dir, id, AccountInfo{})
	require.ErrorIs(t, err, os.ErrExist)

	_, err = os.Stat(filepath.Join(dir, id.String()+sep+entriesFileSuffix))
	require.ErrorIs(t, err, os.ErrNotExist)

	data, err := os.ReadFile(pathInfo)
	require.NoError(t, err)
	require.Equal(t, []byte("{}"), data)
}

func TestCreator_FlushCount(t *testing.T) {
	c, err := NewCreator(t.TempDir(), ID{Label: "l"}, AccountInfo{Count: 2})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write(client.Entry{IV: []byte{1}, Ciphertext: []byte{2}}))
	require.Error(t, c.Flush())
}

func TestIterateDumps_Corrupted(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "l", Account: util.Uint160{1}}

	c, err := NewCreator(dir, id, AccountInfo{Count: 1})
	require.NoError(t, err)
	require.NoError(t, c.Write(client.Entry{IV: []byte{1}, Ciphertext: []byte{2}}))
	require.NoError(t, c.Flush())
	c.Close()

	entriesPath := filepath.Join(dir, id.String()+sep+entriesFileSuffix)

	t.Run("index gap", func(t *testing.T) {
		require.NoError(t, os.WriteFile(entriesPath, []byte("1,AQ==,Ag==\n"), 0600))
		err := IterateDumps(dir, func(ID, *Reader) error { return nil })
		require.Error(t, err)
	})
	t.Run("invalid base64", func(t *testing.T) {
		require.NoError(t, os.WriteFile(entriesPath, []byte("0,???,Ag==\n"), 0600))
		err := IterateDumps(dir, func(ID, *Reader) error { return nil })
		require.Error(t, err)
	})
	t.Run("missing entries", func(t *testing.T) {
		require.NoError(t, os.WriteFile(entriesPath, nil, 0600))
		err := IterateDumps(dir, func(ID, *Reader) error { return nil })
		require.Error(t, err)
	})
}

func TestIterateDumps_MissingDir(t *testing.T) {
	err := IterateDumps(filepath.Join(t.TempDir(), "none"), func(ID, *Reader) error {
		t.Fatal("must not be called")
		return nil
	})
	require.NoError(t, err)
}
