package mirror

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// sliceSource is a remote log kept in memory.
type sliceSource struct {
	entries []client.Entry
	calls   int
	err     error
}

func (s *sliceSource) Count() (uint32, error) {
	return uint32(len(s.entries)), s.err
}

func (s *sliceSource) Range(start, maxCount uint32) ([]client.Entry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if start >= uint32(len(s.entries)) {
		return nil, errors.New("index mismatch")
	}
	end := min(uint32(len(s.entries)), start+maxCount)
	return append([]client.Entry(nil), s.entries[start:end]...), nil
}

func entry(b byte) client.Entry {
	return client.Entry{IV: []byte{0, 1, 2, 3}, Ciphertext: []byte{b, b}}
}

func openTestMirror(t *testing.T, path string, account util.Uint160) *Mirror {
	m, err := Open(path, account, WithLogger(zaptest.NewLogger(t)), WithPageSize(2))
	require.NoError(t, err)
	return m
}

func TestMirror_Sync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror")
	acc := util.Uint160{1, 2, 3}
	m := openTestMirror(t, path, acc)
	ctx := context.Background()

	src := &sliceSource{}
	res, err := m.Sync(ctx, src)
	require.NoError(t, err)
	require.Equal(t, SyncResult{}, res)

	src.entries = []client.Entry{entry(0), entry(1), entry(2), entry(3), entry(4)}
	res, err = m.Sync(ctx, src)
	require.NoError(t, err)
	require.Equal(t, SyncResult{Added: 5}, res)
	require.Equal(t, 3, src.calls)

	count, err := m.Count()
	require.NoError(t, err)
	require.EqualValues(t, 5, count)

	all, err := m.Entries()
	require.NoError(t, err)
	require.Equal(t, src.entries, all)

	t.Run("incremental", func(t *testing.T) {
		src.entries = append(src.entries, entry(5))
		res, err := m.Sync(ctx, src)
		require.NoError(t, err)
		require.Equal(t, SyncResult{Added: 1}, res)

		e, err := m.Get(5)
		require.NoError(t, err)
		require.Equal(t, entry(5), e)

		_, err = m.Get(6)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("persisted", func(t *testing.T) {
		require.NoError(t, m.Close())

		m = openTestMirror(t, path, acc)
		count, err := m.Count()
		require.NoError(t, err)
		require.EqualValues(t, 6, count)

		res, err := m.Sync(ctx, src)
		require.NoError(t, err)
		require.Equal(t, SyncResult{}, res)
	})

	t.Run("remote shrank", func(t *testing.T) {
		src.entries = []client.Entry{entry(10)}
		res, err := m.Sync(ctx, src)
		require.NoError(t, err)
		require.Equal(t, SyncResult{Added: 1, Reset: true}, res)

		all, err := m.Entries()
		require.NoError(t, err)
		require.Equal(t, src.entries, all)
	})

	t.Run("remote reset and refilled", func(t *testing.T) {
		src.entries = []client.Entry{entry(20), entry(21), entry(22)}
		res, err := m.Sync(ctx, src)
		require.NoError(t, err)
		require.Equal(t, SyncResult{Added: 3, Reset: true}, res)

		all, err := m.Entries()
		require.NoError(t, err)
		require.Equal(t, src.entries, all)
	})

	t.Run("source failure", func(t *testing.T) {
		src.err = errors.New("connection refused")
		t.Cleanup(func() { src.err = nil })

		_, err := m.Sync(ctx, src)
		require.Error(t, err)

		count, err := m.Count()
		require.NoError(t, err)
		require.EqualValues(t, 3, count)
	})

	t.Run("reset with the same last entry", func(t *testing.T) {
		// local log is 20, 21, 22
		src.entries = []client.Entry{entry(30), entry(31), entry(22), entry(23)}
		res, err := m.Sync(ctx, src)
		require.NoError(t, err)
		require.Equal(t, SyncResult{Added: 4, Reset: true}, res)

		all, err := m.Entries()
		require.NoError(t, err)
		require.Equal(t, src.entries, all)
	})

	require.NoError(t, m.Close())
}

func TestMirror_Accounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror")
	ctx := context.Background()

	m1 := openTestMirror(t, path, util.Uint160{1})
	_, err := m1.Sync(ctx, &sliceSource{entries: []client.Entry{entry(1), entry(2)}})
	require.NoError(t, err)
	require.NoError(t, m1.Close())

	m2 := openTestMirror(t, path, util.Uint160{2})
	t.Cleanup(func() { require.NoError(t, m2.Close()) })

	count, err := m2.Count()
	require.NoError(t, err)
	require.Zero(t, count)

	_, err = m2.Sync(ctx, &sliceSource{entries: []client.Entry{entry(3)}})
	require.NoError(t, err)

	all, err := m2.Entries()
	require.NoError(t, err)
	require.Equal(t, []client.Entry{entry(3)}, all)
}

func TestEntryEncoding(t *testing.T) {
	e := client.Entry{IV: make([]byte, 16), Ciphertext: []byte{1, 2, 3, 4}}

	data, err := encodeEntry(e)
	require.NoError(t, err)

	decoded, err := decodeEntry(data)
	require.NoError(t, err)
	require.Equal(t, e, decoded)

	_, err = decodeEntry(data[:len(data)-1])
	require.Error(t, err)
}
