package keyvault

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err    error
	res    *result.Invoke
	method string
	params []any
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method = operation
	t.params = params
	return t.res, t.err
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: "HALT",
		Stack: items,
	}
}

func TestReader(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.EntryCount(util.Uint160{})
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(stackitem.Make(42))
	count, err := r.EntryCount(util.Uint160{9})
	require.NoError(t, err)
	require.EqualValues(t, 42, count.Int64())
	require.Equal(t, "entryCount", ti.method)

	ti.res = &result.Invoke{State: "FAULT", FaultException: "unhandled exception: \"account not found\""}
	_, err = r.EntryCount(util.Uint160{9})
	require.ErrorIs(t, ParseError(err), ErrAccountNotFound)

	entry := stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte{1, 2}),
		stackitem.NewByteArray([]byte{3, 4, 5}),
	})

	ti.res = halt(entry)
	e, err := r.Entry(util.Uint160{9}, big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, e.IV)
	require.Equal(t, []byte{3, 4, 5}, e.Ciphertext)

	ti.res = halt(stackitem.NewArray([]stackitem.Item{entry, entry}))
	entries, err := r.Entries(util.Uint160{9}, big.NewInt(0), big.NewInt(10))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	ti.res = halt(stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}))
	_, err = r.Entries(util.Uint160{9}, big.NewInt(0), big.NewInt(10))
	require.Error(t, err)

	ti.res = halt(stackitem.Null{})
	keyHash, err := r.KeyHash(util.Uint160{9})
	require.NoError(t, err)
	require.Nil(t, keyHash)

	ti.res = halt(stackitem.NewBuffer([]byte{7}))
	keyHash, err = r.KeyHash(util.Uint160{9})
	require.NoError(t, err)
	require.Equal(t, []byte{7}, keyHash)

	self := util.Uint160{1, 2, 3}
	ti.res = halt(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(2),
		stackitem.NewByteArray(self.BytesBE()),
		stackitem.NewBuffer([]byte("1.0.0")),
	}))
	v, err := r.Versions()
	require.NoError(t, err)
	require.EqualValues(t, 1, v.Self.Int64())
	require.EqualValues(t, 2, v.Latest.Int64())
	require.Equal(t, self, v.LatestAddress)
	require.Equal(t, []byte("1.0.0"), v.ClientVersion)
}

func TestEntriesToParameter(t *testing.T) {
	p := entriesToParameter([]*KeyvaultEncryptedEntry{
		{IV: []byte{1}, Ciphertext: []byte{2}},
		{IV: []byte{3}, Ciphertext: []byte{4}},
	})
	require.Equal(t, []any{
		[]any{[]byte{1}, []byte{2}},
		[]any{[]byte{3}, []byte{4}},
	}, p)
}

func TestEventsFromApplicationLog(t *testing.T) {
	_, err := EntriesAddedEventsFromApplicationLog(nil)
	require.Error(t, err)

	account := util.Uint160{4, 5, 6}
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "Transfer",
					Item: stackitem.NewArray(nil),
				},
				{
					Name: "EntriesAdded",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(account.BytesBE()),
						stackitem.Make(3),
						stackitem.Make(2),
					}),
				},
				{
					Name: "AccountReset",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(account.BytesBE()),
					}),
				},
			},
		}},
	}

	added, err := EntriesAddedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, account, added[0].Account)
	require.EqualValues(t, 3, added[0].FirstIndex.Int64())
	require.EqualValues(t, 2, added[0].Number.Int64())

	_, err = AccountResetEventsFromApplicationLog(log)
	require.Error(t, err)

	created, err := AccountCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, created)
}
