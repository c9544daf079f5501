package deploy

import (
	"context"
	"testing"

	"github.com/nspcc-dev/keyvault-contract/contracts"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testContract(tb testing.TB, script []byte) contracts.Contract {
	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	return contracts.Contract{
		NEF:      *_nef,
		Manifest: *manifest.NewManifest("KeyVault"),
	}
}

func TestDecide(t *testing.T) {
	c := testContract(t, []byte{1, 2, 3})

	action, err := Decide(nil, c)
	require.NoError(t, err)
	require.Equal(t, ActionDeploy, action)

	st := &state.Contract{ContractBase: state.ContractBase{
		NEF:      c.NEF,
		Manifest: c.Manifest,
	}}

	action, err = Decide(st, c)
	require.NoError(t, err)
	require.Equal(t, ActionNone, action)

	t.Run("script changed", func(t *testing.T) {
		action, err := Decide(st, testContract(t, []byte{1, 2, 3, 4}))
		require.NoError(t, err)
		require.Equal(t, ActionUpdate, action)
	})

	t.Run("manifest changed", func(t *testing.T) {
		changed := testContract(t, []byte{1, 2, 3})
		changed.Manifest.ABI.Events = append(changed.Manifest.ABI.Events, manifest.Event{Name: "AccountCreated"})

		action, err := Decide(st, changed)
		require.NoError(t, err)
		require.Equal(t, ActionUpdate, action)
	})
}

func TestAddress(t *testing.T) {
	c := testContract(t, []byte{1, 2, 3})
	sender := util.Uint160{1}

	require.Equal(t, state.CreateContractHash(sender, c.NEF.Checksum, "KeyVault"), Address(sender, c))
	require.NotEqual(t, Address(sender, c), Address(util.Uint160{2}, c))
}

func TestTarget(t *testing.T) {
	c := testContract(t, []byte{1, 2, 3})
	sender := util.Uint160{1}

	addr, fixed := target(Prm{Contract: c}, sender)
	require.False(t, fixed)
	require.Equal(t, Address(sender, c), addr)

	deployed := util.Uint160{9}
	addr, fixed = target(Prm{Contract: c, Address: deployed}, sender)
	require.True(t, fixed)
	require.Equal(t, deployed, addr)

	// code changes must not move the target
	addr, _ = target(Prm{Contract: testContract(t, []byte{4, 5, 6}), Address: deployed}, sender)
	require.Equal(t, deployed, addr)
}

func TestPlan(t *testing.T) {
	v1 := testContract(t, []byte{1, 2, 3})
	v2 := testContract(t, []byte{1, 2, 3, 4})
	st := &state.Contract{ContractBase: state.ContractBase{
		Hash:     util.Uint160{9},
		NEF:      v1.NEF,
		Manifest: v1.Manifest,
	}}

	action, err := plan(st, v2, true)
	require.NoError(t, err)
	require.Equal(t, ActionUpdate, action)

	action, err = plan(st, v1, true)
	require.NoError(t, err)
	require.Equal(t, ActionNone, action)

	_, err = plan(nil, v2, true)
	require.ErrorIs(t, err, ErrContractNotFound)

	action, err = plan(nil, v2, false)
	require.NoError(t, err)
	require.Equal(t, ActionDeploy, action)
}

func TestDeployData(t *testing.T) {
	owner := util.Uint160{3}
	require.Equal(t, []any{owner, "1.0.0"}, DeployData(owner, "1.0.0"))
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "none", ActionNone.String())
	require.Equal(t, "deploy", ActionDeploy.String())
	require.Equal(t, "update", ActionUpdate.String())
	require.Equal(t, "unknown(10)", Action(10).String())
}

func TestDeploy_InvalidParameters(t *testing.T) {
	ctx := context.Background()

	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	_, err = Deploy(ctx, Prm{Logger: zaptest.NewLogger(t), LocalAccount: acc})
	require.Error(t, err)

	_, err = Deploy(ctx, Prm{Logger: zaptest.NewLogger(t), Blockchain: struct{ Blockchain }{}})
	require.Error(t, err)

	_, err = Deploy(ctx, Prm{
		Blockchain:   struct{ Blockchain }{},
		LocalAccount: acc,
		MaxAttempts:  -1,
	})
	require.Error(t, err)
}
