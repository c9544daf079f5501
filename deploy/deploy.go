/*
Package deploy provides deploy-or-update procedure of the KeyVault contract.
*/
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/keyvault-contract/contracts"
	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// ErrContractNotFound is returned when Prm.Address is set but there is no
// contract deployed at it.
var ErrContractNotFound = errors.New("contract not found")

// DefaultRetryInterval is a pause between deployment attempts if
// Prm.RetryInterval is not set.
const DefaultRetryInterval = 5 * time.Second

// Blockchain groups services provided by particular Neo blockchain network
// that are required for contract deployment. Transactions are awaited only if
// the implementation supports either polling or event-based waiting (see
// [actor.Waiter]).
type Blockchain interface {
	actor.RPCActor
}

// Prm groups parameters of the KeyVault deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract address depends on it, and updates must be signed by the
	// contract owner.
	LocalAccount *wallet.Account

	// Compiled KeyVault contract.
	Contract contracts.Contract

	// Address of the already deployed contract to keep up-to-date. If zero,
	// the address of the fresh deployment from LocalAccount is used, it
	// depends on the contract checksum and changes with every code update.
	Address util.Uint160

	// Owner of the newly deployed contract. LocalAccount is used if zero.
	Owner util.Uint160

	// Latest compatible client version stored on deployment.
	ClientVersion string

	// Number of failed attempts after which Deploy gives up. Zero means
	// retrying until the context is done.
	MaxAttempts int

	// Pause between failed attempts, DefaultRetryInterval if not set.
	RetryInterval time.Duration
}

// Action is a step Deploy chooses to take.
type Action uint8

const (
	// ActionNone means the contract is up-to-date.
	ActionNone Action = iota
	// ActionDeploy means the contract is missing and should be deployed.
	ActionDeploy
	// ActionUpdate means the contract differs from the provided one.
	ActionUpdate
)

// String implements fmt.Stringer.
func (x Action) String() string {
	switch x {
	case ActionNone:
		return "none"
	case ActionDeploy:
		return "deploy"
	case ActionUpdate:
		return "update"
	default:
		return fmt.Sprintf("unknown(%d)", x)
	}
}

// Result groups results of the successful Deploy.
type Result struct {
	// Contract address.
	Address util.Uint160
	// Performed action.
	Action Action
}

// Decide selects the action needed to bring network contract state st to the
// given contract. st is nil if the contract is not deployed yet.
func Decide(st *state.Contract, c contracts.Contract) (Action, error) {
	if st == nil {
		return ActionDeploy, nil
	}

	if st.NEF.Checksum != c.NEF.Checksum {
		return ActionUpdate, nil
	}

	have, err := json.Marshal(st.Manifest)
	if err != nil {
		return 0, fmt.Errorf("encode network contract manifest: %w", err)
	}

	want, err := json.Marshal(c.Manifest)
	if err != nil {
		return 0, fmt.Errorf("encode local contract manifest: %w", err)
	}

	if !bytes.Equal(have, want) {
		return ActionUpdate, nil
	}

	return ActionNone, nil
}

// Address returns address of the contract deployed from the given account.
func Address(sender util.Uint160, c contracts.Contract) util.Uint160 {
	return state.CreateContractHash(sender, c.NEF.Checksum, c.Manifest.Name)
}

// target returns address of the contract to be processed and whether it was
// set explicitly.
func target(prm Prm, sender util.Uint160) (util.Uint160, bool) {
	if !prm.Address.Equals(util.Uint160{}) {
		return prm.Address, true
	}
	return Address(sender, prm.Contract), false
}

// plan is Decide that never deploys a new contract in place of the known one.
func plan(st *state.Contract, c contracts.Contract, fixed bool) (Action, error) {
	if st == nil && fixed {
		return 0, ErrContractNotFound
	}
	return Decide(st, c)
}

// DeployData returns data argument of the deployment transaction.
func DeployData(owner util.Uint160, clientVersion string) []any {
	return []any{owner, clientVersion}
}

// Deploy makes sure the KeyVault contract from Prm is present in the
// blockchain: deploys it if it's missing and updates it if it differs. When
// Prm.Address is set, only the contract at this address is updated and
// ErrContractNotFound is returned if it is missing.
//
// Deploy aborts by context, after Prm.MaxAttempts failed attempts or when a
// fatal error occurs. Progress is logged in detail.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	switch {
	case prm.Blockchain == nil:
		return Result{}, errors.New("missing blockchain")
	case prm.LocalAccount == nil:
		return Result{}, errors.New("missing local account")
	case prm.MaxAttempts < 0:
		return Result{}, fmt.Errorf("invalid number of attempts %d", prm.MaxAttempts)
	}

	log := prm.Logger
	if log == nil {
		log = zap.NewNop()
	}

	retryInterval := prm.RetryInterval
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return Result{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	owner := prm.Owner
	if owner.Equals(util.Uint160{}) {
		owner = localActor.Sender()
	}

	var fixed bool

	res := Result{}
	res.Address, fixed = target(prm, localActor.Sender())
	log = log.With(zap.Stringer("contract", res.Address))

	for attempt := 1; ; attempt++ {
		res.Action, err = deployOnce(localActor, prm, owner, res.Address, fixed, log)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrContractNotFound) {
			return res, err
		}

		log.Info("deployment attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if prm.MaxAttempts > 0 && attempt >= prm.MaxAttempts {
			return res, fmt.Errorf("deploy contract: %w", err)
		}

		select {
		case <-ctx.Done():
			return res, fmt.Errorf("wait for the next attempt: %w", ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

func deployOnce(a *actor.Actor, prm Prm, owner, address util.Uint160, fixed bool, log *zap.Logger) (Action, error) {
	st, err := management.NewReader(a).GetContract(address)
	if err != nil {
		return 0, fmt.Errorf("get network contract state: %w", err)
	}

	action, err := plan(st, prm.Contract, fixed)
	if err != nil {
		return 0, err
	}

	var aer *state.AppExecResult

	switch action {
	case ActionNone:
		log.Info("contract is up-to-date")
		return action, nil
	case ActionDeploy:
		log.Info("contract is missing, deploying...", zap.Stringer("owner", owner))
		aer, err = a.Wait(management.New(a).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest,
			DeployData(owner, prm.ClientVersion)))
	case ActionUpdate:
		log.Info("contract differs, updating...")

		var bNEF, bManifest []byte

		bNEF, err = prm.Contract.NEF.Bytes()
		if err != nil {
			return 0, fmt.Errorf("encode NEF: %w", err)
		}

		bManifest, err = json.Marshal(prm.Contract.Manifest)
		if err != nil {
			return 0, fmt.Errorf("encode manifest: %w", err)
		}

		aer, err = a.Wait(keyvault.New(a, address).Update(bNEF, bManifest, nil))
	}
	if err == nil {
		err = keyvault.CheckExecResult(aer)
	}
	if err != nil {
		return 0, fmt.Errorf("%s contract: %w", action, keyvault.ParseError(err))
	}

	log.Info("contract successfully processed", zap.Stringer("action", action))

	return action, nil
}
