package keyvault

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// AdmissionPayload returns data attached to the GAS transfer which creates
// an account. keyHash is optional.
func AdmissionPayload(keyHash []byte) []any {
	if len(keyHash) == 0 {
		return []any{true, nil}
	}
	return []any{true, keyHash}
}

// CreateAccount transfers amount of GAS from the sender to the contract,
// creating an account for the sender. The amount must not be less than the
// current contract fee.
// This transaction is signed and immediately sent to the network.
func CreateAccount(actor nep17.Actor, contract util.Uint160, from util.Uint160, amount *big.Int, keyHash []byte) (util.Uint256, uint32, error) {
	return gas.New(actor).Transfer(from, contract, amount, AdmissionPayload(keyHash))
}

// CreateAccountTransaction is the same as CreateAccount, but the signed
// transaction is returned to the caller instead of being sent.
func CreateAccountTransaction(actor nep17.Actor, contract util.Uint160, from util.Uint160, amount *big.Int, keyHash []byte) (*transaction.Transaction, error) {
	return gas.New(actor).TransferTransaction(from, contract, amount, AdmissionPayload(keyHash))
}
