package keyvault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/keyvault-contract/common"
	"github.com/nspcc-dev/keyvault-contract/contracts/keyvault/keyvaultconst"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// Errors thrown by the contract. Use [ParseError] to match contract
// exceptions against them with [errors.Is].
var (
	ErrAccountNotFound       = errors.New(keyvaultconst.ErrAccountNotFound)
	ErrAccountAlreadyExists  = errors.New(keyvaultconst.ErrAccountAlreadyExists)
	ErrInsufficientPayment   = errors.New(keyvaultconst.ErrInsufficientPayment)
	ErrIndexMismatch         = errors.New(keyvaultconst.ErrIndexMismatch)
	ErrEntriesAlreadyRemoved = errors.New(keyvaultconst.ErrEntriesAlreadyRemoved)
	ErrTransferFailed        = errors.New(keyvaultconst.ErrTransferFailed)
	ErrTermsNotAccepted      = errors.New(keyvaultconst.ErrTermsNotAccepted)
	ErrEmptyBatch            = errors.New(keyvaultconst.ErrEmptyBatch)
	ErrEntryLimit            = errors.New(keyvaultconst.ErrEntryLimit)
	ErrNotOwner              = errors.New(common.ErrOwnerWitnessFailed)
	ErrWitnessFailed         = errors.New(common.ErrWitnessFailed)
)

// knownErrors is ordered so that messages containing other messages go
// first.
var knownErrors = []error{
	ErrNotOwner,
	ErrWitnessFailed,
	ErrAccountNotFound,
	ErrAccountAlreadyExists,
	ErrInsufficientPayment,
	ErrIndexMismatch,
	ErrEntriesAlreadyRemoved,
	ErrTransferFailed,
	ErrTermsNotAccepted,
	ErrEmptyBatch,
	ErrEntryLimit,
}

// ParseError wraps err with the contract error its message refers to. Errors
// not produced by the contract are returned as is.
func ParseError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, known := range knownErrors {
		if strings.Contains(msg, known.Error()) {
			if errors.Is(err, known) {
				return err
			}
			return fmt.Errorf("%w: %w", known, err)
		}
	}
	return err
}

// IsConflict reports whether err means the caller's view of the contract
// state is stale and the call may succeed after re-reading it.
func IsConflict(err error) bool {
	err = ParseError(err)
	return errors.Is(err, ErrIndexMismatch) ||
		errors.Is(err, ErrAccountAlreadyExists) ||
		errors.Is(err, ErrEntriesAlreadyRemoved)
}

// CheckExecResult returns an error if the transaction was not executed
// successfully.
func CheckExecResult(res *state.AppExecResult) error {
	if res == nil {
		return errors.New("nil execution result")
	}
	if res.VMState != vmstate.Halt {
		return ParseError(fmt.Errorf("transaction %s faulted: %s", res.Container.StringLE(), res.FaultException))
	}
	return nil
}
