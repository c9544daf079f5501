// Package keyvaultconst contains constants shared by the KeyVault contract
// and its off-chain clients.
package keyvaultconst

const (
	// SelfVersion is the contract revision reported by the versions method.
	// It is bumped only when the storage layout or the method set changes in
	// a way clients must know about.
	SelfVersion = 1

	// MaxEntries is the maximum number of entries a single account can hold.
	MaxEntries = 0xFFFFFFFF

	// MaxContractVersion is the upper bound of the latest contract version
	// pointer.
	MaxContractVersion = 255
)

// Exception messages thrown by the contract.
const (
	ErrAccountNotFound       = "account not found"
	ErrAccountAlreadyExists  = "account already exists"
	ErrInsufficientPayment   = "insufficient payment"
	ErrIndexMismatch         = "index mismatch"
	ErrEntriesAlreadyRemoved = "entries already removed"
	ErrTransferFailed        = "transfer failed"
	ErrTermsNotAccepted      = "terms and conditions not accepted"
	ErrEmptyBatch            = "empty batch"
	ErrEntryLimit            = "entry limit exceeded"
	ErrInvalidAccount        = "invalid account"
	ErrInvalidFee            = "invalid fee"
	ErrInvalidVersion        = "invalid contract version"
	ErrInvalidPayload        = "invalid payment payload"
)
