package keyvault

import (
	"github.com/nspcc-dev/keyvault-contract/contracts/keyvault/keyvaultconst"
)

const (
	// SelfVersion is the revision of the contract served by this package.
	SelfVersion = keyvaultconst.SelfVersion

	// MaxEntries is the maximum number of entries a single account can hold.
	MaxEntries = keyvaultconst.MaxEntries
)
