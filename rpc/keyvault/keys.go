package keyvault

import (
	"encoding/binary"
	"errors"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// CompositeKeySize is the length of the entry key without storage prefix.
const CompositeKeySize = util.Uint160Size + 4

// EntryPrefix is the contract storage prefix of entries.
const EntryPrefix = 'e'

// CompositeKey returns the key addressing entry with the given index in the
// account log: account script hash followed by 4-byte little-endian index.
func CompositeKey(account util.Uint160, index uint32) []byte {
	key := make([]byte, CompositeKeySize)
	copy(key, account.BytesBE())
	binary.LittleEndian.PutUint32(key[util.Uint160Size:], index)
	return key
}

// ParseCompositeKey splits key produced by CompositeKey.
func ParseCompositeKey(key []byte) (util.Uint160, uint32, error) {
	if len(key) != CompositeKeySize {
		return util.Uint160{}, 0, errors.New("invalid composite key length")
	}
	account, err := util.Uint160DecodeBytesBE(key[:util.Uint160Size])
	if err != nil {
		return util.Uint160{}, 0, err
	}
	return account, binary.LittleEndian.Uint32(key[util.Uint160Size:]), nil
}

// StorageKey returns the key of the entry in the contract storage.
func StorageKey(account util.Uint160, index uint32) []byte {
	return append([]byte{EntryPrefix}, CompositeKey(account, index)...)
}
