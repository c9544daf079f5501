package keyvault

import (
	"github.com/nspcc-dev/keyvault-contract/common"
	"github.com/nspcc-dev/keyvault-contract/contracts/keyvault/keyvaultconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// EncryptedEntry is a single record of the account log. Both fields are
	// opaque to the contract.
	EncryptedEntry struct {
		IV         []byte
		Ciphertext []byte
	}

	// VersionInfo describes contract revision and the pointers clients use
	// to discover a successor contract.
	VersionInfo struct {
		// Revision of this contract
		Self int
		// Latest known contract revision
		Latest int
		// Address of the latest contract, this contract if not set
		LatestAddress interop.Hash160
		// Minimal client version able to work with the latest contract
		ClientVersion []byte
	}
)

const (
	ownerKey         = 'o'
	feeKey           = 'f'
	latestVersionKey = 'v'
	latestAddressKey = 'a'
	clientVersionKey = 'c'

	countPrefix   = 'n'
	keyHashPrefix = 'h'
	entryPrefix   = 'e'

	// indexBase makes convert.ToBytes produce at least five bytes for any
	// 32-bit index, so the first four are its little-endian form.
	indexBase = 0x1_0000_0000
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner         interop.Hash160
		clientVersion []byte
	})

	if len(args.owner) != interop.Hash160Len {
		panic(keyvaultconst.ErrInvalidAccount)
	}

	clientVersion := args.clientVersion
	if clientVersion == nil {
		clientVersion = []byte{}
	}

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, feeKey, 0)
	storage.Put(ctx, latestVersionKey, keyvaultconst.SelfVersion)
	storage.Put(ctx, clientVersionKey, clientVersion)

	runtime.Log("keyvault contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	if !common.HasUpdateAccess(getOwner(ctx)) {
		panic(common.ErrOwnerWitnessFailed)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("keyvault contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// It creates an account for the payer. data must be an array of the terms
// acceptance flag and an optional key hash stored alongside the account.
// The whole transfer fails if the payer does not accept the terms, is
// already registered or pays less than the current fee.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	common.CheckGASPayment("keyvault")

	if len(from) != interop.Hash160Len {
		panic(keyvaultconst.ErrInvalidAccount)
	}
	if data == nil {
		panic(keyvaultconst.ErrTermsNotAccepted)
	}

	args := data.([]any)
	if len(args) == 0 {
		panic(keyvaultconst.ErrInvalidPayload)
	}
	if !args[0].(bool) {
		panic(keyvaultconst.ErrTermsNotAccepted)
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, countKey(from)) != nil {
		panic(keyvaultconst.ErrAccountAlreadyExists)
	}

	fee := storage.Get(ctx, feeKey).(int)
	if amount < fee {
		panic(keyvaultconst.ErrInsufficientPayment)
	}

	storage.Put(ctx, countKey(from), 0)
	if len(args) > 1 && args[1] != nil {
		keyHash := args[1].([]byte)
		if len(keyHash) != 0 {
			storage.Put(ctx, keyHashKey(from), keyHash)
		}
	}

	runtime.Notify("AccountCreated", from, amount)
}

// IsRegistered returns true if the account has been created.
func IsRegistered(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, countKey(account)) != nil
}

// EntryCount returns the number of entries in the account log.
func EntryCount(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getCount(ctx, account)
}

// EntryCountForCaller returns the number of entries in the log of the
// transaction sender.
func EntryCountForCaller() int {
	return EntryCount(sender())
}

// KeyHash returns the key hash stored at account creation, nil if the
// account was created without it.
func KeyHash(account interop.Hash160) []byte {
	ctx := storage.GetReadOnlyContext()
	getCount(ctx, account)

	data := storage.Get(ctx, keyHashKey(account))
	if data == nil {
		return nil
	}
	return data.([]byte)
}

// AddEntry appends a single entry to the account log. expectedIndex must be
// equal to the current number of entries, otherwise the call fails and the
// caller is expected to re-read the count and retry.
func AddEntry(account interop.Hash160, expectedIndex int, iv []byte, ciphertext []byte) {
	entry := EncryptedEntry{
		IV:         iv,
		Ciphertext: ciphertext,
	}
	appendEntries(account, expectedIndex, []EncryptedEntry{entry})
}

// AddEntries appends all entries to the account log starting at
// expectedIndex. Either all entries are stored or none of them.
func AddEntries(account interop.Hash160, expectedIndex int, entries []EncryptedEntry) {
	if len(entries) == 0 {
		panic(keyvaultconst.ErrEmptyBatch)
	}
	appendEntries(account, expectedIndex, entries)
}

func appendEntries(account interop.Hash160, expectedIndex int, entries []EncryptedEntry) {
	common.CheckWitness(account)

	ctx := storage.GetContext()
	count := getCount(ctx, account)
	if expectedIndex != count {
		panic(keyvaultconst.ErrIndexMismatch)
	}
	if count+len(entries) > keyvaultconst.MaxEntries {
		panic(keyvaultconst.ErrEntryLimit)
	}

	for i := range entries {
		common.SetSerialized(ctx, entryKey(account, count+i), entries[i])
	}
	storage.Put(ctx, countKey(account), count+len(entries))

	runtime.Notify("EntriesAdded", account, count, len(entries))
}

// Entry returns the entry stored at index in the account log.
func Entry(account interop.Hash160, index int) EncryptedEntry {
	ctx := storage.GetReadOnlyContext()

	count := getCount(ctx, account)
	if index < 0 || index >= count {
		panic(keyvaultconst.ErrIndexMismatch)
	}

	return getEntry(ctx, account, index)
}

// EntryForCaller returns the entry stored at index in the log of the
// transaction sender.
func EntryForCaller(index int) EncryptedEntry {
	return Entry(sender(), index)
}

// Entries returns at most maxCount entries of the account log starting at
// start. The result is cut at the end of the log.
func Entries(account interop.Hash160, start int, maxCount int) []EncryptedEntry {
	ctx := storage.GetReadOnlyContext()

	count := getCount(ctx, account)
	if start < 0 || start >= count {
		panic(keyvaultconst.ErrIndexMismatch)
	}

	n := count - start
	if maxCount < n {
		n = maxCount
	}

	result := []EncryptedEntry{}
	for i := 0; i < n; i++ {
		result = append(result, getEntry(ctx, account, start+i))
	}
	return result
}

// ResetAccount discards all entries of the account log. Stored entries are
// not removed, they are overwritten by subsequent appends.
func ResetAccount(account interop.Hash160) {
	common.CheckWitness(account)

	ctx := storage.GetContext()
	count := getCount(ctx, account)
	if count == 0 {
		panic(keyvaultconst.ErrEntriesAlreadyRemoved)
	}

	storage.Put(ctx, countKey(account), 0)

	runtime.Notify("AccountReset", account, count)
}

// SetOwner transfers contract ownership.
func SetOwner(owner interop.Hash160) {
	ctx := storage.GetContext()
	previous := checkOwner(ctx)

	if len(owner) != interop.Hash160Len {
		panic(keyvaultconst.ErrInvalidAccount)
	}

	storage.Put(ctx, ownerKey, owner)

	runtime.Notify("OwnerChanged", previous, owner)
}

// SetFee sets the amount of GAS required to create an account.
func SetFee(fee int) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if fee < 0 {
		panic(keyvaultconst.ErrInvalidFee)
	}

	storage.Put(ctx, feeKey, fee)

	runtime.Notify("FeeChanged", fee)
}

// SetLatestContractVersion sets the latest known contract revision.
func SetLatestContractVersion(version int) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if version < 0 || version > keyvaultconst.MaxContractVersion {
		panic(keyvaultconst.ErrInvalidVersion)
	}

	storage.Put(ctx, latestVersionKey, version)
}

// SetLatestContractAddress sets the address of the successor contract.
func SetLatestContractAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if len(addr) != interop.Hash160Len {
		panic(keyvaultconst.ErrInvalidAccount)
	}

	storage.Put(ctx, latestAddressKey, addr)
}

// SetLatestCompatibleClientVersion sets the minimal client version able to
// work with the latest contract.
func SetLatestCompatibleClientVersion(version []byte) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if version == nil {
		version = []byte{}
	}

	storage.Put(ctx, clientVersionKey, version)
}

// Withdraw transfers the whole GAS balance of the contract to the owner.
// It does nothing if the balance is zero.
func Withdraw() {
	ctx := storage.GetReadOnlyContext()
	owner := checkOwner(ctx)

	balance := common.SelfBalance()
	if balance == 0 {
		return
	}

	if !gas.Transfer(runtime.GetExecutingScriptHash(), owner, balance, nil) {
		panic(keyvaultconst.ErrTransferFailed)
	}

	runtime.Notify("Withdrawal", owner, balance)
}

// Owner returns the contract owner.
func Owner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// Fee returns the amount of GAS required to create an account.
func Fee() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, feeKey).(int)
}

// Versions returns contract revision info. The latest address is the
// address of this contract until a successor is set.
func Versions() VersionInfo {
	ctx := storage.GetReadOnlyContext()

	latestAddress := runtime.GetExecutingScriptHash()
	addr := storage.Get(ctx, latestAddressKey)
	if addr != nil {
		latestAddress = addr.(interop.Hash160)
	}

	return VersionInfo{
		Self:          keyvaultconst.SelfVersion,
		Latest:        storage.Get(ctx, latestVersionKey).(int),
		LatestAddress: latestAddress,
		ClientVersion: storage.Get(ctx, clientVersionKey).([]byte),
	}
}

// Balance returns GAS balance of the contract.
func Balance() int {
	return common.SelfBalance()
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func checkOwner(ctx storage.Context) interop.Hash160 {
	owner := getOwner(ctx)
	common.CheckOwnerWitness(owner)
	return owner
}

func getCount(ctx storage.Context, account interop.Hash160) int {
	count, ok := common.GetInt(ctx, countKey(account))
	if !ok {
		panic(keyvaultconst.ErrAccountNotFound)
	}
	return count
}

func getEntry(ctx storage.Context, account interop.Hash160, index int) EncryptedEntry {
	return common.GetSerialized(ctx, entryKey(account, index)).(EncryptedEntry)
}

func sender() interop.Hash160 {
	return runtime.GetScriptContainer().Sender
}

func countKey(account interop.Hash160) []byte {
	return append([]byte{countPrefix}, account...)
}

func keyHashKey(account interop.Hash160) []byte {
	return append([]byte{keyHashPrefix}, account...)
}

// entryKey returns storage key of the entry: prefix, account and 4-byte
// little-endian index.
func entryKey(account interop.Hash160, index int) []byte {
	key := append([]byte{entryPrefix}, account...)
	le := convert.ToBytes(index + indexBase)
	return append(key, le[:4]...)
}
