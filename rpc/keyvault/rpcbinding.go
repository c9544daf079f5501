// Package keyvault contains RPC wrappers for KeyVault contract.
package keyvault

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// KeyvaultEncryptedEntry is a contract-specific keyvault.EncryptedEntry type used by its methods.
type KeyvaultEncryptedEntry struct {
	IV []byte
	Ciphertext []byte
}

// KeyvaultVersionInfo is a contract-specific keyvault.VersionInfo type used by its methods.
type KeyvaultVersionInfo struct {
	Self *big.Int
	Latest *big.Int
	LatestAddress util.Uint160
	ClientVersion []byte
}

// AccountCreatedEvent represents "AccountCreated" event emitted by the contract.
type AccountCreatedEvent struct {
	Account util.Uint160
	Amount *big.Int
}

// EntriesAddedEvent represents "EntriesAdded" event emitted by the contract.
type EntriesAddedEvent struct {
	Account util.Uint160
	FirstIndex *big.Int
	Number *big.Int
}

// AccountResetEvent represents "AccountReset" event emitted by the contract.
type AccountResetEvent struct {
	Account util.Uint160
	Removed *big.Int
}

// OwnerChangedEvent represents "OwnerChanged" event emitted by the contract.
type OwnerChangedEvent struct {
	Previous util.Uint160
	Owner util.Uint160
}

// FeeChangedEvent represents "FeeChanged" event emitted by the contract.
type FeeChangedEvent struct {
	Fee *big.Int
}

// WithdrawalEvent represents "Withdrawal" event emitted by the contract.
type WithdrawalEvent struct {
	Owner util.Uint160
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Balance invokes `balance` method of contract.
func (c *ContractReader) Balance() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balance"))
}

// Entries invokes `entries` method of contract.
func (c *ContractReader) Entries(account util.Uint160, start *big.Int, maxCount *big.Int) ([]*KeyvaultEncryptedEntry, error) {
	return itemToKeyvaultEncryptedEntryArray(unwrap.Item(c.invoker.Call(c.hash, "entries", account, start, maxCount)))
}

// Entry invokes `entry` method of contract.
func (c *ContractReader) Entry(account util.Uint160, index *big.Int) (*KeyvaultEncryptedEntry, error) {
	return itemToKeyvaultEncryptedEntry(unwrap.Item(c.invoker.Call(c.hash, "entry", account, index)))
}

// EntryCount invokes `entryCount` method of contract.
func (c *ContractReader) EntryCount(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "entryCount", account))
}

// EntryCountForCaller invokes `entryCountForCaller` method of contract.
func (c *ContractReader) EntryCountForCaller() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "entryCountForCaller"))
}

// EntryForCaller invokes `entryForCaller` method of contract.
func (c *ContractReader) EntryForCaller(index *big.Int) (*KeyvaultEncryptedEntry, error) {
	return itemToKeyvaultEncryptedEntry(unwrap.Item(c.invoker.Call(c.hash, "entryForCaller", index)))
}

// Fee invokes `fee` method of contract.
func (c *ContractReader) Fee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "fee"))
}

// IsRegistered invokes `isRegistered` method of contract.
func (c *ContractReader) IsRegistered(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isRegistered", account))
}

// KeyHash invokes `keyHash` method of contract. It returns nil if the account
// was created without a key hash.
func (c *ContractReader) KeyHash(account util.Uint160) ([]byte, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "keyHash", account))
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	return item.TryBytes()
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Versions invokes `versions` method of contract.
func (c *ContractReader) Versions() (*KeyvaultVersionInfo, error) {
	return itemToKeyvaultVersionInfo(unwrap.Item(c.invoker.Call(c.hash, "versions")))
}

// AddEntries creates a transaction invoking `addEntries` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddEntries(account util.Uint160, expectedIndex *big.Int, entries []*KeyvaultEncryptedEntry) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addEntries", account, expectedIndex, entriesToParameter(entries))
}

// AddEntriesTransaction creates a transaction invoking `addEntries` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddEntriesTransaction(account util.Uint160, expectedIndex *big.Int, entries []*KeyvaultEncryptedEntry) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addEntries", account, expectedIndex, entriesToParameter(entries))
}

// AddEntriesUnsigned creates a transaction invoking `addEntries` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddEntriesUnsigned(account util.Uint160, expectedIndex *big.Int, entries []*KeyvaultEncryptedEntry) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addEntries", nil, account, expectedIndex, entriesToParameter(entries))
}

// AddEntry creates a transaction invoking `addEntry` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddEntry(account util.Uint160, expectedIndex *big.Int, iv []byte, ciphertext []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addEntry", account, expectedIndex, iv, ciphertext)
}

// AddEntryTransaction creates a transaction invoking `addEntry` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddEntryTransaction(account util.Uint160, expectedIndex *big.Int, iv []byte, ciphertext []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addEntry", account, expectedIndex, iv, ciphertext)
}

// AddEntryUnsigned creates a transaction invoking `addEntry` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddEntryUnsigned(account util.Uint160, expectedIndex *big.Int, iv []byte, ciphertext []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addEntry", nil, account, expectedIndex, iv, ciphertext)
}

// ResetAccount creates a transaction invoking `resetAccount` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ResetAccount(account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "resetAccount", account)
}

// ResetAccountTransaction creates a transaction invoking `resetAccount` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ResetAccountTransaction(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "resetAccount", account)
}

// ResetAccountUnsigned creates a transaction invoking `resetAccount` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ResetAccountUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "resetAccount", nil, account)
}

// SetFee creates a transaction invoking `setFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetFee(fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setFee", fee)
}

// SetFeeTransaction creates a transaction invoking `setFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetFeeTransaction(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setFee", fee)
}

// SetFeeUnsigned creates a transaction invoking `setFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetFeeUnsigned(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setFee", nil, fee)
}

// SetLatestCompatibleClientVersion creates a transaction invoking `setLatestCompatibleClientVersion` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetLatestCompatibleClientVersion(version []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setLatestCompatibleClientVersion", version)
}

// SetLatestCompatibleClientVersionTransaction creates a transaction invoking `setLatestCompatibleClientVersion` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetLatestCompatibleClientVersionTransaction(version []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setLatestCompatibleClientVersion", version)
}

// SetLatestCompatibleClientVersionUnsigned creates a transaction invoking `setLatestCompatibleClientVersion` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetLatestCompatibleClientVersionUnsigned(version []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setLatestCompatibleClientVersion", nil, version)
}

// SetLatestContractAddress creates a transaction invoking `setLatestContractAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetLatestContractAddress(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setLatestContractAddress", addr)
}

// SetLatestContractAddressTransaction creates a transaction invoking `setLatestContractAddress` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetLatestContractAddressTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setLatestContractAddress", addr)
}

// SetLatestContractAddressUnsigned creates a transaction invoking `setLatestContractAddress` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetLatestContractAddressUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setLatestContractAddress", nil, addr)
}

// SetLatestContractVersion creates a transaction invoking `setLatestContractVersion` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetLatestContractVersion(version *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setLatestContractVersion", version)
}

// SetLatestContractVersionTransaction creates a transaction invoking `setLatestContractVersion` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetLatestContractVersionTransaction(version *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setLatestContractVersion", version)
}

// SetLatestContractVersionUnsigned creates a transaction invoking `setLatestContractVersion` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetLatestContractVersionUnsigned(version *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setLatestContractVersion", nil, version)
}

// SetOwner creates a transaction invoking `setOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetOwner(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setOwner", owner)
}

// SetOwnerTransaction creates a transaction invoking `setOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetOwnerTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setOwner", owner)
}

// SetOwnerUnsigned creates a transaction invoking `setOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetOwnerUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setOwner", nil, owner)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw")
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw")
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil)
}

// entriesToParameter converts entries into nested arrays accepted by the
// contract.
func entriesToParameter(entries []*KeyvaultEncryptedEntry) []any {
	res := make([]any, 0, len(entries))
	for _, e := range entries {
		res = append(res, []any{e.IV, e.Ciphertext})
	}
	return res
}

// itemToKeyvaultEncryptedEntry converts stack item into *KeyvaultEncryptedEntry.
func itemToKeyvaultEncryptedEntry(item stackitem.Item, err error) (*KeyvaultEncryptedEntry, error) {
	if err != nil {
		return nil, err
	}
	var res = new(KeyvaultEncryptedEntry)
	err = res.FromStackItem(item)
	return res, err
}

// itemToKeyvaultEncryptedEntryArray converts stack item into []*KeyvaultEncryptedEntry.
func itemToKeyvaultEncryptedEntryArray(item stackitem.Item, err error) ([]*KeyvaultEncryptedEntry, error) {
	if err != nil {
		return nil, err
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	res := make([]*KeyvaultEncryptedEntry, len(arr))
	for i := range res {
		res[i], err = itemToKeyvaultEncryptedEntry(arr[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// FromStackItem retrieves fields of KeyvaultEncryptedEntry from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *KeyvaultEncryptedEntry) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.IV, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field IV: %w", err)
	}

	index++
	res.Ciphertext, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Ciphertext: %w", err)
	}

	return nil
}

// itemToKeyvaultVersionInfo converts stack item into *KeyvaultVersionInfo.
func itemToKeyvaultVersionInfo(item stackitem.Item, err error) (*KeyvaultVersionInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(KeyvaultVersionInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of KeyvaultVersionInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *KeyvaultVersionInfo) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Self, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Self: %w", err)
	}

	index++
	res.Latest, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Latest: %w", err)
	}

	index++
	res.LatestAddress, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field LatestAddress: %w", err)
	}

	index++
	res.ClientVersion, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field ClientVersion: %w", err)
	}

	return nil
}

func uint160FromItem(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

// eventArray checks that the event item is an array of n elements.
func eventArray(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

// AccountCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "AccountCreated" name from the provided [result.ApplicationLog].
func AccountCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AccountCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AccountCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AccountCreated" {
				continue
			}
			event := new(AccountCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AccountCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AccountCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *AccountCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 2)
	if err != nil {
		return err
	}

	index := -1
	index++
	e.Account, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// EntriesAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "EntriesAdded" name from the provided [result.ApplicationLog].
func EntriesAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*EntriesAddedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*EntriesAddedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "EntriesAdded" {
				continue
			}
			event := new(EntriesAddedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize EntriesAddedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to EntriesAddedEvent or
// returns an error if it's not possible to do to so.
func (e *EntriesAddedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 3)
	if err != nil {
		return err
	}

	index := -1
	index++
	e.Account, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.FirstIndex, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field FirstIndex: %w", err)
	}

	index++
	e.Number, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Number: %w", err)
	}

	return nil
}

// AccountResetEventsFromApplicationLog retrieves a set of all emitted events
// with "AccountReset" name from the provided [result.ApplicationLog].
func AccountResetEventsFromApplicationLog(log *result.ApplicationLog) ([]*AccountResetEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AccountResetEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AccountReset" {
				continue
			}
			event := new(AccountResetEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AccountResetEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AccountResetEvent or
// returns an error if it's not possible to do to so.
func (e *AccountResetEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 2)
	if err != nil {
		return err
	}

	index := -1
	index++
	e.Account, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Removed, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Removed: %w", err)
	}

	return nil
}

// OwnerChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnerChanged" name from the provided [result.ApplicationLog].
func OwnerChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnerChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OwnerChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OwnerChanged" {
				continue
			}
			event := new(OwnerChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OwnerChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OwnerChangedEvent or
// returns an error if it's not possible to do to so.
func (e *OwnerChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 2)
	if err != nil {
		return err
	}

	index := -1
	index++
	e.Previous, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Previous: %w", err)
	}

	index++
	e.Owner, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// FeeChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "FeeChanged" name from the provided [result.ApplicationLog].
func FeeChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*FeeChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FeeChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "FeeChanged" {
				continue
			}
			event := new(FeeChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FeeChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FeeChangedEvent or
// returns an error if it's not possible to do to so.
func (e *FeeChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 1)
	if err != nil {
		return err
	}

	index := -1
	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// WithdrawalEventsFromApplicationLog retrieves a set of all emitted events
// with "Withdrawal" name from the provided [result.ApplicationLog].
func WithdrawalEventsFromApplicationLog(log *result.ApplicationLog) ([]*WithdrawalEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*WithdrawalEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Withdrawal" {
				continue
			}
			event := new(WithdrawalEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize WithdrawalEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to WithdrawalEvent or
// returns an error if it's not possible to do to so.
func (e *WithdrawalEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 2)
	if err != nil {
		return err
	}

	index := -1
	index++
	e.Owner, err = uint160FromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
