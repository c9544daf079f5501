/*
Package keyvault implements KeyVault contract which stores encrypted records
of its users.

Every user owns an append-only log of opaque encrypted entries. A log is
created by paying the creation fee in GAS to the contract, entries are added
with an expected index which must be equal to the current length of the log.
A call with an outdated expected index fails, so concurrent clients of the
same account never overwrite each other: the losing client re-reads the
length and tries again. Single owner account manages the creation fee, the
pointers to a successor contract and withdraws collected GAS.

# Contract notifications

AccountCreated notification. This notification is produced when a user pays
for a new account.

	AccountCreated
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

EntriesAdded notification. This notification is produced when entries are
appended to the account log. firstIndex is the index of the first appended
entry.

	EntriesAdded
	  - name: account
	    type: Hash160
	  - name: firstIndex
	    type: Integer
	  - name: number
	    type: Integer

AccountReset notification. This notification is produced when the account
log is emptied.

	AccountReset
	  - name: account
	    type: Hash160
	  - name: removed
	    type: Integer

OwnerChanged notification. This notification is produced when the contract
owner is changed.

	OwnerChanged
	  - name: previous
	    type: Hash160
	  - name: owner
	    type: Hash160

FeeChanged notification. This notification is produced when the account
creation fee is changed.

	FeeChanged
	  - name: fee
	    type: Integer

Withdrawal notification. This notification is produced when collected GAS is
transferred to the owner.

	Withdrawal
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package keyvault

/*
Contract storage model.

Current conventions:
 <account>: 20-byte script hash of the user
 <index>: little-endian unsigned 32-bit entry index

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   contract owner
 - 'f' -> int
   account creation fee in GAS fractions
 - 'v' -> int
   latest known contract revision
 - 'a' -> interop.Hash160
   latest contract address, absent until a successor is set
 - 'c' -> []byte
   latest compatible client version
 - 'n<account>' -> int
   number of entries, presence of the key means the account exists
 - 'h<account>' -> []byte
   key hash submitted at account creation
 - 'e<account><index>' -> std.Serialize(EncryptedEntry)
   entries of the account log

# Entries
Entries with index greater or equal to the number of entries are stale:
they are never returned and get overwritten by subsequent appends.
*/
