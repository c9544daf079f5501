/*
Package dump provides I/O operations for exported KeyVault account logs.

An export allows moving the encrypted log of an account to another KeyVault
contract (for example, the successor announced by the versions method) or
keeping an offline backup of it. Entries stay encrypted: the package never
looks inside them.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
