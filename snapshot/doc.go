/*
Package snapshot provides I/O operations for collected states of the Authority
registry contract.

Snapshot is the registry state decoded from the contract storage pulled from a
live network at a particular height. It allows to inspect the registry off
chain, compare states of different networks and reproduce them in tests.

Snapshots are stored in the file system using human-readable JSON encoding.
*/
package snapshot
