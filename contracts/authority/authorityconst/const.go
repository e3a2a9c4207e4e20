// Package authorityconst contains constants of the Authority registry
// contract shared with off-chain code.
package authorityconst

import "github.com/nspcc-dev/authority-contract/common"

const (
	// UnauthorizedError is thrown when a mutating method is invoked without
	// the witness of the registry owner.
	UnauthorizedError = common.ErrOwnerWitnessFailed

	// AlreadyExistsError is thrown on attempt to register an authority ID
	// which is already present in the registry.
	AlreadyExistsError = "authority already exists"

	// NotFoundError is thrown if the requested authority is missing.
	NotFoundError = "authority not found"

	// InvalidOwnerError is thrown if the new owner is not a valid script hash.
	InvalidOwnerError = "invalid owner"
)

// Storage layout.
const (
	// OwnerKey is a single-byte storage key of the registry owner.
	OwnerKey = 'o'
	// AuthorityPrefix prefixes storage keys of the authority records. It is
	// followed by RIPEMD-160 hash of the authority ID.
	AuthorityPrefix = 'a'
)
