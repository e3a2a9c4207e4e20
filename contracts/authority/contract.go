package authority

import (
	"github.com/nspcc-dev/authority-contract/common"
	"github.com/nspcc-dev/authority-contract/contracts/authority/authorityconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Authority groups data of the certification authority registered in the
// contract.
type Authority struct {
	// Unique identifier of the authority the record is stored by.
	ID string
	// Display name.
	Name string
	// Reference URL, not validated by the contract.
	Website string
	// Set on registration and on every update, cleared by deactivation.
	Active bool
	// Block height of the registration. Never changes.
	CreatedAt int
	// Block height of the latest registration, update or deactivation.
	UpdatedAt int
}

const (
	ownerKey        = authorityconst.OwnerKey
	authorityPrefix = authorityconst.AuthorityPrefix
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	var owner interop.Hash160
	if data != nil {
		args := data.([]any)
		if len(args) > 0 {
			owner = args[0].(interop.Hash160)
		}
	}

	if len(owner) == 0 {
		tx := runtime.GetScriptContainer()
		owner = tx.Sender
	}

	if !isValid(owner) {
		panic(authorityconst.InvalidOwnerError)
	}

	storage.Put(ctx, []byte{ownerKey}, owner)

	runtime.Log("authority contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("authority contract updated")
}

// RegisterAuthority method adds a new active authority to the registry. It
// can be invoked only by the registry owner. Registration time of the
// authority is the current block height.
//
// RegisterAuthority panics if the authority with the same ID is already
// registered, including deactivated ones.
func RegisterAuthority(id, name, website string) bool {
	ctx := storage.GetContext()

	checkOwner(ctx)

	key := authorityKey(id)
	if storage.Get(ctx, key) != nil {
		panic(authorityconst.AlreadyExistsError)
	}

	height := ledger.CurrentIndex()
	common.SetSerialized(ctx, key, Authority{
		ID:        id,
		Name:      name,
		Website:   website,
		Active:    true,
		CreatedAt: height,
		UpdatedAt: height,
	})

	return true
}

// UpdateAuthority method replaces name and website of the registered
// authority. It can be invoked only by the registry owner. Updated authority
// is always active, even if it was deactivated before.
func UpdateAuthority(id, name, website string) bool {
	ctx := storage.GetContext()

	checkOwner(ctx)

	a := getAuthority(ctx, id)
	a.Name = name
	a.Website = website
	a.Active = true
	a.UpdatedAt = ledger.CurrentIndex()

	common.SetSerialized(ctx, authorityKey(id), a)

	return true
}

// DeactivateAuthority method marks the registered authority as inactive. It
// can be invoked only by the registry owner. The record itself remains in
// the registry.
func DeactivateAuthority(id string) bool {
	ctx := storage.GetContext()

	checkOwner(ctx)

	a := getAuthority(ctx, id)
	a.Active = false
	a.UpdatedAt = ledger.CurrentIndex()

	common.SetSerialized(ctx, authorityKey(id), a)

	return true
}

// IsAuthorityActive method returns activity status of the registered
// authority. It panics if the authority is missing.
func IsAuthorityActive(id string) bool {
	ctx := storage.GetReadOnlyContext()
	return getAuthority(ctx, id).Active
}

// GetAuthority method returns Authority structure stored by the given ID or
// nil if there is no such authority.
func GetAuthority(id string) any {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, authorityKey(id))
	if data == nil {
		return nil
	}

	a := std.Deserialize(data.([]byte)).(Authority)
	if a.ID != id {
		return nil
	}

	return a
}

// ListAuthorities method returns iterator over IDs of all registered
// authorities.
func ListAuthorities() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{authorityPrefix},
		storage.ValuesOnly|storage.DeserializeValues|storage.PickField0)
}

// TransferOwnership method sets new owner of the registry. It can be invoked
// only by the current owner. The new owner takes effect immediately.
func TransferOwnership(newOwner interop.Hash160) bool {
	ctx := storage.GetContext()

	checkOwner(ctx)

	if !isValid(newOwner) {
		panic(authorityconst.InvalidOwnerError)
	}

	storage.Put(ctx, []byte{ownerKey}, newOwner)

	return true
}

// Owner method returns script hash of the current registry owner.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkOwner(ctx storage.Context) {
	common.CheckOwnerWitness(getOwner(ctx))
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{ownerKey}).(interop.Hash160)
}

func getAuthority(ctx storage.Context, id string) Authority {
	data := storage.Get(ctx, authorityKey(id))
	if data == nil {
		panic(authorityconst.NotFoundError)
	}

	a := std.Deserialize(data.([]byte)).(Authority)
	if a.ID != id {
		panic(authorityconst.NotFoundError)
	}

	return a
}

// authorityKey makes storage key of the authority record. ID is hashed to
// keep the key size fixed.
func authorityKey(id string) []byte {
	return append([]byte{authorityPrefix}, crypto.Ripemd160([]byte(id))...)
}

func isValid(h interop.Hash160) bool {
	return len(h) == interop.Hash160Len
}
