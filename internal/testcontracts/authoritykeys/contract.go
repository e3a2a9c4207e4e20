// Package authoritykeys is a test contract sharing the Authority registry
// code and storage layout. It can put a record under the storage key of an
// arbitrary ID, which is impossible with the registry methods.
package authoritykeys

import (
	"github.com/nspcc-dev/authority-contract/common"
	"github.com/nspcc-dev/authority-contract/contracts/authority"
	"github.com/nspcc-dev/authority-contract/contracts/authority/authorityconst"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// nolint:deadcode,unused
func _deploy(_ any, isUpdate bool) {
	if isUpdate {
		return
	}

	tx := runtime.GetScriptContainer()
	storage.Put(storage.GetContext(), []byte{authorityconst.OwnerKey}, tx.Sender)
}

// PutAuthority stores active authority with the given ID by the storage key
// of keyID.
func PutAuthority(keyID, id string) {
	key := append([]byte{authorityconst.AuthorityPrefix}, crypto.Ripemd160([]byte(keyID))...)
	common.SetSerialized(storage.GetContext(), key, authority.Authority{
		ID:        id,
		Name:      "Name " + id,
		Website:   "https://" + id,
		Active:    true,
		CreatedAt: 1,
		UpdatedAt: 1,
	})
}

func UpdateAuthority(id, name, website string) bool {
	return authority.UpdateAuthority(id, name, website)
}

func DeactivateAuthority(id string) bool {
	return authority.DeactivateAuthority(id)
}

func IsAuthorityActive(id string) bool {
	return authority.IsAuthorityActive(id)
}

func GetAuthority(id string) any {
	return authority.GetAuthority(id)
}
