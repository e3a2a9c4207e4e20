package snapshot

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nspcc-dev/authority-contract/contracts/authority/authorityconst"
	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/authority-contract/rpc/authority"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// AuthorityKey returns storage key of the authority record with the given ID.
func AuthorityKey(id string) []byte {
	return append([]byte{authorityconst.AuthorityPrefix}, hash.RipeMD160([]byte(id)).BytesBE()...)
}

// OwnerKey returns storage key of the registry owner.
func OwnerKey() []byte {
	return []byte{authorityconst.OwnerKey}
}

// StorageDecoder collects storage items of the Authority contract and decodes
// the registry from them. Zero value is ready to use.
type StorageDecoder struct {
	owner   *util.Uint160
	records map[string]registry.Record
}

// Write decodes storage item of the Authority contract. Items with unknown
// keys are ignored. Write is compatible with the storage iteration callbacks.
func (x *StorageDecoder) Write(key, value []byte) error {
	if len(key) == 0 {
		return errors.New("empty storage key")
	}

	switch key[0] {
	case authorityconst.OwnerKey:
		if len(key) != 1 {
			return nil
		}

		owner, err := util.Uint160DecodeBytesBE(value)
		if err != nil {
			return fmt.Errorf("decode owner: %w", err)
		}

		x.owner = &owner
	case authorityconst.AuthorityPrefix:
		id, rec, err := decodeAuthority(value)
		if err != nil {
			return fmt.Errorf("decode authority by key %x: %w", key, err)
		}

		if !bytes.Equal(key, AuthorityKey(id)) {
			return fmt.Errorf("authority %q is stored by unexpected key %x", id, key)
		}

		if x.records == nil {
			x.records = make(map[string]registry.Record)
		}

		x.records[id] = rec
	}

	return nil
}

// Registry returns registry decoded from all written storage items. Registry
// fails if the owner has not been written.
func (x *StorageDecoder) Registry() (*registry.Registry, error) {
	if x.owner == nil {
		return nil, errors.New("missing registry owner")
	}

	return registry.Restore(*x.owner, x.records), nil
}

func decodeAuthority(value []byte) (string, registry.Record, error) {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return "", registry.Record{}, fmt.Errorf("deserialize stack item: %w", err)
	}

	var a authority.Authority

	err = a.FromStackItem(item)
	if err != nil {
		return "", registry.Record{}, err
	}

	rec, err := a.ToRecord()
	if err != nil {
		return "", registry.Record{}, err
	}

	return a.ID, rec, nil
}
