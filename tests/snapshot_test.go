package tests

import (
	"testing"

	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/authority-contract/snapshot"
	"github.com/stretchr/testify/require"
)

// TestAuthoritySnapshot checks that registry decoded from the contract
// storage items matches the contract state.
func TestAuthoritySnapshot(t *testing.T) {
	e, c, owner := newOwnedAuthority(t)

	ids := []string{"auth1", "auth2", "центр"}
	for _, id := range ids {
		owner.Invoke(t, true, "registerAuthority", id, "Name "+id, "https://"+id)
	}
	owner.Invoke(t, true, "deactivateAuthority", "auth2")

	st := e.Chain.GetContractState(c.Hash)
	require.NotNil(t, st)

	var d snapshot.StorageDecoder

	keys := [][]byte{snapshot.OwnerKey()}
	for _, id := range ids {
		keys = append(keys, snapshot.AuthorityKey(id))
	}

	for _, k := range keys {
		v := e.Chain.GetStorageItem(st.ID, k)
		require.NotNil(t, v, "missing storage item %x", k)
		require.NoError(t, d.Write(k, v))
	}

	r, err := d.Registry()
	require.NoError(t, err)
	require.Equal(t, owner.Signers[0].ScriptHash(), r.Owner())
	require.ElementsMatch(t, r.IDs(), listAuthorities(t, c))

	for _, id := range ids {
		exp := getRecord(t, c, id)
		rec, ok := r.Get(id)
		require.True(t, ok)
		require.Equal(t, exp, rec)
	}

	_, err = r.IsActive("auth2")
	require.NoError(t, err)
	_, err = r.IsActive("missing")
	require.ErrorIs(t, err, registry.ErrNotFound)
}
