package tests

import (
	"testing"

	"github.com/nspcc-dev/authority-contract/contracts/authority/authorityconst"
	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/authority-contract/rpc/authority"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// exceptionForCode returns the message the Authority contract panics with
// on failure with the given code.
func exceptionForCode(t testing.TB, c registry.Code) string {
	switch c {
	case registry.CodeUnauthorized:
		return authorityconst.UnauthorizedError
	case registry.CodeAlreadyExists:
		return authorityconst.AlreadyExistsError
	case registry.CodeNotFound:
		return authorityconst.NotFoundError
	default:
		t.Fatalf("unexpected code %d", c)
		return ""
	}
}

// getAuthority calls 'getAuthority' method of the Authority contract and
// decodes the result. Returns nil if the authority is missing.
func getAuthority(t testing.TB, c *neotest.ContractInvoker, id string) *authority.Authority {
	s, err := c.TestInvoke(t, "getAuthority", id)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	item := s.Pop().Item()
	if _, ok := item.(stackitem.Null); ok {
		return nil
	}

	var a authority.Authority
	require.NoError(t, a.FromStackItem(item))
	return &a
}

// getRecord is similar to getAuthority but returns registry record and fails
// if the authority is missing.
func getRecord(t testing.TB, c *neotest.ContractInvoker, id string) registry.Record {
	a := getAuthority(t, c, id)
	require.NotNil(t, a, "authority %q is missing", id)
	require.Equal(t, id, a.ID)

	rec, err := a.ToRecord()
	require.NoError(t, err)
	return rec
}

// listAuthorities calls 'listAuthorities' method of the Authority contract
// and returns all IDs from the resulting iterator.
func listAuthorities(t testing.TB, c *neotest.ContractInvoker) []string {
	s, err := c.TestInvoke(t, "listAuthorities")
	require.NoError(t, err)

	iter := s.Pop().Value().(*storage.Iterator)
	items := iteratorToArray(iter)

	ids := make([]string, len(items))
	for i := range items {
		b, err := items[i].TryBytes()
		require.NoError(t, err)
		ids[i] = string(b)
	}
	return ids
}

// getOwner calls 'owner' method of the Authority contract and returns the
// resulting script hash.
func getOwner(t testing.TB, c *neotest.ContractInvoker) util.Uint160 {
	s, err := c.TestInvoke(t, "owner")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	b, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)

	h, err := util.Uint160DecodeBytesBE(b)
	require.NoError(t, err)
	return h
}
