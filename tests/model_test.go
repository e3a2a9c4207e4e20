package tests

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/stretchr/testify/require"
)

// TestAuthorityModel applies the same random operations to the contract and
// to the in-memory registry and checks that both end up in the same state.
func TestAuthorityModel(t *testing.T) {
	const opsNum = 60

	e := newExecutor(t)
	signers := []neotest.Signer{e.NewAccount(t), e.NewAccount(t)}
	c := newAuthorityInvoker(t, e, []any{signers[0].ScriptHash()})

	model := registry.New(signers[0].ScriptHash())
	ids := []string{"auth1", "auth2", "auth3", "auth4"}
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < opsNum; i++ {
		signer := signers[rnd.Intn(len(signers))]
		op := registry.Op{
			Kind:    registry.OpKind(1 + rnd.Intn(4)),
			ID:      ids[rnd.Intn(len(ids))],
			Name:    fmt.Sprintf("Authority %d", i),
			Website: "https://" + ids[rnd.Intn(len(ids))],
		}
		if op.Kind == registry.OpTransferOwnership {
			op.NewOwner = signers[rnd.Intn(len(signers))].ScriptHash()
		}

		call := registry.Call{Caller: signer.ScriptHash(), Height: e.Chain.BlockHeight()}
		err := model.Apply(call, op)

		inv := c.WithSigners(signer)
		if err == nil {
			inv.Invoke(t, true, op.Method(), op.Args()...)
		} else {
			inv.InvokeFail(t, exceptionForCode(t, registry.CodeOf(err)), op.Method(), op.Args()...)
		}
	}

	require.Equal(t, model.Owner(), getOwner(t, c))
	require.ElementsMatch(t, model.IDs(), listAuthorities(t, c))

	for _, id := range ids {
		exp, ok := model.Get(id)
		if !ok {
			require.Nil(t, getAuthority(t, c, id))
			continue
		}
		require.Equal(t, exp, getRecord(t, c, id), id)

		active, err := model.IsActive(id)
		require.NoError(t, err)
		c.Invoke(t, active, "isAuthorityActive", id)
	}
}
