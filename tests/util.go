package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const (
	authorityPath     = "../contracts/authority"
	authorityKeysPath = "../internal/testcontracts/authoritykeys"
)

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// newAuthorityInvoker deploys the Authority contract with the given deploy
// data and returns committee invoker of it.
func newAuthorityInvoker(t *testing.T, e *neotest.Executor, data any) *neotest.ContractInvoker {
	ctr := neotest.CompileFile(t, e.CommitteeHash, authorityPath, path.Join(authorityPath, "config.yml"))
	e.DeployContract(t, ctr, data)
	return e.CommitteeInvoker(ctr.Hash)
}
