package registry

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// OpKind enumerates mutating registry operations.
type OpKind uint8

const (
	_ OpKind = iota
	OpRegister
	OpUpdate
	OpDeactivate
	OpTransferOwnership
)

// String implements fmt.Stringer.
func (k OpKind) String() string {
	switch k {
	case OpRegister:
		return "register"
	case OpUpdate:
		return "update"
	case OpDeactivate:
		return "deactivate"
	case OpTransferOwnership:
		return "transferOwnership"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is a mutating registry operation with its arguments. Fields not
// related to the Kind are ignored.
type Op struct {
	Kind     OpKind
	ID       string
	Name     string
	Website  string
	NewOwner util.Uint160
}

// Method returns name of the Authority contract method performing op.
func (op Op) Method() string {
	switch op.Kind {
	case OpRegister:
		return "registerAuthority"
	case OpUpdate:
		return "updateAuthority"
	case OpDeactivate:
		return "deactivateAuthority"
	case OpTransferOwnership:
		return "transferOwnership"
	default:
		return ""
	}
}

// Args returns arguments of the Authority contract method performing op.
func (op Op) Args() []any {
	switch op.Kind {
	case OpRegister, OpUpdate:
		return []any{op.ID, op.Name, op.Website}
	case OpDeactivate:
		return []any{op.ID}
	case OpTransferOwnership:
		return []any{op.NewOwner}
	default:
		return nil
	}
}

// Apply performs op on the registry within the given call.
func (r *Registry) Apply(c Call, op Op) error {
	switch op.Kind {
	case OpRegister:
		return r.Register(c, op.ID, op.Name, op.Website)
	case OpUpdate:
		return r.Update(c, op.ID, op.Name, op.Website)
	case OpDeactivate:
		return r.Deactivate(c, op.ID)
	case OpTransferOwnership:
		return r.TransferOwnership(c, op.NewOwner)
	default:
		return fmt.Errorf("unsupported operation %s", op.Kind)
	}
}
