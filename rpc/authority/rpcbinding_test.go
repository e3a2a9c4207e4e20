package authority

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke

	method string
	params []any
	expand int
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method, t.params = operation, params
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	t.method, t.params, t.expand = operation, params, i
	return t.res, t.err
}
func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}
func (t *testInv) TerminateSession(uuid.UUID) error {
	return nil
}

type testAct struct {
	testInv

	script []byte
}

func (t *testAct) MakeCall(util.Uint160, string, ...any) (*transaction.Transaction, error) {
	return nil, t.err
}
func (t *testAct) MakeRun(script []byte) (*transaction.Transaction, error) {
	t.script = script
	return transaction.New(script, 0), t.err
}
func (t *testAct) MakeUnsignedCall(util.Uint160, string, []transaction.Attribute, ...any) (*transaction.Transaction, error) {
	return nil, t.err
}
func (t *testAct) MakeUnsignedRun(script []byte, _ []transaction.Attribute) (*transaction.Transaction, error) {
	t.script = script
	return transaction.New(script, 0), t.err
}
func (t *testAct) SendCall(util.Uint160, string, ...any) (util.Uint256, uint32, error) {
	return util.Uint256{}, 0, t.err
}
func (t *testAct) SendRun(script []byte) (util.Uint256, uint32, error) {
	t.script = script
	return util.Uint256{1}, 42, t.err
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: "HALT", Stack: items}
}

func authorityItem(id string, active bool, created, updated int64) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(id),
		stackitem.Make("Name " + id),
		stackitem.Make("https://" + id),
		stackitem.Make(active),
		stackitem.Make(created),
		stackitem.Make(updated),
	})
}

func TestContractReader_GetAuthority(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.GetAuthority("auth1")
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(stackitem.Null{})
	a, err := r.GetAuthority("auth1")
	require.NoError(t, err)
	require.Nil(t, a)
	require.Equal(t, "getAuthority", ti.method)
	require.Equal(t, []any{"auth1"}, ti.params)

	ti.res = halt(stackitem.Make(100500))
	_, err = r.GetAuthority("auth1")
	require.Error(t, err)

	ti.res = halt(stackitem.NewStruct([]stackitem.Item{stackitem.Make("auth1")}))
	_, err = r.GetAuthority("auth1")
	require.Error(t, err)

	ti.res = halt(authorityItem("auth1", true, 100, 105))
	a, err = r.GetAuthority("auth1")
	require.NoError(t, err)
	require.Equal(t, "auth1", a.ID)
	require.Equal(t, "Name auth1", a.Name)
	require.Equal(t, "https://auth1", a.Website)
	require.True(t, a.Active)
	require.EqualValues(t, 100, a.CreatedAt.Int64())
	require.EqualValues(t, 105, a.UpdatedAt.Int64())

	rec, err := a.ToRecord()
	require.NoError(t, err)
	require.Equal(t, registry.Record{
		Name:      "Name auth1",
		Website:   "https://auth1",
		Active:    true,
		CreatedAt: 100,
		UpdatedAt: 105,
	}, rec)
}

func TestAuthority_ToRecord(t *testing.T) {
	a := Authority{CreatedAt: big.NewInt(1)}
	_, err := a.ToRecord()
	require.Error(t, err)

	a.UpdatedAt = big.NewInt(-1)
	_, err = a.ToRecord()
	require.Error(t, err)

	a.UpdatedAt = new(big.Int).Lsh(big.NewInt(1), 32)
	_, err = a.ToRecord()
	require.Error(t, err)

	a.UpdatedAt = big.NewInt(1<<32 - 1)
	rec, err := a.ToRecord()
	require.NoError(t, err)
	require.EqualValues(t, uint32(1<<32-1), rec.UpdatedAt)
}

func TestContractReader_IsAuthorityActive(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = &result.Invoke{
		State:          "FAULT",
		FaultException: "at instruction 86 (THROW): unhandled exception: \"authority not found\"",
	}
	_, err := r.IsAuthorityActive("auth1")
	require.ErrorIs(t, err, registry.ErrNotFound)
	require.Equal(t, registry.CodeNotFound, registry.CodeOf(err))

	ti.res = &result.Invoke{State: "FAULT", FaultException: "some other failure"}
	_, err = r.IsAuthorityActive("auth1")
	require.Error(t, err)
	require.Zero(t, registry.CodeOf(err))

	ti.res = halt(stackitem.Make(false))
	active, err := r.IsAuthorityActive("auth1")
	require.NoError(t, err)
	require.False(t, active)
}

func TestContractReader_ListAuthorityIDs(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Make([]stackitem.Item{stackitem.Make("a"), stackitem.Make("b")}))
	ids, truncated, err := r.ListAuthorityIDs(0)
	require.NoError(t, err)
	require.False(t, truncated)
	require.Equal(t, []string{"a", "b"}, ids)
	require.Equal(t, "listAuthorities", ti.method)
	require.Equal(t, DefaultListLimit+1, ti.expand)

	t.Run("exact limit", func(t *testing.T) {
		ids, truncated, err := r.ListAuthorityIDs(2)
		require.NoError(t, err)
		require.False(t, truncated)
		require.Equal(t, []string{"a", "b"}, ids)
		require.Equal(t, 3, ti.expand)
	})

	t.Run("truncated", func(t *testing.T) {
		ids, truncated, err := r.ListAuthorityIDs(1)
		require.NoError(t, err)
		require.True(t, truncated)
		require.Equal(t, []string{"a"}, ids)
		require.Equal(t, 2, ti.expand)
	})

	t.Run("invalid item", func(t *testing.T) {
		ti.res = halt(stackitem.Make([]stackitem.Item{stackitem.Make([]byte{0xff})}))
		_, _, err := r.ListAuthorityIDs(10)
		require.Error(t, err)
	})
}

func TestContractReader_Owner(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	h := util.Uint160{4, 5, 6}
	ti.res = halt(stackitem.Make(h.BytesBE()))
	owner, err := r.Owner()
	require.NoError(t, err)
	require.Equal(t, h, owner)
}

func TestContract_Errors(t *testing.T) {
	ta := new(testAct)
	c := New(ta, util.Uint160{1, 2, 3})

	h, vub, err := c.RegisterAuthority("auth1", "Name", "https://x")
	require.NoError(t, err)
	require.Equal(t, util.Uint256{1}, h)
	require.EqualValues(t, 42, vub)
	require.NotEmpty(t, ta.script)

	ta.err = errors.New("script failed (FAULT state) due to an error: at instruction 10 (THROW): unhandled exception: \"caller is not the registry owner\"")
	_, _, err = c.DeactivateAuthority("auth1")
	require.ErrorIs(t, err, registry.ErrUnauthorized)

	_, err = c.UpdateAuthorityTransaction("auth1", "Name", "https://x")
	require.ErrorIs(t, err, registry.ErrUnauthorized)

	_, err = c.TransferOwnershipUnsigned(util.Uint160{7})
	require.ErrorIs(t, err, registry.ErrUnauthorized)

	ta.err = errors.New("script failed (FAULT state) due to an error: \"authority already exists\"")
	_, _, err = c.RegisterAuthority("auth1", "Name", "https://x")
	require.ErrorIs(t, err, registry.ErrAlreadyExists)
	require.ErrorContains(t, err, "script failed")
}

func TestErrorFromException(t *testing.T) {
	require.NoError(t, ErrorFromException(nil))

	err := errors.New("invalid owner")
	require.Equal(t, err, ErrorFromException(err))
}
