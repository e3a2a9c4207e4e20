// Package authority contains RPC wrappers for Authority registry contract.
package authority

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Authority is a contract-specific authority.Authority type used by its methods.
type Authority struct {
	ID        string
	Name      string
	Website   string
	Active    bool
	CreatedAt *big.Int
	UpdatedAt *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetAuthority invokes `getAuthority` method of contract. Missing authority
// is returned as nil without an error.
func (c *ContractReader) GetAuthority(id string) (*Authority, error) {
	return itemToAuthority(unwrap.Item(c.invoker.Call(c.hash, "getAuthority", id)))
}

// IsAuthorityActive invokes `isAuthorityActive` method of contract. Contract
// exceptions are returned as errors recognized by ErrorFromException.
func (c *ContractReader) IsAuthorityActive(id string) (bool, error) {
	res, err := unwrap.Bool(c.invoker.Call(c.hash, "isAuthorityActive", id))
	return res, ErrorFromException(err)
}

// ListAuthorities invokes `listAuthorities` method of contract.
func (c *ContractReader) ListAuthorities() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listAuthorities"))
}

// ListAuthoritiesExpanded is similar to ListAuthorities (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListAuthoritiesExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listAuthorities", _numOfIteratorItems))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

func (c *Contract) scriptForDeactivateAuthority(id string) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(c.hash, "deactivateAuthority", id)
}

// DeactivateAuthority creates a transaction invoking `deactivateAuthority` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeactivateAuthority(id string) (util.Uint256, uint32, error) {
	script, err := c.scriptForDeactivateAuthority(id)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	h, vub, err := c.actor.SendRun(script)
	return h, vub, ErrorFromException(err)
}

// DeactivateAuthorityTransaction creates a transaction invoking `deactivateAuthority` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeactivateAuthorityTransaction(id string) (*transaction.Transaction, error) {
	script, err := c.scriptForDeactivateAuthority(id)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeRun(script)
	return tx, ErrorFromException(err)
}

// DeactivateAuthorityUnsigned creates a transaction invoking `deactivateAuthority` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeactivateAuthorityUnsigned(id string) (*transaction.Transaction, error) {
	script, err := c.scriptForDeactivateAuthority(id)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeUnsignedRun(script, nil)
	return tx, ErrorFromException(err)
}

func (c *Contract) scriptForRegisterAuthority(id string, name string, website string) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(c.hash, "registerAuthority", id, name, website)
}

// RegisterAuthority creates a transaction invoking `registerAuthority` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterAuthority(id string, name string, website string) (util.Uint256, uint32, error) {
	script, err := c.scriptForRegisterAuthority(id, name, website)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	h, vub, err := c.actor.SendRun(script)
	return h, vub, ErrorFromException(err)
}

// RegisterAuthorityTransaction creates a transaction invoking `registerAuthority` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterAuthorityTransaction(id string, name string, website string) (*transaction.Transaction, error) {
	script, err := c.scriptForRegisterAuthority(id, name, website)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeRun(script)
	return tx, ErrorFromException(err)
}

// RegisterAuthorityUnsigned creates a transaction invoking `registerAuthority` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterAuthorityUnsigned(id string, name string, website string) (*transaction.Transaction, error) {
	script, err := c.scriptForRegisterAuthority(id, name, website)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeUnsignedRun(script, nil)
	return tx, ErrorFromException(err)
}

func (c *Contract) scriptForTransferOwnership(newOwner util.Uint160) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(c.hash, "transferOwnership", newOwner)
}

// TransferOwnership creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferOwnership(newOwner util.Uint160) (util.Uint256, uint32, error) {
	script, err := c.scriptForTransferOwnership(newOwner)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	h, vub, err := c.actor.SendRun(script)
	return h, vub, ErrorFromException(err)
}

// TransferOwnershipTransaction creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferOwnershipTransaction(newOwner util.Uint160) (*transaction.Transaction, error) {
	script, err := c.scriptForTransferOwnership(newOwner)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeRun(script)
	return tx, ErrorFromException(err)
}

// TransferOwnershipUnsigned creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferOwnershipUnsigned(newOwner util.Uint160) (*transaction.Transaction, error) {
	script, err := c.scriptForTransferOwnership(newOwner)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeUnsignedRun(script, nil)
	return tx, ErrorFromException(err)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

func (c *Contract) scriptForUpdateAuthority(id string, name string, website string) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(c.hash, "updateAuthority", id, name, website)
}

// UpdateAuthority creates a transaction invoking `updateAuthority` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateAuthority(id string, name string, website string) (util.Uint256, uint32, error) {
	script, err := c.scriptForUpdateAuthority(id, name, website)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	h, vub, err := c.actor.SendRun(script)
	return h, vub, ErrorFromException(err)
}

// UpdateAuthorityTransaction creates a transaction invoking `updateAuthority` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateAuthorityTransaction(id string, name string, website string) (*transaction.Transaction, error) {
	script, err := c.scriptForUpdateAuthority(id, name, website)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeRun(script)
	return tx, ErrorFromException(err)
}

// UpdateAuthorityUnsigned creates a transaction invoking `updateAuthority` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateAuthorityUnsigned(id string, name string, website string) (*transaction.Transaction, error) {
	script, err := c.scriptForUpdateAuthority(id, name, website)
	if err != nil {
		return nil, err
	}
	tx, err := c.actor.MakeUnsignedRun(script, nil)
	return tx, ErrorFromException(err)
}

// itemToAuthority converts stack item into *Authority. Null item is
// converted into nil.
func itemToAuthority(item stackitem.Item, err error) (*Authority, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	var res = new(Authority)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Authority from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Authority) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = itemToUTF8String(arr[index])
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Name, err = itemToUTF8String(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Website, err = itemToUTF8String(arr[index])
	if err != nil {
		return fmt.Errorf("field Website: %w", err)
	}

	index++
	res.Active, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	index++
	res.CreatedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CreatedAt: %w", err)
	}

	index++
	res.UpdatedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field UpdatedAt: %w", err)
	}

	return nil
}

func itemToUTF8String(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
