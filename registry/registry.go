package registry

import (
	"slices"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Call groups values supplied by the hosting environment for a single
// registry operation.
type Call struct {
	// Identity of the operation initiator.
	Caller util.Uint160
	// Current value of the logical clock. Expected to never decrease between
	// calls, but not checked.
	Height uint32
}

// Record describes registered certification authority.
type Record struct {
	Name    string
	Website string
	Active  bool
	// Clock value at registration. Never changes.
	CreatedAt uint32
	// Clock value at the latest registration, update or deactivation.
	UpdatedAt uint32
}

// Registry of the certification authorities controlled by a single owner.
//
// Instances must be created with New or Restore.
type Registry struct {
	owner       util.Uint160
	authorities map[string]Record
}

// New returns empty Registry owned by the given identity.
func New(owner util.Uint160) *Registry {
	return &Registry{
		owner:       owner,
		authorities: make(map[string]Record),
	}
}

// Restore returns Registry with the given owner and records. Records are
// copied and taken as is.
func Restore(owner util.Uint160, records map[string]Record) *Registry {
	r := New(owner)
	for id, rec := range records {
		r.authorities[id] = rec
	}
	return r
}

// Owner returns identity of the current registry owner.
func (r *Registry) Owner() util.Uint160 {
	return r.owner
}

// Len returns number of registered authorities.
func (r *Registry) Len() int {
	return len(r.authorities)
}

// IDs returns sorted IDs of all registered authorities.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.authorities))
	for id := range r.authorities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Register adds a new active authority. CreatedAt and UpdatedAt are set to
// the call height.
//
// Register fails with CodeUnauthorized if caller is not the owner and with
// CodeAlreadyExists if the ID is already registered.
func (r *Registry) Register(c Call, id, name, website string) error {
	if err := r.checkOwner(c); err != nil {
		return err
	}

	if _, ok := r.authorities[id]; ok {
		return newError(CodeAlreadyExists, id)
	}

	r.authorities[id] = Record{
		Name:      name,
		Website:   website,
		Active:    true,
		CreatedAt: c.Height,
		UpdatedAt: c.Height,
	}

	return nil
}

// Update re-publishes registered authority: replaces name and website and
// makes the authority active regardless of its previous state. CreatedAt is
// kept, UpdatedAt is set to the call height.
//
// Update fails with CodeUnauthorized if caller is not the owner and with
// CodeNotFound if the ID is not registered.
func (r *Registry) Update(c Call, id, name, website string) error {
	if err := r.checkOwner(c); err != nil {
		return err
	}

	rec, ok := r.authorities[id]
	if !ok {
		return newError(CodeNotFound, id)
	}

	rec.Name = name
	rec.Website = website
	rec.Active = true
	rec.UpdatedAt = c.Height
	r.authorities[id] = rec

	return nil
}

// Deactivate marks registered authority as inactive and sets UpdatedAt to
// the call height. The record stays in the registry.
//
// Deactivate fails with CodeUnauthorized if caller is not the owner and with
// CodeNotFound if the ID is not registered.
func (r *Registry) Deactivate(c Call, id string) error {
	if err := r.checkOwner(c); err != nil {
		return err
	}

	rec, ok := r.authorities[id]
	if !ok {
		return newError(CodeNotFound, id)
	}

	rec.Active = false
	rec.UpdatedAt = c.Height
	r.authorities[id] = rec

	return nil
}

// IsActive returns activity flag of the registered authority. Unlike Get,
// IsActive fails with CodeNotFound if the ID is not registered.
func (r *Registry) IsActive(id string) (bool, error) {
	rec, ok := r.authorities[id]
	if !ok {
		return false, newError(CodeNotFound, id)
	}
	return rec.Active, nil
}

// Get returns the record of the authority and true, or false if the ID is
// not registered.
func (r *Registry) Get(id string) (Record, bool) {
	rec, ok := r.authorities[id]
	return rec, ok
}

// TransferOwnership makes newOwner the registry owner. The change is
// immediate: the next operation is authorized against newOwner only.
// newOwner is not checked, transfer to the current owner is a no-op.
//
// TransferOwnership fails with CodeUnauthorized if caller is not the owner.
func (r *Registry) TransferOwnership(c Call, newOwner util.Uint160) error {
	if err := r.checkOwner(c); err != nil {
		return err
	}

	r.owner = newOwner

	return nil
}

func (r *Registry) checkOwner(c Call) error {
	if !c.Caller.Equals(r.owner) {
		return newError(CodeUnauthorized, "")
	}
	return nil
}
