package authority

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/nspcc-dev/authority-contract/registry"
)

// ContractName is the name of the Authority registry contract from its
// manifest. Together with the deployer account and NEF checksum it defines
// the contract address.
const ContractName = "Authority registry"

// DefaultListLimit is the number of IDs ListAuthorityIDs fetches when no
// limit is specified.
const DefaultListLimit = 1024

// ErrorFromException returns error of the contract method invocation with
// [registry.Error] attached when the FAULT exception describes the registry
// failure, so errors.Is and [registry.CodeOf] work with the result. Other
// errors are returned as is.
func ErrorFromException(err error) error {
	if err == nil {
		return nil
	}
	if regErr := registry.ErrorFromMessage(err.Error()); regErr != nil {
		return fmt.Errorf("%w: %w", regErr, err)
	}
	return err
}

// ToRecord converts Authority into registry record.
func (res *Authority) ToRecord() (registry.Record, error) {
	created, err := heightFromInt(res.CreatedAt)
	if err != nil {
		return registry.Record{}, fmt.Errorf("creation height: %w", err)
	}
	updated, err := heightFromInt(res.UpdatedAt)
	if err != nil {
		return registry.Record{}, fmt.Errorf("update height: %w", err)
	}

	return registry.Record{
		Name:      res.Name,
		Website:   res.Website,
		Active:    res.Active,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// ListAuthorityIDs returns IDs of at most limit registered authorities
// (DefaultListLimit if limit is not positive) in the contract storage order.
// truncated is set when the registry holds more authorities than returned.
func (c *ContractReader) ListAuthorityIDs(limit int) (ids []string, truncated bool, err error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	// one extra item tells whether the list is complete
	items, err := c.ListAuthoritiesExpanded(limit + 1)
	if err != nil {
		return nil, false, err
	}

	if len(items) > limit {
		items = items[:limit]
		truncated = true
	}

	ids = make([]string, len(items))
	for i := range items {
		ids[i], err = itemToUTF8String(items[i])
		if err != nil {
			return nil, false, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return ids, truncated, nil
}

func heightFromInt(v *big.Int) (uint32, error) {
	if v == nil {
		return 0, errors.New("missing value")
	}
	if v.Sign() < 0 || !v.IsUint64() || v.Uint64() > math.MaxUint32 {
		return 0, fmt.Errorf("value %s is out of block height range", v)
	}
	return uint32(v.Uint64()), nil
}
