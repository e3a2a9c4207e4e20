package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
)

// authorityJSON is a JSON-encoded authority record.
type authorityJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Website   string `json:"website"`
	Active    bool   `json:"active"`
	CreatedAt uint32 `json:"createdAt"`
	UpdatedAt uint32 `json:"updatedAt"`
}

// registryJSON is a JSON-encoded registry. Owner is a Neo address.
type registryJSON struct {
	Owner       string          `json:"owner"`
	Authorities []authorityJSON `json:"authorities"`
}

// Encode writes JSON representation of the registry into w. Authorities are
// sorted by ID.
func Encode(w io.Writer, r *registry.Registry) error {
	ids := r.IDs()
	res := registryJSON{
		Owner:       address.Uint160ToString(r.Owner()),
		Authorities: make([]authorityJSON, len(ids)),
	}

	for i := range ids {
		rec, _ := r.Get(ids[i])
		res.Authorities[i] = authorityJSON{
			ID:        ids[i],
			Name:      rec.Name,
			Website:   rec.Website,
			Active:    rec.Active,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		}
	}

	jEnc := json.NewEncoder(w)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(res)
	if err != nil {
		return fmt.Errorf("encode registry to JSON: %w", err)
	}

	return nil
}

// Decode reads registry from its JSON representation produced by Encode.
func Decode(r io.Reader) (*registry.Registry, error) {
	var v registryJSON

	err := json.NewDecoder(r).Decode(&v)
	if err != nil {
		return nil, fmt.Errorf("decode registry from JSON: %w", err)
	}

	owner, err := address.StringToUint160(v.Owner)
	if err != nil {
		return nil, fmt.Errorf("decode owner address: %w", err)
	}

	records := make(map[string]registry.Record, len(v.Authorities))
	for i := range v.Authorities {
		a := v.Authorities[i]
		if _, ok := records[a.ID]; ok {
			return nil, fmt.Errorf("duplicated authority %q", a.ID)
		}

		records[a.ID] = registry.Record{
			Name:      a.Name,
			Website:   a.Website,
			Active:    a.Active,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		}
	}

	return registry.Restore(owner, records), nil
}

// Create writes the registry snapshot with the given ID into the specified
// directory. File name is '<label>-<block>-authorities.json'.
//
// Create fails if snapshot with provided ID already exists.
func Create(dir string, id ID, r *registry.Registry) error {
	p := filepath.Join(dir, id.FileName())

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	err = Encode(f, r)
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// IterateSnapshots iterates over all snapshots in the specified directory and
// passes ID and decoded registry of each snapshot into f. Files not named as
// snapshots are skipped. Missing directory is treated as empty.
func IterateSnapshots(dir string, f func(ID, *registry.Registry)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}
		if e != nil {
			return e
		}

		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		var id ID

		if id.decodeFileName(d.Name()) != nil {
			return nil
		}

		r, err := readFile(path)
		if err != nil {
			return fmt.Errorf("read snapshot '%s': %w", d.Name(), err)
		}

		f(id, r)

		return nil
	})
}

func readFile(p string) (*registry.Registry, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
