package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func serializedAuthority(t *testing.T, id string, rec registry.Record) []byte {
	b, err := stackitem.Serialize(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(id),
		stackitem.Make(rec.Name),
		stackitem.Make(rec.Website),
		stackitem.Make(rec.Active),
		stackitem.Make(int64(rec.CreatedAt)),
		stackitem.Make(int64(rec.UpdatedAt)),
	}))
	require.NoError(t, err)
	return b
}

func TestStorageDecoder(t *testing.T) {
	owner := util.Uint160{1, 2, 3}
	recs := map[string]registry.Record{
		"auth1": {Name: "One", Website: "https://one", Active: true, CreatedAt: 10, UpdatedAt: 10},
		"auth2": {Name: "Two", Website: "https://two", CreatedAt: 11, UpdatedAt: 15},
	}

	var d StorageDecoder

	_, err := d.Registry()
	require.Error(t, err)

	require.NoError(t, d.Write(OwnerKey(), owner.BytesBE()))
	for id, rec := range recs {
		require.NoError(t, d.Write(AuthorityKey(id), serializedAuthority(t, id, rec)))
	}
	require.NoError(t, d.Write([]byte("x-unknown"), []byte{1}))

	r, err := d.Registry()
	require.NoError(t, err)
	require.Equal(t, owner, r.Owner())
	require.Equal(t, []string{"auth1", "auth2"}, r.IDs())
	for id, rec := range recs {
		got, ok := r.Get(id)
		require.True(t, ok)
		require.Equal(t, rec, got)
	}

	t.Run("invalid", func(t *testing.T) {
		var d StorageDecoder
		require.Error(t, d.Write(nil, nil))
		require.Error(t, d.Write(OwnerKey(), []byte{1, 2, 3}))
		require.Error(t, d.Write(AuthorityKey("auth1"), []byte{1, 2, 3}))
		require.Error(t, d.Write(AuthorityKey("auth1"), serializedAuthority(t, "auth2", registry.Record{})))
	})
}

func TestAuthorityKey(t *testing.T) {
	k := AuthorityKey("auth1")
	require.Len(t, k, 1+util.Uint160Size)
	require.EqualValues(t, 'a', k[0])
	require.Equal(t, k, AuthorityKey("auth1"))
	require.NotEqual(t, k, AuthorityKey("auth2"))
}

func TestEncodeDecode(t *testing.T) {
	r := registry.Restore(util.Uint160{1, 2, 3}, map[string]registry.Record{
		"b": {Name: "B", Website: "https://b", CreatedAt: 1, UpdatedAt: 2},
		"a": {Name: "A", Website: "https://a", Active: true, CreatedAt: 3, UpdatedAt: 3},
	})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r))
	require.Less(t, bytes.Index(buf.Bytes(), []byte(`"id": "a"`)), bytes.Index(buf.Bytes(), []byte(`"id": "b"`)))

	res, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, r, res)

	_, err = Decode(bytes.NewBufferString(`{"owner":"not an address"}`))
	require.Error(t, err)
}

func TestCreateIterate(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "testnet", Block: 12345}
	r := registry.New(util.Uint160{4, 5, 6})

	require.NoError(t, Create(dir, id, r))
	require.FileExists(t, filepath.Join(dir, "testnet-12345-authorities.json"))
	require.ErrorIs(t, Create(dir, id, r), os.ErrExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hello"), 0600))

	var n int
	err := IterateSnapshots(dir, func(got ID, res *registry.Registry) {
		n++
		require.Equal(t, id, got)
		require.Equal(t, r.Owner(), res.Owner())
		require.Zero(t, res.Len())
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, IterateSnapshots(filepath.Join(dir, "missing"), func(ID, *registry.Registry) {
		t.Fatal("unexpected snapshot")
	}))
}

func TestID(t *testing.T) {
	id := ID{Label: "mainnet", Block: 42}
	require.Equal(t, "mainnet-42", id.String())
	require.Equal(t, "mainnet-42-authorities.json", id.FileName())

	var res ID
	require.NoError(t, res.decodeFileName(id.FileName()))
	require.Equal(t, id, res)

	require.Error(t, res.decodeFileName("mainnet-42-storage.csv"))
	require.Error(t, res.decodeFileName("main-net-42-authorities.json"))
	require.Error(t, res.decodeFileName("mainnet-x-authorities.json"))
}
