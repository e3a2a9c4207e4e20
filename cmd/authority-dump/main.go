package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nspcc-dev/authority-contract/snapshot"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	chainLabel := flag.String("label", "", "Label of the blockchain environment (e.g. 'testnet')")
	contractAddr := flag.String("contract", "", "Authority contract address or script hash (LE)")
	rootDir := flag.String("out", "testdata", "Directory to write snapshot to")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *chainLabel == "":
		log.Fatal("missing blockchain label")
	case *contractAddr == "":
		log.Fatal("missing Authority contract address")
	}

	contract, err := parseContract(*contractAddr)
	if err != nil {
		log.Fatal(err)
	}

	err = os.MkdirAll(*rootDir, 0700)
	if err != nil {
		log.Fatal(fmt.Errorf("create root dir: %w", err))
	}

	id, err := _dump(*neoRPCEndpoint, *rootDir, *chainLabel, contract)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Authority registry is successfully dumped to '%s/%s'\n", *rootDir, id.FileName())
}

// parseContract accepts both Neo address and LE script hash.
func parseContract(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract address '%s': %w", s, err)
	}

	return h, nil
}

func _dump(neoBlockchainRPCEndpoint, rootDir, label string, contract util.Uint160) (snapshot.ID, error) {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return snapshot.ID{}, fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	id := snapshot.ID{
		Label: label,
		Block: b.currentBlock,
	}

	var d snapshot.StorageDecoder

	err = b.iterateContractStorage(contract, d.Write)
	if err != nil {
		return id, fmt.Errorf("iterate Authority contract storage: %w", err)
	}

	r, err := d.Registry()
	if err != nil {
		return id, fmt.Errorf("decode registry: %w", err)
	}

	err = snapshot.Create(rootDir, id, r)
	if err != nil {
		return id, fmt.Errorf("write snapshot: %w", err)
	}

	return id, nil
}
