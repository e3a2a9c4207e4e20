package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nspcc-dev/authority-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the NEP-6 wallet with the deployer account")
	accountAddr := flag.String("account", "", "Address of the deployer account (default: the first wallet account)")
	nefPath := flag.String("nef", "contracts/authority/contract.nef", "Path to the compiled contract")
	manifestPath := flag.String("manifest", "contracts/authority/manifest.json", "Path to the contract manifest")
	contractAddr := flag.String("contract", "", "Address of the deployed contract to update (default: calculated for the new one)")
	ownerAddr := flag.String("owner", "", "Address of the initial registry owner (default: deployer account)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Deployment timeout")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing wallet path")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}

	defer func() { _ = logger.Sync() }()

	prm := deploy.Prm{Logger: logger}

	prm.NEF, prm.Manifest, err = readContract(*nefPath, *manifestPath)
	if err != nil {
		logger.Fatal("failed to read contract", zap.Error(err))
	}

	prm.LocalAccount, err = unlockAccount(*walletPath, *accountAddr)
	if err != nil {
		logger.Fatal("failed to unlock deployer account", zap.Error(err))
	}

	prm.Address, err = optionalAddress(*contractAddr)
	if err != nil {
		logger.Fatal("invalid contract address", zap.Error(err))
	}

	prm.Owner, err = optionalAddress(*ownerAddr)
	if err != nil {
		logger.Fatal("invalid owner address", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	c, err := rpcclient.NewWS(ctx, *neoRPCEndpoint, rpcclient.WSOptions{
		Options: rpcclient.Options{
			DialTimeout:    15 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
	})
	if err != nil {
		logger.Fatal("failed to dial Neo RPC server", zap.Error(err))
	}

	defer c.Close()

	err = c.Init()
	if err != nil {
		logger.Fatal("failed to init RPC client", zap.Error(err))
	}

	prm.Blockchain = c

	addr, err := deploy.Deploy(ctx, prm)
	if err != nil {
		logger.Fatal("failed to deploy Authority contract", zap.Error(err))
	}

	logger.Info("Authority contract is ready", zap.String("address", address.Uint160ToString(addr)))
}

func readContract(nefPath, manifestPath string) (nef.File, manifest.Manifest, error) {
	var m manifest.Manifest

	rawNEF, err := os.ReadFile(nefPath)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("read NEF file: %w", err)
	}

	n, err := nef.FileFromBytes(rawNEF)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("decode NEF file: %w", err)
	}

	rawManifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return n, m, fmt.Errorf("read manifest file: %w", err)
	}

	err = json.Unmarshal(rawManifest, &m)
	if err != nil {
		return n, m, fmt.Errorf("decode manifest from JSON: %w", err)
	}

	return n, m, nil
}

func unlockAccount(walletPath, accountAddr string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account

	if accountAddr == "" {
		if len(w.Accounts) == 0 {
			return nil, fmt.Errorf("wallet '%s' has no accounts", walletPath)
		}
		acc = w.Accounts[0]
	} else {
		h, err := address.StringToUint160(accountAddr)
		if err != nil {
			return nil, fmt.Errorf("decode account address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in wallet '%s'", accountAddr, walletPath)
		}
	}

	err = acc.Decrypt(os.Getenv("AUTHORITY_WALLET_PASSWORD"), w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

func optionalAddress(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, nil
	}
	return address.StringToUint160(s)
}
