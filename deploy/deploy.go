// Package deploy provides deployment and update procedure of the Authority
// registry contract.
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/nspcc-dev/authority-contract/common"
	"github.com/nspcc-dev/authority-contract/rpc/authority"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Authority contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups parameters of the Authority contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract update requires the account to be a committee one.
	LocalAccount *wallet.Account

	NEF      nef.File
	Manifest manifest.Manifest

	// Address of the already deployed contract. If zero, the address is
	// calculated from LocalAccount, NEF and Manifest as for the new contract.
	Address util.Uint160

	// Initial owner of the registry. If zero, LocalAccount becomes the owner.
	// Not used on update.
	Owner util.Uint160
}

// Deploy makes the Authority contract available on the chain: deploys the
// contract if it is missing, updates it if the on-chain version is older
// than the local one and does nothing otherwise. Deploy waits for the
// transactions to be persisted and returns address of the contract.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	addr := prm.Address
	if addr.Equals(util.Uint160{}) {
		addr = ContractAddress(prm.LocalAccount.ScriptHash(), prm.NEF, prm.Manifest)
	}

	l := prm.Logger.With(zap.String("contract", address.Uint160ToString(addr)))

	l.Info("reading contract state from the chain...")

	st, err := prm.Blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return addr, fmt.Errorf("get contract state by address: %w", err)
		}

		if !prm.Address.Equals(util.Uint160{}) {
			return addr, fmt.Errorf("contract is missing on the chain: %w", err)
		}

		l.Info("contract is missing on the chain, deploying...")

		err = deployContract(ctx, prm)
		if err != nil {
			return addr, err
		}

		l.Info("contract successfully deployed")

		return addr, nil
	}

	if st.Manifest.Name != prm.Manifest.Name {
		return addr, fmt.Errorf("address is taken by another contract '%s'", st.Manifest.Name)
	}

	onChainVersion, err := authority.NewReader(invoker.New(prm.Blockchain, nil), addr).Version()
	if err != nil {
		return addr, fmt.Errorf("get version of the on-chain contract: %w", err)
	}

	if !needUpdate(onChainVersion, common.Version) {
		l.Info("contract is up to date, skip update",
			zap.Stringer("version", onChainVersion), zap.Uint16("updates", st.UpdateCounter))
		return addr, nil
	}

	l.Info("contract is outdated, updating...",
		zap.Stringer("on-chain version", onChainVersion), zap.Int("local version", common.Version))

	err = updateContract(ctx, prm, addr)
	if err != nil {
		return addr, err
	}

	l.Info("contract successfully updated")

	return addr, nil
}

// ContractAddress returns address of the contract deployed by the given
// sender.
func ContractAddress(sender util.Uint160, n nef.File, m manifest.Manifest) util.Uint160 {
	return state.CreateContractHash(sender, n.Checksum, m.Name)
}

func deployContract(ctx context.Context, prm Prm) error {
	act, err := newActor(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return err
	}

	var data any
	if !prm.Owner.Equals(util.Uint160{}) {
		data = []any{prm.Owner}
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	txHash, vub, err := management.New(act).Deploy(&prm.NEF, &prm.Manifest, data)
	if err != nil {
		return fmt.Errorf("send deploy transaction: %w", err)
	}

	prm.Logger.Info("deploy transaction sent, waiting...", zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	return awaitHalt(act, txHash, vub)
}

func updateContract(ctx context.Context, prm Prm, addr util.Uint160) error {
	act, err := newActor(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return err
	}

	rawNEF, err := prm.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}

	rawManifest, err := json.Marshal(prm.Manifest)
	if err != nil {
		return fmt.Errorf("encode manifest to JSON: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	txHash, vub, err := authority.New(act, addr).Update(rawNEF, rawManifest, nil)
	if err != nil {
		return fmt.Errorf("send update transaction: %w", err)
	}

	prm.Logger.Info("update transaction sent, waiting...", zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	return awaitHalt(act, txHash, vub)
}

func newActor(b Blockchain, acc *wallet.Account) (*actor.Actor, error) {
	act, err := actor.NewTuned(b, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: acc.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: acc,
	}}, actor.Options{
		CheckerModifier: runtimeTransactionModifier(b.GetBlockCount),
	})
	if err != nil {
		return nil, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	return act, nil
}

func awaitHalt(act *actor.Actor, txHash util.Uint256, vub uint32) error {
	res, err := act.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %w",
			txHash.StringLE(), authority.ErrorFromException(errors.New(res.FaultException)))
	}

	return nil
}

// needUpdate checks whether the on-chain version is older than the local one.
func needUpdate(onChain *big.Int, local int) bool {
	return onChain.Cmp(big.NewInt(int64(local))) < 0
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). This makes transactions sent by the
// same account within the span the same, so repeated runs do not duplicate
// them.
func runtimeTransactionModifier(getBlockCount func() (uint32, error)) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight, err := getBlockCount()
		if err != nil {
			return fmt.Errorf("get current blockchain height: %w", err)
		}

		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
