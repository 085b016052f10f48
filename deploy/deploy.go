package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/presencelabs/presence-contracts/contracts"
	"github.com/presencelabs/presence-contracts/rpc/roles"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional.
	Logger *zap.Logger

	// Neo blockchain to deploy contracts to.
	Blockchain Blockchain

	// Account used for transaction signing (must be unlocked). It pays for
	// both deployments and determines contract addresses.
	Account *wallet.Account

	// Admin of both contracts. Zero value means Account.
	Admin util.Uint160

	// Compiled contracts to deploy.
	Contracts contracts.Set
}

// Result contains addresses of the deployed contracts.
type Result struct {
	Roles    util.Uint160
	Presence util.Uint160
}

var errMissingAccount = errors.New("missing signing account")

// Deploy puts Roles and Presence contracts on the chain and links them
// together.
//
// Contract addresses depend on the sender, NEF checksum and manifest name
// only, so Deploy is safe to repeat: contracts already present at the
// expected addresses are left untouched. The Presence contract is registered
// in the Roles one with setEventContract only if the signing account is the
// admin, otherwise linking is left to the admin and a warning is logged.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.Account == nil {
		return res, errMissingAccount
	}
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.Account)
	if err != nil {
		return res, fmt.Errorf("init transaction sender: %w", err)
	}

	admin := prm.Admin
	if admin.Equals(util.Uint160{}) {
		admin = act.Sender()
	}

	res.Roles, err = deployContract(ctx, prm, act, prm.Contracts.Roles, admin)
	if err != nil {
		return res, fmt.Errorf("deploy Roles contract: %w", err)
	}

	prm.Logger.Info("Roles contract successfully synchronized", zap.Stringer("address", res.Roles))

	res.Presence, err = deployContract(ctx, prm, act, prm.Contracts.Presence, admin)
	if err != nil {
		return res, fmt.Errorf("deploy Presence contract: %w", err)
	}

	prm.Logger.Info("Presence contract successfully synchronized", zap.Stringer("address", res.Presence))

	if !admin.Equals(act.Sender()) {
		prm.Logger.Warn("signer is not the admin, contracts must be linked by the admin",
			zap.Stringer("admin", admin), zap.Stringer("presence", res.Presence))
		return res, nil
	}

	err = linkContracts(ctx, prm, act, res)
	if err != nil {
		return res, fmt.Errorf("link contracts: %w", err)
	}

	return res, nil
}

// ContractAddress returns address of the contract deployed by sender.
func ContractAddress(sender util.Uint160, c contracts.Contract) util.Uint160 {
	return state.CreateContractHash(sender, c.NEF.Checksum, c.Manifest.Name)
}

func deployContract(ctx context.Context, prm Prm, act *actor.Actor, c contracts.Contract, admin util.Uint160) (util.Uint160, error) {
	addr := ContractAddress(act.Sender(), c)
	l := prm.Logger.With(zap.String("contract", c.Manifest.Name), zap.Stringer("address", addr))

	st, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil && st != nil {
		l.Info("contract is already deployed, skip")
		return addr, nil
	}

	if err = ctx.Err(); err != nil {
		return addr, err
	}

	l.Info("contract is missing on the chain, deploying...")

	txHash, vub, err := management.New(act).Deploy(&c.NEF, &c.Manifest, []any{admin})
	err = await(act, txHash, vub, err)
	if err != nil {
		return addr, err
	}

	l.Info("contract deployed", zap.Stringer("tx", txHash))
	return addr, nil
}

func linkContracts(ctx context.Context, prm Prm, act *actor.Actor, res Result) error {
	rolesContract := roles.New(act, res.Roles)
	want := res.Presence.StringLE()

	cur, err := rolesContract.GetEventContract()
	if err != nil {
		return fmt.Errorf("read event contract: %w", err)
	}

	if cur == want {
		prm.Logger.Info("contracts are already linked")
		return nil
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	txHash, vub, err := rolesContract.SetEventContract(want)
	err = await(act, txHash, vub, err)
	if err != nil {
		return err
	}

	prm.Logger.Info("Presence contract registered in Roles contract", zap.Stringer("tx", txHash))
	return nil
}

// await waits for the sent transaction to be accepted and checks its
// execution state.
func await(act *actor.Actor, txHash util.Uint256, vub uint32, err error) error {
	aer, err := act.Wait(txHash, vub, err)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), aer.FaultException)
	}

	return nil
}
