package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/presencelabs/presence-contracts/internal/config"
)

var errMissingWallet = errors.New("wallet is not set")

// wrapper over Neo RPC client providing services needed for the commands.
type remoteBlockchain struct {
	rpc *rpcclient.Client
	inv *invoker.Invoker

	// set for signing commands only
	acc   *wallet.Account
	actor *actor.Actor
}

// newRemoteBlockchain dials Neo RPC server. If signer is set, the configured
// wallet account is unlocked and used to send transactions.
func newRemoteBlockchain(ctx context.Context, cfg *config.Config, signer bool) (*remoteBlockchain, error) {
	c, err := rpcclient.New(ctx, cfg.RPCEndpoint, rpcclient.Options{
		DialTimeout:    cfg.Timeout,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	b := &remoteBlockchain{
		rpc: c,
		inv: invoker.New(c, nil),
	}

	if !signer {
		return b, nil
	}

	b.acc, err = openAccount(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	b.actor, err = actor.NewSimple(c, b.acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// sender returns the signing account address.
func (x *remoteBlockchain) sender() util.Uint160 {
	return x.actor.Sender()
}

// wait waits for the transaction to be persisted and requires it to HALT.
func (x *remoteBlockchain) wait(txHash util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	aer, err := x.actor.Wait(txHash, vub, err)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction: %w", err)
	}

	if aer.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), aer.FaultException)
	}

	return aer, nil
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}

// openAccount reads the configured wallet and decrypts the selected account
// (the default one if none is selected).
func openAccount(cfg *config.Config) (*wallet.Account, error) {
	if cfg.Wallet == "" {
		return nil, errMissingWallet
	}

	w, err := wallet.NewWalletFromFile(cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var h util.Uint160
	if cfg.Account != "" {
		h, err = config.ParseAddress(cfg.Account)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	} else {
		h = w.GetChangeAddress()
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", h.StringLE())
	}

	err = acc.Decrypt(cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}
