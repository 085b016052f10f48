package deploy

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/consensus"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/network"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/services/rpcsrv"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/presencelabs/presence-contracts/contracts"
	"github.com/presencelabs/presence-contracts/rpc/presence"
	"github.com/presencelabs/presence-contracts/rpc/roles"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	rolesPath    = "../contracts/roles"
	presencePath = "../contracts/presence"
)

func compileSet(t *testing.T, sender util.Uint160) contracts.Set {
	r := neotest.CompileFile(t, sender, rolesPath, filepath.Join(rolesPath, "config.yml"))
	p := neotest.CompileFile(t, sender, presencePath, filepath.Join(presencePath, "config.yml"))

	return contracts.Set{
		Roles:    contracts.Contract{NEF: *r.NEF, Manifest: *r.Manifest},
		Presence: contracts.Contract{NEF: *p.NEF, Manifest: *p.Manifest},
	}
}

func TestContractAddress(t *testing.T) {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	set := compileSet(t, acc.ScriptHash())

	r := ContractAddress(acc.ScriptHash(), set.Roles)
	require.Equal(t, state.CreateContractHash(acc.ScriptHash(), set.Roles.NEF.Checksum, "Presence Roles"), r)

	p := ContractAddress(acc.ScriptHash(), set.Presence)
	require.NotEqual(t, r, p)

	other, err := wallet.NewAccount()
	require.NoError(t, err)
	require.NotEqual(t, r, ContractAddress(other.ScriptHash(), set.Roles))
}

func TestDeployMissingAccount(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{})
	require.ErrorIs(t, err, errMissingAccount)
}

// newTestChain starts single-node network with RPC server and returns client
// connected to it together with the validator multi-sig account holding all
// the GAS.
func newTestChain(t *testing.T) (*rpcclient.Internal, *wallet.Account) {
	validatorAcc, err := wallet.NewAccount()
	require.NoError(t, err)

	var validatorMulti = new(wallet.Account)
	*validatorMulti = *validatorAcc
	err = validatorMulti.ConvertMultisig(1, []*keys.PublicKey{validatorAcc.PublicKey()})
	require.NoError(t, err)

	var (
		tmpDir     = t.TempDir()
		walletPath = filepath.Join(tmpDir, "wallet.json")
		wlt        = wallet.NewInMemoryWallet()
	)

	err = validatorAcc.Encrypt("", keys.NEP2ScryptParams())
	require.NoError(t, err)
	wlt.Accounts = append(wlt.Accounts, validatorAcc)
	wlt.SetPath(walletPath)
	require.NoError(t, wlt.Save())

	var (
		cfg = config.Config{
			ApplicationConfiguration: config.ApplicationConfiguration{
				RPC: config.RPC{
					BasicService: config.BasicService{
						Enabled: true,
					},
					MaxGasInvoke: fixedn.Fixed8FromInt64(50),
				},
				Consensus: config.Consensus{
					Enabled: true,
					UnlockWallet: config.Wallet{
						Path:     walletPath,
						Password: "",
					},
				},
			},
			ProtocolConfiguration: config.ProtocolConfiguration{
				Magic:           netmode.UnitTestNet,
				MaxTimePerBlock: 20 * time.Second,
				Genesis: config.Genesis{
					MaxTraceableBlocks:          1000,
					MaxValidUntilBlockIncrement: 1000 / 2,
					TimePerBlock:                50 * time.Millisecond,
				},
				StandbyCommittee:   []string{hex.EncodeToString(validatorAcc.PublicKey().Bytes())},
				ValidatorsCount:    1,
				VerifyTransactions: true,
			},
		}
		logger = zaptest.NewLogger(t)
		store  = storage.NewMemoryStore()
	)

	bc, err := core.NewBlockchain(store, config.Blockchain{ProtocolConfiguration: cfg.ProtocolConfiguration}, logger)
	require.NoError(t, err)
	go bc.Run()
	t.Cleanup(bc.Close)

	serverConfig, err := network.NewServerConfig(config.Config{ProtocolConfiguration: cfg.ProtocolConfiguration})
	require.NoError(t, err)
	serverConfig.UserAgent = fmt.Sprintf(config.UserAgentFormat, "presence-test")
	netSrv, err := network.NewServer(serverConfig, bc, bc.GetStateSyncModule(), logger)
	require.NoError(t, err)
	cons, err := consensus.NewService(consensus.Config{
		Logger:                logger,
		Broadcast:             netSrv.BroadcastExtensible,
		Chain:                 bc,
		BlockQueue:            netSrv.GetBlockQueue(),
		ProtocolConfiguration: cfg.ProtocolConfiguration,
		RequestTx:             netSrv.RequestTx,
		StopTxFlow:            netSrv.StopTxFlow,
		Wallet:                cfg.ApplicationConfiguration.Consensus.UnlockWallet,
	})
	require.NoError(t, err)
	netSrv.AddConsensusService(cons, cons.OnPayload, cons.OnTransaction)
	netSrv.Start()
	t.Cleanup(netSrv.Shutdown)

	errCh := make(chan error, 2)
	rpcServer := rpcsrv.New(bc, cfg.ApplicationConfiguration.RPC, netSrv, nil, logger, errCh)
	rpcServer.Start()
	t.Cleanup(rpcServer.Shutdown)

	rpcClient, err := rpcclient.NewInternal(context.TODO(), rpcServer.RegisterLocal)
	require.NoError(t, err)
	require.NoError(t, rpcClient.Init())

	return rpcClient, validatorMulti
}

func TestDeploy(t *testing.T) {
	rpcClient, acc := newTestChain(t)

	var (
		logger = zaptest.NewLogger(t)
		prm    = Prm{
			Logger:     logger,
			Blockchain: rpcClient,
			Account:    acc,
			Contracts:  compileSet(t, acc.ScriptHash()),
		}
	)

	ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
	defer cancel()

	res, err := Deploy(ctx, prm)
	require.NoError(t, err)
	require.Equal(t, ContractAddress(acc.ScriptHash(), prm.Contracts.Roles), res.Roles)
	require.Equal(t, ContractAddress(acc.ScriptHash(), prm.Contracts.Presence), res.Presence)

	rolesReader := roles.NewReader(invoker.New(rpcClient, nil), res.Roles)

	admin, err := rolesReader.Admin()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash(), admin)

	ok, err := rolesReader.HasRole(acc.ScriptHash(), roles.RoleAdmin)
	require.NoError(t, err)
	require.True(t, ok)

	linked, err := rolesReader.GetEventContract()
	require.NoError(t, err)
	require.Equal(t, res.Presence.StringLE(), linked)

	presenceAdmin, err := presence.NewReader(invoker.New(rpcClient, nil), res.Presence).Admin()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash(), presenceAdmin)

	t.Run("repeated", func(t *testing.T) {
		again, err := Deploy(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, res, again)

		next, err := rolesReader.NextTokenID()
		require.NoError(t, err)
		require.EqualValues(t, 2, next.Int64())
	})
}

func TestDeployForeignAdmin(t *testing.T) {
	rpcClient, acc := newTestChain(t)

	admin, err := wallet.NewAccount()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
	defer cancel()

	res, err := Deploy(ctx, Prm{
		Logger:     zaptest.NewLogger(t),
		Blockchain: rpcClient,
		Account:    acc,
		Admin:      admin.ScriptHash(),
		Contracts:  compileSet(t, acc.ScriptHash()),
	})
	require.NoError(t, err)

	rolesReader := roles.NewReader(invoker.New(rpcClient, nil), res.Roles)

	cur, err := rolesReader.Admin()
	require.NoError(t, err)
	require.Equal(t, admin.ScriptHash(), cur)

	linked, err := rolesReader.GetEventContract()
	require.NoError(t, err)
	require.Empty(t, linked)
}
