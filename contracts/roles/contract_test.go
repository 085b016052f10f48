package roles_test

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/presencelabs/presence-contracts/common"
	"github.com/presencelabs/presence-contracts/contracts/roles/roleconst"
	"github.com/stretchr/testify/require"
)

const (
	rolesPath    = "../roles"
	receiverPath = "../../internal/testcontracts/nep11recv"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// newRolesInvoker deploys the contract with committee as admin.
func newRolesInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, rolesPath, path.Join(rolesPath, "config.yml"))
	e.DeployContract(t, ctr, []any{e.CommitteeHash})
	return e.CommitteeInvoker(ctr.Hash)
}

func deployReceiver(t *testing.T, e *neotest.Executor) *neotest.ContractInvoker {
	ctr := neotest.CompileFile(t, e.CommitteeHash, receiverPath, path.Join(receiverPath, "config.yml"))
	e.DeployContract(t, ctr, nil)
	return e.CommitteeInvoker(ctr.Hash)
}

func generateClaim(t *testing.T, c *neotest.ContractInvoker, method string, args ...any) []byte {
	var hash []byte
	c.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Equal(t, 1, len(stack))
		b, err := stack[0].TryBytes()
		require.NoError(t, err)
		require.Len(t, b, roleconst.ClaimHashLen)
		hash = b
	}, method, args...)
	return hash
}

func claimValid(t *testing.T, c *neotest.ContractInvoker, hash []byte) bool {
	s, err := c.TestInvoke(t, "getClaim", hash)
	require.NoError(t, err)
	fields := s.Pop().Array()
	require.Len(t, fields, 3)
	v, err := fields[2].TryBool()
	require.NoError(t, err)
	return v
}

func requireUnlocked(t *testing.T, c *neotest.ContractInvoker) {
	cs := c.Chain.GetContractState(c.Hash)
	require.NotNil(t, cs)
	si := c.Chain.GetStorageItem(cs.ID, []byte("locked"))
	require.NotNil(t, si)
	locked, err := stackitem.NewByteArray(si).TryBool()
	require.NoError(t, err)
	require.False(t, locked)
}

func requireEmptyString(t *testing.T, c *neotest.ContractInvoker, method string, args ...any) {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	b, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Empty(t, b)
}

func eventNames(t *testing.T, c *neotest.ContractInvoker, h util.Uint256) []string {
	res := c.GetTxExecResult(t, h)
	names := make([]string, 0, len(res.Events))
	for _, ev := range res.Events {
		names = append(names, ev.Name)
	}
	return names
}

func TestRolesInitialize(t *testing.T) {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, rolesPath, path.Join(rolesPath, "config.yml"))
	e.DeployContract(t, ctr, nil)

	c := e.CommitteeInvoker(ctr.Hash)
	c.Invoke(t, stackitem.Null{}, "admin")

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	cAcc.InvokeFail(t, common.ErrAdminWitnessFailed, "initialize", c.CommitteeHash)
	c.InvokeFail(t, roleconst.ErrAdminNotSet, "pause")

	c.Invoke(t, stackitem.Null{}, "initialize", c.CommitteeHash)
	c.Invoke(t, true, "hasRole", c.CommitteeHash, roleconst.Admin)
	c.Invoke(t, c.CommitteeHash.BytesBE(), "admin")
	c.Invoke(t, false, "isPaused")
	c.Invoke(t, 2, "nextTokenID")
	requireEmptyString(t, c, "tokenURI", 1)

	c.InvokeFail(t, roleconst.ErrAlreadyInitialized, "initialize", c.CommitteeHash)
	cAcc.InvokeFail(t, roleconst.ErrAlreadyInitialized, "initialize", acc.ScriptHash())
}

func TestRolesDeployWithAdmin(t *testing.T) {
	c := newRolesInvoker(t)

	c.Invoke(t, true, "hasRole", c.CommitteeHash, roleconst.Admin)
	c.Invoke(t, false, "hasRole", c.CommitteeHash, roleconst.Supervisor)
	c.InvokeFail(t, roleconst.ErrAlreadyInitialized, "initialize", c.CommitteeHash)

	s, err := c.TestInvoke(t, "getToken", 1)
	require.NoError(t, err)
	fields := s.Pop().Array()
	role, err := fields[0].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, roleconst.Admin, role.Int64())
	owner, err := fields[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, c.CommitteeHash.BytesBE(), owner)

	c.InvokeFail(t, roleconst.ErrTokenNotFound, "getToken", 2)
}

func TestRolesTransferAdmin(t *testing.T) {
	c := newRolesInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, common.ErrAdminWitnessFailed, "transferAdmin", acc.ScriptHash())

	h := c.Invoke(t, stackitem.Null{}, "transferAdmin", acc.ScriptHash())
	require.Equal(t, []string{"CredentialRevoked", "AdminTransferred", "CredentialMinted"}, eventNames(t, c, h))
	c.CheckTxNotificationEvent(t, h, 1, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "AdminTransferred",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(c.CommitteeHash.BytesBE()),
			stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
			stackitem.NewBool(true),
		}),
	})

	c.Invoke(t, false, "hasRole", c.CommitteeHash, roleconst.Admin)
	c.Invoke(t, true, "hasRole", acc.ScriptHash(), roleconst.Admin)
	c.Invoke(t, acc.ScriptHash().BytesBE(), "admin")
	c.InvokeFail(t, roleconst.ErrTokenNotFound, "getToken", 1)

	c.InvokeFail(t, common.ErrAdminWitnessFailed, "pause")
	cAcc.Invoke(t, stackitem.Null{}, "pause")
}

func TestRolesSupervisorClaim(t *testing.T) {
	c := newRolesInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, common.ErrAdminWitnessFailed, "generateSupervisorClaimLink", acc.ScriptHash())

	hash := generateClaim(t, c, "generateSupervisorClaimLink", acc.ScriptHash())
	require.True(t, claimValid(t, c, hash))

	h := cAcc.Invoke(t, 2, "claimNFT", hash, acc.ScriptHash())
	c.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "CredentialMinted",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(roleconst.Supervisor),
			stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
			stackitem.Make(2),
		}),
	})
	require.False(t, claimValid(t, c, hash))
	requireUnlocked(t, c)

	c.Invoke(t, true, "hasRole", acc.ScriptHash(), roleconst.Supervisor)
	c.Invoke(t, false, "hasRole", acc.ScriptHash(), roleconst.Associate)

	cAcc.InvokeFail(t, roleconst.ErrClaimUsed, "claimNFT", hash, acc.ScriptHash())
	requireUnlocked(t, c)

	s, err := c.TestInvoke(t, "tokensOf", acc.ScriptHash())
	require.NoError(t, err)
	iter := s.Pop().Value().(*storage.Iterator)
	require.True(t, iter.Next())
	id, err := iter.Value().TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 2, id.Int64())
	require.False(t, iter.Next())
}

func TestRolesClaimNFT(t *testing.T) {
	c := newRolesInvoker(t)

	acc := c.NewAccount(t)
	other := c.NewAccount(t)

	t.Run("unknown claim", func(t *testing.T) {
		c.InvokeFail(t, roleconst.ErrInvalidClaim, "claimNFT", make([]byte, roleconst.ClaimHashLen), acc.ScriptHash())
		c.InvokeFail(t, roleconst.ErrInvalidClaim, "getClaim", make([]byte, roleconst.ClaimHashLen))
	})

	t.Run("recipient mismatch", func(t *testing.T) {
		hash := generateClaim(t, c, "generateSupervisorClaimLink", acc.ScriptHash())
		c.InvokeFail(t, roleconst.ErrRecipientMismatch, "claimNFT", hash, other.ScriptHash())
		require.True(t, claimValid(t, c, hash))
		c.Invoke(t, false, "hasRole", other.ScriptHash(), roleconst.Supervisor)
		requireUnlocked(t, c)
	})

	t.Run("role already held", func(t *testing.T) {
		first := generateClaim(t, c, "generateSupervisorClaimLink", other.ScriptHash())
		second := generateClaim(t, c, "generateSupervisorClaimLink", other.ScriptHash())
		require.NotEqual(t, first, second)

		c.Invoke(t, 2, "claimNFT", first, other.ScriptHash())
		c.InvokeFail(t, roleconst.ErrAlreadyHasRole, "claimNFT", second, other.ScriptHash())
		require.True(t, claimValid(t, c, second))
	})

	t.Run("paused", func(t *testing.T) {
		hash := generateClaim(t, c, "generateSupervisorClaimLink", acc.ScriptHash())

		c.WithSigners(acc).InvokeFail(t, common.ErrAdminWitnessFailed, "pause")
		c.Invoke(t, stackitem.Null{}, "pause")
		c.Invoke(t, true, "isPaused")
		c.InvokeFail(t, roleconst.ErrPaused, "claimNFT", hash, acc.ScriptHash())

		c.Invoke(t, stackitem.Null{}, "unpause")
		c.Invoke(t, 3, "claimNFT", hash, acc.ScriptHash())
	})
}

func TestRolesAssociateClaim(t *testing.T) {
	c := newRolesInvoker(t)

	supervisor := c.NewAccount(t)
	associate := c.NewAccount(t)
	stranger := c.NewAccount(t)

	hash := generateClaim(t, c, "generateSupervisorClaimLink", supervisor.ScriptHash())
	c.Invoke(t, 2, "claimNFT", hash, supervisor.ScriptHash())

	cStranger := c.WithSigners(stranger)
	cStranger.InvokeFail(t, roleconst.ErrNotAllowed, "generateAssociateClaimLink",
		associate.ScriptHash(), stranger.ScriptHash())
	cStranger.InvokeFail(t, common.ErrWitnessFailed, "generateAssociateClaimLink",
		associate.ScriptHash(), supervisor.ScriptHash())

	cSupervisor := c.WithSigners(supervisor)
	hash = generateClaim(t, cSupervisor, "generateAssociateClaimLink",
		associate.ScriptHash(), supervisor.ScriptHash())
	c.Invoke(t, 3, "claimNFT", hash, associate.ScriptHash())
	c.Invoke(t, true, "hasRole", associate.ScriptHash(), roleconst.Associate)

	// Admin needs no credential other than its own.
	hash = generateClaim(t, c, "generateAssociateClaimLink", stranger.ScriptHash(), c.CommitteeHash)
	cStranger.Invoke(t, 4, "claimNFT", hash, stranger.ScriptHash())

	// Associates can't issue claims.
	c.WithSigners(associate).InvokeFail(t, roleconst.ErrNotAllowed, "generateAssociateClaimLink",
		stranger.ScriptHash(), associate.ScriptHash())
}

func TestRolesRevokeCredential(t *testing.T) {
	c := newRolesInvoker(t)

	acc := c.NewAccount(t)
	hash := generateClaim(t, c, "generateSupervisorClaimLink", acc.ScriptHash())
	c.Invoke(t, 2, "claimNFT", hash, acc.ScriptHash())

	c.WithSigners(acc).InvokeFail(t, common.ErrAdminWitnessFailed, "revokeCredential",
		acc.ScriptHash(), roleconst.Supervisor)
	c.InvokeFail(t, roleconst.ErrCredentialNotFound, "revokeCredential",
		acc.ScriptHash(), roleconst.Associate)
	requireUnlocked(t, c)

	h := c.Invoke(t, stackitem.Null{}, "revokeCredential", acc.ScriptHash(), roleconst.Supervisor)
	require.Equal(t, []string{"CredentialRevoked"}, eventNames(t, c, h))
	requireUnlocked(t, c)

	c.Invoke(t, false, "hasRole", acc.ScriptHash(), roleconst.Supervisor)
	c.InvokeFail(t, roleconst.ErrTokenNotFound, "getToken", 2)

	c.Invoke(t, false, "hasRole", c.CommitteeHash, 257)
	c.Invoke(t, false, "hasRole", c.CommitteeHash, -1)
	c.InvokeFail(t, roleconst.ErrCredentialNotFound, "revokeCredential", c.CommitteeHash, 257)
	requireUnlocked(t, c)
	c.InvokeFail(t, roleconst.ErrTokenNotFound, "getToken", -1)
	c.InvokeFail(t, roleconst.ErrTokenNotFound, "getToken",
		new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1)))
	c.InvokeFail(t, roleconst.ErrCredentialNotFound, "revokeCredential",
		acc.ScriptHash(), roleconst.Supervisor)

	// Revoked credential can be claimed again with a new claim.
	hash = generateClaim(t, c, "generateSupervisorClaimLink", acc.ScriptHash())
	c.Invoke(t, 3, "claimNFT", hash, acc.ScriptHash())
}

func TestRolesContractWallet(t *testing.T) {
	c := newRolesInvoker(t)
	recv := deployReceiver(t, c.Executor)

	t.Run("receiver is notified", func(t *testing.T) {
		hash := generateClaim(t, c, "generateSupervisorClaimLink", recv.Hash)
		c.Invoke(t, 2, "claimNFT", hash, recv.Hash)

		s, err := recv.TestInvoke(t, "get")
		require.NoError(t, err)
		fields := s.Pop().Array()
		require.Equal(t, stackitem.Null{}, fields[0])
		tokenID, err := fields[1].TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, 2, tokenID.Int64())
		requireUnlocked(t, c)
	})

	t.Run("reentrant claim fails", func(t *testing.T) {
		hash := generateClaim(t, c, "generateAssociateClaimLink", recv.Hash, c.CommitteeHash)
		next := generateClaim(t, c, "generateAssociateClaimLink", recv.Hash, c.CommitteeHash)

		recv.Invoke(t, stackitem.Null{}, "setReentry", next, false)
		c.InvokeFail(t, roleconst.ErrReentrancy, "claimNFT", hash, recv.Hash)

		require.True(t, claimValid(t, c, hash))
		c.Invoke(t, false, "hasRole", recv.Hash, roleconst.Associate)
		requireUnlocked(t, c)
	})

	t.Run("caught reentrant claim", func(t *testing.T) {
		hash := generateClaim(t, c, "generateAssociateClaimLink", recv.Hash, c.CommitteeHash)
		next := generateClaim(t, c, "generateAssociateClaimLink", recv.Hash, c.CommitteeHash)

		recv.Invoke(t, stackitem.Null{}, "setReentry", next, true)
		c.Invoke(t, 3, "claimNFT", hash, recv.Hash)
		recv.Invoke(t, roleconst.ErrReentrancy, "fault")

		require.False(t, claimValid(t, c, hash))
		require.True(t, claimValid(t, c, next))
		requireUnlocked(t, c)
	})
}

func TestRolesRecoverAdmin(t *testing.T) {
	c := newRolesInvoker(t)

	operator := c.NewAccount(t)
	newAdmin := c.NewAccount(t)
	cOperator := c.WithSigners(operator)

	c.Invoke(t, false, "isAuthorized", operator.ScriptHash())
	cOperator.InvokeFail(t, roleconst.ErrNotAuthorized, "recoverAdmin",
		newAdmin.ScriptHash(), operator.ScriptHash())
	cOperator.InvokeFail(t, common.ErrAdminWitnessFailed, "authorizeContract",
		operator.ScriptHash(), true)

	c.Invoke(t, stackitem.Null{}, "authorizeContract", operator.ScriptHash(), true)
	c.Invoke(t, true, "isAuthorized", operator.ScriptHash())

	c.InvokeFail(t, common.ErrWitnessFailed, "recoverAdmin",
		newAdmin.ScriptHash(), operator.ScriptHash())
	cOperator.Invoke(t, stackitem.Null{}, "recoverAdmin", newAdmin.ScriptHash(), operator.ScriptHash())

	c.Invoke(t, newAdmin.ScriptHash().BytesBE(), "admin")

	// Credentials do not follow the admin pointer on recovery.
	c.Invoke(t, true, "hasRole", c.CommitteeHash, roleconst.Admin)
	c.Invoke(t, false, "hasRole", newAdmin.ScriptHash(), roleconst.Admin)

	c.InvokeFail(t, common.ErrAdminWitnessFailed, "pause")
	cNewAdmin := c.WithSigners(newAdmin)
	cNewAdmin.Invoke(t, stackitem.Null{}, "pause")

	// The next transfer restores consistency.
	h := cNewAdmin.Invoke(t, stackitem.Null{}, "transferAdmin", c.CommitteeHash)
	require.Equal(t, []string{"CredentialRevoked", "AdminTransferred", "CredentialMinted"}, eventNames(t, c, h))
	c.Invoke(t, true, "hasRole", c.CommitteeHash, roleconst.Admin)

	c.Invoke(t, stackitem.Null{}, "authorizeContract", operator.ScriptHash(), false)
	c.Invoke(t, false, "isAuthorized", operator.ScriptHash())
}

func TestRolesSettings(t *testing.T) {
	c := newRolesInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	const uri = "https://presence.example/credentials/"

	cAcc.InvokeFail(t, common.ErrAdminWitnessFailed, "setBaseURI", uri)
	h := c.Invoke(t, stackitem.Null{}, "setBaseURI", uri)
	c.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: c.Hash,
		Name:       "BaseURIUpdated",
		Item:       stackitem.NewArray([]stackitem.Item{stackitem.NewByteArray([]byte(uri))}),
	})
	c.Invoke(t, uri, "tokenURI", 1)
	c.Invoke(t, uri, "tokenURI", 100)

	const eventContract = "0x5a0e4b8e1a2e3c6f0a0e4b8e1a2e3c6f0a0e4b8e"

	requireEmptyString(t, c, "getEventContract")
	cAcc.InvokeFail(t, common.ErrAdminWitnessFailed, "setEventContract", eventContract)
	h = c.Invoke(t, stackitem.Null{}, "setEventContract", eventContract)
	require.Equal(t, []string{"EventContractUpdated"}, eventNames(t, c, h))
	c.Invoke(t, eventContract, "getEventContract")

	c.Invoke(t, common.Version, "version")
}

func TestRolesUpdate(t *testing.T) {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, rolesPath, path.Join(rolesPath, "config.yml"))
	e.DeployContract(t, ctr, []any{e.CommitteeHash})
	c := e.CommitteeInvoker(ctr.Hash)

	rawNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	c.WithSigners(c.NewAccount(t)).InvokeFail(t, common.ErrAdminWitnessFailed, "update", rawNEF, rawManifest, nil)
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}
