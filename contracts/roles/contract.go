package roles

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/presencelabs/presence-contracts/common"
	"github.com/presencelabs/presence-contracts/contracts/roles/roleconst"
)

// Token is a credential binding a role to exactly one owner.
type Token struct {
	RoleID int
	Owner  interop.Hash160
}

// Claim is a single-use voucher which mints a credential of RoleID when
// redeemed by Recipient. Valid is cleared on redemption, the record itself
// is kept forever.
type Claim struct {
	RoleID    int
	Recipient interop.Hash160
	Valid     bool
}

const (
	adminKey         = "admin"
	pausedKey        = "paused"
	lockedKey        = "locked"
	nextTokenIDKey   = "nextTokenID"
	baseURIKey       = "baseURI"
	eventContractKey = "eventContract"

	tokenPrefix     = 't'
	rolePrefix      = 'r'
	claimPrefix     = 'c'
	recovererPrefix = 'a'

	// randomLen is the number of random bytes mixed into a claim key.
	randomLen = 8
	// roleIDLen is the width of the role identifier mixed into a claim key.
	roleIDLen = 4
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data == nil {
		runtime.Log("roles contract deployed, waiting for initialization")
		return
	}

	args := data.(struct {
		admin interop.Hash160
	})

	if len(args.admin) != interop.Hash160Len {
		panic(roleconst.ErrInvalidAddress)
	}

	initialize(ctx, args.admin)

	runtime.Log("roles contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the current admin.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	checkAdmin(ctx)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("roles contract updated")
}

// Initialize sets up the contract for the given admin and mints the Admin
// credential to it. It fails if the contract has already been initialized
// either here or on deployment. Admin must witness the call.
func Initialize(admin interop.Hash160) {
	ctx := storage.GetContext()

	if storage.Get(ctx, adminKey) != nil {
		panic(roleconst.ErrAlreadyInitialized)
	}
	if len(admin) != interop.Hash160Len {
		panic(roleconst.ErrInvalidAddress)
	}

	common.CheckAdminWitness(admin)

	initialize(ctx, admin)
}

// TransferAdmin moves admin rights to newAdmin. The Admin credential of the
// previous admin is revoked and a fresh one is minted for newAdmin, so the
// Admin token always follows the admin pointer.
//
// Produces AdminTransferred, CredentialRevoked and CredentialMinted
// notifications.
func TransferAdmin(newAdmin interop.Hash160) {
	ctx := storage.GetContext()

	oldAdmin := checkAdmin(ctx)

	if len(newAdmin) != interop.Hash160Len {
		panic(roleconst.ErrInvalidAddress)
	}

	if id := roleToken(ctx, oldAdmin, roleconst.Admin); id != 0 {
		burn(ctx, roleconst.Admin, oldAdmin, id)
	}

	// newAdmin may still hold an Admin token issued before an admin recovery.
	if id := roleToken(ctx, newAdmin, roleconst.Admin); id != 0 {
		burn(ctx, roleconst.Admin, newAdmin, id)
	}

	storage.Put(ctx, adminKey, newAdmin)
	runtime.Notify("AdminTransferred", oldAdmin, newAdmin, true)

	mint(ctx, roleconst.Admin, newAdmin)
}

// Pause blocks credential claiming. Admin only.
func Pause() {
	ctx := storage.GetContext()
	checkAdmin(ctx)
	storage.Put(ctx, pausedKey, true)
}

// Unpause allows credential claiming again. Admin only.
func Unpause() {
	ctx := storage.GetContext()
	checkAdmin(ctx)
	storage.Put(ctx, pausedKey, false)
}

// IsPaused returns true if credential claiming is paused.
func IsPaused() bool {
	ctx := storage.GetReadOnlyContext()
	return common.GetBool(ctx, pausedKey)
}

// SetBaseURI replaces metadata URI returned for every credential.
// Admin only. Produces BaseURIUpdated notification.
func SetBaseURI(uri string) {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	storage.Put(ctx, baseURIKey, uri)
	runtime.Notify("BaseURIUpdated", uri)
}

// SetEventContract records the identifier of the Presence contract serving
// this registry. The value is informational, the contract never calls it.
// Admin only. Produces EventContractUpdated notification.
func SetEventContract(contractID string) {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	storage.Put(ctx, eventContractKey, contractID)
	runtime.Notify("EventContractUpdated", contractID)
}

// GetEventContract returns the identifier set by SetEventContract or an
// empty string.
func GetEventContract() string {
	ctx := storage.GetReadOnlyContext()
	v := storage.Get(ctx, eventContractKey)
	if v == nil {
		return ""
	}
	return v.(string)
}

// AuthorizeContract adds (status is true) or removes an operator allowed to
// recover admin rights with RecoverAdmin. Admin only.
func AuthorizeContract(operator interop.Hash160, status bool) {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	key := append([]byte{recovererPrefix}, operator...)
	if status {
		storage.Put(ctx, key, true)
	} else {
		storage.Delete(ctx, key)
	}
}

// IsAuthorized returns true if operator may call RecoverAdmin.
func IsAuthorized(operator interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return common.GetBool(ctx, append([]byte{recovererPrefix}, operator...))
}

// RecoverAdmin overwrites the admin pointer with newAdmin. Operator must
// witness the call and be authorized with AuthorizeContract.
//
// Credentials are left untouched: the previous admin keeps its Admin token
// and newAdmin gets none.
func RecoverAdmin(newAdmin interop.Hash160, operator interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckWitness(operator)

	if !common.GetBool(ctx, append([]byte{recovererPrefix}, operator...)) {
		panic(roleconst.ErrNotAuthorized)
	}
	if len(newAdmin) != interop.Hash160Len {
		panic(roleconst.ErrInvalidAddress)
	}

	storage.Put(ctx, adminKey, newAdmin)
}

// Admin returns the current admin or nil if the contract is not
// initialized.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	v := storage.Get(ctx, adminKey)
	if v == nil {
		return nil
	}
	return v.(interop.Hash160)
}

// GenerateSupervisorClaimLink issues a Supervisor claim bound to recipient
// and returns its key. Admin only. Produces ClaimLinkGenerated notification.
func GenerateSupervisorClaimLink(recipient interop.Hash160) interop.Hash256 {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	return newClaim(ctx, recipient, roleconst.Supervisor)
}

// GenerateAssociateClaimLink issues an Associate claim bound to recipient
// and returns its key. Operator must witness the call and be either the
// admin or a Supervisor credential holder. Produces ClaimLinkGenerated
// notification.
func GenerateAssociateClaimLink(recipient interop.Hash160, operator interop.Hash160) interop.Hash256 {
	ctx := storage.GetContext()

	common.CheckWitness(operator)

	admin := getAdmin(ctx)
	if !common.BytesEqual(operator, admin) && roleToken(ctx, operator, roleconst.Supervisor) == 0 {
		panic(roleconst.ErrNotAllowed)
	}

	return newClaim(ctx, recipient, roleconst.Associate)
}

// ClaimNFT redeems the claim stored under hash and mints its credential to
// wallet, returning the new token ID. Wallet must be the claim recipient and
// must not hold a credential of the same role yet.
//
// If wallet is a contract, its onNEP11Payment method is called after the
// claim is consumed. The call is guarded against reentrancy.
//
// Produces CredentialMinted notification.
func ClaimNFT(hash interop.Hash256, wallet interop.Hash160) int {
	ctx := storage.GetContext()

	if common.GetBool(ctx, pausedKey) {
		panic(roleconst.ErrPaused)
	}

	enter(ctx)
	defer exit(ctx)

	key := append([]byte{claimPrefix}, hash...)
	data := storage.Get(ctx, key)
	if data == nil {
		panic(roleconst.ErrInvalidClaim)
	}

	claim := std.Deserialize(data.([]byte)).(Claim)
	if !claim.Valid {
		panic(roleconst.ErrClaimUsed)
	}
	if !common.BytesEqual(claim.Recipient, wallet) {
		panic(roleconst.ErrRecipientMismatch)
	}
	if roleToken(ctx, wallet, claim.RoleID) != 0 {
		panic(roleconst.ErrAlreadyHasRole)
	}

	id := mint(ctx, claim.RoleID, wallet)

	claim.Valid = false
	common.SetSerialized(ctx, key, claim)

	if management.GetContract(wallet) != nil {
		contract.Call(wallet, "onNEP11Payment", contract.All, nil, 1, convert.ToBytes(id), nil)
	}

	return id
}

// RevokeCredential burns credential of the given role held by wallet.
// Admin only. Produces CredentialRevoked notification.
func RevokeCredential(wallet interop.Hash160, roleID int) {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	enter(ctx)
	defer exit(ctx)

	id := roleToken(ctx, wallet, roleID)
	if id == 0 {
		panic(roleconst.ErrCredentialNotFound)
	}

	burn(ctx, roleID, wallet, id)
}

// HasRole returns true if wallet holds a credential of the given role.
func HasRole(wallet interop.Hash160, roleID int) bool {
	ctx := storage.GetReadOnlyContext()
	return roleToken(ctx, wallet, roleID) != 0
}

// TokenURI returns metadata URI of the credential. All credentials share the
// same base URI.
func TokenURI(tokenID int) string {
	ctx := storage.GetReadOnlyContext()
	v := storage.Get(ctx, baseURIKey)
	if v == nil {
		return ""
	}
	return v.(string)
}

// GetToken returns credential with the given ID.
func GetToken(tokenID int) Token {
	ctx := storage.GetReadOnlyContext()
	if !common.ValidID(tokenID) {
		panic(roleconst.ErrTokenNotFound)
	}
	data := storage.Get(ctx, common.PrefixedID(tokenPrefix, tokenID))
	if data == nil {
		panic(roleconst.ErrTokenNotFound)
	}
	return std.Deserialize(data.([]byte)).(Token)
}

// TokensOf returns iterator over IDs of credentials held by owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{rolePrefix}, owner...), storage.ValuesOnly)
}

// GetClaim returns the claim stored under hash, consumed ones included.
func GetClaim(hash interop.Hash256) Claim {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, append([]byte{claimPrefix}, hash...))
	if data == nil {
		panic(roleconst.ErrInvalidClaim)
	}
	return std.Deserialize(data.([]byte)).(Claim)
}

// NextTokenID returns ID the next minted credential gets.
func NextTokenID() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, nextTokenIDKey, 1)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func initialize(ctx storage.Context, admin interop.Hash160) {
	storage.Put(ctx, adminKey, admin)
	storage.Put(ctx, pausedKey, false)
	storage.Put(ctx, nextTokenIDKey, 1)
	storage.Put(ctx, baseURIKey, "")
	storage.Put(ctx, lockedKey, false)

	mint(ctx, roleconst.Admin, admin)
}

func getAdmin(ctx storage.Context) interop.Hash160 {
	v := storage.Get(ctx, adminKey)
	if v == nil {
		panic(roleconst.ErrAdminNotSet)
	}
	return v.(interop.Hash160)
}

// checkAdmin panics if the call is not witnessed by the current admin.
func checkAdmin(ctx storage.Context) interop.Hash160 {
	admin := getAdmin(ctx)
	common.CheckAdminWitness(admin)
	return admin
}

// enter takes the reentrancy lock. It must be paired with deferred exit.
func enter(ctx storage.Context) {
	if common.GetBool(ctx, lockedKey) {
		panic(roleconst.ErrReentrancy)
	}
	storage.Put(ctx, lockedKey, true)
}

func exit(ctx storage.Context) {
	storage.Put(ctx, lockedKey, false)
}

func validRole(roleID int) bool {
	return roleID == roleconst.Admin || roleID == roleconst.Supervisor || roleID == roleconst.Associate
}

func roleKey(owner interop.Hash160, roleID int) []byte {
	key := append([]byte{rolePrefix}, owner...)
	return append(key, byte(roleID))
}

// roleToken returns ID of owner's credential of the given role or 0.
func roleToken(ctx storage.Context, owner interop.Hash160, roleID int) int {
	if !validRole(roleID) {
		return 0
	}
	v := storage.Get(ctx, roleKey(owner, roleID))
	if v == nil {
		return 0
	}
	return v.(int)
}

// mint issues a credential of the given role to owner. Token record and
// role mapping are always written together.
func mint(ctx storage.Context, roleID int, owner interop.Hash160) int {
	id := common.GetInt(ctx, nextTokenIDKey, 1)
	storage.Put(ctx, nextTokenIDKey, id+1)

	common.SetSerialized(ctx, common.PrefixedID(tokenPrefix, id), Token{
		RoleID: roleID,
		Owner:  owner,
	})
	storage.Put(ctx, roleKey(owner, roleID), id)

	runtime.Notify("CredentialMinted", roleID, owner, id)
	return id
}

func burn(ctx storage.Context, roleID int, owner interop.Hash160, id int) {
	storage.Delete(ctx, common.PrefixedID(tokenPrefix, id))
	storage.Delete(ctx, roleKey(owner, roleID))

	runtime.Notify("CredentialRevoked", roleID, owner, id)
}

// newClaim stores a valid claim of the given role for recipient. The key is
// SHA-256 of 8 random bytes followed by the 4-byte role ID, both big-endian.
func newClaim(ctx storage.Context, recipient interop.Hash160, roleID int) interop.Hash256 {
	seed := append(randomBytes(), common.BigEndian(roleID, roleIDLen)...)
	hash := crypto.Sha256(seed)

	key := append([]byte{claimPrefix}, hash...)
	if storage.Get(ctx, key) != nil {
		panic(roleconst.ErrClaimCollision)
	}

	common.SetSerialized(ctx, key, Claim{
		RoleID:    roleID,
		Recipient: recipient,
		Valid:     true,
	})

	runtime.Notify("ClaimLinkGenerated", roleID, recipient, hash)
	return hash
}

// randomBytes returns the low 64 bits of a fresh random number in
// big-endian order.
func randomBytes() []byte {
	raw := convert.ToBytes(runtime.GetRandom())
	b := make([]byte, randomLen)
	for i := 0; i < randomLen && i < len(raw); i++ {
		b[randomLen-1-i] = raw[i]
	}
	return b
}
