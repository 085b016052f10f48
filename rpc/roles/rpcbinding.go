// Package roles contains RPC wrappers for the Role Registry contract.
package roles

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Role kinds as numbers accepted by contract methods.
var (
	RoleAdmin      = big.NewInt(1)
	RoleSupervisor = big.NewInt(2)
	RoleAssociate  = big.NewInt(3)
)

// Token is a contract-specific roles.Token type used by its methods.
type Token struct {
	RoleID *big.Int
	Owner  util.Uint160
}

// Claim is a contract-specific roles.Claim type used by its methods.
type Claim struct {
	RoleID    *big.Int
	Recipient util.Uint160
	Valid     bool
}

// CredentialMintedEvent represents "CredentialMinted" event emitted by the contract.
type CredentialMintedEvent struct {
	RoleID    *big.Int
	Recipient util.Uint160
	TokenID   *big.Int
}

// CredentialRevokedEvent represents "CredentialRevoked" event emitted by the contract.
type CredentialRevokedEvent struct {
	RoleID  *big.Int
	Wallet  util.Uint160
	TokenID *big.Int
}

// AdminTransferredEvent represents "AdminTransferred" event emitted by the contract.
type AdminTransferredEvent struct {
	OldAdmin util.Uint160
	NewAdmin util.Uint160
	Ok       bool
}

// BaseURIUpdatedEvent represents "BaseURIUpdated" event emitted by the contract.
type BaseURIUpdatedEvent struct {
	URI string
}

// ClaimLinkGeneratedEvent represents "ClaimLinkGenerated" event emitted by the contract.
type ClaimLinkGeneratedEvent struct {
	RoleID    *big.Int
	Recipient util.Uint160
	Hash      util.Uint256
}

// EventContractUpdatedEvent represents "EventContractUpdated" event emitted by the contract.
type EventContractUpdatedEvent struct {
	ContractID string
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Admin invokes `admin` method of contract. Zero hash is returned if the
// contract is not initialized.
func (c *ContractReader) Admin() (util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "admin"))
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return itemToUint160(item)
}

// IsPaused invokes `isPaused` method of contract.
func (c *ContractReader) IsPaused() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isPaused"))
}

// IsAuthorized invokes `isAuthorized` method of contract.
func (c *ContractReader) IsAuthorized(operator util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAuthorized", operator))
}

// HasRole invokes `hasRole` method of contract.
func (c *ContractReader) HasRole(wallet util.Uint160, roleID *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasRole", wallet, roleID))
}

// TokenURI invokes `tokenURI` method of contract.
func (c *ContractReader) TokenURI(tokenID *big.Int) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "tokenURI", tokenID))
}

// GetToken invokes `getToken` method of contract.
func (c *ContractReader) GetToken(tokenID *big.Int) (*Token, error) {
	return itemToToken(unwrap.Item(c.invoker.Call(c.hash, "getToken", tokenID)))
}

// TokensOf invokes `tokensOf` method of contract.
func (c *ContractReader) TokensOf(owner util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "tokensOf", owner))
}

// TokensOfExpanded is similar to TokensOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) TokensOfExpanded(owner util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "tokensOf", _numOfIteratorItems, owner))
}

// GetClaim invokes `getClaim` method of contract.
func (c *ContractReader) GetClaim(hash util.Uint256) (*Claim, error) {
	return itemToClaim(unwrap.Item(c.invoker.Call(c.hash, "getClaim", hash)))
}

// GetEventContract invokes `getEventContract` method of contract.
func (c *ContractReader) GetEventContract() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "getEventContract"))
}

// NextTokenID invokes `nextTokenID` method of contract.
func (c *ContractReader) NextTokenID() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "nextTokenID"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Initialize creates a transaction invoking `initialize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Initialize(admin util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initialize", admin)
}

// InitializeTransaction creates a transaction invoking `initialize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitializeTransaction(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "initialize", admin)
}

// InitializeUnsigned creates a transaction invoking `initialize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitializeUnsigned(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "initialize", nil, admin)
}

// TransferAdmin creates a transaction invoking `transferAdmin` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferAdmin(newAdmin util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferAdmin", newAdmin)
}

// TransferAdminTransaction creates a transaction invoking `transferAdmin` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferAdminTransaction(newAdmin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferAdmin", newAdmin)
}

// TransferAdminUnsigned creates a transaction invoking `transferAdmin` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferAdminUnsigned(newAdmin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferAdmin", nil, newAdmin)
}

// Pause creates a transaction invoking `pause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pause() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "pause")
}

// PauseTransaction creates a transaction invoking `pause` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PauseTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "pause")
}

// PauseUnsigned creates a transaction invoking `pause` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PauseUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "pause", nil)
}

// Unpause creates a transaction invoking `unpause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Unpause() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unpause")
}

// UnpauseTransaction creates a transaction invoking `unpause` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UnpauseTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "unpause")
}

// UnpauseUnsigned creates a transaction invoking `unpause` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UnpauseUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "unpause", nil)
}

// SetBaseURI creates a transaction invoking `setBaseURI` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetBaseURI(uri string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setBaseURI", uri)
}

// SetBaseURITransaction creates a transaction invoking `setBaseURI` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetBaseURITransaction(uri string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setBaseURI", uri)
}

// SetBaseURIUnsigned creates a transaction invoking `setBaseURI` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetBaseURIUnsigned(uri string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setBaseURI", nil, uri)
}

// SetEventContract creates a transaction invoking `setEventContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetEventContract(contractID string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setEventContract", contractID)
}

// SetEventContractTransaction creates a transaction invoking `setEventContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetEventContractTransaction(contractID string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setEventContract", contractID)
}

// SetEventContractUnsigned creates a transaction invoking `setEventContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetEventContractUnsigned(contractID string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setEventContract", nil, contractID)
}

// AuthorizeContract creates a transaction invoking `authorizeContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AuthorizeContract(operator util.Uint160, status bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "authorizeContract", operator, status)
}

// AuthorizeContractTransaction creates a transaction invoking `authorizeContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AuthorizeContractTransaction(operator util.Uint160, status bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "authorizeContract", operator, status)
}

// AuthorizeContractUnsigned creates a transaction invoking `authorizeContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AuthorizeContractUnsigned(operator util.Uint160, status bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "authorizeContract", nil, operator, status)
}

// RecoverAdmin creates a transaction invoking `recoverAdmin` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RecoverAdmin(newAdmin util.Uint160, operator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "recoverAdmin", newAdmin, operator)
}

// RecoverAdminTransaction creates a transaction invoking `recoverAdmin` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RecoverAdminTransaction(newAdmin util.Uint160, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "recoverAdmin", newAdmin, operator)
}

// RecoverAdminUnsigned creates a transaction invoking `recoverAdmin` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RecoverAdminUnsigned(newAdmin util.Uint160, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "recoverAdmin", nil, newAdmin, operator)
}

// GenerateSupervisorClaimLink creates a transaction invoking `generateSupervisorClaimLink` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
// Claim hash is delivered with ClaimLinkGenerated event.
func (c *Contract) GenerateSupervisorClaimLink(recipient util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "generateSupervisorClaimLink", recipient)
}

// GenerateSupervisorClaimLinkTransaction creates a transaction invoking `generateSupervisorClaimLink` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) GenerateSupervisorClaimLinkTransaction(recipient util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "generateSupervisorClaimLink", recipient)
}

// GenerateSupervisorClaimLinkUnsigned creates a transaction invoking `generateSupervisorClaimLink` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) GenerateSupervisorClaimLinkUnsigned(recipient util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "generateSupervisorClaimLink", nil, recipient)
}

// GenerateAssociateClaimLink creates a transaction invoking `generateAssociateClaimLink` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
// Claim hash is delivered with ClaimLinkGenerated event.
func (c *Contract) GenerateAssociateClaimLink(recipient util.Uint160, operator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "generateAssociateClaimLink", recipient, operator)
}

// GenerateAssociateClaimLinkTransaction creates a transaction invoking `generateAssociateClaimLink` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) GenerateAssociateClaimLinkTransaction(recipient util.Uint160, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "generateAssociateClaimLink", recipient, operator)
}

// GenerateAssociateClaimLinkUnsigned creates a transaction invoking `generateAssociateClaimLink` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) GenerateAssociateClaimLinkUnsigned(recipient util.Uint160, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "generateAssociateClaimLink", nil, recipient, operator)
}

// ClaimNFT creates a transaction invoking `claimNFT` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimNFT(hash util.Uint256, wallet util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimNFT", hash, wallet)
}

// ClaimNFTTransaction creates a transaction invoking `claimNFT` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ClaimNFTTransaction(hash util.Uint256, wallet util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "claimNFT", hash, wallet)
}

// ClaimNFTUnsigned creates a transaction invoking `claimNFT` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ClaimNFTUnsigned(hash util.Uint256, wallet util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "claimNFT", nil, hash, wallet)
}

// RevokeCredential creates a transaction invoking `revokeCredential` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RevokeCredential(wallet util.Uint160, roleID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "revokeCredential", wallet, roleID)
}

// RevokeCredentialTransaction creates a transaction invoking `revokeCredential` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RevokeCredentialTransaction(wallet util.Uint160, roleID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "revokeCredential", wallet, roleID)
}

// RevokeCredentialUnsigned creates a transaction invoking `revokeCredential` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RevokeCredentialUnsigned(wallet util.Uint160, roleID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "revokeCredential", nil, wallet, roleID)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToToken converts stack item into *Token.
func itemToToken(item stackitem.Item, err error) (*Token, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Token)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Token from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Token) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	res.RoleID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field RoleID: %w", err)
	}

	res.Owner, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// itemToClaim converts stack item into *Claim.
func itemToClaim(item stackitem.Item, err error) (*Claim, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Claim)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Claim from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Claim) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	res.RoleID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field RoleID: %w", err)
	}

	res.Recipient, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	res.Valid, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field Valid: %w", err)
	}

	return nil
}

// CredentialMintedEventsFromApplicationLog retrieves a set of all emitted events
// with "CredentialMinted" name from the provided [result.ApplicationLog].
func CredentialMintedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CredentialMintedEvent, error) {
	var res []*CredentialMintedEvent
	err := eventsFromApplicationLog(log, "CredentialMinted", func(item *stackitem.Array) error {
		event := new(CredentialMintedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to CredentialMintedEvent or
// returns an error if it's not possible to do to so.
func (e *CredentialMintedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.RoleID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field RoleID: %w", err)
	}

	e.Recipient, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	e.TokenID, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	return nil
}

// CredentialRevokedEventsFromApplicationLog retrieves a set of all emitted events
// with "CredentialRevoked" name from the provided [result.ApplicationLog].
func CredentialRevokedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CredentialRevokedEvent, error) {
	var res []*CredentialRevokedEvent
	err := eventsFromApplicationLog(log, "CredentialRevoked", func(item *stackitem.Array) error {
		event := new(CredentialRevokedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to CredentialRevokedEvent or
// returns an error if it's not possible to do to so.
func (e *CredentialRevokedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.RoleID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field RoleID: %w", err)
	}

	e.Wallet, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Wallet: %w", err)
	}

	e.TokenID, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	return nil
}

// AdminTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "AdminTransferred" name from the provided [result.ApplicationLog].
func AdminTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*AdminTransferredEvent, error) {
	var res []*AdminTransferredEvent
	err := eventsFromApplicationLog(log, "AdminTransferred", func(item *stackitem.Array) error {
		event := new(AdminTransferredEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to AdminTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *AdminTransferredEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.OldAdmin, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field OldAdmin: %w", err)
	}

	e.NewAdmin, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field NewAdmin: %w", err)
	}

	e.Ok, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field Ok: %w", err)
	}

	return nil
}

// BaseURIUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "BaseURIUpdated" name from the provided [result.ApplicationLog].
func BaseURIUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BaseURIUpdatedEvent, error) {
	var res []*BaseURIUpdatedEvent
	err := eventsFromApplicationLog(log, "BaseURIUpdated", func(item *stackitem.Array) error {
		event := new(BaseURIUpdatedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to BaseURIUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *BaseURIUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.URI, err = itemToUTF8(arr[0])
	if err != nil {
		return fmt.Errorf("field URI: %w", err)
	}

	return nil
}

// ClaimLinkGeneratedEventsFromApplicationLog retrieves a set of all emitted events
// with "ClaimLinkGenerated" name from the provided [result.ApplicationLog].
func ClaimLinkGeneratedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ClaimLinkGeneratedEvent, error) {
	var res []*ClaimLinkGeneratedEvent
	err := eventsFromApplicationLog(log, "ClaimLinkGenerated", func(item *stackitem.Array) error {
		event := new(ClaimLinkGeneratedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to ClaimLinkGeneratedEvent or
// returns an error if it's not possible to do to so.
func (e *ClaimLinkGeneratedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.RoleID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field RoleID: %w", err)
	}

	e.Recipient, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	e.Hash, err = itemToUint256(arr[2])
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	return nil
}

// EventContractUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "EventContractUpdated" name from the provided [result.ApplicationLog].
func EventContractUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*EventContractUpdatedEvent, error) {
	var res []*EventContractUpdatedEvent
	err := eventsFromApplicationLog(log, "EventContractUpdated", func(item *stackitem.Array) error {
		event := new(EventContractUpdatedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to EventContractUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *EventContractUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.ContractID, err = itemToUTF8(arr[0])
	if err != nil {
		return fmt.Errorf("field ContractID: %w", err)
	}

	return nil
}

func eventsFromApplicationLog(log *result.ApplicationLog, name string, add func(*stackitem.Array) error) error {
	if log == nil {
		return errors.New("nil application log")
	}

	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			if err := add(e.Item); err != nil {
				return fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
		}
	}

	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return structFields(item, n)
}

func structFields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

func itemToUint256(item stackitem.Item) (util.Uint256, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint256{}, err
	}
	u, err := util.Uint256DecodeBytesBE(b)
	if err != nil {
		return util.Uint256{}, err
	}
	return u, nil
}

func itemToUTF8(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
