// Package roleconst contains constants shared by the Roles contract and its
// off-chain clients.
package roleconst

// Role kinds. Each identity holds at most one credential token per kind.
const (
	Admin      = 1
	Supervisor = 2
	Associate  = 3
)

// Failure messages thrown by the Roles contract.
const (
	ErrAlreadyInitialized = "already initialized"
	ErrAdminNotSet        = "admin not set"
	ErrPaused             = "paused"
	ErrReentrancy         = "reentrancy"
	ErrInvalidClaim       = "invalid claim token"
	ErrClaimUsed          = "token already used"
	ErrRecipientMismatch  = "recipient mismatch"
	ErrAlreadyHasRole     = "already has role"
	ErrCredentialNotFound = "credential not found"
	ErrTokenNotFound      = "token not found"
	ErrNotAuthorized      = "not authorized"
	ErrNotAllowed         = "not allowed"
	ErrClaimCollision     = "claim collision"
	ErrInvalidAddress     = "invalid address"
)

// ClaimHashLen is the length of a claim key in bytes.
const ClaimHashLen = 32
