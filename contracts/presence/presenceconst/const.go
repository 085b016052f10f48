// Package presenceconst contains constants shared by the Presence contract and
// its off-chain clients.
package presenceconst

const (
	// UpcomingLimit is the maximum number of events returned by listUpcoming.
	UpcomingLimit = 5
	// UpcomingScanDepth is the number of the most recent event IDs inspected
	// by listUpcoming.
	UpcomingScanDepth = 64
)

// Failure messages thrown by the Presence contract.
const (
	ErrNotSupervisor     = "not supervisor"
	ErrInvalidWindow     = "invalid window"
	ErrEventNotFound     = "event not found"
	ErrOutsideWindow     = "outside window"
	ErrAlreadyRegistered = "already registered"
	ErrNotRegistered     = "attendee not registered"
	ErrAdminNotSet       = "admin not set"
	ErrInvalidAddress    = "invalid address"
)
