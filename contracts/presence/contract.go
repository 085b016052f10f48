package presence

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/presencelabs/presence-contracts/common"
	"github.com/presencelabs/presence-contracts/contracts/presence/presenceconst"
)

type (
	// Event is an immutable event record.
	Event struct {
		Name    string
		StartTs int
		EndTs   int
	}

	// EventSummary is an Event together with its identifier.
	EventSummary struct {
		ID      int
		Name    string
		StartTs int
		EndTs   int
	}

	// Attendee is an entry of the per-event attendance log. Entries are
	// never relocated, removal only clears Active.
	Attendee struct {
		Address      interop.Hash160
		RegisteredAt int
		Active       bool
	}
)

const (
	adminKey       = "admin"
	nextEventIDKey = "nextEventID"

	supervisorPrefix = 's'
	eventPrefix      = 'e'
	presencePrefix   = 'p'
	countPrefix      = 'n'
	logPrefix        = 'l'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		admin interop.Hash160
	})

	if len(args.admin) != interop.Hash160Len {
		panic(presenceconst.ErrInvalidAddress)
	}

	storage.Put(ctx, adminKey, args.admin)
	storage.Put(ctx, nextEventIDKey, 1)

	runtime.Log("presence contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the current admin.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	checkAdmin(ctx)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("presence contract updated")
}

// SetSupervisor adds (status is true) or removes user from the supervisor
// list. Admin only.
func SetSupervisor(user interop.Hash160, status bool) {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	storage.Put(ctx, append([]byte{supervisorPrefix}, user...), status)
}

// IsSupervisor returns true if user may create events.
func IsSupervisor(user interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isSupervisor(ctx, user)
}

// CreateEvent stores a new event and returns its ID. Operator must witness
// the call and be a supervisor. Both timestamps are in milliseconds and must
// be non-zero with startTs < endTs.
//
// Produces EventCreated notification.
func CreateEvent(name string, startTs, endTs int, operator interop.Hash160) int {
	ctx := storage.GetContext()

	common.CheckWitness(operator)

	if !isSupervisor(ctx, operator) {
		panic(presenceconst.ErrNotSupervisor)
	}
	if startTs <= 0 || endTs <= 0 || endTs <= startTs {
		panic(presenceconst.ErrInvalidWindow)
	}

	id := common.GetInt(ctx, nextEventIDKey, 1)
	storage.Put(ctx, nextEventIDKey, id+1)

	common.SetSerialized(ctx, common.PrefixedID(eventPrefix, id), Event{
		Name:    name,
		StartTs: startTs,
		EndTs:   endTs,
	})

	runtime.Notify("EventCreated", id, operator)
	return id
}

// GetEvent returns event with the given ID.
func GetEvent(eventID int) Event {
	ctx := storage.GetReadOnlyContext()
	ev, ok := getEvent(ctx, eventID)
	if !ok {
		panic(presenceconst.ErrEventNotFound)
	}
	return ev
}

// RegisterPresence appends attendee to the event log. Attendee must witness
// the call. Registration is accepted any time up to and including the event
// end.
//
// Produces PresenceRegistered notification.
func RegisterPresence(eventID int, attendee interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckOwnerWitness(attendee)

	ev, ok := getEvent(ctx, eventID)
	if !ok {
		panic(presenceconst.ErrEventNotFound)
	}

	now := runtime.GetTime()
	if now > ev.EndTs {
		panic(presenceconst.ErrOutsideWindow)
	}

	key := presenceKey(eventID, attendee)
	if common.GetBool(ctx, key) {
		panic(presenceconst.ErrAlreadyRegistered)
	}

	storage.Put(ctx, key, true)

	countKey := common.PrefixedID(countPrefix, eventID)
	index := common.GetInt(ctx, countKey, 0)
	common.SetSerialized(ctx, logKey(eventID, index), Attendee{
		Address:      attendee,
		RegisteredAt: now,
		Active:       true,
	})
	storage.Put(ctx, countKey, index+1)

	runtime.Notify("PresenceRegistered", eventID, attendee, index)
}

// HasPresence returns true if attendee is registered for the event.
func HasPresence(eventID int, attendee interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	if !common.ValidID(eventID) {
		return false
	}
	return common.GetBool(ctx, presenceKey(eventID, attendee))
}

// AttendeeCount returns the number of entries in the event log, removed
// ones included.
func AttendeeCount(eventID int) int {
	ctx := storage.GetReadOnlyContext()
	if !common.ValidID(eventID) {
		return 0
	}
	return common.GetInt(ctx, common.PrefixedID(countPrefix, eventID), 0)
}

// ListAttendees returns up to limit log entries in registration order,
// skipping the first cursor entries. Removed entries are returned and
// counted as well.
func ListAttendees(eventID int, cursor int, limit int) []Attendee {
	ctx := storage.GetReadOnlyContext()

	res := []Attendee{}
	if limit <= 0 || !common.ValidID(eventID) {
		return res
	}

	count := common.GetInt(ctx, common.PrefixedID(countPrefix, eventID), 0)
	skipped := 0
	for i := 0; i < count && len(res) < limit; i++ {
		data := storage.Get(ctx, logKey(eventID, i))
		if data == nil {
			continue
		}
		if skipped < cursor {
			skipped++
			continue
		}
		res = append(res, std.Deserialize(data.([]byte)).(Attendee))
	}

	return res
}

// RemovePresence marks the first log entry of attendee as inactive and
// clears its presence flag.
//
// The supervisor check is done against the script hash of the contract
// itself, not against the caller, so the method succeeds only if the
// contract has been added to the supervisor list.
//
// Produces PresenceRemoved notification.
func RemovePresence(eventID int, attendee interop.Hash160) {
	ctx := storage.GetContext()

	if !isSupervisor(ctx, runtime.GetExecutingScriptHash()) {
		panic(presenceconst.ErrNotSupervisor)
	}

	if !common.ValidID(eventID) {
		panic(presenceconst.ErrNotRegistered)
	}

	key := presenceKey(eventID, attendee)
	if !common.GetBool(ctx, key) {
		panic(presenceconst.ErrNotRegistered)
	}

	count := common.GetInt(ctx, common.PrefixedID(countPrefix, eventID), 0)
	for i := 0; i < count; i++ {
		k := logKey(eventID, i)
		data := storage.Get(ctx, k)
		if data == nil {
			continue
		}

		entry := std.Deserialize(data.([]byte)).(Attendee)
		if common.BytesEqual(entry.Address, attendee) {
			entry.Active = false
			common.SetSerialized(ctx, k, entry)
			break
		}
	}

	storage.Put(ctx, key, false)
	runtime.Notify("PresenceRemoved", eventID, attendee)
}

// ListEvents returns existing events with IDs in [startID, startID+limit)
// in ascending ID order.
func ListEvents(startID int, limit int) []EventSummary {
	ctx := storage.GetReadOnlyContext()

	res := []EventSummary{}
	for id := startID; id < startID+limit; id++ {
		if ev, ok := getEvent(ctx, id); ok {
			res = append(res, summary(id, ev))
		}
	}

	return res
}

// ListUpcoming returns up to UpcomingLimit events which have not ended yet,
// soonest start first. Only the UpcomingScanDepth most recently created IDs
// are inspected.
func ListUpcoming() []EventSummary {
	ctx := storage.GetReadOnlyContext()
	now := runtime.GetTime()

	selected := []EventSummary{}
	id := common.GetInt(ctx, nextEventIDKey, 1) - 1
	for scanned := 0; id >= 1 && scanned < presenceconst.UpcomingScanDepth; scanned++ {
		ev, ok := getEvent(ctx, id)
		if ok && ev.EndTs > now {
			selected = insertByStart(selected, summary(id, ev))
			if len(selected) > presenceconst.UpcomingLimit {
				selected = truncate(selected, presenceconst.UpcomingLimit)
			}
		}
		id--
	}

	return selected
}

// ListClosed returns up to limit ended events, newest ID first, skipping
// the first cursor of them.
func ListClosed(cursor int, limit int) []EventSummary {
	ctx := storage.GetReadOnlyContext()

	res := []EventSummary{}
	if limit <= 0 {
		return res
	}

	now := runtime.GetTime()
	skipped := 0
	for id := common.GetInt(ctx, nextEventIDKey, 1) - 1; id >= 1 && len(res) < limit; id-- {
		ev, ok := getEvent(ctx, id)
		if !ok || ev.EndTs > now {
			continue
		}
		if skipped < cursor {
			skipped++
			continue
		}
		res = append(res, summary(id, ev))
	}

	return res
}

// TransferAdmin replaces the admin. Admin only.
func TransferAdmin(newAdmin interop.Hash160) {
	ctx := storage.GetContext()
	checkAdmin(ctx)

	if len(newAdmin) != interop.Hash160Len {
		panic(presenceconst.ErrInvalidAddress)
	}

	storage.Put(ctx, adminKey, newAdmin)
}

// Admin returns the current admin.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getAdmin(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getAdmin(ctx storage.Context) interop.Hash160 {
	v := storage.Get(ctx, adminKey)
	if v == nil {
		panic(presenceconst.ErrAdminNotSet)
	}
	return v.(interop.Hash160)
}

func checkAdmin(ctx storage.Context) {
	common.CheckAdminWitness(getAdmin(ctx))
}

func isSupervisor(ctx storage.Context, user interop.Hash160) bool {
	return common.GetBool(ctx, append([]byte{supervisorPrefix}, user...))
}

func getEvent(ctx storage.Context, id int) (Event, bool) {
	if !common.ValidID(id) {
		return Event{}, false
	}
	data := storage.Get(ctx, common.PrefixedID(eventPrefix, id))
	if data == nil {
		return Event{}, false
	}
	return std.Deserialize(data.([]byte)).(Event), true
}

func presenceKey(eventID int, attendee interop.Hash160) []byte {
	return append(common.PrefixedID(presencePrefix, eventID), attendee...)
}

func logKey(eventID int, index int) []byte {
	return append(common.PrefixedID(logPrefix, eventID), common.IDBytes(index)...)
}

func summary(id int, ev Event) EventSummary {
	return EventSummary{
		ID:      id,
		Name:    ev.Name,
		StartTs: ev.StartTs,
		EndTs:   ev.EndTs,
	}
}

// insertByStart inserts item before the first entry starting strictly later.
func insertByStart(list []EventSummary, item EventSummary) []EventSummary {
	res := []EventSummary{}
	inserted := false
	for i := range list {
		if !inserted && item.StartTs < list[i].StartTs {
			res = append(res, item)
			inserted = true
		}
		res = append(res, list[i])
	}
	if !inserted {
		res = append(res, item)
	}
	return res
}

func truncate(list []EventSummary, n int) []EventSummary {
	res := []EventSummary{}
	for i := 0; i < n; i++ {
		res = append(res, list[i])
	}
	return res
}
