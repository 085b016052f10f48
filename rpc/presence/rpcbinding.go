// Package presence contains RPC wrappers for the Presence Registry contract.
package presence

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Event is a contract-specific presence.Event type used by its methods.
type Event struct {
	Name    string
	StartTs *big.Int
	EndTs   *big.Int
}

// EventSummary is a contract-specific presence.EventSummary type used by its methods.
type EventSummary struct {
	ID      *big.Int
	Name    string
	StartTs *big.Int
	EndTs   *big.Int
}

// Attendee is a contract-specific presence.Attendee type used by its methods.
type Attendee struct {
	Address      util.Uint160
	RegisteredAt *big.Int
	Active       bool
}

// EventCreatedEvent represents "EventCreated" event emitted by the contract.
type EventCreatedEvent struct {
	EventID  *big.Int
	Operator util.Uint160
}

// PresenceRegisteredEvent represents "PresenceRegistered" event emitted by the contract.
type PresenceRegisteredEvent struct {
	EventID  *big.Int
	Attendee util.Uint160
	Index    *big.Int
}

// PresenceRemovedEvent represents "PresenceRemoved" event emitted by the contract.
type PresenceRemovedEvent struct {
	EventID  *big.Int
	Attendee util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
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

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// IsSupervisor invokes `isSupervisor` method of contract.
func (c *ContractReader) IsSupervisor(user util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isSupervisor", user))
}

// GetEvent invokes `getEvent` method of contract.
func (c *ContractReader) GetEvent(eventID *big.Int) (*Event, error) {
	return itemToEvent(unwrap.Item(c.invoker.Call(c.hash, "getEvent", eventID)))
}

// HasPresence invokes `hasPresence` method of contract.
func (c *ContractReader) HasPresence(eventID *big.Int, attendee util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasPresence", eventID, attendee))
}

// AttendeeCount invokes `attendeeCount` method of contract.
func (c *ContractReader) AttendeeCount(eventID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "attendeeCount", eventID))
}

// ListAttendees invokes `listAttendees` method of contract.
func (c *ContractReader) ListAttendees(eventID *big.Int, cursor *big.Int, limit *big.Int) ([]*Attendee, error) {
	return itemsToAttendees(unwrap.Array(c.invoker.Call(c.hash, "listAttendees", eventID, cursor, limit)))
}

// ListEvents invokes `listEvents` method of contract.
func (c *ContractReader) ListEvents(startID *big.Int, limit *big.Int) ([]*EventSummary, error) {
	return itemsToEventSummaries(unwrap.Array(c.invoker.Call(c.hash, "listEvents", startID, limit)))
}

// ListUpcoming invokes `listUpcoming` method of contract.
func (c *ContractReader) ListUpcoming() ([]*EventSummary, error) {
	return itemsToEventSummaries(unwrap.Array(c.invoker.Call(c.hash, "listUpcoming")))
}

// ListClosed invokes `listClosed` method of contract.
func (c *ContractReader) ListClosed(cursor *big.Int, limit *big.Int) ([]*EventSummary, error) {
	return itemsToEventSummaries(unwrap.Array(c.invoker.Call(c.hash, "listClosed", cursor, limit)))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SetSupervisor creates a transaction invoking `setSupervisor` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetSupervisor(user util.Uint160, status bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setSupervisor", user, status)
}

// SetSupervisorTransaction creates a transaction invoking `setSupervisor` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetSupervisorTransaction(user util.Uint160, status bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setSupervisor", user, status)
}

// SetSupervisorUnsigned creates a transaction invoking `setSupervisor` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetSupervisorUnsigned(user util.Uint160, status bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setSupervisor", nil, user, status)
}

// CreateEvent creates a transaction invoking `createEvent` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateEvent(name string, startTs *big.Int, endTs *big.Int, operator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createEvent", name, startTs, endTs, operator)
}

// CreateEventTransaction creates a transaction invoking `createEvent` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateEventTransaction(name string, startTs *big.Int, endTs *big.Int, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createEvent", name, startTs, endTs, operator)
}

// CreateEventUnsigned creates a transaction invoking `createEvent` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateEventUnsigned(name string, startTs *big.Int, endTs *big.Int, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createEvent", nil, name, startTs, endTs, operator)
}

// RegisterPresence creates a transaction invoking `registerPresence` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterPresence(eventID *big.Int, attendee util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "registerPresence", eventID, attendee)
}

// RegisterPresenceTransaction creates a transaction invoking `registerPresence` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterPresenceTransaction(eventID *big.Int, attendee util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "registerPresence", eventID, attendee)
}

// RegisterPresenceUnsigned creates a transaction invoking `registerPresence` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterPresenceUnsigned(eventID *big.Int, attendee util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "registerPresence", nil, eventID, attendee)
}

// RemovePresence creates a transaction invoking `removePresence` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemovePresence(eventID *big.Int, attendee util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removePresence", eventID, attendee)
}

// RemovePresenceTransaction creates a transaction invoking `removePresence` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemovePresenceTransaction(eventID *big.Int, attendee util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removePresence", eventID, attendee)
}

// RemovePresenceUnsigned creates a transaction invoking `removePresence` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemovePresenceUnsigned(eventID *big.Int, attendee util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removePresence", nil, eventID, attendee)
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

// itemToEvent converts stack item into *Event.
func itemToEvent(item stackitem.Item, err error) (*Event, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Event)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Event from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Event) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	res.Name, err = itemToUTF8(arr[0])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	res.StartTs, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field StartTs: %w", err)
	}

	res.EndTs, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field EndTs: %w", err)
	}

	return nil
}

func itemsToEventSummaries(arr []stackitem.Item, err error) ([]*EventSummary, error) {
	if err != nil {
		return nil, err
	}
	res := make([]*EventSummary, len(arr))
	for i := range arr {
		res[i] = new(EventSummary)
		if err := res[i].FromStackItem(arr[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// FromStackItem retrieves fields of EventSummary from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *EventSummary) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 4)
	if err != nil {
		return err
	}

	res.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	res.Name, err = itemToUTF8(arr[1])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	res.StartTs, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field StartTs: %w", err)
	}

	res.EndTs, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field EndTs: %w", err)
	}

	return nil
}

func itemsToAttendees(arr []stackitem.Item, err error) ([]*Attendee, error) {
	if err != nil {
		return nil, err
	}
	res := make([]*Attendee, len(arr))
	for i := range arr {
		res[i] = new(Attendee)
		if err := res[i].FromStackItem(arr[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// FromStackItem retrieves fields of Attendee from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Attendee) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	res.Address, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Address: %w", err)
	}

	res.RegisteredAt, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field RegisteredAt: %w", err)
	}

	res.Active, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	return nil
}

// EventCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "EventCreated" name from the provided [result.ApplicationLog].
func EventCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*EventCreatedEvent, error) {
	var res []*EventCreatedEvent
	err := eventsFromApplicationLog(log, "EventCreated", func(item *stackitem.Array) error {
		event := new(EventCreatedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to EventCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *EventCreatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	e.EventID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field EventID: %w", err)
	}

	e.Operator, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}

	return nil
}

// PresenceRegisteredEventsFromApplicationLog retrieves a set of all emitted events
// with "PresenceRegistered" name from the provided [result.ApplicationLog].
func PresenceRegisteredEventsFromApplicationLog(log *result.ApplicationLog) ([]*PresenceRegisteredEvent, error) {
	var res []*PresenceRegisteredEvent
	err := eventsFromApplicationLog(log, "PresenceRegistered", func(item *stackitem.Array) error {
		event := new(PresenceRegisteredEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to PresenceRegisteredEvent or
// returns an error if it's not possible to do to so.
func (e *PresenceRegisteredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	e.EventID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field EventID: %w", err)
	}

	e.Attendee, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Attendee: %w", err)
	}

	e.Index, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Index: %w", err)
	}

	return nil
}

// PresenceRemovedEventsFromApplicationLog retrieves a set of all emitted events
// with "PresenceRemoved" name from the provided [result.ApplicationLog].
func PresenceRemovedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PresenceRemovedEvent, error) {
	var res []*PresenceRemovedEvent
	err := eventsFromApplicationLog(log, "PresenceRemoved", func(item *stackitem.Array) error {
		event := new(PresenceRemovedEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to PresenceRemovedEvent or
// returns an error if it's not possible to do to so.
func (e *PresenceRemovedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	e.EventID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field EventID: %w", err)
	}

	e.Attendee, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Attendee: %w", err)
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
	return util.Uint160DecodeBytesBE(b)
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
