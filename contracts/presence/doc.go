/*
Package presence implements the Presence Registry contract.

Supervisors create events with a [start, end] time window (block time,
milliseconds). Attendees register their presence any time up to and
including the event end. Every registration is appended to a per-event
attendance log; entries are never moved, removal only marks them inactive.

# Contract notifications

EventCreated notification.

	EventCreated:
	  - name: eventID
	    type: Integer
	  - name: operator
	    type: Hash160

PresenceRegistered notification. Index is the position of the new entry in
the attendance log.

	PresenceRegistered:
	  - name: eventID
	    type: Integer
	  - name: attendee
	    type: Hash160
	  - name: index
	    type: Integer

PresenceRemoved notification.

	PresenceRemoved:
	  - name: eventID
	    type: Integer
	  - name: attendee
	    type: Hash160
*/
package presence

/*
Contract storage model.

# Summary
Current conventions:
 <id>: 8-byte big-endian event identifier
 <index>: 8-byte big-endian position in the attendance log
 <user>: 20-byte script hash

Key-value storage format:
 - 'admin' -> interop.Hash160
   current admin
 - 'nextEventID' -> int
   identifier of the next event, starts at 1
 - 's<user>' -> bool
   supervisors
 - 'e<id>' -> std.Serialize(Event)
   event records
 - 'p<id><user>' -> bool
   presence flags
 - 'n<id>' -> int
   attendance log length
 - 'l<id><index>' -> std.Serialize(Attendee)
   attendance log entries

# Setting
Admin must be passed as deploy data.
*/
