/*
Package presence contains the core logic for the polling-based multiplayer presence layer.

This file defines the Store struct, the single source of truth for which sessions
are online, where they are, and what they said recently. The store is plain
in-memory bookkeeping: its contents live and die with the hosting process, which
is an accepted property of the design, so the store is constructed once in main
and injected into the request handlers rather than living in a package global.
*/
package presence

import (
	"sync"
	"time"
)

// InactivityTimeout is how long a session may go without pushing before its
// record is expired. Expiry is lazy: it runs as a side effect of writes, not
// on a background timer.
const InactivityTimeout = 5 * time.Minute

// Update carries the optional fields of a single push. A nil/zero field means
// "unchanged"; Message, when set, is appended to the rolling log rather than
// replacing it.
type Update struct {
	Position  *Position
	Room      string
	Character string
	Message   string
}

// Store holds every live presence record, keyed by session identifier.
//
// Each request performs a read-modify-write followed by a read against the same
// map, so the whole sequence runs under one mutex. At this scale a single
// critical section is sufficient; there is no per-record locking.
type Store struct {
	// mu guards users. Held for the entire upsert+sweep or touch+sweep sequence.
	mu sync.Mutex

	// users maps session id to its live record.
	users map[string]*User

	// timeout is the inactivity threshold applied by sweeps.
	timeout time.Duration

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewStore creates an empty presence store with the default inactivity timeout.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*User),
		timeout: InactivityTimeout,
		now:     time.Now,
	}
}

// Upsert applies a push from the given session, creating the record if it does
// not exist yet. Only fields present in the update change stored state; a
// supplied message is appended with FIFO eviction past MaxMessages. The
// session's lastUpdate is always refreshed, and expired records are swept
// before returning. The updated record is returned by value.
func (s *Store) Upsert(id string, u Update) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	rec, ok := s.users[id]
	if !ok {
		rec = s.newRecordLocked(id, RoomGeneral)
	}

	if u.Position != nil {
		rec.Position = *u.Position
	}
	if u.Room != "" {
		rec.Room = NormalizeRoom(u.Room)
	}
	if u.Character != "" {
		rec.Character = u.Character
	}
	if u.Message != "" {
		rec.Messages = append(rec.Messages, Message{
			Text:      u.Message,
			Timestamp: now.UnixMilli(),
		})
		if len(rec.Messages) > MaxMessages {
			rec.Messages = rec.Messages[len(rec.Messages)-MaxMessages:]
		}
	}
	rec.LastUpdate = now.UnixMilli()

	s.sweepLocked(now)

	return cloneUser(rec)
}

// Touch refreshes the given session's activity timestamp without changing any
// of its fields, creating the record with defaults (and the supplied room) if
// it is unknown. It exists for the snapshot read path, where a poll-only
// client must stay visible without a separate push. Like Upsert, it sweeps
// expired records before returning.
func (s *Store) Touch(id, room string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	rec, ok := s.users[id]
	if !ok {
		rec = s.newRecordLocked(id, NormalizeRoom(room))
	}
	rec.LastUpdate = now.UnixMilli()

	s.sweepLocked(now)

	return cloneUser(rec)
}

// List returns every record whose room equals the normalized requested room,
// excluding the record with excludingID, plus a second unfiltered listing of
// all other records across rooms. The unfiltered listing exists only for
// diagnostics; gameplay decisions must use the filtered one. List is a pure
// read and never mutates the store.
func (s *Store) List(room, excludingID string) (inRoom, others []User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room = NormalizeRoom(room)

	inRoom = make([]User, 0, len(s.users))
	others = make([]User, 0, len(s.users))

	for id, rec := range s.users {
		if id == excludingID {
			continue
		}
		others = append(others, cloneUser(rec))
		if rec.Room == room {
			inRoom = append(inRoom, cloneUser(rec))
		}
	}

	return inRoom, others
}

// Count returns the total number of live records across all rooms.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users)
}

// newRecordLocked inserts a fresh record with spawn defaults. Callers must
// hold s.mu.
func (s *Store) newRecordLocked(id, room string) *User {
	if room == "" {
		room = RoomGeneral
	}
	rec := &User{
		ID:        id,
		Position:  Position{X: SpawnX, Y: SpawnY},
		Room:      room,
		Character: DefaultCharacter,
		Messages:  []Message{},
	}
	s.users[id] = rec
	return rec
}

// sweepLocked deletes every record whose inactivity exceeds the threshold.
// Callers must hold s.mu.
func (s *Store) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.timeout).UnixMilli()
	for id, rec := range s.users {
		if rec.LastUpdate < cutoff {
			delete(s.users, id)
		}
	}
}

// cloneUser copies a record, including its message log, so callers never hold
// a reference into the store's mutable state.
func cloneUser(rec *User) User {
	out := *rec
	out.Messages = make([]Message, len(rec.Messages))
	copy(out.Messages, rec.Messages)
	return out
}
