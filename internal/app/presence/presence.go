/*
Package presence contains the core logic for the polling-based multiplayer presence layer.

This file defines the data model for a single connected session (the User struct),
the canonical room names, and the normalization rules applied to room names
arriving from clients before they are stored or compared.
*/
package presence

// Canonical room names. Clients may send presentation aliases, which are
// mapped onto these before any storage or comparison happens.
const (
	// RoomGeneral is the default room a session lands in when none is supplied.
	RoomGeneral = "general"

	// RoomAdult is the canonical name behind the "adults-only" alias.
	RoomAdult = "adult"

	// RoomKids is the canonical name behind the "kids-only" alias.
	RoomKids = "kids"
)

const (
	// DefaultCharacter is the avatar variant assumed when a session never chose one.
	DefaultCharacter = "playerMale"

	// MaxMessages caps the rolling chat log kept per session. Oldest entries
	// are evicted first once the cap is reached.
	MaxMessages = 10
)

// SpawnX and SpawnY are the coordinates a newly created session starts at.
const (
	SpawnX = 400.0
	SpawnY = 300.0
)

// Position is a 2D coordinate in the room's local coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is one entry in a session's rolling chat log.
type Message struct {
	// Text is the raw chat line as the client sent it.
	Text string `json:"text"`

	// Timestamp is the server-side receive time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// User is the presence record for one session identifier.
// Fields use JSON tags because the record is returned verbatim in snapshots.
type User struct {
	// ID is the opaque, client-generated session identifier.
	ID string `json:"id"`

	// Position is the last reported location in the room.
	Position Position `json:"position"`

	// Room is the canonical room name (already normalized).
	Room string `json:"room"`

	// Character is the avatar variant chosen by the client.
	Character string `json:"character"`

	// Messages is the rolling chat log, oldest first, at most MaxMessages entries.
	Messages []Message `json:"messages"`

	// LastUpdate is the Unix-millisecond timestamp of the most recent push
	// from this session. Used only for expiry.
	LastUpdate int64 `json:"lastUpdate"`
}

// roomAliases maps presentation names used by the game's UI onto canonical
// room names. Anything not listed passes through unchanged, so a typo simply
// becomes its own (empty) room instead of an error.
var roomAliases = map[string]string{
	"adults-only": RoomAdult,
	"kids-only":   RoomKids,
}

// NormalizeRoom maps a caller-supplied room name onto its canonical form.
func NormalizeRoom(room string) string {
	if canonical, ok := roomAliases[room]; ok {
		return canonical
	}
	return room
}
