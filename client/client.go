/*
Package client implements the Go side of the presence sync protocol.

A Client speaks the server's JSON envelope for single calls; the Poller (see
poller.go) drives the periodic push+pull tick a game client runs. The package
deliberately exposes only the room-filtered peer list: the snapshot's
unfiltered diagnostic listing never reaches gameplay code through here.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"frenguin/internal/pkg/randx"
)

// defaultTimeout bounds one poll call. Far below any sane poll interval, so a
// hung request cannot stack ticks.
const defaultTimeout = 5 * time.Second

// Position is a 2D coordinate in the room's local coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is one entry of a peer's recent chat log.
type Message struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Peer is another session as reported by a snapshot.
type Peer struct {
	ID        string    `json:"id"`
	Position  Position  `json:"position"`
	Room      string    `json:"room"`
	Character string    `json:"character"`
	Messages  []Message `json:"messages"`
}

// Update carries the optional fields of one push. Nil/empty fields are
// omitted from the request entirely.
type Update struct {
	Position  *Position `json:"position,omitempty"`
	Room      string    `json:"room,omitempty"`
	Character string    `json:"character,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// PushResult is the server's answer to one push.
type PushResult struct {
	Accepted      bool   `json:"accepted"`
	OnlineCount   int    `json:"onlineCount"`
	RoomCount     int    `json:"roomCount"`
	Room          string `json:"room"`
	SessionIDEcho string `json:"sessionIdEcho"`
}

// Snapshot is the server's answer to one pull, minus the diagnostic listing.
type Snapshot struct {
	Users         []Peer `json:"users"`
	TotalUsers    int    `json:"totalUsers"`
	RoomRequested string `json:"roomRequested"`
}

// envelope mirrors the server's {code, message, data} response shape.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is a presence API client bound to one session identifier.
type Client struct {
	baseURL   string
	sessionID string
	ageBadge  string
	http      *http.Client
}

// New creates a client for the given server base URL and session identifier.
// The session identifier should be derived from a stable per-wallet value
// when one exists; passing an empty identifier generates a random fallback.
func New(baseURL, sessionID string) *Client {
	if sessionID == "" {
		if generated, err := randx.SessionID(); err == nil {
			sessionID = generated
		} else {
			sessionID = randx.SessionIDPrefix + randx.VerificationID()
		}
	}

	return &Client{
		baseURL:   baseURL,
		sessionID: sessionID,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

// SessionID returns the session identifier this client pushes under.
func (c *Client) SessionID() string {
	return c.sessionID
}

// SetAgeBadge attaches an age badge to subsequent pushes, needed when the
// server's age gate is enabled and the session enters the adult room.
func (c *Client) SetAgeBadge(token string) {
	c.ageBadge = token
}

// pushRequest is the wire shape of one push.
type pushRequest struct {
	SessionID string    `json:"sessionId"`
	Position  *Position `json:"position,omitempty"`
	Room      string    `json:"room,omitempty"`
	Character string    `json:"character,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Push sends this session's state for one tick.
func (c *Client) Push(ctx context.Context, u Update) (*PushResult, error) {
	body, err := json.Marshal(pushRequest{
		SessionID: c.sessionID,
		Position:  u.Position,
		Room:      u.Room,
		Character: u.Character,
		Message:   u.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/presence", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ageBadge != "" {
		req.Header.Set("X-Age-Badge", c.ageBadge)
	}

	var result PushResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Pull fetches the current peer set for the given room.
func (c *Client) Pull(ctx context.Context, room string) (*Snapshot, error) {
	q := url.Values{}
	q.Set("sessionId", c.sessionID)
	if room != "" {
		q.Set("room", room)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/presence?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pull request: %w", err)
	}

	var snapshot Snapshot
	if err := c.do(req, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// do executes the request and decodes the envelope's data into dst.
func (c *Client) do(req *http.Request, dst any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if env.Code != 0 {
		return fmt.Errorf("server answered code %d: %s", env.Code, env.Message)
	}

	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
