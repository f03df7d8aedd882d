/*
Package client implements the Go side of the presence sync protocol.

This file defines the Poller, the periodic push+pull loop. Each tick pushes
whatever changed since the last one, pulls the current peer set, and hands it
to the OnPeers callback. A failed tick flips the status to Reconnecting and
keeps the last-known peer list; the loop itself never stops over one failure,
since the next successful poll is the reconnection.
*/
package client

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the poll cadence used when none is configured.
// Sub-second, because the interval directly bounds peer staleness.
const DefaultInterval = 300 * time.Millisecond

// Status describes the poller's view of its connection to the server.
type Status int

const (
	// StatusConnected means the most recent tick succeeded.
	StatusConnected Status = iota

	// StatusReconnecting means the most recent tick failed; the last-known
	// peer list is still being served and the loop keeps retrying on cadence.
	StatusReconnecting
)

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Interval is the tick cadence. Zero means DefaultInterval.
	Interval time.Duration

	// Room is the starting room; empty means the server default.
	Room string

	// Character is the avatar variant announced on the first tick.
	Character string

	// OnPeers, when set, receives the room's peer set after every
	// successful tick.
	OnPeers func([]Peer)

	// OnStatus, when set, is called on every connected/reconnecting flip.
	OnStatus func(Status)
}

// Poller drives the periodic presence tick for one session.
type Poller struct {
	client *Client
	cfg    PollerConfig

	mu        sync.Mutex
	room      string
	position  *Position
	character string
	outbox    []string
	peers     []Peer
	status    Status
	dirty     bool
}

// NewPoller creates a poller around an existing client.
func NewPoller(c *Client, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Poller{
		client:    c,
		cfg:       cfg,
		room:      cfg.Room,
		character: cfg.Character,
		dirty:     true,
	}
}

// SetPosition records the avatar's position for the next tick.
func (p *Poller) SetPosition(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = &Position{X: x, Y: y}
	p.dirty = true
}

// SetRoom moves the session to another room on the next tick.
func (p *Poller) SetRoom(room string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.room = room
	p.dirty = true
}

// Say queues a chat message. One queued message is sent per tick, preserving
// order, so a burst of lines cannot outrun the message log's eviction.
func (p *Poller) Say(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.outbox = append(p.outbox, text)
	p.dirty = true
}

// Peers returns the last successfully pulled peer set. During a failure
// streak this is the pre-failure list, by design.
func (p *Poller) Peers() []Peer {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Peer, len(p.peers))
	copy(out, p.peers)
	return out
}

// Status returns the poller's current connection status.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

// Run drives the tick loop until the context is cancelled. It ticks once
// immediately so a freshly joined client appears without waiting an interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick performs one push+pull cycle.
func (p *Poller) tick(ctx context.Context) {
	p.mu.Lock()
	update := Update{
		Room:      p.room,
		Character: p.character,
		Position:  p.position,
	}
	if len(p.outbox) > 0 {
		update.Message = p.outbox[0]
	}
	room := p.room
	p.mu.Unlock()

	result, err := p.client.Push(ctx, update)
	if err != nil {
		p.fail()
		return
	}

	if room == "" {
		room = result.Room
	}

	snapshot, err := p.client.Pull(ctx, room)
	if err != nil {
		p.fail()
		return
	}

	p.mu.Lock()
	if update.Message != "" {
		p.outbox = p.outbox[1:]
	}
	p.peers = snapshot.Users
	flipped := p.status != StatusConnected
	p.status = StatusConnected
	peers := make([]Peer, len(snapshot.Users))
	copy(peers, snapshot.Users)
	p.mu.Unlock()

	if flipped && p.cfg.OnStatus != nil {
		p.cfg.OnStatus(StatusConnected)
	}
	if p.cfg.OnPeers != nil {
		p.cfg.OnPeers(peers)
	}
}

// fail marks the poller as reconnecting, keeping the last-known peer list.
func (p *Poller) fail() {
	p.mu.Lock()
	flipped := p.status != StatusReconnecting
	p.status = StatusReconnecting
	p.mu.Unlock()

	if flipped && p.cfg.OnStatus != nil {
		p.cfg.OnStatus(StatusReconnecting)
	}
}
