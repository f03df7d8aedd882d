/*
Package verification implements the age-verification side of the game world.

This file defines the Status store: a small in-memory key-value map from a
client-generated verification id to the outcome delivered (asynchronously) by
the external verifier. Clients poll it until their id flips to verified.
Like the presence store, its lifetime is the process lifetime; that is an
accepted property, and the store is injected rather than global.
*/
package verification

import "sync"

// Attributes are the optional identity attributes an external verifier may
// attest alongside the boolean outcome.
type Attributes struct {
	Nationality string `json:"nationality,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	OlderThan   string `json:"olderThan,omitempty"`
}

// Status is the stored outcome for one verification id.
type Status struct {
	// Verified is the boolean "is old enough" outcome.
	Verified bool `json:"verified"`

	// Attributes carries whatever the verifier attested; may be empty.
	Attributes Attributes `json:"attributes,omitempty"`
}

// Store maps verification ids to their latest known status.
type Store struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

// NewStore creates an empty verification status store.
func NewStore() *Store {
	return &Store{
		statuses: make(map[string]Status),
	}
}

// Set records the status for a verification id, replacing any previous value.
func (s *Store) Set(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[id] = status
}

// Get returns the status for a verification id. An unknown id reads as an
// unverified zero status, which is exactly what a client polling too early
// should see.
func (s *Store) Get(id string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[id]
	return status, ok
}
