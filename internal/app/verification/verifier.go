/*
Package verification implements the age-verification side of the game world.

This file defines the ProofVerifier interface and its HTTP implementation.
The external verifier is an opaque collaborator: it receives a zero-knowledge
proof with its public signals over plain request/response and answers with a
boolean outcome plus optional attested attributes. The server never retries a
failed call; retrying is the client's job on its own polling cadence.
*/
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// verifierTimeout bounds a single relay call to the external verifier.
const verifierTimeout = 15 * time.Second

// Outcome is what the external verifier answers for one proof.
type Outcome struct {
	// Valid reports whether the proof checked out.
	Valid bool `json:"valid"`

	// UserID is the identifier the verifier extracted from the public signals.
	UserID string `json:"userId,omitempty"`

	// Attributes carries the attested identity attributes on success.
	Attributes Attributes `json:"attributes,omitempty"`
}

// ProofVerifier is the boundary to the external proof-verification service.
type ProofVerifier interface {
	// Verify relays a proof and its public signals and returns the verifier's
	// outcome. A non-nil error means the verifier could not be consulted at
	// all, as opposed to a rejected proof.
	Verify(ctx context.Context, proof, publicSignals json.RawMessage) (*Outcome, error)
}

// VerifierConfig holds what the HTTP verifier needs to reach its peer.
type VerifierConfig struct {
	// Endpoint is the external verifier's verify URL.
	Endpoint string

	// Scope must match the scope the game client embedded in the proof request.
	Scope string
}

// httpVerifier implements ProofVerifier against a REST endpoint.
type httpVerifier struct {
	cfg    VerifierConfig
	client *http.Client
}

// NewProofVerifier is the factory for ProofVerifier. Only the HTTP
// implementation exists today.
func NewProofVerifier(cfg VerifierConfig) ProofVerifier {
	return &httpVerifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: verifierTimeout,
		},
	}
}

// verifyRequest is the wire shape sent to the external verifier.
type verifyRequest struct {
	Proof         json.RawMessage `json:"proof"`
	PublicSignals json.RawMessage `json:"publicSignals"`
	Scope         string          `json:"scope,omitempty"`
}

// Verify posts the proof to the configured endpoint and decodes the outcome.
func (v *httpVerifier) Verify(ctx context.Context, proof, publicSignals json.RawMessage) (*Outcome, error) {
	body, err := json.Marshal(verifyRequest{
		Proof:         proof,
		PublicSignals: publicSignals,
		Scope:         v.cfg.Scope,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verifier unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return nil, fmt.Errorf("verifier answered status %d", res.StatusCode)
	}

	var outcome Outcome
	if err := json.NewDecoder(res.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("failed to decode verifier response: %w", err)
	}

	return &outcome, nil
}
