package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"frenguin/internal/app/ledger"
	"frenguin/internal/app/presence"
	"frenguin/internal/app/verification"
	"frenguin/internal/configs"
)

// fakeVerifier answers a canned outcome without any network.
type fakeVerifier struct {
	outcome *verification.Outcome
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeVerifier) Verify(ctx context.Context, proof, publicSignals json.RawMessage) (*verification.Outcome, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

// fakeRegistry records registrations in memory and signals each landed write.
type fakeRegistry struct {
	mu         sync.Mutex
	names      map[string]string
	registered chan string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		names:      make(map[string]string),
		registered: make(chan string, 8),
	}
}

func (f *fakeRegistry) Register(ctx context.Context, name, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, taken := f.names[name]; taken {
		return ledger.ErrNameTaken
	}
	f.names[name] = address
	f.registered <- name
	return nil
}

func (f *fakeRegistry) IsAvailable(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, taken := f.names[name]
	return !taken, nil
}

// newTestDeps builds an isolated dependency set with in-memory fakes.
func newTestDeps() (*AppDeps, *fakeVerifier, *fakeRegistry) {
	verifier := &fakeVerifier{
		outcome: &verification.Outcome{
			Valid:      true,
			UserID:     "user-1",
			Attributes: verification.Attributes{OlderThan: "18", Nationality: "FI"},
		},
	}
	registry := newFakeRegistry()

	deps := &AppDeps{
		Presence:      presence.NewStore(),
		Verifications: verification.NewStore(),
		Verifier:      verifier,
		Names:         registry,
		Config: &configs.AppConfig{
			Environment:          "test",
			Port:                 8080,
			BadgeSecret:          "test-badge-secret",
			VerificationLinkBase: "https://verify.example/?id=",
		},
	}

	return deps, verifier, registry
}

// envelope mirrors the resp package's JSON envelope for decoding in tests.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Response is not the standard envelope: %v (body %q)", err, rec.Body.String())
	}

	return rec, env
}
