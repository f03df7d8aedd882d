package handler

import (
	"frenguin/internal/app/ledger"
	"frenguin/internal/app/presence"
	"frenguin/internal/app/verification"
	"frenguin/internal/configs"
)

// AppDeps bundles everything the HTTP handlers need. Constructed once in main
// and threaded through the router, so tests can build isolated instances.
type AppDeps struct {
	Presence      *presence.Store
	Verifications *verification.Store
	Verifier      verification.ProofVerifier
	Names         ledger.Registry
	Config        *configs.AppConfig
}
