/*
Package handler provides the HTTP handlers and routing setup for the Frenguin server.

This file implements display-name registration: a fire-and-forget write to an
external ledger. The handler validates, answers immediately, and lets the
write land asynchronously.
*/
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"frenguin/internal/app/ledger"
	"frenguin/internal/pkg/errs"
	"frenguin/internal/pkg/logx"
	"frenguin/internal/pkg/req"
	"frenguin/internal/pkg/resp"
)

// maxNameLength matches the DNS label limit, since registered names become
// subdomains.
const maxNameLength = 63

// ledgerWriteTimeout bounds the asynchronous registration write.
const ledgerWriteTimeout = 10 * time.Second

// RegisterNameInput is the body of a registration request.
type RegisterNameInput struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// isValidName enforces subdomain-label rules: lowercase letters, digits and
// inner hyphens.
func isValidName(name string) bool {
	if len(name) == 0 || len(name) > maxNameLength {
		return false
	}
	if name[0] == '-' || name[len(name)-1] == '-' {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

// HandleRegisterName accepts a name registration and answers before the
// ledger write lands. A failed write is logged, never surfaced: retrying is
// the client's call on its own cadence, and the availability endpoint tells
// it whether the write landed.
func HandleRegisterName(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterNameInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrNameRequired))
			return
		}
		if !isValidName(input.Name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNameInvalid))
			return
		}

		go func(name, address string) {
			ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
			defer cancel()

			if err := deps.Names.Register(ctx, name, address); err != nil {
				if errors.Is(err, ledger.ErrNameTaken) {
					logx.Warn("Name registration lost the race.", "name", name)
					return
				}
				logx.Error(err, "Ledger write failed", "name", name)
			}
		}(input.Name, input.Address)

		resp.RespondSuccess(w, r, map[string]any{
			"accepted": true,
			"name":     input.Name,
		})
	}
}

// HandleNameAvailability reports whether a name is still free to register.
func HandleNameAvailability(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !isValidName(name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNameInvalid))
			return
		}

		available, err := deps.Names.IsAvailable(r.Context(), name)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"name":      name,
			"available": available,
		})
	}
}
