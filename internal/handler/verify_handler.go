/*
Package handler provides the HTTP handlers and routing setup for the Frenguin server.

This file implements the age-verification flow: relaying a proof to the
external verifier, recording results keyed by verification id, answering the
client's status polls, and rendering the verifier deep-link as a QR code.
*/
package handler

import (
	"encoding/json"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"frenguin/internal/app/verification"
	"frenguin/internal/pkg/auth/badge"
	"frenguin/internal/pkg/errs"
	"frenguin/internal/pkg/logx"
	"frenguin/internal/pkg/req"
	"frenguin/internal/pkg/resp"
)

// qrSize is the pixel edge of the rendered verification QR code.
const qrSize = 256

// VerifyProofInput is the body relayed to the external verifier.
type VerifyProofInput struct {
	VerificationID string          `json:"verificationId"`
	Proof          json.RawMessage `json:"proof"`
	PublicSignals  json.RawMessage `json:"publicSignals"`
}

// HandleVerifyProof relays a proof to the external verifier and records the
// outcome under the caller's verification id. The server never retries a
// failed relay; the client polls the status endpoint on its own cadence.
func HandleVerifyProof(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input VerifyProofInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.VerificationID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrVerificationIDRequired))
			return
		}
		if len(input.Proof) == 0 || len(input.PublicSignals) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrProofRequired))
			return
		}

		outcome, err := deps.Verifier.Verify(r.Context(), input.Proof, input.PublicSignals)
		if err != nil {
			logx.Error(err, "Proof relay to external verifier failed",
				"verification_id", input.VerificationID)
			resp.RespondError(w, r, errs.NewError(errs.ErrVerifierUnavailable))
			return
		}

		if !outcome.Valid {
			deps.Verifications.Set(input.VerificationID, verification.Status{Verified: false})
			resp.RespondError(w, r, errs.NewError(errs.ErrProofRejected))
			return
		}

		deps.Verifications.Set(input.VerificationID, verification.Status{
			Verified:   true,
			Attributes: outcome.Attributes,
		})

		data := map[string]any{
			"verified":   true,
			"userId":     outcome.UserID,
			"attributes": outcome.Attributes,
		}

		token, err := badge.Mint(input.VerificationID, outcome.Attributes.OlderThan, deps.Config.BadgeSecret)
		if err != nil {
			logx.Error(err, "Badge minting failed; answering without a token",
				"verification_id", input.VerificationID)
		} else {
			data["token"] = token
		}

		resp.RespondSuccess(w, r, data)
	}
}

// SetStatusInput is the body of an externally-delivered verification result.
type SetStatusInput struct {
	ID         string                  `json:"id"`
	Verified   bool                    `json:"verified"`
	Attributes verification.Attributes `json:"attributes,omitempty"`
}

// HandleSetVerificationStatus records a verification outcome delivered by an
// external callback rather than through the proof relay.
func HandleSetVerificationStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SetStatusInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrVerificationIDRequired))
			return
		}

		deps.Verifications.Set(input.ID, verification.Status{
			Verified:   input.Verified,
			Attributes: input.Attributes,
		})

		resp.RespondSuccess(w, r, map[string]any{
			"id":       input.ID,
			"verified": input.Verified,
		})
	}
}

// HandleGetVerificationStatus is the client's poll target: verified yet or
// not, plus a badge token once verified. An unknown id reads as unverified.
func HandleGetVerificationStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrVerificationIDRequired))
			return
		}

		status, _ := deps.Verifications.Get(id)

		data := map[string]any{
			"verified": status.Verified,
		}
		if status.Attributes.OlderThan != "" {
			data["olderThan"] = status.Attributes.OlderThan
		}

		if status.Verified {
			token, err := badge.Mint(id, status.Attributes.OlderThan, deps.Config.BadgeSecret)
			if err != nil {
				logx.Error(err, "Badge minting failed during status poll", "verification_id", id)
			} else {
				data["token"] = token
			}
		}

		resp.RespondSuccess(w, r, data)
	}
}

// HandleVerificationQR renders the verifier deep-link for the given
// verification id as a PNG QR code for the game's verification modal.
func HandleVerificationQR(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrVerificationIDRequired))
			return
		}

		link := deps.Config.VerificationLinkBase + id

		png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
		if err != nil {
			logx.Error(err, "QR encoding failed", "verification_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}
}
