/*
Package handler provides the HTTP handlers and routing setup for the Frenguin server.

This file implements the presence sync protocol: the push+pull tick
(POST /api/presence) and the snapshot read (GET /api/presence). Each push is
upsert → sweep → room-filtered list in one ordering, so a client that just
switched rooms sees the new room's peers on the same response.
*/
package handler

import (
	"encoding/json"
	"net/http"

	"frenguin/internal/app/presence"
	"frenguin/internal/pkg/auth/badge"
	"frenguin/internal/pkg/errs"
	"frenguin/internal/pkg/logx"
	"frenguin/internal/pkg/req"
	"frenguin/internal/pkg/resp"
)

// AgeBadgeHeader carries the age badge on pushes into the age-gated room.
const AgeBadgeHeader = "X-Age-Badge"

// PresencePushInput is the body of one poll tick's push. Everything except
// SessionID is optional; optional fields are held raw so a malformed value
// degrades to "not supplied" instead of failing the tick.
type PresencePushInput struct {
	SessionID string          `json:"sessionId"`
	Position  json.RawMessage `json:"position,omitempty"`
	Room      json.RawMessage `json:"room,omitempty"`
	Character json.RawMessage `json:"character,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
}

// PresencePushData is the data payload answered to a push.
type PresencePushData struct {
	Accepted      bool   `json:"accepted"`
	OnlineCount   int    `json:"onlineCount"`
	RoomCount     int    `json:"roomCount"`
	Room          string `json:"room"`
	SessionIDEcho string `json:"sessionIdEcho"`
}

// UserSummary is the diagnostic shape in the snapshot's unfiltered listing:
// truncated id and room only. Gameplay must not consume it.
type UserSummary struct {
	ID   string `json:"id"`
	Room string `json:"room"`
}

// PresenceSnapshotData is the data payload answered to a snapshot read.
type PresenceSnapshotData struct {
	Users         []presence.User `json:"users"`
	AllUsers      []UserSummary   `json:"allUsers"`
	TotalUsers    int             `json:"totalUsers"`
	RoomRequested string          `json:"roomRequested"`
}

// decodeUpdate converts the raw optional fields into a store update,
// silently dropping anything that does not decode. A push never fails over a
// malformed optional field.
func decodeUpdate(input PresencePushInput) presence.Update {
	var u presence.Update

	if len(input.Position) > 0 {
		var pos presence.Position
		if err := json.Unmarshal(input.Position, &pos); err == nil {
			u.Position = &pos
		}
	}
	if len(input.Room) > 0 {
		var room string
		if err := json.Unmarshal(input.Room, &room); err == nil {
			u.Room = room
		}
	}
	if len(input.Character) > 0 {
		var character string
		if err := json.Unmarshal(input.Character, &character); err == nil {
			u.Character = character
		}
	}
	if len(input.Message) > 0 {
		var message string
		if err := json.Unmarshal(input.Message, &message); err == nil {
			u.Message = message
		}
	}

	return u
}

// HandlePresencePush processes one poll tick: apply the caller's state, sweep
// expired sessions, and answer with the counts for the caller's final room.
func HandlePresencePush(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PresencePushInput
		if customErr := req.BindJSONLenient(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.SessionID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingSessionID))
			return
		}

		u := decodeUpdate(input)

		if customErr := checkAgeGate(deps, r, u.Room); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		rec := deps.Presence.Upsert(input.SessionID, u)

		// List against the record's final room, so a room change in this very
		// push is already reflected in the counts.
		inRoom, _ := deps.Presence.List(rec.Room, rec.ID)

		resp.RespondSuccess(w, r, PresencePushData{
			Accepted:      true,
			OnlineCount:   deps.Presence.Count(),
			RoomCount:     len(inRoom),
			Room:          rec.Room,
			SessionIDEcho: rec.ID,
		})
	}
}

// HandlePresenceSnapshot answers the current peer set for the requested room.
// A snapshot also refreshes the caller's own record, creating it if absent,
// so a client that only polls stays visible to everyone else.
func HandlePresenceSnapshot(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionId")
		if sessionID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingSessionID))
			return
		}

		room := r.URL.Query().Get("room")
		if room == "" {
			room = presence.RoomGeneral
		}
		room = presence.NormalizeRoom(room)

		deps.Presence.Touch(sessionID, room)

		inRoom, others := deps.Presence.List(room, sessionID)

		allUsers := make([]UserSummary, 0, len(others))
		for _, u := range others {
			allUsers = append(allUsers, UserSummary{
				ID:   truncateID(u.ID),
				Room: u.Room,
			})
		}

		resp.RespondSuccess(w, r, PresenceSnapshotData{
			Users:         inRoom,
			AllUsers:      allUsers,
			TotalUsers:    deps.Presence.Count(),
			RoomRequested: room,
		})
	}
}

// checkAgeGate enforces the age badge when the gate is enabled and the push
// targets the age-gated room. With the gate disabled the badge is advisory
// and nothing is checked. Runs before any mutation.
func checkAgeGate(deps *AppDeps, r *http.Request, rawRoom string) *errs.CustomError {
	if !deps.Config.AgeGateEnabled || rawRoom == "" {
		return nil
	}
	if presence.NormalizeRoom(rawRoom) != presence.RoomAdult {
		return nil
	}

	token := r.Header.Get(AgeBadgeHeader)
	if token == "" {
		return errs.NewError(errs.ErrAgeBadgeRequired)
	}

	if _, err := badge.Parse(token, deps.Config.BadgeSecret); err != nil {
		logx.Warn("Rejected adult-room push with an invalid age badge.")
		return errs.NewError(errs.ErrAgeBadgeInvalid)
	}

	return nil
}

// truncateID shortens a session id for log and diagnostic output.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
