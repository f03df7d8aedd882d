/*
Package req provides helpers for HTTP request parsing and data binding.

Two binding modes exist: the strict one rejects unknown fields and trailing
content, and the lenient one accepts anything JSON-shaped. The presence poll
uses the lenient mode, since a game client on a hot loop must never have a
whole tick rejected over a stray field.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"frenguin/internal/pkg/errs"
)

// BindJSON strictly binds the JSON request body to dst. Unknown fields and
// trailing content are errors.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	return nil
}

// BindJSONLenient binds the JSON request body to dst, tolerating unknown
// fields. Only a body that is not valid JSON at all is rejected.
func BindJSONLenient(r *http.Request, dst any) *errs.CustomError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}
	return nil
}
