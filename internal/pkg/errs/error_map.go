/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to their CustomError template,
pairing every code with its client message and HTTP status.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Request body is not valid JSON.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Presence Errors
	ErrMissingSessionID: {Code: ErrMissingSessionID, Message: "Session ID is required.", Status: http.StatusBadRequest},

	// 3xxx: Verification Errors
	ErrVerificationIDRequired: {Code: ErrVerificationIDRequired, Message: "Verification ID is required.", Status: http.StatusBadRequest},
	ErrProofRequired:          {Code: ErrProofRequired, Message: "Proof and public signals are required.", Status: http.StatusBadRequest},
	ErrProofRejected:          {Code: ErrProofRejected, Message: "Verification failed.", Status: http.StatusBadRequest},
	ErrVerifierUnavailable:    {Code: ErrVerifierUnavailable, Message: "Verification service error. Please try again later.", Status: http.StatusBadGateway},
	ErrAgeBadgeRequired:       {Code: ErrAgeBadgeRequired, Message: "Age verification is required for this room.", Status: http.StatusForbidden},
	ErrAgeBadgeInvalid:        {Code: ErrAgeBadgeInvalid, Message: "Age verification is no longer valid.", Status: http.StatusForbidden},

	// 4xxx: Name Registration Errors
	ErrNameRequired: {Code: ErrNameRequired, Message: "Name is required.", Status: http.StatusBadRequest},
	ErrNameInvalid:  {Code: ErrNameInvalid, Message: "Name may only contain lowercase letters, digits and hyphens.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
