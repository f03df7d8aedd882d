/*
Package errs provides custom error types and application-level error code constants.

These codes identify specific business or system failures both inside the
server and in responses to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrRateLimitExceeded indicates that the caller exceeded the request rate limit.
	ErrRateLimitExceeded = 1004
)

// 2xxx: Presence Errors
const (
	// ErrMissingSessionID indicates a presence push or snapshot without the
	// required session identifier. The only rejection the presence layer knows.
	ErrMissingSessionID = 2001
)

// 3xxx: Verification Errors
const (
	// ErrVerificationIDRequired indicates a verification call without its id.
	ErrVerificationIDRequired = 3001

	// ErrProofRequired indicates a verify request missing the proof or its public signals.
	ErrProofRequired = 3002

	// ErrProofRejected indicates the external verifier rejected the submitted proof.
	ErrProofRejected = 3003

	// ErrVerifierUnavailable indicates the external verifier could not be reached.
	ErrVerifierUnavailable = 3004

	// ErrAgeBadgeRequired indicates an adult-room push without an age badge
	// while the age gate is enabled.
	ErrAgeBadgeRequired = 3005

	// ErrAgeBadgeInvalid indicates an age badge that failed signature or expiry checks.
	ErrAgeBadgeInvalid = 3006
)

// 4xxx: Name Registration Errors
const (
	// ErrNameRequired indicates a registration request without a name.
	ErrNameRequired = 4001

	// ErrNameInvalid indicates a name that fails the subdomain character rules.
	ErrNameInvalid = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server-side failure.
	ErrUnknown = 5000
)
