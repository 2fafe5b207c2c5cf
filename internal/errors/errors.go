package errors

import "errors"

// Storage errors indicate problems with the self-hosted binary store.
var (
	// ErrNoStorageSection indicates the executable has no trailing storage section.
	ErrNoStorageSection = errors.New("executable has no storage section")

	// ErrTableMarkerNotFound indicates the domain table marker could not be located.
	ErrTableMarkerNotFound = errors.New("domain table marker not found")

	// ErrPayloadTooLarge indicates an embedded payload exceeds the sanity bound.
	ErrPayloadTooLarge = errors.New("embedded payload too large")

	// ErrEmptyPayload indicates an embedded payload contains no bytes.
	ErrEmptyPayload = errors.New("embedded payload is empty")
)

// Codec errors indicate malformed serialized data.
var (
	// ErrTruncatedData indicates the byte stream ended before a field completed.
	ErrTruncatedData = errors.New("truncated data")

	// ErrInvalidUTF8 indicates a name or description is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in text field")

	// ErrDimensionMismatch indicates a serialized point does not match its
	// engine's dimensionality.
	ErrDimensionMismatch = errors.New("point dimension mismatch")
)

// Capacity errors indicate a fixed-size structure is full.
var (
	// ErrTableFull indicates all 512 domain slots are occupied.
	ErrTableFull = errors.New("domain table full (512 slots)")
)

// Session errors indicate protocol commands issued in the wrong state.
var (
	// ErrSessionNotActive indicates no domain session has been activated.
	ErrSessionNotActive = errors.New("no active domain session")

	// ErrNotPreviewing indicates a commit or cancel was issued outside preview mode.
	ErrNotPreviewing = errors.New("not in preview mode")

	// ErrMissingDomain indicates a command omitted its required domain field.
	ErrMissingDomain = errors.New("missing domain")
)

// Vault errors indicate problems with credential profiles.
var (
	// ErrNoProfile indicates no credential profile exists yet.
	ErrNoProfile = errors.New("no credential profile found")

	// ErrProfileNotFound indicates the named profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
)
