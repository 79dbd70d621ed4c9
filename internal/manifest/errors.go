package manifest

import "errors"

var (
	// ErrDuplicateEntry means the peer's manifest text declared the same
	// name or command id more than once, violating the per-snapshot
	// uniqueness invariant (§3).
	ErrDuplicateEntry = errors.New("manifest: duplicate entry")

	// ErrLoadFailed wraps any socket, timeout or parse failure while
	// fetching the manifest; surfaced to the embedder as ManifestError
	// (§4.3, §7).
	ErrLoadFailed = errors.New("manifest: load failed")
)
