package syncer

import "errors"

var (
	// ErrNotConnected is returned when the layer has no remote binding.
	ErrNotConnected = errors.New("layer is not connected to a remote map")
	// ErrFileMissing is returned when the layer's backing file is gone.
	ErrFileMissing = errors.New("local file is missing")
	// ErrRemoteProcessing marks a map the service has not finished
	// processing. Retryable later, not fatal.
	ErrRemoteProcessing = errors.New("remote map is still being processed")
	// ErrRemoteUnavailable marks a remote/network failure observed during
	// classification. Retry is a caller decision.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	// ErrConflict is returned when both replicas changed the style and no
	// explicit direction was given. The engine never guesses a winner.
	ErrConflict = errors.New("style changed on both sides, explicit direction required")
	// ErrSyncInProgress is returned when a synchronization for the same
	// map id is already running.
	ErrSyncInProgress = errors.New("synchronization already in progress for this map")
)
