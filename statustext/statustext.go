// Package statustext maps synchronization statuses and errors to short
// human-readable summaries and suggested actions, for host UIs that surface
// per-layer sync state.
package statustext

import (
	"errors"

	"github.com/maplink/map-sync/connection"
	"github.com/maplink/map-sync/remote"
	"github.com/maplink/map-sync/syncer"
)

type text struct {
	summary string
	action  string
}

var statusTexts = map[connection.SyncStatus]text{
	connection.StatusNotConnected: {
		summary: "Layer is not connected to a remote map",
		action:  "Connect the layer to start syncing",
	},
	connection.StatusFileMissing: {
		summary: "Local file is missing",
		action:  "Restore the file or pull the layer again",
	},
	connection.StatusLocalModified: {
		summary: "Local changes need to be uploaded",
		action:  "Push the layer",
	},
	connection.StatusRemoteNewer: {
		summary: "Remote changes need to be downloaded",
		action:  "Pull the layer",
	},
	connection.StatusStyleChangedLocal: {
		summary: "Local style changes detected",
		action:  "Push the style",
	},
	connection.StatusStyleChangedRemote: {
		summary: "Remote style changes detected",
		action:  "Pull the style",
	},
	connection.StatusStyleChangedBoth: {
		summary: "Style changed on both sides",
		action:  "Choose push or pull to resolve the conflict",
	},
	connection.StatusProcessing: {
		summary: "Map is still being processed remotely",
		action:  "Retry once processing finishes",
	},
	connection.StatusRemoteError: {
		summary: "Error checking remote status",
		action:  "Check connectivity and retry",
	},
	connection.StatusInSync: {
		summary: "Layer is in sync",
		action:  "",
	},
}

// Describe returns a one-line summary and a suggested action for a status.
// Unknown statuses yield empty strings.
func Describe(status connection.SyncStatus) (summary, action string) {
	t := statusTexts[status]
	return t.summary, t.action
}

// DescribeErr returns a one-line summary and a suggested action for a
// synchronization error. Unrecognized errors fall back to the error text
// with no action.
func DescribeErr(err error) (summary, action string) {
	if err == nil {
		return "", ""
	}
	switch {
	case errors.Is(err, syncer.ErrNotConnected):
		return Describe(connection.StatusNotConnected)
	case errors.Is(err, syncer.ErrFileMissing):
		return Describe(connection.StatusFileMissing)
	case errors.Is(err, syncer.ErrRemoteProcessing):
		return Describe(connection.StatusProcessing)
	case errors.Is(err, syncer.ErrConflict):
		return Describe(connection.StatusStyleChangedBoth)
	case errors.Is(err, syncer.ErrSyncInProgress):
		return "A sync for this map is already running", "Wait for it to finish"
	case errors.Is(err, syncer.ErrRemoteUnavailable):
		return "Remote service is unavailable", "Check connectivity and retry"
	}
	var rerr *remote.Error
	if errors.As(err, &rerr) {
		if remote.IsNotFound(rerr) {
			return "Remote map no longer exists", "Disconnect the layer or reconnect it to another map"
		}
		return "Remote request failed", "Check connectivity and retry"
	}
	return err.Error(), ""
}
