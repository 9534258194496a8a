package syncstatus

import (
	"time"

	"github.com/maplink/map-sync/connection"
)

// LocalFacts are the locally observable inputs of a classification.
type LocalFacts struct {
	FileExists bool
	ModTime    time.Time
	// StyleHash is the canonical hash of the live layer style.
	StyleHash string
	// StyleUnparseable marks a style that could not be hashed; equality
	// cannot be determined, so the style is conservatively treated as
	// changed.
	StyleUnparseable bool
}

// RemoteFacts are the remote-side inputs of a classification.
type RemoteFacts struct {
	// Reachable is false when the remote metadata fetch failed.
	Reachable bool
	// Processing marks a fetch failure meaning the map is not yet
	// processed by the service.
	Processing bool

	LatestVersionID string
	// HasNativeStyle is false when the map has no native style recorded;
	// style comparison is skipped in that case.
	HasNativeStyle bool
	StyleHash      string
	// StyleUnparseable marks a remote native style that could not be
	// hashed; treated as changed, same as on the local side.
	StyleUnparseable bool
}

// Classify derives the sync status from the stored connection metadata and
// freshly gathered local/remote facts. It is a pure function: identical
// inputs always produce the same status.
//
// The decision order is a deliberate tie-break policy: file presence and
// full-content modification take precedence over style-only drift, and an
// unreachable remote is reported distinctly so it is never mistaken for
// agreement.
func Classify(conn connection.LayerConnection, local LocalFacts, rem RemoteFacts) connection.SyncStatus {
	if !conn.IsConnected() {
		return connection.StatusNotConnected
	}
	if !local.FileExists {
		return connection.StatusFileMissing
	}
	// no recorded sync time means a first-time evaluation: skip the mtime
	// check and judge purely on version/style comparison
	if !conn.LastSync.IsZero() && local.ModTime.After(conn.LastSync) {
		return connection.StatusLocalModified
	}

	if rem.Processing {
		return connection.StatusProcessing
	}
	if !rem.Reachable {
		return connection.StatusRemoteError
	}

	if rem.LatestVersionID != "" && conn.LastSyncedVersionID != "" &&
		rem.LatestVersionID != conn.LastSyncedVersionID {
		return connection.StatusRemoteNewer
	}

	return classifyStyle(conn, local, rem)
}

func classifyStyle(conn connection.LayerConnection, local LocalFacts, rem RemoteFacts) connection.SyncStatus {
	if !rem.HasNativeStyle {
		return connection.StatusInSync
	}
	localValid := !local.StyleUnparseable && local.StyleHash != ""
	remoteValid := !rem.StyleUnparseable && rem.StyleHash != ""
	if localValid && remoteValid && local.StyleHash == rem.StyleHash {
		return connection.StatusInSync
	}

	baseline := conn.LastSyncedStyleHash
	if baseline == "" {
		// no baseline recorded: the change cannot be attributed, the
		// remote is assumed to hold the authoritative style
		return connection.StatusStyleChangedRemote
	}
	localChanged := !localValid || local.StyleHash != baseline
	remoteChanged := !remoteValid || rem.StyleHash != baseline
	switch {
	case localChanged && remoteChanged:
		return connection.StatusStyleChangedBoth
	case localChanged:
		return connection.StatusStyleChangedLocal
	case remoteChanged:
		return connection.StatusStyleChangedRemote
	default:
		return connection.StatusInSync
	}
}
