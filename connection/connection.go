// Package connection holds the per-layer synchronization metadata and the
// closed status/direction enumerations the engine operates on.
package connection

import "time"

// LayerConnection binds a locally loaded layer to a remote map.
// An empty MapID means the layer is not connected; all remote-tracking
// fields are meaningful only while MapID is set.
//
// LastSyncedVersionID and LastSyncedStyleHash are updated together at the
// end of every successful push or pull, never independently.
type LayerConnection struct {
	MapID       string
	FolderID    string
	WorkspaceID string

	// LocalPath is the absolute path of the file backing the layer.
	// It may become stale or point to a removed file.
	LocalPath string

	LastSync            time.Time
	LastSyncedVersionID string
	LastSyncedStyleHash string
}

// IsConnected reports whether the layer is bound to a remote map.
func (c LayerConnection) IsConnected() bool {
	return c.MapID != ""
}

// Disconnected returns a copy with all remote identifiers cleared.
// LocalPath is deliberately preserved: disconnecting must never lose
// track of local data.
func (c LayerConnection) Disconnected() LayerConnection {
	return LayerConnection{LocalPath: c.LocalPath}
}
