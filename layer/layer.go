// Package layer declares the host-application collaborators the sync engine
// drives: a loaded layer and the project holding the loaded set. The engine
// never talks to the host's rendering objects directly; it operates on the
// connection.LayerConnection value type plus these small interfaces.
package layer

import (
	"github.com/maplink/map-sync/connection"
)

// Adapter is a single loaded layer as seen by the engine.
type Adapter interface {
	// ID identifies the layer instance within the project.
	ID() string
	// Name is the human-visible layer name.
	Name() string

	// Connection returns the stored per-layer sync metadata.
	Connection() connection.LayerConnection
	// SetConnection persists the sync metadata on the layer.
	// The engine commits metadata in a single call at the end of a
	// successful action; implementations must apply it atomically.
	SetConnection(conn connection.LayerConnection) error

	// ExportStyle serializes the layer's current native style.
	ExportStyle() (string, error)
	// ImportStyle applies a native style serialization to the layer.
	ImportStyle(styleText string) error

	// CommitEdits flushes pending in-memory edits to the backing file.
	// Called before a full push so the uploaded file is current.
	CommitEdits() error
}

// Project is the currently loaded set of layers.
type Project interface {
	// Layers returns the loaded layers. The result reflects the live set
	// at call time; callers must not cache it across additions/removals.
	Layers() []Adapter

	// ReplaceLayer rebuilds a layer from the given file, removing the old
	// instance and returning the replacement. The new layer starts with
	// the old layer's name and an empty connection.
	ReplaceLayer(old Adapter, filePath string) (Adapter, error)
}
