//go:generate mockgen -destination mock_remote/mock_remote.go -package mock_remote github.com/maplink/map-sync/remote Client

// Package remote declares the map-hosting service collaborator consumed by
// the sync engine. The concrete transport (REST client, auth, timeouts)
// lives outside this module; the engine only sees this interface and must
// receive it by explicit injection.
package remote

import "context"

const CName = "layersync.remote"

// Visuals is the style bundle stored on a remote map. NativeStyle is the
// only field used for style comparison; LayerOrder is an optional hint for
// restoring a layer's position in the local layer tree.
type Visuals struct {
	NativeStyle string
	LayerOrder  []int

	// Extra carries service-side visual fields the engine does not
	// interpret but must not drop when writing visuals back.
	Extra map[string]any
}

// Map is the read-only remote map metadata the engine classifies against.
type Map struct {
	ID              string
	LatestVersionID string
	WorkspaceID     string
	Type            string
	Visuals         Visuals
}

// Client is the remote service boundary.
// All calls are blocking; timeout policy belongs to the implementation.
type Client interface {
	// GetMap returns current metadata and visuals for a map.
	GetMap(ctx context.Context, mapID string) (Map, error)
	// UploadVersion uploads the file as a new version and returns the new
	// version id.
	UploadVersion(ctx context.Context, mapID, message, filePath string) (versionID string, err error)
	// SetVisuals replaces the map's visuals.
	SetVisuals(ctx context.Context, mapID string, visuals Visuals) error
	// DownloadVersion fetches a version's file into destPath.
	// format may be empty for the service default.
	DownloadVersion(ctx context.Context, versionID, destPath, format string) error
}
