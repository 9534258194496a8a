package connection

// SyncStatus is the closed classification of a layer's synchronization
// state against its remote map.
type SyncStatus string

const (
	StatusNotConnected       SyncStatus = "not_connected"
	StatusFileMissing        SyncStatus = "file_missing"
	StatusLocalModified      SyncStatus = "local_modified"
	StatusRemoteNewer        SyncStatus = "remote_newer"
	StatusStyleChangedLocal  SyncStatus = "style_changed_local"
	StatusStyleChangedRemote SyncStatus = "style_changed_remote"
	StatusStyleChangedBoth   SyncStatus = "style_changed_both"
	StatusProcessing         SyncStatus = "processing"
	StatusRemoteError        SyncStatus = "remote_error"
	StatusInSync             SyncStatus = "in_sync"
)

// IsValid reports whether the status is one of the defined values.
func (s SyncStatus) IsValid() bool {
	switch s {
	case StatusNotConnected, StatusFileMissing, StatusLocalModified,
		StatusRemoteNewer, StatusStyleChangedLocal, StatusStyleChangedRemote,
		StatusStyleChangedBoth, StatusProcessing, StatusRemoteError,
		StatusInSync:
		return true
	}
	return false
}

// Syncable reports whether an automatic synchronization action exists
// for the status. Conflicts are excluded: style_changed_both requires an
// explicit direction chosen by the caller.
func (s SyncStatus) Syncable() bool {
	switch s {
	case StatusLocalModified, StatusRemoteNewer,
		StatusStyleChangedLocal, StatusStyleChangedRemote:
		return true
	}
	return false
}

// Direction selects which replica wins a synchronization.
type Direction string

const (
	// DirectionAuto derives the direction from the classified status.
	DirectionAuto Direction = "auto"
	// DirectionPush uploads local state to the remote map.
	DirectionPush Direction = "push"
	// DirectionPull downloads remote state over the local layer.
	DirectionPull Direction = "pull"
)

// IsValid reports whether the direction is one of the defined values.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionAuto, DirectionPush, DirectionPull:
		return true
	}
	return false
}
