// Package registry maps remote map identifiers to loaded layers and owns
// the connect/disconnect bookkeeping.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/app/logger"
	"github.com/maplink/map-sync/layer"
	"github.com/maplink/map-sync/remote"
)

const CName = "layersync.registry"

var log = logger.NewNamed(CName)

var ErrNoMapID = errors.New("connect requires a map id")

// ConnectParams describe the remote binding to establish on a layer.
type ConnectParams struct {
	MapID     string
	FolderID  string
	LocalPath string
	// VersionID is optional; when empty the remote's latest version id is
	// recorded as the sync baseline.
	VersionID string
	// WorkspaceID is optional; when empty it is fetched from the remote.
	WorkspaceID string
}

type Service interface {
	app.Component
	// FindByMapID returns the loaded layer connected to the map, or nil.
	// The lookup scans the live layer set on every call; nothing is
	// cached, so concurrent layer addition/removal cannot leave a stale
	// index behind.
	FindByMapID(mapID string) layer.Adapter
	// ConnectedLayers returns all loaded layers bound to a remote map,
	// ordered by layer id.
	ConnectedLayers() []layer.Adapter
	// Connect establishes the layer's remote binding, fetching remote
	// metadata to fill in missing fields.
	Connect(ctx context.Context, l layer.Adapter, params ConnectParams) error
	// Disconnect clears the remote binding. The local path and the layer
	// itself are preserved: disconnecting never deletes local data.
	Disconnect(l layer.Adapter) error
}

func New() Service {
	return &service{}
}

type service struct {
	client  remote.Client
	project layer.Project
}

func (s *service) Init(a *app.App) (err error) {
	s.client = a.MustComponent(remote.CName).(remote.Service).Client()
	s.project = a.MustComponent(layer.CName).(layer.Service).Project()
	return nil
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) FindByMapID(mapID string) layer.Adapter {
	if mapID == "" {
		return nil
	}
	for _, l := range s.project.Layers() {
		if l.Connection().MapID == mapID {
			return l
		}
	}
	return nil
}

func (s *service) ConnectedLayers() (connected []layer.Adapter) {
	for _, l := range s.project.Layers() {
		if l.Connection().IsConnected() {
			connected = append(connected, l)
		}
	}
	slices.SortFunc(connected, func(a, b layer.Adapter) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return
}

func (s *service) Connect(ctx context.Context, l layer.Adapter, params ConnectParams) error {
	if params.MapID == "" {
		return ErrNoMapID
	}
	conn := l.Connection()
	if conn.MapID != "" && conn.MapID != params.MapID {
		// rebinding to another map: the old map's baselines would
		// misattribute the first style comparison
		conn.LastSync = time.Time{}
		conn.LastSyncedStyleHash = ""
	}
	conn.MapID = params.MapID
	conn.FolderID = params.FolderID
	conn.WorkspaceID = params.WorkspaceID
	conn.LastSyncedVersionID = params.VersionID
	if params.LocalPath != "" {
		conn.LocalPath = params.LocalPath
	}

	if conn.WorkspaceID == "" || conn.LastSyncedVersionID == "" {
		m, err := s.client.GetMap(ctx, params.MapID)
		if err != nil {
			return fmt.Errorf("can't fetch remote map while connecting: %w", err)
		}
		if conn.WorkspaceID == "" {
			conn.WorkspaceID = m.WorkspaceID
		}
		if conn.LastSyncedVersionID == "" {
			conn.LastSyncedVersionID = m.LatestVersionID
		}
	}
	if err := l.SetConnection(conn); err != nil {
		return fmt.Errorf("can't store connection metadata: %w", err)
	}
	log.Info("layer connected", zap.String("layerId", l.ID()), zap.String("mapId", params.MapID))
	return nil
}

func (s *service) Disconnect(l layer.Adapter) error {
	conn := l.Connection()
	if !conn.IsConnected() {
		return nil
	}
	if err := l.SetConnection(conn.Disconnected()); err != nil {
		return fmt.Errorf("can't clear connection metadata: %w", err)
	}
	log.Info("layer disconnected", zap.String("layerId", l.ID()), zap.String("mapId", conn.MapID))
	return nil
}
