// Package syncstatus classifies a layer's synchronization state against its
// remote map into the closed connection.SyncStatus taxonomy.
package syncstatus

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/app/logger"
	"github.com/maplink/map-sync/connection"
	"github.com/maplink/map-sync/layer"
	"github.com/maplink/map-sync/remote"
	"github.com/maplink/map-sync/stylehash"
)

const CName = "layersync.syncstatus"

var log = logger.NewNamed(CName)

// Result is a classification outcome together with the facts it was
// derived from, so the executor can reuse them without refetching.
type Result struct {
	Status connection.SyncStatus
	// Remote is the fetched map metadata; nil when classification
	// short-circuited before the remote call or the call failed.
	Remote *remote.Map
	// LocalStyleHash is the canonical hash of the live layer style,
	// empty when it was not computed or not computable.
	LocalStyleHash string
	// Err carries the underlying remote failure for the
	// processing/remote_error statuses.
	Err error
}

type Service interface {
	app.Component
	// Check classifies the layer. Remote failures are folded into the
	// processing/remote_error statuses, never returned as errors.
	Check(ctx context.Context, l layer.Adapter) Result
}

func New() Service {
	return &service{}
}

type service struct {
	client remote.Client
}

func (s *service) Init(a *app.App) (err error) {
	s.client = a.MustComponent(remote.CName).(remote.Service).Client()
	return nil
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Check(ctx context.Context, l layer.Adapter) Result {
	conn := l.Connection()
	if !conn.IsConnected() {
		return Result{Status: connection.StatusNotConnected}
	}

	// statuses decidable without touching the remote, same order as Classify
	local := gatherLocalFileFacts(conn)
	if !local.FileExists {
		return Result{Status: connection.StatusFileMissing}
	}
	if !conn.LastSync.IsZero() && local.ModTime.After(conn.LastSync) {
		return Result{Status: connection.StatusLocalModified}
	}

	m, err := s.client.GetMap(ctx, conn.MapID)
	if err != nil {
		rem := RemoteFacts{Processing: remote.IsProcessing(err)}
		st := Classify(conn, local, rem)
		log.InfoCtx(ctx, "remote status check failed",
			zap.String("mapId", conn.MapID), zap.String("status", string(st)), zap.Error(err))
		return Result{Status: st, Err: err}
	}

	local = s.gatherLocalStyleFacts(ctx, l, local)
	rem := s.gatherRemoteFacts(ctx, m)
	return Result{
		Status:         Classify(conn, local, rem),
		Remote:         &m,
		LocalStyleHash: local.StyleHash,
	}
}

func gatherLocalFileFacts(conn connection.LayerConnection) (local LocalFacts) {
	if conn.LocalPath == "" {
		return
	}
	st, err := os.Stat(conn.LocalPath)
	if err != nil || st.IsDir() {
		return
	}
	local.FileExists = true
	local.ModTime = st.ModTime()
	return
}

func (s *service) gatherLocalStyleFacts(ctx context.Context, l layer.Adapter, local LocalFacts) LocalFacts {
	styleText, err := l.ExportStyle()
	if err != nil {
		log.WarnCtx(ctx, "can't export layer style", zap.String("layerId", l.ID()), zap.Error(err))
		local.StyleUnparseable = true
		return local
	}
	hash, err := stylehash.Hash(styleText)
	if err != nil {
		log.WarnCtx(ctx, "can't hash layer style", zap.String("layerId", l.ID()), zap.Error(err))
		local.StyleUnparseable = true
		return local
	}
	local.StyleHash = hash
	return local
}

func (s *service) gatherRemoteFacts(ctx context.Context, m remote.Map) (rem RemoteFacts) {
	rem.Reachable = true
	rem.LatestVersionID = m.LatestVersionID
	if m.Visuals.NativeStyle == "" {
		return
	}
	rem.HasNativeStyle = true
	hash, err := stylehash.Hash(m.Visuals.NativeStyle)
	if err != nil {
		log.WarnCtx(ctx, "can't hash remote style", zap.String("mapId", m.ID), zap.Error(err))
		rem.StyleUnparseable = true
		return
	}
	rem.StyleHash = hash
	return
}
