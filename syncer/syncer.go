// Package syncer executes push/pull synchronization actions between a local
// layer and its remote map, driving the state machine derived from the
// classified sync status.
//
// Every action either completes its whole sequence (transfer, style,
// metadata commit) or leaves the stored LayerConnection untouched; the
// metadata commit is part of the transaction, not an afterthought.
package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/app/logger"
	"github.com/maplink/map-sync/config"
	"github.com/maplink/map-sync/connection"
	"github.com/maplink/map-sync/filecache"
	"github.com/maplink/map-sync/layer"
	"github.com/maplink/map-sync/layertree"
	"github.com/maplink/map-sync/metric"
	"github.com/maplink/map-sync/remote"
	"github.com/maplink/map-sync/stylehash"
	"github.com/maplink/map-sync/syncstatus"
)

const CName = "layersync.syncer"

var log = logger.NewNamed(CName)

const defaultExt = ".gpkg"

type configSource interface {
	GetSync() config.Sync
}

type Service interface {
	app.Component
	// Sync synchronizes the layer with its remote map.
	//
	// With connection.DirectionAuto the action and its scope are derived
	// from the classified status; styleOnly is ignored. A conflicting
	// status (style changed on both sides) is surfaced as ErrConflict and
	// performs no network operation. With an explicit push/pull direction
	// the caller resolves the conflict and styleOnly selects the scope.
	//
	// The returned layer is the live instance after the action: the input
	// layer for pushes and style pulls, the replacement instance for full
	// pulls.
	Sync(ctx context.Context, l layer.Adapter, direction connection.Direction, styleOnly bool) (layer.Adapter, error)

	// InFlight reports whether a synchronization for the map id is
	// currently running.
	InFlight(mapID string) bool
}

func New() Service {
	return &service{inFlight: make(map[string]struct{})}
}

type service struct {
	client  remote.Client
	project layer.Project
	tree    layertree.Tree
	status  syncstatus.Service
	cache   filecache.FileCache
	metrics metric.Metric

	pushMessage string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func (s *service) Init(a *app.App) (err error) {
	s.client = a.MustComponent(remote.CName).(remote.Service).Client()
	host := a.MustComponent(layer.CName).(layer.Service)
	s.project = host.Project()
	s.tree = host.Tree()
	s.status = a.MustComponent(syncstatus.CName).(syncstatus.Service)
	s.cache = a.MustComponent(filecache.CName).(filecache.FileCache)
	s.pushMessage = a.MustComponent(config.CName).(configSource).GetSync().PushMessage
	if m := a.Component(metric.CName); m != nil {
		s.metrics = m.(metric.Metric)
	}
	return nil
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Sync(ctx context.Context, l layer.Adapter, direction connection.Direction, styleOnly bool) (res layer.Adapter, err error) {
	conn := l.Connection()
	if !conn.IsConnected() {
		return nil, ErrNotConnected
	}
	if !direction.IsValid() {
		return nil, fmt.Errorf("unknown direction %q", direction)
	}

	if !s.acquire(conn.MapID) {
		return nil, ErrSyncInProgress
	}
	defer s.release(conn.MapID)

	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSync(direction, styleOnly, err)
		}
	}()

	ctx = logger.CtxWithFields(ctx,
		zap.String("mapId", conn.MapID), zap.String("layerId", l.ID()))

	if direction == connection.DirectionAuto {
		return s.syncAuto(ctx, l, conn)
	}
	return s.syncExplicit(ctx, l, conn, direction, styleOnly)
}

func (s *service) syncAuto(ctx context.Context, l layer.Adapter, conn connection.LayerConnection) (layer.Adapter, error) {
	check := s.status.Check(ctx, l)
	if s.metrics != nil {
		s.metrics.RecordStatus(check.Status)
	}
	log.DebugCtx(ctx, "auto sync", zap.String("status", string(check.Status)))

	switch check.Status {
	case connection.StatusInSync:
		log.InfoCtx(ctx, "layer already in sync")
		return l, nil
	case connection.StatusLocalModified:
		return l, s.pushFull(ctx, l, conn, check.Remote)
	case connection.StatusRemoteNewer:
		return s.pullFull(ctx, l, conn, check.Remote)
	case connection.StatusStyleChangedLocal:
		return l, s.pushStyle(ctx, l, conn, check.Remote)
	case connection.StatusStyleChangedRemote:
		return l, s.pullStyle(ctx, l, conn, check.Remote)
	case connection.StatusStyleChangedBoth:
		return nil, ErrConflict
	case connection.StatusProcessing:
		return nil, wrap(ErrRemoteProcessing, check.Err)
	case connection.StatusRemoteError:
		return nil, wrap(ErrRemoteUnavailable, check.Err)
	case connection.StatusFileMissing:
		return nil, ErrFileMissing
	case connection.StatusNotConnected:
		return nil, ErrNotConnected
	default:
		return nil, fmt.Errorf("unexpected status %q", check.Status)
	}
}

func (s *service) syncExplicit(ctx context.Context, l layer.Adapter, conn connection.LayerConnection, direction connection.Direction, styleOnly bool) (layer.Adapter, error) {
	switch direction {
	case connection.DirectionPush:
		if styleOnly {
			return l, s.pushStyle(ctx, l, conn, nil)
		}
		return l, s.pushFull(ctx, l, conn, nil)
	default: // connection.DirectionPull
		if styleOnly {
			return l, s.pullStyle(ctx, l, conn, nil)
		}
		return s.pullFull(ctx, l, conn, nil)
	}
}

// pushFull uploads the backing file as a new version, then the style and
// position as visuals, relocates the local copy under the new version key
// and commits the sync baselines as the final step.
func (s *service) pushFull(ctx context.Context, l layer.Adapter, conn connection.LayerConnection, m *remote.Map) error {
	if err := l.CommitEdits(); err != nil {
		return fmt.Errorf("can't commit pending edits: %w", err)
	}

	styleText, styleHash, err := s.exportStyle(ctx, l)
	if err != nil {
		return err
	}
	if m == nil {
		// the current visuals are needed so service-side fields survive the
		// SetVisuals write below
		if m, err = s.fetchMap(ctx, conn.MapID); err != nil {
			return err
		}
	}
	position, _ := layertree.Capture(s.tree, l.ID())

	newVersionID, err := s.client.UploadVersion(ctx, conn.MapID, s.pushMessage, conn.LocalPath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	if err = s.client.SetVisuals(ctx, conn.MapID, s.buildVisuals(styleText, position, m)); err != nil {
		return fmt.Errorf("can't upload visuals: %w", err)
	}

	// cache-busting rename so a stale local copy is never mistaken for the
	// uploaded version
	newPath, err := s.cache.Promote(conn.LocalPath, conn.MapID, newVersionID)
	if err != nil {
		return fmt.Errorf("can't relocate local file: %w", err)
	}

	conn.LocalPath = newPath
	conn.LastSync = time.Now()
	conn.LastSyncedVersionID = newVersionID
	conn.LastSyncedStyleHash = styleHash
	if err = l.SetConnection(conn); err != nil {
		return fmt.Errorf("upload succeeded but metadata commit failed: %w", err)
	}
	log.InfoCtx(ctx, "pushed layer", zap.String("versionId", newVersionID))
	return nil
}

// pushStyle uploads only style and position, leaving the file and the
// version baseline untouched.
func (s *service) pushStyle(ctx context.Context, l layer.Adapter, conn connection.LayerConnection, m *remote.Map) error {
	styleText, styleHash, err := s.exportStyle(ctx, l)
	if err != nil {
		return err
	}
	if m == nil {
		if m, err = s.fetchMap(ctx, conn.MapID); err != nil {
			return err
		}
	}
	position, _ := layertree.Capture(s.tree, l.ID())
	if err = s.client.SetVisuals(ctx, conn.MapID, s.buildVisuals(styleText, position, m)); err != nil {
		return fmt.Errorf("can't upload visuals: %w", err)
	}

	conn.LastSync = time.Now()
	conn.LastSyncedStyleHash = styleHash
	if err = l.SetConnection(conn); err != nil {
		return fmt.Errorf("visuals uploaded but metadata commit failed: %w", err)
	}
	log.InfoCtx(ctx, "pushed layer style")
	return nil
}

// pullFull downloads the current version into the cache, rebuilds the layer
// from the cached file, applies the remote style and position and commits
// the sync baselines as the final step.
func (s *service) pullFull(ctx context.Context, l layer.Adapter, conn connection.LayerConnection, m *remote.Map) (layer.Adapter, error) {
	var err error
	if m == nil {
		if m, err = s.fetchMap(ctx, conn.MapID); err != nil {
			return nil, err
		}
	}
	if m.LatestVersionID == "" {
		return nil, fmt.Errorf("remote map %s has no version to pull", conn.MapID)
	}

	ext := filepath.Ext(conn.LocalPath)
	if ext == "" {
		ext = defaultExt
	}
	format := strings.TrimPrefix(ext, ".")
	path, err := s.cache.Ensure(ctx, conn.MapID, m.LatestVersionID, ext, func(ctx context.Context, dest string) error {
		return s.client.DownloadVersion(ctx, m.LatestVersionID, dest, format)
	})
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	// the remote's recorded order wins; fall back to the layer's current
	// position so a replacement without a recorded order stays in place
	position := m.Visuals.LayerOrder
	if position == nil {
		position, _ = layertree.Capture(s.tree, l.ID())
	}

	fresh, err := s.project.ReplaceLayer(l, path)
	if err != nil {
		return nil, fmt.Errorf("can't rebuild layer from %s: %w", path, err)
	}
	// carry the binding over right away so a failure below cannot orphan
	// the replacement; sync baselines are still the old ones
	carried := conn
	carried.LocalPath = path
	if err = fresh.SetConnection(carried); err != nil {
		return nil, fmt.Errorf("can't carry connection metadata over: %w", err)
	}

	styleHash := ""
	if m.Visuals.NativeStyle != "" {
		if err = fresh.ImportStyle(m.Visuals.NativeStyle); err != nil {
			return fresh, fmt.Errorf("can't apply remote style: %w", err)
		}
		styleHash = s.hashStyle(ctx, m.Visuals.NativeStyle)
	}
	if exact, err := layertree.Place(s.tree, fresh.ID(), position); err != nil {
		log.WarnCtx(ctx, "can't restore layer position", zap.Error(err))
	} else if !exact {
		log.InfoCtx(ctx, "layer position restored best-effort", zap.Ints("position", position))
	}

	carried.LastSync = time.Now()
	carried.LastSyncedVersionID = m.LatestVersionID
	carried.LastSyncedStyleHash = styleHash
	if err = fresh.SetConnection(carried); err != nil {
		return fresh, fmt.Errorf("download succeeded but metadata commit failed: %w", err)
	}
	log.InfoCtx(ctx, "pulled layer", zap.String("versionId", m.LatestVersionID))
	return fresh, nil
}

// pullStyle applies the remote style (and recorded position, when present)
// without touching the file.
func (s *service) pullStyle(ctx context.Context, l layer.Adapter, conn connection.LayerConnection, m *remote.Map) error {
	var err error
	if m == nil {
		if m, err = s.fetchMap(ctx, conn.MapID); err != nil {
			return err
		}
	}
	if m.Visuals.NativeStyle == "" {
		log.InfoCtx(ctx, "remote map has no native style, nothing to pull")
		return nil
	}
	if err = l.ImportStyle(m.Visuals.NativeStyle); err != nil {
		return fmt.Errorf("can't apply remote style: %w", err)
	}
	if m.Visuals.LayerOrder != nil {
		if exact, err := layertree.Place(s.tree, l.ID(), m.Visuals.LayerOrder); err != nil {
			log.WarnCtx(ctx, "can't restore layer position", zap.Error(err))
		} else if !exact {
			log.InfoCtx(ctx, "layer position restored best-effort", zap.Ints("position", m.Visuals.LayerOrder))
		}
	}

	conn.LastSync = time.Now()
	conn.LastSyncedStyleHash = s.hashStyle(ctx, m.Visuals.NativeStyle)
	if err = l.SetConnection(conn); err != nil {
		return fmt.Errorf("style applied but metadata commit failed: %w", err)
	}
	log.InfoCtx(ctx, "pulled layer style")
	return nil
}

func (s *service) exportStyle(ctx context.Context, l layer.Adapter) (styleText, styleHash string, err error) {
	if styleText, err = l.ExportStyle(); err != nil {
		return "", "", fmt.Errorf("can't export layer style: %w", err)
	}
	return styleText, s.hashStyle(ctx, styleText), nil
}

// hashStyle returns "" for an unhashable style: no baseline is recorded,
// so the next classification conservatively reports a remote style change
func (s *service) hashStyle(ctx context.Context, styleText string) string {
	hash, err := stylehash.Hash(styleText)
	if err != nil {
		log.WarnCtx(ctx, "can't hash style, baseline left empty", zap.Error(err))
		return ""
	}
	return hash
}

func (s *service) buildVisuals(styleText string, position []int, m *remote.Map) remote.Visuals {
	visuals := remote.Visuals{
		NativeStyle: styleText,
		LayerOrder:  position,
	}
	if m != nil {
		// service-side fields the engine does not interpret survive the write
		visuals.Extra = m.Visuals.Extra
	}
	return visuals
}

func (s *service) fetchMap(ctx context.Context, mapID string) (*remote.Map, error) {
	m, err := s.client.GetMap(ctx, mapID)
	if err != nil {
		if remote.IsProcessing(err) {
			return nil, wrap(ErrRemoteProcessing, err)
		}
		return nil, wrap(ErrRemoteUnavailable, err)
	}
	return &m, nil
}

func (s *service) InFlight(mapID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[mapID]
	return busy
}

func (s *service) acquire(mapID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[mapID]; busy {
		return false
	}
	s.inFlight[mapID] = struct{}{}
	return true
}

func (s *service) release(mapID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, mapID)
}

func wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}
