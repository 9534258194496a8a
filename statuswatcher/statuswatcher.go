// Package statuswatcher periodically re-classifies all connected layers and
// publishes a batch of status events whenever the overall picture changes,
// so a host UI can refresh its decorations without polling the engine.
package statuswatcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/cheggaaa/mb/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/app/logger"
	"github.com/maplink/map-sync/config"
	"github.com/maplink/map-sync/connection"
	"github.com/maplink/map-sync/metric"
	"github.com/maplink/map-sync/registry"
	"github.com/maplink/map-sync/syncer"
	"github.com/maplink/map-sync/syncstatus"
	"github.com/maplink/map-sync/util/periodicsync"
)

const CName = "layersync.statuswatcher"

var log = logger.NewNamed(CName)

const (
	checkTimeout = time.Minute
	queueSize    = 100
)

type configSource interface {
	GetSync() config.Sync
}

// StatusEvent is the classified status of one connected layer. A layer
// that left the connected set is reported once with StatusNotConnected.
type StatusEvent struct {
	LayerID string
	MapID   string
	Status  connection.SyncStatus
}

type Service interface {
	app.ComponentRunnable
	// WaitUpdates blocks until the next published batch of status events.
	WaitUpdates(ctx context.Context) ([]StatusEvent, error)
	// RefreshNow runs a classification pass outside the periodic schedule.
	RefreshNow(ctx context.Context) error
}

func New() Service {
	return &service{batcher: mb.New[StatusEvent](queueSize)}
}

type service struct {
	registry registry.Service
	status   syncstatus.Service
	syncer   syncer.Service
	metrics  metric.Metric

	intervalSecs int
	loop         periodicsync.Loop
	batcher      *mb.MB[StatusEvent]
	lastDigest   atomic.Uint64

	mu       sync.Mutex
	lastSeen map[string]string // layerID -> mapID of the previous pass
}

func (s *service) Init(a *app.App) (err error) {
	s.registry = a.MustComponent(registry.CName).(registry.Service)
	s.status = a.MustComponent(syncstatus.CName).(syncstatus.Service)
	s.syncer = a.MustComponent(syncer.CName).(syncer.Service)
	s.intervalSecs = a.MustComponent(config.CName).(configSource).GetSync().StatusRefreshIntervalSec
	if m := a.Component(metric.CName); m != nil {
		s.metrics = m.(metric.Metric)
	}
	s.lastSeen = make(map[string]string)
	// an empty project must not count as a change on the first pass
	s.lastDigest.Store(xxhash.Sum64String(""))
	return nil
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Run(ctx context.Context) (err error) {
	if s.intervalSecs <= 0 {
		// zero interval disables the background loop, RefreshNow still works
		return nil
	}
	s.loop = periodicsync.NewLoop(time.Duration(s.intervalSecs)*time.Second, checkTimeout, s.refresh, log)
	s.loop.Run()
	return nil
}

func (s *service) Close(ctx context.Context) (err error) {
	if s.loop != nil {
		s.loop.Close()
	}
	return s.batcher.Close()
}

func (s *service) WaitUpdates(ctx context.Context) ([]StatusEvent, error) {
	return s.batcher.Wait(ctx)
}

func (s *service) RefreshNow(ctx context.Context) error {
	return s.refresh(ctx)
}

func (s *service) refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layers := s.registry.ConnectedLayers()
	events := make([]StatusEvent, 0, len(layers))
	seen := make(map[string]string, len(layers))
	var digest strings.Builder
	for _, l := range layers {
		mapID := l.Connection().MapID
		seen[l.ID()] = mapID
		if s.syncer.InFlight(mapID) {
			// the status is about to change anyway, don't fight the sync
			continue
		}
		res := s.status.Check(ctx, l)
		if s.metrics != nil {
			s.metrics.RecordStatus(res.Status)
		}
		events = append(events, StatusEvent{
			LayerID: l.ID(),
			MapID:   mapID,
			Status:  res.Status,
		})
		digest.WriteString(l.ID())
		digest.WriteString(string(res.Status))
		digest.WriteString("\n")
	}

	// layers gone since the previous pass are reported once as
	// not_connected so subscribers can drop their decorations
	var removed []string
	for id := range s.lastSeen {
		if _, still := seen[id]; !still {
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)
	for _, id := range removed {
		events = append(events, StatusEvent{
			LayerID: id,
			MapID:   s.lastSeen[id],
			Status:  connection.StatusNotConnected,
		})
	}

	sum := xxhash.Sum64String(digest.String())
	changed := s.lastDigest.Swap(sum) != sum
	s.lastSeen = seen
	if !changed && len(removed) == 0 {
		// nothing changed since the last pass, no event emitted
		return nil
	}
	log.DebugCtx(ctx, "layer statuses changed",
		zap.Int("layers", len(events)), zap.Int("removed", len(removed)))
	return s.batcher.Add(ctx, events...)
}
