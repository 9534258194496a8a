package syncstatus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/maplink/map-sync/connection"
	"github.com/maplink/map-sync/remote"
	"github.com/maplink/map-sync/remote/mock_remote"
	"github.com/maplink/map-sync/stylehash"
	"github.com/maplink/map-sync/testutil/testlayer"
)

var ctx = context.Background()

const (
	styleA = `<qgis><renderer-v2 type="singleSymbol"><prop k="color" v="red"/></renderer-v2></qgis>`
	styleB = `<qgis><renderer-v2 type="singleSymbol"><prop k="color" v="blue"/></renderer-v2></qgis>`
)

type fixture struct {
	*service
	ctrl   *gomock.Controller
	client *mock_remote.MockClient
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	client := mock_remote.NewMockClient(ctrl)
	return &fixture{
		service: &service{client: client},
		ctrl:    ctrl,
		client:  client,
	}
}

func (fx *fixture) finish() {
	fx.ctrl.Finish()
}

// connectedLayer returns a layer whose backing file exists with mtime one
// second before the recorded last sync
func connectedLayer(t *testing.T, style string) *testlayer.Layer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layer.gpkg")
	require.NoError(t, os.WriteFile(path, []byte("geodata"), 0o644))
	lastSync := time.Now()
	require.NoError(t, os.Chtimes(path, lastSync.Add(-time.Second), lastSync.Add(-time.Second)))

	hash, err := stylehash.Hash(style)
	require.NoError(t, err)

	l := testlayer.NewLayer("layer-1", "roads")
	l.Style = style
	require.NoError(t, l.SetConnection(connection.LayerConnection{
		MapID:               "map-1",
		LocalPath:           path,
		LastSync:            lastSync,
		LastSyncedVersionID: "v1",
		LastSyncedStyleHash: hash,
	}))
	return l
}

func TestCheck_NotConnected(t *testing.T) {
	fx := newFixture(t)
	defer fx.finish()

	l := testlayer.NewLayer("layer-1", "roads")
	res := fx.Check(ctx, l)
	assert.Equal(t, connection.StatusNotConnected, res.Status)
	assert.Nil(t, res.Remote)
}

func TestCheck_FileMissing(t *testing.T) {
	fx := newFixture(t)
	defer fx.finish()

	l := testlayer.NewLayer("layer-1", "roads")
	require.NoError(t, l.SetConnection(connection.LayerConnection{
		MapID:     "map-1",
		LocalPath: filepath.Join(t.TempDir(), "gone.gpkg"),
	}))
	res := fx.Check(ctx, l)
	assert.Equal(t, connection.StatusFileMissing, res.Status)
}

func TestCheck_LocalModified(t *testing.T) {
	fx := newFixture(t)
	defer fx.finish()

	l := connectedLayer(t, styleA)
	conn := l.Connection()
	require.NoError(t, os.Chtimes(conn.LocalPath, conn.LastSync.Add(10*time.Second), conn.LastSync.Add(10*time.Second)))

	res := fx.Check(ctx, l)
	assert.Equal(t, connection.StatusLocalModified, res.Status)
}

func TestCheck_InSync(t *testing.T) {
	fx := newFixture(t)
	defer fx.finish()

	l := connectedLayer(t, styleA)
	fx.client.EXPECT().GetMap(ctx, "map-1").Return(remote.Map{
		ID:              "map-1",
		LatestVersionID: "v1",
		Visuals:         remote.Visuals{NativeStyle: styleA},
	}, nil)

	res := fx.Check(ctx, l)
	assert.Equal(t, connection.StatusInSync, res.Status)
	require.NotNil(t, res.Remote)
	assert.Equal(t, "v1", res.Remote.LatestVersionID)
	assert.NotEmpty(t, res.LocalStyleHash)
}

func TestCheck_RemoteNewer(t *testing.T) {
	fx := newFixture(t)
	defer fx.finish()

	l := connectedLayer(t, styleA)
	fx.client.EXPECT().GetMap(ctx, "map-1").Return(remote.Map{
		ID:              "map-1",
		LatestVersionID: "v2",
		Visuals:         remote.Visuals{NativeStyle: styleA},
	}, nil)

	res := fx.Check(ctx, l)
	assert.Equal(t, connection.StatusRemoteNewer, res.Status)
}

func TestCheck_RemoteFailures(t *testing.T) {
	t.Run("processing", func(t *testing.T) {
		fx := newFixture(t)
		defer fx.finish()

		l := connectedLayer(t, styleA)
		fx.client.EXPECT().GetMap(ctx, "map-1").
			Return(remote.Map{}, remote.NewError(remote.CodeProcessing, "map is being processed", nil))

		res := fx.Check(ctx, l)
		assert.Equal(t, connection.StatusProcessing, res.Status)
		assert.Error(t, res.Err)
	})

	t.Run("other failures map to remote_error", func(t *testing.T) {
		fx := newFixture(t)
		defer fx.finish()

		l := connectedLayer(t, styleA)
		fx.client.EXPECT().GetMap(ctx, "map-1").
			Return(remote.Map{}, remote.NewError(500, "boom", nil))

		res := fx.Check(ctx, l)
		assert.Equal(t, connection.StatusRemoteError, res.Status)
		assert.Error(t, res.Err)
	})
}

func TestCheck_StyleDrift(t *testing.T) {
	t.Run("local style moved", func(t *testing.T) {
		fx := newFixture(t)
		defer fx.finish()

		l := connectedLayer(t, styleA)
		l.Style = styleB // live style drifted after last sync
		fx.client.EXPECT().GetMap(ctx, "map-1").Return(remote.Map{
			ID:              "map-1",
			LatestVersionID: "v1",
			Visuals:         remote.Visuals{NativeStyle: styleA},
		}, nil)

		res := fx.Check(ctx, l)
		assert.Equal(t, connection.StatusStyleChangedLocal, res.Status)
	})

	t.Run("remote style moved", func(t *testing.T) {
		fx := newFixture(t)
		defer fx.finish()

		l := connectedLayer(t, styleA)
		fx.client.EXPECT().GetMap(ctx, "map-1").Return(remote.Map{
			ID:              "map-1",
			LatestVersionID: "v1",
			Visuals:         remote.Visuals{NativeStyle: styleB},
		}, nil)

		res := fx.Check(ctx, l)
		assert.Equal(t, connection.StatusStyleChangedRemote, res.Status)
	})

	t.Run("both styles moved", func(t *testing.T) {
		fx := newFixture(t)
		defer fx.finish()

		l := connectedLayer(t, styleA)
		l.Style = styleB
		thirdStyle := `<qgis><renderer-v2 type="singleSymbol"><prop k="color" v="green"/></renderer-v2></qgis>`
		fx.client.EXPECT().GetMap(ctx, "map-1").Return(remote.Map{
			ID:              "map-1",
			LatestVersionID: "v1",
			Visuals:         remote.Visuals{NativeStyle: thirdStyle},
		}, nil)

		res := fx.Check(ctx, l)
		assert.Equal(t, connection.StatusStyleChangedBoth, res.Status)
	})

	t.Run("no remote native style means in sync", func(t *testing.T) {
		fx := newFixture(t)
		defer fx.finish()

		l := connectedLayer(t, styleA)
		l.Style = styleB
		fx.client.EXPECT().GetMap(ctx, "map-1").Return(remote.Map{
			ID:              "map-1",
			LatestVersionID: "v1",
		}, nil)

		res := fx.Check(ctx, l)
		assert.Equal(t, connection.StatusInSync, res.Status)
	})
}
