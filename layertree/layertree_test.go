package layertree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplink/map-sync/layertree"
	"github.com/maplink/map-sync/testutil/testlayer"
)

func layerIDs(n layertree.Node) (ids []string) {
	for _, c := range n.Children() {
		if c.IsGroup() {
			ids = append(ids, layerIDs(c)...)
		} else {
			ids = append(ids, c.LayerID())
		}
	}
	return
}

func TestCapture(t *testing.T) {
	tree := testlayer.NewTree(testlayer.NewGroup(
		testlayer.NewLeaf("a"),
		testlayer.NewGroup(
			testlayer.NewLeaf("b"),
			testlayer.NewGroup(
				testlayer.NewLeaf("c"),
			),
		),
	))

	pos, ok := layertree.Capture(tree, "a")
	require.True(t, ok)
	assert.Equal(t, []int{0}, pos)

	pos, ok = layertree.Capture(tree, "b")
	require.True(t, ok)
	assert.Equal(t, []int{1, 0}, pos)

	pos, ok = layertree.Capture(tree, "c")
	require.True(t, ok)
	assert.Equal(t, []int{1, 1, 0}, pos)

	_, ok = layertree.Capture(tree, "missing")
	assert.False(t, ok)
}

func TestPlace_Exact(t *testing.T) {
	tree := testlayer.NewTree(testlayer.NewGroup(
		testlayer.NewLeaf("a"),
		testlayer.NewGroup(
			testlayer.NewLeaf("b"),
		),
	))

	exact, err := layertree.Place(tree, "x", []int{1, 0})
	require.NoError(t, err)
	assert.True(t, exact)

	pos, ok := layertree.Capture(tree, "x")
	require.True(t, ok)
	assert.Equal(t, []int{1, 0}, pos)
}

func TestPlace_EmptyPositionAppendsAtRoot(t *testing.T) {
	tree := testlayer.NewTree(testlayer.NewGroup(testlayer.NewLeaf("a")))

	exact, err := layertree.Place(tree, "x", nil)
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, []string{"a", "x"}, layerIDs(tree.Root()))
}

func TestPlace_FallbackOnStalePath(t *testing.T) {
	t.Run("index out of range mid-path", func(t *testing.T) {
		tree := testlayer.NewTree(testlayer.NewGroup(testlayer.NewLeaf("a")))

		exact, err := layertree.Place(tree, "x", []int{5, 0})
		require.NoError(t, err)
		assert.False(t, exact)
		// appended at root, the deepest valid ancestor
		assert.Equal(t, []string{"a", "x"}, layerIDs(tree.Root()))
	})

	t.Run("path element no longer a group", func(t *testing.T) {
		tree := testlayer.NewTree(testlayer.NewGroup(
			testlayer.NewLeaf("a"),
			testlayer.NewLeaf("b"),
		))

		exact, err := layertree.Place(tree, "x", []int{1, 0})
		require.NoError(t, err)
		assert.False(t, exact)
		assert.Equal(t, []string{"a", "b", "x"}, layerIDs(tree.Root()))
	})

	t.Run("last index out of range appends at parent", func(t *testing.T) {
		tree := testlayer.NewTree(testlayer.NewGroup(
			testlayer.NewGroup(testlayer.NewLeaf("a")),
		))

		exact, err := layertree.Place(tree, "x", []int{0, 9})
		require.NoError(t, err)
		assert.False(t, exact)

		pos, ok := layertree.Capture(tree, "x")
		require.True(t, ok)
		assert.Equal(t, []int{0, 1}, pos)
	})
}

func TestPlace_MovesExistingLeaf(t *testing.T) {
	tree := testlayer.NewTree(testlayer.NewGroup(
		testlayer.NewLeaf("a"),
		testlayer.NewLeaf("x"),
	))

	exact, err := layertree.Place(tree, "x", []int{0})
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, []string{"x", "a"}, layerIDs(tree.Root()))
}
