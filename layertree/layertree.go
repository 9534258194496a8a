// Package layertree captures and restores a layer's ordinal position within
// the host's hierarchical layer grouping, so pushed and pulled layers keep
// their visual stacking order.
package layertree

import (
	"go.uber.org/zap"

	"github.com/maplink/map-sync/app/logger"
)

var log = logger.NewNamed("layersync.layertree")

// Node is a single node of the host's layer tree: either a group with
// children or a leaf referring to a layer.
type Node interface {
	// IsGroup reports whether the node can hold children.
	IsGroup() bool
	// Children returns the ordered child nodes; empty for leaves.
	Children() []Node
	// LayerID returns the referenced layer id for leaves, "" for groups.
	LayerID() string
}

// Tree is the mutable layer tree of the host project.
type Tree interface {
	Root() Node
	// InsertLayer places the layer under parent at the given sibling index.
	InsertLayer(parent Node, index int, layerID string) error
	// AppendLayer places the layer as the last child of parent.
	AppendLayer(parent Node, layerID string) error
}

// Capture returns the layer's position as a root-to-leaf path of sibling
// indices. ok is false when the layer is not present in the tree.
func Capture(tree Tree, layerID string) (position []int, ok bool) {
	return findPath(tree.Root(), layerID)
}

func findPath(node Node, layerID string) ([]int, bool) {
	for i, child := range node.Children() {
		if child.LayerID() == layerID {
			return []int{i}, true
		}
		if child.IsGroup() {
			if sub, found := findPath(child, layerID); found {
				return append([]int{i}, sub...), true
			}
		}
	}
	return nil, false
}

// Place puts the layer at the given position path. A path that no longer
// resolves (index out of range, path element no longer a group) falls back
// to appending the layer at the deepest still-valid ancestor: best-effort
// placement, never a hard failure. exact reports whether the stored
// position was honored precisely.
func Place(tree Tree, layerID string, position []int) (exact bool, err error) {
	root := tree.Root()
	if len(position) == 0 {
		return true, tree.AppendLayer(root, layerID)
	}

	current := root
	for _, idx := range position[:len(position)-1] {
		children := current.Children()
		if idx >= len(children) || !children[idx].IsGroup() {
			log.Debug("stored position no longer resolves, appending at ancestor",
				zap.String("layerId", layerID), zap.Ints("position", position))
			return false, tree.AppendLayer(current, layerID)
		}
		current = children[idx]
	}

	last := position[len(position)-1]
	if last > len(current.Children()) {
		log.Debug("stored index out of range, appending at parent",
			zap.String("layerId", layerID), zap.Ints("position", position))
		return false, tree.AppendLayer(current, layerID)
	}
	return true, tree.InsertLayer(current, last, layerID)
}
