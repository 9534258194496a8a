// Package testlayer provides in-memory layer.Adapter, layer.Project and
// layertree.Tree implementations for tests.
package testlayer

import (
	"fmt"
	"sync"

	"github.com/maplink/map-sync/connection"
	"github.com/maplink/map-sync/layer"
	"github.com/maplink/map-sync/layertree"
)

// Layer is a fake layer.Adapter with injectable failures.
type Layer struct {
	mu   sync.Mutex
	id   string
	name string
	conn connection.LayerConnection

	Style       string
	ExportErr   error
	ImportErr   error
	SetConnErr  error
	CommitErr   error
	CommitCalls int
}

func NewLayer(id, name string) *Layer {
	return &Layer{id: id, name: name}
}

func (l *Layer) ID() string   { return l.id }
func (l *Layer) Name() string { return l.name }

func (l *Layer) Connection() connection.LayerConnection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn
}

func (l *Layer) SetConnection(conn connection.LayerConnection) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SetConnErr != nil {
		return l.SetConnErr
	}
	l.conn = conn
	return nil
}

func (l *Layer) ExportStyle() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ExportErr != nil {
		return "", l.ExportErr
	}
	return l.Style, nil
}

func (l *Layer) ImportStyle(styleText string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ImportErr != nil {
		return l.ImportErr
	}
	l.Style = styleText
	return nil
}

func (l *Layer) CommitEdits() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.CommitCalls++
	return l.CommitErr
}

// Project is a fake layer.Project.
type Project struct {
	mu      sync.Mutex
	layers  []layer.Adapter
	nextID  int
	replace struct {
		err  error
		from string
	}
}

func NewProject(layers ...layer.Adapter) *Project {
	return &Project{layers: layers}
}

func (p *Project) Layers() []layer.Adapter {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]layer.Adapter, len(p.layers))
	copy(out, p.layers)
	return out
}

func (p *Project) Add(l layer.Adapter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.layers = append(p.layers, l)
}

func (p *Project) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.layers {
		if l.ID() == id {
			p.layers = append(p.layers[:i], p.layers[i+1:]...)
			return
		}
	}
}

// FailReplaceWith makes the next ReplaceLayer call fail.
func (p *Project) FailReplaceWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replace.err = err
}

// ReplacedFrom returns the file path passed to the last ReplaceLayer call.
func (p *Project) ReplacedFrom() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.replace.from
}

func (p *Project) ReplaceLayer(old layer.Adapter, filePath string) (layer.Adapter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.replace.err != nil {
		return nil, p.replace.err
	}
	p.replace.from = filePath
	p.nextID++
	fresh := NewLayer(fmt.Sprintf("%s-r%d", old.ID(), p.nextID), old.Name())
	for i, l := range p.layers {
		if l.ID() == old.ID() {
			p.layers[i] = fresh
			return fresh, nil
		}
	}
	p.layers = append(p.layers, fresh)
	return fresh, nil
}

// TreeNode is a fake layertree.Node.
type TreeNode struct {
	group    bool
	layerID  string
	children []*TreeNode
}

func NewGroup(children ...*TreeNode) *TreeNode {
	return &TreeNode{group: true, children: children}
}

func NewLeaf(layerID string) *TreeNode {
	return &TreeNode{layerID: layerID}
}

func (n *TreeNode) IsGroup() bool   { return n.group }
func (n *TreeNode) LayerID() string { return n.layerID }

func (n *TreeNode) Children() []layertree.Node {
	out := make([]layertree.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Tree is a fake layertree.Tree. Insert and append move the layer's leaf,
// removing any previous occurrence.
type Tree struct {
	root *TreeNode
}

func NewTree(root *TreeNode) *Tree {
	return &Tree{root: root}
}

func (t *Tree) Root() layertree.Node { return t.root }

func (t *Tree) InsertLayer(parent layertree.Node, index int, layerID string) error {
	p, ok := parent.(*TreeNode)
	if !ok || !p.group {
		return fmt.Errorf("parent is not a group node")
	}
	t.removeLeaf(t.root, layerID)
	if index > len(p.children) {
		index = len(p.children)
	}
	leaf := NewLeaf(layerID)
	p.children = append(p.children[:index], append([]*TreeNode{leaf}, p.children[index:]...)...)
	return nil
}

func (t *Tree) AppendLayer(parent layertree.Node, layerID string) error {
	p, ok := parent.(*TreeNode)
	if !ok || !p.group {
		return fmt.Errorf("parent is not a group node")
	}
	t.removeLeaf(t.root, layerID)
	p.children = append(p.children, NewLeaf(layerID))
	return nil
}

func (t *Tree) removeLeaf(node *TreeNode, layerID string) bool {
	for i, c := range node.children {
		if !c.group && c.layerID == layerID {
			node.children = append(node.children[:i], node.children[i+1:]...)
			return true
		}
		if c.group && t.removeLeaf(c, layerID) {
			return true
		}
	}
	return false
}
