package layer

import (
	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/layertree"
)

const CName = "layersync.host"

// Service exposes the host application's project and layer tree to the
// component container. Both are injected by the host at composition time.
type Service interface {
	app.Component
	Project() Project
	Tree() layertree.Tree
}

func NewService(project Project, tree layertree.Tree) Service {
	return &service{project: project, tree: tree}
}

type service struct {
	project Project
	tree    layertree.Tree
}

func (s *service) Init(a *app.App) (err error) {
	return nil
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Project() Project {
	return s.project
}

func (s *service) Tree() layertree.Tree {
	return s.tree
}
