package remote

import "github.com/maplink/map-sync/app"

// Service exposes an injected Client to the component container.
// The client is always passed in explicitly by the host; there is no
// ambient client factory.
type Service interface {
	app.Component
	Client() Client
}

func NewService(client Client) Service {
	return &service{client: client}
}

type service struct {
	client Client
}

func (s *service) Init(a *app.App) (err error) {
	return nil
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Client() Client {
	return s.client
}
