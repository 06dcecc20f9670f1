package provider

import (
	"fmt"

	config "github.com/bluewingapp/bluewing/configs"
	"github.com/bluewingapp/bluewing/internal/models"
)

// Registry resolves a provider identifier to its client. New providers
// register themselves here; dispatch code never branches on provider names.
type Registry struct {
	clients map[models.Provider]Client
}

func NewRegistry(cfg config.Config) *Registry {
	r := &Registry{clients: make(map[models.Provider]Client)}
	r.Register(models.ProviderX, NewXClient(cfg))
	r.Register(models.ProviderBluesky, NewBlueskyClient())
	return r
}

func (r *Registry) Register(p models.Provider, c Client) {
	r.clients[p] = c
}

func (r *Registry) Get(p models.Provider) (Client, error) {
	c, ok := r.clients[p]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", p)
	}
	return c, nil
}
