package service

import (
	"math/rand/v2"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

// CatalogService serves the static resources and wellness prompts.
type CatalogService struct {
	pick func(n int) int
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService() *CatalogService {
	return &CatalogService{pick: rand.IntN}
}

func (c *CatalogService) Resources() ports.Resources {
	return ports.Resources{Providers: domain.Providers, Videos: domain.Videos}
}

func (c *CatalogService) Affirmation() string {
	return domain.Affirmations[c.pick(len(domain.Affirmations))]
}

func (c *CatalogService) Meditation() string {
	return domain.Meditations[c.pick(len(domain.Meditations))]
}
