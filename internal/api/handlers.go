package api

import (
	"context"

	"github.com/vytor/linguaflash/internal/metrics"
	"github.com/vytor/linguaflash/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sweeper runs one streak decay sweep over all stored users.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Server struct {
	Tracker           services.Tracker
	CatalogService    services.CatalogService
	OnboardingService services.OnboardingService
	Sweeper           Sweeper
	Metrics           *metrics.Metrics
	Checks            map[string]Pinger
	TrustUserHeader   bool
	AdminToken        string
}
