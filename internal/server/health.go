package server

import (
	"context"

	"github.com/saps13/sip/internal/supabase"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// BackendHealthService verifies backend reachability as part of health
// checks.
type BackendHealthService struct {
	Client supabase.Client
}

// Probe implements the HealthService interface.
func (s BackendHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
