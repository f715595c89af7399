package monitor

import (
	"context"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

// HealthChecker issues one health request against the backend.
type HealthChecker interface {
	Health(ctx context.Context) (string, error)
}

// Monitor maps health probes onto the tri-state connection status.
type Monitor struct {
	checker HealthChecker
	logger  *zap.Logger
}

func New(checker HealthChecker, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{checker: checker, logger: logger}
}

// Probe issues a single health request. A transport failure means
// unreachable, a recognized healthy payload means healthy, and any other
// well-formed response means degraded. Cadence is the caller's choice.
func (m *Monitor) Probe(ctx context.Context) domain.ConnectionState {
	status, err := m.checker.Health(ctx)
	if err != nil {
		m.logger.Warn("health probe failed", zap.Error(err))
		return domain.StateUnreachable
	}
	if status == "healthy" {
		return domain.StateHealthy
	}
	m.logger.Warn("backend reports non-healthy status", zap.String("status", status))
	return domain.StateDegraded
}
