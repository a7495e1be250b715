package repository

import (
	"github.com/ca-srg/tzconv/domain/repository"
)

// NoOpMetricsRepository is a no-op implementation of MetricsRepository
// Used when Prometheus is not configured
type NoOpMetricsRepository struct{}

// NewNoOpMetricsRepository creates a new no-op metrics repository
func NewNoOpMetricsRepository() repository.MetricsRepository {
	return &NoOpMetricsRepository{}
}

// SendGauge does nothing
func (r *NoOpMetricsRepository) SendGauge(metricName string, value float64, hostLabel string, labels map[string]string) error {
	return nil
}

// Close does nothing
func (r *NoOpMetricsRepository) Close() error {
	return nil
}
