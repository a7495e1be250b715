package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/config"
)

// PrometheusMetricsRepository implements MetricsRepository using Prometheus Remote Write
type PrometheusMetricsRepository struct {
	config    *config.PrometheusConfig
	rwClient  *RemoteWriteClient
	hostLabel string
}

// NewPrometheusMetricsRepository creates a new Prometheus metrics repository
func NewPrometheusMetricsRepository(cfg *config.PrometheusConfig) (*PrometheusMetricsRepository, error) {
	if cfg == nil {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("prometheus config is nil"))
	}
	if cfg.RemoteWriteURL == "" {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("remote write url is empty"))
	}

	// Use hostname if HostLabel is not specified
	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostLabel = "unknown"
		} else {
			hostLabel = hostname
		}
	}

	var authConfig *AuthConfig
	if cfg.RemoteWriteUsername != "" && cfg.RemoteWritePassword != "" {
		authConfig = &AuthConfig{
			Username: cfg.RemoteWriteUsername,
			Password: cfg.RemoteWritePassword,
		}
	}

	rwClient, err := NewRemoteWriteClient(cfg.RemoteWriteURL, cfg.Timeout(), authConfig)
	if err != nil {
		return nil, repository.NewMetricsRepositoryError("initialize", err)
	}

	return &PrometheusMetricsRepository{
		config:    cfg,
		rwClient:  rwClient,
		hostLabel: hostLabel,
	}, nil
}

// SendGauge pushes one gauge sample labelled with host plus labels
func (r *PrometheusMetricsRepository) SendGauge(metricName string, value float64, hostLabel string, labels map[string]string) error {
	if hostLabel == "" {
		hostLabel = r.hostLabel
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout())
	defer cancel()

	all := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		all[k] = v
	}
	all["host"] = hostLabel

	if err := r.rwClient.SendGaugeMetric(ctx, metricName, value, all); err != nil {
		if ctx.Err() != nil {
			return repository.NewMetricsRepositoryError("send", fmt.Errorf("timeout: %w", err))
		}
		return repository.NewMetricsRepositoryError("send", err)
	}

	return nil
}

// HostLabel returns the host label applied when callers pass none
func (r *PrometheusMetricsRepository) HostLabel() string {
	return r.hostLabel
}

// Close cleans up resources
func (r *PrometheusMetricsRepository) Close() error {
	// Remote Write client doesn't require explicit cleanup
	return nil
}
