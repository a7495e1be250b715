package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/config"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

const maskedValue = "****"

// ConfigServiceImpl は ConfigService の実装
type ConfigServiceImpl struct {
	configRepo repository.ConfigRepository
	config     *config.AppConfig
	logger     domain.Logger
	mu         sync.RWMutex
}

// NewConfigService は新しい ConfigService を作成する
func NewConfigService(configRepo repository.ConfigRepository, logger domain.Logger) (*ConfigServiceImpl, error) {
	cfg, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo: configRepo,
		config:     cfg,
		logger:     logger,
	}, nil
}

var _ usecase.ConfigService = (*ConfigServiceImpl)(nil)

// loadConfigWithFallback はデフォルト → JSON → 環境変数の順に設定を重ねる。
// 検証に失敗した場合はデフォルト設定に戻す。
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.MarkDefaults()
	logger.Debug(ctx, "Loading configuration", domain.NewField("config_path", configRepo.GetConfigPath()))

	jsonConfig, err := configRepo.Load()
	if err != nil {
		// JSON読み込みエラーは無視してデフォルト設定で継続
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.ErrorField(err),
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else if jsonConfig != nil {
		cfg.MergeJSONConfig(jsonConfig)
		logger.Info(ctx, "Loaded JSON configuration",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else {
		logger.Debug(ctx, "No JSON configuration file found, using defaults",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	// 環境変数は JSON の値を上書きする
	if err := cfg.LoadFromEnv(); err != nil {
		logger.Warn(ctx, "Failed to load environment variables, using fallback values",
			domain.ErrorField(err))
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.ErrorField(err))
		cfg = config.DefaultConfig()
		cfg.MarkDefaults()
	}

	return cfg, nil
}

// GetConfig は現在の設定を取得する
func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig は設定を検証して保存し、メモリ内の設定を置き換える
func (s *ConfigServiceImpl) UpdateConfig(newConfig *config.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := s.configRepo.Save(newConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	s.config = newConfig
	return nil
}

// GetConfigWithSources は設定とそのソース情報を取得する
func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.config.ConfigSources
}

// ReloadConfig は設定を再読み込みする
func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	newConfig, err := loadConfigWithFallback(s.configRepo, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration", domain.ErrorField(err))
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.config = newConfig
	s.logger.Info(ctx, "Configuration reloaded")
	return nil
}

// GetConfigPath は設定ファイルのパスを返す
func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// CreateDefaultConfig はデフォルト設定ファイルを作成する。既に存在する場合はエラー。
func (s *ConfigServiceImpl) CreateDefaultConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return fmt.Errorf("config file already exists at %s", s.configRepo.GetConfigPath())
	}

	defaultConfig := config.MinimalDefaultConfig()
	if err := s.configRepo.Save(defaultConfig); err != nil {
		return fmt.Errorf("failed to save default config: %w", err)
	}

	s.config = defaultConfig
	return nil
}

// ExportConfig は現在の設定をエクスポート用に整形する（パスワードなどをマスク）
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.config
	exportMap := map[string]interface{}{
		"version": cfg.Version,
	}

	if cfg.Server != nil {
		exportMap["server"] = map[string]interface{}{
			"host":                     cfg.Server.Host,
			"port":                     cfg.Server.Port,
			"public_url":               cfg.Server.PublicURL,
			"allowed_origins":          cfg.Server.AllowedOrigins,
			"read_timeout_seconds":     cfg.Server.ReadTimeoutSec,
			"write_timeout_seconds":    cfg.Server.WriteTimeoutSec,
			"shutdown_timeout_seconds": cfg.Server.ShutdownTimeoutSec,
		}
	}

	if cfg.Board != nil {
		exportMap["board"] = map[string]interface{}{
			"default_zones":         cfg.Board.DefaultZones,
			"minute_step":           cfg.Board.MinuteStep,
			"tick_interval_seconds": cfg.Board.TickIntervalSec,
			"theme":                 cfg.Board.Theme,
		}
	}

	if cfg.Catalog != nil {
		exportMap["catalog"] = map[string]interface{}{
			"source":  cfg.Catalog.Source,
			"path":    cfg.Catalog.Path,
			"sort_by": cfg.Catalog.SortBy,
			"locale":  cfg.Catalog.Locale,
		}
	}

	if cfg.Prometheus != nil {
		prometheusMap := map[string]interface{}{
			"remote_write_url":      cfg.Prometheus.RemoteWriteURL,
			"remote_write_username": cfg.Prometheus.RemoteWriteUsername,
			"host_label":            cfg.Prometheus.HostLabel,
			"interval_seconds":      cfg.Prometheus.IntervalSec,
			"timeout_seconds":       cfg.Prometheus.TimeoutSec,
		}
		if cfg.Prometheus.RemoteWritePassword != "" {
			prometheusMap["remote_write_password"] = maskedValue
		}
		exportMap["prometheus"] = prometheusMap
	}

	if cfg.Tray != nil {
		exportMap["tray"] = map[string]interface{}{
			"enabled":        cfg.Tray.Enabled,
			"hide_from_dock": cfg.Tray.HideFromDock,
		}
	}

	if cfg.Logging != nil {
		loggingMap := map[string]interface{}{
			"level": cfg.Logging.Level,
			"debug": cfg.Logging.Debug,
		}
		if cfg.Logging.Promtail != nil {
			promtailMap := map[string]interface{}{
				"url":                cfg.Logging.Promtail.URL,
				"username":           cfg.Logging.Promtail.Username,
				"batch_wait_seconds": cfg.Logging.Promtail.BatchWaitSeconds,
			}
			if cfg.Logging.Promtail.Password != "" {
				promtailMap["password"] = maskedValue
			}
			loggingMap["promtail"] = promtailMap
		}
		exportMap["logging"] = loggingMap
	}

	sourcesMap := make(map[string]string, len(cfg.ConfigSources))
	for key, source := range cfg.ConfigSources {
		sourcesMap[key] = string(source)
	}
	exportMap["_sources"] = sourcesMap

	return exportMap
}

// EnsureConfigExists は設定ファイルが存在しない場合にテンプレートを作成する
func (s *ConfigServiceImpl) EnsureConfigExists() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	exists, err := s.configRepo.Exists()
	if err != nil {
		s.logger.Error(ctx, "Failed to check config existence",
			domain.ErrorField(err),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return nil
	}

	s.logger.Info(ctx, "Configuration file not found, creating template",
		domain.NewField("config_path", configPath))

	defaultConfig := config.MinimalDefaultConfig()
	if err := s.configRepo.Save(defaultConfig); err != nil {
		return fmt.Errorf("failed to create template config: %w", err)
	}

	s.config = defaultConfig
	return nil
}
