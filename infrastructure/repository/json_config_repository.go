package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/config"
)

// maxConfigBackups は保持するバックアップの数
const maxConfigBackups = 5

// JSONConfigRepository は JSON形式で設定を管理するリポジトリ実装
type JSONConfigRepository struct {
	configDir  string
	configFile string
	logger     domain.Logger
	now        func() time.Time
}

// NewJSONConfigRepository は ~/.config/tzconv/config.json を扱うリポジトリを作成する
func NewJSONConfigRepository(logger domain.Logger) repository.ConfigRepository {
	homeDir, _ := os.UserHomeDir()
	return NewJSONConfigRepositoryAt(filepath.Join(homeDir, ".config", "tzconv"), logger)
}

// NewJSONConfigRepositoryAt は任意のディレクトリを使うリポジトリを作成する
func NewJSONConfigRepositoryAt(dir string, logger domain.Logger) *JSONConfigRepository {
	if logger == nil {
		logger = noopLogger{}
	}
	return &JSONConfigRepository{
		configDir:  dir,
		configFile: filepath.Join(dir, "config.json"),
		logger:     logger,
		now:        time.Now,
	}
}

// SetConfigFile はテスト用に設定ファイルパスを設定する
func (r *JSONConfigRepository) SetConfigFile(file string) {
	r.configFile = file
}

// Exists は設定ファイルが存在するかどうかを確認する
func (r *JSONConfigRepository) Exists() (bool, error) {
	_, err := os.Stat(r.configFile)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, domain.ErrFileOperationWithCause("stat", r.configFile, err)
}

// Load は設定ファイルから設定を読み込む。ファイルが無い場合は nil を返す
func (r *JSONConfigRepository) Load() (*config.AppConfig, error) {
	exists, err := r.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	// ファイルのセキュリティチェック
	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return nil, fmt.Errorf("config file security check failed: %w", err)
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return nil, domain.ErrFileOperationWithCause("read", r.configFile, err)
	}

	var cfg config.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, domain.ErrFileOperationWithCause("unmarshal", r.configFile, err)
	}

	return &cfg, nil
}

// Save は設定を検証し、バックアップを取ってからアトミックに保存する
func (r *JSONConfigRepository) Save(cfg *config.AppConfig) error {
	if err := r.EnsureConfigDir(); err != nil {
		return err
	}

	if err := r.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	exists, err := r.Exists()
	if err != nil {
		return err
	}
	if exists {
		if err := r.Backup(); err != nil {
			// バックアップ失敗は警告のみ
			r.logger.Warn(context.Background(), "Failed to create config backup", domain.ErrorField(err))
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return domain.ErrFileOperationWithCause("marshal", r.configFile, err)
	}

	// 一時ファイルに書き込んでからアトミックに置き換え
	tmpFile := r.configFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return domain.ErrFileOperationWithCause("write", tmpFile, err)
	}

	if err := os.Rename(tmpFile, r.configFile); err != nil {
		_ = os.Remove(tmpFile)
		return domain.ErrFileOperationWithCause("rename", r.configFile, err)
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return fmt.Errorf("failed to secure config file: %w", err)
	}

	r.warnWeakPasswords(cfg)

	return nil
}

// GetConfigPath は設定ファイルのパスを返す
func (r *JSONConfigRepository) GetConfigPath() string {
	return r.configFile
}

// EnsureConfigDir は設定ディレクトリが存在することを保証する
func (r *JSONConfigRepository) EnsureConfigDir() error {
	if err := os.MkdirAll(r.configDir, 0700); err != nil {
		return domain.ErrFileOperationWithCause("mkdir", r.configDir, err)
	}
	return r.ensureSecurePermissions(r.configDir, true)
}

// Backup は現在の設定ファイルのバックアップを作成する
func (r *JSONConfigRepository) Backup() error {
	exists, err := r.Exists()
	if err != nil || !exists {
		return err
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return domain.ErrFileOperationWithCause("read", r.configFile, err)
	}

	// 同一秒内の連続保存でも上書きしないようにナノ秒まで含める
	backupFile := fmt.Sprintf("%s.backup.%s", r.configFile, r.now().Format("20060102-150405.000000000"))
	if err := os.WriteFile(backupFile, data, 0600); err != nil {
		return domain.ErrFileOperationWithCause("backup", backupFile, err)
	}

	if err := r.cleanupOldBackups(); err != nil {
		r.logger.Warn(context.Background(), "Failed to cleanup old config backups", domain.ErrorField(err))
	}

	return nil
}

// Validate は設定内容の妥当性を検証する
func (r *JSONConfigRepository) Validate(cfg *config.AppConfig) error {
	if cfg == nil {
		return domain.ErrInvalidInput("config", "config is nil")
	}
	return cfg.Validate()
}

// cleanupOldBackups は最新 maxConfigBackups 個を残して古いバックアップを削除する
func (r *JSONConfigRepository) cleanupOldBackups() error {
	matches, err := filepath.Glob(r.configFile + ".backup.*")
	if err != nil {
		return err
	}
	if len(matches) <= maxConfigBackups {
		return nil
	}

	// タイムスタンプ付きファイル名なので辞書順が古い順
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-maxConfigBackups] {
		if err := os.Remove(path); err != nil {
			r.logger.Warn(context.Background(), "Failed to remove old backup",
				domain.NewField("path", path), domain.ErrorField(err))
		}
	}
	return nil
}

// ensureSecurePermissions はファイルまたはディレクトリの権限を確保する
func (r *JSONConfigRepository) ensureSecurePermissions(path string, isDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.ErrFileOperationWithCause("stat", path, err)
	}

	expectedMode := os.FileMode(0600)
	if isDir {
		expectedMode = 0700
	}

	if info.Mode().Perm() != expectedMode {
		if err := os.Chmod(path, expectedMode); err != nil {
			return domain.ErrFileOperationWithCause("chmod", path, err)
		}
	}

	if err := checkOwnership(info); err != nil {
		return domain.ErrFileOperation("ownership", path, err.Error())
	}
	return nil
}

// warnWeakPasswords は短すぎるパスワードを警告する
func (r *JSONConfigRepository) warnWeakPasswords(cfg *config.AppConfig) {
	ctx := context.Background()
	if cfg.Prometheus != nil && cfg.Prometheus.RemoteWritePassword != "" && len(cfg.Prometheus.RemoteWritePassword) < 8 {
		r.logger.Warn(ctx, "Prometheus remote write password appears to be weak")
	}
	if cfg.Logging != nil && cfg.Logging.Promtail != nil && cfg.Logging.Promtail.Password != "" && len(cfg.Logging.Promtail.Password) < 8 {
		r.logger.Warn(ctx, "Promtail password appears to be weak")
	}
}

// noopLogger はロガー未指定時に使う
type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...domain.Field) {}
func (noopLogger) Info(context.Context, string, ...domain.Field)  {}
func (noopLogger) Warn(context.Context, string, ...domain.Field)  {}
func (noopLogger) Error(context.Context, string, ...domain.Field) {}
func (n noopLogger) WithFields(...domain.Field) domain.Logger     { return n }
