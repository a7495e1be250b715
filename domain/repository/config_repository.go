package repository

import (
	"github.com/ca-srg/tzconv/infrastructure/config"
)

// ConfigRepository は config.json の永続化を扱う
type ConfigRepository interface {
	// Exists は config.json が存在するかを返す
	Exists() (bool, error)

	// Load は config.json を読み込む。ファイルが無い場合は nil, nil
	Load() (*config.AppConfig, error)

	// Save は検証済みの設定をアトミックに書き込み、古いファイルをバックアップする
	Save(config *config.AppConfig) error

	GetConfigPath() string

	// EnsureConfigDir は設定ディレクトリを 0700 で作成する
	EnsureConfigDir() error

	// Validate はファイルに保存する前の設定を検証する
	Validate(config *config.AppConfig) error
}
