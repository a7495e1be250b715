package usecase

import (
	"github.com/ca-srg/tzconv/infrastructure/config"
)

// ConfigService は tzconv の設定 (サーバー、ボード、カタログ、ログ) を管理する
type ConfigService interface {
	// GetConfig は現在の設定を取得する
	GetConfig() *config.AppConfig

	// UpdateConfig は設定を検証して保存する
	UpdateConfig(newConfig *config.AppConfig) error

	// GetConfigWithSources は設定と各値の読み込み元を返す
	GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap)

	// ReloadConfig はファイルと環境変数から設定を読み直す
	ReloadConfig() error

	// GetConfigPath は config.json のパスを返す
	GetConfigPath() string

	// CreateDefaultConfig は最小構成の config.json を作成する。既に存在する場合はエラー
	CreateDefaultConfig() error

	// ExportConfig は -config 表示用に整形した設定を返す (パスワードはマスク)
	ExportConfig() map[string]interface{}

	// EnsureConfigExists は config.json が無ければテンプレートを作成する (トレイの Settings... 用)
	EnsureConfigExists() error
}
