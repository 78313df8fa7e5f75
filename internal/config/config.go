package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"opticnerve/internal/retina"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig  `yaml:"server"`
	Retina retina.Config `yaml:"retina"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// Load は設定を読み込む
// 優先順位: デフォルト値 < 設定ファイル（OPTICNERVE_CONFIG） < 環境変数
func Load() (*Config, error) {
	// デフォルト設定を作成
	cfg := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Retina: retina.DefaultConfig(),
	}

	// 設定ファイルが指定されていれば読み込む
	if path := os.Getenv("OPTICNERVE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// 環境変数で上書き
	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)
	cfg.Retina.DeviceIndex = getEnvAsIntOrDefault("RETINA_DEVICE_INDEX", cfg.Retina.DeviceIndex)
	cfg.Retina.MaxDeviceIndex = getEnvAsIntOrDefault("RETINA_MAX_DEVICE_INDEX", cfg.Retina.MaxDeviceIndex)
	cfg.Retina.BaseInterval = getEnvAsDurationOrDefault("RETINA_BASE_INTERVAL", cfg.Retina.BaseInterval)
	cfg.Retina.HibernationEnabled = getEnvAsBoolOrDefault("RETINA_HIBERNATION_ENABLED", cfg.Retina.HibernationEnabled)
	cfg.Retina.HibernationThreshold = getEnvAsDurationOrDefault("RETINA_HIBERNATION_THRESHOLD", cfg.Retina.HibernationThreshold)
	cfg.Retina.HibernationInterval = getEnvAsDurationOrDefault("RETINA_HIBERNATION_INTERVAL", cfg.Retina.HibernationInterval)
	cfg.Retina.QualiaEnabled = getEnvAsBoolOrDefault("RETINA_QUALIA_ENABLED", cfg.Retina.QualiaEnabled)
	cfg.Retina.Width = getEnvAsIntOrDefault("RETINA_WIDTH", cfg.Retina.Width)
	cfg.Retina.Height = getEnvAsIntOrDefault("RETINA_HEIGHT", cfg.Retina.Height)
	cfg.Retina.JPEGQuality = getEnvAsIntOrDefault("RETINA_JPEG_QUALITY", cfg.Retina.JPEGQuality)

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// loadFile はYAML設定ファイルを読み込む
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗: %w", err)
	}

	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	// センサー設定の検証
	if err := c.Retina.Validate(); err != nil {
		return err
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は環境変数をDurationとして取得し、設定されていない場合はデフォルト値を返す
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は環境変数を真偽値として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
