package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"opticnerve/internal/retina"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	// 設定を読み込む
	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg == nil {
		t.Fatal("設定がnilです")
	}

	// サーバー設定の検証
	if cfg.Server.Host == "" {
		t.Error("サーバーホストが設定されていません")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Errorf("無効なポート番号: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}

	// センサー設定のデフォルト値の検証
	if cfg.Retina.BaseInterval != 5*time.Second {
		t.Errorf("デフォルト基本間隔が不正です: %v", cfg.Retina.BaseInterval)
	}
	if cfg.Retina.HibernationThreshold != 300*time.Second {
		t.Errorf("デフォルト休眠しきい値が不正です: %v", cfg.Retina.HibernationThreshold)
	}
	if cfg.Retina.HibernationInterval != 60*time.Second {
		t.Errorf("デフォルト休眠間隔が不正です: %v", cfg.Retina.HibernationInterval)
	}
	if cfg.Retina.MaxDeviceIndex != 3 {
		t.Errorf("デフォルトフェイルオーバー上限が不正です: %d", cfg.Retina.MaxDeviceIndex)
	}
	if !cfg.Retina.QualiaEnabled {
		t.Error("感覚信号がデフォルトで有効になっていません")
	}
}

// TestConfigLoadWithEnv は環境変数による上書きをテストする
func TestConfigLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RETINA_DEVICE_INDEX", "1")
	t.Setenv("RETINA_BASE_INTERVAL", "2s")
	t.Setenv("RETINA_HIBERNATION_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("ポートが上書きされていません: %d", cfg.Server.Port)
	}
	if cfg.Retina.DeviceIndex != 1 {
		t.Errorf("デバイスインデックスが上書きされていません: %d", cfg.Retina.DeviceIndex)
	}
	if cfg.Retina.BaseInterval != 2*time.Second {
		t.Errorf("基本間隔が上書きされていません: %v", cfg.Retina.BaseInterval)
	}
	if cfg.Retina.HibernationEnabled {
		t.Error("休眠制御が無効化されていません")
	}
}

// TestConfigLoadWithFile はYAML設定ファイルの読み込みをテストする
func TestConfigLoadWithFile(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9000
retina:
  device_index: 2
  base_interval: 1s
  width: 640
  height: 480
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}

	t.Setenv("OPTICNERVE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("ホストが読み込まれていません: %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("ポートが読み込まれていません: %d", cfg.Server.Port)
	}
	if cfg.Retina.DeviceIndex != 2 {
		t.Errorf("デバイスインデックスが読み込まれていません: %d", cfg.Retina.DeviceIndex)
	}
	if cfg.Retina.Width != 640 || cfg.Retina.Height != 480 {
		t.Errorf("解像度が読み込まれていません: %dx%d", cfg.Retina.Width, cfg.Retina.Height)
	}

	// ファイルで指定していない値はデフォルトのまま
	if cfg.Retina.HibernationInterval != 60*time.Second {
		t.Errorf("デフォルト休眠間隔が保持されていません: %v", cfg.Retina.HibernationInterval)
	}

	// 環境変数はファイルより優先される
	t.Setenv("PORT", "9500")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	if cfg.Server.Port != 9500 {
		t.Errorf("環境変数がファイルを上書きしていません: %d", cfg.Server.Port)
	}
}

// TestConfigLoadWithMissingFile は存在しない設定ファイルの扱いをテストする
func TestConfigLoadWithMissingFile(t *testing.T) {
	t.Setenv("OPTICNERVE_CONFIG", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Error("存在しない設定ファイルでエラーになるべきです")
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	validRetina := retina.DefaultConfig()

	testCases := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name: "正常な設定",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Retina: validRetina,
			},
			expectErr: false,
		},
		{
			name: "無効なポート番号",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 0},
				Retina: validRetina,
			},
			expectErr: true,
		},
		{
			name: "ポート番号が範囲外",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 70000},
				Retina: validRetina,
			},
			expectErr: true,
		},
		{
			name: "無効なデバイスインデックス",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Retina: func() retina.Config {
					c := retina.DefaultConfig()
					c.DeviceIndex = -1
					return c
				}(),
			},
			expectErr: true,
		},
		{
			name: "無効な基本間隔",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Retina: func() retina.Config {
					c := retina.DefaultConfig()
					c.BaseInterval = -time.Second
					return c
				}(),
			},
			expectErr: true,
		},
		{
			name: "無効なJPEG品質",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				Retina: func() retina.Config {
					c := retina.DefaultConfig()
					c.JPEGQuality = 0
					return c
				}(),
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが発生するべきです")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("エラーは発生しないべきです: %v", err)
			}
		})
	}
}

// TestServerAddress はリッスンアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
	}

	if got := cfg.ServerAddress(); got != "127.0.0.1:8080" {
		t.Errorf("Expected 127.0.0.1:8080, got %s", got)
	}
}
