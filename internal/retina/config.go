package retina

import (
	"fmt"
	"time"
)

// Config は視覚センサーの設定
type Config struct {
	DeviceIndex    int `yaml:"device_index" json:"device_index"`         // 初期デバイスインデックス
	MaxDeviceIndex int `yaml:"max_device_index" json:"max_device_index"` // フェイルオーバー走査の上限（0..Max）

	BaseInterval time.Duration `yaml:"base_interval" json:"base_interval"` // 基本キャプチャ間隔

	// 休眠制御：一定時間アクセスが無い場合にキャプチャ頻度を落とす
	HibernationEnabled   bool          `yaml:"hibernation_enabled" json:"hibernation_enabled"`
	HibernationThreshold time.Duration `yaml:"hibernation_threshold" json:"hibernation_threshold"` // 休眠に入るまでの無アクセス時間
	HibernationInterval  time.Duration `yaml:"hibernation_interval" json:"hibernation_interval"`   // 休眠中のキャプチャ間隔

	// 感覚信号（輝度・動き）の算出
	QualiaEnabled bool `yaml:"qualia_enabled" json:"qualia_enabled"`

	// キャプチャ解像度とエンコード品質
	Width       int `yaml:"width" json:"width"`
	Height      int `yaml:"height" json:"height"`
	JPEGQuality int `yaml:"jpeg_quality" json:"jpeg_quality"`
}

// DefaultConfig はデフォルトのセンサー設定を返す
func DefaultConfig() Config {
	return Config{
		DeviceIndex:          0,
		MaxDeviceIndex:       3,
		BaseInterval:         5 * time.Second,
		HibernationEnabled:   true,
		HibernationThreshold: 300 * time.Second, // 5分間アクセスが無ければ休眠
		HibernationInterval:  60 * time.Second,  // 休眠中は1分に1フレーム
		QualiaEnabled:        true,
		Width:                1280,
		Height:               720,
		JPEGQuality:          90,
	}
}

// Validate は設定の妥当性を検証する
func (c Config) Validate() error {
	if c.DeviceIndex < 0 {
		return fmt.Errorf("無効なデバイスインデックス: %d", c.DeviceIndex)
	}
	if c.MaxDeviceIndex < c.DeviceIndex {
		return fmt.Errorf("フェイルオーバー上限がデバイスインデックスより小さい: %d < %d", c.MaxDeviceIndex, c.DeviceIndex)
	}
	if c.BaseInterval < 0 {
		return fmt.Errorf("無効な基本間隔: %v", c.BaseInterval)
	}
	if c.HibernationEnabled {
		if c.HibernationThreshold <= 0 {
			return fmt.Errorf("無効な休眠しきい値: %v", c.HibernationThreshold)
		}
		if c.HibernationInterval <= 0 {
			return fmt.Errorf("無効な休眠間隔: %v", c.HibernationInterval)
		}
	}
	if c.Width <= 0 || c.Width > 4096 {
		return fmt.Errorf("無効な幅: %d", c.Width)
	}
	if c.Height <= 0 || c.Height > 4096 {
		return fmt.Errorf("無効な高さ: %d", c.Height)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("無効なJPEG品質: %d", c.JPEGQuality)
	}
	return nil
}
