package retina

import (
	"context"
	"image"
	"time"
)

// Status は視覚センサーの観測状態を表す
type Status string

const (
	StatusSight    Status = "SIGHT"    // 最新の観測画像が利用可能
	StatusBlind    Status = "BLIND"    // カメラデバイスでエラーが発生
	StatusDarkness Status = "DARKNESS" // まだ一度もキャプチャしていない
)

// Observation はキャプチャループが公開する最新観測レコード
// 観測スロットには常に完全なレコードのみが書き込まれる
type Observation struct {
	ID          string    // キャプチャの一意識別子
	ImageBase64 string    // Base64エンコードされたJPEG画像
	Brightness  float64   // 平均輝度（0-255）
	Motion      float64   // 前フレームとの平均絶対差分
	CapturedAt  time.Time // キャプチャ時刻
	DeviceIndex int       // キャプチャに使用したデバイスインデックス
}

// Vision はGetVisionが返す観測結果
// フィールド名はツール層が期待するワイヤ形式に合わせている
type Vision struct {
	Status      Status      `json:"status"`
	Error       string      `json:"error,omitempty"`
	Message     string      `json:"message,omitempty"`
	ImageBase64 string      `json:"image_base64,omitempty"`
	Meta        *VisionMeta `json:"meta,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// VisionMeta は観測画像に付随するセンサーメタデータ
type VisionMeta struct {
	Brightness      float64 `json:"brightness"`
	Motion          float64 `json:"motion"`
	IntervalSeconds float64 `json:"interval"`
	DeviceIndex     int     `json:"camera_id"`
	CaptureID       string  `json:"capture_id"`
}

// Sensor は視覚センサーの公開操作を定義するインターフェース
type Sensor interface {
	// Start はキャプチャループを開始する（既に開始済みの場合は何もしない）
	Start(ctx context.Context) error

	// Stop はキャプチャループを停止し、ワーカーの終了を待つ
	Stop(ctx context.Context) error

	// SetInterval は基本キャプチャ間隔を設定する（負値は0に切り上げ）
	SetInterval(interval time.Duration)

	// GetVision は最新の観測結果を取得する
	GetVision() Vision

	// GetStatus は現在のセンサー状態を取得する
	GetStatus() SensorStatus
}

// SensorStatus はセンサーの動作状態のスナップショット
type SensorStatus struct {
	Running           bool
	DeviceIndex       int
	BaseInterval      time.Duration
	EffectiveInterval time.Duration
	Hibernating       bool
	DeviceError       bool
}

// Device はオープン済みのカメラデバイスを表すインターフェース
// キャプチャループだけが所有し、他のゴルーチンからは触れない
type Device interface {
	// Read は1フレームを読み取る
	Read() (image.Image, error)

	// Close はデバイスを解放する
	Close() error

	// Index はデバイスインデックスを返す
	Index() int
}

// Opener はインデックス指定でカメラデバイスを開くインターフェース
type Opener interface {
	// Open は指定インデックスのデバイスを開く
	Open(index int) (Device, error)
}
