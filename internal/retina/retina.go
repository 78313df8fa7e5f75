package retina

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AdaptiveRetina は適応型視覚センサーのデフォルト実装
// 単一のバックグラウンドワーカー（視覚野ループ）がデバイスの
// ライフサイクル・キャプチャ・信号算出・観測スロットへの公開を担う
type AdaptiveRetina struct {
	opener Opener
	config Config

	// 共有状態（muで保護）
	mu                sync.RWMutex
	running           bool
	baseInterval      time.Duration
	effectiveInterval time.Duration
	lastAccessTime    time.Time
	deviceIndex       int
	hibernating       bool
	obs               *Observation
	deviceErr         bool
	deviceErrMsg      string

	// 制御用
	stopCh chan struct{}
	wg     sync.WaitGroup

	// ワーカー専有状態（ループ以外から触れない）
	prevGray        *image.Gray
	lastCaptureTime time.Time

	// テストで差し替えるためのフック
	now              func() time.Time
	openRetryBackoff time.Duration
	errorBackoff     time.Duration
}

// インターフェースの実装を保証する
var _ Sensor = (*AdaptiveRetina)(nil)

// NewAdaptiveRetina は新しいAdaptiveRetinaを作成する
func NewAdaptiveRetina(opener Opener, config Config) *AdaptiveRetina {
	return &AdaptiveRetina{
		opener:            opener,
		config:            config,
		baseInterval:      config.BaseInterval,
		effectiveInterval: config.BaseInterval,
		deviceIndex:       config.DeviceIndex,
		lastAccessTime:    time.Now(),
		stopCh:            make(chan struct{}),
		now:               time.Now,
		openRetryBackoff:  5 * time.Second,
		errorBackoff:      1 * time.Second,
	}
}

// Start はキャプチャループを開始する
// 既に開始済みの場合は何もしない
func (r *AdaptiveRetina) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil // 既に開始済み
	}

	r.running = true
	r.wg.Add(1)
	go r.visualCortexLoop()

	log.Println("視覚センサーを起動しました")
	return nil
}

// Stop はキャプチャループを停止する
// ワーカーがデバイスを解放して終了するまでブロックする
func (r *AdaptiveRetina) Stop(_ context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil // 既に停止している
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	// ワーカーの終了を待機（デバイス解放の保証）
	r.wg.Wait()

	// 新しいチャンネルを作成（再開可能にするため）
	r.mu.Lock()
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	log.Println("視覚センサーを停止しました")
	return nil
}

// SetInterval は基本キャプチャ間隔を設定する
// 負値は0に切り上げる。休眠タイマーもリセットされる
func (r *AdaptiveRetina) SetInterval(interval time.Duration) {
	if interval < 0 {
		interval = 0
	}

	r.mu.Lock()
	r.baseInterval = interval
	r.lastAccessTime = r.now()
	r.mu.Unlock()

	log.Printf("基本キャプチャ間隔を %v に変更しました", interval)
}

// GetVision は最新の観測結果を取得する
// 読み取り自体が休眠タイマーのリセットになる
func (r *AdaptiveRetina) GetVision() Vision {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	// アクセス時刻を更新（休眠からの復帰）
	r.lastAccessTime = now

	if r.deviceErr {
		return Vision{
			Status:    StatusBlind,
			Error:     r.deviceErrMsg,
			Timestamp: now,
		}
	}

	if r.obs == nil {
		return Vision{
			Status:    StatusDarkness,
			Message:   "初期化中です",
			Timestamp: now,
		}
	}

	return Vision{
		Status:      StatusSight,
		ImageBase64: r.obs.ImageBase64,
		Meta: &VisionMeta{
			Brightness:      round2(r.obs.Brightness),
			Motion:          round2(r.obs.Motion),
			IntervalSeconds: r.effectiveInterval.Seconds(),
			DeviceIndex:     r.obs.DeviceIndex,
			CaptureID:       r.obs.ID,
		},
		Timestamp: r.obs.CapturedAt,
	}
}

// GetStatus は現在のセンサー状態を取得する
func (r *AdaptiveRetina) GetStatus() SensorStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return SensorStatus{
		Running:           r.running,
		DeviceIndex:       r.deviceIndex,
		BaseInterval:      r.baseInterval,
		EffectiveInterval: r.effectiveInterval,
		Hibernating:       r.hibernating,
		DeviceError:       r.deviceErr,
	}
}

// visualCortexLoop はキャプチャループの本体
// Stopが呼ばれるまで走り続け、エラーでは自ら終了しない
func (r *AdaptiveRetina) visualCortexLoop() {
	defer r.wg.Done()

	var dev Device
	defer func() {
		// 終了時にデバイスを必ず解放する
		if dev != nil {
			_ = dev.Close()
			log.Println("カメラデバイスを解放しました")
		}
	}()

	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		r.safeTick(&dev)
	}
}

// safeTick は1ティックを実行し、予期しないパニックから回復する
// ループの継続が最優先：障害はログに記録してバックオフする
func (r *AdaptiveRetina) safeTick(dev *Device) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("視覚野ループで予期しない障害が発生: %v", rec)
			r.sleep(r.errorBackoff)
		}
	}()

	r.tick(dev)
}

// tick はキャプチャループの1周期を実行する
func (r *AdaptiveRetina) tick(dev *Device) {
	// 代謝制御：アクセス状況に応じて実効間隔を再計算する
	interval := r.regulateInterval(r.now())

	// デバイスが未オープンなら取得を試みる
	if *dev == nil {
		opened := r.tryOpenDevice()
		if opened == nil {
			r.setDeviceError("全てのカメラデバイスを開けません")
			log.Printf("カメラデバイスの取得に失敗しました。%v 後に再試行します", r.openRetryBackoff)
			r.sleep(r.openRetryBackoff)
			return
		}
		*dev = opened
		r.clearDeviceError()
		log.Printf("網膜を接続しました（デバイス %d）", opened.Index())
	}

	// キャプチャ時刻に達していればフレームを取得する
	now := r.now()
	if now.Sub(r.lastCaptureTime) >= interval {
		published, err := r.capture(*dev, now)
		if err != nil {
			// 読み取り失敗：ハンドルを破棄して次のティックで再取得する
			log.Printf("フレームの読み取りに失敗: %v", err)
			r.setDeviceError(fmt.Sprintf("フレームの読み取りに失敗: %v", err))
			_ = (*dev).Close()
			*dev = nil
		} else if published {
			r.lastCaptureTime = now
		}
	}

	// アイドル待機：停止や間隔変更に~100msで反応できるよう上限を設ける
	if interval > 0 {
		r.sleep(minDuration(100*time.Millisecond, interval))
	} else {
		r.sleep(1 * time.Millisecond)
	}
}

// regulateInterval は実効キャプチャ間隔を再計算する
// しきい値を超えて誰もアクセスしていなければ休眠間隔に切り替える
func (r *AdaptiveRetina) regulateInterval(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	interval := r.baseInterval
	hibernating := false

	if r.config.HibernationEnabled && now.Sub(r.lastAccessTime) > r.config.HibernationThreshold {
		interval = r.config.HibernationInterval
		hibernating = true
	}

	r.effectiveInterval = interval
	r.hibernating = hibernating
	return interval
}

// tryOpenDevice はカメラデバイスの取得を試みる
// 現在のインデックスで開けない場合は0..Maxを走査してフェイルオーバーする
func (r *AdaptiveRetina) tryOpenDevice() Device {
	r.mu.RLock()
	index := r.deviceIndex
	r.mu.RUnlock()

	dev, err := r.opener.Open(index)
	if err == nil {
		return dev
	}

	log.Printf("デバイス %d を開けません。フェイルオーバー走査を開始します: %v", index, err)
	for i := 0; i <= r.config.MaxDeviceIndex; i++ {
		if i == index {
			continue // 既に試したインデックス
		}

		dev, err := r.opener.Open(i)
		if err != nil {
			continue
		}

		// 成功したインデックスを新しい既定値として保存する
		r.mu.Lock()
		r.deviceIndex = i
		r.mu.Unlock()

		log.Printf("フェイルオーバーに成功: デバイス %d に切り替えました", i)
		return dev
	}

	return nil
}

// capture は1フレームを取得・分析・エンコードして観測スロットに公開する
// 戻り値は（公開したか, 読み取りエラー）
func (r *AdaptiveRetina) capture(dev Device, now time.Time) (bool, error) {
	frame, err := dev.Read()
	if err != nil {
		return false, err
	}

	// 感覚信号はエンコードの前に算出する
	// エンコード失敗が信号状態を壊さないようにするため
	var brightness, motion float64
	if r.config.QualiaEnabled {
		gray := grayscale(frame)
		brightness = meanIntensity(gray)
		motion = meanAbsDiff(r.prevGray, gray)
		r.prevGray = gray
	}

	encoded, err := encodeJPEGBase64(frame, r.config.JPEGQuality)
	if err != nil {
		// エンコード失敗はデバイス障害ではない：ハンドルは維持して再試行する
		log.Printf("観測画像のエンコードに失敗: %v", err)
		r.sleep(r.errorBackoff)
		return false, nil
	}

	obs := &Observation{
		ID:          uuid.New().String(),
		ImageBase64: encoded,
		Brightness:  brightness,
		Motion:      motion,
		CapturedAt:  now,
		DeviceIndex: dev.Index(),
	}

	// 観測スロットへの公開は常に完全なレコードの差し替えで行う
	r.mu.Lock()
	r.obs = obs
	r.deviceErr = false
	r.deviceErrMsg = ""
	r.mu.Unlock()

	return true, nil
}

// setDeviceError はデバイスエラーフラグを設定する
// 観測スロットの画像は上書きしない（フラグのみの更新）
func (r *AdaptiveRetina) setDeviceError(msg string) {
	r.mu.Lock()
	r.deviceErr = true
	r.deviceErrMsg = msg
	r.mu.Unlock()
}

// clearDeviceError はデバイスエラーフラグを解除する
func (r *AdaptiveRetina) clearDeviceError() {
	r.mu.Lock()
	r.deviceErr = false
	r.deviceErrMsg = ""
	r.mu.Unlock()
}

// sleep は停止シグナルに反応できる待機を行う
func (r *AdaptiveRetina) sleep(d time.Duration) {
	select {
	case <-r.stopCh:
	case <-time.After(d):
	}
}

// minDuration は2つのDurationの小さい方を返す
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
