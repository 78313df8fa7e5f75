package retina

import (
	"fmt"
	"image"
	"sync"
)

// MockOpener はテスト用のOpener実装
// インデックス毎の利用可否とフレーム内容を制御できる
type MockOpener struct {
	mu sync.Mutex

	// 利用可能なデバイスインデックス
	available map[int]bool

	// 生成するフレームの輝度（0-255）
	intensity uint8

	// フレームサイズ
	width  int
	height int

	// テスト制御用
	shouldFailRead bool

	// 記録用
	openAttempts []int
	devices      []*mockDevice
}

// NewMockOpener は新しいMockOpenerを作成する
func NewMockOpener(availableIndices ...int) *MockOpener {
	available := make(map[int]bool)
	for _, i := range availableIndices {
		available[i] = true
	}
	return &MockOpener{
		available: available,
		intensity: 128,
		width:     8,
		height:    8,
	}
}

// Open は指定インデックスのモックデバイスを開く
func (o *MockOpener) Open(index int) (Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.openAttempts = append(o.openAttempts, index)

	if !o.available[index] {
		return nil, fmt.Errorf("モック: デバイス %d は利用できません", index)
	}

	dev := &mockDevice{opener: o, index: index}
	o.devices = append(o.devices, dev)
	return dev, nil
}

// SetAvailable はデバイスの利用可否を設定する
func (o *MockOpener) SetAvailable(index int, available bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.available[index] = available
}

// SetShouldFailRead はテスト用に読み取り失敗を設定する
func (o *MockOpener) SetShouldFailRead(shouldFail bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shouldFailRead = shouldFail
}

// SetFrameIntensity は生成フレームの輝度を設定する（動き検出のテスト用）
func (o *MockOpener) SetFrameIntensity(intensity uint8) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.intensity = intensity
}

// OpenAttempts は試行されたインデックスの履歴を返す
func (o *MockOpener) OpenAttempts() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	attempts := make([]int, len(o.openAttempts))
	copy(attempts, o.openAttempts)
	return attempts
}

// OpenedCount はオープンに成功した回数を返す
func (o *MockOpener) OpenedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.devices)
}

// AllDevicesClosed はオープンした全デバイスが解放済みか返す
func (o *MockOpener) AllDevicesClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, d := range o.devices {
		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if !closed {
			return false
		}
	}
	return true
}

// mockDevice はテスト用のモックデバイス
// 一様な輝度のグレースケールフレームを生成する
type mockDevice struct {
	opener *MockOpener
	index  int

	mu     sync.Mutex
	closed bool
}

// Read は1フレームを読み取る
func (d *mockDevice) Read() (image.Image, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("モック: デバイス %d はクローズ済みです", d.index)
	}
	d.mu.Unlock()

	d.opener.mu.Lock()
	shouldFail := d.opener.shouldFailRead
	intensity := d.opener.intensity
	width := d.opener.width
	height := d.opener.height
	d.opener.mu.Unlock()

	if shouldFail {
		return nil, fmt.Errorf("モック: デバイス %d の読み取りに失敗", d.index)
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	for i := range gray.Pix {
		gray.Pix[i] = intensity
	}
	return gray, nil
}

// Close はデバイスを解放する
func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Index はデバイスインデックスを返す
func (d *mockDevice) Index() int {
	return d.index
}
