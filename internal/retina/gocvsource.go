package retina

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GoCVOpener はOpenCV（gocv）経由でカメラデバイスを開くOpener実装
type GoCVOpener struct {
	width  int
	height int
}

// NewGoCVOpener は新しいGoCVOpenerを作成する
func NewGoCVOpener(width, height int) *GoCVOpener {
	return &GoCVOpener{
		width:  width,
		height: height,
	}
}

// Open は指定インデックスのカメラデバイスを開く
func (o *GoCVOpener) Open(index int) (Device, error) {
	cap, err := gocv.VideoCaptureDevice(index)
	if err != nil {
		return nil, fmt.Errorf("デバイス %d のオープンに失敗: %w", index, err)
	}

	if !cap.IsOpened() {
		_ = cap.Close()
		return nil, fmt.Errorf("デバイス %d を開けません", index)
	}

	// 解像度を設定（デバイスが対応しない場合は無視される）
	cap.Set(gocv.VideoCaptureFrameWidth, float64(o.width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(o.height))

	mat := gocv.NewMat()
	return &gocvDevice{
		index: index,
		cap:   cap,
		mat:   mat,
	}, nil
}

// gocvDevice はオープン済みのOpenCVカメラデバイス
// Matは再利用してフレーム毎のアロケーションを避ける
type gocvDevice struct {
	index int
	cap   *gocv.VideoCapture
	mat   gocv.Mat
}

// Read は1フレームを読み取る
func (d *gocvDevice) Read() (image.Image, error) {
	if !d.cap.Read(&d.mat) {
		return nil, fmt.Errorf("デバイス %d からフレームを読み取れません", d.index)
	}

	if d.mat.Empty() {
		return nil, fmt.Errorf("デバイス %d から空のフレームを受信しました", d.index)
	}

	img, err := d.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("フレームの変換に失敗: %w", err)
	}
	return img, nil
}

// Close はデバイスを解放する
func (d *gocvDevice) Close() error {
	_ = d.mat.Close()
	if err := d.cap.Close(); err != nil {
		return fmt.Errorf("デバイス %d のクローズに失敗: %w", d.index, err)
	}
	return nil
}

// Index はデバイスインデックスを返す
func (d *gocvDevice) Index() int {
	return d.index
}
