package retina

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
)

// encodeJPEGBase64 はフレームをJPEGにエンコードしてBase64文字列として返す
func encodeJPEGBase64(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("JPEGエンコードに失敗: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeObservationJPEG はBase64エンコードされた観測画像をJPEGバイト列に戻す
// HTTP層が生のJPEGとして配信する場合に使用する
func DecodeObservationJPEG(imageBase64 string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("観測画像のデコードに失敗: %w", err)
	}
	return data, nil
}
