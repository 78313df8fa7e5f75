package retina

import (
	"image"
	"image/color"
	"math"
)

// grayscale はフレームをグレースケール画像に変換する
func grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// meanIntensity は平均輝度を算出する（0-255）
func meanIntensity(gray *image.Gray) float64 {
	if len(gray.Pix) == 0 {
		return 0
	}

	var sum uint64
	for _, p := range gray.Pix {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(gray.Pix))
}

// meanAbsDiff は2枚のグレースケール画像の平均絶対差分を算出する
// 前フレームが無い場合、および解像度が変わった場合は0を返す
func meanAbsDiff(prev, current *image.Gray) float64 {
	if prev == nil || current == nil {
		return 0
	}
	if len(prev.Pix) != len(current.Pix) || len(current.Pix) == 0 {
		return 0 // 解像度が変わったため比較できない
	}

	var sum uint64
	for i := range current.Pix {
		d := int(current.Pix[i]) - int(prev.Pix[i])
		if d < 0 {
			d = -d
		}
		sum += uint64(d)
	}
	return float64(sum) / float64(len(current.Pix))
}

// round2 は小数第2位に丸める
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
