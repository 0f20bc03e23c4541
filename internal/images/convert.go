package images

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/sweetmerry/booking-api/internal/httperr"
)

const (
	// MaxWidth bounds stored service images; larger uploads are scaled down.
	MaxWidth = 1280

	quality = 82
)

// ToWebP decodes an uploaded image (jpeg/png/gif), scales it down to MaxWidth
// when needed and re-encodes it as webp.
func ToWebP(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	img := resize(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func resize(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= MaxWidth {
		return src
	}

	ratio := float64(MaxWidth) / float64(bounds.Dx())
	h := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, MaxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
