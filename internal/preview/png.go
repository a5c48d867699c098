package preview

import (
	"bytes"
	"context"
	"image"
	"image/png"
)

// EncodePNG encodes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, &PreviewError{Message: "failed to encode png", Cause: err}
	}
	return buf.Bytes(), nil
}

// Thumbnail rasterizes the first page of a PDF and encodes it as PNG.
func Thumbnail(ctx context.Context, data []byte, width, height int) ([]byte, error) {
	img, err := Rasterize(ctx, data, width, height)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}
