package generator

import (
	"context"
	"errors"
	"image"

	"github.com/jonathan/hireo/internal/preview"
)

// DefaultThumbnailWidth and DefaultThumbnailHeight keep the A4 aspect ratio.
const (
	DefaultThumbnailWidth  = 210
	DefaultThumbnailHeight = 297
)

// RenderThumbnail rasterizes the first page of a generated document.
func (g *Generator) RenderThumbnail(ctx context.Context, pdf []byte, width, height int) (*image.RGBA, error) {
	img, err := preview.Rasterize(ctx, pdf, width, height)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, cancelled(err)
		}
		return nil, &GenerationError{Kind: KindThumbnailFailed, Message: "failed to rasterize first page", Cause: err}
	}
	return img, nil
}

// ThumbnailPNG is RenderThumbnail followed by PNG encoding.
func (g *Generator) ThumbnailPNG(ctx context.Context, pdf []byte, width, height int) ([]byte, error) {
	img, err := g.RenderThumbnail(ctx, pdf, width, height)
	if err != nil {
		return nil, err
	}
	out, err := preview.EncodePNG(img)
	if err != nil {
		return nil, &GenerationError{Kind: KindThumbnailFailed, Message: "failed to encode thumbnail", Cause: err}
	}
	return out, nil
}
