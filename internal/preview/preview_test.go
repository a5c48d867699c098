package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePDF draws a red square in the top-left quarter and a line of text
// near the bottom of a 200×100pt page.
func samplePDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: fpdf.SizeType{Wd: 200, Ht: 100}})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFillColor(255, 0, 0)
	pdf.Rect(10, 10, 40, 30, "F")
	pdf.SetDrawColor(0, 0, 255)
	pdf.SetLineWidth(2)
	pdf.Line(100, 20, 190, 20)
	pdf.SetFillColor(0, 128, 0)
	pdf.Circle(150, 50, 10, "F")
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(10, 90, "Hello")
	pdf.AddPage()

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRasterize_Shapes(t *testing.T) {
	img, err := Rasterize(context.Background(), samplePDF(t), 400, 200)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 200), img.Bounds())

	// Scale is 2: the square covers x 20..100, y 20..80.
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgbaAt(img, 60, 50))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(img, 150, 150))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgbaAt(img, 300, 40))
	assert.Equal(t, color.RGBA{G: 128, A: 255}, rgbaAt(img, 300, 100))
}

func TestRasterize_Text(t *testing.T) {
	img, err := Rasterize(context.Background(), samplePDF(t), 400, 200)
	require.NoError(t, err)

	dark := 0
	for y := 140; y < 182; y++ {
		for x := 20; x < 140; x++ {
			if c := rgbaAt(img, x, y); c.R < 128 && c.G < 128 && c.B < 128 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 100)
}

func TestRasterize_Letterbox(t *testing.T) {
	// A 2:1 page in a square is centered vertically with white bands.
	img, err := Rasterize(context.Background(), samplePDF(t), 100, 100)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgbaAt(img, 15, 5))
	// Square covers x 5..25, y 30..45.
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgbaAt(img, 15, 35))
}

func TestRasterize_Deterministic(t *testing.T) {
	data := samplePDF(t)
	a, err := Rasterize(context.Background(), data, 120, 60)
	require.NoError(t, err)
	b, err := Rasterize(context.Background(), data, 120, 60)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRasterize_Errors(t *testing.T) {
	ctx := context.Background()
	var pe *PreviewError

	_, err := Rasterize(ctx, samplePDF(t), 0, 10)
	assert.ErrorAs(t, err, &pe)
	_, err = Rasterize(ctx, samplePDF(t), 10, MaxDimension+1)
	assert.ErrorAs(t, err, &pe)
	_, err = Rasterize(ctx, []byte("not a pdf"), 10, 10)
	assert.ErrorAs(t, err, &pe)
}

func TestRasterize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Rasterize(ctx, samplePDF(t), 10, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThumbnail_PNG(t *testing.T) {
	out, err := Thumbnail(context.Background(), samplePDF(t), 64, 32)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestFontKey(t *testing.T) {
	tests := map[string]string{
		"Helvetica":             "sans",
		"Helvetica-BoldOblique": "sans-bolditalic",
		"Times-Roman":           "sans",
		"Times-Italic":          "sans-italic",
		"Courier-Bold":          "mono-bold",
		"":                      "sans",
	}
	for in, want := range tests {
		assert.Equal(t, want, fontKey(in), in)
	}
}
