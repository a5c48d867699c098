package preview

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// The core PDF fonts are not embedded in documents, so thumbnails draw text
// with the Go fonts of the same width class and weight.
var fontData = map[string][]byte{
	"sans":            goregular.TTF,
	"sans-bold":       gobold.TTF,
	"sans-italic":     goitalic.TTF,
	"sans-bolditalic": gobolditalic.TTF,
	"mono":            gomono.TTF,
	"mono-bold":       gomonobold.TTF,
	"mono-italic":     gomonoitalic.TTF,
	"mono-bolditalic": gomonobolditalic.TTF,
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

// fontKey maps a PDF base font name ("Times-BoldItalic") to a fontData key.
func fontKey(baseFont string) string {
	family := "sans"
	if strings.HasPrefix(baseFont, "Courier") {
		family = "mono"
	}
	bold := strings.Contains(baseFont, "Bold")
	italic := strings.Contains(baseFont, "Italic") || strings.Contains(baseFont, "Oblique")
	switch {
	case bold && italic:
		return family + "-bolditalic"
	case bold:
		return family + "-bold"
	case italic:
		return family + "-italic"
	}
	return family
}

func loadFont(key string) (*opentype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[key]; ok {
		return f, nil
	}
	f, err := opentype.Parse(fontData[key])
	if err != nil {
		return nil, &PreviewError{Message: "failed to parse font " + key, Cause: err}
	}
	parsed[key] = f
	return f, nil
}

// faceCache holds the faces of one rasterization. Faces are not safe for
// concurrent use, so every call gets its own.
type faceCache map[faceID]font.Face

type faceID struct {
	key string
	// size in quarter pixels
	size int
}

func (c faceCache) face(baseFont string, px float64) (font.Face, error) {
	id := faceID{key: fontKey(baseFont), size: int(math.Round(px * 4))}
	if f, ok := c[id]; ok {
		return f, nil
	}
	parsedFont, err := loadFont(id.key)
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    float64(id.size) / 4,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, &PreviewError{Message: "failed to create font face", Cause: err}
	}
	c[id] = f
	return f, nil
}

func (c faceCache) close() {
	for _, f := range c {
		f.Close()
	}
}
