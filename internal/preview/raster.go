package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/jonathan/hireo/internal/pdfread"
)

// MaxDimension bounds both sides of a thumbnail.
const MaxDimension = 4096

// curveSteps is the number of segments a cubic Bézier is flattened into.
const curveSteps = 12

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m followed by n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// scale is the uniform scale factor of m.
func (m matrix) scale() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

func translate(x, y float64) matrix {
	return matrix{1, 0, 0, 1, x, y}
}

type point struct{ x, y float64 }

type gstate struct {
	ctm       matrix
	fill      color.RGBA
	stroke    color.RGBA
	lineWidth float64
	font      pdfread.Name
	fontSize  float64
	leading   float64
}

type interpreter struct {
	dst    *image.RGBA
	page   *pdfread.Page
	device matrix
	faces  faceCache
	z      *vector.Rasterizer

	gs    gstate
	stack []gstate

	// path in device space, one slice per subpath
	path   [][]point
	closed []bool

	tm, tlm matrix
}

// Rasterize draws the first page of a PDF into a width×height image. The
// page is scaled uniformly to fit and centered on a white background.
func Rasterize(ctx context.Context, data []byte, width, height int) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, &PreviewError{Message: fmt.Sprintf("failed to draw document: %v", r)}
		}
	}()
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, &PreviewError{Message: fmt.Sprintf("invalid thumbnail size %dx%d", width, height)}
	}
	doc, err := pdfread.Parse(data)
	if err != nil {
		return nil, &PreviewError{Message: "failed to parse document", Cause: err}
	}
	if doc.NumPages() == 0 {
		return nil, &PreviewError{Message: "document has no pages"}
	}
	page, err := doc.Page(0)
	if err != nil {
		return nil, &PreviewError{Message: "failed to read first page", Cause: err}
	}
	pw, ph := page.Width(), page.Height()
	if pw <= 0 || ph <= 0 {
		return nil, &PreviewError{Message: "first page has an empty media box"}
	}
	ops, err := page.Operations()
	if err != nil {
		return nil, &PreviewError{Message: "failed to read page content", Cause: err}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	s := math.Min(float64(width)/pw, float64(height)/ph)
	ox := (float64(width) - s*pw) / 2
	oy := (float64(height) - s*ph) / 2
	in := &interpreter{
		dst:  dst,
		page: page,
		// PDF space has its origin at the bottom left.
		device: matrix{s, 0, 0, -s, ox - s*page.MediaBox[0], oy + s*page.MediaBox[3]},
		faces:  faceCache{},
		z:      vector.NewRasterizer(width, height),
		gs: gstate{
			ctm:       identity,
			fill:      color.RGBA{A: 0xff},
			stroke:    color.RGBA{A: 0xff},
			lineWidth: 1,
		},
	}
	defer in.faces.close()

	for i, op := range ops {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := in.exec(op); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func (in *interpreter) exec(op pdfread.Operation) error {
	switch op.Operator {
	case "q":
		in.stack = append(in.stack, in.gs)
	case "Q":
		if n := len(in.stack); n > 0 {
			in.gs = in.stack[n-1]
			in.stack = in.stack[:n-1]
		}
	case "cm":
		if v, ok := op.Floats(6); ok {
			in.gs.ctm = matrix{v[0], v[1], v[2], v[3], v[4], v[5]}.mul(in.gs.ctm)
		}
	case "w":
		if v, ok := op.Floats(1); ok {
			in.gs.lineWidth = v[0]
		}
	case "rg":
		if v, ok := op.Floats(3); ok {
			in.gs.fill = rgb(v[0], v[1], v[2])
		}
	case "RG":
		if v, ok := op.Floats(3); ok {
			in.gs.stroke = rgb(v[0], v[1], v[2])
		}
	case "g":
		if v, ok := op.Floats(1); ok {
			in.gs.fill = rgb(v[0], v[0], v[0])
		}
	case "G":
		if v, ok := op.Floats(1); ok {
			in.gs.stroke = rgb(v[0], v[0], v[0])
		}

	case "m":
		if v, ok := op.Floats(2); ok {
			in.moveTo(v[0], v[1])
		}
	case "l":
		if v, ok := op.Floats(2); ok {
			in.lineTo(v[0], v[1])
		}
	case "c":
		if v, ok := op.Floats(6); ok {
			in.curveTo(v)
		}
	case "h":
		if n := len(in.closed); n > 0 {
			in.closed[n-1] = true
		}
	case "re":
		if v, ok := op.Floats(4); ok {
			x, y, w, h := v[0], v[1], v[2], v[3]
			in.moveTo(x, y)
			in.lineTo(x+w, y)
			in.lineTo(x+w, y+h)
			in.lineTo(x, y+h)
			in.closed[len(in.closed)-1] = true
		}
	case "f", "F", "f*":
		in.fillPath()
		in.clearPath()
	case "S":
		in.strokePath()
		in.clearPath()
	case "s":
		if n := len(in.closed); n > 0 {
			in.closed[n-1] = true
		}
		in.strokePath()
		in.clearPath()
	case "B", "B*":
		in.fillPath()
		in.strokePath()
		in.clearPath()
	case "b", "b*":
		if n := len(in.closed); n > 0 {
			in.closed[n-1] = true
		}
		in.fillPath()
		in.strokePath()
		in.clearPath()
	case "n":
		in.clearPath()

	case "BT":
		in.tm, in.tlm = identity, identity
	case "Tf":
		if len(op.Operands) == 2 {
			name, _ := op.Operands[0].(pdfread.Name)
			size, _ := pdfread.Number(op.Operands[1])
			in.gs.font, in.gs.fontSize = name, size
		}
	case "TL":
		if v, ok := op.Floats(1); ok {
			in.gs.leading = v[0]
		}
	case "Td", "TD":
		if v, ok := op.Floats(2); ok {
			if op.Operator == "TD" {
				in.gs.leading = -v[1]
			}
			in.tlm = translate(v[0], v[1]).mul(in.tlm)
			in.tm = in.tlm
		}
	case "Tm":
		if v, ok := op.Floats(6); ok {
			in.tlm = matrix{v[0], v[1], v[2], v[3], v[4], v[5]}
			in.tm = in.tlm
		}
	case "T*":
		in.nextLine()
	case "Tj":
		return in.showOperand(op.Operands)
	case "'", "\"":
		in.nextLine()
		return in.showOperand(op.Operands)
	case "TJ":
		if len(op.Operands) == 1 {
			arr, _ := op.Operands[0].(pdfread.Array)
			for _, o := range arr {
				if s, ok := o.(pdfread.String); ok {
					if err := in.show(s); err != nil {
						return err
					}
				} else if adj, ok := pdfread.Number(o); ok {
					in.tm = translate(-adj/1000*in.gs.fontSize, 0).mul(in.tm)
				}
			}
		}
	}
	return nil
}

func rgb(r, g, b float64) color.RGBA {
	c := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{R: c(r), G: c(g), B: c(b), A: 0xff}
}

func (in *interpreter) toDevice(x, y float64) point {
	dx, dy := in.gs.ctm.mul(in.device).apply(x, y)
	return point{dx, dy}
}

func (in *interpreter) moveTo(x, y float64) {
	in.path = append(in.path, []point{in.toDevice(x, y)})
	in.closed = append(in.closed, false)
}

func (in *interpreter) lineTo(x, y float64) {
	if len(in.path) == 0 {
		in.moveTo(x, y)
		return
	}
	n := len(in.path) - 1
	in.path[n] = append(in.path[n], in.toDevice(x, y))
}

func (in *interpreter) curveTo(v []float64) {
	if len(in.path) == 0 {
		return
	}
	n := len(in.path) - 1
	p0 := in.path[n][len(in.path[n])-1]
	p1, p2, p3 := in.toDevice(v[0], v[1]), in.toDevice(v[2], v[3]), in.toDevice(v[4], v[5])
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		in.path[n] = append(in.path[n], point{
			u*u*u*p0.x + 3*u*u*t*p1.x + 3*u*t*t*p2.x + t*t*t*p3.x,
			u*u*u*p0.y + 3*u*u*t*p1.y + 3*u*t*t*p2.y + t*t*t*p3.y,
		})
	}
}

func (in *interpreter) clearPath() {
	in.path, in.closed = in.path[:0], in.closed[:0]
}

func (in *interpreter) paint(c color.RGBA) {
	in.z.Draw(in.dst, in.dst.Bounds(), image.NewUniform(c), image.Point{})
	in.z.Reset(in.dst.Bounds().Dx(), in.dst.Bounds().Dy())
}

func (in *interpreter) fillPath() {
	drawn := false
	for _, sub := range in.path {
		if len(sub) < 3 {
			continue
		}
		in.z.MoveTo(float32(sub[0].x), float32(sub[0].y))
		for _, p := range sub[1:] {
			in.z.LineTo(float32(p.x), float32(p.y))
		}
		in.z.ClosePath()
		drawn = true
	}
	if drawn {
		in.paint(in.gs.fill)
	}
}

// strokePath fills a quad around every segment. Quads wind the same way, so
// overlaps at joins do not cancel.
func (in *interpreter) strokePath() {
	half := math.Max(in.gs.lineWidth*in.gs.ctm.mul(in.device).scale(), 1) / 2
	drawn := false
	for i, sub := range in.path {
		pts := sub
		if in.closed[i] && len(sub) > 1 {
			pts = append(append([]point{}, sub...), sub[0])
		}
		for j := 1; j < len(pts); j++ {
			a, b := pts[j-1], pts[j]
			dx, dy := b.x-a.x, b.y-a.y
			l := math.Hypot(dx, dy)
			if l == 0 {
				continue
			}
			nx, ny := -dy/l*half, dx/l*half
			in.z.MoveTo(float32(a.x+nx), float32(a.y+ny))
			in.z.LineTo(float32(b.x+nx), float32(b.y+ny))
			in.z.LineTo(float32(b.x-nx), float32(b.y-ny))
			in.z.LineTo(float32(a.x-nx), float32(a.y-ny))
			in.z.ClosePath()
			drawn = true
		}
	}
	if drawn {
		in.paint(in.gs.stroke)
	}
}

func (in *interpreter) nextLine() {
	in.tlm = translate(0, -in.gs.leading).mul(in.tlm)
	in.tm = in.tlm
}

func (in *interpreter) showOperand(operands []pdfread.Object) error {
	if len(operands) == 0 {
		return nil
	}
	s, ok := operands[len(operands)-1].(pdfread.String)
	if !ok {
		return nil
	}
	return in.show(s)
}

// show draws a string at the text origin and advances the text matrix.
func (in *interpreter) show(s pdfread.String) error {
	if in.gs.fontSize <= 0 || len(s) == 0 {
		return nil
	}
	trm := in.tm.mul(in.gs.ctm).mul(in.device)
	px := in.gs.fontSize * trm.scale()
	if px < 0.25 {
		return nil
	}
	face, err := in.faces.face(in.page.BaseFont(in.gs.font), px)
	if err != nil {
		return err
	}
	x, y := trm.apply(0, 0)
	d := font.Drawer{
		Dst:  in.dst,
		Src:  image.NewUniform(in.gs.fill),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	text := pdfread.DecodeText(s)
	d.DrawString(text)

	advance := float64(font.MeasureString(face, text)) / 64 / trm.scale()
	in.tm = translate(advance, 0).mul(in.tm)
	return nil
}
