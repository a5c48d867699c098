// Package pdfread reads the PDFs the renderer writes so finished documents
// can be rasterized and inspected. Object syntax, cross-reference tables,
// stream filters and content streams come from tabula; this package adds
// the page tree walk, bounds checks on untrusted offsets and lengths, and
// WinAnsi text decoding.
package pdfread

import "github.com/tsawler/tabula/core"

// Object is a parsed PDF object.
type Object = core.Object

type (
	Name   = core.Name
	String = core.String
	Array  = core.Array
	Dict   = core.Dict
	Ref    = core.IndirectRef
	Stream = core.Stream
)

// Number returns o as a float64 when it is an integer or real.
func Number(o Object) (float64, bool) {
	switch v := o.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}

// Numbers converts every element of a to float64. It fails if any element is
// not a number.
func Numbers(a Array) ([]float64, bool) {
	out := make([]float64, len(a))
	for i, o := range a {
		f, ok := Number(o)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
