package pdfread

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tsawler/tabula/core"
)

// Document is a parsed PDF file. Objects are loaded lazily.
type Document struct {
	data    []byte
	xref    *core.XRefTable
	cache   map[int]Object
	loading map[int]bool
	pages   []*Page
}

// Parse reads the cross-reference tables and page tree of data. Any
// structural problem, including offsets or lengths that point outside data,
// is reported as a *ParseError.
func Parse(data []byte) (doc *Document, err error) {
	defer recoverParse(&err)

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, &ParseError{Message: "missing %PDF header"}
	}
	d := &Document{data: data, cache: map[int]Object{}, loading: map[int]bool{}}
	if err := d.readXref(); err != nil {
		return nil, err
	}
	if err := d.readPages(); err != nil {
		return nil, err
	}
	return d, nil
}

// readXref parses the newest cross-reference table and every table before
// it along the trailer's /Prev chain.
func (d *Document) readXref() error {
	xp := core.NewXRefParser(bytes.NewReader(d.data))
	off, err := xp.FindXRef()
	if err != nil {
		return &ParseError{Message: "startxref not found", Cause: err}
	}

	var tables []*core.XRefTable
	seen := map[int64]bool{}
	for {
		if err := d.checkOffset(off, "cross-reference table"); err != nil {
			return err
		}
		if seen[off] {
			return &ParseError{Offset: int(off), Message: "cross-reference /Prev chain loops"}
		}
		seen[off] = true

		table, err := xp.ParseXRef(off)
		if err != nil {
			return &ParseError{Offset: int(off), Message: "bad cross-reference table", Cause: err}
		}
		tables = append([]*core.XRefTable{table}, tables...)

		prev, ok := table.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		off = int64(prev)
	}
	d.xref = core.MergeXRefTables(tables...)
	return nil
}

func (d *Document) checkOffset(off int64, what string) error {
	if off < 0 || off >= int64(len(d.data)) {
		return &ParseError{Offset: int(off), Message: fmt.Sprintf("%s offset outside document (%d bytes)", what, len(d.data))}
	}
	return nil
}

// Resolve follows references until it reaches a direct object.
func (d *Document) Resolve(o Object) (Object, error) {
	for depth := 0; depth < 32; depth++ {
		ref, ok := o.(Ref)
		if !ok {
			return o, nil
		}
		var err error
		if o, err = d.load(ref.Number); err != nil {
			return nil, err
		}
	}
	return nil, &ParseError{Message: "reference chain too deep"}
}

func (d *Document) resolveDict(o Object) (Dict, error) {
	v, err := d.Resolve(o)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(Dict)
	if !ok {
		return nil, &ParseError{Message: fmt.Sprintf("expected dictionary, got %T", v)}
	}
	return dict, nil
}

func (d *Document) load(num int) (Object, error) {
	if o, ok := d.cache[num]; ok {
		return o, nil
	}
	if d.loading[num] {
		return nil, &ParseError{Message: fmt.Sprintf("object %d refers to itself", num)}
	}
	entry, ok := d.xref.Get(num)
	if !ok || !entry.InUse {
		return nil, &ParseError{Message: fmt.Sprintf("object %d not in cross-reference table", num)}
	}
	if err := d.checkOffset(entry.Offset, fmt.Sprintf("object %d", num)); err != nil {
		return nil, err
	}
	rest := d.data[entry.Offset:]
	if err := checkStreamLength(rest); err != nil {
		err.Offset = int(entry.Offset)
		return nil, err
	}

	d.loading[num] = true
	defer delete(d.loading, num)

	p := core.NewParser(bytes.NewReader(rest))
	p.SetReferenceResolver(lengthResolver{doc: d, max: len(rest)})
	obj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, &ParseError{Offset: int(entry.Offset), Message: fmt.Sprintf("object %d", num), Cause: err}
	}
	if obj.Ref.Number != num {
		return nil, &ParseError{Offset: int(entry.Offset), Message: fmt.Sprintf("object %d header mismatch: found %d", num, obj.Ref.Number)}
	}
	d.cache[num] = obj.Object
	return obj.Object, nil
}

// lengthResolver resolves indirect /Length entries for the object parser and
// rejects lengths the remaining bytes cannot hold.
type lengthResolver struct {
	doc *Document
	max int
}

func (r lengthResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	o, err := r.doc.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if n, ok := o.(core.Int); ok && (n < 0 || int64(n) > int64(r.max)) {
		return nil, &ParseError{Message: fmt.Sprintf("stream length %d exceeds the document", n)}
	}
	return o, nil
}

var directLength = regexp.MustCompile(`/Length\s+(\d+)(\s+\d+\s+R)?`)

// checkStreamLength rejects a stream object whose direct /Length runs past
// the end of obj. The parser allocates the declared length up front.
func checkStreamLength(obj []byte) *ParseError {
	i := bytes.Index(obj, []byte("stream"))
	if i < 0 {
		return nil
	}
	head := obj[:i]
	if bytes.Contains(head, []byte("endobj")) {
		return nil
	}
	for _, m := range directLength.FindAllSubmatch(head, -1) {
		if len(m[2]) > 0 {
			continue // indirect, checked by lengthResolver
		}
		n, err := strconv.ParseInt(string(m[1]), 10, 64)
		if err != nil || n > int64(len(obj)) {
			return &ParseError{Message: fmt.Sprintf("stream length %s exceeds the document", m[1])}
		}
	}
	return nil
}

// Page is one page of a document with its inherited attributes resolved.
type Page struct {
	doc       *Document
	dict      Dict
	MediaBox  [4]float64
	Resources Dict
}

// Width returns the media box width in points.
func (p *Page) Width() float64 {
	return p.MediaBox[2] - p.MediaBox[0]
}

// Height returns the media box height in points.
func (p *Page) Height() float64 {
	return p.MediaBox[3] - p.MediaBox[1]
}

func (d *Document) readPages() error {
	root, err := d.resolveDict(d.xref.Trailer.Get("Root"))
	if err != nil {
		return err
	}
	return d.walkPages(root.Get("Pages"), nil, nil, 0)
}

func (d *Document) walkPages(node Object, box []float64, res Dict, depth int) error {
	if depth > 32 {
		return &ParseError{Message: "page tree too deep"}
	}
	dict, err := d.resolveDict(node)
	if err != nil {
		return err
	}
	if mb, err := d.Resolve(dict.Get("MediaBox")); err == nil {
		if a, ok := mb.(Array); ok {
			if nums, ok := Numbers(a); ok && len(nums) == 4 {
				box = nums
			}
		}
	}
	if r := dict.Get("Resources"); r != nil {
		if rd, err := d.resolveDict(r); err == nil {
			res = rd
		}
	}

	if t, _ := dict.GetName("Type"); t == "Page" {
		if box == nil {
			return &ParseError{Message: "page has no media box"}
		}
		p := &Page{doc: d, dict: dict, Resources: res}
		copy(p.MediaBox[:], box)
		d.pages = append(d.pages, p)
		return nil
	}

	kids, err := d.Resolve(dict.Get("Kids"))
	if err != nil {
		return err
	}
	arr, _ := kids.(Array)
	for _, k := range arr {
		if err := d.walkPages(k, box, res, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// NumPages returns the number of pages.
func (d *Document) NumPages() int {
	return len(d.pages)
}

// Page returns page i, counting from zero.
func (d *Document) Page(i int) (*Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, &ParseError{Message: fmt.Sprintf("page %d out of range (%d pages)", i, len(d.pages))}
	}
	return d.pages[i], nil
}

// Content returns the page's decoded content stream. An array of streams is
// concatenated.
func (p *Page) Content() (content []byte, err error) {
	defer recoverParse(&err)

	c, err := p.doc.Resolve(p.dict.Get("Contents"))
	if err != nil {
		return nil, err
	}
	var parts []Object
	switch v := c.(type) {
	case *Stream:
		parts = []Object{v}
	case Array:
		parts = v
	case nil, core.Null:
		return nil, nil
	default:
		return nil, &ParseError{Message: fmt.Sprintf("unexpected page contents %T", c)}
	}

	var buf bytes.Buffer
	for _, part := range parts {
		o, err := p.doc.Resolve(part)
		if err != nil {
			return nil, err
		}
		s, ok := o.(*Stream)
		if !ok {
			return nil, &ParseError{Message: "page contents entry is not a stream"}
		}
		data, err := s.Decode()
		if err != nil {
			return nil, &ParseError{Message: "bad content stream encoding", Cause: err}
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Operations parses the page's content stream.
func (p *Page) Operations() ([]Operation, error) {
	data, err := p.Content()
	if err != nil {
		return nil, err
	}
	return ParseContent(data)
}

// BaseFont returns the base font name of a font resource ("F1" ->
// "Helvetica-Bold"), or "" when unknown.
func (p *Page) BaseFont(resource Name) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	fonts, err := p.doc.resolveDict(p.Resources.Get("Font"))
	if err != nil {
		return ""
	}
	font, err := p.doc.resolveDict(fonts.Get(string(resource)))
	if err != nil {
		return ""
	}
	base, _ := font.GetName("BaseFont")
	return string(base)
}
