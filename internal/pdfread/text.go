package pdfread

import (
	"golang.org/x/text/encoding/charmap"
)

// DecodeText converts a string drawn with a WinAnsi-encoded core font to UTF-8.
func DecodeText(s String) string {
	out, err := charmap.Windows1252.NewDecoder().String(string(s))
	if err != nil {
		return string(s)
	}
	return out
}

// Text returns the strings shown on the page, in drawing order.
func (p *Page) Text() ([]string, error) {
	ops, err := p.Operations()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, op := range ops {
		switch op.Operator {
		case "Tj", "'", "\"":
			if len(op.Operands) == 0 {
				continue
			}
			if s, ok := op.Operands[len(op.Operands)-1].(String); ok {
				out = append(out, DecodeText(s))
			}
		case "TJ":
			if len(op.Operands) == 0 {
				continue
			}
			arr, _ := op.Operands[0].(Array)
			var joined String
			for _, o := range arr {
				if s, ok := o.(String); ok {
					joined += s
				}
			}
			out = append(out, DecodeText(joined))
		}
	}
	return out, nil
}

// Text returns the strings shown on every page.
func (d *Document) Text() ([]string, error) {
	var out []string
	for _, p := range d.pages {
		t, err := p.Text()
		if err != nil {
			return nil, err
		}
		out = append(out, t...)
	}
	return out, nil
}
