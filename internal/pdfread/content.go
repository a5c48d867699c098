package pdfread

import (
	"sync"

	"github.com/tsawler/tabula/contentstream"
)

// Operation is one content stream operator with the operands that preceded it.
type Operation struct {
	Operator string
	Operands []Object
}

// contentMu serializes content stream parsing: contentstream keeps its
// operand stack in a package variable.
var contentMu sync.Mutex

// flush is an operator with no operands; parsing it empties the shared
// operand stack after an input that ended on dangling operands or an error.
var flush = []byte("n")

// ParseContent splits a content stream into operations.
func ParseContent(data []byte) (ops []Operation, err error) {
	contentMu.Lock()
	defer contentMu.Unlock()
	defer func() { _, _ = contentstream.NewParser(flush).Parse() }()
	defer recoverParse(&err)

	parsed, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, &ParseError{Offset: -1, Message: "bad content stream", Cause: err}
	}
	ops = make([]Operation, len(parsed))
	for i, op := range parsed {
		ops[i] = Operation{Operator: op.Operator, Operands: op.Operands}
	}
	return ops, nil
}

// Floats returns the operands as numbers, or false if any is not a number or
// the count differs from n.
func (op Operation) Floats(n int) ([]float64, bool) {
	if len(op.Operands) != n {
		return nil, false
	}
	return Numbers(Array(op.Operands))
}
