package document

import (
	"bytes"
	"io"
	"strings"
)

const printIndent = "  "

// Fprint writes a human-readable rendering of o to w.
//
//	key: scalar
//	section:
//	  nested: scalar
//	list:
//	  - element
func Fprint(w io.Writer, o *Object) error {
	p := &printer{}
	p.object(o, 0)
	_, err := w.Write(p.buf.Bytes())
	return err
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) object(o *Object, level int) {
	o.Range(func(key string, v Value) bool {
		p.buf.WriteString(strings.Repeat(printIndent, level))
		p.buf.WriteString(key)
		p.buf.WriteByte(':')
		p.child(v, level)
		return true
	})
}

func (p *printer) array(elems []Value, level int) {
	for _, v := range elems {
		p.buf.WriteString(strings.Repeat(printIndent, level))
		p.buf.WriteByte('-')
		p.child(v, level)
	}
}

// child finishes the line started by a key or a list marker at level.
func (p *printer) child(v Value, level int) {
	switch v.kind {
	case ObjectKind:
		p.buf.WriteByte('\n')
		p.object(v.obj, level+1)
	case ArrayKind:
		p.buf.WriteByte('\n')
		p.array(v.arr, level+1)
	default:
		p.buf.WriteByte(' ')
		p.buf.WriteString(formatScalar(v))
		p.buf.WriteByte('\n')
	}
}
