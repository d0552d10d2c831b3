package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse builds a document from already-decoded text. An encoding named in
// the XML declaration is ignored; the caller is expected to have decoded
// the bytes.
func Parse(text string) (*Document, error) {
	d := New()
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	stack := []NodeID{d.DocumentNode()}
	seenRoot := false

	for {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		end := dec.InputOffset()
		raw := text[start:end]
		top := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			if top == d.DocumentNode() {
				if seenRoot {
					return nil, syntaxError(text, start, "multiple root elements")
				}
				seenRoot = true
			}
			id := d.add(node{
				kind:     KindElement,
				prefix:   t.Name.Space,
				name:     t.Name.Local,
				attrs:    convertAttrs(t.Attr),
				rawStart: raw,
				verbatim: true,
			})
			d.attach(top, id)
			stack = append(stack, id)

		case xml.EndElement:
			if top == d.DocumentNode() {
				return nil, syntaxError(text, start, "unexpected end element </%s>", qname(t.Name))
			}
			n := &d.nodes[top]
			if n.prefix != t.Name.Space || n.name != t.Name.Local {
				return nil, syntaxError(text, start, "element <%s> closed by </%s>", d.QName(top), qname(t.Name))
			}
			// A self-closing tag yields an end element without consuming input.
			n.rawEnd = raw
			stack = stack[:len(stack)-1]

		case xml.CharData:
			kind := KindText
			if strings.HasPrefix(raw, "<![CDATA[") {
				kind = KindCData
			} else if top == d.DocumentNode() && len(bytes.TrimSpace(t)) > 0 {
				return nil, syntaxError(text, start, "character data outside the root element")
			}
			d.attach(top, d.add(node{kind: kind, value: string(t), rawStart: raw, verbatim: true}))

		case xml.Comment:
			d.attach(top, d.add(node{kind: KindComment, value: string(t), rawStart: raw, verbatim: true}))

		case xml.ProcInst:
			d.attach(top, d.add(node{kind: KindProcInst, name: t.Target, value: string(t.Inst), rawStart: raw, verbatim: true}))

		case xml.Directive:
			d.attach(top, d.add(node{kind: KindDirective, value: string(t), rawStart: raw, verbatim: true}))
		}
	}

	if len(stack) > 1 {
		return nil, syntaxError(text, int64(len(text)), "unclosed element <%s>", d.QName(stack[len(stack)-1]))
	}
	if !seenRoot {
		return nil, syntaxError(text, int64(len(text)), "no root element")
	}
	d.nodes[0].verbatim = true
	return d, nil
}

func (d *Document) attach(parent, child NodeID) {
	d.nodes[child].parent = parent
	d.nodes[parent].children = append(d.nodes[parent].children, child)
}

func convertAttrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, len(in))
	for i, a := range in {
		out[i] = Attr{Prefix: a.Name.Space, Local: a.Name.Local, Value: a.Value}
	}
	return out
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func syntaxError(text string, offset int64, format string, args ...any) error {
	line := 1 + strings.Count(text[:offset], "\n")
	return &xml.SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line}
}
