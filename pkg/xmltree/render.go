package xmltree

import (
	"regexp"
	"strings"
)

// RenderOptions controls [Document.Render].
type RenderOptions struct {
	// LineSeparator replaces newlines in canonically rendered nodes.
	// Defaults to "\n".
	LineSeparator string

	// Canonical ignores the remembered source text and renders every node
	// from its parsed form.
	Canonical bool
}

// Render serializes a node and its descendants. Unmodified nodes are emitted
// exactly as they appeared in the parsed text.
func (d *Document) Render(id NodeID, opts RenderOptions) string {
	if opts.LineSeparator == "" {
		opts.LineSeparator = "\n"
	}
	var sb strings.Builder
	d.render(&sb, id, &opts)
	return sb.String()
}

func (d *Document) render(sb *strings.Builder, id NodeID, opts *RenderOptions) {
	n := &d.nodes[id]
	raw := n.verbatim && !opts.Canonical

	switch n.kind {
	case KindDocument:
		for _, c := range n.children {
			d.render(sb, c, opts)
		}

	case KindElement:
		if raw {
			sb.WriteString(n.rawStart)
			for _, c := range n.children {
				d.render(sb, c, opts)
			}
			sb.WriteString(n.rawEnd)
			return
		}
		sb.WriteByte('<')
		sb.WriteString(d.QName(id))
		for _, a := range n.attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.QName())
			sb.WriteString(`="`)
			sb.WriteString(lineEndings(escapeAttr(a.Value), opts.LineSeparator))
			sb.WriteByte('"')
		}
		if len(n.children) == 0 && n.rawEnd == "" {
			sb.WriteString(" />")
			return
		}
		sb.WriteByte('>')
		for _, c := range n.children {
			d.render(sb, c, opts)
		}
		sb.WriteString("</")
		sb.WriteString(d.QName(id))
		sb.WriteByte('>')

	case KindText:
		if raw {
			sb.WriteString(n.rawStart)
			return
		}
		sb.WriteString(escapeText(n.value, opts.LineSeparator))

	case KindCData:
		if raw {
			sb.WriteString(n.rawStart)
			return
		}
		sb.WriteString("<![CDATA[")
		sb.WriteString(lineEndings(n.value, opts.LineSeparator))
		sb.WriteString("]]>")

	case KindComment:
		if raw {
			sb.WriteString(n.rawStart)
			return
		}
		sb.WriteString("<!--")
		sb.WriteString(lineEndings(n.value, opts.LineSeparator))
		sb.WriteString("-->")

	case KindProcInst:
		if raw {
			sb.WriteString(n.rawStart)
			return
		}
		sb.WriteString("<?")
		sb.WriteString(n.name)
		if n.value != "" {
			sb.WriteByte(' ')
			sb.WriteString(lineEndings(n.value, opts.LineSeparator))
		}
		sb.WriteString("?>")

	case KindDirective:
		if raw {
			sb.WriteString(n.rawStart)
			return
		}
		sb.WriteString("<!")
		sb.WriteString(lineEndings(n.value, opts.LineSeparator))
		sb.WriteByte('>')
	}
}

var newlines = regexp.MustCompile(`\r\n|\r|\n`)

func lineEndings(s, ls string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return newlines.ReplaceAllLiteralString(s, ls)
}

func escapeText(s, ls string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '\r':
			sb.WriteString("&#xD;")
		case '\n':
			sb.WriteString(ls)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	`"`, "&quot;",
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
