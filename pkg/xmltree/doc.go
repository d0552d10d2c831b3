// Package xmltree is an arena-backed XML tree that remembers the exact source
// bytes of every node it parsed.
//
// A [Document] owns all nodes in a single slice; nodes are addressed by
// [NodeID] and never shared between documents. Rendering an unmodified node
// reproduces its source text byte for byte, so a caller can edit one text run
// deep inside a large file and re-emit the rest verbatim. Modified nodes are
// rendered in a canonical form instead.
//
// # Usage
//
//	doc, err := xmltree.Parse(text)
//	if err != nil {
//	    return err
//	}
//	root := doc.Root()
//	for _, dep := range doc.Path(root, "dependencies", "dependency") {
//	    v := doc.Child(dep, "version")
//	    ...
//	}
//	out := doc.Render(root, xmltree.RenderOptions{LineSeparator: "\n"})
//
// Elements can also be selected with XPath through [Document.Select], which
// runs github.com/antchfx/xpath over the arena.
package xmltree

import "strings"

// NodeID addresses a node inside a [Document].
type NodeID int

// None is the NodeID of a node that does not exist.
const None NodeID = -1

// Kind is the type of a node.
type Kind uint8

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindCData
	KindComment
	KindProcInst
	KindDirective
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindCData:
		return "cdata"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "procinst"
	case KindDirective:
		return "directive"
	}
	return "unknown"
}

// Attr is an attribute as written in the source, in source order.
// Namespace declarations are attributes with Prefix "xmlns" (prefixed) or
// Local "xmlns" (default).
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// QName returns the qualified attribute name.
func (a Attr) QName() string {
	if a.Prefix == "" {
		return a.Local
	}
	return a.Prefix + ":" + a.Local
}

type node struct {
	kind     Kind
	prefix   string
	name     string // element local name or PI target
	attrs    []Attr
	value    string // decoded character data, comment body, PI instruction, directive
	parent   NodeID
	children []NodeID

	// Source text of the start tag (or whole token for leaves) and end tag.
	// Only meaningful while verbatim is set.
	rawStart string
	rawEnd   string
	verbatim bool
}

// Document owns a tree of nodes. The zero value is not usable; use [Parse]
// or [New].
type Document struct {
	nodes []node
}

// New returns an empty document containing only the document node.
func New() *Document {
	return &Document{nodes: []node{{kind: KindDocument, parent: None}}}
}

// DocumentNode returns the ID of the document node.
func (d *Document) DocumentNode() NodeID { return 0 }

// Root returns the document element, or None.
func (d *Document) Root() NodeID {
	for _, c := range d.nodes[0].children {
		if d.nodes[c].kind == KindElement {
			return c
		}
	}
	return None
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Kind returns the kind of a node.
func (d *Document) Kind(id NodeID) Kind { return d.nodes[id].kind }

// Name returns the local name of an element (or the target of a PI).
func (d *Document) Name(id NodeID) string { return d.nodes[id].name }

// Prefix returns the namespace prefix of an element.
func (d *Document) Prefix(id NodeID) string { return d.nodes[id].prefix }

// QName returns the qualified name of an element.
func (d *Document) QName(id NodeID) string {
	n := &d.nodes[id]
	if n.prefix == "" {
		return n.name
	}
	return n.prefix + ":" + n.name
}

// Parent returns the parent of a node, or None for the document node and
// detached nodes.
func (d *Document) Parent(id NodeID) NodeID { return d.nodes[id].parent }

// Children returns a copy of the child list of a node.
func (d *Document) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), d.nodes[id].children...)
}

// Value returns the decoded content of a text, CDATA, comment, PI or
// directive node.
func (d *Document) Value(id NodeID) string { return d.nodes[id].value }

// Attrs returns a copy of the attributes of an element in source order.
func (d *Document) Attrs(id NodeID) []Attr {
	return append([]Attr(nil), d.nodes[id].attrs...)
}

// Attr looks up an attribute by prefix and local name.
func (d *Document) Attr(id NodeID, prefix, local string) (string, bool) {
	for _, a := range d.nodes[id].attrs {
		if a.Prefix == prefix && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// NamespaceURI resolves the namespace of an element from the xmlns
// declarations in scope.
func (d *Document) NamespaceURI(id NodeID) string {
	return d.lookupNamespace(id, d.nodes[id].prefix)
}

func (d *Document) lookupNamespace(id NodeID, prefix string) string {
	if prefix == "xml" {
		return "http://www.w3.org/XML/1998/namespace"
	}
	for cur := id; cur != None; cur = d.nodes[cur].parent {
		n := &d.nodes[cur]
		if n.kind != KindElement {
			continue
		}
		for _, a := range n.attrs {
			if prefix == "" && a.Prefix == "" && a.Local == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Prefix == "xmlns" && a.Local == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// Child returns the first element child of id with the given local name in
// the same namespace as id, or None.
func (d *Document) Child(id NodeID, local string) NodeID {
	ns := d.NamespaceURI(id)
	for _, c := range d.nodes[id].children {
		n := &d.nodes[c]
		if n.kind == KindElement && n.name == local && d.NamespaceURI(c) == ns {
			return c
		}
	}
	return None
}

// Elements returns every element child of id with the given local name in
// the same namespace as id.
func (d *Document) Elements(id NodeID, local string) []NodeID {
	ns := d.NamespaceURI(id)
	var out []NodeID
	for _, c := range d.nodes[id].children {
		n := &d.nodes[c]
		if n.kind == KindElement && n.name == local && d.NamespaceURI(c) == ns {
			out = append(out, c)
		}
	}
	return out
}

// Path follows the first matching child for every name but the last and
// returns all children matching the last name. It returns nil as soon as a
// step is missing.
func (d *Document) Path(id NodeID, names ...string) []NodeID {
	if len(names) == 0 {
		return []NodeID{id}
	}
	cur := id
	for _, name := range names[:len(names)-1] {
		if cur = d.Child(cur, name); cur == None {
			return nil
		}
	}
	return d.Elements(cur, names[len(names)-1])
}

// Text returns the concatenated text and CDATA content of an element's
// direct children.
func (d *Document) Text(id NodeID) string {
	var sb strings.Builder
	for _, c := range d.nodes[id].children {
		if k := d.nodes[c].kind; k == KindText || k == KindCData {
			sb.WriteString(d.nodes[c].value)
		}
	}
	return sb.String()
}

// TextTrim is Text with surrounding whitespace removed.
func (d *Document) TextTrim(id NodeID) string {
	return strings.TrimSpace(d.Text(id))
}

// ChildText returns the trimmed text of the named child and whether the
// child exists.
func (d *Document) ChildText(id NodeID, local string) (string, bool) {
	c := d.Child(id, local)
	if c == None {
		return "", false
	}
	return d.TextTrim(c), true
}

// IndexOf returns the position of child in parent's child list, or -1.
func (d *Document) IndexOf(parent, child NodeID) int {
	for i, c := range d.nodes[parent].children {
		if c == child {
			return i
		}
	}
	return -1
}

// Modified reports whether a node will be rendered canonically.
func (d *Document) Modified(id NodeID) bool { return !d.nodes[id].verbatim }
