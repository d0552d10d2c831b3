package xmltree

import (
	"strings"

	"github.com/antchfx/xpath"
)

// Select evaluates a compiled XPath expression with id as the context node
// and returns the matching elements in document order.
func (d *Document) Select(id NodeID, expr *xpath.Expr) []NodeID {
	var out []NodeID
	iter := expr.Select(d.Navigator(id))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*Navigator)
		if !ok || nav.attr >= 0 {
			continue
		}
		out = append(out, nav.cur)
	}
	return out
}

// SelectString compiles expr and evaluates it like [Document.Select].
func (d *Document) SelectString(id NodeID, expr string) ([]NodeID, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, err
	}
	return d.Select(id, e), nil
}

// Navigator implements xpath.NodeNavigator over a Document.
// Processing instructions and directives are invisible to it.
type Navigator struct {
	doc  *Document
	cur  NodeID
	attr int
}

var _ xpath.NodeNavigator = (*Navigator)(nil)

// Navigator returns an XPath navigator positioned at id.
func (d *Document) Navigator(id NodeID) *Navigator {
	return &Navigator{doc: d, cur: id, attr: -1}
}

// Node returns the node the navigator is positioned on.
func (n *Navigator) Node() NodeID { return n.cur }

func (n *Navigator) NodeType() xpath.NodeType {
	if n.attr >= 0 {
		return xpath.AttributeNode
	}
	switch n.doc.nodes[n.cur].kind {
	case KindDocument:
		return xpath.RootNode
	case KindElement:
		return xpath.ElementNode
	case KindComment:
		return xpath.CommentNode
	default:
		return xpath.TextNode
	}
}

func (n *Navigator) LocalName() string {
	if n.attr >= 0 {
		return n.doc.nodes[n.cur].attrs[n.attr].Local
	}
	return n.doc.nodes[n.cur].name
}

func (n *Navigator) Prefix() string {
	if n.attr >= 0 {
		return n.doc.nodes[n.cur].attrs[n.attr].Prefix
	}
	return n.doc.nodes[n.cur].prefix
}

// NamespaceURL is consulted by xpath for prefixed name tests.
func (n *Navigator) NamespaceURL() string {
	if n.attr >= 0 {
		return n.doc.lookupNamespace(n.cur, n.doc.nodes[n.cur].attrs[n.attr].Prefix)
	}
	return n.doc.NamespaceURI(n.cur)
}

func (n *Navigator) Value() string {
	if n.attr >= 0 {
		return n.doc.nodes[n.cur].attrs[n.attr].Value
	}
	switch n.doc.nodes[n.cur].kind {
	case KindDocument, KindElement:
		var sb strings.Builder
		n.doc.collectText(&sb, n.cur)
		return sb.String()
	default:
		return n.doc.nodes[n.cur].value
	}
}

func (d *Document) collectText(sb *strings.Builder, id NodeID) {
	for _, c := range d.nodes[id].children {
		switch d.nodes[c].kind {
		case KindText, KindCData:
			sb.WriteString(d.nodes[c].value)
		case KindElement:
			d.collectText(sb, c)
		}
	}
}

func (n *Navigator) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *Navigator) MoveToRoot() {
	n.cur = n.doc.DocumentNode()
	n.attr = -1
}

func (n *Navigator) MoveToParent() bool {
	if n.attr >= 0 {
		n.attr = -1
		return true
	}
	if p := n.doc.nodes[n.cur].parent; p != None {
		n.cur = p
		return true
	}
	return false
}

func (n *Navigator) MoveToNextAttribute() bool {
	if n.doc.nodes[n.cur].kind != KindElement {
		return false
	}
	if n.attr+1 >= len(n.doc.nodes[n.cur].attrs) {
		return false
	}
	n.attr++
	return true
}

func (n *Navigator) MoveToChild() bool {
	if n.attr >= 0 {
		return false
	}
	for _, c := range n.doc.nodes[n.cur].children {
		if n.doc.navigable(c) {
			n.cur = c
			return true
		}
	}
	return false
}

func (n *Navigator) MoveToFirst() bool {
	if n.attr >= 0 {
		return false
	}
	p := n.doc.nodes[n.cur].parent
	if p == None {
		return false
	}
	for _, c := range n.doc.nodes[p].children {
		if n.doc.navigable(c) {
			n.cur = c
			return true
		}
	}
	return false
}

func (n *Navigator) MoveToNext() bool {
	return n.moveSibling(1)
}

func (n *Navigator) MoveToPrevious() bool {
	return n.moveSibling(-1)
}

func (n *Navigator) moveSibling(step int) bool {
	if n.attr >= 0 {
		return false
	}
	p := n.doc.nodes[n.cur].parent
	if p == None {
		return false
	}
	siblings := n.doc.nodes[p].children
	for i := n.doc.IndexOf(p, n.cur) + step; i >= 0 && i < len(siblings); i += step {
		if n.doc.navigable(siblings[i]) {
			n.cur = siblings[i]
			return true
		}
	}
	return false
}

func (n *Navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*Navigator)
	if !ok || o.doc != n.doc {
		return false
	}
	n.cur = o.cur
	n.attr = o.attr
	return true
}

func (d *Document) navigable(id NodeID) bool {
	k := d.nodes[id].kind
	return k != KindProcInst && k != KindDirective
}
