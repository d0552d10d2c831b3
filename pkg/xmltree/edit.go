package xmltree

import "fmt"

func (d *Document) add(n node) NodeID {
	n.parent = None
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// NewElement creates a detached element.
func (d *Document) NewElement(prefix, local string) NodeID {
	return d.add(node{kind: KindElement, prefix: prefix, name: local})
}

// NewText creates a detached text node.
func (d *Document) NewText(value string) NodeID {
	return d.add(node{kind: KindText, value: value})
}

// NewComment creates a detached comment.
func (d *Document) NewComment(value string) NodeID {
	return d.add(node{kind: KindComment, value: value})
}

// SetValue replaces the content of a text, CDATA or comment node.
func (d *Document) SetValue(id NodeID, value string) {
	n := &d.nodes[id]
	if n.verbatim && n.value == value {
		return
	}
	n.value = value
	n.verbatim = false
}

// SetKind turns a CDATA node into a text node or vice versa.
func (d *Document) SetKind(id NodeID, k Kind) {
	n := &d.nodes[id]
	if n.kind == k {
		return
	}
	if (n.kind != KindText && n.kind != KindCData) || (k != KindText && k != KindCData) {
		panic(fmt.Sprintf("xmltree: cannot change %s node to %s", n.kind, k))
	}
	n.kind = k
	n.verbatim = false
}

// SetAttr sets an attribute. Setting an attribute to its current value is a
// no-op and keeps the element's source text. A new attribute is spliced into
// the source start tag so the rest of the tag keeps its formatting.
func (d *Document) SetAttr(id NodeID, prefix, local, value string) {
	n := &d.nodes[id]
	for i, a := range n.attrs {
		if a.Prefix == prefix && a.Local == local {
			if a.Value == value {
				return
			}
			n.attrs[i].Value = value
			n.verbatim = false
			return
		}
	}
	a := Attr{Prefix: prefix, Local: local, Value: value}
	n.attrs = append(n.attrs, a)
	if n.verbatim {
		n.rawStart = spliceAttr(n.rawStart, a)
	}
}

// spliceAttr inserts a rendered attribute before the closing '>' or '/>'
// of a start tag, ahead of any whitespace there.
func spliceAttr(tag string, a Attr) string {
	end := len(tag) - 1
	if end > 0 && tag[end-1] == '/' {
		end--
	}
	for end > 0 && isSpace(tag[end-1]) {
		end--
	}
	return tag[:end] + " " + a.QName() + `="` + escapeAttr(a.Value) + `"` + tag[end:]
}

// RemoveAttr deletes an attribute and reports whether it existed.
func (d *Document) RemoveAttr(id NodeID, prefix, local string) bool {
	n := &d.nodes[id]
	for i, a := range n.attrs {
		if a.Prefix == prefix && a.Local == local {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.verbatim = false
			return true
		}
	}
	return false
}

// Append adds a detached node as the last child of parent.
func (d *Document) Append(parent, child NodeID) {
	d.Insert(parent, len(d.nodes[parent].children), child)
}

// Insert adds a detached node at position index of parent's children.
func (d *Document) Insert(parent NodeID, index int, child NodeID) {
	if d.nodes[child].parent != None {
		panic("xmltree: node already has a parent")
	}
	p := &d.nodes[parent]
	if index < 0 || index > len(p.children) {
		panic(fmt.Sprintf("xmltree: insert index %d out of range [0,%d]", index, len(p.children)))
	}
	p.children = append(p.children, None)
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	d.nodes[child].parent = parent
	if p.kind == KindElement && p.rawEnd == "" {
		// Self-closing in the source; it needs a real end tag now.
		p.verbatim = false
	}
}

// Detach removes a node from its parent. The node stays in the arena and can
// be inserted again.
func (d *Document) Detach(id NodeID) {
	parent := d.nodes[id].parent
	if parent == None {
		return
	}
	p := &d.nodes[parent]
	if i := d.IndexOf(parent, id); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	d.nodes[id].parent = None
}
