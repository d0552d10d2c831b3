package pom

import (
	"strings"

	"github.com/matzehuels/versionrange/pkg/xmltree"
)

// RewriteValue replaces the logical value of an element. The first text run
// with non-blank content absorbs the text runs that directly follow it and
// keeps its surrounding whitespace around the new value. An element without
// such a run gets the value appended as a new text node. It reports whether
// the element changed.
func RewriteValue(doc *xmltree.Document, element xmltree.NodeID, value string) bool {
	children := doc.Children(element)

	text := xmltree.None
	merged := false
	for i, c := range children {
		if !isText(doc, c) || strings.TrimSpace(doc.Value(c)) == "" {
			continue
		}
		text = c
		chars := doc.Value(c)
		for _, next := range children[i+1:] {
			if !isText(doc, next) {
				break
			}
			chars += doc.Value(next)
			doc.Detach(next)
			merged = true
		}
		if merged {
			doc.SetKind(c, xmltree.KindText)
			doc.SetValue(c, chars)
		}
		break
	}

	if text == xmltree.None {
		doc.Append(element, doc.NewText(value))
		return true
	}

	chars := doc.Value(text)
	trimmed := strings.TrimSpace(chars)
	idx := strings.Index(chars, trimmed)
	next := chars[:idx] + value + chars[idx+len(trimmed):]
	doc.SetValue(text, next)
	return merged || next != chars
}

func isText(doc *xmltree.Document, id xmltree.NodeID) bool {
	k := doc.Kind(id)
	return k == xmltree.KindText || k == xmltree.KindCData
}
