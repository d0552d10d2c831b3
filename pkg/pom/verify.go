package pom

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/matzehuels/versionrange/pkg/errors"
)

// Verify re-parses the original and the rewritten POM with an independent
// parser and checks that they have the same element structure and that
// only versions and properties changed content. A version element inserted
// directly below the project element is allowed.
func Verify(before, after []byte) error {
	orig, err := xmlquery.Parse(bytes.NewReader(bytes.TrimPrefix(before, utf8BOM)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "error re-reading original POM")
	}
	updated, err := xmlquery.Parse(bytes.NewReader(bytes.TrimPrefix(after, utf8BOM)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "rewritten POM is not well-formed")
	}

	a := xmlquery.Find(orig, "//*")
	b := xmlquery.Find(updated, "//*")

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Data != b[j].Data || a[i].Prefix != b[j].Prefix {
			if insertedProjectVersion(b[j]) {
				j++
				continue
			}
			return errors.New(errors.ErrCodeInternal, "rewritten POM differs in structure at %s", elementPath(b[j]))
		}
		if isLeaf(a[i]) && a[i].InnerText() != b[j].InnerText() && !mayChange(a[i]) {
			return errors.New(errors.ErrCodeInternal, "rewritten POM changed the content of %s", elementPath(a[i]))
		}
		i++
		j++
	}
	for ; j < len(b) && insertedProjectVersion(b[j]); j++ {
	}
	if i != len(a) || j != len(b) {
		return errors.New(errors.ErrCodeInternal, "rewritten POM has %d elements, original has %d", len(b), len(a))
	}
	return nil
}

func insertedProjectVersion(n *xmlquery.Node) bool {
	return n.Data == "version" && n.Parent != nil && n.Parent.Parent != nil &&
		n.Parent.Parent.Type == xmlquery.DocumentNode
}

func mayChange(n *xmlquery.Node) bool {
	return n.Data == "version" || (n.Parent != nil && n.Parent.Data == "properties")
}

func isLeaf(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return false
		}
	}
	return true
}

func elementPath(n *xmlquery.Node) string {
	var parts []string
	for ; n != nil && n.Type == xmlquery.ElementNode; n = n.Parent {
		parts = append(parts, n.Data)
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return "/" + strings.Join(parts, "/")
}
