package pom

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/xmltree"
)

const (
	pomNamespacePrefix = "http://maven.apache.org/POM/"
	xsiNamespace       = "http://www.w3.org/2001/XMLSchema-instance"
)

// PrepareRoot declares the POM namespace of modelVersion on the root,
// declares the xsi namespace, adds an xsi:schemaLocation when none exists
// and drops xmlns="" from descendants so they stay in the POM namespace.
func PrepareRoot(doc *xmltree.Document, root xmltree.NodeID, modelVersion string) {
	ns := pomNamespacePrefix + modelVersion
	doc.SetAttr(root, "", "xmlns", ns)

	xsiPrefix := "xsi"
	if p, ok := declaredPrefix(doc, root, xsiNamespace); ok {
		xsiPrefix = p
	} else {
		doc.SetAttr(root, "xmlns", "xsi", xsiNamespace)
	}

	if _, ok := doc.Attr(root, xsiPrefix, "schemaLocation"); !ok {
		location := ns + " http://maven.apache.org/maven-v" + strings.ReplaceAll(modelVersion, ".", "_") + ".xsd"
		doc.SetAttr(root, xsiPrefix, "schemaLocation", location)
	}

	var walk func(id xmltree.NodeID)
	walk = func(id xmltree.NodeID) {
		for _, c := range doc.Children(id) {
			if doc.Kind(c) != xmltree.KindElement {
				continue
			}
			if v, ok := doc.Attr(c, "", "xmlns"); ok && v == "" {
				doc.RemoveAttr(c, "", "xmlns")
			}
			walk(c)
		}
	}
	walk(root)
}

func declaredPrefix(doc *xmltree.Document, el xmltree.NodeID, uri string) (string, bool) {
	for _, a := range doc.Attrs(el) {
		if a.Prefix == "xmlns" && a.Value == uri {
			return a.Local, true
		}
	}
	return "", false
}

// WriteFile replaces path with data. The content goes to a temporary file
// in the same directory first, which is renamed over path once complete
// and removed on any failure.
func WriteFile(path string, data []byte) (err error) {
	perm := os.FileMode(0o644)
	if fi, statErr := os.Stat(path); statErr == nil {
		perm = fi.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "error writing POM: %s", path)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "error writing POM: %s", path)
	}
	if err = f.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "error writing POM: %s", path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "error writing POM: %s", path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "error writing POM: %s", path)
	}
	return nil
}
