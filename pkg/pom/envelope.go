package pom

import (
	"bytes"
	"os"
	"regexp"

	"golang.org/x/text/encoding"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/xmltree"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Envelope is a parsed manifest together with the text around its root
// element. Intro + render(Root) + Outro reproduces the normalized file.
type Envelope struct {
	Intro string
	Outro string

	Doc  *xmltree.Document
	Root xmltree.NodeID

	LineSeparator string
	// Encoding is the label from the XML declaration, empty for UTF-8.
	Encoding string
	// BOM is set when the file started with a UTF-8 byte order mark.
	BOM bool
	// Source is the content as read, before decoding.
	Source []byte

	enc encoding.Encoding
}

// ReadOptions controls how a manifest is read.
type ReadOptions struct {
	// LineSeparator is the separator the text is normalized to.
	// Defaults to the native one.
	LineSeparator string
	// RepairTagWhitespace collapses whitespace runs inside tags and adds a
	// space before "/>". It rewrites bytes outside version values.
	RepairTagWhitespace bool
}

// ReadManifest reads and parses the POM at path.
func ReadManifest(path string, opts ReadOptions) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "error reading POM: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "error reading POM: %s", path)
	}
	env, err := ParseManifest(data, opts)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// ParseManifest decodes, normalizes and parses manifest bytes and splits
// off the text around the root element.
func ParseManifest(data []byte, opts ReadOptions) (*Envelope, error) {
	if opts.LineSeparator == "" {
		ls, err := LineSeparator(LineSeparatorNative)
		if err != nil {
			return nil, err
		}
		opts.LineSeparator = ls
	}

	env := &Envelope{LineSeparator: opts.LineSeparator, Source: data}
	if bytes.HasPrefix(data, utf8BOM) {
		env.BOM = true
		data = data[len(utf8BOM):]
	}

	env.Encoding = declaredEncoding(data)
	enc, err := xmltree.LookupEncoding(env.Encoding)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "error reading POM")
	}
	env.enc = enc
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "error decoding POM as %s", env.Encoding)
	}

	text := Normalize(string(decoded), opts.LineSeparator, opts.RepairTagWhitespace)

	doc, err := xmltree.Parse(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "error reading POM")
	}
	env.Doc = doc
	env.Root = doc.Root()

	env.Intro, env.Outro, err = ExtractBoundaries(text, func() (string, error) {
		return env.render(), nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

var encodingDecl = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z][A-Za-z0-9._\-]*)["']`)

// declaredEncoding returns the encoding label of the XML declaration.
func declaredEncoding(data []byte) string {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if m := encodingDecl.FindSubmatch(head); m != nil {
		return string(m[1])
	}
	return ""
}

func (e *Envelope) render() string {
	return e.Doc.Render(e.Root, xmltree.RenderOptions{LineSeparator: e.LineSeparator})
}

// Text returns intro + root + outro.
func (e *Envelope) Text() string {
	return e.Intro + e.render() + e.Outro
}

// Bytes returns the encoded file content.
func (e *Envelope) Bytes() ([]byte, error) {
	out, err := e.enc.NewEncoder().Bytes([]byte(e.Text()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "error encoding POM as %s", e.Encoding)
	}
	if e.BOM {
		out = append(append([]byte{}, utf8BOM...), out...)
	}
	return out, nil
}
