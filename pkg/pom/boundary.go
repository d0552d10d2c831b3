package pom

import (
	"regexp"
	"strings"

	"github.com/matzehuels/versionrange/pkg/errors"
)

// ExtractBoundaries splits text into the part before the managed root
// element and the part after it. render must return the serialized root;
// its first occurrence in text fixes the split. When it does not occur,
// a tolerant grammar split is tried before giving up with ErrCodeBoundary.
func ExtractBoundaries(text string, render func() (string, error)) (intro, outro string, err error) {
	rendered, err := render()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeBoundary, err, "error serializing project element")
	}
	if rendered != "" {
		if i := strings.Index(text, rendered); i >= 0 {
			return text[:i], text[i+len(rendered):], nil
		}
	}

	intro, outro, ok := splitTolerant(text)
	if !ok {
		return "", "", errors.New(errors.ErrCodeBoundary, "unable to locate the project element in the POM text")
	}
	return intro, outro, nil
}

const (
	xmlDeclOrPI = `<\?(?:[^"'>]+|"[^"]*"|'[^']*')*>`
	intSubset   = `\[(?:[^"'\]]+|"[^"]*"|'[^']*')*\]`
	doctype     = `<!DOCTYPE(?:[^"'\[>]+|"[^"]*"|'[^']*'|` + intSubset + `)*>`
	comment     = `<!--(?:[^-]|-[^-])*-->`

	introGrammar = `(?:\s+|` + xmlDeclOrPI + `|` + doctype + `|` + comment + `)*`
	outroGrammar = `(?:\s+|` + comment + `|` + xmlDeclOrPI + `)*`
)

var tolerantSplit = regexp.MustCompile(`^(?s)(` + introGrammar + `)(.*?)(` + outroGrammar + `)$`)

// splitTolerant matches the whole text against
// intro-grammar, anything, outro-grammar in one anchored match. The middle
// part must look like an element.
func splitTolerant(text string) (intro, outro string, ok bool) {
	m := tolerantSplit.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	body := m[2]
	if !strings.HasPrefix(body, "<") || !strings.HasSuffix(body, ">") {
		return "", "", false
	}
	return m[1], m[3], true
}
