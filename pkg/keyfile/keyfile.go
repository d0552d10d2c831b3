// Package keyfile loads the list of tracked artifacts.
//
// The key file is a Java properties file whose keys are artifact
// specifications with a version range, for example:
//
//	# update within the 1.x line
//	com.example:lib:[1.0.0,2.0.0)=
//	org.example\:tool\:jar\:[3.0,)=
//
// Values are ignored. Colons inside keys may be escaped as in Java
// properties files but do not have to be.
package keyfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"

	"github.com/matzehuels/versionrange/pkg/errors"
)

const (
	// DefaultDir is the directory searched when none is configured.
	DefaultDir = "."
	// DefaultName is the file name used when none is configured.
	DefaultName = "version-range-maven-plugin.properties"
)

// Load reads dir/name and returns its keys in file order. Empty arguments
// select the defaults.
func Load(dir, name string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if name == "" {
		name = DefaultName
	}
	if err := errors.ValidateKeyFilename(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "unable to find '%s'; path='%s'", name, dir)
		}
		return nil, errors.Wrap(errors.ErrCodeKeyFile, err, "error while reading '%s'; path='%s'", name, dir)
	}

	keys, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeKeyFile, err, "error while reading '%s'; path='%s'", name, dir)
	}
	return keys, nil
}

// Parse returns the keys of a properties document in order of first
// appearance.
func Parse(data []byte) ([]string, error) {
	l := &properties.Loader{Encoding: properties.ISO_8859_1, DisableExpansion: true}
	p, err := l.LoadBytes([]byte(escapeKeyColons(string(data))))
	if err != nil {
		return nil, err
	}
	return p.Keys(), nil
}

// escapeKeyColons escapes every unescaped ':' in the key part of each
// logical line so the colon is not taken as the key/value separator.
// The key part ends at the first unescaped '=' or whitespace.
func escapeKeyColons(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	sb.Grow(len(s))

	continued := false
	for _, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimLeft(body, " \t\f")

		isContinuation := continued
		continued = endsWithOddBackslashes(body)

		if isContinuation || trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
			sb.WriteString(line)
			continue
		}

		lead := body[:len(body)-len(trimmed)]
		sb.WriteString(lead)
		escaped := false
		inKey := true
		for i := 0; i < len(trimmed); i++ {
			c := trimmed[i]
			switch {
			case !inKey:
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == ':':
				sb.WriteByte('\\')
			case c == '=' || c == ' ' || c == '\t' || c == '\f':
				inKey = false
			}
			sb.WriteByte(c)
		}
		sb.WriteString(line[len(body):])
	}
	return sb.String()
}

func endsWithOddBackslashes(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
