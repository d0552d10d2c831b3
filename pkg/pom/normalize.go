package pom

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/matzehuels/versionrange/pkg/errors"
)

// Line separator modes accepted by [LineSeparator].
const (
	LineSeparatorNative = "native"
	LineSeparatorLF     = "lf"
	LineSeparatorCRLF   = "crlf"
)

// LineSeparator maps a mode to the separator string. The empty mode is
// native.
func LineSeparator(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", LineSeparatorNative:
		if runtime.GOOS == "windows" {
			return "\r\n", nil
		}
		return "\n", nil
	case LineSeparatorLF:
		return "\n", nil
	case LineSeparatorCRLF:
		return "\r\n", nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown line separator %q (want native, lf or crlf)", mode)
}

var (
	lineEndings = regexp.MustCompile(`\r\n|\n|\r`)

	// Tags other than comments, CDATA and doctype declarations.
	tag            = regexp.MustCompile(`<[^!][^>]*>`)
	whitespaceRuns = regexp.MustCompile(`\s{2,}`)
	// Empty-element tags without a space before "/>".
	emptyTagClose = regexp.MustCompile(`(\s{2,}|[^\s])/>`)
)

// NormalizeLineEndings replaces every CRLF, LF and CR with ls.
func NormalizeLineEndings(text, ls string) string {
	return lineEndings.ReplaceAllLiteralString(text, ls)
}

// Normalize prepares manifest text for parsing: line endings become ls and,
// when repairTags is set, runs of whitespace inside tags collapse to a
// single space and empty-element tags get a space before "/>".
func Normalize(text, ls string, repairTags bool) string {
	text = NormalizeLineEndings(text, ls)
	if repairTags {
		text = tag.ReplaceAllStringFunc(text, func(t string) string {
			return whitespaceRuns.ReplaceAllLiteralString(t, " ")
		})
		text = emptyTagClose.ReplaceAllString(text, "${1} />")
	}
	return text
}
