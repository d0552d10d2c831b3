package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/matzehuels/versionrange/pkg/errors"
)

// Diff returns a unified diff from before to after, labelled with name.
// It is empty when both are equal.
func Diff(name string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "error computing diff")
	}
	return diff, nil
}
