package project

import (
	"strings"

	"github.com/matzehuels/versionrange/pkg/errors"
)

var pomPrefixes = []string{"pom.", "project."}

// Interpolate replaces every ${expr} in value. Expressions are looked up, in
// order, as pom./project. prefixed model fields, as properties, and as bare
// model fields. Resolved values are interpolated recursively. A cyclic or
// unresolvable reference fails with ErrCodeInterpolation.
func (m *Model) Interpolate(value string) (string, error) {
	if !strings.Contains(value, "${") {
		return value, nil
	}
	out, err := m.interpolate(value, nil, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInterpolation, err, "failed to interpolate %s for project %s", value, m.ID())
	}
	return out, nil
}

// interpolateLenient is Interpolate that leaves unresolvable expressions in
// place. Cycles are still reported.
func (m *Model) interpolateLenient(value string) (string, error) {
	if !strings.Contains(value, "${") {
		return value, nil
	}
	out, err := m.interpolate(value, nil, false)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInterpolation, err, "failed to interpolate %s for project %s", value, m.ID())
	}
	return out, nil
}

type interpolationError struct {
	msg string
}

func (e *interpolationError) Error() string { return e.msg }

func (m *Model) interpolate(value string, stack []string, strict bool) (string, error) {
	var sb strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			sb.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}")
		if end < 0 {
			sb.WriteString(rest)
			break
		}
		end += start + 2
		expr := rest[start+2 : end]

		sb.WriteString(rest[:start])
		resolved, err := m.resolve(expr, stack, strict)
		if err != nil {
			return "", err
		}
		sb.WriteString(resolved)
		rest = rest[end+1:]
	}
	return sb.String(), nil
}

func (m *Model) resolve(expr string, stack []string, strict bool) (string, error) {
	key := stripPrefix(expr)
	for _, seen := range stack {
		if seen == key {
			return "", &interpolationError{msg: "expression cycle detected: " + strings.Join(append(stack, key), " -> ")}
		}
	}

	raw, ok := m.lookup(expr)
	if !ok {
		if strict {
			return "", &interpolationError{msg: "unresolvable expression ${" + expr + "}"}
		}
		return "${" + expr + "}", nil
	}
	return m.interpolate(raw, append(stack, key), strict)
}

func (m *Model) lookup(expr string) (string, bool) {
	for _, p := range pomPrefixes {
		if name, ok := strings.CutPrefix(expr, p); ok {
			if v, ok := m.field(name); ok {
				return v, true
			}
		}
	}
	if v, ok := m.Properties[expr]; ok {
		return v, true
	}
	return m.field(expr)
}

func stripPrefix(expr string) string {
	for _, p := range pomPrefixes {
		if name, ok := strings.CutPrefix(expr, p); ok {
			return name
		}
	}
	return expr
}
