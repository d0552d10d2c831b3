package pom

import (
	"regexp"
	"strings"
)

// Action is the outcome of classifying one version-bearing element.
type Action int

const (
	// ActionUntracked: the coordinate has no target version.
	ActionUntracked Action = iota
	// ActionOverwrite: the literal version equals the original; replace it.
	ActionOverwrite
	// ActionInheritedMoved: ${project.*}, ${pom.*} or ${version} whose
	// target differs from the project's own target; replace it.
	ActionInheritedMoved
	// ActionInheritedUnchanged: same expression, target equals the
	// project's target; leave it.
	ActionInheritedUnchanged
	// ActionPropertyUpdate: the referenced property holds the original
	// version; replace the property value.
	ActionPropertyUpdate
	// ActionPropertyCurrent: the property already holds the target.
	ActionPropertyCurrent
	// ActionPropertyExpressionTarget: the target itself is a project
	// expression that cannot be written into a property.
	ActionPropertyExpressionTarget
	// ActionConflict: the property holds neither the original nor the
	// target version.
	ActionConflict
	// ActionUnresolvedProperty: the referenced property is not declared
	// in the POM.
	ActionUnresolvedProperty
	// ActionUnrelated: a literal version that is not the original one.
	ActionUnrelated
)

var actionNames = [...]string{
	ActionUntracked:                "untracked",
	ActionOverwrite:                "overwrite",
	ActionInheritedMoved:           "inherited-moved",
	ActionInheritedUnchanged:       "inherited-unchanged",
	ActionPropertyUpdate:           "property-update",
	ActionPropertyCurrent:          "property-current",
	ActionPropertyExpressionTarget: "property-expression-target",
	ActionConflict:                 "conflict",
	ActionUnresolvedProperty:       "unresolved-property",
	ActionUnrelated:                "unrelated",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Fatal reports whether the action aborts the run.
func (a Action) Fatal() bool {
	return a == ActionConflict || a == ActionUnresolvedProperty
}

// DecisionInput is everything [Decide] looks at for one element.
type DecisionInput struct {
	// Raw is the trimmed text of the version element.
	Raw string

	Target      string
	HasTarget   bool
	Original    string
	HasOriginal bool

	// ProjectTarget is the target version of the project itself.
	ProjectTarget    string
	HasProjectTarget bool

	// Property looks up a property value by name. Nil means the POM has no
	// properties element.
	Property func(name string) (string, bool)
}

// Decision is the classified outcome.
type Decision struct {
	Action Action
	// Expression is the placeholder name when Raw is ${name}.
	Expression string
	// PropertyValue is the current value of the referenced property.
	PropertyValue string
}

var (
	placeholder        = regexp.MustCompile(`^\$\{([^}]+)\}$`)
	projectPlaceholder = regexp.MustCompile(`^\$\{(?:project|pom).+\}$`)
)

// Expression returns the name inside a value that consists of exactly one
// ${name} placeholder.
func Expression(raw string) (string, bool) {
	m := placeholder.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func isInheritedExpression(expr string) bool {
	return strings.HasPrefix(expr, "project.") || strings.HasPrefix(expr, "pom.") || expr == "version"
}

func isProjectExpression(value string) bool {
	return projectPlaceholder.MatchString(value) || value == "${version}"
}

// Decide classifies a version element. It has no side effects.
func Decide(in DecisionInput) Decision {
	if !in.HasTarget {
		return Decision{Action: ActionUntracked}
	}
	if in.HasOriginal && in.Raw == in.Original && !unresolved(in.Original) {
		return Decision{Action: ActionOverwrite}
	}

	expr, ok := Expression(in.Raw)
	if !ok {
		return Decision{Action: ActionUnrelated}
	}
	d := Decision{Expression: expr}

	if isInheritedExpression(expr) {
		if !in.HasProjectTarget || in.Target != in.ProjectTarget {
			d.Action = ActionInheritedMoved
		} else {
			d.Action = ActionInheritedUnchanged
		}
		return d
	}

	if in.Property == nil {
		d.Action = ActionUnresolvedProperty
		return d
	}
	value, ok := in.Property(expr)
	if !ok {
		d.Action = ActionUnresolvedProperty
		return d
	}
	d.PropertyValue = value

	switch {
	case in.HasOriginal && value == in.Original:
		d.Action = ActionPropertyUpdate
	case value == in.Target, in.Target == in.Raw:
		d.Action = ActionPropertyCurrent
	case isProjectExpression(in.Target):
		d.Action = ActionPropertyExpressionTarget
	default:
		d.Action = ActionConflict
	}
	return d
}
