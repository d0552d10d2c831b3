package pom

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xpath"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/maven"
	"github.com/matzehuels/versionrange/pkg/project"
	"github.com/matzehuels/versionrange/pkg/xmltree"
)

// collection is a group of version-bearing elements below a root.
type collection struct {
	kind string
	expr *xpath.Expr
}

var collections = []collection{
	{"parent", xpath.MustCompile("parent")},
	{"dependency", xpath.MustCompile("dependencies/dependency")},
	{"managed dependency", xpath.MustCompile("dependencyManagement/dependencies/dependency")},
	{"plugin", xpath.MustCompile("build/plugins/plugin")},
	{"managed plugin", xpath.MustCompile("build/pluginManagement/plugins/plugin")},
}

// Change records one applied edit.
type Change struct {
	Coordinate maven.Coordinate
	// Kind is "parent", "dependency", "managed dependency", "plugin",
	// "managed plugin", "property" or "project".
	Kind string
	// Property is the property name for Kind "property".
	Property string
	// Profile is the id of the enclosing profile, if any.
	Profile string
	From    string
	To      string
}

func (c Change) String() string {
	where := c.Kind
	if c.Property != "" {
		where += " " + c.Property
	}
	if c.Profile != "" {
		where += " (profile " + c.Profile + ")"
	}
	return fmt.Sprintf("%s %s: %s -> %s", c.Coordinate, where, c.From, c.To)
}

// Rewriter applies target versions to a parsed POM.
type Rewriter struct {
	Doc   *xmltree.Document
	Model *project.Model

	Target   VersionMap
	Original VersionMap

	// UpdateProjectVersion also rewrites the project's own version, which
	// then must have a target.
	UpdateProjectVersion bool

	Logger *log.Logger

	root       xmltree.NodeID
	properties xmltree.NodeID
	changes    []Change
}

// Rewrite edits the document in place and returns the applied changes. On
// error the document may be partially edited and must not be written.
func (r *Rewriter) Rewrite() ([]Change, error) {
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	r.root = r.Doc.Root()
	r.properties = r.Doc.Child(r.root, "properties")
	r.changes = nil

	r.Logger.Debug("mapped versions", "versions", r.Target)
	r.Logger.Debug("original versions", "versions", r.Original)

	parentVersion, err := r.rewriteParent()
	if err != nil {
		return nil, err
	}
	if r.UpdateProjectVersion {
		if err := r.rewriteProjectVersion(parentVersion); err != nil {
			return nil, err
		}
	}

	roots := append([]xmltree.NodeID{r.root}, r.Doc.Path(r.root, "profiles", "profile")...)
	for _, root := range roots {
		profile := ""
		if root != r.root {
			profile, _ = r.Doc.ChildText(root, "id")
		}
		for _, c := range collections {
			for _, el := range r.Doc.Select(root, c.expr) {
				if err := r.rewriteElement(el, c.kind, profile); err != nil {
					return nil, err
				}
			}
		}
	}
	return r.changes, nil
}

// rewriteParent updates parent/version and returns the parent version in
// effect afterwards.
func (r *Rewriter) rewriteParent() (string, error) {
	if r.Model.Parent == nil {
		return "", nil
	}
	parent := r.Doc.Child(r.root, "parent")
	if parent == xmltree.None {
		return "", nil
	}
	version := r.Doc.Child(parent, "version")
	key := r.Model.Parent.Coordinate()

	mapped, ok := r.Target[key]
	if !ok {
		declared := r.Model.Parent.Version
		if version != xmltree.None {
			declared = r.Doc.TextTrim(version)
		}
		if original, ok := r.Original[key]; ok && declared != original {
			return "", errors.New(errors.ErrCodeUnmappedParent,
				"version for parent '%s' was not mapped: declared %s, expected %s", key, declared, original)
		}
		return declared, nil
	}

	if version == xmltree.None {
		version = r.Doc.NewElement(r.Doc.Prefix(parent), "version")
		r.Doc.Append(parent, version)
	}
	from := r.Doc.TextTrim(version)
	if RewriteValue(r.Doc, version, mapped) {
		r.Logger.Info("updating parent", "parent", key, "version", mapped)
		r.record(Change{Coordinate: key, Kind: "parent", From: from, To: mapped})
	}
	return mapped, nil
}

// rewriteProjectVersion sets the project's version, inserting a version
// element after artifactId when it was inherited and now differs from the
// parent.
func (r *Rewriter) rewriteProjectVersion(parentVersion string) error {
	key := r.Model.Coordinate()
	mapped, ok := r.Target[key]
	if !ok {
		return errors.New(errors.ErrCodeUnmappedProjectVersion, "version for '%s' was not mapped", key)
	}

	version := r.Doc.Child(r.root, "version")
	if version != xmltree.None {
		from := r.Doc.TextTrim(version)
		if RewriteValue(r.Doc, version, mapped) {
			r.Logger.Info("updating project version", "project", key, "version", mapped)
			r.record(Change{Coordinate: key, Kind: "project", From: from, To: mapped})
		}
		return nil
	}
	if mapped == parentVersion {
		return nil
	}

	artifactID := r.Doc.Child(r.root, "artifactId")
	if artifactID == xmltree.None {
		return errors.New(errors.ErrCodeInvalidManifest, "project %s has no artifactId element", key)
	}
	index := r.Doc.IndexOf(r.root, artifactID)
	indent := "\n  "
	if siblings := r.Doc.Children(r.root); index > 0 {
		prev := siblings[index-1]
		if r.Doc.Kind(prev) == xmltree.KindText && strings.TrimSpace(r.Doc.Value(prev)) == "" {
			indent = r.Doc.Value(prev)
		}
	}

	version = r.Doc.NewElement(r.Doc.Prefix(r.root), "version")
	r.Doc.Append(version, r.Doc.NewText(mapped))
	r.Doc.Insert(r.root, index+1, r.Doc.NewText(indent))
	r.Doc.Insert(r.root, index+2, version)

	r.Logger.Info("adding project version", "project", key, "version", mapped)
	r.record(Change{Coordinate: key, Kind: "project", From: parentVersion, To: mapped})
	return nil
}

func (r *Rewriter) rewriteElement(el xmltree.NodeID, kind, profile string) error {
	version := r.Doc.Child(el, "version")
	if version == xmltree.None {
		// managed dependency or unversioned plugin
		return nil
	}
	raw := r.Doc.TextTrim(version)

	groupID, ok := r.Doc.ChildText(el, "groupId")
	if !ok {
		if r.Doc.Name(el) != "plugin" {
			r.Logger.Debug("skipping incomplete element", "kind", kind)
			return nil
		}
		groupID = maven.DefaultPluginGroupID
	}
	artifactID, ok := r.Doc.ChildText(el, "artifactId")
	if !ok {
		r.Logger.Debug("skipping incomplete element", "kind", kind, "groupId", groupID)
		return nil
	}

	var err error
	if groupID, err = r.Model.Interpolate(groupID); err != nil {
		return err
	}
	if artifactID, err = r.Model.Interpolate(artifactID); err != nil {
		return err
	}

	key := maven.Coordinate{GroupID: groupID, ArtifactID: artifactID}
	in := DecisionInput{Raw: raw}
	in.Target, in.HasTarget = r.Target[key]
	in.Original, in.HasOriginal = r.Original[key]
	in.ProjectTarget, in.HasProjectTarget = r.Target[r.Model.Coordinate()]
	if r.properties != xmltree.None {
		in.Property = r.property
	}

	d := Decide(in)
	logger := r.Logger.With("artifact", key, "kind", kind)
	if profile != "" {
		logger = logger.With("profile", profile)
	}

	switch d.Action {
	case ActionUntracked:
		logger.Debug("artifact not related to current release")

	case ActionUnrelated:
		logger.Debug("different/previous version not related to current release", "version", raw)

	case ActionOverwrite, ActionInheritedMoved:
		logger.Info("updating version", "from", raw, "to", in.Target)
		if RewriteValue(r.Doc, version, in.Target) {
			r.record(Change{Coordinate: key, Kind: kind, Profile: profile, From: raw, To: in.Target})
		}

	case ActionInheritedUnchanged:
		logger.Info("ignoring version update for expression", "expression", raw)

	case ActionPropertyUpdate:
		logger.Info("updating property", "property", d.Expression, "from", d.PropertyValue, "to", in.Target)
		prop := r.Doc.Child(r.properties, d.Expression)
		if RewriteValue(r.Doc, prop, in.Target) {
			r.record(Change{Coordinate: key, Kind: "property", Property: d.Expression, Profile: profile, From: d.PropertyValue, To: in.Target})
		}

	case ActionPropertyCurrent:
		logger.Info("ignoring version update, property already updated", "expression", raw)

	case ActionPropertyExpressionTarget:
		logger.Info("ignoring version update for expression target", "target", in.Target)

	case ActionConflict:
		return errors.New(errors.ErrCodeVersionConflict,
			"The artifact (%s) requires a different version (%s) than what is found (%s) for the expression (%s) in the project (%s).",
			key, in.Target, d.PropertyValue, d.Expression, r.Model.Key())

	case ActionUnresolvedProperty:
		return errors.New(errors.ErrCodeUnresolvedProperty,
			"The version could not be updated: %s (artifact %s in project %s); the property %s is not defined in this POM",
			raw, key, r.Model.Key(), d.Expression)
	}
	return nil
}

func (r *Rewriter) property(name string) (string, bool) {
	p := r.Doc.Child(r.properties, name)
	if p == xmltree.None {
		return "", false
	}
	return r.Doc.TextTrim(p), true
}

func (r *Rewriter) record(c Change) {
	r.changes = append(r.changes, c)
}
