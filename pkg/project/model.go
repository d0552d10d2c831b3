// Package project loads a read-only snapshot of a Maven project from its
// pom.xml: identity, parent, properties, dependencies, plugins and the
// active profiles.
//
// The snapshot approximates Maven's effective model closely enough for
// version propagation. Properties are inherited from a local parent POM,
// groupId and version fall back to the parent's, and ${...} expressions in
// coordinates are interpolated. Plugin executions, repositories and
// remote parent resolution are out of scope.
package project

import (
	"github.com/matzehuels/versionrange/pkg/maven"
)

// Model is the project snapshot.
type Model struct {
	ModelVersion string
	GroupID      string
	ArtifactID   string
	Version      string
	Packaging    string
	Name         string

	Parent *Parent

	// Properties are the merged properties of the parent chain, the project
	// and its active profiles (later wins).
	Properties map[string]string

	Dependencies         []Dependency
	DependencyManagement []Dependency
	Plugins              []Dependency
	PluginManagement     []Dependency

	// Profiles declared in the POM, in document order.
	Profiles []Profile
	// ActiveProfiles is the subset of Profiles that is active.
	ActiveProfiles []Profile

	// File is the absolute path of the POM, Basedir its directory.
	File    string
	Basedir string
}

// Parent is the parent declaration of a project.
type Parent struct {
	GroupID      string
	ArtifactID   string
	Version      string
	RelativePath string
}

// Coordinate returns the parent's coordinate.
func (p *Parent) Coordinate() maven.Coordinate {
	return maven.Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}

// Dependency is a dependency, managed dependency or plugin declaration.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Classifier string
	Scope      string
}

// Coordinate returns the dependency's coordinate.
func (d Dependency) Coordinate() maven.Coordinate {
	return maven.Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// Profile is a build profile.
type Profile struct {
	ID                   string
	ActiveByDefault      bool
	Properties           map[string]string
	Dependencies         []Dependency
	DependencyManagement []Dependency
	Plugins              []Dependency
	PluginManagement     []Dependency
}

// Coordinate returns the project's own coordinate.
func (m *Model) Coordinate() maven.Coordinate {
	return maven.Coordinate{GroupID: m.GroupID, ArtifactID: m.ArtifactID}
}

// Key returns "groupId:artifactId".
func (m *Model) Key() string { return m.Coordinate().Key() }

// ID returns "groupId:artifactId:packaging:version".
func (m *Model) ID() string {
	return m.GroupID + ":" + m.ArtifactID + ":" + m.Packaging + ":" + m.Version
}

// HasParent reports whether the project declares a parent.
func (m *Model) HasParent() bool { return m.Parent != nil }

// field resolves a model field by its POM expression name, e.g. "version"
// or "parent.artifactId".
func (m *Model) field(name string) (string, bool) {
	switch name {
	case "modelVersion":
		return m.ModelVersion, true
	case "groupId":
		return m.GroupID, true
	case "artifactId":
		return m.ArtifactID, true
	case "version":
		return m.Version, true
	case "packaging":
		return m.Packaging, true
	case "name":
		return m.Name, m.Name != ""
	case "id":
		return m.ID(), true
	case "basedir":
		return m.Basedir, m.Basedir != ""
	case "file":
		return m.File, m.File != ""
	}
	if m.Parent != nil {
		switch name {
		case "parent.groupId":
			return m.Parent.GroupID, true
		case "parent.artifactId":
			return m.Parent.ArtifactID, true
		case "parent.version":
			return m.Parent.Version, true
		case "parent.relativePath":
			return m.Parent.RelativePath, true
		}
	}
	return "", false
}
