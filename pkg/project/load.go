package project

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/maven"
	"github.com/matzehuels/versionrange/pkg/xmltree"
)

// LoadOptions configures [Load].
type LoadOptions struct {
	// Profiles lists profile ids to activate. An id prefixed with "!"
	// deactivates the profile, including one that is active by default.
	Profiles []string
}

// Load reads the POM at path and builds its snapshot. A parent POM found at
// the parent's relativePath (default ../pom.xml) contributes properties,
// dependencies, dependency management and plugin management when its
// coordinate and version match the declaration.
func Load(path string, opts LoadOptions) (*Model, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "error reading POM %s", path)
	}
	return load(abs, opts, map[string]bool{})
}

func load(path string, opts LoadOptions, visited map[string]bool) (*Model, error) {
	visited[path] = true

	pom, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	m := &Model{
		ModelVersion: trim(pom.ModelVersion),
		GroupID:      trim(pom.GroupID),
		ArtifactID:   trim(pom.ArtifactID),
		Version:      trim(pom.Version),
		Packaging:    trim(pom.Packaging),
		Name:         trim(pom.Name),
		Properties:   map[string]string{},
		File:         path,
		Basedir:      filepath.Dir(path),
	}
	if m.ModelVersion == "" {
		m.ModelVersion = "4.0.0"
	}
	if m.Packaging == "" {
		m.Packaging = "jar"
	}

	var parent *Model
	if pom.Parent != nil {
		m.Parent = &Parent{
			GroupID:      trim(pom.Parent.GroupID),
			ArtifactID:   trim(pom.Parent.ArtifactID),
			Version:      trim(pom.Parent.Version),
			RelativePath: trim(pom.Parent.RelativePath),
		}
		if m.GroupID == "" {
			m.GroupID = m.Parent.GroupID
		}
		if m.Version == "" {
			m.Version = m.Parent.Version
		}
		parent, err = loadParent(m, opts, visited)
		if err != nil {
			return nil, err
		}
	}

	if parent != nil {
		for k, v := range parent.Properties {
			m.Properties[k] = v
		}
	}
	for _, p := range pom.Properties.Entries {
		m.Properties[p.XMLName.Local] = trim(p.Value)
	}

	m.Profiles = make([]Profile, 0, len(pom.Profiles))
	for _, p := range pom.Profiles {
		m.Profiles = append(m.Profiles, p.convert())
	}
	m.ActiveProfiles = activeProfiles(m.Profiles, opts.Profiles)
	for _, p := range m.ActiveProfiles {
		for k, v := range p.Properties {
			m.Properties[k] = v
		}
	}

	m.Dependencies = convertDeps(pom.Dependencies)
	m.DependencyManagement = convertDeps(pom.DependencyManagement)
	m.Plugins = convertPlugins(pom.Build.Plugins)
	m.PluginManagement = convertPlugins(pom.Build.PluginManagement)

	if parent != nil {
		m.Dependencies = inherit(m.Dependencies, parent.Dependencies)
		m.DependencyManagement = inherit(m.DependencyManagement, parent.DependencyManagement)
		m.Plugins = inherit(m.Plugins, parent.Plugins)
		m.PluginManagement = inherit(m.PluginManagement, parent.PluginManagement)
	}

	if err := m.interpolateAll(); err != nil {
		return nil, err
	}
	return m, nil
}

// loadParent returns the local parent model, or nil when the parent is not
// available on disk or the file found there is a different project.
func loadParent(m *Model, opts LoadOptions, visited map[string]bool) (*Model, error) {
	rel := m.Parent.RelativePath
	if rel == "" {
		rel = "../pom.xml"
	}
	path := filepath.Join(m.Basedir, filepath.FromSlash(rel))
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	if _, err := os.Stat(path); err != nil || visited[path] {
		return nil, nil
	}

	parent, err := load(path, LoadOptions{}, visited)
	if err != nil {
		return nil, err
	}
	if parent.GroupID != m.Parent.GroupID || parent.ArtifactID != m.Parent.ArtifactID || parent.Version != m.Parent.Version {
		return nil, nil
	}
	return parent, nil
}

func (m *Model) interpolateAll() error {
	var err error
	if m.GroupID, err = m.interpolateLenient(m.GroupID); err != nil {
		return err
	}
	if m.ArtifactID, err = m.interpolateLenient(m.ArtifactID); err != nil {
		return err
	}
	if m.Version, err = m.interpolateLenient(m.Version); err != nil {
		return err
	}
	for k, v := range m.Properties {
		if m.Properties[k], err = m.interpolateLenient(v); err != nil {
			return err
		}
	}

	lists := []*[]Dependency{&m.Dependencies, &m.DependencyManagement, &m.Plugins, &m.PluginManagement}
	for i := range m.ActiveProfiles {
		p := &m.ActiveProfiles[i]
		lists = append(lists, &p.Dependencies, &p.DependencyManagement, &p.Plugins, &p.PluginManagement)
	}
	for _, list := range lists {
		for i := range *list {
			if err := m.interpolateDep(&(*list)[i]); err != nil {
				return err
			}
		}
	}

	managed := map[string]string{}
	for _, d := range m.DependencyManagement {
		managed[d.Coordinate().Key()] = d.Version
	}
	for i := range m.Dependencies {
		d := &m.Dependencies[i]
		if d.Version == "" {
			d.Version = managed[d.Coordinate().Key()]
		}
	}
	return nil
}

func (m *Model) interpolateDep(d *Dependency) error {
	var err error
	if d.GroupID, err = m.interpolateLenient(d.GroupID); err != nil {
		return err
	}
	if d.ArtifactID, err = m.interpolateLenient(d.ArtifactID); err != nil {
		return err
	}
	d.Version, err = m.interpolateLenient(d.Version)
	return err
}

// activeProfiles applies Maven's activation rules limited to explicit ids
// and activeByDefault.
func activeProfiles(profiles []Profile, ids []string) []Profile {
	explicit := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if name, ok := strings.CutPrefix(id, "!"); ok {
			explicit[name] = false
		} else {
			explicit[strings.TrimPrefix(id, "+")] = true
		}
	}

	var active []Profile
	for _, p := range profiles {
		if explicit[p.ID] {
			active = append(active, p)
		}
	}
	if len(active) > 0 {
		return active
	}
	for _, p := range profiles {
		if on, set := explicit[p.ID]; p.ActiveByDefault && (!set || on) {
			active = append(active, p)
		}
	}
	return active
}

func inherit(child, parent []Dependency) []Dependency {
	seen := make(map[string]bool, len(child))
	for _, d := range child {
		seen[d.Coordinate().Key()] = true
	}
	out := child
	for _, d := range parent {
		if !seen[d.Coordinate().Key()] {
			out = append(out, d)
		}
	}
	return out
}

func decodeFile(path string) (*pomProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "POM not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "error reading POM %s", path)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = xmltree.CharsetReader
	var pom pomProject
	if err := dec.Decode(&pom); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "error reading POM %s", path)
	}
	return &pom, nil
}

func trim(s string) string { return strings.TrimSpace(s) }

func convertDeps(in []pomDependency) []Dependency {
	if len(in) == 0 {
		return nil
	}
	out := make([]Dependency, 0, len(in))
	for _, d := range in {
		dep := Dependency{
			GroupID:    trim(d.GroupID),
			ArtifactID: trim(d.ArtifactID),
			Version:    trim(d.Version),
			Type:       trim(d.Type),
			Classifier: trim(d.Classifier),
			Scope:      trim(d.Scope),
		}
		if dep.Type == "" {
			dep.Type = "jar"
		}
		out = append(out, dep)
	}
	return out
}

func convertPlugins(in []pomPlugin) []Dependency {
	if len(in) == 0 {
		return nil
	}
	out := make([]Dependency, 0, len(in))
	for _, p := range in {
		dep := Dependency{
			GroupID:    trim(p.GroupID),
			ArtifactID: trim(p.ArtifactID),
			Version:    trim(p.Version),
			Type:       "maven-plugin",
		}
		if dep.GroupID == "" {
			dep.GroupID = maven.DefaultPluginGroupID
		}
		out = append(out, dep)
	}
	return out
}

func (p pomProfile) convert() Profile {
	props := make(map[string]string, len(p.Properties.Entries))
	for _, e := range p.Properties.Entries {
		props[e.XMLName.Local] = trim(e.Value)
	}
	return Profile{
		ID:                   trim(p.ID),
		ActiveByDefault:      trim(p.Activation.ActiveByDefault) == "true",
		Properties:           props,
		Dependencies:         convertDeps(p.Dependencies),
		DependencyManagement: convertDeps(p.DependencyManagement),
		Plugins:              convertPlugins(p.Build.Plugins),
		PluginManagement:     convertPlugins(p.Build.PluginManagement),
	}
}

type pomProject struct {
	XMLName              xml.Name        `xml:"project"`
	ModelVersion         string          `xml:"modelVersion"`
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Packaging            string          `xml:"packaging"`
	Name                 string          `xml:"name"`
	Parent               *pomParent      `xml:"parent"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Build                pomBuild        `xml:"build"`
	Profiles             []pomProfile    `xml:"profiles>profile"`
}

type pomParent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type pomProperties struct {
	Entries []pomProperty `xml:",any"`
}

type pomProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
}

type pomBuild struct {
	Plugins          []pomPlugin `xml:"plugins>plugin"`
	PluginManagement []pomPlugin `xml:"pluginManagement>plugins>plugin"`
}

type pomPlugin struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomProfile struct {
	ID         string `xml:"id"`
	Activation struct {
		ActiveByDefault string `xml:"activeByDefault"`
	} `xml:"activation"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Build                pomBuild        `xml:"build"`
}
