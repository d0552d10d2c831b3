package pom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/maven"
	"github.com/matzehuels/versionrange/pkg/project"
)

func TestRewriteNoTargetsKeepsBytes(t *testing.T) {
	got, changes, err := run(t, fixturePOM, fixtureModel(), VersionMap{}, runOptions{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %v, want none", changes)
	}
	if diff := cmp.Diff(fixturePOM, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteLiteralVersion(t *testing.T) {
	var buf bytes.Buffer
	env, err := ParseManifest([]byte(fixturePOM), ReadOptions{LineSeparator: "\n"})
	if err != nil {
		t.Fatal(err)
	}
	model := fixtureModel()
	rw := &Rewriter{
		Doc:      env.Doc,
		Model:    model,
		Target:   VersionMap{coord("lib"): "1.4.0"},
		Original: OriginalVersions(model),
		Logger:   log.New(&buf),
	}
	changes, err := rw.Rewrite()
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	want := replaceOnce(t, fixturePOM, "<version>1.0.0</version>", "<version>1.4.0</version>")
	if diff := cmp.Diff(want, env.Text()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	wantChanges := []Change{{Coordinate: coord("lib"), Kind: "dependency", From: "1.0.0", To: "1.4.0"}}
	if diff := cmp.Diff(wantChanges, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	out := buf.String()
	if !strings.Contains(out, "updating version") || !strings.Contains(out, "1.4.0") {
		t.Errorf("log output missing update line: %q", out)
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	target := VersionMap{
		coord("lib"):      "1.4.0",
		coord("foo-core"): "2.0",
		coord("parent"):   "4",
	}
	first, _, err := run(t, fixturePOM, fixtureModel(), target, runOptions{})
	if err != nil {
		t.Fatalf("first Rewrite: %v", err)
	}

	model := fixtureModel()
	model.Parent.Version = "4"
	model.Properties["foo.version"] = "2.0"
	model.Dependencies[0].Version = "1.4.0"
	model.Dependencies[2].Version = "2.0"
	model.Dependencies[3].Version = "2.0"
	second, changes, err := run(t, first, model, target, runOptions{})
	if err != nil {
		t.Fatalf("second Rewrite: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("second run changed %v", changes)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run mismatch (-first +second):\n%s", diff)
	}
}

func TestRewriteUnrelatedVersionUntouched(t *testing.T) {
	tests := []struct {
		name     string
		target   VersionMap
		original VersionMap
	}{
		{
			name:   "no target",
			target: VersionMap{coord("lib"): "1.4.0"},
		},
		{
			name:     "original differs",
			target:   VersionMap{coord("old"): "1.0.0"},
			original: VersionMap{coord("old"): "0.8.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := run(t, fixturePOM, fixtureModel(), tt.target, runOptions{original: tt.original})
			if err != nil {
				t.Fatalf("Rewrite: %v", err)
			}
			if !strings.Contains(got, "<artifactId>old</artifactId>\n      <version>0.9.0</version>") {
				t.Errorf("0.9.0 was rewritten:\n%s", got)
			}
		})
	}
}

func TestRewriteProperty(t *testing.T) {
	target := VersionMap{coord("foo-core"): "2.0", coord("foo-extra"): "2.0"}
	got, changes, err := run(t, fixturePOM, fixtureModel(), target, runOptions{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := replaceOnce(t, fixturePOM, "<foo.version>1.0</foo.version>", "<foo.version>2.0</foo.version>")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 1 || changes[0].Property != "foo.version" || changes[0].Kind != "property" {
		t.Errorf("changes = %v", changes)
	}
}

func TestRewritePropertyConflict(t *testing.T) {
	target := VersionMap{coord("foo-core"): "2.0", coord("foo-extra"): "3.0"}
	_, _, err := run(t, fixturePOM, fixtureModel(), target, runOptions{})
	if !errors.Is(err, errors.ErrCodeVersionConflict) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeVersionConflict)
	}
	msg := err.Error()
	for _, part := range []string{"(com.example:foo-extra)", "(3.0)", "(2.0)", "(foo.version)", "(com.example:app)"} {
		if !strings.Contains(msg, part) {
			t.Errorf("error %q does not mention %s", msg, part)
		}
	}
}

func TestRewriteInheritedExpression(t *testing.T) {
	tests := []struct {
		name   string
		target VersionMap
		want   string
	}{
		{
			name:   "same as project",
			target: VersionMap{coord("sibling"): "1.1.0", coord("app"): "1.1.0"},
			want:   fixturePOM,
		},
		{
			name:   "moved away from project",
			target: VersionMap{coord("sibling"): "1.2.0", coord("app"): "1.1.0"},
			want: strings.Replace(fixturePOM,
				"<version>${project.version}</version>", "<version>1.2.0</version>", 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := run(t, fixturePOM, fixtureModel(), tt.target, runOptions{})
			if err != nil {
				t.Fatalf("Rewrite: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewriteParent(t *testing.T) {
	got, changes, err := run(t, fixturePOM, fixtureModel(), VersionMap{coord("parent"): "4"}, runOptions{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := replaceOnce(t, fixturePOM, "<version>3</version>", "<version>4</version>")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 1 || changes[0].Kind != "parent" {
		t.Errorf("changes = %v", changes)
	}
}

func TestRewriteUnmappedParent(t *testing.T) {
	model := fixtureModel()
	original := OriginalVersions(model)
	original[coord("parent")] = "2"
	_, _, err := run(t, fixturePOM, model, VersionMap{}, runOptions{original: original})
	if !errors.Is(err, errors.ErrCodeUnmappedParent) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeUnmappedParent)
	}
}

func TestRewritePlugin(t *testing.T) {
	key := maven.Coordinate{GroupID: maven.DefaultPluginGroupID, ArtifactID: "maven-compiler-plugin"}
	got, _, err := run(t, fixturePOM, fixtureModel(), VersionMap{key: "3.12.1"}, runOptions{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := replaceOnce(t, fixturePOM, "<version>3.11.0</version>", "<version>3.12.1</version>")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteProfile(t *testing.T) {
	model := fixtureModel()
	model.ActiveProfiles = []project.Profile{{
		ID:           "extra",
		Dependencies: []project.Dependency{{GroupID: "com.example", ArtifactID: "profiled", Version: "2.0"}},
	}}
	got, changes, err := run(t, fixturePOM, model, VersionMap{coord("profiled"): "2.1"}, runOptions{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := replaceOnce(t, fixturePOM,
		"<artifactId>profiled</artifactId>\n          <version>2.0</version>",
		"<artifactId>profiled</artifactId>\n          <version>2.1</version>")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 1 || changes[0].Profile != "extra" {
		t.Errorf("changes = %v", changes)
	}
}

func TestRewriteProjectVersion(t *testing.T) {
	t.Run("existing element", func(t *testing.T) {
		got, _, err := run(t, fixturePOM, fixtureModel(), VersionMap{coord("app"): "1.1.0"}, runOptions{updateProjectVersion: true})
		if err != nil {
			t.Fatalf("Rewrite: %v", err)
		}
		want := replaceOnce(t, fixturePOM, "<version>1.0.0-SNAPSHOT</version>", "<version>1.1.0</version>")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("not mapped", func(t *testing.T) {
		_, _, err := run(t, fixturePOM, fixtureModel(), VersionMap{}, runOptions{updateProjectVersion: true})
		if !errors.Is(err, errors.ErrCodeUnmappedProjectVersion) {
			t.Fatalf("err = %v, want %s", err, errors.ErrCodeUnmappedProjectVersion)
		}
	})

	const inherited = `<project>
  <modelVersion>4.0.0</modelVersion>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>3</version>
  </parent>
  <artifactId>app</artifactId>
  <packaging>jar</packaging>
</project>
`
	inheritedModel := func() *project.Model {
		return &project.Model{
			GroupID:    "com.example",
			ArtifactID: "app",
			Version:    "3",
			Parent:     &project.Parent{GroupID: "com.example", ArtifactID: "parent", Version: "3"},
		}
	}

	t.Run("inserted after artifactId", func(t *testing.T) {
		got, changes, err := run(t, inherited, inheritedModel(), VersionMap{coord("app"): "3.1"}, runOptions{updateProjectVersion: true})
		if err != nil {
			t.Fatalf("Rewrite: %v", err)
		}
		want := replaceOnce(t, inherited,
			"<artifactId>app</artifactId>\n",
			"<artifactId>app</artifactId>\n  <version>3.1</version>\n")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
		if len(changes) != 1 || changes[0].From != "3" || changes[0].To != "3.1" {
			t.Errorf("changes = %v", changes)
		}
	})

	t.Run("same as parent", func(t *testing.T) {
		got, _, err := run(t, inherited, inheritedModel(), VersionMap{coord("app"): "3"}, runOptions{updateProjectVersion: true})
		if err != nil {
			t.Fatalf("Rewrite: %v", err)
		}
		if got != inherited {
			t.Errorf("version inserted although it equals the parent:\n%s", got)
		}
	})
}

func TestRewriteUnresolvedProperty(t *testing.T) {
	const withProperties = `<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1</version>
  <properties>
    <other>1</other>
  </properties>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>lib</artifactId>
      <version>${lib.version}</version>
    </dependency>
  </dependencies>
</project>
`
	withoutProperties := strings.Replace(withProperties, "  <properties>\n    <other>1</other>\n  </properties>\n", "", 1)

	for name, input := range map[string]string{
		"missing property":      withProperties,
		"no properties element": withoutProperties,
	} {
		t.Run(name, func(t *testing.T) {
			model := &project.Model{GroupID: "com.example", ArtifactID: "app", Version: "1"}
			_, _, err := run(t, input, model, VersionMap{coord("lib"): "2"}, runOptions{})
			if !errors.Is(err, errors.ErrCodeUnresolvedProperty) {
				t.Fatalf("err = %v, want %s", err, errors.ErrCodeUnresolvedProperty)
			}
			if !strings.Contains(err.Error(), "The version could not be updated: ${lib.version}") {
				t.Errorf("unexpected message %q", err)
			}
		})
	}
}

func TestChangeString(t *testing.T) {
	c := Change{Coordinate: coord("lib"), Kind: "property", Property: "lib.version", Profile: "ci", From: "1", To: "2"}
	want := "com.example:lib property lib.version (profile ci): 1 -> 2"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

const undefinedPropertyPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0.0</version>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>lib</artifactId>
      <version>${lib.version}</version>
    </dependency>
  </dependencies>
</project>
`

func TestRewriteUndefinedPropertyFromLoadedProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pom.xml")
	if err := os.WriteFile(path, []byte(undefinedPropertyPOM), 0o644); err != nil {
		t.Fatal(err)
	}
	model, err := project.Load(path, project.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	original := OriginalVersions(model)
	if v, ok := original[coord("lib")]; ok {
		t.Errorf("original[lib] = %q, want no entry for an uninterpolated version", v)
	}

	target := VersionMap{coord("lib"): "1.4.0", coord("app"): "1.0.0"}
	out, _, err := run(t, undefinedPropertyPOM, model, target, runOptions{})
	if !errors.Is(err, errors.ErrCodeUnresolvedProperty) {
		t.Fatalf("Rewrite error = %v, want %s", err, errors.ErrCodeUnresolvedProperty)
	}
	if strings.Contains(out, "<version>1.4.0</version>") {
		t.Errorf("expression was overwritten:\n%s", out)
	}
}
