package pom

import (
	"strings"
	"testing"

	"github.com/matzehuels/versionrange/pkg/maven"
	"github.com/matzehuels/versionrange/pkg/project"
)

const fixturePOM = `<?xml version="1.0" encoding="UTF-8"?>
<!-- Licensed to the example foundation -->
<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
  <modelVersion>4.0.0</modelVersion>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>3</version>
  </parent>
  <artifactId>app</artifactId>
  <version>1.0.0-SNAPSHOT</version>
  <properties>
    <foo.version>1.0</foo.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>lib</artifactId>
      <version>1.0.0</version>
    </dependency>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>old</artifactId>
      <version>0.9.0</version>
    </dependency>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>foo-core</artifactId>
      <version>${foo.version}</version>
    </dependency>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>foo-extra</artifactId>
      <version>${foo.version}</version>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>sibling</artifactId>
      <version>${project.version}</version>
    </dependency>
  </dependencies>
  <build>
    <plugins>
      <plugin>
        <artifactId>maven-compiler-plugin</artifactId>
        <version>3.11.0</version>
      </plugin>
    </plugins>
  </build>
  <profiles>
    <profile>
      <id>extra</id>
      <dependencies>
        <dependency>
          <groupId>com.example</groupId>
          <artifactId>profiled</artifactId>
          <version>2.0</version>
        </dependency>
      </dependencies>
    </profile>
  </profiles>
</project>
<!-- end -->
`

func coord(artifactID string) maven.Coordinate {
	return maven.Coordinate{GroupID: "com.example", ArtifactID: artifactID}
}

func fixtureModel() *project.Model {
	return &project.Model{
		ModelVersion: "4.0.0",
		GroupID:      "com.example",
		ArtifactID:   "app",
		Version:      "1.0.0-SNAPSHOT",
		Packaging:    "jar",
		Parent:       &project.Parent{GroupID: "com.example", ArtifactID: "parent", Version: "3"},
		Properties:   map[string]string{"foo.version": "1.0"},
		Dependencies: []project.Dependency{
			{GroupID: "com.example", ArtifactID: "lib", Version: "1.0.0"},
			{GroupID: "com.example", ArtifactID: "old", Version: "0.9.0"},
			{GroupID: "com.example", ArtifactID: "foo-core", Version: "1.0"},
			{GroupID: "com.example", ArtifactID: "foo-extra", Version: "1.0"},
			{GroupID: "com.example", ArtifactID: "sibling", Version: "1.0.0-SNAPSHOT"},
		},
		Plugins: []project.Dependency{
			{GroupID: maven.DefaultPluginGroupID, ArtifactID: "maven-compiler-plugin", Version: "3.11.0"},
		},
		Profiles: []project.Profile{{ID: "extra"}},
	}
}

type runOptions struct {
	original             VersionMap
	updateProjectVersion bool
}

// run parses input, rewrites it with target and returns the resulting text.
func run(t *testing.T, input string, model *project.Model, target VersionMap, opts runOptions) (string, []Change, error) {
	t.Helper()
	env, err := ParseManifest([]byte(input), ReadOptions{LineSeparator: "\n"})
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	original := opts.original
	if original == nil {
		original = OriginalVersions(model)
	}
	rw := &Rewriter{
		Doc:                  env.Doc,
		Model:                model,
		Target:               target,
		Original:             original,
		UpdateProjectVersion: opts.updateProjectVersion,
	}
	changes, err := rw.Rewrite()
	if err != nil {
		return "", nil, err
	}
	return env.Text(), changes, nil
}

func replaceOnce(t *testing.T, s, old, new string) string {
	t.Helper()
	if !strings.Contains(s, old) {
		t.Fatalf("fixture does not contain %q", old)
	}
	return strings.Replace(s, old, new, 1)
}
