package maven

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArtifact(t *testing.T) {
	tests := []struct {
		input   string
		want    Artifact
		wantErr bool
	}{
		{
			input: "com.example:lib:[1.0.0,)",
			want: Artifact{
				Coordinate: Coordinate{GroupID: "com.example", ArtifactID: "lib"},
				Extension:  "jar",
				Version:    "[1.0.0,)",
			},
		},
		{
			input: "com.example:lib:pom:1.2",
			want: Artifact{
				Coordinate: Coordinate{GroupID: "com.example", ArtifactID: "lib"},
				Extension:  "pom",
				Version:    "1.2",
			},
		},
		{
			input: "com.example:lib:jar:tests:(,2.0)",
			want: Artifact{
				Coordinate: Coordinate{GroupID: "com.example", ArtifactID: "lib"},
				Extension:  "jar",
				Classifier: "tests",
				Version:    "(,2.0)",
			},
		},
		{input: "com.example:lib", wantErr: true},
		{input: "com.example::1.0", wantErr: true},
		{input: "com example:lib:1.0", wantErr: true},
		{input: "a:b:c:d:e:f", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseArtifact(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseArtifact(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseArtifact(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCoordinate(t *testing.T) {
	c := Coordinate{GroupID: "org.apache.commons", ArtifactID: "commons-lang3"}
	if c.Key() != "org.apache.commons:commons-lang3" {
		t.Errorf("Key() = %q", c.Key())
	}
	if c.Path() != "org/apache/commons/commons-lang3" {
		t.Errorf("Path() = %q", c.Path())
	}
	if err := (Coordinate{GroupID: "..", ArtifactID: "x"}).Validate(); err == nil {
		t.Error("Validate should reject path traversal")
	}
}
