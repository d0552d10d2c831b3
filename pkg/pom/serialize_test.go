package pom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/versionrange/pkg/xmltree"
)

func TestPrepareRoot(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already declared",
			input: fixturePOM,
			want:  fixturePOM,
		},
		{
			name:  "bare root",
			input: "<project>\n  <dependencies xmlns=\"\">\n  </dependencies>\n</project>",
			want: `<project xmlns="http://maven.apache.org/POM/4.0.0"` +
				` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
				` xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/maven-v4_0_0.xsd">` +
				"\n  <dependencies>\n  </dependencies>\n</project>",
		},
		{
			name:  "custom xsi prefix",
			input: `<project xmlns:s="http://www.w3.org/2001/XMLSchema-instance" s:schemaLocation="x"></project>`,
			want:  `<project xmlns:s="http://www.w3.org/2001/XMLSchema-instance" s:schemaLocation="x" xmlns="http://maven.apache.org/POM/4.0.0"></project>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseManifest([]byte(tt.input), ReadOptions{LineSeparator: "\n"})
			if err != nil {
				t.Fatalf("ParseManifest: %v", err)
			}
			PrepareRoot(env.Doc, env.Root, "4.0.0")
			if diff := cmp.Diff(tt.want, env.Text()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrepareRootKeepsExistingLocation(t *testing.T) {
	doc, err := xmltree.Parse(`<project xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="keep"/>`)
	if err != nil {
		t.Fatal(err)
	}
	PrepareRoot(doc, doc.Root(), "4.0.0")
	if v, _ := doc.Attr(doc.Root(), "xsi", "schemaLocation"); v != "keep" {
		t.Errorf("schemaLocation = %q", v)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q", got)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", fi.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "pom.xml")
	if err := WriteFile(path, []byte("x")); err == nil {
		t.Fatal("expected error")
	}
}
