package keyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/versionrange/pkg/errors"
)

func TestParse(t *testing.T) {
	input := "# tracked artifacts\n" +
		"com.example:lib:[1.0.0,)=\n" +
		"  org.example\\:tool\\:jar\\:[3.0,4.0)  = ignored: value\n" +
		"! another comment\n" +
		"\n" +
		"com.example:lib:[1.0.0,)\n" +
		"com.example:multi:(,2.0]=first \\\n" +
		"   second:line\n" +
		"net.example:plain:1.2.3\r\n"

	got, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{
		"com.example:lib:[1.0.0,)",
		"org.example:tool:jar:[3.0,4.0)",
		"com.example:multi:(,2.0]",
		"net.example:plain:1.2.3",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultName), []byte("com.example:lib:[1.0.0,)=\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"com.example:lib:[1.0.0,)"}, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "adir.properties"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		filename string
		code     errors.Code
	}{
		{"missing", "missing.properties", errors.ErrCodeFileNotFound},
		{"directory", "adir.properties", errors.ErrCodeKeyFile},
		{"path in name", "sub/versions.properties", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(dir, tt.filename)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingNamesPathAndFile(t *testing.T) {
	_, err := Load("/nonexistent/dir", "versions.properties")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "unable to find 'versions.properties'; path='/nonexistent/dir'"
	if got := errors.UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}
