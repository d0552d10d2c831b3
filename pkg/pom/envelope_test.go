package pom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/versionrange/pkg/errors"
)

func TestParseManifestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ls   string
		want []byte
	}{
		{
			name: "fixture",
			data: []byte(fixturePOM),
			ls:   "\n",
			want: []byte(fixturePOM),
		},
		{
			name: "latin-1",
			data: []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><name>Caf\xe9</name></project>\n"),
			ls:   "\n",
			want: []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><name>Caf\xe9</name></project>\n"),
		},
		{
			name: "byte order mark",
			data: []byte("\xef\xbb\xbf<project></project>\n"),
			ls:   "\n",
			want: []byte("\xef\xbb\xbf<project></project>\n"),
		},
		{
			name: "crlf to lf",
			data: []byte("<project>\r\n  <a>1</a>\r\n</project>\r\n"),
			ls:   "\n",
			want: []byte("<project>\n  <a>1</a>\n</project>\n"),
		},
		{
			name: "lf to crlf",
			data: []byte("<project>\n  <a>1</a>\n</project>\n"),
			ls:   "\r\n",
			want: []byte("<project>\r\n  <a>1</a>\r\n</project>\r\n"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseManifest(tt.data, ReadOptions{LineSeparator: tt.ls})
			if err != nil {
				t.Fatalf("ParseManifest: %v", err)
			}
			got, err := env.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Bytes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseManifestDecodesText(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><name>Caf\xe9</name></project>\n")
	env, err := ParseManifest(data, ReadOptions{LineSeparator: "\n"})
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if env.Encoding != "ISO-8859-1" {
		t.Errorf("Encoding = %q", env.Encoding)
	}
	if name, _ := env.Doc.ChildText(env.Root, "name"); name != "Café" {
		t.Errorf("name = %q, want %q", name, "Café")
	}
}

func TestParseManifestTagRepair(t *testing.T) {
	data := []byte("<project  xmlns=\"x\"><optional/></project>")

	env, err := ParseManifest(data, ReadOptions{LineSeparator: "\n"})
	if err != nil {
		t.Fatal(err)
	}
	if got := env.Text(); got != string(data) {
		t.Errorf("default Text() = %q, want input unchanged", got)
	}

	env, err = ParseManifest(data, ReadOptions{LineSeparator: "\n", RepairTagWhitespace: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := env.Text(); got != `<project xmlns="x"><optional /></project>` {
		t.Errorf("repaired Text() = %q", got)
	}
}

const multiLineRoot = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
  <modelVersion>4.0.0</modelVersion>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>lib</artifactId>
      <version>1.0.0</version>
      <optional/>
    </dependency>
  </dependencies>
</project>
`

func TestParseManifestMultiLineStartTag(t *testing.T) {
	env, err := ParseManifest([]byte(multiLineRoot), ReadOptions{LineSeparator: "\n"})
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if diff := cmp.Diff(multiLineRoot, env.Text()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	env, err = ParseManifest([]byte(multiLineRoot), ReadOptions{LineSeparator: "\n", RepairTagWhitespace: true})
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	want := `<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">`
	if got := env.Text(); !strings.Contains(got, want+"\n") {
		t.Errorf("repaired start tag not joined onto one line:\n%s", got)
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"unclosed", "<project>", errors.ErrCodeInvalidManifest},
		{"no root", "<!-- nothing -->", errors.ErrCodeInvalidManifest},
		{"unknown encoding", `<?xml version="1.0" encoding="x-no-such"?><project/>`, errors.ErrCodeReadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data), ReadOptions{LineSeparator: "\n"})
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte(fixturePOM), 0o644); err != nil {
		t.Fatal(err)
	}
	env, err := ReadManifest(path, ReadOptions{LineSeparator: "\n"})
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if env.Doc.Name(env.Root) != "project" {
		t.Errorf("root = %q", env.Doc.Name(env.Root))
	}

	_, err = ReadManifest(filepath.Join(dir, "missing.xml"), ReadOptions{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
