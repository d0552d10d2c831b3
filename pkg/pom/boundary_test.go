package pom

import (
	"fmt"
	"testing"

	"github.com/matzehuels/versionrange/pkg/errors"
)

func TestExtractBoundaries(t *testing.T) {
	const root = `<project><artifactId>a</artifactId></project>`
	text := "<?xml version=\"1.0\"?>\n<!-- head -->\n" + root + "\n<!-- tail -->\n"

	intro, outro, err := ExtractBoundaries(text, func() (string, error) { return root, nil })
	if err != nil {
		t.Fatalf("ExtractBoundaries: %v", err)
	}
	if intro != "<?xml version=\"1.0\"?>\n<!-- head -->\n" {
		t.Errorf("intro = %q", intro)
	}
	if outro != "\n<!-- tail -->\n" {
		t.Errorf("outro = %q", outro)
	}
}

func TestExtractBoundariesFallback(t *testing.T) {
	text := "<?xml version=\"1.0\"?>\n" +
		"<!DOCTYPE project [\n  <!ENTITY v \"1.0\">\n]>\n" +
		"<?processing a=\"b>c\"?>\n" +
		"<project>&v;</project>\n" +
		"<!-- tail - with dash -->\n"

	intro, outro, err := ExtractBoundaries(text, func() (string, error) { return "<project>1.0</project>", nil })
	if err != nil {
		t.Fatalf("ExtractBoundaries: %v", err)
	}
	wantIntro := "<?xml version=\"1.0\"?>\n<!DOCTYPE project [\n  <!ENTITY v \"1.0\">\n]>\n<?processing a=\"b>c\"?>\n"
	if intro != wantIntro {
		t.Errorf("intro = %q, want %q", intro, wantIntro)
	}
	if outro != "\n<!-- tail - with dash -->\n" {
		t.Errorf("outro = %q", outro)
	}
}

func TestExtractBoundariesErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		render func() (string, error)
	}{
		{
			name:   "render fails",
			text:   "<project/>",
			render: func() (string, error) { return "", fmt.Errorf("boom") },
		},
		{
			name:   "no element",
			text:   "just text",
			render: func() (string, error) { return "<project />", nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ExtractBoundaries(tt.text, tt.render)
			if !errors.Is(err, errors.ErrCodeBoundary) {
				t.Errorf("err = %v, want %s", err, errors.ErrCodeBoundary)
			}
		})
	}
}
