package httpserver

import (
	"bytes"
	"strings"
	"testing"
)

func TestContentTypeForAsset(t *testing.T) {
	tests := []struct {
		name        string
		expected    string
		description string
	}{
		{"style.css", "text/css", "CSS file"},
		{"upload.js", "text/javascript", "JavaScript file"},
		{"home.html", "text/html", "HTML file"},
		{"notes.txt", "text/plain", "unlisted extension"},
		{"README", "text/plain", "no extension"},
		{"archive.tar.gz", "text/plain", "compound unlisted extension"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			result := contentTypeForAsset(tc.name)
			if result != tc.expected {
				t.Errorf("contentTypeForAsset(%q) = %q, expected %q",
					tc.name, result, tc.expected)
			}
		})
	}
}

func TestAssetLookup(t *testing.T) {
	data, ctype, ok := Asset("style.css")
	if !ok {
		t.Fatal("style.css should be embedded")
	}
	if len(data) == 0 {
		t.Error("style.css is empty")
	}
	if ctype != "text/css" {
		t.Errorf("content type = %q, expected text/css", ctype)
	}

	if _, _, ok := Asset("missing.css"); ok {
		t.Error("missing.css should not be found")
	}
}

func TestHomeTemplateSubstitutesEveryPlaceholder(t *testing.T) {
	tmpl, err := parseHomeTemplate("Testy McTestface")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		t.Fatalf("render error: %v", err)
	}

	rendered := buf.String()
	if strings.Contains(rendered, "#{name}") {
		t.Error("rendered home page still contains the raw placeholder")
	}

	raw, _, _ := Asset("home.html")
	occurrences := strings.Count(string(raw), "#{name}")
	if occurrences < 2 {
		t.Fatalf("home.html should use the placeholder more than once, found %d", occurrences)
	}
	if got := strings.Count(rendered, "Testy McTestface"); got != occurrences {
		t.Errorf("display name rendered %d times, expected %d", got, occurrences)
	}
}
