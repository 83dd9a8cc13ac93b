package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed assets
var assetFS embed.FS

//go:embed templates/error_page.html
var pageTemplateSource string

// contentTypeByExt maps asset file extensions to MIME types. Anything
// not listed is served as plain text.
var contentTypeByExt = map[string]string{
	"css":  "text/css",
	"js":   "text/javascript",
	"html": "text/html",
}

const defaultContentType = "text/plain"

// Asset looks up an embedded static asset by name and returns its bytes
// together with the content type inferred from the extension.
func Asset(name string) ([]byte, string, bool) {
	data, err := assetFS.ReadFile("assets/" + name)
	if err != nil {
		return nil, "", false
	}
	return data, contentTypeForAsset(name), true
}

// contentTypeForAsset infers the content type from the last
// dot-separated segment of the asset name.
func contentTypeForAsset(name string) string {
	parts := strings.Split(name, ".")
	ext := parts[len(parts)-1]
	if ctype, ok := contentTypeByExt[ext]; ok {
		return ctype
	}
	return defaultContentType
}

// homePlaceholderOpen/Close are the template delimiters of the home
// page asset. The asset's documented contract is the literal token
// #{name}: every occurrence renders as the configured display name.
const (
	homePlaceholderOpen  = "#{"
	homePlaceholderClose = "}"
)

// parseHomeTemplate parses the embedded home page, binding the name
// placeholder to the configured display name.
func parseHomeTemplate(displayName string) (*template.Template, error) {
	data, _, ok := Asset("home.html")
	if !ok {
		return nil, fmt.Errorf("embedded asset home.html is missing")
	}
	return template.New("home").
		Delims(homePlaceholderOpen, homePlaceholderClose).
		Funcs(template.FuncMap{
			"name": func() string { return displayName },
		}).
		Parse(string(data))
}
