package httpserver

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/example/upload-server/domain/outcome"
)

// pageData feeds the outcome page template. The same page renders both
// failures and confirmations.
type pageData struct {
	Status      int
	Description string
	Message     string
}

// Pages renders every user-visible outcome through one HTML template.
type Pages struct {
	tmpl *template.Template
}

// NewPages parses the embedded outcome page template.
func NewPages() (*Pages, error) {
	tmpl, err := template.New("page").Parse(pageTemplateSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse outcome page template: %w", err)
	}
	return &Pages{tmpl: tmpl}, nil
}

// WriteFailure renders a failure page at the failure's HTTP status.
func (p *Pages) WriteFailure(w http.ResponseWriter, f *outcome.Failure) {
	p.write(w, pageData{
		Status:      f.Kind.HTTPStatus(),
		Description: f.Kind.Description(),
		Message:     f.Msg,
	})
}

// WriteConfirmation renders a confirmation page with a 200.
func (p *Pages) WriteConfirmation(w http.ResponseWriter, c *outcome.Confirmation) {
	p.write(w, pageData{
		Status:      outcome.Success.HTTPStatus(),
		Description: outcome.Success.Description(),
		Message:     c.Msg,
	})
}

func (p *Pages) write(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		http.Error(w, data.Message, data.Status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(data.Status)
	_, _ = w.Write(buf.Bytes())
}
