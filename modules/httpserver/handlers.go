package httpserver

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/upload-server/domain/outcome"
	"github.com/example/upload-server/domain/upload"
	"github.com/example/upload-server/modules/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono/pkg/types"
)

// handlerFunc is an outcome-returning request handler. Returning a
// confirmation or a failure routes through the shared outcome page; a
// handler that has already written its response returns (nil, nil).
type handlerFunc func(c *gin.Context) (*outcome.Confirmation, error)

// Handlers contains the HTTP request handlers for the upload server.
type Handlers struct {
	store        *storage.Store
	home         *template.Template
	pages        *Pages
	saveMetadata bool
	logger       types.Logger
	onHandled    func()
}

// NewHandlers creates a handlers instance. onHandled is invoked once
// per completed request, after the response has been written.
func NewHandlers(store *storage.Store, home *template.Template, pages *Pages,
	saveMetadata bool, logger types.Logger, onHandled func()) *Handlers {
	return &Handlers{
		store:        store,
		home:         home,
		pages:        pages,
		saveMetadata: saveMetadata,
		logger:       logger,
		onHandled:    onHandled,
	}
}

// wrap adapts an outcome-returning handler to gin, rendering failures
// and confirmations through the outcome page and logging one line per
// completed request with the page-build and total durations.
func (h *Handlers) wrap(fn handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		conf, err := fn(c)
		buildDur := time.Since(start)

		result := "Ok"
		switch {
		case err != nil:
			failure := outcome.AsFailure(err)
			h.pages.WriteFailure(c.Writer, failure)
			result = failure.Error()
		case conf != nil:
			h.pages.WriteConfirmation(c.Writer, conf)
		}
		totalDur := time.Since(start)

		h.logger.Info(
			fmt.Sprintf("%-6s [%8d us, %8d us] (%s) %s",
				c.Request.Method,
				buildDur.Microseconds(),
				totalDur.Microseconds(),
				result,
				c.Request.URL.String()),
			"request_id", c.GetString(requestIDKey),
		)

		if h.onHandled != nil {
			h.onHandled()
		}
	}
}

// Home renders the home page with the display name substituted for
// every occurrence of the name placeholder.
func (h *Handlers) Home(c *gin.Context) (*outcome.Confirmation, error) {
	var buf bytes.Buffer
	if err := h.home.Execute(&buf, nil); err != nil {
		return nil, outcome.Failuref(outcome.ServerError, "home page render error: %v", err)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil, nil
}

// StaticAsset serves one embedded asset by name.
func (h *Handlers) StaticAsset(c *gin.Context) (*outcome.Confirmation, error) {
	name := c.Param("name")
	data, ctype, ok := Asset(name)
	if !ok {
		return nil, outcome.Failuref(outcome.NotFound, "Asset %q not found", name)
	}
	c.Data(http.StatusOK, ctype, data)
	return nil, nil
}

// AssetsRoot rejects enumeration of the asset directory.
func (h *Handlers) AssetsRoot(_ *gin.Context) (*outcome.Confirmation, error) {
	return nil, outcome.Failuref(outcome.NotFound, "/assets is not enumeratable")
}

// Text accepts a urlencoded body holding exactly one "text" pair and
// persists the value verbatim.
func (h *Handlers) Text(c *gin.Context) (*outcome.Confirmation, error) {
	if c.Request.Method != http.MethodPost {
		return nil, outcome.Failuref(outcome.UserError, "Send POST to this path")
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, outcome.FromIOError(err, "Error receiving the data")
	}

	pairs, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, outcome.Failuref(outcome.UserError, "invalid form body: %v", err)
	}
	if len(pairs) == 0 {
		return nil, outcome.Failuref(outcome.UserError, "no arguments provided to /text")
	}

	values, ok := pairs["text"]
	if !ok {
		k, v := firstPair(pairs)
		return nil, outcome.Failuref(outcome.UserError,
			"invalid parameter %q with value %q", k, v)
	}
	if len(values) > 1 {
		return nil, outcome.Failuref(outcome.UserError,
			"invalid extra parameter %q with value %q", "text", values[1])
	}
	for k := range pairs {
		if k != "text" {
			return nil, outcome.Failuref(outcome.UserError,
				"invalid extra parameter %q with value %q", k, pairs[k][0])
		}
	}

	text := values[0]
	if _, err := h.store.WriteText(time.Now(), text); err != nil {
		return nil, outcome.FromIOError(err, "Write error")
	}
	return outcome.Confirmf("Saved text: %s", text), nil
}

// File accepts a multipart body with exactly one part named "file",
// streaming its content into a create-exclusive payload file. When
// metadata capture is on, the request's sidecar is written before the
// body is parsed, sharing the payload's timestamp.
func (h *Handlers) File(c *gin.Context) (*outcome.Confirmation, error) {
	if c.Request.Method != http.MethodPost {
		return nil, outcome.Failuref(outcome.UserError, "Send POST to this path")
	}

	now := time.Now()

	if h.saveMetadata {
		if _, err := h.store.WriteMetadata(now, upload.KindFile, "", c.Request); err != nil {
			return nil, outcome.FromIOError(err, "metadata write error")
		}
	}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		return nil, outcome.Failuref(outcome.ServerError, "multipart request error: %v", err)
	}

	saved := false
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, outcome.Failuref(outcome.ServerError, "multipart entry error: %v", err)
		}

		if part.FormName() != "file" {
			name := part.FormName()
			part.Close()
			return nil, outcome.Failuref(outcome.UserError,
				"invalid entry (expected only %q) %s", "file", name)
		}

		if err := h.savePart(now, part); err != nil {
			part.Close()
			return nil, err
		}
		part.Close()
		saved = true
	}

	if !saved {
		return nil, outcome.Failuref(outcome.UserError, "no entries provided")
	}
	return outcome.Confirmf("File uploaded!"), nil
}

// savePart streams one accepted multipart part into a payload file. A
// failure mid-stream deletes the partial file so no half-written
// payload is ever left behind.
func (h *Handlers) savePart(now time.Time, part *multipart.Part) error {
	name := ""
	if fn := part.FileName(); fn != "" {
		name = storage.SanitizeFilename(fn)
	}

	dst, err := h.store.Create(now, upload.KindFile, upload.RolePayload, name)
	if err != nil {
		return outcome.FromIOError(err, "create file error")
	}

	if _, err := io.Copy(dst, part); err != nil {
		dst.Close()
		if rmErr := os.Remove(dst.Name()); rmErr != nil {
			return outcome.Failuref(outcome.Unknown,
				"data partially saved: %v; partial file %q could not be removed: %v",
				err, filepath.Base(dst.Name()), rmErr)
		}
		return outcome.Failuref(outcome.Unknown,
			"data partially saved: %v; partial file removed", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return outcome.FromIOError(err, "data save error")
	}
	return nil
}

// NotFound is the fallthrough for unmatched routes, naming the first
// path segment in the message.
func (h *Handlers) NotFound(c *gin.Context) (*outcome.Confirmation, error) {
	segment := strings.SplitN(strings.TrimPrefix(c.Request.URL.Path, "/"), "/", 2)[0]
	return nil, outcome.Failuref(outcome.NotFound, "There's nothing at /%s", segment)
}

// firstPair returns a deterministic first key/value from a parsed form,
// since Go's form parsing does not preserve pair order.
func firstPair(pairs url.Values) (string, string) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	k := keys[0]
	return k, pairs[k][0]
}
