package storage

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/upload-server/domain/upload"
)

// Store writes uploads into a flat directory. Every file is opened with
// create-exclusive semantics, so the filesystem itself guarantees that
// no upload ever silently overwrites another; a name collision surfaces
// as an error to the caller.
type Store struct {
	dir string
}

// NewStore creates a store over an uploads directory. The directory is
// validated by the module at startup, not per call.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the uploads directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Create opens a new upload file for writing. The name fragment, when
// non-empty, must already be sanitized. Fails if the target path exists.
func (s *Store) Create(now time.Time, kind upload.Kind, role upload.Role, name string) (*os.File, error) {
	filename := MangleFilename(now, kind, role, name)
	path := filepath.Join(s.dir, filename)
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// WriteText persists a text upload verbatim and returns the stored
// filename.
func (s *Store) WriteText(now time.Time, text string) (string, error) {
	file, err := s.Create(now, upload.KindText, upload.RolePayload, "")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		return "", err
	}
	return filepath.Base(file.Name()), nil
}

// WriteMetadata persists a sidecar recording the request line and
// headers of the originating request, and returns the stored filename.
// Go's HTTP stack canonicalizes headers into a map, so header names are
// written in sorted order; values keep their received order per name.
func (s *Store) WriteMetadata(now time.Time, kind upload.Kind, name string, req *http.Request) (string, error) {
	file, err := s.Create(now, kind, upload.RoleMetadata, name)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", req.Method, req.Proto)

	names := make([]string, 0, len(req.Header))
	for n := range req.Header {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		for _, v := range req.Header[n] {
			fmt.Fprintf(&b, "%s: %s\n", n, v)
		}
	}

	if _, err := file.WriteString(b.String()); err != nil {
		return "", err
	}
	return filepath.Base(file.Name()), nil
}
