package storage

import (
	"io/fs"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/upload-server/domain/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	filename, err := store.WriteText(time.Now(), "hello")
	require.NoError(t, err)
	assert.Contains(t, filename, "text.txt--payload")

	data, err := os.ReadFile(filepath.Join(store.Dir(), filename))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCreateRefusesOverwrite(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now()

	first, err := store.Create(now, upload.KindFile, upload.RolePayload, "same.bin")
	require.NoError(t, err)
	_, err = first.WriteString("original")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Same instant, same name: the create-exclusive open must fail
	// rather than clobber the first upload.
	_, err = store.Create(now, upload.KindFile, upload.RolePayload, "same.bin")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	data, err := os.ReadFile(first.Name())
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestCreateDotDotNameStaysInsideDir(t *testing.T) {
	// ".." survives sanitization; the mangled name's fixed prefix and
	// suffix keep it a single path element inside the uploads dir.
	dir := t.TempDir()
	store := NewStore(dir)

	file, err := store.Create(time.Now(), upload.KindFile, upload.RolePayload, SanitizeFilename(".."))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, dir, filepath.Dir(file.Name()))
}

func TestWriteMetadata(t *testing.T) {
	store := NewStore(t.TempDir())

	req := httptest.NewRequest("POST", "http://example.com/file", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	req.Header.Add("Accept", "text/html")
	req.Header.Add("Accept", "text/plain")

	filename, err := store.WriteMetadata(time.Now(), upload.KindFile, "", req)
	require.NoError(t, err)
	assert.Contains(t, filename, "file.bin--metadata")

	data, err := os.ReadFile(filepath.Join(store.Dir(), filename))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "POST HTTP/1.1\n\n")
	assert.Contains(t, content, "User-Agent: test-agent\n")
	assert.Contains(t, content, "Content-Type: multipart/form-data; boundary=xyz\n")
	// Repeated header values keep their received order.
	assert.Contains(t, content, "Accept: text/html\nAccept: text/plain\n")
}

func TestWriteTextFailsOnMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := store.WriteText(time.Now(), "hello")
	require.Error(t, err)
}
