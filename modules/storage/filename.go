package storage

import (
	"fmt"
	"time"

	"github.com/example/upload-server/domain/upload"
)

// timestampLayout formats local time to microsecond precision in a form
// that sorts lexicographically in arrival order.
const timestampLayout = "2006-01-02--15:04:05.000000"

// MangleFilename builds the stored filename for an upload:
//
//	{timestamp}--[{name}--]{kind-suffix}--{role-label}
//
// The timestamp is captured once per upload and shared between a
// payload and its metadata sidecar so the two sort adjacently. The name
// fragment, when present, must already be sanitized. Two calls with the
// same instant but different names never collide; two uploads landing
// in the same microsecond with the same name do, and the store's
// create-exclusive open surfaces that as an error rather than an
// overwrite.
func MangleFilename(now time.Time, kind upload.Kind, role upload.Role, name string) string {
	ts := now.Format(timestampLayout)
	if name != "" {
		return fmt.Sprintf("%s--%s--%s--%s", ts, name, kind.Suffix(), role.Label())
	}
	return fmt.Sprintf("%s--%s--%s", ts, kind.Suffix(), role.Label())
}
