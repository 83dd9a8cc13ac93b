package storage

// validFilenameByte reports whether c may appear in a client-supplied
// filename fragment. Anything outside [A-Za-z0-9._] is unsafe.
func validFilenameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '_':
		return true
	}
	return false
}

// SanitizeFilename restricts an untrusted filename fragment to the safe
// character set [A-Za-z0-9._]. The input is treated as an opaque byte
// sequence; every maximal run of invalid bytes collapses to a single
// underscore, so the output is never longer than the input. The result
// is only ever used as one element of a mangled filename, never as a
// path on its own.
func SanitizeFilename(name string) string {
	out := make([]byte, 0, len(name))
	skipped := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if validFilenameByte(c) {
			out = append(out, c)
			skipped = false
			continue
		}
		if !skipped {
			out = append(out, '_')
			skipped = true
		}
	}
	return string(out)
}
