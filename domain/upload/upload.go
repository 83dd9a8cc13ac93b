package upload

// Kind tells whether a stored artifact came in through the text path or
// the file path. It selects the filename suffix used when the client
// supplies no name of its own.
type Kind int

const (
	KindText Kind = iota
	KindFile
)

// Suffix returns the filename suffix for the kind.
func (k Kind) Suffix() string {
	switch k {
	case KindText:
		return "text.txt"
	case KindFile:
		return "file.bin"
	}
	return "unknown.bin"
}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Role distinguishes the uploaded content itself from the optional
// sidecar recording the originating request's headers. A stored file
// always carries both a kind and a role in its name.
type Role int

const (
	RolePayload Role = iota
	RoleMetadata
)

// Label returns the role tag appended to stored filenames.
func (r Role) Label() string {
	switch r {
	case RolePayload:
		return "payload"
	case RoleMetadata:
		return "metadata"
	}
	return "unknown"
}

func (r Role) String() string {
	return r.Label()
}
