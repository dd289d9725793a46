package entities

import "strings"

// UploadType selects how submitted files are materialized
type UploadType string

const (
	// UploadArchive is a single archive holding the whole project
	UploadArchive UploadType = "archive"
	// UploadFileSet is a loose list of files copied by name
	UploadFileSet UploadType = "fileSet"
)

// ParseUploadType normalizes a raw upload type, accepting the legacy
// form values "zip" and "files". The second result is false for unknown values.
func ParseUploadType(raw string) (UploadType, bool) {
	switch strings.TrimSpace(raw) {
	case "archive", "zip":
		return UploadArchive, true
	case "fileSet", "fileset", "files":
		return UploadFileSet, true
	default:
		return UploadType(raw), false
	}
}

// UploadFile is one submitted file already spooled to a temporary path
type UploadFile struct {
	OriginalName string
	Path         string
	SHA256       string // Optional expected digest (hex)
}

// Upload is the request-boundary descriptor handed over by a transport
type Upload struct {
	Type      string
	Files     []UploadFile
	Signature string // Optional detached OpenPGP signature for an archive upload
}
