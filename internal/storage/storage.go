package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// UploadInput represents one blob to persist.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult describes the stored artifact.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader stores media blobs for department galleries.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// MediaKey builds the object key for a department media upload, mirroring the
// gallery layout: departments/<id>/<type>s/<filename>.
func MediaKey(departmentID, mediaType, filename string) string {
	name := path.Base(strings.TrimSpace(filename))
	return fmt.Sprintf("departments/%s/%ss/%s", departmentID, mediaType, name)
}
