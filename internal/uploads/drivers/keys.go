package drivers

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// objectKey builds <folder>/<resourceType>/<uuid><ext> for hosts that store raw bytes
func objectKey(file *model.MediaFile, opts model.UploadOptions) string {
	name := uuid.New().String() + extensionFor(file)
	return path.Join(opts.Folder, string(opts.ResourceType), name)
}

// extensionFor prefers the client's file extension and falls back to the MIME type
func extensionFor(file *model.MediaFile) string {
	if ext := strings.ToLower(filepath.Ext(filepath.Base(file.Filename))); ext != "" && ext != "." {
		return ext
	}
	if m := mimetype.Lookup(file.MimeType); m != nil {
		return m.Extension()
	}
	return ""
}
