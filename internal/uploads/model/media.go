package model

import (
	"encoding/base64"
	"strings"
)

// ResourceType is the coarse classification the media host uses to pick a processing pipeline.
type ResourceType string

const (
	ResourceTypeImage ResourceType = "image"
	// ResourceTypeVideo also covers audio: hosted audio goes through the video pipeline.
	ResourceTypeVideo ResourceType = "video"
	ResourceTypeAuto  ResourceType = "auto"
)

// MediaFile is an uploaded file buffered in memory for the lifetime of one request.
type MediaFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// Size returns the number of buffered bytes
func (f *MediaFile) Size() int {
	return len(f.Data)
}

// DataURI encodes the buffer as data:<mime>;base64,<payload>
func (f *MediaFile) DataURI() string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(f.MimeType) + base64.StdEncoding.EncodedLen(len(f.Data)))
	b.WriteString("data:")
	b.WriteString(f.MimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(f.Data))
	return b.String()
}

// UploadOptions controls how the media host stores the file
type UploadOptions struct {
	ResourceType ResourceType
	Folder       string
	// Transformation is an incoming transformation in the host's URL syntax, empty for none.
	Transformation string
}

// UploadResult is what the media host reports back after a successful upload
type UploadResult struct {
	PublicURL string
	PublicID  string
}

// UploadResponse is the JSON body returned by POST /upload
type UploadResponse struct {
	Success      bool         `json:"success"`
	PublicURL    string       `json:"publicUrl,omitempty"`
	ResourceType ResourceType `json:"resourceType,omitempty"`
	Message      string       `json:"message"`
	Error        string       `json:"error,omitempty"`
}
