package uploads

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

const (
	defaultMimeType     = "application/octet-stream"
	imageTransformation = "q_auto,f_auto"
)

// ClassifyMIME maps a MIME type to the resource type the media host expects.
// Images are images, audio is handled by the video pipeline, everything else is auto.
func ClassifyMIME(mimeType string) model.ResourceType {
	switch mt := baseMediaType(mimeType); {
	case strings.HasPrefix(mt, "image/"):
		return model.ResourceTypeImage
	case strings.HasPrefix(mt, "audio/"):
		return model.ResourceTypeVideo
	default:
		return model.ResourceTypeAuto
	}
}

// TransformationFor returns the incoming transformation applied for a resource type.
// Only images get one: automatic quality and automatic delivery format.
func TransformationFor(rt model.ResourceType) string {
	if rt == model.ResourceTypeImage {
		return imageTransformation
	}
	return ""
}

// DetectMIME returns the declared type of a multipart part, falling back to content
// sniffing when the client sent nothing useful.
func DetectMIME(declared string, data []byte) string {
	if mt := baseMediaType(declared); mt != "" && mt != defaultMimeType {
		return mt
	}
	if len(data) == 0 {
		return defaultMimeType
	}
	return baseMediaType(mimetype.Detect(data).String())
}

// baseMediaType lowercases a MIME type and strips its parameters
func baseMediaType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
