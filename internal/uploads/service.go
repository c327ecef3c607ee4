package uploads

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

var errNoPublicURL = errors.New("media host returned no public URL")

// UploadService classifies incoming files and forwards them to the media host
type UploadService struct {
	Host     MediaHost
	Folder   string
	Observer Observer
}

func NewUploadService(host MediaHost, folder string, observer Observer) *UploadService {
	if observer == nil {
		observer = nopObserver{}
	}
	return &UploadService{Host: host, Folder: folder, Observer: observer}
}

// Upload sends the file to the media host exactly once and returns the hosted result
// together with the resource type the file was classified as.
func (s *UploadService) Upload(ctx context.Context, file *model.MediaFile) (*model.UploadResult, model.ResourceType, error) {
	if file == nil || file.Size() == 0 {
		return nil, "", ErrNoFile
	}
	if file.MimeType == "" {
		file.MimeType = defaultMimeType
	}

	rt := ClassifyMIME(file.MimeType)
	opts := model.UploadOptions{
		ResourceType:   rt,
		Folder:         s.Folder,
		Transformation: TransformationFor(rt),
	}

	provider := s.Host.Name()
	start := time.Now()
	result, err := s.Host.Upload(ctx, file, opts)
	if err == nil && (result == nil || result.PublicURL == "") {
		err = errNoPublicURL
	}
	s.Observer.RecordUpload(provider, rt, time.Since(start), file.Size(), err)
	if err != nil {
		slog.ErrorContext(ctx, "media upload failed",
			"provider", provider,
			"resource_type", rt,
			"filename", file.Filename,
			"size", file.Size(),
			"error", err)
		return nil, rt, &UpstreamError{Provider: provider, Err: err}
	}

	slog.InfoContext(ctx, "media uploaded successfully",
		"provider", provider,
		"resource_type", rt,
		"public_id", result.PublicID,
		"size", file.Size())
	return result, rt, nil
}
