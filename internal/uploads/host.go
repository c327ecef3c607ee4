package uploads

import (
	"context"
	"errors"
	"time"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// MediaHost is a managed service that stores a file and hands back a public URL
type MediaHost interface {
	// Name is the human-readable provider name used in response messages and metric labels
	Name() string

	// Upload sends the file to the provider in a single call
	Upload(ctx context.Context, file *model.MediaFile, opts model.UploadOptions) (*model.UploadResult, error)
}

// ErrNoFile is returned when a request carries no file, or an empty one
var ErrNoFile = errors.New("no file uploaded")

// UpstreamError reports a failure of the media host. Its message is the provider's own.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Observer captures telemetry for upload attempts
type Observer interface {
	RecordUpload(provider string, rt model.ResourceType, duration time.Duration, sizeBytes int, err error)
}

type nopObserver struct{}

func (nopObserver) RecordUpload(string, model.ResourceType, time.Duration, int, error) {}
