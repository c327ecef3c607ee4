package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// CloudinaryUploader is the part of the Cloudinary upload API the driver needs
type CloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryDriver uploads data URIs through the Cloudinary upload API
type CloudinaryDriver struct {
	Uploader CloudinaryUploader
}

// NewCloudinaryDriver builds a driver from account credentials. Delivery URLs are HTTPS.
func NewCloudinaryDriver(cloudName, apiKey, apiSecret string) (*CloudinaryDriver, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryDriver{Uploader: &cld.Upload}, nil
}

func (d *CloudinaryDriver) Name() string {
	return "Cloudinary"
}

func (d *CloudinaryDriver) Upload(ctx context.Context, file *model.MediaFile, opts model.UploadOptions) (*model.UploadResult, error) {
	params := uploader.UploadParams{
		ResourceType:   string(opts.ResourceType),
		Folder:         opts.Folder,
		Transformation: opts.Transformation,
	}

	resp, err := d.Uploader.Upload(ctx, file.DataURI(), params)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("empty response from cloudinary")
	}
	// The API reports failures such as bad credentials in the body rather than as a Go error
	if resp.Error.Message != "" {
		return nil, errors.New(resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, errors.New("cloudinary response is missing secure_url")
	}

	return &model.UploadResult{PublicURL: resp.SecureURL, PublicID: resp.PublicID}, nil
}
