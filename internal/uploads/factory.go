package uploads

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OpenNSW/media-upload/internal/config"
	"github.com/OpenNSW/media-upload/internal/uploads/drivers"
)

// NewMediaHostFromConfig creates the media host selected by the provided configuration
func NewMediaHostFromConfig(ctx context.Context, cfg config.MediaConfig) (MediaHost, error) {
	switch cfg.Provider {
	case config.ProviderCloudinary:
		slog.Info("Initializing Cloudinary media host", "cloudinary", cfg.Cloudinary, "folder", cfg.Folder)
		return drivers.NewCloudinaryDriver(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	case config.ProviderLocal:
		slog.Info("Initializing local media host", "dir", cfg.Storage.LocalBaseDir)
		return drivers.NewLocalFSDriver(cfg.Storage.LocalBaseDir, cfg.Storage.LocalPublicURL)
	case config.ProviderS3:
		storage := cfg.Storage
		slog.Info("Initializing S3 media host", "endpoint", storage.S3Endpoint, "bucket", storage.S3Bucket)

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(storage.S3Region),
		}

		if storage.S3AccessKey != "" && storage.S3SecretKey != "" {
			creds := credentials.NewStaticCredentialsProvider(storage.S3AccessKey, storage.S3SecretKey, "")
			opts = append(opts, awsconfig.WithCredentialsProvider(creds))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if storage.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(storage.S3Endpoint)
			}
			o.UsePathStyle = true
		})

		return drivers.NewS3Driver(client, storage.S3Bucket, storage.S3PublicURL), nil
	default:
		return nil, fmt.Errorf("unsupported media provider: %s", cfg.Provider)
	}
}
