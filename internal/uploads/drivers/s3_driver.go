package drivers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// presignExpiry is the longest lifetime SigV4 allows for a presigned URL
const presignExpiry = 7 * 24 * time.Hour

// S3API is the subset of the S3 client used by S3Driver
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Presigner signs GET URLs for buckets without a public base URL
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Driver hosts media in an S3-compatible bucket
type S3Driver struct {
	Client        S3API
	PresignClient S3Presigner
	Bucket        string
	PublicURL     string // Optional: Base URL if files are public
}

func NewS3Driver(client *s3.Client, bucket string, publicURL string) *S3Driver {
	return &S3Driver{
		Client:        client,
		PresignClient: s3.NewPresignClient(client),
		Bucket:        bucket,
		PublicURL:     publicURL,
	}
}

func (d *S3Driver) Name() string {
	return "S3"
}

func (d *S3Driver) Upload(ctx context.Context, file *model.MediaFile, opts model.UploadOptions) (*model.UploadResult, error) {
	key := objectKey(file, opts)

	_, err := d.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentLength: aws.Int64(int64(file.Size())),
		ContentType:   aws.String(file.MimeType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := d.generateURL(ctx, key)
	if err != nil {
		if _, delErr := d.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(d.Bucket),
			Key:    aws.String(key),
		}); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned object", "key", key, "error", delErr)
		}
		return nil, err
	}

	return &model.UploadResult{PublicURL: url, PublicID: key}, nil
}

func (d *S3Driver) generateURL(ctx context.Context, key string) (string, error) {
	if d.PublicURL != "" {
		return fmt.Sprintf("%s/%s", d.PublicURL, key), nil
	}

	// Fallback to presigned URL
	presignedReq, err := d.PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return presignedReq.URL, nil
}
