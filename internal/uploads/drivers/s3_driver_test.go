package drivers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

type fakeS3 struct {
	putInput   *s3.PutObjectInput
	putBody    []byte
	putErr     error
	deletedKey string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putInput = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.putBody = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletedKey = *params.Key
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.example.com/" + *params.Key + "?X-Amz-Signature=abc"}, nil
}

func TestS3Driver_UploadWithPublicURL(t *testing.T) {
	client := &fakeS3{}
	driver := &S3Driver{Client: client, PresignClient: &fakePresigner{}, Bucket: "media", PublicURL: "https://cdn.example.com"}

	file := &model.MediaFile{Filename: "Cat.PNG", MimeType: "image/png", Data: []byte("png bytes")}
	result, err := driver.Upload(context.Background(), file, model.UploadOptions{
		ResourceType: model.ResourceTypeImage,
		Folder:       "uploads",
	})

	require.NoError(t, err)
	assert.Equal(t, "S3", driver.Name())
	assert.Equal(t, "media", *client.putInput.Bucket)
	assert.Equal(t, "image/png", *client.putInput.ContentType)
	assert.Equal(t, int64(9), *client.putInput.ContentLength)
	assert.Equal(t, []byte("png bytes"), client.putBody)

	key := *client.putInput.Key
	assert.True(t, strings.HasPrefix(key, "uploads/image/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, key, result.PublicID)
	assert.Equal(t, "https://cdn.example.com/"+key, result.PublicURL)
}

func TestS3Driver_UploadPresigned(t *testing.T) {
	client := &fakeS3{}
	driver := &S3Driver{Client: client, PresignClient: &fakePresigner{}, Bucket: "media"}

	file := &model.MediaFile{Filename: "song", MimeType: "audio/mpeg", Data: []byte("ID3")}
	result, err := driver.Upload(context.Background(), file, model.UploadOptions{ResourceType: model.ResourceTypeVideo})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.PublicURL, "https://bucket.s3.example.com/video/"), result.PublicURL)
	assert.Contains(t, result.PublicURL, "X-Amz-Signature")
	assert.True(t, strings.HasSuffix(*client.putInput.Key, ".mp3"), *client.putInput.Key)
}

func TestS3Driver_PutFailure(t *testing.T) {
	client := &fakeS3{putErr: errors.New("AccessDenied")}
	driver := &S3Driver{Client: client, PresignClient: &fakePresigner{}, Bucket: "media"}

	_, err := driver.Upload(context.Background(), &model.MediaFile{MimeType: "image/png", Data: []byte("x")}, model.UploadOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestS3Driver_PresignFailureCleansUp(t *testing.T) {
	client := &fakeS3{}
	driver := &S3Driver{Client: client, PresignClient: &fakePresigner{err: errors.New("no credentials")}, Bucket: "media"}

	_, err := driver.Upload(context.Background(), &model.MediaFile{Filename: "a.pdf", MimeType: "application/pdf", Data: []byte("%PDF")}, model.UploadOptions{ResourceType: model.ResourceTypeAuto})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to presign URL")
	assert.Equal(t, *client.putInput.Key, client.deletedKey)
}
