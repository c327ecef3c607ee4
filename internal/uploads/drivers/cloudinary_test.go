package drivers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// fakeUploader records the call and replays a canned response
type fakeUploader struct {
	file   interface{}
	params uploader.UploadParams
	calls  int
	resp   *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.calls++
	f.file = file
	f.params = params
	return f.resp, f.err
}

func TestCloudinaryDriver_UploadImage(t *testing.T) {
	fake := &fakeUploader{resp: &uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/uploads/cat.png",
		PublicID:  "uploads/cat",
	}}
	driver := &CloudinaryDriver{Uploader: fake}

	file := &model.MediaFile{Filename: "cat.png", MimeType: "image/png", Data: []byte("hello")}
	result, err := driver.Upload(context.Background(), file, model.UploadOptions{
		ResourceType:   model.ResourceTypeImage,
		Folder:         "uploads",
		Transformation: "q_auto,f_auto",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/uploads/cat.png", result.PublicURL)
	assert.Equal(t, "uploads/cat", result.PublicID)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", fake.file)
	assert.Equal(t, "image", fake.params.ResourceType)
	assert.Equal(t, "uploads", fake.params.Folder)
	assert.Equal(t, "q_auto,f_auto", fake.params.Transformation)
}

func TestCloudinaryDriver_AudioHasNoTransformation(t *testing.T) {
	fake := &fakeUploader{resp: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/video/upload/song.mp3"}}
	driver := &CloudinaryDriver{Uploader: fake}

	file := &model.MediaFile{Filename: "song.mp3", MimeType: "audio/mpeg", Data: []byte("ID3")}
	_, err := driver.Upload(context.Background(), file, model.UploadOptions{ResourceType: model.ResourceTypeVideo})

	require.NoError(t, err)
	assert.Equal(t, "video", fake.params.ResourceType)
	assert.Empty(t, fake.params.Transformation)
	assert.True(t, strings.HasPrefix(fake.file.(string), "data:audio/mpeg;base64,"))
}

func TestCloudinaryDriver_Errors(t *testing.T) {
	file := &model.MediaFile{Filename: "a.png", MimeType: "image/png", Data: []byte("x")}

	tests := []struct {
		name string
		fake *fakeUploader
		want string
	}{
		{"transport error", &fakeUploader{err: errors.New("dial tcp: timeout")}, "dial tcp: timeout"},
		{"error body", &fakeUploader{resp: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid Signature"}}}, "Invalid Signature"},
		{"missing url", &fakeUploader{resp: &uploader.UploadResult{PublicID: "x"}}, "missing secure_url"},
		{"nil response", &fakeUploader{}, "empty response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := &CloudinaryDriver{Uploader: tt.fake}
			_, err := driver.Upload(context.Background(), file, model.UploadOptions{ResourceType: model.ResourceTypeImage})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewCloudinaryDriver(t *testing.T) {
	driver, err := NewCloudinaryDriver("demo", "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Cloudinary", driver.Name())
	assert.NotNil(t, driver.Uploader)
}
