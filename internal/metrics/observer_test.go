package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

func TestUploadObserver_RecordUpload(t *testing.T) {
	reg := prometheus.NewRegistry()
	observer, err := NewUploadObserver("test", reg)
	require.NoError(t, err)

	observer.RecordUpload("Cloudinary", model.ResourceTypeImage, 120*time.Millisecond, 1024, nil)
	observer.RecordUpload("Cloudinary", model.ResourceTypeImage, 80*time.Millisecond, 2048, nil)
	observer.RecordUpload("Cloudinary", model.ResourceTypeVideo, time.Second, 512, errors.New("boom"))

	assert.Equal(t, float64(3072), testutil.ToFloat64(observer.uploadBytes.WithLabelValues("Cloudinary")))
	assert.Equal(t, float64(1), testutil.ToFloat64(observer.uploadErrors.WithLabelValues("Cloudinary", "video")))
	assert.Equal(t, float64(0), testutil.ToFloat64(observer.uploadErrors.WithLabelValues("Cloudinary", "image")))
	assert.Equal(t, 2, testutil.CollectAndCount(observer.uploadDuration))
}

func TestNewUploadObserver_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewUploadObserver("test", reg)
	require.NoError(t, err)
	second, err := NewUploadObserver("test", reg)
	require.NoError(t, err)

	second.RecordUpload("S3", model.ResourceTypeAuto, time.Millisecond, 10, nil)
	assert.Equal(t, float64(10), testutil.ToFloat64(first.uploadBytes.WithLabelValues("S3")))
}

func TestUploadObserver_NilIsSafe(t *testing.T) {
	var observer *UploadObserver
	assert.NotPanics(t, func() {
		observer.RecordUpload("S3", model.ResourceTypeAuto, time.Millisecond, 1, nil)
	})
}
