package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// UploadObserver exports media upload metrics to Prometheus.
type UploadObserver struct {
	uploadDuration *prometheus.HistogramVec
	uploadErrors   *prometheus.CounterVec
	uploadBytes    *prometheus.CounterVec
}

// NewUploadObserver registers the upload metrics under namespace on reg.
func NewUploadObserver(namespace string, reg prometheus.Registerer) (*UploadObserver, error) {
	if namespace == "" {
		namespace = "media"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	observer := &UploadObserver{
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Latency of calls to the media host.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider", "resource_type"}),
		uploadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_errors_total",
			Help:      "Count of failed media host uploads.",
		}, []string{"provider", "resource_type"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Cumulative payload size successfully uploaded to the media host.",
		}, []string{"provider"}),
	}

	var err error
	if observer.uploadDuration, err = register(reg, observer.uploadDuration); err != nil {
		return nil, err
	}
	if observer.uploadErrors, err = register(reg, observer.uploadErrors); err != nil {
		return nil, err
	}
	if observer.uploadBytes, err = register(reg, observer.uploadBytes); err != nil {
		return nil, err
	}
	return observer, nil
}

// register adopts an already registered collector so the observer can be built twice
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register upload metric: %w", err)
	}
	return c, nil
}

// RecordUpload tracks upload duration, size, and failures.
func (o *UploadObserver) RecordUpload(provider string, rt model.ResourceType, duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	o.uploadDuration.WithLabelValues(provider, string(rt)).Observe(duration.Seconds())
	if err != nil {
		o.uploadErrors.WithLabelValues(provider, string(rt)).Inc()
		return
	}
	o.uploadBytes.WithLabelValues(provider).Add(float64(sizeBytes))
}
