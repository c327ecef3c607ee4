package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// FormField is the multipart field that carries the file
const FormField = "mediaFile"

const (
	msgNoFile       = "No file uploaded."
	msgUploadFailed = "File upload failed due to server error."
)

type HTTPHandler struct {
	Service *UploadService
	// MaxFileBytes caps the size of the buffered file
	MaxFileBytes int64
	// UploadTimeout bounds the call to the media host, zero means the request context only
	UploadTimeout time.Duration
}

func NewHTTPHandler(service *UploadService, maxFileBytes int64) *HTTPHandler {
	return &HTTPHandler{Service: service, MaxFileBytes: maxFileBytes}
}

// Upload handles POST /upload
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, err := h.readFile(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, errFileTooLarge) {
			slog.WarnContext(ctx, "upload rejected: file too large", "limit", h.MaxFileBytes)
			WriteTooLarge(w, h.MaxFileBytes)
			return
		}
		slog.DebugContext(ctx, "upload rejected: no file", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, model.UploadResponse{Success: false, Message: msgNoFile})
		return
	}

	if h.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.UploadTimeout)
		defer cancel()
	}

	result, rt, err := h.Service.Upload(ctx, file)
	if err != nil {
		if errors.Is(err, ErrNoFile) {
			writeJSONResponse(w, http.StatusBadRequest, model.UploadResponse{Success: false, Message: msgNoFile})
			return
		}
		writeJSONResponse(w, http.StatusInternalServerError, model.UploadResponse{
			Success: false,
			Message: msgUploadFailed,
			Error:   err.Error(),
		})
		return
	}

	writeJSONResponse(w, http.StatusOK, model.UploadResponse{
		Success:      true,
		PublicURL:    result.PublicURL,
		ResourceType: rt,
		Message:      fmt.Sprintf("%s uploaded successfully to %s!", rt, h.Service.Host.Name()),
	})
}

var errFileTooLarge = errors.New("file exceeds size limit")

// readFile streams the multipart body and buffers the first file part of FormField.
// Other parts are skipped. Nothing is spilled to disk.
func (h *HTTPHandler) readFile(r *http.Request) (*model.MediaFile, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("failed to read multipart body: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, ErrNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart part: %w", err)
		}

		if part.FormName() != FormField || part.FileName() == "" {
			_, err := io.Copy(io.Discard, part)
			part.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to skip multipart part: %w", err)
			}
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, h.MaxFileBytes+1))
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to buffer file: %w", err)
		}
		if int64(len(data)) > h.MaxFileBytes {
			return nil, errFileTooLarge
		}

		return &model.MediaFile{
			Filename: part.FileName(),
			MimeType: DetectMIME(part.Header.Get("Content-Type"), data),
			Data:     data,
		}, nil
	}
}

// WriteTooLarge writes the 413 body used whenever the size cap is hit
func WriteTooLarge(w http.ResponseWriter, limit int64) {
	writeJSONResponse(w, http.StatusRequestEntityTooLarge, model.UploadResponse{
		Success: false,
		Message: fmt.Sprintf("File too large. Maximum size is %s.", formatBytes(limit)),
	})
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	if n >= 1<<10 && n%(1<<10) == 0 {
		return fmt.Sprintf("%d KB", n/(1<<10))
	}
	return fmt.Sprintf("%d bytes", n)
}

func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
