package drivers

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/OpenNSW/media-upload/internal/uploads/model"
)

// LocalFSDriver is a development media host that writes files to local disk with
// directory hashing. The base directory is expected to be served at PublicURL.
type LocalFSDriver struct {
	BaseDir   string
	PublicURL string
}

// NewLocalFSDriver creates a new LocalFSDriver.
// baseDir is where files will be stored.
// publicURL is the base URL used to generate public links (e.g., /media).
func NewLocalFSDriver(baseDir, publicURL string) (*LocalFSDriver, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalFSDriver{BaseDir: baseDir, PublicURL: publicURL}, nil
}

func (d *LocalFSDriver) Name() string {
	return "local storage"
}

// hashedKey inserts two directory levels derived from the file name to avoid flat directories:
// folder/image/abcdef.png becomes folder/image/ab/cd/abcdef.png
func (d *LocalFSDriver) hashedKey(key string) string {
	dir, name := path.Split(key)
	if len(name) < 4 {
		return key
	}
	return path.Join(dir, name[0:2], name[2:4], name)
}

func (d *LocalFSDriver) Upload(ctx context.Context, file *model.MediaFile, opts model.UploadOptions) (*model.UploadResult, error) {
	key := d.hashedKey(objectKey(file, opts))
	fullPath := filepath.Join(d.BaseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create hashed directory: %w", err)
	}

	if err := os.WriteFile(fullPath, file.Data, 0644); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	url := key
	if d.PublicURL != "" {
		url = fmt.Sprintf("%s/%s", d.PublicURL, key)
	}
	return &model.UploadResult{PublicURL: url, PublicID: key}, nil
}
