package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaFile_DataURI(t *testing.T) {
	f := &MediaFile{MimeType: "image/png", Data: []byte("hello")}

	assert.Equal(t, "data:image/png;base64,aGVsbG8=", f.DataURI())
	assert.Equal(t, 5, f.Size())
}

func TestMediaFile_DataURIEmpty(t *testing.T) {
	f := &MediaFile{MimeType: "text/plain"}

	assert.Equal(t, "data:text/plain;base64,", f.DataURI())
	assert.Equal(t, 0, f.Size())
}
