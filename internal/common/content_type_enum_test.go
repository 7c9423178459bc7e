package common

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaFileType_String(t *testing.T) {
	assert.Equal(t, "image", MediaFileTypeImage.String())
	assert.Equal(t, "video", MediaFileTypeVideo.String())
	assert.Equal(t, "document", MediaFileTypeDocument.String())
}

func TestMediaFileType_IsValid(t *testing.T) {
	assert.True(t, MediaFileTypeImage.IsValid())
	assert.True(t, MediaFileTypeVideo.IsValid())
	assert.True(t, MediaFileTypeDocument.IsValid())

	invalidType := MediaFileType("invalid")
	assert.False(t, invalidType.IsValid())
}

func TestDetectFileType(t *testing.T) {
	edgeCases := []struct {
		input    string
		expected MediaFileType
	}{
		{"image/jpeg", MediaFileTypeImage},
		{"IMAGE/PNG", MediaFileTypeImage},
		{"Video/MP4", MediaFileTypeVideo},
		{"application/pdf", MediaFileTypeDocument},
		{"text/plain", MediaFileTypeDocument},
		{"", MediaFileTypeDocument},
	}

	for _, testCase := range edgeCases {
		result := DetectFileType(testCase.input)
		assert.Equal(t, testCase.expected, result, "Failed for input: %s", testCase.input)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFor("frame.JPG"))
	assert.Equal(t, "image/png", ContentTypeFor("glasses.png"))
	assert.Equal(t, "application/pdf", ContentTypeFor("rx.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("blob"))
}

func TestAllowedAttachment(t *testing.T) {
	for _, name := range []string{"rx.pdf", "scan.JPG", "frame.png", "eye.heic"} {
		assert.True(t, AllowedAttachment(name), name)
	}
	for _, name := range []string{"x.html", "logo.svg", "run.js", "page.HTM", "noext", "rx.pdf.exe"} {
		assert.False(t, AllowedAttachment(name), name)
	}
}

func TestSetAttachmentHeaders(t *testing.T) {
	h := http.Header{}
	SetAttachmentHeaders(h, "a.png")
	assert.Equal(t, "image/png", h.Get("Content-Type"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Empty(t, h.Get("Content-Disposition"))

	h = http.Header{}
	SetAttachmentHeaders(h, "b.html")
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "attachment", h.Get("Content-Disposition"))

	h = http.Header{}
	SetAttachmentHeaders(h, "c.svg")
	assert.Equal(t, "attachment", h.Get("Content-Disposition"))
}
