package common

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// attachmentExts are the chat upload types: photos and scans of prescriptions.
var attachmentExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
	".pdf":  true,
	".tif":  true,
	".tiff": true,
}

// inlineTypes may be rendered by the browser. Everything else is served as
// a download.
var inlineTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// AllowedAttachment reports whether filename has an accepted chat upload
// extension.
func AllowedAttachment(filename string) bool {
	return attachmentExts[strings.ToLower(filepath.Ext(filename))]
}

// SetAttachmentHeaders sets the headers for serving a stored object named
// key. Types outside inlineTypes get Content-Disposition: attachment.
func SetAttachmentHeaders(h http.Header, key string) {
	ct := ContentTypeFor(key)
	h.Set("Content-Type", ct)
	h.Set("X-Content-Type-Options", "nosniff")
	if !inlineTypes[ct] {
		h.Set("Content-Disposition", "attachment")
	}
}

// MediaFileType classifies chat attachments and product images.
type MediaFileType string

const (
	MediaFileTypeImage    MediaFileType = "image"
	MediaFileTypeVideo    MediaFileType = "video"
	MediaFileTypeDocument MediaFileType = "document"
)

// String returns the string representation
func (mft MediaFileType) String() string {
	return string(mft)
}

// IsValid checks if the media file type is valid
func (mft MediaFileType) IsValid() bool {
	return mft == MediaFileTypeImage || mft == MediaFileTypeVideo || mft == MediaFileTypeDocument
}

func DetectFileType(mimeType string) MediaFileType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "image/") {
		return MediaFileTypeImage
	}
	if strings.HasPrefix(lowerMimeType, "video/") {
		return MediaFileTypeVideo
	}
	return MediaFileTypeDocument
}

// ContentTypeFor guesses a MIME type from the filename extension.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
