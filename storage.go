package refgen

import (
	"context"
	"path/filepath"
	"strings"
)

// Storage persists generated images.
// Implementations can wrap cloud storage clients (GCS, S3, etc.); LocalStorage
// writes to the filesystem.
type Storage interface {
	// SaveFile saves image data and returns where it can be found
	// (a URL, or a file path for local storage).
	// The contentType is typically the image's MIME type (e.g., "image/png").
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

// StorageResult contains information about a saved image.
type StorageResult struct {
	// Location is the URL or file path returned by the Storage
	Location string

	// Path is the requested output path
	Path string

	// Size is the number of bytes saved
	Size int
}

// LocalStorage saves images to local disk through an ImageCodec.
type LocalStorage struct {
	codec ImageCodec
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage returns a Storage backed by codec. A nil codec uses FileCodec.
func NewLocalStorage(codec ImageCodec) *LocalStorage {
	if codec == nil {
		codec = FileCodec{}
	}
	return &LocalStorage{codec: codec}
}

// SaveFile writes data to path and returns the absolute path.
func (s *LocalStorage) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.codec.Save(data, path); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

// SaveImage saves a generated image to storage under path.
func SaveImage(ctx context.Context, storage Storage, img *GeneratedImage, path string) (*StorageResult, error) {
	if storage == nil {
		return nil, ErrStorageNotConfigured
	}
	if img == nil || len(img.Data) == 0 {
		return nil, ErrEmptyImageData
	}

	location, err := storage.SaveFile(ctx, img.Data, path, img.MIMEType)
	if err != nil {
		return nil, err
	}

	return &StorageResult{
		Location: location,
		Path:     path,
		Size:     len(img.Data),
	}, nil
}

// GetMIMEType guesses an image MIME type from the file extension.
func GetMIMEType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

// ExtensionFromMIME returns a file extension (with dot) for common image MIME types.
func ExtensionFromMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
