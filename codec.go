package refgen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp"
)

// ImageFile is an image read from disk but not yet decoded.
type ImageFile struct {
	Path     string
	Data     []byte
	MIMEType string
}

// ImageCodec opens, verifies and saves image files.
type ImageCodec interface {
	// Open reads the file at path. A missing file yields an error
	// matching fs.ErrNotExist.
	Open(path string) (*ImageFile, error)

	// Verify checks that the data decodes as a supported image format and
	// fills in the MIME type from the decoded format.
	Verify(img *ImageFile) error

	// Save writes data to path unchanged, creating parent directories.
	Save(data []byte, path string) error
}

// FileCodec is an ImageCodec on the local filesystem.
// It decodes JPEG, PNG, GIF and WebP.
type FileCodec struct{}

var _ ImageCodec = FileCodec{}

// Open reads the file at path.
func (FileCodec) Open(path string) (*ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &ImageFile{
		Path:     path,
		Data:     data,
		MIMEType: GetMIMEType(path),
	}, nil
}

// Verify fully decodes the image, so truncated files are rejected too.
func (FileCodec) Verify(img *ImageFile) error {
	if img == nil || len(img.Data) == 0 {
		return ErrEmptyImageData
	}
	_, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return err
	}
	if mime := MIMETypeFromFormat(format); mime != "" {
		img.MIMEType = mime
	}
	return nil
}

// Save writes data to path unchanged.
func (FileCodec) Save(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// MIMETypeFromFormat maps an image.Decode format name to its MIME type.
func MIMETypeFromFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}
