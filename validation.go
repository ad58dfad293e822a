package refgen

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Validation errors
var (
	ErrEmptyPrompt     = errors.New("prompt cannot be empty")
	ErrEmptyImageData  = errors.New("image data cannot be empty")
	ErrInvalidMIMEType = errors.New("invalid or unsupported MIME type")
	ErrImageTooLarge   = errors.New("image data exceeds maximum size")
)

// Image limits
const (
	// MaxImageSize is the maximum allowed image size in bytes (20MB)
	MaxImageSize = 20 * 1024 * 1024

	// MinReferenceImages is the minimum number of references for reference-driven generation
	MinReferenceImages = 1

	// MaxReferenceImages is the maximum number of reference images per request
	MaxReferenceImages = 14
)

// ValidMIMETypes contains the supported image MIME types
var ValidMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidatedReference is a reference whose file exists and decodes.
type ValidatedReference struct {
	ReferenceImage
	Image *ImageFile
}

// ValidatedReferenceSet is an ordered set of validated references. Order is
// significant: it determines both the numbering in the composed instruction
// and the position of each image in the request.
type ValidatedReferenceSet []ValidatedReference

// Len returns the number of references.
func (s ValidatedReferenceSet) Len() int {
	return len(s)
}

// References returns the references without their image data.
func (s ValidatedReferenceSet) References() []ReferenceImage {
	refs := make([]ReferenceImage, len(s))
	for i, v := range s {
		refs[i] = v.ReferenceImage
	}
	return refs
}

// AuxiliaryTag says what an auxiliary image is for.
type AuxiliaryTag string

const (
	AuxiliaryStyle AuxiliaryTag = "style"
	AuxiliaryLogo  AuxiliaryTag = "logo"
)

// AuxiliaryImage is a style or logo input sent alongside the references.
type AuxiliaryImage struct {
	Tag  AuxiliaryTag
	Path string
}

// LoadedAuxiliary is an auxiliary image that passed validation.
type LoadedAuxiliary struct {
	AuxiliaryImage
	Image *ImageFile
}

// Validator checks reference images before any request is made.
type Validator struct {
	Codec ImageCodec

	// MinImages and MaxImages bound the number of references, inclusive.
	MinImages int
	MaxImages int
}

// NewValidator returns a Validator enforcing 1..14 references.
// A nil codec uses FileCodec.
func NewValidator(codec ImageCodec) *Validator {
	if codec == nil {
		codec = FileCodec{}
	}
	return &Validator{
		Codec:     codec,
		MinImages: MinReferenceImages,
		MaxImages: MaxReferenceImages,
	}
}

// Validate checks the reference count and then probes each file in order.
// The first failure aborts validation and no partial set is returned.
func (v *Validator) Validate(refs []ReferenceImage) (ValidatedReferenceSet, error) {
	if len(refs) < v.MinImages {
		if len(refs) == 0 {
			return nil, ErrNoReferencesProvided
		}
		return nil, fmt.Errorf("%w: got %d (min %d)", ErrNoReferencesProvided, len(refs), v.MinImages)
	}
	if v.MaxImages > 0 && len(refs) > v.MaxImages {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrReferenceCountExceeded, len(refs), v.MaxImages)
	}

	set := make(ValidatedReferenceSet, 0, len(refs))
	for _, ref := range refs {
		img, err := v.probe(ref.Path())
		if err != nil {
			return nil, err
		}
		set = append(set, ValidatedReference{ReferenceImage: ref, Image: img})
	}
	return set, nil
}

// ValidateAuxiliary probes style and logo images. There is no count bound.
func (v *Validator) ValidateAuxiliary(images []AuxiliaryImage) ([]LoadedAuxiliary, error) {
	loaded := make([]LoadedAuxiliary, 0, len(images))
	for _, aux := range images {
		img, err := v.probe(aux.Path)
		if err != nil {
			return nil, fmt.Errorf("%s image: %w", aux.Tag, err)
		}
		loaded = append(loaded, LoadedAuxiliary{AuxiliaryImage: aux, Image: img})
	}
	return loaded, nil
}

func (v *Validator) probe(path string) (*ImageFile, error) {
	img, err := v.Codec.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ReferenceError{Path: path, Err: ErrReferenceNotFound}
		}
		return nil, &ReferenceError{Path: path, Err: ErrReferenceUnreadable, Cause: err}
	}
	if err := v.Codec.Verify(img); err != nil {
		return nil, &ReferenceError{Path: path, Err: ErrReferenceUnreadable, Cause: err}
	}
	if err := ValidateInputImage(InputImage{Data: img.Data, MIMEType: img.MIMEType}); err != nil {
		return nil, &ReferenceError{Path: path, Err: ErrReferenceUnreadable, Cause: err}
	}
	return img, nil
}

// InputImage is raw image data about to be sent to the model.
type InputImage struct {
	Data     []byte
	MIMEType string
}

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateInputImage validates an input image.
func ValidateInputImage(img InputImage) error {
	if len(img.Data) == 0 {
		return ErrEmptyImageData
	}

	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), MaxImageSize)
	}

	if img.MIMEType == "" {
		return fmt.Errorf("%w: MIME type is required", ErrInvalidMIMEType)
	}

	if !ValidMIMETypes[img.MIMEType] {
		return fmt.Errorf("%w: %s", ErrInvalidMIMEType, img.MIMEType)
	}

	return nil
}
