package refgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr error
	}{
		{name: "valid prompt", prompt: "A sunset over mountains"},
		{name: "empty prompt", prompt: "", wantErr: ErrEmptyPrompt},
		{name: "whitespace only", prompt: " \n\t", wantErr: ErrEmptyPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.prompt)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateInputImage(t *testing.T) {
	tests := []struct {
		name    string
		img     InputImage
		wantErr error
	}{
		{
			name: "valid image",
			img:  InputImage{Data: []byte("fake image data"), MIMEType: "image/png"},
		},
		{
			name:    "empty image",
			img:     InputImage{},
			wantErr: ErrEmptyImageData,
		},
		{
			name:    "missing MIME type",
			img:     InputImage{Data: []byte("x")},
			wantErr: ErrInvalidMIMEType,
		},
		{
			name:    "unsupported MIME type",
			img:     InputImage{Data: []byte("x"), MIMEType: "image/tiff"},
			wantErr: ErrInvalidMIMEType,
		},
		{
			name:    "too large",
			img:     InputImage{Data: make([]byte, MaxImageSize+1), MIMEType: "image/png"},
			wantErr: ErrImageTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputImage(tt.img)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidator_Count(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "a.png")

	repeat := func(n int) []ReferenceImage {
		refs := make([]ReferenceImage, n)
		for i := range refs {
			refs[i] = mustRefs(t, img)[0]
		}
		return refs
	}

	v := NewValidator(nil)

	t.Run("zero", func(t *testing.T) {
		_, err := v.Validate(nil)
		assert.ErrorIs(t, err, ErrNoReferencesProvided)
	})

	t.Run("one", func(t *testing.T) {
		set, err := v.Validate(repeat(1))
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("fourteen", func(t *testing.T) {
		set, err := v.Validate(repeat(14))
		require.NoError(t, err)
		assert.Equal(t, 14, set.Len())
	})

	t.Run("fifteen", func(t *testing.T) {
		_, err := v.Validate(repeat(15))
		assert.ErrorIs(t, err, ErrReferenceCountExceeded)
	})
}

func TestValidator_CountCheckedBeforeIO(t *testing.T) {
	codec := &countingCodec{ImageCodec: FileCodec{}}
	v := NewValidator(codec)

	refs := make([]ReferenceImage, 15)
	for i := range refs {
		refs[i] = mustRefs(t, fmt.Sprintf("missing-%d.png", i))[0]
	}

	_, err := v.Validate(refs)
	require.ErrorIs(t, err, ErrReferenceCountExceeded)
	assert.Zero(t, codec.opens)
}

func TestValidator_NotFound(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "good.png")
	missing := dir + "/missing.png"

	for pos := 0; pos < 3; pos++ {
		t.Run(fmt.Sprintf("position %d", pos), func(t *testing.T) {
			tokens := []string{good, good, good}
			tokens[pos] = missing + ":the dog"

			set, err := NewValidator(nil).Validate(mustRefs(t, tokens...))
			assert.Nil(t, set)
			require.ErrorIs(t, err, ErrReferenceNotFound)

			var refErr *ReferenceError
			require.True(t, errors.As(err, &refErr))
			assert.Equal(t, missing, refErr.Path)
		})
	}
}

func TestValidator_Unreadable(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "good.png")
	corrupt := writeFile(t, dir, "corrupt.png", []byte("this is not an image"))
	truncated := writeFile(t, dir, "truncated.png", pngBytes(t)[:20])
	empty := writeFile(t, dir, "empty.jpg", nil)

	for _, bad := range []string{corrupt, truncated, empty} {
		t.Run(bad, func(t *testing.T) {
			_, err := NewValidator(nil).Validate(mustRefs(t, good, bad))
			require.ErrorIs(t, err, ErrReferenceUnreadable)
			assert.NotErrorIs(t, err, ErrReferenceNotFound)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestValidator_FillsImageData(t *testing.T) {
	dir := t.TempDir()
	// extension says png, content is jpeg
	jpg := writeFile(t, dir, "photo.png", jpegBytes(t))

	set, err := NewValidator(nil).Validate(mustRefs(t, jpg+":the subject"))
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	assert.Equal(t, "image/jpeg", set[0].Image.MIMEType)
	assert.NotEmpty(t, set[0].Image.Data)
	role, _ := set[0].Role()
	assert.Equal(t, "the subject", role)
}

func TestValidator_Auxiliary(t *testing.T) {
	dir := t.TempDir()
	style := writePNG(t, dir, "style.png")
	logo := writePNG(t, dir, "logo.png")

	v := NewValidator(nil)

	loaded, err := v.ValidateAuxiliary([]AuxiliaryImage{
		{Tag: AuxiliaryStyle, Path: style},
		{Tag: AuxiliaryLogo, Path: logo},
	})
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, AuxiliaryStyle, loaded[0].Tag)
	assert.Equal(t, "image/png", loaded[1].Image.MIMEType)

	_, err = v.ValidateAuxiliary([]AuxiliaryImage{{Tag: AuxiliaryLogo, Path: dir + "/nope.png"}})
	require.ErrorIs(t, err, ErrReferenceNotFound)
	assert.Contains(t, err.Error(), "logo image")

	none, err := v.ValidateAuxiliary(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

type countingCodec struct {
	ImageCodec
	opens int
}

func (c *countingCodec) Open(path string) (*ImageFile, error) {
	c.opens++
	return c.ImageCodec.Open(path)
}
