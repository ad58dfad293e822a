package refgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantPath string
		wantRole string
		hasRole  bool
		wantErr  error
	}{
		{name: "path only", token: "person.jpg", wantPath: "person.jpg"},
		{name: "path and role", token: "person.jpg:the main subject", wantPath: "person.jpg", wantRole: "the main subject", hasRole: true},
		{name: "whitespace trimmed", token: "  a.png :  keep the face  ", wantPath: "a.png", wantRole: "keep the face", hasRole: true},
		{name: "empty role", token: "a.png:", wantPath: "a.png"},
		{name: "blank role", token: "a.png:   ", wantPath: "a.png"},
		{name: "first colon wins", token: "a.png:style: bold, bright", wantPath: "a.png", wantRole: "style: bold, bright", hasRole: true},
		{name: "drive letter splits too", token: `C:\photos\a.png`, wantPath: "C", wantRole: `\photos\a.png`, hasRole: true},
		{name: "empty", token: "", wantErr: ErrEmptyReferencePath},
		{name: "role without path", token: ":the dog", wantErr: ErrEmptyReferencePath},
		{name: "blank path", token: "   :x", wantErr: ErrEmptyReferencePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseReference(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, ref.Path())
			role, ok := ref.Role()
			assert.Equal(t, tt.hasRole, ok)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

func TestParseReferences(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		refs, err := ParseReferences([]string{"c.png", "a.png:x", "b.png"})
		require.NoError(t, err)
		require.Len(t, refs, 3)
		assert.Equal(t, []string{"c.png", "a.png", "b.png"}, pathsOf(refs))
	})

	t.Run("reports position of bad token", func(t *testing.T) {
		_, err := ParseReferences([]string{"a.png", ":oops"})
		require.ErrorIs(t, err, ErrEmptyReferencePath)
		assert.Contains(t, err.Error(), "reference 2")
	})

	t.Run("empty input", func(t *testing.T) {
		refs, err := ParseReferences(nil)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})
}

func TestReferenceImage_Accessors(t *testing.T) {
	ref, err := NewReference("photos/me/face_front.jpg", "the person")
	require.NoError(t, err)

	assert.Equal(t, "face_front.jpg", ref.Filename())
	assert.Equal(t, "photos/me/face_front.jpg:the person", ref.String())

	plain, err := NewReference("dog.png", "")
	require.NoError(t, err)
	assert.Equal(t, "dog.png", plain.String())
}
