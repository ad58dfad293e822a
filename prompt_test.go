package refgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeInstruction(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		tokens []string
		want   string
	}{
		{
			name:   "no references",
			base:   "A cat on a sofa",
			tokens: nil,
			want:   "A cat on a sofa",
		},
		{
			name:   "no roles",
			base:   "Combine these",
			tokens: []string{"a.png", "b.png"},
			want:   "Combine these",
		},
		{
			name:   "all described",
			base:   "Put them on a beach",
			tokens: []string{"dir/person.jpg:the person", "dog.png:their dog"},
			want: "Image 1 (person.jpg): the person\n" +
				"Image 2 (dog.png): their dog\n\n" +
				"Generate: Put them on a beach",
		},
		{
			name:   "numbering follows position, not described count",
			base:   "Mix",
			tokens: []string{"a.png", "b.png:the background"},
			want:   "Image 2 (b.png): the background\n\nGenerate: Mix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeInstruction(tt.base, mustRefs(t, tt.tokens...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeInstruction_MixedRoles(t *testing.T) {
	got := ComposeInstruction("excited pose", mustRefs(t, "a.jpg:face", "b.jpg", "c.jpg:logo"))

	lines := strings.Split(got, "\n")
	var roleLines []string
	for _, l := range lines {
		if strings.HasPrefix(l, "Image ") {
			roleLines = append(roleLines, l)
		}
	}
	assert.Equal(t, []string{"Image 1 (a.jpg): face", "Image 3 (c.jpg): logo"}, roleLines)
	assert.True(t, strings.HasSuffix(got, "Generate: excited pose"))
}

func TestComposeInstruction_KeepsBaseVerbatim(t *testing.T) {
	base := "  excited pose:  pointing\nat the camera  "
	got := ComposeInstruction(base, mustRefs(t, "me.jpg:my face"))
	assert.True(t, strings.HasSuffix(got, "Generate: "+base))
	assert.Equal(t, base, ComposeInstruction(base, nil))
}

func TestStyleInstruction(t *testing.T) {
	assert.Equal(t,
		"Create a thumbnail inspired by the style reference image. excited pose",
		StyleInstruction("excited pose"),
	)
}
