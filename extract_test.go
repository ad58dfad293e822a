package refgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImage(t *testing.T) {
	first := []byte("first")
	second := []byte("second")

	tests := []struct {
		name       string
		resp       *Response
		wantImage  []byte
		wantText   string
		wantReason string
	}{
		{
			name:      "nil response",
			resp:      nil,
			wantImage: nil,
		},
		{
			name:      "empty response",
			resp:      &Response{},
			wantImage: nil,
		},
		{
			name: "text only",
			resp: &Response{
				Parts:        []ResponsePart{{Text: "I can't draw that."}},
				FinishReason: "STOP",
			},
			wantText:   "I can't draw that.",
			wantReason: "STOP",
		},
		{
			name:      "hi then image",
			resp:      &Response{Parts: []ResponsePart{{Text: "hi"}, {InlineData: &Blob{Data: first, MIMEType: "image/png"}}}},
			wantImage: first,
			wantText:  "hi",
		},
		{
			name: "first image wins",
			resp: &Response{Parts: []ResponsePart{
				{Text: "Here you go. "},
				{InlineData: &Blob{Data: first, MIMEType: "image/png"}},
				{InlineData: &Blob{Data: second, MIMEType: "image/jpeg"}},
				{Text: "Enjoy!"},
			}},
			wantImage: first,
			wantText:  "Here you go. Enjoy!",
		},
		{
			name: "empty inline data skipped",
			resp: &Response{Parts: []ResponsePart{
				{InlineData: &Blob{MIMEType: "image/png"}},
				{InlineData: &Blob{Data: second, MIMEType: "image/png"}},
			}},
			wantImage: second,
		},
		{
			name: "thoughts excluded from text",
			resp: &Response{Parts: []ResponsePart{
				{Text: "planning the scene", Thought: true},
				{Text: "done"},
			}},
			wantText: "done",
		},
		{
			name: "block reason used when no finish reason",
			resp: &Response{
				BlockReason: "SAFETY",
			},
			wantReason: "SAFETY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractImage(tt.resp)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantReason, got.FinishReason)
			if tt.wantImage == nil {
				assert.False(t, got.HasImage())
				return
			}
			require.True(t, got.HasImage())
			assert.Equal(t, tt.wantImage, got.Image.Data)
		})
	}
}

func TestGenerationResult_Err(t *testing.T) {
	ok := ExtractImage(imageResponse([]byte("img")))
	assert.NoError(t, ok.Err())

	none := ExtractImage(&Response{
		Parts:        []ResponsePart{{Text: "no can do"}},
		FinishReason: "IMAGE_SAFETY",
	})
	err := none.Err()
	require.ErrorIs(t, err, ErrNoImageInResponse)
	assert.NotErrorIs(t, err, ErrGenerationTransport)

	var noImg *NoImageError
	require.True(t, errors.As(err, &noImg))
	assert.Equal(t, "no can do", noImg.Text)
	assert.Contains(t, err.Error(), "IMAGE_SAFETY")
}
