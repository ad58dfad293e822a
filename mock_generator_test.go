package refgen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// MockContentGenerator is a mock implementation of ContentGenerator.
// It records every submission.
type MockContentGenerator struct {
	SubmitFunc func(ctx context.Context, model string, parts []Part, config *GenerateConfig) (*Response, error)
	ModelsFunc func() []ModelInfo
	CloseFunc  func() error

	mu    sync.Mutex
	calls []mockCall
}

type mockCall struct {
	Model  string
	Parts  []Part
	Config *GenerateConfig
}

func (m *MockContentGenerator) Submit(ctx context.Context, model string, parts []Part, config *GenerateConfig) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mockCall{Model: model, Parts: parts, Config: config})
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, model, parts, config)
	}
	return imageResponse(pngBytes(nil)), nil
}

func (m *MockContentGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{}
}

func (m *MockContentGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockContentGenerator) Calls() []mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockCall(nil), m.calls...)
}

// imageResponse is a response carrying one PNG image.
func imageResponse(data []byte) *Response {
	return &Response{
		Parts: []ResponsePart{
			{InlineData: &Blob{Data: data, MIMEType: "image/png"}},
		},
		FinishReason: "STOP",
	}
}

// pngBytes encodes a tiny solid image. A nil t panics on error.
func pngBytes(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		if t != nil {
			t.Fatal(err)
		}
		panic(err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// writeFile writes data under dir and returns the path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	return writeFile(t, dir, name, pngBytes(t))
}

// mustRefs parses tokens or fails the test.
func mustRefs(t *testing.T, tokens ...string) []ReferenceImage {
	t.Helper()
	refs, err := ParseReferences(tokens)
	require.NoError(t, err)
	return refs
}
