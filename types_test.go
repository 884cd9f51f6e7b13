package safecomms

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPayload(t *testing.T) {
	t.Run("unset optionals marshal as null", func(t *testing.T) {
		b, err := json.Marshal((&TextRequest{Content: "hi"}).toPayload())
		require.NoError(t, err)
		assert.Equal(t,
			`{"content":"hi","language":"en","replace":false,"pii":false,"replaceSeverity":null,"moderationProfileId":null}`,
			string(b))
	})

	t.Run("set optionals marshal as strings", func(t *testing.T) {
		b, err := json.Marshal((&TextRequest{
			Content:             "hi",
			Language:            "pt-BR",
			ReplaceSeverity:     "medium",
			ModerationProfileID: "p1",
		}).toPayload())
		require.NoError(t, err)
		assert.Equal(t,
			`{"content":"hi","language":"pt-BR","replace":false,"pii":false,"replaceSeverity":"medium","moderationProfileId":"p1"}`,
			string(b))
	})
}

func TestImagePayload(t *testing.T) {
	b, err := json.Marshal((&ImageRequest{Image: "https://example.com/a.png"}).toPayload())
	require.NoError(t, err)
	assert.Equal(t,
		`{"image":"https://example.com/a.png","language":"en","moderationProfileId":null,"enableOcr":false,"enhancedOcr":false,"extractMetadata":false}`,
		string(b))
}

// writeForm runs writeMultipart into a buffer and parses it back.
func writeForm(t *testing.T, req *ImageFileRequest) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, req.writeMultipart(w))
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form
}

func TestImageFileRequest_WriteMultipart(t *testing.T) {
	t.Run("empty profile is omitted", func(t *testing.T) {
		form := writeForm(t, &ImageFileRequest{File: strings.NewReader("img"), FileName: "a.jpg"})
		_, ok := form.Value["moderationProfileId"]
		assert.False(t, ok)
		assert.Equal(t, []string{"en"}, form.Value["language"])
		assert.Equal(t, []string{"false"}, form.Value["enableOcr"])
		assert.Equal(t, []string{"false"}, form.Value["enhancedOcr"])
		assert.Equal(t, []string{"false"}, form.Value["extractMetadata"])
	})

	t.Run("booleans are lowercase strings", func(t *testing.T) {
		form := writeForm(t, &ImageFileRequest{
			File:     strings.NewReader("img"),
			FileName: "a.jpg",
			Options: ImageOptions{
				ModerationProfileID: "p1",
				EnableOCR:           true,
				EnhancedOCR:         true,
				ExtractMetadata:     true,
			},
		})
		assert.Equal(t, []string{"p1"}, form.Value["moderationProfileId"])
		assert.Equal(t, []string{"true"}, form.Value["enableOcr"])
		assert.Equal(t, []string{"true"}, form.Value["enhancedOcr"])
		assert.Equal(t, []string{"true"}, form.Value["extractMetadata"])
	})

	t.Run("file part", func(t *testing.T) {
		form := writeForm(t, &ImageFileRequest{File: bytes.NewReader(pngHeader), FileName: `we"ird.png`})
		files := form.File["image"]
		require.Len(t, files, 1)
		assert.Equal(t, `we"ird.png`, files[0].Filename)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))

		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("content longer than the sniff window is kept intact", func(t *testing.T) {
		content := strings.Repeat("0123456789", sniffLen)
		form := writeForm(t, &ImageFileRequest{File: strings.NewReader(content), FileName: "long.bin"})

		f, err := form.File["image"][0].Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("read error is returned", func(t *testing.T) {
		readErr := errors.New("bad sector")
		var buf bytes.Buffer
		err := (&ImageFileRequest{
			File:     io.MultiReader(strings.NewReader("abc"), &failingReader{err: readErr}),
			FileName: "a.jpg",
		}).writeMultipart(multipart.NewWriter(&buf))
		assert.ErrorIs(t, err, readErr)
	})
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

func TestBuilders(t *testing.T) {
	t.Run("TextRequestBuilder", func(t *testing.T) {
		req := NewTextRequestBuilder().
			Content("hello").
			Language("it").
			Replace(true).
			PII(true).
			ReplaceSeverity("low").
			ModerationProfileID("profile-1").
			Build()

		assert.Equal(t, &TextRequest{
			Content:             "hello",
			Language:            "it",
			Replace:             true,
			PII:                 true,
			ReplaceSeverity:     "low",
			ModerationProfileID: "profile-1",
		}, req)
	})

	t.Run("TextRequestBuilder builds independent requests", func(t *testing.T) {
		b := NewTextRequestBuilder().Content("first")
		first := b.Build()
		second := b.Content("second").Build()
		assert.Equal(t, "first", first.Content)
		assert.Equal(t, "second", second.Content)
	})

	t.Run("ImageRequestBuilder", func(t *testing.T) {
		req := NewImageRequestBuilder().
			Image("https://example.com/a.png").
			Options(ImageOptions{Language: "nl"}).
			EnableOCR(true).
			Build()

		assert.Equal(t, "https://example.com/a.png", req.Image)
		assert.Equal(t, ImageOptions{Language: "nl", EnableOCR: true}, req.Options)
	})

	t.Run("ImageFileRequestBuilder", func(t *testing.T) {
		file := strings.NewReader("img")
		req := NewImageFileRequestBuilder().
			File(file, "a.png").
			Language("ja").
			ModerationProfileID("profile-2").
			EnhancedOCR(true).
			ExtractMetadata(true).
			Build()

		assert.Same(t, file, req.File)
		assert.Equal(t, "a.png", req.FileName)
		assert.Equal(t, ImageOptions{
			Language:            "ja",
			ModerationProfileID: "profile-2",
			EnhancedOCR:         true,
			ExtractMetadata:     true,
		}, req.Options)
	})
}
