package safecomms

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultLanguage is used whenever a request leaves Language empty.
const DefaultLanguage = "en"

// sniffLen is how much of an upload is read up front to detect its content type. It matches the
// read limit mimetype uses by default.
const sniffLen = 3072

// TextRequest is the request type for ModerateText.
//
// Optional string fields follow a simple rule: the empty string means unset. Unset optional fields
// are still sent to the service, as JSON null.
type TextRequest struct {
	// Content is the text to moderate. Required.
	Content string
	// Language is a locale tag such as "en" or "de". Defaults to "en". Not validated locally.
	Language string
	// Replace asks the service to return the content with flagged parts replaced.
	Replace bool
	// PII enables detection of personally identifiable information.
	PII bool
	// ReplaceSeverity is the minimum severity that triggers replacement. Sent as null if empty.
	ReplaceSeverity string
	// ModerationProfileID selects a moderation profile configured on the service. Sent as null
	// if empty.
	ModerationProfileID string
}

// textPayload is the wire shape of /moderation/text. Every key is always present.
type textPayload struct {
	Content             string  `json:"content"`
	Language            string  `json:"language"`
	Replace             bool    `json:"replace"`
	PII                 bool    `json:"pii"`
	ReplaceSeverity     *string `json:"replaceSeverity"`
	ModerationProfileID *string `json:"moderationProfileId"`
}

func (r *TextRequest) validate() error {
	if r == nil || r.Content == "" {
		return ErrContentRequired
	}
	return nil
}

func (r *TextRequest) toPayload() *textPayload {
	return &textPayload{
		Content:             r.Content,
		Language:            languageOrDefault(r.Language),
		Replace:             r.Replace,
		PII:                 r.PII,
		ReplaceSeverity:     nullIfEmpty(r.ReplaceSeverity),
		ModerationProfileID: nullIfEmpty(r.ModerationProfileID),
	}
}

// ImageOptions are the settings shared by ModerateImage and ModerateImageFile.
type ImageOptions struct {
	// Language is a locale tag used for any text found in the image. Defaults to "en".
	Language string
	// ModerationProfileID selects a moderation profile configured on the service. For inline
	// images an empty value is sent as null; for uploads the field is left out of the form.
	ModerationProfileID string
	// EnableOCR extracts text from the image and moderates it as well.
	EnableOCR bool
	// EnhancedOCR uses the slower, more accurate OCR engine.
	EnhancedOCR bool
	// ExtractMetadata extracts EXIF metadata from the image.
	ExtractMetadata bool
}

// ImageRequest is the request type for ModerateImage.
type ImageRequest struct {
	// Image is either a URL or a base64 encoded image. It is passed to the service as is.
	Image string
	// Options for the request.
	Options ImageOptions
}

// imagePayload is the wire shape of /moderation/image. Every key is always present.
type imagePayload struct {
	Image               string  `json:"image"`
	Language            string  `json:"language"`
	ModerationProfileID *string `json:"moderationProfileId"`
	EnableOCR           bool    `json:"enableOcr"`
	EnhancedOCR         bool    `json:"enhancedOcr"`
	ExtractMetadata     bool    `json:"extractMetadata"`
}

func (r *ImageRequest) validate() error {
	if r == nil || r.Image == "" {
		return ErrImageRequired
	}
	return nil
}

func (r *ImageRequest) toPayload() *imagePayload {
	return &imagePayload{
		Image:               r.Image,
		Language:            languageOrDefault(r.Options.Language),
		ModerationProfileID: nullIfEmpty(r.Options.ModerationProfileID),
		EnableOCR:           r.Options.EnableOCR,
		EnhancedOCR:         r.Options.EnhancedOCR,
		ExtractMetadata:     r.Options.ExtractMetadata,
	}
}

// ImageFileRequest is the request type for ModerateImageFile.
type ImageFileRequest struct {
	// File is read once, from its current position to EOF, and streamed to the service. The
	// caller keeps ownership: it is not closed by the SDK.
	File io.Reader
	// FileName is sent as the filename of the uploaded part. Required.
	FileName string
	// Options for the request.
	Options ImageOptions
}

func (r *ImageFileRequest) validate() error {
	if r == nil || r.File == nil {
		return ErrFileRequired
	}
	if r.FileName == "" {
		return ErrFileNameRequired
	}
	return nil
}

// writeMultipart writes the upload form. Part order: image, language, enableOcr, enhancedOcr,
// extractMetadata, and moderationProfileId only when set.
func (r *ImageFileRequest) writeMultipart(w *multipart.Writer) error {
	if err := writeFilePart(w, "image", r.FileName, r.File); err != nil {
		return err
	}

	fields := []struct {
		name  string
		value string
	}{
		{"language", languageOrDefault(r.Options.Language)},
		{"enableOcr", strconv.FormatBool(r.Options.EnableOCR)},
		{"enhancedOcr", strconv.FormatBool(r.Options.EnhancedOCR)},
		{"extractMetadata", strconv.FormatBool(r.Options.ExtractMetadata)},
	}
	if r.Options.ModerationProfileID != "" {
		fields = append(fields, struct {
			name  string
			value string
		}{"moderationProfileId", r.Options.ModerationProfileID})
	}

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("failed to write %s field: %w", f.name, err)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFilePart writes r as a file part. The first bytes are sniffed to set the part's
// Content-Type and then written ahead of the rest of the stream.
func writeFilePart(w *multipart.Writer, field, fileName string, r io.Reader) error {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read file content: %w", err)
	}
	head = head[:n]

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(fileName)))
	h.Set("Content-Type", mimetype.Detect(head).String())

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(head); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return nil
}

func languageOrDefault(language string) string {
	if language == "" {
		return DefaultLanguage
	}
	return language
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Builders for requests
//
// Each request type has a builder for those who prefer chaining over struct literals:
//
//	req := NewTextRequestBuilder().
//		Content("hello").
//		PII(true).
//		Build()

// TextRequestBuilder simplifies the construction of a TextRequest.
type TextRequestBuilder struct {
	req TextRequest
}

// NewTextRequestBuilder creates a new TextRequestBuilder.
func NewTextRequestBuilder() *TextRequestBuilder {
	return &TextRequestBuilder{}
}

// Content sets the text to moderate.
func (b *TextRequestBuilder) Content(content string) *TextRequestBuilder {
	b.req.Content = content
	return b
}

// Language sets the language of the content.
func (b *TextRequestBuilder) Language(language string) *TextRequestBuilder {
	b.req.Language = language
	return b
}

// Replace sets the replace flag.
func (b *TextRequestBuilder) Replace(replace bool) *TextRequestBuilder {
	b.req.Replace = replace
	return b
}

// PII sets the PII detection flag.
func (b *TextRequestBuilder) PII(pii bool) *TextRequestBuilder {
	b.req.PII = pii
	return b
}

// ReplaceSeverity sets the replacement severity.
func (b *TextRequestBuilder) ReplaceSeverity(severity string) *TextRequestBuilder {
	b.req.ReplaceSeverity = severity
	return b
}

// ModerationProfileID sets the moderation profile.
func (b *TextRequestBuilder) ModerationProfileID(id string) *TextRequestBuilder {
	b.req.ModerationProfileID = id
	return b
}

// Build creates a new TextRequest from the builder.
func (b *TextRequestBuilder) Build() *TextRequest {
	req := b.req
	return &req
}

// ImageRequestBuilder simplifies the construction of an ImageRequest.
type ImageRequestBuilder struct {
	image   string
	options ImageOptions
}

// NewImageRequestBuilder creates a new ImageRequestBuilder.
func NewImageRequestBuilder() *ImageRequestBuilder {
	return &ImageRequestBuilder{}
}

// Image sets the image URL or base64 payload.
func (b *ImageRequestBuilder) Image(image string) *ImageRequestBuilder {
	b.image = image
	return b
}

// Options replaces all image options at once.
func (b *ImageRequestBuilder) Options(options ImageOptions) *ImageRequestBuilder {
	b.options = options
	return b
}

// Language sets the language.
func (b *ImageRequestBuilder) Language(language string) *ImageRequestBuilder {
	b.options.Language = language
	return b
}

// ModerationProfileID sets the moderation profile.
func (b *ImageRequestBuilder) ModerationProfileID(id string) *ImageRequestBuilder {
	b.options.ModerationProfileID = id
	return b
}

// EnableOCR sets the OCR flag.
func (b *ImageRequestBuilder) EnableOCR(enable bool) *ImageRequestBuilder {
	b.options.EnableOCR = enable
	return b
}

// EnhancedOCR sets the enhanced OCR flag.
func (b *ImageRequestBuilder) EnhancedOCR(enhanced bool) *ImageRequestBuilder {
	b.options.EnhancedOCR = enhanced
	return b
}

// ExtractMetadata sets the metadata extraction flag.
func (b *ImageRequestBuilder) ExtractMetadata(extract bool) *ImageRequestBuilder {
	b.options.ExtractMetadata = extract
	return b
}

// Build creates a new ImageRequest from the builder.
func (b *ImageRequestBuilder) Build() *ImageRequest {
	return &ImageRequest{
		Image:   b.image,
		Options: b.options,
	}
}

// ImageFileRequestBuilder simplifies the construction of an ImageFileRequest.
type ImageFileRequestBuilder struct {
	file     io.Reader
	fileName string
	options  ImageOptions
}

// NewImageFileRequestBuilder creates a new ImageFileRequestBuilder.
func NewImageFileRequestBuilder() *ImageFileRequestBuilder {
	return &ImageFileRequestBuilder{}
}

// File sets the image stream and the file name it is uploaded under.
func (b *ImageFileRequestBuilder) File(file io.Reader, fileName string) *ImageFileRequestBuilder {
	b.file = file
	b.fileName = fileName
	return b
}

// Options replaces all image options at once.
func (b *ImageFileRequestBuilder) Options(options ImageOptions) *ImageFileRequestBuilder {
	b.options = options
	return b
}

// Language sets the language.
func (b *ImageFileRequestBuilder) Language(language string) *ImageFileRequestBuilder {
	b.options.Language = language
	return b
}

// ModerationProfileID sets the moderation profile.
func (b *ImageFileRequestBuilder) ModerationProfileID(id string) *ImageFileRequestBuilder {
	b.options.ModerationProfileID = id
	return b
}

// EnableOCR sets the OCR flag.
func (b *ImageFileRequestBuilder) EnableOCR(enable bool) *ImageFileRequestBuilder {
	b.options.EnableOCR = enable
	return b
}

// EnhancedOCR sets the enhanced OCR flag.
func (b *ImageFileRequestBuilder) EnhancedOCR(enhanced bool) *ImageFileRequestBuilder {
	b.options.EnhancedOCR = enhanced
	return b
}

// ExtractMetadata sets the metadata extraction flag.
func (b *ImageFileRequestBuilder) ExtractMetadata(extract bool) *ImageFileRequestBuilder {
	b.options.ExtractMetadata = extract
	return b
}

// Build creates a new ImageFileRequest from the builder.
func (b *ImageFileRequestBuilder) Build() *ImageFileRequest {
	return &ImageFileRequest{
		File:     b.file,
		FileName: b.fileName,
		Options:  b.options,
	}
}
