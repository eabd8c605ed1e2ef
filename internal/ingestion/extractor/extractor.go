// Package extractor turns uploaded presentations into per-slide text.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported presentation format")
	ErrEmptyPresentation = errors.New("presentation contains no text")
	ErrTooLarge          = errors.New("presentation too large")
)

// ParseError wraps any failure to read a presentation.
type ParseError struct {
	Filename string
	Format   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("parse %s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("parse %s (%s): %v", e.Filename, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type Config struct {
	MaxBytes      int64
	MaxSlides     int
	MaxSlideChars int
}

func DefaultConfig() Config {
	return Config{
		MaxBytes:      50 << 20,
		MaxSlides:     200,
		MaxSlideChars: 4000,
	}
}

type Extractor struct {
	log *logger.Logger
	cfg Config
}

func New(log *logger.Logger, cfg Config) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	def := DefaultConfig()
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.MaxSlides <= 0 {
		cfg.MaxSlides = def.MaxSlides
	}
	if cfg.MaxSlideChars <= 0 {
		cfg.MaxSlideChars = def.MaxSlideChars
	}
	return &Extractor{log: log.With("service", "PresentationExtractor"), cfg: cfg}
}

// Parse extracts one text block per slide (PDF page or PPTX slide). Slides
// without text are kept as empty strings so indexes match the deck.
func (x *Extractor) Parse(ctx context.Context, file review.Upload) (*review.ParsedPresentation, error) {
	fail := func(format string, err error) (*review.ParsedPresentation, error) {
		return nil, &ParseError{Filename: file.Filename, Format: format, Err: err}
	}
	if int64(len(file.Data)) > x.cfg.MaxBytes {
		return fail("", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(file.Data)))
	}
	format := DetectFormat(file.Filename, file.Data)

	var (
		slides []string
		err    error
	)
	switch format {
	case FormatPDF:
		slides, err = x.pdfSlides(ctx, file.Data)
	case FormatPPTX:
		slides, err = x.pptxSlides(ctx, file.Data)
	default:
		return fail("", ErrUnsupportedFormat)
	}
	if err != nil {
		return fail(format, err)
	}

	hasText := false
	for i, s := range slides {
		s = normalizeText(s)
		if utf8.RuneCountInString(s) > x.cfg.MaxSlideChars {
			s = string([]rune(s)[:x.cfg.MaxSlideChars])
		}
		slides[i] = s
		if s != "" {
			hasText = true
		}
	}
	if !hasText {
		return fail(format, ErrEmptyPresentation)
	}

	x.log.Debug("presentation extracted", "filename", file.Filename, "format", format, "slides", len(slides))
	return &review.ParsedPresentation{
		Metadata: review.PresentationMetadata{
			Filename:   file.Filename,
			Format:     format,
			SlideCount: len(slides),
		},
		Slides: slides,
	}, nil
}

// DetectFormat sniffs the payload first and falls back to the file extension.
func DetectFormat(filename string, data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")) && isPPTX(data):
		return FormatPPTX
	}
	if len(data) > 0 {
		return ""
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".pptx":
		return FormatPPTX
	}
	return ""
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
