package phases

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

var errEmptyPresentation = errors.New("presentation has no readable slide text")

// Parse extracts slide texts from the uploaded file. Failures keep the candidate
// on UPLOAD with a re-upload prompt; parser failures also bump ErrorCount, a
// missing file does not.
func (p *Phases) Parse(ctx context.Context, s review.Session, file review.Upload) review.Delta {
	retry := func(code string, err error, msg string) review.Delta {
		return review.Delta{
			Next:          review.Ptr(review.PhaseUpload),
			ErrorCount:    review.Ptr(s.ErrorCount + 1),
			LastError:     errorf(code, err),
			LastAIMessage: &msg,
		}
	}
	if len(file.Data) == 0 {
		return review.Delta{
			Next:          review.Ptr(review.PhaseUpload),
			LastError:     errorf("missing_file", nil),
			LastAIMessage: review.Ptr(p.messages.MissingFile),
		}
	}
	if p.collab.Parser == nil {
		return retry("parse_failed", errNoCollaborator, p.messages.ReuploadPrompt)
	}

	parsed, err := call(ctx, p, "parser", p.timeouts.Parse, func(ctx context.Context) (*review.ParsedPresentation, error) {
		return p.collab.Parser.Parse(ctx, file)
	})
	var slides []string
	if err == nil {
		if parsed != nil {
			slides = trimSlides(parsed.Slides)
		}
		if !hasText(slides) {
			err = errEmptyPresentation
		}
	}
	if err != nil {
		p.log.Warn("presentation parse failed", "session_id", s.ID, "filename", file.Filename, "error", err)
		return retry("parse_failed", err, p.messages.ReuploadPrompt)
	}

	meta := parsed.Metadata
	if meta.Filename == "" {
		meta.Filename = file.Filename
	}
	meta.SlideCount = len(slides)
	msg := fill(p.messages.SlidesReceived, "slides", strconv.Itoa(len(slides)))
	p.log.Info("presentation parsed", "session_id", s.ID, "slides", len(slides), "format", meta.Format)
	return review.Delta{
		Next:          review.Ptr(review.PhaseAIDetection),
		Metadata:      &meta,
		Slides:        slides,
		LastAIMessage: &msg,
	}
}

// trimSlides keeps blank slides in place so indexes match the deck.
func trimSlides(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func hasText(slides []string) bool {
	for _, s := range slides {
		if s != "" {
			return true
		}
	}
	return false
}
