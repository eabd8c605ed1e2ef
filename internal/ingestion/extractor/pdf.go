package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"rsc.io/pdf"
)

// pdfSlides returns one entry per page. rsc.io/pdf panics on some malformed
// files, so the whole read runs under recover.
func (x *Extractor) pdfSlides(ctx context.Context, data []byte) (slides []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			slides, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	total := doc.NumPage()
	if total > x.cfg.MaxSlides {
		x.log.Warn("pdf page count over limit, truncating", "pages", total, "limit", x.cfg.MaxSlides)
		total = x.cfg.MaxSlides
	}
	slides = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			slides = append(slides, "")
			continue
		}
		slides = append(slides, pageText(p.Content().Text))
	}
	return slides, nil
}

// pageText rebuilds lines from positioned glyph runs: a vertical jump starts a
// new line, a horizontal gap inserts a space.
func pageText(runs []pdf.Text) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range runs {
		t := &runs[i]
		if t.S == "" {
			continue
		}
		if prev != nil {
			size := math.Max(prev.FontSize, 1)
			switch {
			case math.Abs(t.Y-prev.Y) > size*0.5:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > size*0.15:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String()
}
