package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxSlideXMLBytes caps how much of one slide part is read.
const maxSlideXMLBytes = 4 << 20

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func isPPTX(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == "ppt/presentation.xml" {
			return true
		}
	}
	return false
}

type numberedPart struct {
	n int
	f *zip.File
}

// pptxSlides reads ppt/slides/slideN.xml in N order and collects the text runs.
func (x *Extractor) pptxSlides(ctx context.Context, data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}
	var parts []numberedPart
	for _, f := range zr.File {
		m := slidePart.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, numberedPart{n: n, f: f})
	}
	if len(parts) == 0 {
		return nil, errors.New("pptx has no slides")
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })
	if len(parts) > x.cfg.MaxSlides {
		x.log.Warn("pptx slide count over limit, truncating", "slides", len(parts), "limit", x.cfg.MaxSlides)
		parts = parts[:x.cfg.MaxSlides]
	}

	slides := make([]string, 0, len(parts))
	for _, p := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := slideText(p.f)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", p.n, err)
		}
		slides = append(slides, text)
	}
	return slides, nil
}

// slideText concatenates <a:t> runs, one line per <a:p> paragraph.
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, maxSlideXMLBytes))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
