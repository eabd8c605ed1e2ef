package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

const defaultSummaryTemplate = `Thank you, {{.Name}}. {{if .Scored}}Across {{.Scored}} answered {{plural .Scored "question" "questions"}} your average score was {{printf "%.1f" .Report.AverageScore}} out of 10. {{else}}We did not get to score any answers today. {{end}}{{.Report.OverallAssessment}}{{with .FirstStep}} As a next step: {{.}}{{end}}`

// ReportRenderer produces the spoken closing summary from a finished report.
type ReportRenderer struct {
	log  *logger.Logger
	tmpl *template.Template
}

// NewReportRenderer parses text, or the built-in template when text is blank.
func NewReportRenderer(log *logger.Logger, text string) (*ReportRenderer, error) {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(text) == "" {
		text = defaultSummaryTemplate
	}
	tmpl, err := template.New("summary").Funcs(template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse summary template: %w", err)
	}
	return &ReportRenderer{log: log.With("service", "ReportRenderer"), tmpl: tmpl}, nil
}

type summaryData struct {
	Name      string
	Scored    int
	FirstStep string
	Report    review.Report
}

// Summary returns "" on template failure; the caller falls back to the assessment.
func (r *ReportRenderer) Summary(rep review.Report, candidateName string) string {
	data := summaryData{
		Name:   strings.TrimSpace(candidateName),
		Scored: rep.QuestionsScored,
		Report: rep,
	}
	if len(rep.NextSteps) > 0 {
		data.FirstStep = rep.NextSteps[0]
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		r.log.Warn("render summary failed", "error", err)
		return ""
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}
