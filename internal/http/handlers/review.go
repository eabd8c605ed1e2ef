package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/http/response"
	"github.com/yungbote/projectreview-backend/internal/modules/review/driver"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
	"github.com/yungbote/projectreview-backend/internal/services"
)

var errSessionClosed = errors.New("review session is closed")

type ReviewHandler struct {
	log            *logger.Logger
	reviews        services.ReviewService
	maxUploadBytes int64
}

func NewReviewHandler(log *logger.Logger, reviews services.ReviewService, maxUploadBytes int64) *ReviewHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 50 << 20
	}
	return &ReviewHandler{
		log:            log.With("handler", "ReviewHandler"),
		reviews:        reviews,
		maxUploadBytes: maxUploadBytes,
	}
}

type openReviewRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	ProjectTitle       string `json:"project_title"`
	ProjectDescription string `json:"project_description"`
}

type answerRequest struct {
	Transcript string `json:"transcript"`
}

// sessionView is the session as exposed to clients. The question pool and
// raw slides stay server side.
type sessionView struct {
	ID              string                       `json:"id"`
	Phase           review.Phase                 `json:"phase"`
	Candidate       review.Candidate             `json:"candidate"`
	Metadata        *review.PresentationMetadata `json:"metadata,omitempty"`
	CurrentQuestion *review.Question             `json:"current_question,omitempty"`
	CurrentLevel    review.Level                 `json:"current_level,omitempty"`
	QuestionsAsked  int                          `json:"questions_asked"`
	Answers         []review.Answer              `json:"answers,omitempty"`
	Evaluations     []review.Evaluation          `json:"evaluations,omitempty"`
	AIDetection     *review.AIDetection          `json:"ai_detection,omitempty"`
	FinalReport     *review.Report               `json:"final_report,omitempty"`
	ErrorCount      int                          `json:"error_count"`
	LastError       string                       `json:"last_error,omitempty"`
	LastAIMessage   string                       `json:"last_ai_message,omitempty"`
	Timing          review.Timing                `json:"timing"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

func toSessionView(s review.Session) sessionView {
	return sessionView{
		ID:              s.ID,
		Phase:           s.Phase,
		Candidate:       s.Candidate,
		Metadata:        s.Metadata,
		CurrentQuestion: s.CurrentQuestion,
		CurrentLevel:    s.CurrentLevel,
		QuestionsAsked:  len(s.QuestionsAsked),
		Answers:         s.Answers,
		Evaluations:     s.Evaluations,
		AIDetection:     s.AIDetection,
		FinalReport:     s.FinalReport,
		ErrorCount:      s.ErrorCount,
		LastError:       s.LastError,
		LastAIMessage:   s.LastAIMessage,
		Timing:          s.Timing,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type stepView struct {
	Session     sessionView         `json:"session"`
	Messages    []string            `json:"messages"`
	Transitions []driver.Transition `json:"transitions"`
}

func toStepView(res driver.StepResult) stepView {
	v := stepView{
		Session:     toSessionView(res.Session),
		Messages:    res.Messages,
		Transitions: res.Transitions,
	}
	if v.Messages == nil {
		v.Messages = []string{}
	}
	if v.Transitions == nil {
		v.Transitions = []driver.Transition{}
	}
	return v
}

// POST /api/reviews
func (h *ReviewHandler) Open(c *gin.Context) {
	var req openReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.reviews.Open(c.Request.Context(), review.Candidate{
		Name:               req.Name,
		Email:              strings.TrimSpace(req.Email),
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: strings.TrimSpace(req.ProjectDescription),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, toStepView(res))
}

// GET /api/reviews?recommendation=&limit=
func (h *ReviewHandler) List(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	recs, err := h.reviews.List(c.Request.Context(), c.Query("recommendation"), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": recs})
}

// GET /api/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	s, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": toSessionView(s)})
}

// GET /api/reviews/:id/report
func (h *ReviewHandler) Report(c *gin.Context) {
	rep, err := h.reviews.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": rep})
}

// POST /api/reviews/:id/presentation (multipart field "file")
func (h *ReviewHandler) UploadPresentation(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	if fh.Size > h.maxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file is %d bytes, limit is %d", fh.Size, h.maxUploadBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	res, err := h.reviews.UploadPresentation(c.Request.Context(), c.Param("id"), review.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toStepView(res))
}

// POST /api/reviews/:id/answers
func (h *ReviewHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.reviews.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Transcript)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toStepView(res))
}

// POST /api/reviews/:id/skip
func (h *ReviewHandler) Skip(c *gin.Context) {
	res, err := h.reviews.Skip(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toStepView(res))
}

// POST /api/reviews/:id/end
func (h *ReviewHandler) End(c *gin.Context) {
	res, err := h.reviews.End(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toStepView(res))
}
