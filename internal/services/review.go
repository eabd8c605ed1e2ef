package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/data/repos"
	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/driver"
	"github.com/yungbote/projectreview-backend/internal/platform/apierr"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type ReviewService interface {
	Open(ctx context.Context, candidate review.Candidate) (driver.StepResult, error)
	UploadPresentation(ctx context.Context, sessionID string, file review.Upload) (driver.StepResult, error)
	SubmitAnswer(ctx context.Context, sessionID, transcript string) (driver.StepResult, error)
	Skip(ctx context.Context, sessionID string) (driver.StepResult, error)
	End(ctx context.Context, sessionID string) (driver.StepResult, error)

	// Get returns the live session, or the archived one once it has closed.
	Get(ctx context.Context, sessionID string) (review.Session, error)
	Report(ctx context.Context, sessionID string) (*review.Report, error)
	List(ctx context.Context, recommendation string, limit int) ([]*review.ReviewArchive, error)
}

type reviewService struct {
	db      *gorm.DB
	log     *logger.Logger
	driver  *driver.Driver
	archive repos.ReviewArchiveRepo
}

// NewReviewService wires the driver to the archive. db and archive may be nil
// when the service runs without a database; Get then only sees live sessions.
func NewReviewService(db *gorm.DB, log *logger.Logger, d *driver.Driver, archive repos.ReviewArchiveRepo) ReviewService {
	return &reviewService{
		db:      db,
		log:     log.With("service", "ReviewService"),
		driver:  d,
		archive: archive,
	}
}

func (rs *reviewService) Open(ctx context.Context, candidate review.Candidate) (driver.StepResult, error) {
	res, err := rs.driver.Open(ctx, candidate)
	return res, mapReviewError(err)
}

func (rs *reviewService) UploadPresentation(ctx context.Context, sessionID string, file review.Upload) (driver.StepResult, error) {
	res, err := rs.driver.Handle(ctx, sessionID, driver.UploadEvent(file))
	return res, mapReviewError(err)
}

func (rs *reviewService) SubmitAnswer(ctx context.Context, sessionID, transcript string) (driver.StepResult, error) {
	res, err := rs.driver.Handle(ctx, sessionID, driver.AnswerEvent(transcript))
	return res, mapReviewError(err)
}

func (rs *reviewService) Skip(ctx context.Context, sessionID string) (driver.StepResult, error) {
	res, err := rs.driver.Handle(ctx, sessionID, driver.SkipEvent())
	return res, mapReviewError(err)
}

func (rs *reviewService) End(ctx context.Context, sessionID string) (driver.StepResult, error) {
	res, err := rs.driver.Handle(ctx, sessionID, driver.EndEvent())
	return res, mapReviewError(err)
}

func (rs *reviewService) Get(ctx context.Context, sessionID string) (review.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	s, err := rs.driver.Snapshot(ctx, sessionID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, review.ErrSessionNotFound) || rs.archive == nil {
		return review.Session{}, mapReviewError(err)
	}
	rec, err := rs.archive.GetBySessionID(ctx, rs.db, sessionID)
	if err != nil {
		return review.Session{}, mapReviewError(err)
	}
	s, err = SessionFromArchive(rec)
	if err != nil {
		rs.log.Error("corrupt archived session", "session_id", sessionID, "error", err)
		return review.Session{}, apierr.New(http.StatusInternalServerError, "archive_corrupt", err)
	}
	return s, nil
}

func (rs *reviewService) Report(ctx context.Context, sessionID string) (*review.Report, error) {
	s, err := rs.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.FinalReport == nil {
		if s.Phase.Terminal() {
			return nil, apierr.NotFound("report_unavailable", errors.New("session closed without a report"))
		}
		return nil, apierr.Conflict("report_not_ready", errors.New("report not generated yet"))
	}
	return s.FinalReport, nil
}

func (rs *reviewService) List(ctx context.Context, recommendation string, limit int) ([]*review.ReviewArchive, error) {
	if rs.archive == nil {
		return []*review.ReviewArchive{}, nil
	}
	recommendation = strings.ToLower(strings.TrimSpace(recommendation))
	switch review.Recommendation(recommendation) {
	case "", review.RecommendProceed, review.RecommendReview, review.RecommendReject:
	default:
		return nil, apierr.BadRequest("invalid_recommendation", errors.New("recommendation must be proceed, review or reject"))
	}
	recs, err := rs.archive.ListRecent(ctx, rs.db, recommendation, limit)
	if err != nil {
		return nil, apierr.From(err, "list_reviews_failed")
	}
	return recs, nil
}

// mapReviewError attaches an HTTP status to driver and store errors.
func mapReviewError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, review.ErrSessionNotFound):
		return apierr.NotFound("session_not_found", err)
	case errors.Is(err, review.ErrSessionClosed):
		return apierr.Conflict("session_closed", err)
	case errors.Is(err, review.ErrInvalidEvent):
		return apierr.Conflict("invalid_event", err)
	case errors.Is(err, review.ErrSessionExists):
		return apierr.Conflict("session_exists", err)
	case errors.Is(err, review.ErrSessionConflict):
		return apierr.Conflict("session_conflict", err)
	case errors.Is(err, review.ErrInvalidInput):
		return apierr.BadRequest("invalid_input", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "timeout", err)
	case errors.Is(err, context.Canceled):
		return apierr.New(499, "canceled", err)
	default:
		return apierr.From(err, "review_failed")
	}
}
