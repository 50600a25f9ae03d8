package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/events"
	"github.com/spec-kit/idea-portal/internal/repository"
	"github.com/spec-kit/idea-portal/internal/textgen"
)

var (
	ErrRateLimited         = errors.New("idea generation limit reached, try again later")
	ErrGenerationFailed    = errors.New("failed to generate idea")
	ErrIdeaNotUnique       = errors.New("a similar project idea has already been approved")
	ErrIdeaNotFound        = errors.New("project idea not found")
	ErrInvalidReviewStatus = errors.New("status must be approved or rejected")
)

// IdeaMetrics receives idea lifecycle counts.
type IdeaMetrics interface {
	RecordGeneration(outcome string)
	RecordSubmission()
	RecordReview(status string)
}

// IdeaService coordinates idea generation, submission and review.
type IdeaService struct {
	ideas           repository.IdeaRepository
	feedback        repository.FeedbackRepository
	generator       textgen.Generator
	limiter         GenerationLimiter
	dispatcher      events.Dispatcher
	metrics         IdeaMetrics
	logger          *zap.Logger
	checkUniqueness bool
	now             func() time.Time
}

// IdeaDependencies bundles collaborators for the idea service.
type IdeaDependencies struct {
	IdeaRepo        repository.IdeaRepository
	FeedbackRepo    repository.FeedbackRepository
	Generator       textgen.Generator
	Limiter         GenerationLimiter
	Dispatcher      events.Dispatcher
	Metrics         IdeaMetrics
	Logger          *zap.Logger
	CheckUniqueness bool
}

// NewIdeaService constructs the service.
func NewIdeaService(deps IdeaDependencies) *IdeaService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaService{
		ideas:           deps.IdeaRepo,
		feedback:        deps.FeedbackRepo,
		generator:       deps.Generator,
		limiter:         deps.Limiter,
		dispatcher:      deps.Dispatcher,
		metrics:         deps.Metrics,
		logger:          logger,
		checkUniqueness: deps.CheckUniqueness,
		now:             time.Now,
	}
}

// Generate asks the text generator for a project proposal tailored to prompt.
func (s *IdeaService) Generate(ctx context.Context, studentID string, prompt textgen.IdeaPrompt) (string, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, studentID)
		switch {
		case err != nil:
			s.logger.Warn("generation limiter unavailable", zap.String("student_id", studentID), zap.Error(err))
		case !allowed:
			s.recordGeneration("limited")
			return "", ErrRateLimited
		}
	}

	idea, err := s.generator.GenerateIdea(ctx, prompt)
	if err != nil {
		s.recordGeneration("failed")
		s.logger.Error("generate idea", zap.String("student_id", studentID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	s.recordGeneration("ok")
	return idea, nil
}

// Submit stores a pending idea for studentID.
func (s *IdeaService) Submit(ctx context.Context, studentID, title, description string) (*domain.ProjectIdea, error) {
	idea := &domain.ProjectIdea{
		StudentID:   studentID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      domain.IdeaStatusPending,
	}

	if s.checkUniqueness {
		unique, err := s.isUnique(ctx, idea.Title, idea.Description)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, ErrIdeaNotUnique
		}
	}

	if err := s.ideas.Create(ctx, idea); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordSubmission()
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventIdeaSubmitted,
		IdeaID: idea.ID,
		Actor:  events.Actor{UserID: studentID, Role: domain.RoleStudent},
		Payload: events.IdeaSubmittedPayload{
			StudentID: studentID,
			Title:     idea.Title,
		},
	})
	return idea, nil
}

// isUnique compares against approved ideas. Only a storage failure is an error; a
// generator outage lets the submission through.
func (s *IdeaService) isUnique(ctx context.Context, title, description string) (bool, error) {
	corpus, err := s.ideas.ListApprovedSummaries(ctx)
	if err != nil {
		return false, err
	}
	unique, err := s.generator.AssessUniqueness(ctx, title, description, corpus)
	if err != nil {
		s.logger.Warn("uniqueness check skipped", zap.Error(err))
		return true, nil
	}
	return unique, nil
}

// ListForStudent returns the student's own ideas, newest first.
func (s *IdeaService) ListForStudent(ctx context.Context, studentID string) ([]domain.ProjectIdea, error) {
	return s.ideas.ListByStudent(ctx, studentID)
}

// ListForStaff returns every idea with the submitting student attached.
func (s *IdeaService) ListForStaff(ctx context.Context) ([]domain.ProjectIdea, error) {
	return s.ideas.ListAll(ctx)
}

// Review records a staff decision on an idea. Non-empty feedback is also kept as a
// separate feedback record, written in the same transaction as the decision.
func (s *IdeaService) Review(ctx context.Context, staff *domain.User, ideaID string, status domain.IdeaStatus, feedback string) (*domain.ProjectIdea, error) {
	if !status.Reviewed() {
		return nil, ErrInvalidReviewStatus
	}

	var note *string
	if trimmed := strings.TrimSpace(feedback); trimmed != "" {
		note = &trimmed
	}

	idea, err := s.ideas.UpdateReview(ctx, repository.IdeaReview{
		IdeaID:     ideaID,
		Status:     status,
		Feedback:   note,
		ReviewerID: staff.ID,
		ReviewedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordReview(string(status))
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventIdeaReviewed,
		IdeaID: idea.ID,
		Actor:  events.Actor{UserID: staff.ID, Role: staff.Role},
		Payload: events.IdeaReviewedPayload{
			StudentID:   idea.StudentID,
			Status:      status,
			HasFeedback: note != nil,
		},
	})
	return idea, nil
}

// FeedbackForIdea lists the feedback left on an idea, oldest first.
func (s *IdeaService) FeedbackForIdea(ctx context.Context, ideaID string) ([]domain.Feedback, error) {
	return s.feedback.ListByIdea(ctx, ideaID)
}

func (s *IdeaService) recordGeneration(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(outcome)
	}
}

func (s *IdeaService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
