package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/idea-portal/internal/api/dto"
	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	apperrors "github.com/spec-kit/idea-portal/pkg/util"
)

// StaffIdeas is the review workflow available to staff.
type StaffIdeas interface {
	ListForStaff(ctx context.Context) ([]domain.ProjectIdea, error)
	Review(ctx context.Context, staff *domain.User, ideaID string, status domain.IdeaStatus, feedback string) (*domain.ProjectIdea, error)
	FeedbackForIdea(ctx context.Context, ideaID string) ([]domain.Feedback, error)
}

// StaffIdeasHandler manages staff review endpoints.
type StaffIdeasHandler struct {
	ideas    StaffIdeas
	sessions auth.CurrentUserResolver
	cookie   *auth.SessionCookie
}

// NewStaffIdeasHandler constructs handler.
func NewStaffIdeasHandler(ideas StaffIdeas, sessions auth.CurrentUserResolver, cookie *auth.SessionCookie) *StaffIdeasHandler {
	return &StaffIdeasHandler{ideas: ideas, sessions: sessions, cookie: cookie}
}

// ListIdeas GET /api/staff/ideas.
func (h *StaffIdeasHandler) ListIdeas(c *fiber.Ctx) error {
	ideas, err := h.ideas.ListForStaff(c.UserContext())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewIdeaResponses(ideas)})
}

// ReviewIdea POST /api/staff/review-idea.
func (h *StaffIdeasHandler) ReviewIdea(c *fiber.Ctx) error {
	var req dto.ReviewIdeaRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	// the reviewer is recorded by id, so the account itself must still exist
	staff, ok := h.sessions.ResolveCurrentUser(c.UserContext(), h.cookie.Credential(c))
	if !ok || staff.Role != domain.RoleStaff {
		return apperrors.NewNotFound("User", nil)
	}

	status := domain.IdeaStatus(req.Status)
	idea, err := h.ideas.Review(c.UserContext(), staff, req.IdeaID, status, req.Feedback)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"message": "Project idea " + string(status),
			"idea":    dto.NewIdeaResponse(idea),
		},
	})
}

// ListFeedback GET /api/staff/ideas/:id/feedback.
func (h *StaffIdeasHandler) ListFeedback(c *fiber.Ctx) error {
	ideaID := c.Params("id")
	if _, err := uuid.Parse(ideaID); err != nil {
		return apperrors.NewValidationError("invalid idea id", nil)
	}
	items, err := h.ideas.FeedbackForIdea(c.UserContext(), ideaID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewFeedbackResponses(items)})
}
