package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/idea-portal/internal/api/dto"
	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/textgen"
	apperrors "github.com/spec-kit/idea-portal/pkg/util"
)

// StudentIdeas is the idea workflow available to students.
type StudentIdeas interface {
	Generate(ctx context.Context, studentID string, prompt textgen.IdeaPrompt) (string, error)
	Submit(ctx context.Context, studentID, title, description string) (*domain.ProjectIdea, error)
	ListForStudent(ctx context.Context, studentID string) ([]domain.ProjectIdea, error)
}

// StudentIdeasHandler manages student idea endpoints.
type StudentIdeasHandler struct {
	ideas StudentIdeas
}

// NewStudentIdeasHandler constructs handler.
func NewStudentIdeasHandler(ideas StudentIdeas) *StudentIdeasHandler {
	return &StudentIdeasHandler{ideas: ideas}
}

// GenerateIdea POST /api/student/generate-idea.
func (h *StudentIdeasHandler) GenerateIdea(c *fiber.Ctx) error {
	student, err := studentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.GenerateIdeaRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	idea, err := h.ideas.Generate(c.UserContext(), student.UserID, textgen.IdeaPrompt{
		AreasOfInterest: req.AreasOfInterest,
		DomainInterest:  req.DomainInterest,
		LanguagesKnown:  req.LanguagesKnown,
		AdditionalInfo:  req.AdditionalInfo,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"idea": idea}})
}

// SubmitIdea POST /api/student/submit-idea.
func (h *StudentIdeasHandler) SubmitIdea(c *fiber.Ctx) error {
	student, err := studentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.SubmitIdeaRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	idea, err := h.ideas.Submit(c.UserContext(), student.UserID, req.Title, req.Description)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewIdeaResponse(idea)})
}

// ListIdeas GET /api/student/ideas.
func (h *StudentIdeasHandler) ListIdeas(c *fiber.Ctx) error {
	student, err := studentIdentity(c)
	if err != nil {
		return err
	}
	ideas, err := h.ideas.ListForStudent(c.UserContext(), student.UserID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewIdeaResponses(ideas)})
}

func studentIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok || identity.Role != domain.RoleStudent {
		return domain.Identity{}, apperrors.NewUnauthorized("Unauthorized")
	}
	return identity, nil
}
