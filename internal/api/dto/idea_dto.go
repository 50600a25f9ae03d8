package dto

import (
	"time"

	"github.com/spec-kit/idea-portal/internal/domain"
)

// GenerateIdeaRequest carries the student's profile for idea generation.
type GenerateIdeaRequest struct {
	AreasOfInterest string `json:"areasOfInterest" validate:"required,max=500"`
	DomainInterest  string `json:"domainInterest" validate:"required,max=200"`
	LanguagesKnown  string `json:"languagesKnown" validate:"required,max=300"`
	AdditionalInfo  string `json:"additionalInfo" validate:"max=2000"`
}

// SubmitIdeaRequest submits an idea for review.
type SubmitIdeaRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=20000"`
}

// ReviewIdeaRequest records a staff decision.
type ReviewIdeaRequest struct {
	IdeaID   string `json:"ideaId" validate:"required,uuid4"`
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	Feedback string `json:"feedback" validate:"max=5000"`
}

// StudentResponse identifies the student behind an idea.
type StudentResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IdeaResponse is the public view of a project idea.
type IdeaResponse struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.IdeaStatus `json:"status"`
	Feedback    *string           `json:"feedback,omitempty"`
	SubmittedAt time.Time         `json:"submittedAt"`
	ReviewedAt  *time.Time        `json:"reviewedAt,omitempty"`
	ReviewedBy  *string           `json:"reviewedBy,omitempty"`
	Student     *StudentResponse  `json:"student,omitempty"`
}

// FeedbackResponse is a single staff comment.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"ideaId"`
	StaffID   string    `json:"staffId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewIdeaResponse maps an idea to its public view.
func NewIdeaResponse(idea *domain.ProjectIdea) IdeaResponse {
	resp := IdeaResponse{
		ID:          idea.ID,
		StudentID:   idea.StudentID,
		Title:       idea.Title,
		Description: idea.Description,
		Status:      idea.Status,
		Feedback:    idea.Feedback,
		SubmittedAt: idea.SubmittedAt,
		ReviewedAt:  idea.ReviewedAt,
		ReviewedBy:  idea.ReviewedBy,
	}
	if idea.Student != nil {
		resp.Student = &StudentResponse{Name: idea.Student.Name, Email: idea.Student.Email}
	}
	return resp
}

// NewIdeaResponses maps a list, never returning nil.
func NewIdeaResponses(ideas []domain.ProjectIdea) []IdeaResponse {
	out := make([]IdeaResponse, 0, len(ideas))
	for i := range ideas {
		out = append(out, NewIdeaResponse(&ideas[i]))
	}
	return out
}

// NewFeedbackResponses maps feedback records.
func NewFeedbackResponses(items []domain.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(items))
	for _, fb := range items {
		out = append(out, FeedbackResponse{
			ID:        fb.ID,
			IdeaID:    fb.IdeaID,
			StaffID:   fb.StaffID,
			Content:   fb.Content,
			CreatedAt: fb.CreatedAt,
		})
	}
	return out
}
