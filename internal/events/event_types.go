package events

import (
	"time"

	"github.com/spec-kit/idea-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdeaSubmitted EventType = "idea_submitted"
	EventIdeaReviewed  EventType = "idea_reviewed"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IdeaID    string      `json:"idea_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IdeaSubmittedPayload payload.
type IdeaSubmittedPayload struct {
	StudentID string `json:"student_id"`
	Title     string `json:"title"`
}

// IdeaReviewedPayload payload.
type IdeaReviewedPayload struct {
	StudentID   string            `json:"student_id"`
	Status      domain.IdeaStatus `json:"status"`
	HasFeedback bool              `json:"has_feedback"`
}
