package domain

import "time"

// IdeaStatus enumerates the review lifecycle of a project idea.
type IdeaStatus string

const (
	IdeaStatusPending  IdeaStatus = "pending"
	IdeaStatusApproved IdeaStatus = "approved"
	IdeaStatusRejected IdeaStatus = "rejected"
)

// Reviewed reports whether the status is a terminal review decision.
func (s IdeaStatus) Reviewed() bool {
	return s == IdeaStatusApproved || s == IdeaStatusRejected
}

// ProjectIdea is a student's submitted project proposal.
type ProjectIdea struct {
	ID          string
	StudentID   string
	Title       string
	Description string
	Status      IdeaStatus
	Feedback    *string
	SubmittedAt time.Time
	ReviewedAt  *time.Time
	ReviewedBy  *string

	// Student is populated by staff listings only.
	Student *StudentRef
}

// StudentRef is the public slice of a student shown to reviewers.
type StudentRef struct {
	Name  string
	Email string
}

// IdeaSummary is the title/description pair used for uniqueness comparison.
type IdeaSummary struct {
	Title       string
	Description string
}
