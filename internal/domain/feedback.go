package domain

import "time"

// Feedback is an immutable review comment left by staff on an idea.
type Feedback struct {
	ID        string
	IdeaID    string
	StaffID   string
	Content   string
	CreatedAt time.Time
}
