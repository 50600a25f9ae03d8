package repository

import (
	"context"

	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/persistence"
)

// FeedbackRepository reads review comments. Rows are written together with the review
// itself, see IdeaRepository.UpdateReview.
type FeedbackRepository interface {
	ListByIdea(ctx context.Context, ideaID string) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	db persistence.DBTX
}

// NewFeedbackRepository builds repository.
func NewFeedbackRepository(db persistence.DBTX) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func insertFeedback(ctx context.Context, q persistence.Querier, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (idea_id, staff_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		feedback.IdeaID,
		feedback.StaffID,
		feedback.Content,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) ListByIdea(ctx context.Context, ideaID string) ([]domain.Feedback, error) {
	const query = `
        SELECT id, idea_id, staff_id, content, created_at
        FROM feedback WHERE idea_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, ideaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Feedback{}
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(
			&fb.ID,
			&fb.IdeaID,
			&fb.StaffID,
			&fb.Content,
			&fb.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
