package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/persistence"
)

// IdeaReview carries the fields written when staff review an idea.
type IdeaReview struct {
	IdeaID     string
	Status     domain.IdeaStatus
	Feedback   *string
	ReviewerID string
	ReviewedAt time.Time
}

// IdeaRepository persists project ideas.
type IdeaRepository interface {
	Create(ctx context.Context, idea *domain.ProjectIdea) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.ProjectIdea, error)
	ListAll(ctx context.Context) ([]domain.ProjectIdea, error)
	ListApprovedSummaries(ctx context.Context) ([]domain.IdeaSummary, error)
	UpdateReview(ctx context.Context, review IdeaReview) (*domain.ProjectIdea, error)
}

type ideaRepository struct {
	db persistence.DBTX
}

// NewIdeaRepository builds repository.
func NewIdeaRepository(db persistence.DBTX) IdeaRepository {
	return &ideaRepository{db: db}
}

const ideaColumns = `id, student_id, title, description, status, feedback, submitted_at, reviewed_at, reviewed_by`

func (r *ideaRepository) Create(ctx context.Context, idea *domain.ProjectIdea) error {
	const query = `
        INSERT INTO project_ideas (student_id, title, description, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, submitted_at`
	return r.db.QueryRow(ctx, query,
		idea.StudentID,
		idea.Title,
		idea.Description,
		string(idea.Status),
	).Scan(&idea.ID, &idea.SubmittedAt)
}

func (r *ideaRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.ProjectIdea, error) {
	query := `
        SELECT ` + ideaColumns + `
        FROM project_ideas WHERE student_id=$1 ORDER BY submitted_at DESC`
	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ProjectIdea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *idea)
	}
	return result, rows.Err()
}

// ListAll returns every idea with the submitting student's name and email.
func (r *ideaRepository) ListAll(ctx context.Context) ([]domain.ProjectIdea, error) {
	const query = `
        SELECT i.id, i.student_id, i.title, i.description, i.status, i.feedback,
               i.submitted_at, i.reviewed_at, i.reviewed_by, u.name, u.email
        FROM project_ideas i JOIN users u ON u.id = i.student_id
        ORDER BY i.submitted_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ProjectIdea{}
	for rows.Next() {
		var idea domain.ProjectIdea
		var student domain.StudentRef
		if err := rows.Scan(
			&idea.ID,
			&idea.StudentID,
			&idea.Title,
			&idea.Description,
			&idea.Status,
			&idea.Feedback,
			&idea.SubmittedAt,
			&idea.ReviewedAt,
			&idea.ReviewedBy,
			&student.Name,
			&student.Email,
		); err != nil {
			return nil, err
		}
		idea.Student = &student
		result = append(result, idea)
	}
	return result, rows.Err()
}

func (r *ideaRepository) ListApprovedSummaries(ctx context.Context) ([]domain.IdeaSummary, error) {
	const query = `
        SELECT title, description FROM project_ideas
        WHERE status=$1 ORDER BY reviewed_at DESC`
	rows, err := r.db.Query(ctx, query, string(domain.IdeaStatusApproved))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IdeaSummary
	for rows.Next() {
		var summary domain.IdeaSummary
		if err := rows.Scan(&summary.Title, &summary.Description); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

// UpdateReview applies a review and returns the updated idea, or pgx.ErrNoRows when no
// idea has that id. Non-nil feedback is also stored as a feedback row; both writes
// commit or roll back together.
func (r *ideaRepository) UpdateReview(ctx context.Context, review IdeaReview) (*domain.ProjectIdea, error) {
	if review.Feedback == nil {
		return updateReview(ctx, r.db, review)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	idea, err := updateReview(ctx, tx, review)
	if err == nil {
		err = insertFeedback(ctx, tx, &domain.Feedback{
			IdeaID:  idea.ID,
			StaffID: review.ReviewerID,
			Content: *review.Feedback,
		})
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return idea, nil
}

func updateReview(ctx context.Context, q persistence.Querier, review IdeaReview) (*domain.ProjectIdea, error) {
	query := `
        UPDATE project_ideas
        SET status=$1, feedback=$2, reviewed_at=$3, reviewed_by=$4
        WHERE id=$5
        RETURNING ` + ideaColumns
	return scanIdea(q.QueryRow(ctx, query,
		string(review.Status),
		review.Feedback,
		review.ReviewedAt,
		review.ReviewerID,
		review.IdeaID,
	))
}

func scanIdea(row pgx.Row) (*domain.ProjectIdea, error) {
	var idea domain.ProjectIdea
	if err := row.Scan(
		&idea.ID,
		&idea.StudentID,
		&idea.Title,
		&idea.Description,
		&idea.Status,
		&idea.Feedback,
		&idea.SubmittedAt,
		&idea.ReviewedAt,
		&idea.ReviewedBy,
	); err != nil {
		return nil, err
	}
	return &idea, nil
}
