package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/idea-portal/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns generated fields", func(t *testing.T) {
		mock := newMock(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ada", "ada@example.edu", "hash", "student").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", now, now))

		user := &domain.User{Name: "Ada", Email: "ada@example.edu", PasswordHash: "hash", Role: domain.RoleStudent}
		require.NoError(t, repo.Create(context.Background(), user))
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, now, user.CreatedAt)
	})

	t.Run("maps unique violation", func(t *testing.T) {
		mock := newMock(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ada", "ada@example.edu", "hash", "staff").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		user := &domain.User{Name: "Ada", Email: "ada@example.edu", PasswordHash: "hash", Role: domain.RoleStaff}
		assert.ErrorIs(t, repo.Create(context.Background(), user), ErrDuplicateEmail)
	})
}

func TestUserRepository_GetProfileByID(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("excludes password hash", func(t *testing.T) {
		mock := newMock(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`SELECT id, name, email, role, created_at, updated_at\s+FROM users WHERE id=\$1`).
			WithArgs("u-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "role", "created_at", "updated_at"}).
				AddRow("u-1", "Ada", "ada@example.edu", domain.RoleStaff, now, now))

		user, err := repo.GetProfileByID(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStaff, user.Role)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`FROM users WHERE id=\$1`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetProfileByID(context.Background(), "missing")
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at, updated_at\s+FROM users WHERE email=\$1`).
		WithArgs("ada@example.edu").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow("u-1", "Ada", "ada@example.edu", "hash", domain.RoleStudent, now, now))

	user, err := repo.GetByEmail(context.Background(), "ada@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "hash", user.PasswordHash)
}

var ideaCols = []string{"id", "student_id", "title", "description", "status", "feedback", "submitted_at", "reviewed_at", "reviewed_by"}

func TestIdeaRepository_Create(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock := newMock(t)
	repo := NewIdeaRepository(mock)

	mock.ExpectQuery(`INSERT INTO project_ideas`).
		WithArgs("s-1", "Campus bike share", "Track bikes", "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "submitted_at"}).AddRow("i-1", now))

	idea := &domain.ProjectIdea{StudentID: "s-1", Title: "Campus bike share", Description: "Track bikes", Status: domain.IdeaStatusPending}
	require.NoError(t, repo.Create(context.Background(), idea))
	assert.Equal(t, "i-1", idea.ID)
	assert.Equal(t, now, idea.SubmittedAt)
}

func TestIdeaRepository_ListByStudent(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock := newMock(t)
	repo := NewIdeaRepository(mock)

	mock.ExpectQuery(`FROM project_ideas WHERE student_id=\$1`).
		WithArgs("s-1").
		WillReturnRows(pgxmock.NewRows(ideaCols).
			AddRow("i-1", "s-1", "A", "a", domain.IdeaStatusPending, (*string)(nil), now, (*time.Time)(nil), (*string)(nil)).
			AddRow("i-2", "s-1", "B", "b", domain.IdeaStatusApproved, strPtr("nice"), now, &now, strPtr("st-1")))

	ideas, err := repo.ListByStudent(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Nil(t, ideas[0].Feedback)
	assert.Equal(t, "nice", *ideas[1].Feedback)
	assert.Equal(t, "st-1", *ideas[1].ReviewedBy)
}

func TestIdeaRepository_ListAllIncludesStudent(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock := newMock(t)
	repo := NewIdeaRepository(mock)

	cols := append(append([]string{}, ideaCols...), "name", "email")
	mock.ExpectQuery(`FROM project_ideas i JOIN users u`).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("i-1", "s-1", "A", "a", domain.IdeaStatusPending, (*string)(nil), now, (*time.Time)(nil), (*string)(nil), "Ada", "ada@example.edu"))

	ideas, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	require.NotNil(t, ideas[0].Student)
	assert.Equal(t, "Ada", ideas[0].Student.Name)
}

func TestIdeaRepository_ListApprovedSummaries(t *testing.T) {
	mock := newMock(t)
	repo := NewIdeaRepository(mock)

	mock.ExpectQuery(`SELECT title, description FROM project_ideas`).
		WithArgs("approved").
		WillReturnRows(pgxmock.NewRows([]string{"title", "description"}).AddRow("A", "a"))

	summaries, err := repo.ListApprovedSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.IdeaSummary{{Title: "A", Description: "a"}}, summaries)
}

func TestIdeaRepository_UpdateReview(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reviewed := func(status domain.IdeaStatus, feedback *string) *pgxmock.Rows {
		return pgxmock.NewRows(ideaCols).
			AddRow("i-1", "s-1", "A", "a", status, feedback, now, &now, strPtr("st-1"))
	}

	t.Run("feedback is stored in the review transaction", func(t *testing.T) {
		mock := newMock(t)
		repo := NewIdeaRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE project_ideas`).
			WithArgs("approved", strPtr("great"), pgxmock.AnyArg(), "st-1", "i-1").
			WillReturnRows(reviewed(domain.IdeaStatusApproved, strPtr("great")))
		mock.ExpectQuery(`INSERT INTO feedback`).
			WithArgs("i-1", "st-1", "great").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("f-1", now))
		mock.ExpectCommit()

		idea, err := repo.UpdateReview(context.Background(), IdeaReview{
			IdeaID: "i-1", Status: domain.IdeaStatusApproved, Feedback: strPtr("great"), ReviewerID: "st-1", ReviewedAt: now,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.IdeaStatusApproved, idea.Status)
		assert.Equal(t, now, *idea.ReviewedAt)
	})

	t.Run("failed feedback insert rolls the review back", func(t *testing.T) {
		mock := newMock(t)
		repo := NewIdeaRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE project_ideas`).
			WithArgs("approved", strPtr("great"), pgxmock.AnyArg(), "st-1", "i-1").
			WillReturnRows(reviewed(domain.IdeaStatusApproved, strPtr("great")))
		mock.ExpectQuery(`INSERT INTO feedback`).
			WithArgs("i-1", "st-1", "great").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		idea, err := repo.UpdateReview(context.Background(), IdeaReview{
			IdeaID: "i-1", Status: domain.IdeaStatusApproved, Feedback: strPtr("great"), ReviewerID: "st-1", ReviewedAt: now,
		})
		assert.EqualError(t, err, "disk full")
		assert.Nil(t, idea)
	})

	t.Run("missing idea with feedback rolls back", func(t *testing.T) {
		mock := newMock(t)
		repo := NewIdeaRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE project_ideas`).
			WithArgs("rejected", strPtr("no"), pgxmock.AnyArg(), "st-1", "missing").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.UpdateReview(context.Background(), IdeaReview{
			IdeaID: "missing", Status: domain.IdeaStatusRejected, Feedback: strPtr("no"), ReviewerID: "st-1", ReviewedAt: now,
		})
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("without feedback is a single statement", func(t *testing.T) {
		mock := newMock(t)
		repo := NewIdeaRepository(mock)

		mock.ExpectQuery(`UPDATE project_ideas`).
			WithArgs("rejected", (*string)(nil), pgxmock.AnyArg(), "st-1", "i-1").
			WillReturnRows(reviewed(domain.IdeaStatusRejected, nil))

		idea, err := repo.UpdateReview(context.Background(), IdeaReview{
			IdeaID: "i-1", Status: domain.IdeaStatusRejected, ReviewerID: "st-1", ReviewedAt: now,
		})
		require.NoError(t, err)
		assert.Nil(t, idea.Feedback)
	})

	t.Run("missing idea", func(t *testing.T) {
		mock := newMock(t)
		repo := NewIdeaRepository(mock)

		mock.ExpectQuery(`UPDATE project_ideas`).
			WithArgs("rejected", (*string)(nil), pgxmock.AnyArg(), "st-1", "missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateReview(context.Background(), IdeaReview{
			IdeaID: "missing", Status: domain.IdeaStatusRejected, ReviewerID: "st-1", ReviewedAt: now,
		})
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestFeedbackRepository(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("list propagates query errors", func(t *testing.T) {
		mock := newMock(t)
		repo := NewFeedbackRepository(mock)

		mock.ExpectQuery(`FROM feedback WHERE idea_id=\$1`).
			WithArgs("i-1").
			WillReturnError(errors.New("db down"))

		_, err := repo.ListByIdea(context.Background(), "i-1")
		assert.Error(t, err)
	})

	t.Run("list", func(t *testing.T) {
		mock := newMock(t)
		repo := NewFeedbackRepository(mock)

		mock.ExpectQuery(`FROM feedback WHERE idea_id=\$1`).
			WithArgs("i-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "idea_id", "staff_id", "content", "created_at"}).
				AddRow("f-1", "i-1", "st-1", "Consider scope", now))

		items, err := repo.ListByIdea(context.Background(), "i-1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Consider scope", items[0].Content)
	})
}
