package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/idea-portal/internal/api/http/handlers"
	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/observability"
	"github.com/spec-kit/idea-portal/internal/service"
	"github.com/spec-kit/idea-portal/internal/textgen"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type noopAuth struct{}

func (noopAuth) Register(context.Context, domain.Role, string, string, string) (*domain.User, service.Session, error) {
	return nil, service.Session{}, service.ErrEmailTaken
}

func (noopAuth) Login(context.Context, domain.Role, string, string) (*domain.User, service.Session, error) {
	return nil, service.Session{}, service.ErrInvalidCredentials
}

type noopIdeas struct{}

func (noopIdeas) Generate(context.Context, string, textgen.IdeaPrompt) (string, error) {
	panic("generator exploded")
}

func (noopIdeas) Submit(context.Context, string, string, string) (*domain.ProjectIdea, error) {
	return nil, service.ErrIdeaNotUnique
}

func (noopIdeas) ListForStudent(context.Context, string) ([]domain.ProjectIdea, error) {
	return nil, nil
}

func (noopIdeas) ListForStaff(context.Context) ([]domain.ProjectIdea, error) {
	return nil, nil
}

func (noopIdeas) Review(context.Context, *domain.User, string, domain.IdeaStatus, string) (*domain.ProjectIdea, error) {
	return nil, service.ErrIdeaNotFound
}

func (noopIdeas) FeedbackForIdea(context.Context, string) ([]domain.Feedback, error) {
	return nil, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type noSessions struct{}

func (noSessions) ResolveCurrentUser(context.Context, string) (*domain.User, bool) { return nil, false }

func newTestServer(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	cookie := auth.NewSessionCookie("token", false)
	claims := auth.NewClaimsResolver(tokens)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:       handlers.NewHealthHandler("idea-portal", "test", okPinger{}, okPinger{}),
		Auth:         handlers.NewAuthHandler(noopAuth{}, noSessions{}, cookie),
		StudentIdeas: handlers.NewStudentIdeasHandler(noopIdeas{}),
		StaffIdeas:   handlers.NewStaffIdeasHandler(noopIdeas{}, noSessions{}, cookie),
		Pages:        handlers.NewPagesHandler(claims, cookie),
		Gate:         auth.NewGate(claims, cookie),
		Edge:         auth.NewRouteMatcher(claims, cookie),
		Metrics:      metrics,
	})
	return app, tokens
}

func issue(t *testing.T, tokens *auth.TokenManager, role domain.Role) string {
	t.Helper()
	token, _, err := tokens.Issue(&domain.User{ID: "u-1", Email: "u@example.edu", Role: role})
	require.NoError(t, err)
	return token
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestRouter_EdgeRedirects(t *testing.T) {
	app, tokens := newTestServer(t)
	student := issue(t, tokens, domain.RoleStudent)
	staff := issue(t, tokens, domain.RoleStaff)

	cases := []struct {
		name     string
		path     string
		token    string
		location string
	}{
		{"anonymous staff dashboard", "/staff/dashboard", "", "/staff/login"},
		{"student on staff dashboard", "/staff/dashboard", student, "/student/dashboard"},
		{"staff on root", "/", staff, "/staff/dashboard"},
		{"tampered credential", "/student/dashboard", student + "x", "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, tc.path, tc.token)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tc.location, resp.Header.Get(fiber.HeaderLocation))
		})
	}

	t.Run("staff on student login page falls through", func(t *testing.T) {
		resp := get(t, app, "/student/login", staff)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("student reaches own dashboard", func(t *testing.T) {
		resp := get(t, app, "/student/dashboard", student)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRouter_APIGate(t *testing.T) {
	app, tokens := newTestServer(t)

	resp := get(t, app, "/api/staff/ideas", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))

	resp = get(t, app, "/api/staff/ideas", issue(t, tokens, domain.RoleStudent))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	resp = get(t, app, "/api/staff/ideas", issue(t, tokens, domain.RoleStaff))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, "/api/auth/me", issue(t, tokens, domain.RoleStaff))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	app, tokens := newTestServer(t)

	resp := get(t, app, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	req := httptest.NewRequest(http.MethodPost, "/api/student/generate-idea",
		strings.NewReader(`{"areasOfInterest":"a","domainInterest":"b","languagesKnown":"c"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "token", Value: issue(t, tokens, domain.RoleStudent)})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "generator exploded")
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	app, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, app, "/health/live", "").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, "/health/ready", "").StatusCode)

	resp := get(t, app, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "idea_portal_http_requests_total")
}
