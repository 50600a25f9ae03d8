package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/idea-portal/internal/config"
	"github.com/spec-kit/idea-portal/internal/domain"
)

// ErrNotConfigured is returned when no API key is configured.
var ErrNotConfigured = errors.New("text generation service not configured")

// IdeaPrompt carries the structured fields a student fills in.
type IdeaPrompt struct {
	AreasOfInterest string
	DomainInterest  string
	LanguagesKnown  string
	AdditionalInfo  string
}

// Generator is the text-generation collaborator used by the idea service.
type Generator interface {
	GenerateIdea(ctx context.Context, prompt IdeaPrompt) (string, error)
	AssessUniqueness(ctx context.Context, title, description string, corpus []domain.IdeaSummary) (bool, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.TextGenConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const (
	ideaSystemPrompt = "You advise university students on project work. Propose one specific, " +
		"technically feasible project suited to the student's interests and skills."
	uniquenessSystemPrompt = "You compare project proposals. Treat ideas as duplicates when they " +
		"share a core concept, even if surface details differ."
)

// GenerateIdea returns a markdown project proposal for prompt.
func (c *Client) GenerateIdea(ctx context.Context, prompt IdeaPrompt) (string, error) {
	additional := prompt.AdditionalInfo
	if strings.TrimSpace(additional) == "" {
		additional = "None"
	}

	var b strings.Builder
	b.WriteString("Suggest a student project for the following profile.\n\n")
	fmt.Fprintf(&b, "Areas of interest: %s\n", prompt.AreasOfInterest)
	fmt.Fprintf(&b, "Domain: %s\n", prompt.DomainInterest)
	fmt.Fprintf(&b, "Programming languages: %s\n", prompt.LanguagesKnown)
	fmt.Fprintf(&b, "Additional information: %s\n\n", additional)
	b.WriteString("Respond in Markdown with a title, a description, key features, " +
		"implementation notes and expected challenges.")

	return c.complete(ctx, ideaSystemPrompt, b.String(), 0.8)
}

// AssessUniqueness asks the model whether title/description is distinct from every idea in
// corpus. An empty corpus is unique without a remote call.
func (c *Client) AssessUniqueness(ctx context.Context, title, description string, corpus []domain.IdeaSummary) (bool, error) {
	if len(corpus) == 0 {
		return true, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Candidate:\nTitle: %s\nDescription: %s\n\nExisting ideas:\n", title, description)
	for i, existing := range corpus {
		fmt.Fprintf(&b, "%d. Title: %s\n   Description: %s\n", i+1, existing.Title, existing.Description)
	}
	b.WriteString("\nIs the candidate sufficiently different from all existing ideas? Answer only \"yes\" or \"no\".")

	answer, err := c.complete(ctx, uniquenessSystemPrompt, b.String(), 0)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(answer), "yes"), nil
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	start := time.Now()

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("text generation call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("call text generation: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("text generation bad status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
			zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("text generation returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("text generation returned no content")
	}

	c.logger.Debug("text generation completed", zap.String("model", c.model), zap.Duration("elapsed", time.Since(start)))
	return out.Choices[0].Message.Content, nil
}

var _ Generator = (*Client)(nil)
