package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"gorm.io/gorm"
)

// Generator turns a statistics summary into free-form report text. The remote
// provider is opaque to the engine; only this interface is visible.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrNoActiveProvider = errors.New("no active text-generation provider configured")

// ResolveGenerator picks the generator backed by the currently active
// AIConfig row. It is called per report, so an admin switching providers takes
// effect immediately without a restart.
func ResolveGenerator() (Generator, error) {
	var cfg db.AIConfig
	err := db.DB.Where("is_active = ?", true).Order("updated_at DESC").First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveProvider
		}
		return nil, fmt.Errorf("load provider config: %w", err)
	}
	return &chatGenerator{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   http.DefaultClient,
	}, nil
}

// chatGenerator speaks the OpenAI-style chat completion protocol that the
// configured providers expose.
type chatGenerator struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *chatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	request := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a study coach. Write a short, encouraging progress report based on the statistics provided."},
			{Role: "user", Content: prompt},
		},
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("provider error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// StaticGenerator renders the statistics summary verbatim. It backs the
// report endpoint when no provider is configured or the remote call fails.
type StaticGenerator struct{}

func (StaticGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return "Progress report\n\n" + prompt, nil
}
