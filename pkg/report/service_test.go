package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/internal/testutil"
	"github.com/mondaylearn/monday-learn-api/pkg/learning"
)

type fakeGenerator struct {
	content string
	err     error
	prompt  string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func TestGenerateStoresReport(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	gen := &fakeGenerator{content: "Keep it up!"}
	svc := &Service{Generator: gen}

	result, err := svc.Generate(context.Background(), 1, 7, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.Content != "Keep it up!" {
		t.Fatalf("wrong content: %q", result.Content)
	}
	if result.UserID != 1 || result.PeriodDays != 7 {
		t.Fatalf("wrong report metadata: %+v", result)
	}
	if !strings.Contains(gen.prompt, "Mastery distribution:") {
		t.Fatalf("prompt missing distribution section: %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Retention by review interval:") {
		t.Fatalf("prompt missing retention section: %q", gen.prompt)
	}

	var stored db.LearningReport
	if err := db.DB.First(&stored, result.ID).Error; err != nil {
		t.Fatalf("failed to load stored report: %v", err)
	}
	var snapshot StatsSnapshot
	if err := json.Unmarshal(stored.Stats, &snapshot); err != nil {
		t.Fatalf("stored stats not valid JSON: %v", err)
	}
	if len(snapshot.Activity) != 7 {
		t.Fatalf("expected 7 activity days in the snapshot, got %d", len(snapshot.Activity))
	}
	if len(snapshot.Retention) != 5 {
		t.Fatalf("expected 5 retention buckets in the snapshot, got %d", len(snapshot.Retention))
	}
}

func TestGenerateFallsBackOnProviderFailure(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	gen := &fakeGenerator{err: errors.New("provider unreachable")}
	svc := &Service{Generator: gen}

	result, err := svc.Generate(context.Background(), 1, 7, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(result.Content, "Progress report") {
		t.Fatalf("expected offline report text, got %q", result.Content)
	}
}

func TestGenerateWithoutProviderConfig(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// No Generator injected and no active AIConfig row: resolution fails and
	// the offline text applies.
	svc := &Service{}
	result, err := svc.Generate(context.Background(), 1, 0, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(result.Content, "Progress report") {
		t.Fatalf("expected offline report text, got %q", result.Content)
	}
	if result.PeriodDays != 7 {
		t.Fatalf("expected default period, got %d", result.PeriodDays)
	}
}

func TestResolveGeneratorPicksActiveConfig(t *testing.T) {
	testutil.SetupTestDB(t)

	inactive := db.AIConfig{Provider: "old", Endpoint: "http://old", Model: "m0", IsActive: false}
	active := db.AIConfig{Provider: "new", Endpoint: "http://new", Model: "m1", IsActive: true}
	for _, cfg := range []*db.AIConfig{&inactive, &active} {
		if err := db.DB.Create(cfg).Error; err != nil {
			t.Fatalf("failed to create config: %v", err)
		}
	}

	gen, err := ResolveGenerator()
	if err != nil {
		t.Fatalf("ResolveGenerator failed: %v", err)
	}
	chat, ok := gen.(*chatGenerator)
	if !ok {
		t.Fatalf("unexpected generator type %T", gen)
	}
	if chat.endpoint != "http://new" || chat.model != "m1" {
		t.Fatalf("resolved the wrong config: %+v", chat)
	}
}

func TestResolveGeneratorNoActiveConfig(t *testing.T) {
	testutil.SetupTestDB(t)

	if _, err := ResolveGenerator(); !errors.Is(err, ErrNoActiveProvider) {
		t.Fatalf("got error %v, want %v", err, ErrNoActiveProvider)
	}
}

func TestChatGeneratorRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("wrong auth header: %q", got)
		}
		var request chatRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if request.Model != "test-model" || len(request.Messages) != 2 {
			t.Errorf("unexpected request: %+v", request)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":" Nice work. "}}]}`)
	}))
	defer server.Close()

	gen := &chatGenerator{
		endpoint: server.URL,
		apiKey:   "secret",
		model:    "test-model",
		client:   server.Client(),
	}

	content, err := gen.Generate(context.Background(), "stats here")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if content != "Nice work." {
		t.Fatalf("expected trimmed content, got %q", content)
	}
}

func TestChatGeneratorProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	}))
	defer server.Close()

	gen := &chatGenerator{endpoint: server.URL, model: "m", client: server.Client()}
	if _, err := gen.Generate(context.Background(), "stats"); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestFormatSummaryIncludesAllSections(t *testing.T) {
	snapshot := &StatsSnapshot{
		Distribution: []learning.DistributionSlice{{Name: "Mastered", Value: 3}},
		Activity:     []learning.ActivityDay{{Date: "2025-03-10", QuestionCount: 12, TimeSpentMs: 120_000}},
		Retention:    []learning.RetentionPoint{{Interval: "24h", Retention: 82.5}},
	}

	text := FormatSummary(snapshot, 7)
	for _, want := range []string{
		"last 7 days",
		"- Mastered: 3 terms",
		"- 2025-03-10: 12 attempts, 2 minutes",
		"- 24h: 82.5%",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}
