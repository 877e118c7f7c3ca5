package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// scriptedModel returns canned completions in order and records the
// prompts it saw.
type scriptedModel struct {
	replies []string
	err     error
	prompts []string
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt += text.Text
			}
		}
	}
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}
	reply := fmt.Sprintf("reply %d", len(m.prompts))
	if len(m.replies) >= len(m.prompts) {
		reply = m.replies[len(m.prompts)-1]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: reply}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestSummarizeShortTranscript(t *testing.T) {
	model := &scriptedModel{replies: []string{"a tidy summary"}}
	s := NewWithModel(model, 1000, 100, testLogger())

	got, err := s.Summarize(context.Background(), "Good afternoon, welcome to the call.")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "a tidy summary" {
		t.Errorf("summary = %q", got)
	}
	if len(model.prompts) != 1 {
		t.Fatalf("model called %d times, want 1", len(model.prompts))
	}
	if !strings.Contains(model.prompts[0], "welcome to the call") {
		t.Errorf("prompt missing transcript: %q", model.prompts[0])
	}
}

func TestSummarizeLongTranscriptMapReduce(t *testing.T) {
	transcript := strings.Repeat("revenue grew again this quarter ", 40)
	model := &scriptedModel{replies: []string{"part one", "part two", "part three", "combined summary"}}
	s := NewWithModel(model, 300, 30, testLogger())

	got, err := s.Summarize(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "combined summary" {
		t.Errorf("summary = %q, want the combine-pass output", got)
	}
	if len(model.prompts) < 3 {
		t.Fatalf("model called %d times, want chunk passes plus a combine pass", len(model.prompts))
	}
	last := model.prompts[len(model.prompts)-1]
	if !strings.Contains(last, "part one") || !strings.Contains(last, "part two") {
		t.Errorf("combine prompt missing partial summaries: %q", last)
	}
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	s := NewWithModel(&scriptedModel{}, 1000, 100, testLogger())
	if _, err := s.Summarize(context.Background(), "   "); err == nil {
		t.Fatal("Summarize() error = nil, want error for empty transcript")
	}
}

func TestSummarizeModelFailure(t *testing.T) {
	model := &scriptedModel{err: errors.New("rate limited")}
	s := NewWithModel(model, 1000, 100, testLogger())

	if _, err := s.Summarize(context.Background(), "some transcript"); err == nil {
		t.Fatal("Summarize() error = nil, want model error")
	}
}
