// Package summarize condenses earnings-call transcripts with an LLM.
// Long transcripts are chunked on word boundaries, each chunk is
// summarized, and the chunk summaries are combined in a final pass.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/logger"
)

const (
	transcriptPrompt = `You are a financial analyst. Summarize the following earnings call transcript in 3-5 paragraphs. Cover the financial results, guidance, and the most important themes from the Q&A. Be factual; do not speculate beyond the transcript.

Transcript:
%s`

	chunkPrompt = `You are a financial analyst. The text below is one part of a longer earnings call transcript. Summarize this part in 1-2 paragraphs, keeping concrete numbers and named topics.

Transcript part:
%s`

	combinePrompt = `You are a financial analyst. Below are sequential partial summaries of one earnings call. Merge them into a single coherent summary of 3-5 paragraphs covering the financial results, guidance, and the most important themes from the Q&A. Remove repetition.

Partial summaries:
%s`
)

// LLMSummarizer summarizes transcripts with a chat model. It is safe
// for concurrent use.
type LLMSummarizer struct {
	llm          llms.Model
	chunkSize    int
	chunkOverlap int
	temperature  float64
	logger       *logger.Logger
}

// New builds a summarizer against OpenAI using the configured model.
// The API key comes from the OPENAI_API_KEY environment variable, read
// by the client itself.
func New(cfg *config.Config, log *logger.Logger) (*LLMSummarizer, error) {
	llm, err := openai.New(openai.WithModel(cfg.Summarizer.Model))
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return NewWithModel(llm, cfg.Summarizer.ChunkSize, cfg.Summarizer.ChunkOverlap, log), nil
}

// NewWithModel builds a summarizer on a caller-supplied model.
func NewWithModel(llm llms.Model, chunkSize, chunkOverlap int, log *logger.Logger) *LLMSummarizer {
	return &LLMSummarizer{
		llm:          llm,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		temperature:  0.3,
		logger:       log,
	}
}

// Summarize condenses one transcript. Transcripts that fit in a single
// chunk go through one completion; longer ones are map-reduced.
func (s *LLMSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", fmt.Errorf("empty transcript")
	}

	if len(transcript) <= s.chunkSize || s.chunkSize <= 0 {
		return s.complete(ctx, fmt.Sprintf(transcriptPrompt, transcript))
	}

	chunks := chunkText(transcript, s.chunkSize, s.chunkOverlap)
	s.logger.WithFields(map[string]interface{}{
		"chars":  len(transcript),
		"chunks": len(chunks),
	}).Debug("summarizing transcript in chunks")

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := s.complete(ctx, fmt.Sprintf(chunkPrompt, chunk))
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}

	combined, err := s.complete(ctx, fmt.Sprintf(combinePrompt, strings.Join(partials, "\n\n")))
	if err != nil {
		return "", fmt.Errorf("combine %d partial summaries: %w", len(partials), err)
	}
	return combined, nil
}

func (s *LLMSummarizer) complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(s.temperature))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}
	return out, nil
}
