package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure Summariser implements the interface.
var _ driving.SummaryService = (*Summariser)(nil)

var (
	blankLinesPattern = regexp.MustCompile(`\n\s*\n`)
	pageMarkerPattern = regexp.MustCompile(`Page \d+`)
)

// Completion outcomes recorded in metrics.
const (
	outcomeOK         = "ok"
	outcomeError      = "error"
	outcomeUnexpected = "unexpected_format"
)

// SummariserConfig controls branch selection and the chunk cap.
type SummariserConfig struct {
	// TokenBudget is the token count above which chunks are summarised first.
	TokenBudget int

	// MaxChunks caps how many chunks are submitted. Zero means no cap.
	MaxChunks int

	// Retry wraps every completion call.
	Retry RetryPolicy
}

// DefaultSummariserConfig returns a 4000 token budget, a three chunk cap and the default retry policy.
func DefaultSummariserConfig() SummariserConfig {
	return SummariserConfig{
		TokenBudget: 4000,
		MaxChunks:   3,
		Retry:       DefaultRetryPolicy(),
	}
}

// SummariserConfigFromSettings builds a summariser config from application settings.
func SummariserConfigFromSettings(s *domain.AppSettings) SummariserConfig {
	cfg := SummariserConfig{
		TokenBudget: s.Summary.TokenBudget,
		MaxChunks:   s.Summary.MaxChunks,
		Retry:       RetryPolicyFromSettings(s),
	}
	if cfg.TokenBudget <= 0 {
		cfg.TokenBudget = DefaultSummariserConfig().TokenBudget
	}
	if cfg.MaxChunks < 0 {
		cfg.MaxChunks = 0
	}
	return cfg
}

// Summariser produces structured summaries with a direct or map-reduce strategy.
type Summariser struct {
	llm     driven.CompletionService
	prompts driven.PromptStore
	chunker driven.Chunker
	tokens  driven.Tokeniser
	metrics driven.Metrics
	cfg     SummariserConfig
}

// NewSummariser creates a summariser.
// The llm parameter may be nil; Summarise then fails with domain.ErrLLMUnavailable.
func NewSummariser(
	llm driven.CompletionService,
	prompts driven.PromptStore,
	chunker driven.Chunker,
	tokens driven.Tokeniser,
	cfg SummariserConfig,
) *Summariser {
	return &Summariser{
		llm:     llm,
		prompts: prompts,
		chunker: chunker,
		tokens:  tokens,
		cfg:     cfg,
	}
}

// SetMetrics sets the metrics recorder.
func (s *Summariser) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// CleanText collapses runs of blank lines, strips "Page N" markers and trims.
func CleanText(text string) string {
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	text = pageMarkerPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Summarise cleans, chunks and summarises text.
//
// Up to MaxChunks chunks are kept. When the cleaned text exceeds the token
// budget each kept chunk is summarised with the map prompt and the joined
// partials are merged with the combine prompt. Otherwise the kept chunks go
// to the combine prompt in a single call.
func (s *Summariser) Summarise(ctx context.Context, text string) (*domain.Summary, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	logger.Section("Summarisation")
	start := time.Now()
	defer logger.Timed("summarisation")()

	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, domain.ErrEmptyExtraction
	}
	logger.Info("text length: %d characters", utf8.RuneCountInString(cleaned))

	chunks, total := s.keptChunks(cleaned)
	summary := &domain.Summary{
		ChunksTotal: total,
		ChunksUsed:  len(chunks),
		Truncated:   len(chunks) < total,
		Model:       s.llm.ModelName(),
	}
	logger.Info("number of chunks: %d", len(chunks))
	if summary.Truncated {
		logger.Warn("chunk cap %d dropped %d of %d chunks; summary covers the start of the document only",
			s.cfg.MaxChunks, total-len(chunks), total)
	}

	summary.Tokens = s.tokens.Count(cleaned)
	logger.Info("total tokens: %d", summary.Tokens)

	var (
		out string
		err error
	)
	if summary.Tokens > s.cfg.TokenBudget {
		logger.Info("text exceeds token budget %d, summarising chunks first", s.cfg.TokenBudget)
		summary.Strategy = domain.StrategyMapReduce
		out, err = s.mapReduce(ctx, chunks)
	} else {
		summary.Strategy = domain.StrategyDirect
		out, err = s.direct(ctx, chunks)
	}
	if err != nil {
		return nil, err
	}

	summary.Text = out
	if s.metrics != nil {
		s.metrics.ObserveSummary(string(summary.Strategy), summary.Truncated, time.Since(start))
	}
	return summary, nil
}

// keptChunks collects chunks up to the cap and counts the rest without keeping them.
func (s *Summariser) keptChunks(text string) ([]domain.Chunk, int) {
	var kept []domain.Chunk
	total := 0
	for c := range s.chunker.Chunks(text) {
		total++
		if s.cfg.MaxChunks == 0 || len(kept) < s.cfg.MaxChunks {
			kept = append(kept, c)
		}
	}
	return kept, total
}

func (s *Summariser) direct(ctx context.Context, chunks []domain.Chunk) (string, error) {
	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}
	return s.complete(ctx, driven.PromptCombine, strings.Join(contents, "\n\n"))
}

func (s *Summariser) mapReduce(ctx context.Context, chunks []domain.Chunk) (string, error) {
	partials := make([]string, 0, len(chunks))
	for i, c := range chunks {
		content, cut := s.fitBudget(c.Content)
		if cut {
			logger.Info("truncated chunk %d/%d to %d tokens", i+1, len(chunks), s.tokens.Count(content))
		}
		logger.Debug("summarising chunk %d/%d", i+1, len(chunks))

		partial, err := s.complete(ctx, driven.PromptMap, content)
		if err != nil {
			return "", fmt.Errorf("chunk %d: %w", i+1, err)
		}
		partials = append(partials, partial)
	}

	combined, cut := s.fitBudget(strings.Join(partials, "\n"))
	if cut {
		logger.Info("truncated combined partial summaries to %d tokens", s.tokens.Count(combined))
	}
	return s.complete(ctx, driven.PromptCombine, combined)
}

// fitBudget shortens text proportionally until it fits the token budget.
// The boolean reports whether anything was cut.
func (s *Summariser) fitBudget(text string) (string, bool) {
	budget := s.cfg.TokenBudget
	tokens := s.tokens.Count(text)
	if tokens <= budget {
		return text, false
	}

	runes := []rune(text)
	for tokens > budget && len(runes) > 0 {
		n := len(runes) * budget / tokens
		if n >= len(runes) {
			n = len(runes) - 1
		}
		runes = runes[:n]
		tokens = s.tokens.Count(string(runes))
	}
	return string(runes), true
}

// complete renders a prompt and runs it through the retry policy.
func (s *Summariser) complete(ctx context.Context, promptName, content string) (string, error) {
	tmpl, err := s.prompts.Load(promptName)
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", promptName, err)
	}
	prompt := renderPrompt(tmpl, content)

	out, err := Retry(ctx, s.cfg.Retry, promptName+" completion", func(ctx context.Context) (string, error) {
		result, err := s.llm.Complete(ctx, prompt)
		if err != nil {
			s.observe(outcomeError)
			return "", err
		}
		text, err := NormaliseCompletion(result)
		if err != nil {
			s.observe(outcomeUnexpected)
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			s.observe(outcomeError)
			return "", domain.ErrEmptyCompletion
		}
		s.observe(outcomeOK)
		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSummarisationFailed, err)
	}
	return out, nil
}

func (s *Summariser) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveCompletion(outcome)
	}
}

// renderPrompt substitutes the first %s in tmpl with content.
// Other % sequences in a user-edited template are left alone.
func renderPrompt(tmpl, content string) string {
	if !strings.Contains(tmpl, "%s") {
		return tmpl + "\n\n" + content
	}
	return strings.Replace(tmpl, "%s", content, 1)
}
