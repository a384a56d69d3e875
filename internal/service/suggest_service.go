package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/geobase-api/internal/apperror"
	"github.com/geobase-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxSuggestions caps how many alternative questions one call returns
const maxSuggestions = 3

// TextGenerator produces a completion for a single prompt. The concrete
// implementation talks to the hosted Gemini API; tests substitute a stub.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// geminiGenerator is the concrete implementation of TextGenerator backed
// by the Google Generative AI service.
type geminiGenerator struct {
	llm *googleai.GoogleAI
}

// NewGeminiGenerator creates a TextGenerator for the configured model
func NewGeminiGenerator(ctx context.Context, cfg *config.AIConfig) (TextGenerator, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing generative-text client: %w", err)
	}
	return &geminiGenerator{llm: llm}, nil
}

// GenerateText sends a single prompt and returns the raw completion text
func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
}

// suggestService is the concrete implementation of SuggestService
type suggestService struct {
	generator TextGenerator
	timeout   time.Duration
	log       zerolog.Logger
}

// newSuggestService creates a new SuggestService. A nil generator keeps
// the endpoints mounted but failing with a clear error.
func newSuggestService(generator TextGenerator, timeout time.Duration, log zerolog.Logger) *suggestService {
	return &suggestService{
		generator: generator,
		timeout:   timeout,
		log:       log.With().Str("service", "suggest").Logger(),
	}
}

// SuggestQuestions returns up to three related customer questions for
// the given question and category. The prompt and the expected output
// are Hebrew; the model is asked for one question per line.
func (s *suggestService) SuggestQuestions(ctx context.Context, question, category string) ([]string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperror.Validation("question is required")
	}
	if s.generator == nil {
		return nil, fmt.Errorf("generative-text service is not configured")
	}

	prompt := fmt.Sprintf(`אתה עוזר לצוות מכירות.
בהינתן השאלה הבאה מלקוח, הצע 3 שאלות דומות שלקוחות אחרים עשויים לשאול.

קטגוריה: %s
שאלה: %s

חשוב: אם השאלה כללית (כמו "כמה עולה הקורס?"), הצע שאלות כלליות בלי לציין פרטים ספציפיים שאינך בטוח לגביהם.

החזר רק את 3 השאלות, כל שאלה בשורה נפרדת, בעברית בלבד. אל תוסיף מספור או תבליטים.`, category, question)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("Question suggestion failed")
		return nil, fmt.Errorf("generating suggestions: %w", err)
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions, nil
}

// SuggestAnswer drafts a Hebrew answer template for the given question,
// with square-bracket placeholders for business-specific details.
func (s *suggestService) SuggestAnswer(ctx context.Context, question, category string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperror.Validation("question is required")
	}
	if s.generator == nil {
		return "", fmt.Errorf("generative-text service is not configured")
	}

	prompt := fmt.Sprintf(`אתה כותב תשובות עבור עסק שמקבל שאלות מלקוחות.

קטגוריה: %s
שאלה: %s

הנחיות:
- כתוב תשובה קצרה וממוקדת (80-120 מילים)
- דבר בגוף ראשון רבים ("אנחנו מציעים...", "אצלנו...")
- תן תשובה עם פרטים שהמשתמש יוכל לערוך לפי העסק שלו
- השתמש ב-[סוגריים מרובעים] למקומות שצריך למלא פרטים ספציפיים
- לדוגמה: "המחיר הוא [מחיר] ש״ח" או "הקורס נמשך [משך זמן]"
- סיים במשפט שמזמין ליצור קשר

כתוב רק את התשובה.`, category, question)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("Answer suggestion failed")
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
