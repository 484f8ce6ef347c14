package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Reviews longer than this many characters are truncated before being sent
// to the model. Purely a payload-size optimization; the fallback path never
// truncates.
const maxModelInputLen = 2000

const (
	userAckSystemPrompt = "You are a friendly customer service AI. Generate a personalized, " +
		"empathetic response to the customer's review. Keep it concise (2-3 sentences). " +
		"Acknowledge their rating and feedback appropriately. Make each response unique and varied."

	summarySystemPrompt = "You are an AI assistant that summarizes customer reviews. " +
		"Provide a concise summary (1-2 sentences) highlighting key points and sentiment."

	actionsSystemPrompt = "You are an AI assistant that recommends actions based on customer feedback. " +
		"Provide 2-4 specific, actionable recommendations for the business. Format as a simple numbered list. " +
		"Do not use markdown formatting like ** or bold text. Use plain text only."

	insightsSystemPrompt = "You are a business analytics AI. Analyze customer feedback data and provide actionable insights. " +
		"Be specific, concise, and focus on what the business should do. Use plain text without markdown formatting."
)

// Engine turns review data into the three per-review text artifacts, using
// the Groq chat API when a key is configured and the deterministic fallback
// table otherwise. All fields are read-only after construction; generation
// calls are safe for concurrent use.
type Engine struct {
	client  *openai.Client
	model   string
	enabled bool
	timeout time.Duration
	logger  *zap.Logger
}

func NewEngine(apiKey, model string, logger *zap.Logger) *Engine {
	apiKey = strings.TrimSpace(apiKey)

	e := &Engine{
		model:   model,
		enabled: apiKey != "",
		timeout: 30 * time.Second,
		logger:  logger,
	}

	if !e.enabled {
		logger.Warn("no Groq API key configured, using rule-based fallback responses")
		return e
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	e.client = openai.NewClientWithConfig(cfg)
	logger.Info("Groq AI enabled", zap.String("model", model))
	return e
}

// GenerateUserResponse produces the short acknowledgment shown to the user
// after submitting. It never fails; model errors degrade to the fallback.
func (e *Engine) GenerateUserResponse(ctx context.Context, rating int, reviewText string) string {
	var userPrompt string
	if strings.TrimSpace(reviewText) == "" {
		userPrompt = fmt.Sprintf("Rating: %d/5. No written review provided.", rating)
	} else {
		userPrompt = fmt.Sprintf("Rating: %d/5. Review: %s", rating, reviewText)
	}

	return e.generate(ctx, KindUserAck, rating, reviewText, userAckSystemPrompt, userPrompt)
}

// GenerateSummary produces a 1-2 sentence summary for the admin dashboard.
// Empty input short-circuits to the sentinel without touching the model.
func (e *Engine) GenerateSummary(ctx context.Context, reviewText string) string {
	text := strings.TrimSpace(reviewText)
	if text == "" {
		return SummaryEmptySentinel
	}

	truncated := text
	if runes := []rune(truncated); len(runes) > maxModelInputLen {
		truncated = string(runes[:maxModelInputLen])
	}
	userPrompt := "Summarize this review: " + truncated

	return e.generate(ctx, KindSummary, 0, text, summarySystemPrompt, userPrompt)
}

// GenerateRecommendedActions produces a numbered plain-text action list for
// the admin, conditioned on the rating and the already-computed summary.
func (e *Engine) GenerateRecommendedActions(ctx context.Context, rating int, reviewText, summary string) string {
	text := reviewText
	if strings.TrimSpace(text) == "" {
		text = "No text provided"
	}

	userPrompt := fmt.Sprintf("Rating: %d/5\nReview: %s\nSummary: %s\n\nWhat actions should the business take?",
		rating, text, summary)

	return e.generate(ctx, KindActions, rating, reviewText, actionsSystemPrompt, userPrompt)
}

// GenerateInsights runs one freeform analysis call over aggregate feedback
// data for the admin insights endpoint.
func (e *Engine) GenerateInsights(ctx context.Context, prompt string) string {
	return e.generate(ctx, KindInsights, 0, "", insightsSystemPrompt, prompt)
}

// generate dispatches to the model and absorbs every failure into the
// fallback table, so callers always get non-empty text.
func (e *Engine) generate(ctx context.Context, kind PromptKind, rating int, reviewText, systemPrompt, userPrompt string) string {
	if !e.enabled {
		return Fallback(kind, rating, reviewText)
	}

	out, err := e.callModel(ctx, systemPrompt, userPrompt)
	if err != nil {
		e.logger.Warn("model call failed, using fallback",
			zap.Stringer("kind", kind),
			zap.Error(err))
		return Fallback(kind, rating, reviewText)
	}
	return out
}

func (e *Engine) callModel(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.9,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("groq API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
