// Package generator adapts hosted text models to ports.TextModel.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("model returned no text")

// Gemini tries each configured model in order and answers with the first that succeeds.
type Gemini struct {
	client *genai.Client
	models []string
	log    zerolog.Logger
	call   func(ctx context.Context, model, prompt string) (string, error)
}

func NewGemini(ctx context.Context, apiKey string, models []string, log zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if len(models) == 0 {
		return nil, errors.New("gemini: at least one model is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	g := &Gemini{client: client, models: models, log: log.With().Str("component", "gemini").Logger()}
	g.call = g.generateWith
	return g, nil
}

// Generate returns the text and the name of the model that produced it.
// The error of the last attempted model is returned when all fail.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, string, error) {
	var lastErr error
	for _, model := range g.models {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		text, err := g.call(ctx, model, prompt)
		if err == nil {
			return text, model, nil
		}
		g.log.Warn().Err(err).Str("model", model).Msg("model failed, trying next")
		lastErr = err
	}
	return "", "", fmt.Errorf("all gemini models failed: %w", lastErr)
}

func (g *Gemini) generateWith(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return candidateText(resp)
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
