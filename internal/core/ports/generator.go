package ports

import "context"

// TextModel is an external generative-text endpoint: prompt in, text out.
// It reports the identifier of the model that produced the answer.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (text string, model string, err error)
}

// ContentGenerator turns a business description into a website content document
// with provenance metadata attached. Failures wrap domain.ErrGenerationFailed or
// domain.ErrMalformedResponse.
type ContentGenerator interface {
	Generate(ctx context.Context, in GenerateInput) (content map[string]any, model string, err error)
}
