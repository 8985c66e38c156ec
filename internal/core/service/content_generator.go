package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

const promptTemplate = `
Create a professional website content for a %s business in the %s industry.

Business description: %s

Generate a JSON structure with the following sections:
1. Hero section (heading, subheading)
2. About section (title, content)
3. Services section (array of 3-5 services with name and description)
4. Contact section (title, content)

Use exactly these top-level keys: "hero", "about", "services", "contact".
Return only valid JSON without any additional text or markdown formatting.
`

type heroSection struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
}

type textSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type serviceEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type generatedContent struct {
	Hero     *heroSection   `json:"hero"`
	About    *textSection   `json:"about"`
	Services []serviceEntry `json:"services"`
	Contact  *textSection   `json:"contact"`
}

// ContentGenerator builds website content through an injected TextModel.
type ContentGenerator struct {
	model   ports.TextModel
	metrics ports.Metrics
	log     zerolog.Logger
}

func NewContentGenerator(model ports.TextModel, m ports.Metrics, log zerolog.Logger) *ContentGenerator {
	return &ContentGenerator{model: model, metrics: m, log: log}
}

// BuildPrompt renders the generation instructions for one business.
func BuildPrompt(in ports.GenerateInput) string {
	return fmt.Sprintf(promptTemplate, in.BusinessType, in.Industry, in.Description)
}

// Generate asks the model for the four fixed sections and stamps provenance metadata.
// Model and transport failures wrap ErrGenerationFailed; unparseable output wraps
// ErrMalformedResponse.
func (g *ContentGenerator) Generate(ctx context.Context, in ports.GenerateInput) (map[string]any, string, error) {
	start := time.Now()

	text, model, err := g.model.Generate(ctx, BuildPrompt(in))
	if err != nil {
		g.metrics.GenerationFinished("failed")
		g.log.Error().Err(err).Str("business_type", in.BusinessType).Msg("text model call failed")
		return nil, "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	g.metrics.GenerationLatency(model, time.Since(start))

	content, err := ParseContent(text)
	if err != nil {
		g.metrics.GenerationFinished("malformed")
		g.log.Warn().Err(err).Str("model", model).Int("response_len", len(text)).Msg("generated content rejected")
		return nil, "", err
	}

	content[domain.MetadataKey] = domain.Metadata{
		BusinessType:  in.BusinessType,
		Industry:      in.Industry,
		Description:   in.Description,
		GeneratedByAI: true,
		AIModel:       model,
	}.Map()

	g.metrics.GenerationFinished("ok")
	return content, model, nil
}

// StripFences removes leading and trailing markdown code-fence markers.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// drop an info string such as "json" up to the end of the first line
		if i := strings.IndexAny(s, "\n{["); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
			s = s[i:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseContent decodes model output into a content map holding exactly the
// hero, about, services and contact sections.
func ParseContent(text string) (map[string]any, error) {
	raw := StripFences(text)

	var gc generatedContent
	if err := json.Unmarshal([]byte(raw), &gc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	switch {
	case gc.Hero == nil:
		return nil, fmt.Errorf("%w: missing hero section", domain.ErrMalformedResponse)
	case gc.About == nil:
		return nil, fmt.Errorf("%w: missing about section", domain.ErrMalformedResponse)
	case len(gc.Services) == 0:
		return nil, fmt.Errorf("%w: missing services section", domain.ErrMalformedResponse)
	case gc.Contact == nil:
		return nil, fmt.Errorf("%w: missing contact section", domain.ErrMalformedResponse)
	}

	services := make([]any, 0, len(gc.Services))
	for _, svc := range gc.Services {
		services = append(services, map[string]any{"name": svc.Name, "description": svc.Description})
	}

	return map[string]any{
		"hero":     map[string]any{"heading": gc.Hero.Heading, "subheading": gc.Hero.Subheading},
		"about":    map[string]any{"title": gc.About.Title, "content": gc.About.Content},
		"services": services,
		"contact":  map[string]any{"title": gc.Contact.Title, "content": gc.Contact.Content},
	}, nil
}
