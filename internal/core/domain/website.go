package domain

import "time"

// MetadataKey is the content key holding generation provenance.
const MetadataKey = "metadata"

// Website is a stored JSON content document bound to exactly one owner.
type Website struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	OwnerEmail string         `json:"owner_email,omitempty"`
	Content    map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Metadata records how a generated document was produced.
type Metadata struct {
	BusinessType  string `json:"business_type"`
	Industry      string `json:"industry"`
	Description   string `json:"description"`
	GeneratedByAI bool   `json:"generated_by_ai"`
	AIModel       string `json:"ai_model"`
}

// Map renders the metadata block in the shape stored under content.metadata.
func (m Metadata) Map() map[string]any {
	return map[string]any{
		"business_type":   m.BusinessType,
		"industry":        m.Industry,
		"description":     m.Description,
		"generated_by_ai": m.GeneratedByAI,
		"ai_model":        m.AIModel,
	}
}

// Title returns the display title used by previews.
func (w *Website) Title() string {
	if meta, ok := w.Content[MetadataKey].(map[string]any); ok {
		if bt, ok := meta["business_type"].(string); ok && bt != "" {
			return bt
		}
	}
	if t, ok := w.Content["title"].(string); ok && t != "" {
		return t
	}
	return "Business Website"
}
