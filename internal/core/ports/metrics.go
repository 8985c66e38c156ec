package ports

import "time"

// Metrics receives business events from the core services.
type Metrics interface {
	WebsiteCreated(source string)
	// GenerationFinished records one generation attempt: "ok", "failed" or "malformed".
	GenerationFinished(result string)
	GenerationLatency(model string, elapsed time.Duration)
}
