package tui

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary with
	// secrets masked.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto a known format.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), true
	default:
		return "", false
	}
}

// Theme captures message prefixes the renderer prints before prompts and
// feedback.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]string) (map[string]string, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithColor toggles ANSI colouring of feedback lines.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithMaxAttempts bounds how often a single field is re-prompted. Zero
// means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
