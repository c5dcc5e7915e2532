package samup

// Option configures transcription behavior.
type Option func(*config)

type config struct {
	validate   bool
	document   bool
	title      string
	stylesheet string
}

// WithValidation rejects input that is not valid UTF-8 or that looks like
// binary data, instead of transcoding it verbatim.
func WithValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.validate = enabled
	}
}

// WithDocument wraps the HTML fragment in a standalone document with the
// given title.
func WithDocument(title string) Option {
	return func(cfg *config) {
		cfg.document = true
		cfg.title = title
	}
}

// WithStylesheet embeds css in the standalone document's head. It implies
// nothing on its own; combine it with WithDocument.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = css
	}
}
