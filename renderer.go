package folio

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alnah/go-folio/internal/highlight"
)

// Highlighter converts source code plus a language tag into styled markup.
// Implementations must be pure with respect to (code, language, theme) so
// callers may cache results on that key.
type Highlighter interface {
	Highlight(ctx context.Context, code, language, theme string) (string, error)
}

// ImageURLBuilder turns an opaque image asset reference into a fetchable
// URL for the requested dimensions. Implementations must be pure and
// side-effect free.
type ImageURLBuilder interface {
	URLFor(ref string, width, height int) (string, error)
}

// Clipboard exposes a single write operation that may fail (for example
// when permission is denied). Failures are logged by callers, never
// propagated as rendering errors.
type Clipboard interface {
	WriteText(text string) error
}

// Default rendering parameters.
const (
	// DefaultTheme is the highlight theme applied when none is configured.
	DefaultTheme = highlight.DefaultTheme
	// DefaultLineNumberThreshold is the line count above which code blocks
	// show line numbers when the node does not decide explicitly.
	DefaultLineNumberThreshold = 10

	defaultLanguage = "javascript"
	defaultImageAlt = "Blog image"

	imageWidth  = 800
	imageHeight = 600
)

type rendererConfig struct {
	theme               string
	lineNumberThreshold int
}

// Renderer turns a document's node list into HTML. Create with NewRenderer,
// customize with options, and call Render. A Renderer is safe for concurrent
// use: it holds no per-document state.
type Renderer struct {
	cfg    rendererConfig
	hl     Highlighter
	images ImageURLBuilder
	log    zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the syntax highlight theme (a Chroma style name).
func WithTheme(name string) Option {
	return func(r *Renderer) {
		r.cfg.theme = name
	}
}

// WithLineNumberThreshold sets the line count above which code blocks show
// line numbers automatically. Panics if n < 0 (programmer error).
func WithLineNumberThreshold(n int) Option {
	if n < 0 {
		panic("folio: WithLineNumberThreshold must be >= 0")
	}
	return func(r *Renderer) {
		r.cfg.lineNumberThreshold = n
	}
}

// WithHighlighter replaces the built-in Chroma highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(r *Renderer) {
		r.hl = h
	}
}

// WithImageURLBuilder sets the collaborator that resolves image asset
// references to URLs. Without one, only refs that are already URLs render;
// other image nodes are skipped and logged.
func WithImageURLBuilder(b ImageURLBuilder) Option {
	return func(r *Renderer) {
		r.images = b
	}
}

// WithLogger sets the logger used for non-fatal degradations (unknown node
// kinds, highlight failures, unresolvable images). Defaults to a no-op
// logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// NewRenderer creates a Renderer with default configuration.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		cfg: rendererConfig{
			theme:               DefaultTheme,
			lineNumberThreshold: DefaultLineNumberThreshold,
		},
		hl:  ChromaHighlighter{},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChromaHighlighter is the built-in Highlighter backed by Chroma.
type ChromaHighlighter struct{}

// Highlight implements Highlighter. The context is checked before the
// (synchronous) tokenization starts.
func (ChromaHighlighter) Highlight(ctx context.Context, code, language, theme string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return highlight.Highlight(code, language, theme)
}

// Compile-time interface implementation checks.
var _ Highlighter = ChromaHighlighter{}
