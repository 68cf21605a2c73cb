package folio

import (
	"context"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-folio/internal/highlight"
)

// CodeBlockState is the lifecycle state of a CodeBlock.
type CodeBlockState int

// State machine: Loading -> Ready on success, Loading -> Error on failure.
// Error is terminal (no automatic retry). A block constructed with
// pre-rendered markup starts in Ready and never shows Loading.
const (
	CodeBlockLoading CodeBlockState = iota
	CodeBlockReady
	CodeBlockError
)

// String returns the state name used in data-status attributes.
func (s CodeBlockState) String() string {
	switch s {
	case CodeBlockReady:
		return codeBlockReady
	case CodeBlockError:
		return codeBlockError
	default:
		return codeBlockLoading
	}
}

const (
	codeBlockLoading = "loading"
	codeBlockReady   = "ready"
	codeBlockError   = "error"
)

// DefaultCopyResetWindow is how long the "copied" affordance stays visible
// after a successful copy.
const DefaultCopyResetWindow = 2 * time.Second

// CodeBlock presents one code block: it owns the highlight lifecycle, the
// copy-to-clipboard interaction, and the optional line-number overlay.
// All mutable state is scoped to the instance; no locking is shared across
// blocks, and blocks in the same document highlight independently.
type CodeBlock struct {
	mu          sync.Mutex
	gen         int // bumped on input change and teardown; stale results are discarded
	state       CodeBlockState
	rendered    string
	code        string
	language    string
	title       string
	lineNumbers *bool
	copied      bool
	copyTimer   *time.Timer
	closed      bool

	theme      string
	copyWindow time.Duration
	threshold  int
	hl         Highlighter
	clip       Clipboard
	log        zerolog.Logger
	onChange   func(CodeBlockState)
}

// CodeBlockOption configures a CodeBlock.
type CodeBlockOption func(*CodeBlock)

// WithPrerendered seeds the block with markup highlighted ahead of time.
// The block starts directly in Ready with no observable Loading phase.
func WithPrerendered(markup string) CodeBlockOption {
	return func(c *CodeBlock) {
		c.rendered = markup
	}
}

// WithCodeTitle sets the header title shown above the code.
func WithCodeTitle(title string) CodeBlockOption {
	return func(c *CodeBlock) {
		c.title = title
	}
}

// WithCodeTheme sets the highlight theme for this block.
func WithCodeTheme(theme string) CodeBlockOption {
	return func(c *CodeBlock) {
		c.theme = theme
	}
}

// WithLineNumbers forces the line-number overlay on or off. Without it the
// overlay appears when the code exceeds DefaultLineNumberThreshold lines.
func WithLineNumbers(show bool) CodeBlockOption {
	return func(c *CodeBlock) {
		c.lineNumbers = &show
	}
}

// WithCodeHighlighter replaces the built-in Chroma highlighter.
func WithCodeHighlighter(h Highlighter) CodeBlockOption {
	return func(c *CodeBlock) {
		c.hl = h
	}
}

// WithCodeClipboard sets the clipboard collaborator used by Copy.
func WithCodeClipboard(clip Clipboard) CodeBlockOption {
	return func(c *CodeBlock) {
		c.clip = clip
	}
}

// WithCodeLogger sets the logger for copy and highlight degradations.
func WithCodeLogger(log zerolog.Logger) CodeBlockOption {
	return func(c *CodeBlock) {
		c.log = log
	}
}

// WithCopyResetWindow overrides how long the copied affordance lasts.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithCopyResetWindow(d time.Duration) CodeBlockOption {
	if d <= 0 {
		panic("folio: WithCopyResetWindow duration must be positive")
	}
	return func(c *CodeBlock) {
		c.copyWindow = d
	}
}

// WithStateListener registers a callback invoked after every state
// transition and copied-affordance change. The callback runs without the
// block's lock held.
func WithStateListener(fn func(CodeBlockState)) CodeBlockOption {
	return func(c *CodeBlock) {
		c.onChange = fn
	}
}

// NewCodeBlock creates a presenter for one code block and starts
// highlighting. If WithPrerendered supplied markup the block is Ready
// immediately; otherwise it is Loading until the asynchronous highlight
// resolves. Call Close when the block is discarded.
func NewCodeBlock(code, language string, opts ...CodeBlockOption) *CodeBlock {
	c := &CodeBlock{
		code:       code,
		language:   language,
		theme:      DefaultTheme,
		copyWindow: DefaultCopyResetWindow,
		threshold:  DefaultLineNumberThreshold,
		hl:         ChromaHighlighter{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.rendered != "" {
		c.state = CodeBlockReady
		return c
	}
	c.state = CodeBlockLoading
	go c.highlight(c.gen, c.code, c.language)
	return c
}

// SetSource replaces the code or language. The machine restarts from
// Loading unless prerendered markup accompanies the change, and any
// highlight still in flight for the previous input is discarded.
func (c *CodeBlock) SetSource(code, language string, prerendered string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.code = code
	c.language = language
	c.copied = false
	c.stopCopyTimerLocked()

	if prerendered != "" {
		c.rendered = prerendered
		c.state = CodeBlockReady
		c.mu.Unlock()
		c.notify(CodeBlockReady)
		return
	}

	c.rendered = ""
	c.state = CodeBlockLoading
	c.mu.Unlock()
	c.notify(CodeBlockLoading)
	go c.highlight(gen, code, language)
}

// highlight runs off the caller's goroutine. The generation token guards
// against a late result writing into a disposed or re-sourced block.
func (c *CodeBlock) highlight(gen int, code, language string) {
	lang := language
	if lang == "" {
		lang = defaultLanguage
	}
	markup, err := c.hl.Highlight(context.Background(), code, lang, c.theme)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return // stale result for an input that no longer exists
	}
	var next CodeBlockState
	if err != nil {
		c.log.Warn().Err(err).Str("language", language).
			Msg("code highlight failed, using plain fallback")
		c.rendered = highlight.Fallback(code)
		c.state = CodeBlockError
		next = CodeBlockError
	} else {
		c.rendered = markup
		c.state = CodeBlockReady
		next = CodeBlockReady
	}
	c.mu.Unlock()
	c.notify(next)
}

// Close tears the block down. A highlight still in flight is discarded
// rather than applied to the disposed instance.
func (c *CodeBlock) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++
	c.stopCopyTimerLocked()
	c.mu.Unlock()
}

// State returns the current lifecycle state.
func (c *CodeBlock) State() CodeBlockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Copied reports whether the transient copied affordance is active.
func (c *CodeBlock) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Code returns the original source string exactly as supplied.
func (c *CodeBlock) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// Copy writes the original code (never the highlighted markup or the
// line-number decorations) to the clipboard. While Loading there is nothing
// to copy and the call is a no-op. Clipboard failures are logged and leave
// the block's state untouched; the only user-visible effect of a failure is
// the absent copied confirmation.
func (c *CodeBlock) Copy() {
	c.mu.Lock()
	if c.closed || c.state == CodeBlockLoading {
		c.mu.Unlock()
		return
	}
	code := c.code
	clip := c.clip
	state := c.state
	c.mu.Unlock()

	if clip == nil {
		c.log.Warn().Err(ErrNoClipboard).Msg("copy unavailable")
		return
	}
	if err := clip.WriteText(code); err != nil {
		c.log.Warn().Err(err).Msg("clipboard write failed")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.copied = true
	c.stopCopyTimerLocked()
	c.copyTimer = time.AfterFunc(c.copyWindow, c.resetCopied)
	c.mu.Unlock()
	c.notify(state)
}

func (c *CodeBlock) resetCopied() {
	c.mu.Lock()
	if c.closed || !c.copied {
		c.mu.Unlock()
		return
	}
	c.copied = false
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

func (c *CodeBlock) stopCopyTimerLocked() {
	if c.copyTimer != nil {
		c.copyTimer.Stop()
		c.copyTimer = nil
	}
}

func (c *CodeBlock) notify(state CodeBlockState) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

// HTML returns the current rendering for the block's state. While Loading
// it is a fixed-shape placeholder that exposes neither the code nor a copy
// action; in Ready and Error it is the full code container.
func (c *CodeBlock) HTML() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CodeBlockLoading {
		return `<figure class="code-block" data-status="loading">` +
			`<div class="code-block-skeleton"><span></span><span></span><span></span></div></figure>`
	}

	show := lineCount(c.code) > c.threshold
	if c.lineNumbers != nil {
		show = *c.lineNumbers
	}
	return codeBlockHTML(c.title, c.language, c.rendered, c.state.String(), show, lineCount(c.code))
}

// lineCount counts newline-delimited lines, stripping exactly one trailing
// newline first so an N-line file with a trailing newline counts as N.
func lineCount(code string) int {
	return strings.Count(strings.TrimSuffix(code, "\n"), "\n") + 1
}

// languageLabels maps language tags to display names for the header badge.
var languageLabels = map[string]string{
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"jsx":        "React JSX",
	"tsx":        "React TSX",
	"go":         "Go",
	"html":       "HTML",
	"css":        "CSS",
	"json":       "JSON",
	"yaml":       "YAML",
	"bash":       "Shell",
	"sh":         "Shell",
	"shell":      "Shell",
	"text":       "Text",
}

func languageLabel(lang string) string {
	if label, ok := languageLabels[lang]; ok {
		return label
	}
	return strings.ToUpper(lang)
}

// codeBlockHTML builds the shared code container markup used by both the
// synchronous render path and CodeBlock snapshots.
func codeBlockHTML(title, language, inner, status string, lineNumbers bool, lines int) string {
	var sb strings.Builder
	sb.WriteString(`<figure class="code-block" data-status="` + status + `">`)

	sb.WriteString(`<figcaption class="code-block-header">`)
	if title != "" {
		sb.WriteString(`<span class="code-block-title">` + html.EscapeString(title) + `</span>`)
	}
	if language != "" && language != "text" {
		sb.WriteString(`<span class="code-block-lang">` + html.EscapeString(languageLabel(language)) + `</span>`)
	}
	sb.WriteString(`<button type="button" class="code-block-copy" aria-label="Copy code">Copy</button>`)
	sb.WriteString(`</figcaption>`)

	sb.WriteString(`<div class="code-block-body">`)
	if lineNumbers {
		sb.WriteString(`<span class="code-block-lines" aria-hidden="true">`)
		for i := 1; i <= lines; i++ {
			sb.WriteString(`<span class="code-block-line">` + strconv.Itoa(i) + `</span>`)
		}
		sb.WriteString(`</span>`)
	}
	sb.WriteString(inner)
	sb.WriteString(`</div></figure>`)
	return sb.String()
}
