// Package highlight converts plain source code into syntax-styled HTML
// using Chroma. It wraps the external dependency so callers never touch
// lexer or formatter internals directly.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"html"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Sentinel errors for highlight operations.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrHighlight           = errors.New("highlighting failed")
)

// DefaultTheme is used when callers pass an empty theme name.
const DefaultTheme = "github-dark"

// Highlight converts code in the given language into styled HTML markup.
// The output uses inline styles so it is self-contained and needs no
// accompanying stylesheet. Same (code, language, theme) always yields the
// same markup, so callers may cache on that key.
//
// Returns ErrUnsupportedLanguage when no lexer matches the language and
// ErrHighlight when tokenization or formatting fails. Callers are expected
// to degrade to Fallback rather than surface either error to the document.
func Highlight(code, language, theme string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	lexer = chroma.Coalesce(lexer)

	if theme == "" {
		theme = DefaultTheme
	}
	style := styles.Get(theme) // falls back to a built-in default style

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.TabWidth(4))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}

// Supported reports whether a lexer exists for the language.
func Supported(language string) bool {
	return lexers.Get(language) != nil
}

// Fallback renders code as an escaped, unstyled code container. It is the
// degraded rendering used whenever Highlight fails.
func Fallback(code string) string {
	return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
}
