package folio

import (
	"regexp"
	"strings"
)

// Heading is an outline entry derived from an h2 or h3 block. Headings are
// recomputed from the node list on every pass and never stored.
type Heading struct {
	ID    string
	Text  string
	Level int // 2 or 3
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
	edgeHyphenRe = regexp.MustCompile(`^-+|-+$`)
)

// HeadingID derives a URL-safe anchor id from heading text.
//
// The transformation is: lowercase, drop every character that is not a word
// character, whitespace, or hyphen, collapse whitespace runs into single
// hyphens, collapse hyphen runs, and trim leading/trailing hyphens. It is
// pure and deterministic, so the document renderer and the outline builder
// can derive identical anchors independently.
//
// Two headings with identical text produce identical ids; duplicates are
// not disambiguated.
func HeadingID(text string) string {
	s := strings.ToLower(text)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return edgeHyphenRe.ReplaceAllString(s, "")
}

// ExtractHeadings walks the node list in document order and returns one
// Heading per h2/h3 block with non-empty text. Blocks whose concatenated
// span text trims to "" are skipped. Never returns nil.
func ExtractHeadings(nodes []Node) []Heading {
	headings := []Heading{}
	for i := range nodes {
		n := &nodes[i]
		level := n.HeadingLevel()
		if level != 2 && level != 3 {
			continue
		}
		text := strings.TrimSpace(n.Text())
		if text == "" {
			continue
		}
		headings = append(headings, Heading{
			ID:    HeadingID(text),
			Text:  text,
			Level: level,
		})
	}
	return headings
}
