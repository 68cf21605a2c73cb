package folio

import (
	"html"
	"strings"
)

// TableOfContents renders a navigable outline of the document's h2/h3
// headings. Each entry links to "#" + the heading id that Render attaches
// to the corresponding heading element.
//
// When the document has no qualifying headings the result is "", meaning
// the outline region should be omitted entirely rather than rendered as an
// empty container.
func TableOfContents(nodes []Node) string {
	return tocHTML(ExtractHeadings(nodes))
}

func tocHTML(headings []Heading) string {
	if len(headings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<nav class="toc" aria-label="Table of contents"><ul>`)
	for _, h := range headings {
		class := "toc-entry toc-level-2"
		if h.Level == 3 {
			class = "toc-entry toc-level-3"
		}
		sb.WriteString(`<li class="` + class + `"><a href="#` + html.EscapeString(h.ID) + `">`)
		sb.WriteString(html.EscapeString(h.Text))
		sb.WriteString(`</a></li>`)
	}
	sb.WriteString(`</ul></nav>`)
	return sb.String()
}
