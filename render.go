package folio

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/alnah/go-folio/internal/highlight"
)

// Document is the result of rendering a node list. Body and TOC are
// independent derivations of the same nodes: every h2/h3 anchor id in Body
// equals the id its TOC entry links to.
type Document struct {
	Body     string
	Headings []Heading
	TOC      string
}

// Render turns the node list into a Document. Dispatch is polymorphic over
// node kind; unknown kinds are logged and skipped so one malformed embedded
// node cannot fail the whole document. The only returned errors are context
// cancellation: every other failure mode degrades locally.
func (r *Renderer) Render(ctx context.Context, nodes []Node) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headings := ExtractHeadings(nodes)

	var sb strings.Builder
	openList := "" // "ul", "ol", or "" when no list is open

	closeList := func() {
		if openList != "" {
			sb.WriteString("</" + openList + ">")
			openList = ""
		}
	}

	for i := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := &nodes[i]

		if n.IsListItem() {
			tag := "ul"
			if n.Style == StyleNumberItem {
				tag = "ol"
			}
			if openList != tag {
				closeList()
				sb.WriteString("<" + tag + ">")
				openList = tag
			}
			sb.WriteString("<li>" + r.renderSpans(n) + "</li>")
			continue
		}
		closeList()

		switch n.Kind {
		case KindBlock:
			r.renderBlock(&sb, n)
		case KindImage:
			r.renderImage(&sb, n)
		case KindCodeBlock:
			r.renderCodeBlock(ctx, &sb, n)
		default:
			r.log.Warn().Str("kind", string(n.Kind)).Str("key", n.Key).
				Msg("skipping unknown node kind")
		}
	}
	closeList()

	return &Document{
		Body:     sb.String(),
		Headings: headings,
		TOC:      tocHTML(headings),
	}, nil
}

// renderBlock renders paragraphs, headings, and blockquotes.
func (r *Renderer) renderBlock(sb *strings.Builder, n *Node) {
	spans := r.renderSpans(n)

	if level := n.HeadingLevel(); level > 0 {
		tag := "h" + strconv.Itoa(level)
		// The id must equal what ExtractHeadings derives for this block so
		// TOC fragment navigation resolves.
		id := HeadingID(strings.TrimSpace(n.Text()))
		if id == "" {
			sb.WriteString("<" + tag + ">" + spans + "</" + tag + ">")
			return
		}
		sb.WriteString("<" + tag + ` id="` + html.EscapeString(id) + `">` + spans + "</" + tag + ">")
		return
	}

	switch n.Style {
	case StyleBlockquote:
		sb.WriteString("<blockquote>" + spans + "</blockquote>")
	default:
		// Unrecognized styles degrade to paragraphs.
		sb.WriteString("<p>" + spans + "</p>")
	}
}

// renderSpans renders the block's children with their marks applied.
// Decorators nest inside a link mark when both are present.
func (r *Renderer) renderSpans(n *Node) string {
	var sb strings.Builder
	for i := range n.Children {
		s := &n.Children[i]
		out := html.EscapeString(s.Text)

		var link *MarkDef
		for _, m := range s.Marks {
			switch m {
			case MarkCode:
				out = "<code>" + out + "</code>"
			case MarkEmphasis:
				out = "<em>" + out + "</em>"
			case MarkStrong:
				out = "<strong>" + out + "</strong>"
			default:
				def := n.MarkDef(m)
				if def == nil {
					r.log.Warn().Str("mark", m).Str("key", n.Key).
						Msg("skipping unresolvable span mark")
					continue
				}
				if def.Type == MarkDefLink {
					link = def
				}
			}
		}

		if link != nil {
			attrs := ` href="` + html.EscapeString(link.Href) + `"`
			if link.NewTab {
				attrs += ` target="_blank" rel="noopener noreferrer"`
			}
			out = "<a" + attrs + ">" + out + "</a>"
		}
		sb.WriteString(out)
	}
	return sb.String()
}

// renderImage renders an image node through the URL builder collaborator.
// Unresolvable images are skipped and logged, never fatal.
func (r *Renderer) renderImage(sb *strings.Builder, n *Node) {
	url, err := r.imageURL(n.AssetRef)
	if err != nil {
		r.log.Warn().Err(err).Str("ref", n.AssetRef).Msg("skipping unresolvable image")
		return
	}

	alt := n.Alt
	if alt == "" {
		alt = defaultImageAlt
	}

	sb.WriteString(`<figure class="image"><img src="` + html.EscapeString(url) +
		`" alt="` + html.EscapeString(alt) +
		`" width="` + strconv.Itoa(imageWidth) +
		`" height="` + strconv.Itoa(imageHeight) + `"/>`)
	if n.Caption != "" {
		sb.WriteString("<figcaption>" + html.EscapeString(n.Caption) + "</figcaption>")
	}
	sb.WriteString("</figure>")
}

// imageURL resolves an asset reference. Refs that are already URLs pass
// through so Markdown-sourced documents render without a builder.
func (r *Renderer) imageURL(ref string) (string, error) {
	if ref == "" {
		return "", ErrImageURL
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/") {
		return ref, nil
	}
	if r.images == nil {
		return "", ErrNoImageURL
	}
	return r.images.URLFor(ref, imageWidth, imageHeight)
}

// renderCodeBlock is the synchronous ("server") highlight call site: the
// result is embedded directly and consumers never observe a loading state.
func (r *Renderer) renderCodeBlock(ctx context.Context, sb *strings.Builder, n *Node) {
	lang := n.Language
	if lang == "" {
		lang = defaultLanguage
	}

	status := codeBlockReady
	inner, err := r.hl.Highlight(ctx, n.Code, lang, r.cfg.theme)
	if err != nil {
		r.log.Warn().Err(err).Str("language", lang).Msg("code highlight failed, using plain fallback")
		inner = highlight.Fallback(n.Code)
		status = codeBlockError
	}

	lineNumbers := lineCount(n.Code) > r.cfg.lineNumberThreshold
	if n.ShowLineNumbers != nil {
		lineNumbers = *n.ShowLineNumbers
	}

	sb.WriteString(codeBlockHTML(n.Title, n.Language, inner, status, lineNumbers, lineCount(n.Code)))
}
