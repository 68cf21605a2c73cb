package folio

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown parses Markdown into the node model so local documents share
// the rendering pipeline with store-fetched ones. The markdown surface maps
// onto the closed node set: headings above h4 clamp to h4, nested lists
// flatten (the node model has no nested block structure), and raw HTML
// blocks are dropped.
func FromMarkdown(src []byte) ([]Node, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(src))

	conv := &markdownConverter{src: src}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if err := conv.block(child); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMarkdownParse, err)
		}
	}
	return conv.nodes, nil
}

type markdownConverter struct {
	src     []byte
	nodes   []Node
	linkSeq int
}

func (c *markdownConverter) block(n ast.Node) error {
	switch t := n.(type) {
	case *ast.Heading:
		level := t.Level
		if level > 4 {
			level = 4
		}
		c.appendSpanBlock(BlockStyle("h"+strconv.Itoa(level)), t)

	case *ast.Paragraph:
		if img := soleImage(t); img != nil {
			c.appendImage(img)
			return nil
		}
		c.appendSpanBlock(StyleNormal, t)

	case *ast.TextBlock:
		c.appendSpanBlock(StyleNormal, t)

	case *ast.Blockquote:
		// Flatten quoted paragraphs into one blockquote block.
		node := Node{Kind: KindBlock, Style: StyleBlockquote}
		for child := t.FirstChild(); child != nil; child = child.NextSibling() {
			spans, defs := c.inline(child)
			if len(node.Children) > 0 && len(spans) > 0 {
				node.Children = append(node.Children, Span{Text: "\n"})
			}
			node.Children = append(node.Children, spans...)
			node.MarkDefs = append(node.MarkDefs, defs...)
		}
		c.nodes = append(c.nodes, node)

	case *ast.FencedCodeBlock:
		c.nodes = append(c.nodes, Node{
			Kind:     KindCodeBlock,
			Language: string(t.Language(c.src)),
			Code:     c.lines(t),
		})

	case *ast.CodeBlock:
		c.nodes = append(c.nodes, Node{Kind: KindCodeBlock, Code: c.lines(t)})

	case *ast.List:
		style := StyleBulletItem
		if t.IsOrdered() {
			style = StyleNumberItem
		}
		return c.listItems(t, style)

	case *ast.ThematicBreak, *ast.HTMLBlock:
		// No node-model equivalent.

	default:
		// Unhandled block kinds degrade to a paragraph of their text.
		c.appendSpanBlock(StyleNormal, n)
	}
	return nil
}

// listItems flattens list items (and any nested lists) into consecutive
// list-item blocks, which the renderer regroups into <ul>/<ol>.
func (c *markdownConverter) listItems(list *ast.List, style BlockStyle) error {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				nestedStyle := StyleBulletItem
				if nested.IsOrdered() {
					nestedStyle = StyleNumberItem
				}
				if err := c.listItems(nested, nestedStyle); err != nil {
					return err
				}
				continue
			}
			c.appendSpanBlock(style, child)
		}
	}
	return nil
}

func (c *markdownConverter) appendSpanBlock(style BlockStyle, n ast.Node) {
	spans, defs := c.inline(n)
	c.nodes = append(c.nodes, Node{Kind: KindBlock, Style: style, Children: spans, MarkDefs: defs})
}

func (c *markdownConverter) appendImage(img *ast.Image) {
	c.nodes = append(c.nodes, Node{
		Kind:     KindImage,
		AssetRef: string(img.Destination),
		Alt:      c.plainText(img),
		Caption:  string(img.Title),
	})
}

// inline converts an inline subtree into spans plus the link mark
// definitions they reference.
func (c *markdownConverter) inline(n ast.Node) ([]Span, []MarkDef) {
	var spans []Span
	var defs []MarkDef
	c.walkInline(n, nil, &spans, &defs)
	return spans, defs
}

func (c *markdownConverter) walkInline(n ast.Node, marks []string, spans *[]Span, defs *[]MarkDef) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			txt := string(t.Segment.Value(c.src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				txt += "\n"
			}
			appendSpan(spans, txt, marks)

		case *ast.String:
			appendSpan(spans, string(t.Value), marks)

		case *ast.CodeSpan:
			appendSpan(spans, c.plainText(t), append(cloneMarks(marks), MarkCode))

		case *ast.Emphasis:
			mark := MarkEmphasis
			if t.Level >= 2 {
				mark = MarkStrong
			}
			c.walkInline(t, append(cloneMarks(marks), mark), spans, defs)

		case *ast.Link:
			key := c.nextLinkKey()
			*defs = append(*defs, MarkDef{Key: key, Type: MarkDefLink, Href: string(t.Destination)})
			c.walkInline(t, append(cloneMarks(marks), key), spans, defs)

		case *ast.AutoLink:
			url := string(t.URL(c.src))
			key := c.nextLinkKey()
			*defs = append(*defs, MarkDef{Key: key, Type: MarkDefLink, Href: url})
			appendSpan(spans, string(t.Label(c.src)), append(cloneMarks(marks), key))

		case *ast.Image:
			// Inline images inside mixed content have no span form; keep
			// the alt text so the sentence still reads.
			appendSpan(spans, c.plainText(t), marks)

		default:
			c.walkInline(child, marks, spans, defs)
		}
	}
}

func (c *markdownConverter) nextLinkKey() string {
	c.linkSeq++
	return "link" + strconv.Itoa(c.linkSeq)
}

// plainText gathers the raw text of an inline subtree.
func (c *markdownConverter) plainText(n ast.Node) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(c.src))
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(child)
			}
		}
	}
	walk(n)
	return buf.String()
}

// lines joins the source lines of a code block node.
func (c *markdownConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		buf.Write(seg.Value(c.src))
	}
	return buf.String()
}

func appendSpan(spans *[]Span, text string, marks []string) {
	if text == "" {
		return
	}
	*spans = append(*spans, Span{Text: text, Marks: cloneMarks(marks)})
}

func cloneMarks(marks []string) []string {
	if len(marks) == 0 {
		return nil
	}
	out := make([]string, len(marks))
	copy(out, marks)
	return out
}

// soleImage returns the image when the paragraph consists of exactly one
// image (the common markdown figure pattern), else nil.
func soleImage(p *ast.Paragraph) *ast.Image {
	child := p.FirstChild()
	if child == nil || child.NextSibling() != nil {
		return nil
	}
	img, ok := child.(*ast.Image)
	if !ok {
		return nil
	}
	return img
}
