package folio

import (
	"context"
	"strings"
	"testing"
)

func TestFromMarkdownBasicBlocks(t *testing.T) {
	t.Parallel()

	src := `# Title

## Getting Started

Some *emphasis* and **strong** and ` + "`code`" + ` text.

### Installation

> A quote.

- one
- two

1. first
2. second
`

	nodes, err := FromMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}

	wantStyles := []BlockStyle{
		StyleH1, StyleH2, StyleNormal, StyleH3, StyleBlockquote,
		StyleBulletItem, StyleBulletItem, StyleNumberItem, StyleNumberItem,
	}
	if len(nodes) != len(wantStyles) {
		t.Fatalf("got %d nodes, want %d: %+v", len(nodes), len(wantStyles), nodes)
	}
	for i, want := range wantStyles {
		if nodes[i].Kind != KindBlock || nodes[i].Style != want {
			t.Errorf("node %d = %s/%s, want block/%s", i, nodes[i].Kind, nodes[i].Style, want)
		}
	}

	if got := nodes[1].Text(); got != "Getting Started" {
		t.Errorf("heading text = %q", got)
	}

	para := nodes[2]
	var strongSpan, emSpan, codeSpan *Span
	for i := range para.Children {
		s := &para.Children[i]
		switch {
		case s.HasMark(MarkStrong):
			strongSpan = s
		case s.HasMark(MarkEmphasis):
			emSpan = s
		case s.HasMark(MarkCode):
			codeSpan = s
		}
	}
	if emSpan == nil || emSpan.Text != "emphasis" {
		t.Errorf("emphasis span = %+v", emSpan)
	}
	if strongSpan == nil || strongSpan.Text != "strong" {
		t.Errorf("strong span = %+v", strongSpan)
	}
	if codeSpan == nil || codeSpan.Text != "code" {
		t.Errorf("code span = %+v", codeSpan)
	}
}

func TestFromMarkdownCodeBlock(t *testing.T) {
	t.Parallel()

	src := "```go\npackage main\n\nfunc main() {}\n```\n"
	nodes, err := FromMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	n := nodes[0]
	if n.Kind != KindCodeBlock || n.Language != "go" {
		t.Errorf("node = %+v", n)
	}
	if n.Code != "package main\n\nfunc main() {}\n" {
		t.Errorf("code = %q", n.Code)
	}
}

func TestFromMarkdownLinks(t *testing.T) {
	t.Parallel()

	nodes, err := FromMarkdown([]byte(`See [the docs](https://example.com/docs) here.`))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	n := nodes[0]
	if len(n.MarkDefs) != 1 {
		t.Fatalf("got %d mark defs, want 1", len(n.MarkDefs))
	}
	def := n.MarkDefs[0]
	if def.Type != MarkDefLink || def.Href != "https://example.com/docs" {
		t.Errorf("mark def = %+v", def)
	}

	var linked *Span
	for i := range n.Children {
		if n.Children[i].HasMark(def.Key) {
			linked = &n.Children[i]
		}
	}
	if linked == nil || linked.Text != "the docs" {
		t.Errorf("linked span = %+v", linked)
	}
}

func TestFromMarkdownImage(t *testing.T) {
	t.Parallel()

	nodes, err := FromMarkdown([]byte(`![A chart](https://example.com/chart.png "Quarterly numbers")`))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	n := nodes[0]
	if n.Kind != KindImage {
		t.Fatalf("kind = %q", n.Kind)
	}
	if n.AssetRef != "https://example.com/chart.png" || n.Alt != "A chart" || n.Caption != "Quarterly numbers" {
		t.Errorf("image = %+v", n)
	}
}

func TestFromMarkdownHeadingClamp(t *testing.T) {
	t.Parallel()

	nodes, err := FromMarkdown([]byte("##### Tiny\n###### Tinier\n"))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	for i, n := range nodes {
		if n.Style != StyleH4 {
			t.Errorf("node %d style = %s, want h4", i, n.Style)
		}
	}
}

func TestFromMarkdownNestedListsFlatten(t *testing.T) {
	t.Parallel()

	src := "- outer\n  - inner one\n  - inner two\n- outer two\n"
	nodes, err := FromMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	for i, n := range nodes {
		if !n.IsListItem() {
			t.Errorf("node %d = %s/%s, want list item", i, n.Kind, n.Style)
		}
	}
	if len(nodes) != 4 {
		t.Errorf("got %d items, want 4 (flattened)", len(nodes))
	}
}

// The whole point of FromMarkdown: markdown documents flow through the same
// renderer as store documents, with matching anchors and highlighting.
func TestFromMarkdownRendersThroughPipeline(t *testing.T) {
	t.Parallel()

	src := "## Getting Started\n\nIntro.\n\n```go\nx := 1\n```\n"
	nodes, err := FromMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}

	hl := &scriptedHighlighter{results: map[string]string{"go": "<pre>ok</pre>"}}
	doc, err := NewRenderer(WithHighlighter(hl)).Render(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(doc.Body, `<h2 id="getting-started">`) {
		t.Errorf("body missing anchored heading: %q", doc.Body)
	}
	if !strings.Contains(doc.TOC, `href="#getting-started"`) {
		t.Errorf("toc missing link: %q", doc.TOC)
	}
	if !strings.Contains(doc.Body, "<pre>ok</pre>") {
		t.Errorf("body missing highlighted code: %q", doc.Body)
	}
}
