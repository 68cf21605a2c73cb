// Package folio renders structured rich-text documents to HTML.
//
// A document is an ordered list of typed nodes (paragraphs, headings, lists,
// images, code blocks) in the Portable Text wire format used by headless
// content stores. The package turns that node tree into a navigable HTML
// body, an outline of heading anchors, and syntax-highlighted code blocks.
//
// # Quick Start
//
// Decode a document and render it:
//
//	nodes, err := folio.DecodeDocument(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := folio.NewRenderer()
//	doc, err := r.Render(ctx, nodes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.TOC)  // <nav>...</nav>, or "" when there are no headings
//	fmt.Println(doc.Body) // rendered document body
//
// The table of contents and the body are independent consumers of the same
// node list: anchors on rendered h2/h3 headings always equal the ids the
// outline links to, because both sides derive them with HeadingID.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r := folio.NewRenderer(
//	    folio.WithTheme("github-dark"),
//	    folio.WithImageURLBuilder(imageurl.New("project", "production")),
//	    folio.WithLogger(logger),
//	)
//
// # Code Blocks
//
// Rendering pre-highlights every code block synchronously. For interactive
// consumers that highlight after mount, CodeBlock owns the per-block
// loading/ready/error lifecycle, a copy-to-clipboard action, and an optional
// line-number overlay:
//
//	cb := folio.NewCodeBlock(code, "go", folio.WithStateListener(onChange))
//	defer cb.Close()
//
// Highlighting failures are never fatal: the block degrades to an escaped
// plain-text rendering and copying the original source keeps working.
//
// # Markdown
//
// FromMarkdown parses Markdown into the same node model, so local documents
// and store-fetched documents share one rendering pipeline.
package folio
