package folio

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies a node variant in the document tree.
type Kind string

// Node kinds understood by the renderer. Unknown kinds survive decoding so
// one unrecognized embedded object cannot fail the whole document.
const (
	KindBlock     Kind = "block"
	KindImage     Kind = "image"
	KindCodeBlock Kind = "codeBlock"
)

// BlockStyle classifies a text block.
type BlockStyle string

// Block styles. Anything else decodes as-is and renders as a paragraph.
const (
	StyleNormal     BlockStyle = "normal"
	StyleH1         BlockStyle = "h1"
	StyleH2         BlockStyle = "h2"
	StyleH3         BlockStyle = "h3"
	StyleH4         BlockStyle = "h4"
	StyleBlockquote BlockStyle = "blockquote"
	StyleBulletItem BlockStyle = "bulletListItem"
	StyleNumberItem BlockStyle = "numberListItem"
)

// Decorator mark names carried on spans. A span mark that is not a
// decorator references a mark definition on the owning block by key.
const (
	MarkStrong   = "strong"
	MarkEmphasis = "em"
	MarkCode     = "code"
)

// MarkDefLink is the mark definition type for links.
const MarkDefLink = "link"

// Span is an inline run of text with zero or more marks.
type Span struct {
	Key   string
	Text  string
	Marks []string
}

// MarkDef is a mark definition referenced by span marks, e.g. a link.
type MarkDef struct {
	Key    string
	Type   string
	Href   string
	NewTab bool
}

// Node is one element of a structured document: a text block, an image, a
// code block, or an unknown embedded object. Which fields are meaningful
// depends on Kind. Decoded documents are treated as immutable input by
// every component in this package.
type Node struct {
	Kind Kind
	Key  string

	// Block fields (Kind == KindBlock).
	Style    BlockStyle
	Children []Span
	MarkDefs []MarkDef

	// Image fields (Kind == KindImage).
	AssetRef string
	Alt      string
	Caption  string

	// Code block fields (Kind == KindCodeBlock).
	Language string
	Code     string
	Title    string
	// ShowLineNumbers overrides the automatic line-number decision when set.
	ShowLineNumbers *bool
}

// Text returns the ordered concatenation of the block's span text.
// Returns "" for non-block nodes.
func (n *Node) Text() string {
	if n.Kind != KindBlock {
		return ""
	}
	var sb strings.Builder
	for _, s := range n.Children {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// HeadingLevel returns 1-4 for heading-styled blocks and 0 otherwise.
func (n *Node) HeadingLevel() int {
	if n.Kind != KindBlock {
		return 0
	}
	switch n.Style {
	case StyleH1:
		return 1
	case StyleH2:
		return 2
	case StyleH3:
		return 3
	case StyleH4:
		return 4
	}
	return 0
}

// IsListItem reports whether the block is a bullet or number list item.
func (n *Node) IsListItem() bool {
	return n.Kind == KindBlock && (n.Style == StyleBulletItem || n.Style == StyleNumberItem)
}

// MarkDef looks up a mark definition by key. Returns nil if absent.
func (n *Node) MarkDef(key string) *MarkDef {
	for i := range n.MarkDefs {
		if n.MarkDefs[i].Key == key {
			return &n.MarkDefs[i]
		}
	}
	return nil
}

// HasMark reports whether the span carries the named mark.
func (s *Span) HasMark(name string) bool {
	for _, m := range s.Marks {
		if m == name {
			return true
		}
	}
	return false
}

// Wire types mirror the Portable Text JSON shape used by the content store.

type wireSpan struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

type wireMarkDef struct {
	Key   string `json:"_key"`
	Type  string `json:"_type"`
	Href  string `json:"href,omitempty"`
	Blank bool   `json:"blank,omitempty"`
}

type wireAsset struct {
	Ref string `json:"_ref"`
}

type wireNode struct {
	Type            string        `json:"_type"`
	Key             string        `json:"_key,omitempty"`
	Style           string        `json:"style,omitempty"`
	Children        []wireSpan    `json:"children,omitempty"`
	MarkDefs        []wireMarkDef `json:"markDefs,omitempty"`
	Asset           *wireAsset    `json:"asset,omitempty"`
	Alt             string        `json:"alt,omitempty"`
	Caption         string        `json:"caption,omitempty"`
	Language        string        `json:"language,omitempty"`
	Code            string        `json:"code,omitempty"`
	Title           string        `json:"title,omitempty"`
	ShowLineNumbers *bool         `json:"showLineNumbers,omitempty"`
}

// UnmarshalJSON decodes a node from the content store wire format.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeNode, err)
	}
	if w.Type == "" {
		return fmt.Errorf("%w: missing _type", ErrDecodeNode)
	}

	*n = Node{Kind: Kind(w.Type), Key: w.Key}

	switch n.Kind {
	case KindBlock:
		n.Style = BlockStyle(w.Style)
		if n.Style == "" {
			n.Style = StyleNormal
		}
		n.Children = make([]Span, len(w.Children))
		for i, c := range w.Children {
			n.Children[i] = Span{Key: c.Key, Text: c.Text, Marks: c.Marks}
		}
		if len(w.MarkDefs) > 0 {
			n.MarkDefs = make([]MarkDef, len(w.MarkDefs))
			for i, d := range w.MarkDefs {
				n.MarkDefs[i] = MarkDef{Key: d.Key, Type: d.Type, Href: d.Href, NewTab: d.Blank}
			}
		}
	case KindImage:
		if w.Asset != nil {
			n.AssetRef = w.Asset.Ref
		}
		n.Alt = w.Alt
		n.Caption = w.Caption
	case KindCodeBlock:
		n.Language = w.Language
		n.Code = w.Code
		n.Title = w.Title
		n.ShowLineNumbers = w.ShowLineNumbers
	}
	return nil
}

// MarshalJSON encodes the node back into the wire format.
func (n Node) MarshalJSON() ([]byte, error) {
	w := wireNode{Type: string(n.Kind), Key: n.Key}

	switch n.Kind {
	case KindBlock:
		w.Style = string(n.Style)
		w.Children = make([]wireSpan, len(n.Children))
		for i, c := range n.Children {
			w.Children[i] = wireSpan{Type: "span", Key: c.Key, Text: c.Text, Marks: c.Marks}
		}
		for _, d := range n.MarkDefs {
			w.MarkDefs = append(w.MarkDefs, wireMarkDef{Key: d.Key, Type: d.Type, Href: d.Href, Blank: d.NewTab})
		}
	case KindImage:
		if n.AssetRef != "" {
			w.Asset = &wireAsset{Ref: n.AssetRef}
		}
		w.Alt = n.Alt
		w.Caption = n.Caption
	case KindCodeBlock:
		w.Language = n.Language
		w.Code = n.Code
		w.Title = n.Title
		w.ShowLineNumbers = n.ShowLineNumbers
	}
	return json.Marshal(w)
}

// DecodeDocument parses a JSON array of nodes.
// Returns ErrEmptyDocument for empty input and ErrDecodeNode for malformed
// nodes; a decoded empty array is valid and yields an empty slice.
func DecodeDocument(data []byte) ([]Node, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	var nodes []Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeNode, err)
	}
	return nodes, nil
}
