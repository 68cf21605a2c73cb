package folio

import (
	"encoding/json"
	"errors"
	"testing"
)

const samplePost = `[
  {
    "_type": "block",
    "_key": "b1",
    "style": "h2",
    "children": [{"_type": "span", "_key": "s1", "text": "Getting Started", "marks": []}],
    "markDefs": []
  },
  {
    "_type": "block",
    "_key": "b2",
    "style": "normal",
    "children": [
      {"_type": "span", "text": "Read the "},
      {"_type": "span", "text": "docs", "marks": ["strong", "lk1"]},
      {"_type": "span", "text": " first."}
    ],
    "markDefs": [{"_key": "lk1", "_type": "link", "href": "https://example.com/docs", "blank": true}]
  },
  {
    "_type": "image",
    "_key": "b3",
    "asset": {"_ref": "image-abc123-800x600-png"},
    "alt": "Diagram",
    "caption": "The pipeline"
  },
  {
    "_type": "codeBlock",
    "_key": "b4",
    "language": "go",
    "code": "package main\n",
    "title": "main.go"
  },
  {
    "_type": "youtubeEmbed",
    "_key": "b5"
  }
]`

func TestDecodeDocument(t *testing.T) {
	t.Parallel()

	nodes, err := DecodeDocument([]byte(samplePost))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if len(nodes) != 5 {
		t.Fatalf("got %d nodes, want 5", len(nodes))
	}

	t.Run("heading block", func(t *testing.T) {
		n := nodes[0]
		if n.Kind != KindBlock || n.Style != StyleH2 {
			t.Errorf("node 0 = %q/%q, want block/h2", n.Kind, n.Style)
		}
		if got := n.Text(); got != "Getting Started" {
			t.Errorf("Text() = %q", got)
		}
	})

	t.Run("span marks and mark defs", func(t *testing.T) {
		n := nodes[1]
		if len(n.Children) != 3 {
			t.Fatalf("got %d spans, want 3", len(n.Children))
		}
		s := n.Children[1]
		if !s.HasMark(MarkStrong) || !s.HasMark("lk1") {
			t.Errorf("span marks = %v, want strong and lk1", s.Marks)
		}
		def := n.MarkDef("lk1")
		if def == nil {
			t.Fatal("MarkDef(lk1) = nil")
		}
		if def.Type != MarkDefLink || def.Href != "https://example.com/docs" || !def.NewTab {
			t.Errorf("mark def = %+v", def)
		}
		if n.MarkDef("missing") != nil {
			t.Error("MarkDef(missing) should be nil")
		}
		if got := n.Text(); got != "Read the docs first." {
			t.Errorf("Text() = %q", got)
		}
	})

	t.Run("image node", func(t *testing.T) {
		n := nodes[2]
		if n.Kind != KindImage {
			t.Fatalf("kind = %q", n.Kind)
		}
		if n.AssetRef != "image-abc123-800x600-png" || n.Alt != "Diagram" || n.Caption != "The pipeline" {
			t.Errorf("image = %+v", n)
		}
		if got := n.Text(); got != "" {
			t.Errorf("image Text() = %q, want empty", got)
		}
	})

	t.Run("code block node", func(t *testing.T) {
		n := nodes[3]
		if n.Kind != KindCodeBlock || n.Language != "go" || n.Code != "package main\n" || n.Title != "main.go" {
			t.Errorf("code block = %+v", n)
		}
	})

	t.Run("unknown kind preserved", func(t *testing.T) {
		if nodes[4].Kind != Kind("youtubeEmbed") {
			t.Errorf("kind = %q, want youtubeEmbed", nodes[4].Kind)
		}
	})
}

func TestDecodeDocumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: ErrEmptyDocument},
		{name: "whitespace input", input: "  \n ", wantErr: ErrEmptyDocument},
		{name: "not json", input: "{{{", wantErr: ErrDecodeNode},
		{name: "node missing type", input: `[{"style": "normal"}]`, wantErr: ErrDecodeNode},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeDocument([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("empty array is valid", func(t *testing.T) {
		t.Parallel()
		nodes, err := DecodeDocument([]byte("[]"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(nodes) != 0 {
			t.Errorf("got %d nodes, want 0", len(nodes))
		}
	})
}

func TestNodeRoundTrip(t *testing.T) {
	t.Parallel()

	nodes, err := DecodeDocument([]byte(samplePost))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	encoded, err := json.Marshal(nodes[:4]) // the unknown kind drops its extra fields
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := DecodeDocument(encoded)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}

	if len(again) != 4 {
		t.Fatalf("got %d nodes after round trip, want 4", len(again))
	}
	if again[1].Text() != nodes[1].Text() {
		t.Errorf("block text changed: %q vs %q", again[1].Text(), nodes[1].Text())
	}
	def := again[1].MarkDef("lk1")
	if def == nil || !def.NewTab {
		t.Errorf("link mark def lost in round trip: %+v", def)
	}
	if again[3].Code != nodes[3].Code {
		t.Errorf("code changed: %q vs %q", again[3].Code, nodes[3].Code)
	}
}

func TestNodeHeadingLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		style BlockStyle
		want  int
	}{
		{StyleH1, 1},
		{StyleH2, 2},
		{StyleH3, 3},
		{StyleH4, 4},
		{StyleNormal, 0},
		{StyleBlockquote, 0},
		{StyleBulletItem, 0},
	}
	for _, tt := range tests {
		tt := tt
		n := textBlock(tt.style, "x")
		if got := n.HeadingLevel(); got != tt.want {
			t.Errorf("HeadingLevel(%s) = %d, want %d", tt.style, got, tt.want)
		}
	}

	img := Node{Kind: KindImage}
	if img.HeadingLevel() != 0 {
		t.Error("image HeadingLevel should be 0")
	}
}

func TestBlockStyleDefaultsToNormal(t *testing.T) {
	t.Parallel()

	nodes, err := DecodeDocument([]byte(`[{"_type": "block", "children": [{"_type": "span", "text": "hi"}]}]`))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if nodes[0].Style != StyleNormal {
		t.Errorf("style = %q, want normal", nodes[0].Style)
	}
}
