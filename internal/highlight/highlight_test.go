package highlight

import (
	"errors"
	"strings"
	"testing"
)

func TestHighlight(t *testing.T) {
	t.Parallel()

	t.Run("go source", func(t *testing.T) {
		t.Parallel()
		out, err := Highlight("package main\n\nfunc main() {}\n", "go", DefaultTheme)
		if err != nil {
			t.Fatalf("Highlight: %v", err)
		}
		if !strings.Contains(out, "<pre") || !strings.Contains(out, "</pre>") {
			t.Errorf("output not wrapped in pre: %q", out)
		}
		if !strings.Contains(out, "package") {
			t.Errorf("output lost source text: %q", out)
		}
		// Inline styles keep the markup self-contained.
		if !strings.Contains(out, "style=") {
			t.Errorf("output has no inline styles: %q", out)
		}
	})

	t.Run("deterministic for fixed inputs", func(t *testing.T) {
		t.Parallel()
		first, err := Highlight("x = 1", "python", "monokai")
		if err != nil {
			t.Fatalf("Highlight: %v", err)
		}
		second, err := Highlight("x = 1", "python", "monokai")
		if err != nil {
			t.Fatalf("Highlight: %v", err)
		}
		if first != second {
			t.Error("same inputs produced different markup")
		}
	})

	t.Run("unknown language", func(t *testing.T) {
		t.Parallel()
		_, err := Highlight("whatever", "no-such-language-tag", DefaultTheme)
		if !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("got %v, want ErrUnsupportedLanguage", err)
		}
	})

	t.Run("unknown theme falls back instead of failing", func(t *testing.T) {
		t.Parallel()
		if _, err := Highlight("x = 1", "python", "no-such-theme"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty theme uses default", func(t *testing.T) {
		t.Parallel()
		if _, err := Highlight("x = 1", "python", ""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSupported(t *testing.T) {
	t.Parallel()

	if !Supported("go") {
		t.Error("go should be supported")
	}
	if Supported("no-such-language-tag") {
		t.Error("nonsense tag should not be supported")
	}
}

func TestFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "plain",
			code: "hello",
			want: "<pre><code>hello</code></pre>",
		},
		{
			name: "escapes markup",
			code: `if a < b && c > "d" {}`,
			want: "<pre><code>if a &lt; b &amp;&amp; c &gt; &#34;d&#34; {}</code></pre>",
		},
		{
			name: "empty",
			code: "",
			want: "<pre><code></code></pre>",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Fallback(tt.code); got != tt.want {
				t.Errorf("Fallback(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
