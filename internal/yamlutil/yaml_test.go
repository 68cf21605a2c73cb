package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type testDoc struct {
	Title string `yaml:"title"`
	Count int    `yaml:"count"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		var doc testDoc
		if err := Unmarshal([]byte("title: hello\ncount: 3\n"), &doc); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if doc.Title != "hello" || doc.Count != 3 {
			t.Errorf("doc = %+v", doc)
		}
	})

	t.Run("unknown fields ignored", func(t *testing.T) {
		t.Parallel()
		var doc testDoc
		if err := Unmarshal([]byte("title: hello\nextra: field\n"), &doc); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()
		var doc testDoc
		if err := Unmarshal(nil, &doc); !errors.Is(err, ErrNilData) {
			t.Errorf("got %v, want ErrNilData", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		if err := Unmarshal([]byte("title: x"), nil); !errors.Is(err, ErrNilDestination) {
			t.Errorf("got %v, want ErrNilDestination", err)
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()
		big := []byte("title: " + strings.Repeat("a", MaxInputSize))
		var doc testDoc
		if err := Unmarshal(big, &doc); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("got %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		var doc testDoc
		if err := Unmarshal([]byte("title: [unclosed"), &doc); err == nil {
			t.Error("expected error for malformed input")
		}
	})
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		var doc testDoc
		if err := UnmarshalStrict([]byte("title: hello\n"), &doc); err != nil {
			t.Fatalf("UnmarshalStrict: %v", err)
		}
		if doc.Title != "hello" {
			t.Errorf("doc = %+v", doc)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		t.Parallel()
		var doc testDoc
		if err := UnmarshalStrict([]byte("title: hello\ntypoed: field\n"), &doc); err == nil {
			t.Error("expected error for unknown field")
		}
	})
}
