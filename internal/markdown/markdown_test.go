package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasics(t *testing.T) {
	out, err := Render([]byte("# Heading\n\nSome *emphasis* here."))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<h1 id=\"heading\">Heading</h1>") {
		t.Errorf("missing heading with auto id: %q", out)
	}
	if !strings.Contains(out, "<em>emphasis</em>") {
		t.Errorf("missing emphasis: %q", out)
	}
}

func TestRenderGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := Render([]byte(src))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected GFM table, got %q", out)
	}
}

func TestRenderCodeHighlighting(t *testing.T) {
	out, err := Render([]byte("```go\nfunc main() {}\n```"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Highlighted code comes out as a styled pre block, not a bare code fence.
	if !strings.Contains(out, "<pre") {
		t.Errorf("expected highlighted pre block, got %q", out)
	}
}

func TestRenderRawHTMLPassesThrough(t *testing.T) {
	out, err := Render([]byte(`<div class="custom">kept</div>`))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `<div class="custom">kept</div>`) {
		t.Errorf("raw HTML was stripped: %q", out)
	}
}
