package publish

import (
	"errors"
	"strings"
	"testing"
)

func TestShareURL(t *testing.T) {
	page := "https://pages.example.com/u/t.html"

	cases := []struct {
		platform string
		want     string
	}{
		{"linkedin", "https://www.linkedin.com/sharing/share-offsite/"},
		{"x", "https://twitter.com/intent/tweet"},
		{"facebook", "https://www.facebook.com/sharer/sharer.php"},
	}
	for _, tc := range cases {
		got, err := ShareURL(tc.platform, page, "Title", "")
		if err != nil {
			t.Fatalf("ShareURL(%s): %v", tc.platform, err)
		}
		if !strings.HasPrefix(got, tc.want) {
			t.Errorf("%s: got %q, want prefix %q", tc.platform, got, tc.want)
		}
		if !strings.Contains(got, "pages.example.com") {
			t.Errorf("%s: page url missing from %q", tc.platform, got)
		}
	}
}

func TestShareURLEscapesPage(t *testing.T) {
	got, err := ShareURL("linkedin", "https://h/p?a=1&b=2", "", "")
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if strings.Contains(got, "a=1&b=2") {
		t.Errorf("page url not escaped: %q", got)
	}
}

func TestShareURLNotHosted(t *testing.T) {
	if _, err := ShareURL("linkedin", "", "T", ""); !errors.Is(err, ErrNotHosted) {
		t.Fatalf("expected ErrNotHosted, got %v", err)
	}
}

func TestShareURLUnknownPlatform(t *testing.T) {
	if _, err := ShareURL("myspace", "https://h/p", "", ""); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}
