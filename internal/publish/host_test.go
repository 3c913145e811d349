package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/blogsmith/blogsmith/internal/api"
)

type fakeUploader struct {
	uploads []string // documents received, in order
	fail    int      // 1-based index of the upload that should fail, 0 for none
	urls    []string
}

func (f *fakeUploader) UploadWebpage(ctx context.Context, userID, topicID, htmlContent string) (string, error) {
	f.uploads = append(f.uploads, htmlContent)
	n := len(f.uploads)
	if f.fail == n {
		return "", fmt.Errorf("upload %d failed", n)
	}
	url := fmt.Sprintf("https://pages.example.com/%s/%s-%d.html", userID, topicID, n)
	f.urls = append(f.urls, url)
	return url, nil
}

func TestHostTwoPhases(t *testing.T) {
	up := &fakeUploader{}
	page := Page{Title: "My Post", Body: "<p>x</p>"}

	url, err := Host(context.Background(), up, "u-1", "t-1", page)
	if err != nil {
		t.Fatalf("Host: %v", err)
	}
	if len(up.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(up.uploads))
	}

	// The returned URL is the second upload's target.
	if url != up.urls[1] {
		t.Errorf("got %q, want second upload url %q", url, up.urls[1])
	}

	// First upload carries no og:url; the second embeds the first's URL.
	if strings.Contains(up.uploads[0], "og:url") {
		t.Error("first upload must not carry og:url")
	}
	if !strings.Contains(up.uploads[1], `content="`+up.urls[0]+`"`) {
		t.Errorf("second upload must embed the first URL as og:url:\n%s", up.uploads[1])
	}
}

func TestHostFirstPhaseFailure(t *testing.T) {
	up := &fakeUploader{fail: 1}

	url, err := Host(context.Background(), up, "u-1", "t-1", Page{Title: "T", Body: "<p>x</p>"})
	if url != "" {
		t.Errorf("expected no url, got %q", url)
	}
	var hostErr *api.HostError
	if !errors.As(err, &hostErr) {
		t.Fatalf("expected HostError, got %T: %v", err, err)
	}
	if hostErr.Phase != "upload" {
		t.Errorf("phase: got %q", hostErr.Phase)
	}
}

func TestHostSecondPhaseFailureKeepsFirstURL(t *testing.T) {
	up := &fakeUploader{fail: 2}

	url, err := Host(context.Background(), up, "u-1", "t-1", Page{Title: "T", Body: "<p>x</p>"})
	var hostErr *api.HostError
	if !errors.As(err, &hostErr) {
		t.Fatalf("expected HostError, got %T: %v", err, err)
	}
	if hostErr.Phase != "canonicalize" {
		t.Errorf("phase: got %q", hostErr.Phase)
	}
	// The page is live at the first URL even though canonicalization failed.
	if url != up.urls[0] {
		t.Errorf("got %q, want first upload url %q", url, up.urls[0])
	}
}
