package publish

import (
	"context"

	"github.com/blogsmith/blogsmith/internal/api"
)

// Uploader is the slice of the backend client hosting needs.
type Uploader interface {
	UploadWebpage(ctx context.Context, userID, topicID, htmlContent string) (string, error)
}

// Page is the material a document is assembled from.
type Page struct {
	Title string
	Body  string
	CSS   string
	OG    OGMeta
}

// Host publishes a page in two phases: upload once to learn the
// canonical URL, then re-upload with that URL embedded as og:url so
// shared links unfurl correctly. The returned URL is the second
// upload's target. If the second phase fails, the first phase's URL is
// returned alongside the error; there is no rollback.
func Host(ctx context.Context, up Uploader, userID, topicID string, page Page) (string, error) {
	og := page.OG
	og.URL = ""
	doc, err := AssembleDocument(page.Title, page.Body, page.CSS, &og)
	if err != nil {
		return "", &api.HostError{Phase: "upload", Err: err}
	}

	first, err := up.UploadWebpage(ctx, userID, topicID, doc)
	if err != nil {
		return "", &api.HostError{Phase: "upload", Err: err}
	}

	og.URL = first
	canonical, err := AssembleDocument(page.Title, page.Body, page.CSS, &og)
	if err != nil {
		return first, &api.HostError{Phase: "canonicalize", Err: err}
	}

	second, err := up.UploadWebpage(ctx, userID, topicID, canonical)
	if err != nil {
		return first, &api.HostError{Phase: "canonicalize", Err: err}
	}
	return second, nil
}
