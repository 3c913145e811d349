package publish

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrNotHosted is returned when sharing is attempted before a page has
// been hosted.
var ErrNotHosted = errors.New("no hosted url yet: host the page first")

// ShareURL builds the platform-specific share link for a hosted page.
func ShareURL(platform, pageURL, title, description string) (string, error) {
	if pageURL == "" {
		return "", ErrNotHosted
	}

	switch platform {
	case "linkedin":
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(pageURL), nil
	case "x":
		v := url.Values{"url": {pageURL}}
		if title != "" {
			v.Set("text", title)
		}
		return "https://twitter.com/intent/tweet?" + v.Encode(), nil
	case "facebook":
		v := url.Values{"u": {pageURL}}
		if description != "" {
			v.Set("quote", description)
		}
		return "https://www.facebook.com/sharer/sharer.php?" + v.Encode(), nil
	}
	return "", fmt.Errorf("unknown share platform %q", platform)
}

// OpenBrowser opens the URL in the system browser. Failures are
// ignored: the URL is always printed for manual use as well.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
