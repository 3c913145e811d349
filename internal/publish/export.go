package publish

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// ExportLocal writes the assembled document to a local file.
func ExportLocal(path, doc string) error {
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	return nil
}

// DefaultExportName builds a collision-resistant filename for an export.
func DefaultExportName(topicID string) string {
	if topicID == "" {
		topicID = "page"
	}
	return fmt.Sprintf("blog-%s-%s.html", topicID, uuid.NewString()[:8])
}
