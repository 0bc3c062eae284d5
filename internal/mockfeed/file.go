package mockfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/feedback/pkg/logger"
)

// WriteFile saves records as an indented JSON array. An empty filename
// picks a timestamped one; the chosen name is returned.
func WriteFile(ctx context.Context, filename string, records []Record) (string, error) {
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "responses_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal responses: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "saved responses to file",
		logger.String("filename", filename),
		logger.Int("count", len(records)),
	)
	return filename, nil
}
