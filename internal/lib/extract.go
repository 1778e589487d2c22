package lib

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ccfrost/camnotion/internal/exifmeta"
)

// ExtractFiles writes the metadata of each file to out as indented JSON.
// Unreadable files still get their filename-only record; the returned error
// counts them once every file has been handled.
func ExtractFiles(paths []string, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	var unreadable int
	for _, path := range paths {
		meta, err := exifmeta.Extract(path)
		if err != nil {
			unreadable++
			logger.Warn("Could not read photo",
				slog.String("file", path),
				slog.String("error", err.Error()))
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", path, err)
		}
	}
	if unreadable > 0 {
		return fmt.Errorf("%d of %d files could not be read", unreadable, len(paths))
	}
	return nil
}
