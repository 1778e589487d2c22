package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ccfrost/camnotion/internal/config"
	"github.com/ccfrost/camnotion/internal/exifmeta"
)

// UploadOptions controls a single UploadPhotos run.
type UploadOptions struct {
	// Dir is the folder to read photos from. Subfolders are not visited.
	Dir string
	// DryRun extracts metadata and prints status lines without any network calls.
	DryRun bool
	// Progress shows a progress bar instead of per-file status lines.
	Progress bool
	// Out receives status lines. Defaults to os.Stdout.
	Out io.Writer
}

// Summary tallies an UploadPhotos run.
type Summary struct {
	Found      int
	Processed  int
	Created    int
	Failed     int
	Unreadable int
}

// UploadPhotos records every photo in opts.Dir as a new page in the configured
// database. If host is nil, pages are created without an image.
//
// Photos are handled one at a time. A photo that cannot be read, a failed
// image upload, or a rejected page is reported and the batch moves on.
// Only configuration problems and context cancellation stop the run.
func UploadPhotos(ctx context.Context, cfg config.CamnotionConfig, opts UploadOptions, db Database, host ImageHost) (Summary, error) {
	if !opts.DryRun {
		if err := cfg.Validate(); err != nil {
			return Summary{}, fmt.Errorf("invalid config: %w", err)
		}
		if db == nil {
			return Summary{}, errors.New("no database client")
		}
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return Summary{}, fmt.Errorf("photo folder not found: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("photo folder %s is not a directory", opts.Dir)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	status := out
	if opts.Progress {
		status = io.Discard
	}

	if !opts.DryRun {
		if host == nil {
			logger.Warn("No image host configured, photos will be recorded without images")
			fmt.Fprintln(out, "IMGBB_API_KEY is not set: only metadata will be recorded, no images.")
		}
		reportDatabaseProperties(ctx, db, cfg.Notion.DatabaseID, out)
	}

	photos, err := listPhotos(opts.Dir, cfg.Photos.Extensions)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Found: len(photos)}
	fmt.Fprintf(out, "\nFound %d photos\n\n", len(photos))

	bar := NewProgressBar(len(photos), "Uploading photos", opts.Progress)
	for i, path := range photos {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		fmt.Fprintf(status, "[%d/%d] %s\n", i+1, len(photos), filepath.Base(path))

		meta, err := exifmeta.Extract(path)
		if err != nil {
			summary.Unreadable++
			logger.Warn("Could not read photo, continuing with filename only",
				slog.String("file", path),
				slog.String("error", err.Error()))
		}
		fmt.Fprintf(status, "  metadata: %s\n", describeMetadata(meta, err))
		for _, fe := range meta.FieldErrors {
			logger.Debug("Skipped unparseable tag",
				slog.String("file", meta.Filename),
				slog.String("field", string(fe.Field)),
				slog.String("error", fe.Err.Error()))
		}

		if !opts.DryRun {
			if uploadPhoto(ctx, cfg, db, host, path, meta, status) {
				summary.Created++
			} else {
				summary.Failed++
			}
		}
		summary.Processed++
		_ = bar.Add(1)
	}
	if opts.Progress {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr) // End the progress bar line.
	}

	fmt.Fprintf(out, "\nDone! %d/%d photos processed (%d created, %d failed).\n",
		summary.Processed, summary.Found, summary.Created, summary.Failed)
	return summary, nil
}

// uploadPhoto publishes the image (when a host is set) and creates its page.
// It reports whether the page was created.
func uploadPhoto(ctx context.Context, cfg config.CamnotionConfig, db Database, host ImageHost, path string, meta exifmeta.PhotoMetadata, status io.Writer) bool {
	var imageURL string
	if host != nil {
		u, err := host.Upload(ctx, path)
		if err != nil {
			logger.Error("Image upload failed, recording without image",
				slog.String("file", path),
				slog.String("error", err.Error()))
			fmt.Fprintf(status, "  image: upload failed: %v\n", err)
		} else {
			imageURL = u
			fmt.Fprintf(status, "  image: %s\n", u)
		}
	}

	props := PageProperties(meta, imageURL, cfg.Notion.Properties)
	page, err := db.CreatePage(ctx, cfg.Notion.DatabaseID, props)
	if err != nil {
		logger.Error("Error creating page, skipping",
			slog.String("file", path),
			slog.String("error", err.Error()))
		fmt.Fprintf(status, "  notion: failed: %v\n", err)
		return false
	}
	logger.Debug("Created page",
		slog.String("file", path),
		slog.String("page_id", page.ID))
	fmt.Fprintln(status, "  notion: added")
	return true
}

func describeMetadata(meta exifmeta.PhotoMetadata, err error) string {
	if err != nil {
		return "unreadable, filename only"
	}
	recovered := meta.Recovered()
	if len(recovered) == 0 {
		if meta.HasExif {
			return "no camera fields, " + meta.Dimensions
		}
		return "no EXIF, " + meta.Dimensions
	}
	fields := make([]string, len(recovered))
	for i, f := range recovered {
		fields[i] = string(f)
	}
	return strings.Join(fields, ", ") + ", " + meta.Dimensions
}

// reportDatabaseProperties prints the database's property names. Failure is
// not fatal: the page creation calls will report any real problem.
func reportDatabaseProperties(ctx context.Context, db Database, databaseID string, out io.Writer) {
	fmt.Fprintln(out, "Checking database connection...")
	result, err := db.QueryDatabase(ctx, databaseID, 1)
	if err != nil {
		logger.Warn("Could not read database properties, continuing",
			slog.String("database_id", databaseID),
			slog.String("error", err.Error()))
		fmt.Fprintln(out, "Could not read database properties, continuing...")
		return
	}
	if len(result.Results) == 0 {
		fmt.Fprintln(out, "Database has no pages yet, property names are unavailable.")
		return
	}
	fmt.Fprintf(out, "Database properties: %s\n", strings.Join(sortedNames(result.Results[0].Properties), ", "))
}

// listPhotos returns the files directly in dir whose extension is one of
// exts (lowercase, with dot), sorted by name.
func listPhotos(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo folder %s: %w", dir, err)
	}

	var photos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			photos = append(photos, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(photos)
	return photos, nil
}
