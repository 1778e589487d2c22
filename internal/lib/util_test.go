package lib

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccfrost/camnotion/internal/config"
	"github.com/stretchr/testify/require"
)

const testDatabaseID = "db-123"

func newTestConfig(t *testing.T) config.CamnotionConfig {
	t.Helper()

	return config.CamnotionConfig{
		Notion: config.NotionConfig{
			Token:      "test-token",
			DatabaseID: testDatabaseID,
			Properties: config.PropertyNames{
				Title:        "Title",
				Image:        "Image",
				Camera:       "Camera",
				Aperture:     "Aperture",
				ShutterSpeed: "ShutterSpeed",
				ISO:          "ISO",
				FocalLength:  "FocalLength",
			},
		},
		Photos: config.PhotosConfig{
			Extensions: []string{".jpg", ".jpeg", ".png", ".tiff", ".tif"},
		},
	}
}

// newPhotoDir creates a folder holding:
//   - a_shot.PNG: a 6x4 PNG without EXIF
//   - b_plain.jpg: a 4x3 JPEG without EXIF
//   - c_corrupt.jpg: bytes that do not decode
//
// plus a text file and a nested photo, neither of which should be picked up.
func newPhotoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 6, 4))))
	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, image.NewGray(image.Rect(0, 0, 4, 3)), nil))

	files := map[string][]byte{
		"a_shot.PNG":        pngBuf.Bytes(),
		"b_plain.jpg":       jpegBuf.Bytes(),
		"c_corrupt.jpg":     []byte("not an image"),
		"notes.txt":         []byte("shoot notes"),
		"nested/d_deep.jpg": jpegBuf.Bytes(),
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, data, 0644))
	}
	return dir
}
