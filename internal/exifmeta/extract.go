package exifmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"
)

// Extract reads the image at path and returns its metadata.
//
// A file without an EXIF block yields a record with only the filename and
// dimensions. If the file cannot be read or decoded, the returned record
// carries only the filename and the error matches ErrFileRead.
func Extract(path string) (PhotoMetadata, error) {
	meta := PhotoMetadata{Filename: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("%w: %s: %w", ErrFileRead, meta.Filename, err)
	}
	return extractBytes(meta, data)
}

func extractBytes(meta PhotoMetadata, data []byte) (PhotoMetadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return meta, fmt.Errorf("%w: %s: %w", ErrFileRead, meta.Filename, err)
	}
	meta.Dimensions = fmt.Sprintf("%d x %d", cfg.Width, cfg.Height)

	block := data
	if format == "png" {
		if block = pngExif(data); block == nil {
			return meta, nil
		}
	}
	// Decode may return usable tags alongside a non-critical error, so only
	// a nil result is treated as a missing block.
	x, _ := exif.Decode(bytes.NewReader(block))
	if x == nil {
		return meta, nil
	}
	meta.HasExif = true

	for _, t := range tagTable {
		tag, err := x.Get(t.tag)
		if err != nil {
			continue
		}
		v, err := valueOf(tag)
		if errors.Is(err, ErrEmptyValue) && t.keepEmpty {
			meta.markBlank(t.field)
			continue
		}
		if err != nil {
			meta.FieldErrors = append(meta.FieldErrors, FieldError{Field: t.field, Err: err})
			continue
		}
		s, err := t.format(v)
		if err != nil {
			meta.FieldErrors = append(meta.FieldErrors, FieldError{Field: t.field, Err: err})
			continue
		}
		if s == "" {
			if t.keepEmpty {
				meta.markBlank(t.field)
			}
			continue
		}
		meta.set(t.field, s)
	}
	return meta, nil
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngExif returns the payload of the eXIf chunk, a bare TIFF block, or nil
// when the file has none. Chunk CRCs are not checked.
func pngExif(data []byte) []byte {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	for p := len(pngSignature); p+8 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[p:]))
		typ := string(data[p+4 : p+8])
		start := p + 8
		if n < 0 || start+n > len(data) {
			return nil
		}
		switch typ {
		case "eXIf":
			// Some writers keep the JPEG APP1 prefix.
			return bytes.TrimPrefix(data[start:start+n], []byte("Exif\x00\x00"))
		case "IEND":
			return nil
		}
		p = start + n + 4
	}
	return nil
}
