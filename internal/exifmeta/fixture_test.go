package exifmeta

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5

	tagImageWidth       = 0x0100
	tagImageLength      = 0x0101
	tagBitsPerSample    = 0x0102
	tagPhotometric      = 0x0106
	tagMake             = 0x010F
	tagModel            = 0x0110
	tagExifIFDPointer   = 0x8769
	tagExposureTime     = 0x829A
	tagFNumber          = 0x829D
	tagISOSpeedRatings  = 0x8827
	tagDateTimeOriginal = 0x9003
	tagFocalLength      = 0x920A
	tagLensModel        = 0xA434
)

var le = binary.LittleEndian

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func shortEntry(tag uint16, v uint16) ifdEntry {
	b := make([]byte, 2)
	le.PutUint16(b, v)
	return ifdEntry{tag: tag, typ: typeShort, count: 1, data: b}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	return ifdEntry{tag: tag, typ: typeLong, count: 1, data: b}
}

func rationalEntry(tag uint16, num, den uint32) ifdEntry {
	b := make([]byte, 8)
	le.PutUint32(b[0:4], num)
	le.PutUint32(b[4:8], den)
	return ifdEntry{tag: tag, typ: typeRational, count: 1, data: b}
}

func ifdLen(entries []ifdEntry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			n += len(e.data) + len(e.data)%2
		}
	}
	return n
}

// writeIFD appends an IFD that starts at offset (relative to the TIFF header),
// followed by the values that do not fit in an entry.
func writeIFD(buf *bytes.Buffer, offset int, entries []ifdEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	dataOff := offset + 2 + 12*len(entries) + 4
	var extra []byte
	_ = binary.Write(buf, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(buf, le, e.tag)
		_ = binary.Write(buf, le, e.typ)
		_ = binary.Write(buf, le, e.count)
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			buf.Write(v)
			continue
		}
		_ = binary.Write(buf, le, uint32(dataOff+len(extra)))
		extra = append(extra, e.data...)
		if len(e.data)%2 == 1 {
			extra = append(extra, 0)
		}
	}
	_ = binary.Write(buf, le, uint32(0))
	buf.Write(extra)
}

// buildTIFF returns a little-endian TIFF block with ifd0 and, when
// exifIFD is non-empty, an Exif sub-IFD linked from ifd0.
func buildTIFF(ifd0, exifIFD []ifdEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString("II*\x00")
	_ = binary.Write(&buf, le, uint32(8))

	dir := append([]ifdEntry(nil), ifd0...)
	if len(exifIFD) == 0 {
		writeIFD(&buf, 8, dir)
		return buf.Bytes()
	}
	dir = append(dir, longEntry(tagExifIFDPointer, 0))
	exifOff := 8 + ifdLen(dir)
	dir[len(dir)-1] = longEntry(tagExifIFDPointer, uint32(exifOff))
	writeIFD(&buf, 8, dir)
	writeIFD(&buf, exifOff, append([]ifdEntry(nil), exifIFD...))
	return buf.Bytes()
}

// jpegWithExif encodes a w x h JPEG and, if tiffBlock is non-nil, splices it
// in as an APP1 Exif segment right after SOI.
func jpegWithExif(t *testing.T, w, h int, tiffBlock []byte) []byte {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, jpeg.Encode(&img, image.NewGray(image.Rect(0, 0, w, h)), nil))
	raw := img.Bytes()
	if tiffBlock == nil {
		return raw
	}

	payload := append([]byte("Exif\x00\x00"), tiffBlock...)
	length := len(payload) + 2
	require.LessOrEqual(t, length, 0xFFFF, "exif payload too large")

	out := append([]byte{}, raw[:2]...)
	out = append(out, 0xFF, 0xE1, byte(length>>8), byte(length))
	out = append(out, payload...)
	out = append(out, raw[2:]...)
	return out
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// pngWithExif encodes a w x h PNG with tiffBlock stored in an eXIf chunk
// right after IHDR.
func pngWithExif(t *testing.T, w, h int, tiffBlock []byte) []byte {
	t.Helper()
	raw := pngBytes(t, w, h)
	const ihdrEnd = 8 + 8 + 13 + 4 // signature, header, IHDR data, CRC
	require.Equal(t, "IHDR", string(raw[12:16]))

	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(tiffBlock)))
	chunk.WriteString("eXIf")
	chunk.Write(tiffBlock)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(chunk.Bytes()[4:]))

	out := append([]byte{}, raw[:ihdrEnd]...)
	out = append(out, chunk.Bytes()...)
	return append(out, raw[ihdrEnd:]...)
}

// tiffWithExif returns a w x h 8-bit grayscale TIFF header whose IFD0 also
// carries ifd0 and links exifIFD. There is no strip data: only the header
// is ever decoded.
func tiffWithExif(w, h uint16, ifd0, exifIFD []ifdEntry) []byte {
	dir := []ifdEntry{
		shortEntry(tagImageWidth, w),
		shortEntry(tagImageLength, h),
		shortEntry(tagBitsPerSample, 8),
		shortEntry(tagPhotometric, 1),
	}
	return buildTIFF(append(dir, ifd0...), exifIFD)
}

func tiffBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func fullIFD0() []ifdEntry {
	return []ifdEntry{
		asciiEntry(tagMake, "Canon"),
		asciiEntry(tagModel, "Canon EOS R6"),
	}
}

func fullExifIFD() []ifdEntry {
	return []ifdEntry{
		asciiEntry(tagDateTimeOriginal, "2024:03:15 14:30:00"),
		rationalEntry(tagFNumber, 28, 10),
		rationalEntry(tagExposureTime, 1, 200),
		shortEntry(tagISOSpeedRatings, 400),
		rationalEntry(tagFocalLength, 503, 10),
		asciiEntry(tagLensModel, "RF50mm F1.8 STM"),
	}
}

// fullExif is a complete set of the tags the extractor reads.
func fullExif() []byte {
	return buildTIFF(fullIFD0(), fullExifIFD())
}
