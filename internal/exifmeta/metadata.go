// Package exifmeta extracts human-readable camera and exposure metadata from
// the EXIF block embedded in JPEG, PNG and TIFF files.
package exifmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Field names a PhotoMetadata field. The values match the JSON keys.
type Field string

const (
	FieldFilename     Field = "filename"
	FieldCameraMaker  Field = "camera_maker"
	FieldCameraModel  Field = "camera_model"
	FieldLensModel    Field = "lens_model"
	FieldDateTaken    Field = "date_taken"
	FieldAperture     Field = "aperture"
	FieldShutterSpeed Field = "shutter_speed"
	FieldISO          Field = "iso"
	FieldFocalLength  Field = "focal_length"
	FieldDimensions   Field = "dimensions"
)

var (
	// ErrFileRead is matched by the error Extract returns when the file
	// cannot be read or its raster header cannot be decoded.
	ErrFileRead = errors.New("file read failure")

	ErrZeroDenominator  = errors.New("rational has zero denominator")
	ErrBadTimestamp     = errors.New("malformed capture timestamp")
	ErrUnsupportedValue = errors.New("unsupported tag value")
	ErrEmptyValue       = errors.New("tag has no value")
)

// PhotoMetadata is the metadata recovered from a single image file.
// Optional fields are empty when their tag is absent or could not be parsed.
type PhotoMetadata struct {
	Filename     string `json:"filename"`
	CameraMaker  string `json:"camera_maker,omitempty"`
	CameraModel  string `json:"camera_model,omitempty"`
	LensModel    string `json:"lens_model,omitempty"`
	DateTaken    string `json:"date_taken,omitempty"`
	Aperture     string `json:"aperture,omitempty"`
	ShutterSpeed string `json:"shutter_speed,omitempty"`
	ISO          string `json:"iso,omitempty"`
	FocalLength  string `json:"focal_length,omitempty"`
	Dimensions   string `json:"dimensions,omitempty"`

	// HasExif reports whether an EXIF block was found and decoded.
	HasExif bool `json:"-"`
	// FieldErrors holds the tags that were present but could not be parsed.
	FieldErrors []FieldError `json:"-"`
	// Blank holds the camera and lens fields whose tag was present but empty.
	// They are written to JSON as "".
	Blank []Field `json:"-"`
}

// MarshalJSON omits unset fields but keeps blank ones.
func (m PhotoMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Filename     string  `json:"filename"`
		CameraMaker  *string `json:"camera_maker,omitempty"`
		CameraModel  *string `json:"camera_model,omitempty"`
		LensModel    *string `json:"lens_model,omitempty"`
		DateTaken    string  `json:"date_taken,omitempty"`
		Aperture     string  `json:"aperture,omitempty"`
		ShutterSpeed string  `json:"shutter_speed,omitempty"`
		ISO          string  `json:"iso,omitempty"`
		FocalLength  string  `json:"focal_length,omitempty"`
		Dimensions   string  `json:"dimensions,omitempty"`
	}{
		Filename:     m.Filename,
		CameraMaker:  m.jsonValue(FieldCameraMaker),
		CameraModel:  m.jsonValue(FieldCameraModel),
		LensModel:    m.jsonValue(FieldLensModel),
		DateTaken:    m.DateTaken,
		Aperture:     m.Aperture,
		ShutterSpeed: m.ShutterSpeed,
		ISO:          m.ISO,
		FocalLength:  m.FocalLength,
		Dimensions:   m.Dimensions,
	})
}

func (m PhotoMetadata) jsonValue(f Field) *string {
	if !m.Present(f) {
		return nil
	}
	v := m.Get(f)
	return &v
}

// FieldError records why a present tag was left out of the record.
type FieldError struct {
	Field Field
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// Get returns the value of f, or "" when it is unset or blank.
func (m PhotoMetadata) Get(f Field) string {
	switch f {
	case FieldFilename:
		return m.Filename
	case FieldCameraMaker:
		return m.CameraMaker
	case FieldCameraModel:
		return m.CameraModel
	case FieldLensModel:
		return m.LensModel
	case FieldDateTaken:
		return m.DateTaken
	case FieldAperture:
		return m.Aperture
	case FieldShutterSpeed:
		return m.ShutterSpeed
	case FieldISO:
		return m.ISO
	case FieldFocalLength:
		return m.FocalLength
	case FieldDimensions:
		return m.Dimensions
	}
	return ""
}

func (m *PhotoMetadata) set(f Field, v string) {
	switch f {
	case FieldCameraMaker:
		m.CameraMaker = v
	case FieldCameraModel:
		m.CameraModel = v
	case FieldLensModel:
		m.LensModel = v
	case FieldDateTaken:
		m.DateTaken = v
	case FieldAperture:
		m.Aperture = v
	case FieldShutterSpeed:
		m.ShutterSpeed = v
	case FieldISO:
		m.ISO = v
	case FieldFocalLength:
		m.FocalLength = v
	}
}

// Present reports whether f has a value or was found blank.
func (m PhotoMetadata) Present(f Field) bool {
	return m.Get(f) != "" || slices.Contains(m.Blank, f)
}

func (m *PhotoMetadata) markBlank(f Field) {
	if !slices.Contains(m.Blank, f) {
		m.Blank = append(m.Blank, f)
	}
}

// Recovered lists the EXIF-derived fields that are present, in table order.
func (m PhotoMetadata) Recovered() []Field {
	var fields []Field
	for _, t := range tagTable {
		if m.Present(t.field) {
			fields = append(fields, t.field)
		}
	}
	return fields
}

// FieldErr returns the parse error recorded for f, or nil.
func (m PhotoMetadata) FieldErr(f Field) error {
	for _, fe := range m.FieldErrors {
		if fe.Field == f {
			return fe.Err
		}
	}
	return nil
}
