package exifmeta

import (
	"fmt"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

const (
	exifTimeLayout   = "2006:01:02 15:04:05"
	outputTimeLayout = "2006-01-02T15:04:05"
)

// formatter renders a decoded tag value for one field.
// An empty result with a nil error means the field stays unset.
type formatter func(Value) (string, error)

// tagTable maps the EXIF tags we read to record fields. Fields marked
// keepEmpty are reported as "" when their tag is present without a value.
var tagTable = []struct {
	tag       exif.FieldName
	field     Field
	format    formatter
	keepEmpty bool
}{
	{exif.Make, FieldCameraMaker, formatVerbatim, true},
	{exif.Model, FieldCameraModel, formatVerbatim, true},
	{exif.LensModel, FieldLensModel, formatVerbatim, true},
	{exif.DateTimeOriginal, FieldDateTaken, formatDateTaken, false},
	{exif.FNumber, FieldAperture, formatAperture, false},
	{exif.ExposureTime, FieldShutterSpeed, formatShutterSpeed, false},
	{exif.ISOSpeedRatings, FieldISO, formatVerbatim, false},
	{exif.FocalLength, FieldFocalLength, formatFocalLength, false},
}

func formatVerbatim(v Value) (string, error) {
	return v.String(), nil
}

func formatDateTaken(v Value) (string, error) {
	s, ok := v.(Text)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	t, err := time.Parse(exifTimeLayout, string(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadTimestamp, string(s))
	}
	return t.Format(outputTimeLayout), nil
}

// formatAperture renders an F-number as f/<n>. Rationals are rounded to one
// decimal with %.1f, which rounds to nearest with ties to even on the
// binary value.
func formatAperture(v Value) (string, error) {
	switch v := v.(type) {
	case Rational:
		if v.Den == 0 {
			return "", ErrZeroDenominator
		}
		return fmt.Sprintf("f/%.1f", float64(v.Num)/float64(v.Den)), nil
	case Integer, Text:
		if v.String() == "" {
			return "", nil
		}
		return "f/" + v.String(), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func formatShutterSpeed(v Value) (string, error) {
	switch v := v.(type) {
	case Rational:
		if v.Den == 0 {
			return "", ErrZeroDenominator
		}
		if v.Num == 1 {
			return fmt.Sprintf("1/%d", v.Den), nil
		}
		return fmt.Sprintf("%d/%d", v.Num, v.Den), nil
	case Integer, Text:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// formatFocalLength renders whole millimetres, truncating toward zero.
func formatFocalLength(v Value) (string, error) {
	switch v := v.(type) {
	case Rational:
		if v.Den == 0 {
			return "", ErrZeroDenominator
		}
		return fmt.Sprintf("%dmm", v.Num/v.Den), nil
	case Integer, Text:
		if v.String() == "" {
			return "", nil
		}
		return v.String() + "mm", nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}
