package exifmeta

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/rwcarlsen/goexif/tiff"
)

// Value is a decoded EXIF tag value: one of Rational, Integer or Text.
type Value interface {
	fmt.Stringer
	isValue()
}

// Rational is a numerator/denominator pair as stored by EXIF.
type Rational struct {
	Num, Den int64
}

// Integer is a plain integral value (BYTE, SHORT, LONG and their signed forms).
type Integer int64

// Text is an ASCII value, or any other value rendered as text.
type Text string

func (Rational) isValue() {}
func (Integer) isValue()  {}
func (Text) isValue()     {}

func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (t Text) String() string {
	return string(t)
}

// valueOf converts the first element of a tag into a Value.
func valueOf(tag *tiff.Tag) (Value, error) {
	if tag == nil || tag.Count == 0 {
		return nil, ErrEmptyValue
	}
	switch tag.Format() {
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil {
			return nil, err
		}
		return Rational{Num: num, Den: den}, nil
	case tiff.IntVal:
		v, err := tag.Int64(0)
		if err != nil {
			return nil, err
		}
		return Integer(v), nil
	case tiff.FloatVal:
		v, err := tag.Float(0)
		if err != nil {
			return nil, err
		}
		return Text(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, err
		}
		return Text(s), nil
	case tiff.UndefVal:
		// Some cameras write ASCII-ish data with the UNDEFINED type.
		return Text(bytes.TrimRight(tag.Val, "\x00")), nil
	}
	return nil, fmt.Errorf("%w: tiff type %d", ErrUnsupportedValue, tag.Type)
}
