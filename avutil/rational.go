//go:build !ios && !android && (amd64 || arm64)

package avutil

import "strconv"

// Rational is AVRational. Mastering-display primaries and luminance, and
// region-of-interest quantiser offsets, are carried as rationals.
type Rational struct {
	Num int32
	Den int32
}

// sizeRational is sizeof(AVRational).
const sizeRational = 8

// NewRational returns num/den.
func NewRational(num, den int32) Rational {
	return Rational{Num: num, Den: den}
}

// Float64 returns the value of r, or 0 when the denominator is 0 (FFmpeg
// uses 0/0 for "unset" in mastering metadata).
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String formats r as "num/den".
func (r Rational) String() string {
	return strconv.Itoa(int(r.Num)) + "/" + strconv.Itoa(int(r.Den))
}

// MarshalText keeps reports exact: "34000/50000" rather than 0.68.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func rationalAt(b []byte, off int) Rational {
	return Rational{Num: int32(ne.Uint32(b[off:])), Den: int32(ne.Uint32(b[off+4:]))}
}
