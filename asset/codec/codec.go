// Package codec packs 32-bit range integers into 4-byte quads that can be
// uploaded as RGBA8 texels and unpacked again inside a shader.
//
// Unsigned values are stored as a big-endian base-256 magnitude. Signed
// values reuse the top byte for the sign: a top byte of 255 means "negative,
// top magnitude byte 0" and a top byte in (127, 255) means "negative, top
// magnitude byte = top byte - 127". Magnitudes saturate at MaxInt.
//
// Fractional values are stored in fixed point: callers scale by FixedScale
// before encoding and divide after decoding (see ToFixed / FromFixed).
package codec

import "math"

const (
	// The largest magnitude representable by a signed quad.
	MaxInt int64 = 2147483647

	// The smallest value representable by a signed quad.
	MinInt int64 = -MaxInt

	// The largest value representable by an unsigned quad.
	MaxUint int64 = 1<<32 - 1

	// The multiplier applied to fractional values before encoding.
	FixedScale = 10000

	// The number of bytes in an encoded quad.
	Size = 4

	negativeZeroTop = 255
	signBias        = 127
)

// Encode a value into a 4-byte quad. Values outside the representable range
// saturate to the nearest bound.
func Encode(value int64, unsigned bool) [Size]byte {
	var out [Size]byte
	Put(out[:], value, unsigned)
	return out
}

// Decode a 4-byte quad produced by Encode.
func Decode(b [Size]byte, unsigned bool) int64 {
	return Get(b[:], unsigned)
}

// Put encodes value into the first 4 bytes of dst.
func Put(dst []byte, value int64, unsigned bool) {
	_ = dst[3]

	var magnitude int64
	negative := false
	switch {
	case unsigned:
		magnitude = clamp(value, 0, MaxUint)
	case value < 0:
		negative = true
		magnitude = MaxInt
		if value > MinInt {
			magnitude = -value
		}
	default:
		magnitude = clamp(value, 0, MaxInt)
	}

	top := byte(magnitude >> 24)
	if negative {
		if top == 0 {
			top = negativeZeroTop
		} else {
			top += signBias
		}
	}

	dst[0] = top
	dst[1] = byte(magnitude >> 16)
	dst[2] = byte(magnitude >> 8)
	dst[3] = byte(magnitude)
}

// Get decodes the quad stored in the first 4 bytes of src.
func Get(src []byte, unsigned bool) int64 {
	_ = src[3]

	top := int64(src[0])
	low := int64(src[1])<<16 | int64(src[2])<<8 | int64(src[3])
	if unsigned {
		return top<<24 | low
	}

	switch {
	case top == negativeZeroTop:
		return -low
	case top > signBias:
		return -((top-signBias)<<24 | low)
	}
	return top<<24 | low
}

// ToFixed scales f by FixedScale and rounds it to the nearest integer,
// saturating to the signed quad range. NaN maps to zero.
func ToFixed(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}

	scaled := math.Round(f * FixedScale)
	if scaled >= float64(MaxInt) {
		return MaxInt
	} else if scaled <= float64(MinInt) {
		return MinInt
	}
	return int64(scaled)
}

// FromFixed converts a fixed-point integer back to a float.
func FromFixed(v int64) float64 {
	return float64(v) / FixedScale
}

func clamp(v, min, max int64) int64 {
	if v < min {
		return min
	} else if v > max {
		return max
	}
	return v
}
