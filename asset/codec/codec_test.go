package codec

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	specs := []int64{
		0, 1, -1, 127, -127, 128, -128, 255, -255, 256, -256,
		65535, -65536, 1 << 24, -(1 << 24), 1<<24 - 1, -(1<<24 - 1),
		16777216 * 100, -16777216 * 100, 123456789, -123456789,
		MaxInt, MinInt, MaxInt - 1, MinInt + 1,
	}

	for _, v := range specs {
		if got := Decode(Encode(v, false), false); got != v {
			t.Fatalf("expected decode(encode(%d)) to be %d; got %d", v, v, got)
		}
	}
}

func TestRoundTripSweep(t *testing.T) {
	// Walk the signed range with a prime stride to exercise every top byte.
	for v := MinInt; v <= MaxInt; v += 7919 * 257 {
		if got := Decode(Encode(v, false), false); got != v {
			t.Fatalf("expected decode(encode(%d)) to be %d; got %d", v, v, got)
		}
	}
}

func TestSaturation(t *testing.T) {
	specs := []struct {
		in  int64
		out int64
	}{
		{MaxInt + 1, MaxInt},
		{MaxInt + 1000000, MaxInt},
		{math.MaxInt64, MaxInt},
		{MinInt - 1, MinInt},
		{MinInt - 1000000, MinInt},
		{math.MinInt64, MinInt},
	}

	for idx, s := range specs {
		if got := Decode(Encode(s.in, false), false); got != s.out {
			t.Fatalf("[spec %d] expected %d to saturate to %d; got %d", idx, s.in, s.out, got)
		}
	}
}

func TestSignedLayout(t *testing.T) {
	specs := []struct {
		in  int64
		out [Size]byte
	}{
		{1, [Size]byte{0, 0, 0, 1}},
		{-1, [Size]byte{255, 0, 0, 1}},
		{MaxInt, [Size]byte{127, 255, 255, 255}},
		{MinInt, [Size]byte{254, 255, 255, 255}},
		{-(1 << 24), [Size]byte{128, 0, 0, 0}},
	}

	for idx, s := range specs {
		if got := Encode(s.in, false); got != s.out {
			t.Fatalf("[spec %d] expected %d to encode to %v; got %v", idx, s.in, s.out, got)
		}
	}
}

func TestUnsigned(t *testing.T) {
	specs := []struct {
		in  int64
		out int64
	}{
		{0, 0},
		{200, 200},
		{1 << 31, 1 << 31},
		{MaxUint, MaxUint},
		{MaxUint + 1, MaxUint},
		{-5, 0},
	}

	for idx, s := range specs {
		if got := Decode(Encode(s.in, true), true); got != s.out {
			t.Fatalf("[spec %d] expected unsigned round trip of %d to be %d; got %d", idx, s.in, s.out, got)
		}
	}

	if got := Encode(1<<31, true); got != [Size]byte{128, 0, 0, 0} {
		t.Fatalf("expected unsigned 2^31 to encode as big-endian magnitude; got %v", got)
	}
}

func TestFixedPoint(t *testing.T) {
	specs := []struct {
		in  float64
		out int64
	}{
		{0, 0},
		{1, 10000},
		{-1, -10000},
		{0.5773, 5773},
		{-0.00004, 0},
		{1e9, MaxInt},
		{-1e9, MinInt},
		{math.Inf(1), MaxInt},
		{math.Inf(-1), MinInt},
		{math.NaN(), 0},
	}

	for idx, s := range specs {
		if got := ToFixed(s.in); got != s.out {
			t.Fatalf("[spec %d] expected ToFixed(%v) to be %d; got %d", idx, s.in, s.out, got)
		}
	}

	if got := FromFixed(ToFixed(-1.25)); got != -1.25 {
		t.Fatalf("expected fixed point round trip of -1.25 to be exact; got %v", got)
	}
}
