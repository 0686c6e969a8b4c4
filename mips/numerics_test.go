package mips

import (
	"math"
	"testing"
)

func TestOverflowDetectWraps(t *testing.T) {
	assert(t, overflowDetect(0x100000000) == 0, "expected wraparound to 0, got %d", overflowDetect(0x100000000))
	assert(t, overflowDetect(-1) == -1, "expected -1 to round-trip, got %d", overflowDetect(-1))
	assert(t, overflowDetect(0xFFFFFFFF) == -1, "expected 0xFFFFFFFF to wrap to -1, got %d", overflowDetect(0xFFFFFFFF))
}

func TestAddOverflows(t *testing.T) {
	assert(t, addOverflows(math.MaxInt32, 1), "expected overflow on MaxInt32+1")
	assert(t, !addOverflows(1, 1), "expected no overflow on 1+1")
	assert(t, addOverflows(math.MinInt32, -1), "expected overflow on MinInt32-1")
}

func TestSubOverflows(t *testing.T) {
	assert(t, subOverflows(math.MinInt32, 1), "expected overflow on MinInt32-1")
	assert(t, !subOverflows(5, 3), "expected no overflow on 5-3")
}

func TestSignExtend16(t *testing.T) {
	assert(t, signExtend16(0xFFFF) == -1, "expected -1, got %d", signExtend16(0xFFFF))
	assert(t, signExtend16(0x7FFF) == 32767, "expected 32767, got %d", signExtend16(0x7FFF))
	assert(t, signExtend16(0x8000) == -32768, "expected -32768, got %d", signExtend16(0x8000))
}

func TestFormatHex32(t *testing.T) {
	assert(t, formatHex32(-1) == "0xffffffff", "got %s", formatHex32(-1))
	assert(t, formatHex32(255) == "0x000000ff", "got %s", formatHex32(255))
}

func TestFloatBitsRoundTrip(t *testing.T) {
	f := float32(3.25)
	bits := float32Bits(f)
	assert(t, bitsToFloat32(bits) == f, "expected round trip to preserve %v, got %v", f, bitsToFloat32(bits))

	d := 12345.6789
	dbits := float64Bits(d)
	assert(t, bitsToFloat64(dbits) == d, "expected round trip to preserve %v, got %v", d, bitsToFloat64(dbits))
}

func TestClampFloat32(t *testing.T) {
	assert(t, clampFloat32(1e-45) == 0, "expected subnormal flush to zero")
	got := clampFloat32(1e50)
	assert(t, math.IsInf(float64(got), 1), "expected overflow to +Inf, got %v", got)
	got = clampFloat32(-1e50)
	assert(t, math.IsInf(float64(got), -1), "expected overflow to -Inf, got %v", got)
	assert(t, clampFloat32(2.5) == 2.5, "expected in-range value preserved, got %v", clampFloat32(2.5))
}

func TestHandleEscapes(t *testing.T) {
	assert(t, handleEscapes(`a\nb`) == "a\nb", "expected newline escape")
	assert(t, handleEscapes(`a\tb`) == "a\tb", "expected tab escape")
	assert(t, handleEscapes(`a\\b`) == `a\b`, "expected backslash escape")
	assert(t, handleEscapes(`a\"b`) == `a"b`, "expected quote escape")
}

func TestIsPrintable(t *testing.T) {
	assert(t, isPrintable('a'), "expected 'a' printable")
	assert(t, isPrintable(9), "expected tab printable")
	assert(t, isPrintable(10), "expected newline printable")
	assert(t, isPrintable(13), "expected carriage return printable")
	assert(t, !isPrintable(1), "expected control byte 1 not printable")
	assert(t, !isPrintable(127), "expected DEL not printable")
}

func TestAlignUp(t *testing.T) {
	assert(t, alignUp(0, 4) == 0, "expected 0 to stay aligned")
	assert(t, alignUp(1, 4) == 4, "expected 1 to round up to 4")
	assert(t, alignUp(5, 8) == 8, "expected 5 to round up to 8")
	assert(t, alignUp(8, 8) == 8, "expected 8 to stay aligned")
}
