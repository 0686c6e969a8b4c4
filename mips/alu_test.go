package mips

import (
	"math"
	"testing"
)

func TestAluBinaryArithmetic(t *testing.T) {
	v, err := aluBinary("add", 2, 3)
	assert(t, err == nil && v == 5, "expected 5, got %d err %v", v, err)

	_, err = aluBinary("add", int32(math.MaxInt32), 1)
	assert(t, err != nil, "expected overflow error")
}

func TestAluBinaryLogic(t *testing.T) {
	v, _ := aluBinary("and", 0xF0, 0x0F)
	assert(t, v == 0, "expected 0, got %d", v)
	v, _ = aluBinary("or", 0xF0, 0x0F)
	assert(t, v == 0xFF, "expected 0xFF, got %d", v)
	v, _ = aluBinary("nor", 0, 0)
	assert(t, v == -1, "expected -1, got %d", v)
}

func TestAluBinarySlt(t *testing.T) {
	v, _ := aluBinary("slt", -1, 1)
	assert(t, v == 1, "expected 1, got %d", v)
	v, _ = aluBinary("sltu", -1, 1)
	assert(t, v == 0, "expected 0 (unsigned -1 is huge), got %d", v)
}

func TestAluBinaryShifts(t *testing.T) {
	v, _ := aluBinary("sll", 1, 4)
	assert(t, v == 16, "expected 16, got %d", v)
	v, _ = aluBinary("srl", -1, 28)
	assert(t, v == 0xF, "expected 0xF, got %d", v)
	v, _ = aluBinary("sra", -16, 2)
	assert(t, v == -4, "expected -4, got %d", v)
}

func TestAluUnaryCloClz(t *testing.T) {
	v, _ := aluUnary("clz", 0)
	assert(t, v == 32, "expected 32, got %d", v)
	v, _ = aluUnary("clo", -1)
	assert(t, v == 32, "expected 32, got %d", v)
	v, _ = aluUnary("clz", 1)
	assert(t, v == 31, "expected 31, got %d", v)
}

func TestMul64Signed(t *testing.T) {
	hi, lo := mul64(-1, -1, true)
	assert(t, hi == 0 && lo == 1, "expected (-1)*(-1)=1, got hi=%d lo=%d", hi, lo)
}

func TestMul64Unsigned(t *testing.T) {
	hi, lo := mul64(-1, 2, false)
	assert(t, hi == 1 && lo == -2, "expected hi=1 lo=-2, got hi=%d lo=%d", hi, lo)
}

func TestDiv32Signed(t *testing.T) {
	q, r := div32(7, 2, true)
	assert(t, q == 3 && r == 1, "expected q=3 r=1, got q=%d r=%d", q, r)
	q, r = div32(-7, 2, true)
	assert(t, q == -3 && r == -1, "expected q=-3 r=-1, got q=%d r=%d", q, r)
}

func TestBranchTaken(t *testing.T) {
	assert(t, branchTaken("beq", 5, 5), "expected beq taken")
	assert(t, !branchTaken("beq", 5, 6), "expected beq not taken")
	assert(t, branchTaken("bltz", -1, 0), "expected bltz taken")
	assert(t, !branchTaken("bgtz", 0, 0), "expected bgtz not taken")
}

func TestFpBinaryOp(t *testing.T) {
	v, err := fpBinaryOp("add.s", 1.5, 2.5)
	assert(t, err == nil && v == 4, "expected 4, got %v err %v", v, err)
	v, _ = fpBinaryOp("div.d", 10, 4)
	assert(t, v == 2.5, "expected 2.5, got %v", v)
}

func TestFpUnaryOp(t *testing.T) {
	v, _ := fpUnaryOp("abs.s", -3.5)
	assert(t, v == 3.5, "expected 3.5, got %v", v)
	v, _ = fpUnaryOp("neg.s", 3.5)
	assert(t, v == -3.5, "expected -3.5, got %v", v)
}

func TestFpCompare(t *testing.T) {
	assert(t, fpCompare("c.eq.s", 1.0, 1.0), "expected c.eq true")
	assert(t, fpCompare("c.lt.s", 1.0, 2.0), "expected c.lt true")
	assert(t, !fpCompare("c.lt.s", 2.0, 1.0), "expected c.lt false")
}

func TestTrimFmt(t *testing.T) {
	assert(t, trimFmt("add.s") == "add", "expected add, got %s", trimFmt("add.s"))
	assert(t, trimFmt("c.eq.s") == "c.eq", "expected c.eq, got %s", trimFmt("c.eq.s"))
}
