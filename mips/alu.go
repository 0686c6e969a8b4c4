package mips

import "math"

// aluBinary implements the three-register and register-immediate
// integer opcodes. Grounded on interpreter.py's instrs.table dispatch;
// signed arithmetic overflow is surfaced as an error rather than a
// silent wrap, per spec.md §4.5/§8.
func aluBinary(op string, rs, rt int32) (int32, error) {
	switch op {
	case "and":
		return rs & rt, nil
	case "or", "ori":
		return rs | rt, nil
	case "xor", "xori":
		return rs ^ rt, nil
	case "nor":
		return ^(rs | rt), nil
	case "add", "addi":
		if addOverflows(rs, rt) {
			return 0, newErr(KindArithmeticOverflow, "%d + %d overflows", rs, rt)
		}
		return rs + rt, nil
	case "addu", "addiu":
		return overflowDetect(int64(uint32(rs)) + int64(uint32(rt))), nil
	case "sub":
		if subOverflows(rs, rt) {
			return 0, newErr(KindArithmeticOverflow, "%d - %d overflows", rs, rt)
		}
		return rs - rt, nil
	case "subu":
		return overflowDetect(int64(uint32(rs)) - int64(uint32(rt))), nil
	case "mul":
		return int32(uint32(rs) * uint32(rt)), nil
	case "slt", "slti":
		if rs < rt {
			return 1, nil
		}
		return 0, nil
	case "sltu", "sltiu":
		if uint32(rs) < uint32(rt) {
			return 1, nil
		}
		return 0, nil
	case "andi":
		return rs & rt, nil
	case "sllv":
		return rs << (uint32(rt) & 31), nil
	case "srav":
		return rs >> (uint32(rt) & 31), nil
	case "sll":
		return rs << (uint32(rt) & 31), nil
	case "srl":
		return int32(uint32(rs) >> (uint32(rt) & 31)), nil
	case "sra":
		return rs >> (uint32(rt) & 31), nil
	case "movn", "movz":
		return rs, nil // conditional gate applied by the caller
	}
	return 0, newErr(KindInvalidArgument, "unknown ALU opcode %s", op)
}

// aluUnary implements clo/clz (count leading ones/zeros).
func aluUnary(op string, rs int32) (int32, error) {
	switch op {
	case "clo":
		u := uint32(rs)
		n := int32(0)
		for i := 31; i >= 0 && (u>>uint(i))&1 == 1; i-- {
			n++
		}
		return n, nil
	case "clz":
		u := uint32(rs)
		n := int32(0)
		for i := 31; i >= 0 && (u>>uint(i))&1 == 0; i-- {
			n++
		}
		return n, nil
	}
	return 0, newErr(KindInvalidArgument, "unknown ALU opcode %s", op)
}

// mul64 computes the full 64-bit product for mult/multu/madd*/msub*,
// splitting into (hi, lo) the way interpreter.py's instrs.mul does.
func mul64(a, b int32, signed bool) (hi, lo int32) {
	var product uint64
	if signed {
		product = uint64(int64(a) * int64(b))
	} else {
		product = uint64(uint32(a)) * uint64(uint32(b))
	}
	return int32(uint32(product >> 32)), int32(uint32(product))
}

// div32 computes quotient/remainder for div/divu; a zero divisor is the
// caller's responsibility to reject before calling.
func div32(a, b int32, signed bool) (quot, rem int32) {
	if signed {
		return a / b, a % b
	}
	ua, ub := uint32(a), uint32(b)
	return int32(ua / ub), int32(ua % ub)
}

// branchTaken implements beq/bne/blez/bgtz/bltz/bgez comparisons.
func branchTaken(op string, rs, rt int32) bool {
	switch op {
	case "beq":
		return rs == rt
	case "bne":
		return rs != rt
	case "blez":
		return rs <= 0
	case "bgtz":
		return rs > 0
	case "bltz":
		return rs < 0
	case "bgez":
		return rs >= 0
	}
	return false
}

// fpBinaryOp applies the named float ALU op (add/sub/mul/div) in
// single or double precision.
func fpBinaryOp(op string, a, b float64) (float64, error) {
	switch trimFmt(op) {
	case "add":
		return a + b, nil
	case "sub":
		return a - b, nil
	case "mul":
		return a * b, nil
	case "div":
		return a / b, nil
	}
	return 0, newErr(KindInvalidArgument, "unknown fp opcode %s", op)
}

func fpUnaryOp(op string, a float64) (float64, error) {
	switch trimFmt(op) {
	case "abs":
		return math.Abs(a), nil
	case "neg":
		return -a, nil
	case "sqrt":
		return math.Sqrt(a), nil
	case "mov":
		return a, nil
	}
	return 0, newErr(KindInvalidArgument, "unknown fp opcode %s", op)
}

func fpCompare(op string, a, b float64) bool {
	switch trimFmt(op) {
	case "c.eq":
		return a == b
	case "c.le":
		return a <= b
	case "c.lt":
		return a < b
	}
	return false
}

// trimFmt strips the trailing ".s"/".d" format suffix from an opcode
// name, e.g. "add.s" -> "add", "c.eq.s" -> "c.eq".
func trimFmt(op string) string {
	if len(op) >= 2 && op[len(op)-2] == '.' {
		return op[:len(op)-2]
	}
	return op
}
