package mips

import "math/rand"

// GPRNames lists the 32 general-purpose registers in canonical order,
// mirroring constants.py's REGS (minus pc/hi/lo, tracked separately
// below since they are addressed distinctly everywhere in the spec).
var GPRNames = [32]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

var gprIndex map[string]int

func init() {
	gprIndex = make(map[string]int, len(GPRNames))
	for i, n := range GPRNames {
		gprIndex[n] = i
	}
}

// constantRegs never receive garbage-mode randomization, matching
// settings.py's "never for constant regs" note.
var constantRegs = map[string]bool{
	"$zero": true, "$at": true, "$k0": true, "$k1": true,
	"$gp": true, "$sp": true, "$fp": true, "$ra": true,
}

// warnOnUninitRead reports whether reading reg before any write to it
// should emit a warning: s/t/a/v-prefixed registers, excluding $at/$sp.
func warnOnUninitRead(reg string) bool {
	if reg == "$at" || reg == "$sp" {
		return false
	}
	if len(reg) < 2 {
		return false
	}
	switch reg[1] {
	case 's', 't', 'a', 'v':
		return true
	}
	return false
}

// RegisterFile holds the 32 GPRs, pc/hi/lo, the 32 single-precision FP
// registers (paired at even indices for doubles), and the 8 FP condition
// flags (spec.md §3).
type RegisterFile struct {
	gpr [32]int32
	pc  uint32
	hi  int32
	lo  int32

	fpr [32]uint32 // raw IEEE-754 bit patterns

	cond [8]bool

	written map[string]bool
	cfg     *Config
	warn    func(string)
}

func NewRegisterFile(cfg *Config, warn func(string)) *RegisterFile {
	rf := &RegisterFile{
		cfg:     cfg,
		warn:    warn,
		written: make(map[string]bool),
	}
	rf.Reset()
	return rf
}

// Reset restores every register to its configured initial value, or a
// random value when GarbageRegisters is on and the register isn't one
// of the fixed/constant ones.
func (rf *RegisterFile) Reset() {
	for i, name := range GPRNames {
		switch name {
		case "$zero":
			rf.gpr[i] = int32(rf.cfg.InitialZero)
		case "$gp":
			rf.gpr[i] = int32(rf.cfg.InitialGP)
		case "$sp":
			rf.gpr[i] = int32(rf.cfg.InitialSP)
		case "$fp":
			rf.gpr[i] = int32(rf.cfg.InitialFP)
		case "$ra":
			rf.gpr[i] = int32(rf.cfg.InitialRA)
		default:
			if rf.cfg.GarbageRegisters && !constantRegs[name] {
				rf.gpr[i] = int32(rand.Uint32())
			} else {
				rf.gpr[i] = 0
			}
		}
	}
	rf.pc = rf.cfg.InitialPC
	rf.hi = int32(rf.cfg.InitialHI)
	rf.lo = int32(rf.cfg.InitialLO)
	rf.written = make(map[string]bool)
}

func (rf *RegisterFile) Get(name string) int32 {
	if name == "pc" {
		return int32(rf.pc)
	}
	if name == "hi" {
		return rf.hi
	}
	if name == "lo" {
		return rf.lo
	}
	idx, ok := gprIndex[name]
	if !ok {
		return 0
	}
	if rf.warn != nil && warnOnUninitRead(name) && !rf.written[name] {
		rf.warn(name)
	}
	return rf.gpr[idx]
}

func (rf *RegisterFile) Set(name string, val int32) error {
	if name == "$zero" || name == "$0" {
		return newErr(KindWritingToZeroRegister, "cannot write to %s", name)
	}
	if name == "pc" {
		rf.pc = uint32(val)
		return nil
	}
	if name == "hi" {
		rf.hi = val
		return nil
	}
	if name == "lo" {
		rf.lo = val
		return nil
	}
	idx, ok := gprIndex[name]
	if !ok {
		return newErr(KindInvalidRegister, "unknown register %s", name)
	}
	rf.gpr[idx] = val
	rf.written[name] = true
	return nil
}

func (rf *RegisterFile) PC() uint32     { return rf.pc }
func (rf *RegisterFile) SetPC(v uint32) { rf.pc = v }
func (rf *RegisterFile) HI() int32      { return rf.hi }
func (rf *RegisterFile) LO() int32      { return rf.lo }
func (rf *RegisterFile) SetHI(v int32)  { rf.hi = v }
func (rf *RegisterFile) SetLO(v int32)  { rf.lo = v }

func (rf *RegisterFile) Cond(flag int) bool      { return rf.cond[flag] }
func (rf *RegisterFile) SetCond(flag int, v bool) { rf.cond[flag] = v }

// FP registers are addressed "$f0".."$f31"; fpIndex parses the suffix.
func fpIndex(name string) (int, bool) {
	if len(name) < 3 || name[0] != '$' || name[1] != 'f' {
		return 0, false
	}
	n := 0
	for _, c := range name[2:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 0 || n > 31 {
		return 0, false
	}
	return n, true
}

func (rf *RegisterFile) GetFloat32(name string) (float32, error) {
	idx, ok := fpIndex(name)
	if !ok {
		return 0, newErr(KindInvalidRegister, "not a floating point register: %s", name)
	}
	return bitsToFloat32(rf.fpr[idx]), nil
}

func (rf *RegisterFile) SetFloat32(name string, v float32) error {
	idx, ok := fpIndex(name)
	if !ok {
		return newErr(KindInvalidRegister, "not a floating point register: %s", name)
	}
	rf.fpr[idx] = float32Bits(v)
	return nil
}

func (rf *RegisterFile) GetRawFPR(name string) (uint32, error) {
	idx, ok := fpIndex(name)
	if !ok {
		return 0, newErr(KindInvalidRegister, "not a floating point register: %s", name)
	}
	return rf.fpr[idx], nil
}

func (rf *RegisterFile) SetRawFPR(name string, bits uint32) error {
	idx, ok := fpIndex(name)
	if !ok {
		return newErr(KindInvalidRegister, "not a floating point register: %s", name)
	}
	rf.fpr[idx] = bits
	return nil
}

// GetFloat64/SetFloat64 address the paired double at the even register
// fs; an odd fs is InvalidRegister per spec.md §4.5.
func (rf *RegisterFile) GetFloat64(name string) (float64, error) {
	idx, ok := fpIndex(name)
	if !ok {
		return 0, newErr(KindInvalidRegister, "not a floating point register: %s", name)
	}
	if idx%2 != 0 {
		return 0, newErr(KindInvalidRegister, "double-precision register %s must be even-numbered", name)
	}
	lo := uint64(rf.fpr[idx])
	hi := uint64(rf.fpr[idx+1])
	return bitsToFloat64(lo | hi<<32), nil
}

func (rf *RegisterFile) SetFloat64(name string, v float64) error {
	idx, ok := fpIndex(name)
	if !ok {
		return newErr(KindInvalidRegister, "not a floating point register: %s", name)
	}
	if idx%2 != 0 {
		return newErr(KindInvalidRegister, "double-precision register %s must be even-numbered", name)
	}
	bits := float64Bits(v)
	rf.fpr[idx] = uint32(bits)
	rf.fpr[idx+1] = uint32(bits >> 32)
	return nil
}
