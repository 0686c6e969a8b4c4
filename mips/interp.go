package mips

import (
	"bufio"
	"io"
	"math/rand"
	"sync/atomic"
)

// errProgramFinished is the sentinel Step/Run treats as a normal halt
// rather than a reported failure - returned by the exit/exit2 syscalls
// and by fetching the terminate sentinel.
var errProgramFinished = newErr(KindInvalidArgument, "__program_finished__")

// Interpreter executes the flat instruction/data list a Parser produced
// against a RegisterFile and Memory. It is the single-threaded executor
// half of the driver/executor split in spec.md §5; Controller (in
// controller.go) is the thread-safe facade a debugger driver thread
// talks to, mirroring the goroutine-plus-shared-state split devices.go
// uses for its hardware model.
type Interpreter struct {
	cfg *Config
	reg *RegisterFile
	mem *Memory

	in  io.Reader
	out io.Writer

	stdin *bufio.Reader
	rng   *rand.Rand

	instrCount int
	terminated bool
	exitCode   int

	// paused is flipped by a Controller to suspend Run between steps
	// without tearing down interpreter state, the same atomic-flag idiom
	// devices.go's systemTimer uses for its closed flag.
	paused atomic.Bool

	lastErr  *SimError
	warnings []string
}

func NewInterpreter(cfg *Config, in io.Reader, out io.Writer) *Interpreter {
	it := &Interpreter{cfg: cfg, in: in, out: out}
	warn := func(msg string) {
		if cfg.Warnings {
			it.warnings = append(it.warnings, msg)
		}
	}
	it.reg = NewRegisterFile(cfg, warn)
	it.mem = NewMemory(cfg, warn)
	return it
}

func (it *Interpreter) Registers() *RegisterFile { return it.reg }
func (it *Interpreter) Memory() *Memory          { return it.mem }
func (it *Interpreter) Terminated() bool         { return it.terminated }
func (it *Interpreter) ExitCode() int            { return it.exitCode }
func (it *Interpreter) InstrCount() int          { return it.instrCount }
func (it *Interpreter) Warnings() []string        { return it.warnings }

// pendingPatch remembers where a label-bound pseudo-op (la, or a memory
// op addressed by label) landed in text, so BuildProgram's second pass
// can fill in the hi/lo halves once every label address is known.
type pendingPatch struct {
	hiAddr uint32
	loAddr uint32
	label  string
}

// BuildProgram lays out data declarations and text instructions from the
// parser's flat item list, binding labels to whichever pointer is
// current when they're encountered, then resolves every label-bound
// pseudo-op's address in a second pass. Mirrors classes.py's two-pass
// "build program, then patch la/load-label" construction.
func (it *Interpreter) BuildProgram(items []Instr) error {
	var pending []string
	var patches []pendingPatch

	bindLabels := func(addr uint32) error {
		for _, name := range pending {
			if err := it.mem.AddLabel(name, addr); err != nil {
				return err
			}
		}
		pending = nil
		return nil
	}

	for _, item := range items {
		switch v := item.(type) {
		case Label:
			pending = append(pending, v.Name)
		case Declaration:
			it.mem.SetDataPtr(alignUp(it.mem.DataPtr(), declAlignment(v.Type)))
			if err := bindLabels(it.mem.DataPtr()); err != nil {
				return err
			}
			if err := it.emitDeclaration(v); err != nil {
				return err
			}
		case PseudoInstr:
			if err := bindLabels(it.mem.TextPtr()); err != nil {
				return err
			}
			addrs := make([]uint32, len(v.Instrs))
			for i, sub := range v.Instrs {
				addrs[i] = it.mem.AddText(sub)
			}
			if v.Label != "" && len(addrs) >= 2 {
				patches = append(patches, pendingPatch{hiAddr: addrs[0], loAddr: addrs[1], label: v.Label})
			}
		default:
			if err := bindLabels(it.mem.TextPtr()); err != nil {
				return err
			}
			it.mem.AddText(item)
		}
	}
	if err := bindLabels(it.mem.TextPtr()); err != nil {
		return err
	}

	for _, p := range patches {
		addr, ok := it.mem.GetLabel(p.label)
		if !ok {
			return newErr(KindInvalidLabel, "undefined label %s", p.label)
		}
		hi := int32(addr >> 16)
		lo := int32(addr & 0xFFFF)
		it.patchImm(p.hiAddr, hi)
		it.patchImm(p.loAddr, lo)
	}

	if _, ok := it.mem.GetLabel("main"); !ok {
		return newErr(KindNoMainLabel, "no main label found")
	}
	it.mem.AddText(TerminateSentinel{})
	return nil
}

// patchImm mutates the immediate field of the instruction at addr in
// place; it is only ever called with the LoadImm/IType/LoadMem nodes
// parseMem and expandPseudo's la/label-load forms produce.
func (it *Interpreter) patchImm(addr uint32, imm int32) {
	switch v := it.mem.text[addr].(type) {
	case LoadImm:
		v.Imm = imm
		it.mem.text[addr] = v
	case IType:
		v.Imm = imm
		it.mem.text[addr] = v
	case LoadMem:
		v.Imm = imm
		it.mem.text[addr] = v
	}
}

// alignUp rounds ptr up to the next multiple of n (n a power of two),
// the padding step spec.md §4.4 requires before writing a typed datum
// so a preceding .byte/.half doesn't leave dataPtr misaligned for the
// .word/.float/.double that follows it.
func alignUp(ptr, n uint32) uint32 {
	if rem := ptr % n; rem != 0 {
		return ptr + (n - rem)
	}
	return ptr
}

// declAlignment reports the natural alignment BuildProgram must round
// dataPtr up to before binding a label to (and emitting) a declaration
// of this type, so a label bound to a .word/.float/.double/.half right
// after a .byte points at the padded, correctly aligned address rather
// than the byte immediately following the preceding datum.
func declAlignment(typ string) uint32 {
	switch typ {
	case "word", "float":
		return 4
	case "half":
		return 2
	case "double":
		return 8
	default:
		return 1
	}
}

func (it *Interpreter) emitDeclaration(d Declaration) error {
	switch d.Type {
	case "word":
		for _, v := range d.Ints {
			if err := it.mem.AddWord(v, it.mem.DataPtr()); err != nil {
				return err
			}
			it.mem.SetDataPtr(it.mem.DataPtr() + 4)
		}
	case "half":
		for _, v := range d.Ints {
			if err := it.mem.AddHWord(int16(v), it.mem.DataPtr()); err != nil {
				return err
			}
			it.mem.SetDataPtr(it.mem.DataPtr() + 2)
		}
	case "byte":
		for _, v := range d.Ints {
			if err := it.mem.AddByte(byte(v), it.mem.DataPtr()); err != nil {
				return err
			}
			it.mem.SetDataPtr(it.mem.DataPtr() + 1)
		}
	case "space":
		n := int32(0)
		if len(d.Ints) > 0 {
			n = d.Ints[0]
		}
		it.mem.SetDataPtr(it.mem.DataPtr() + uint32(n))
	case "align":
		n := uint32(1)
		if len(d.Ints) > 0 {
			for i := int32(0); i < d.Ints[0]; i++ {
				n *= 2
			}
		}
		it.mem.SetDataPtr(alignUp(it.mem.DataPtr(), n))
	case "ascii":
		if err := it.mem.AddAscii(d.Str, it.mem.DataPtr()); err != nil {
			return err
		}
		it.mem.SetDataPtr(it.mem.DataPtr() + uint32(len(d.Str)))
	case "asciiz":
		if err := it.mem.AddAsciiz(d.Str, it.mem.DataPtr()); err != nil {
			return err
		}
		it.mem.SetDataPtr(it.mem.DataPtr() + uint32(len(d.Str)) + 1)
	case "float":
		for _, v := range d.Ints {
			if err := it.mem.AddWord(v, it.mem.DataPtr()); err != nil {
				return err
			}
			it.mem.SetDataPtr(it.mem.DataPtr() + 4)
		}
	case "double":
		for _, v := range d.Ints {
			if err := it.mem.AddWord(v, it.mem.DataPtr()); err != nil {
				return err
			}
			it.mem.SetDataPtr(it.mem.DataPtr() + 4)
		}
	}
	return nil
}

// Start positions pc at the main label, the entry point every program
// must define (spec.md §3 "Lifecycle").
func (it *Interpreter) Start() error {
	addr, ok := it.mem.GetLabel("main")
	if !ok {
		return newErr(KindNoMainLabel, "no main label found")
	}
	it.reg.SetPC(addr)
	return nil
}

// Pause/Resume let a Controller suspend the fetch/decode/dispatch loop
// between instructions without losing any interpreter state.
func (it *Interpreter) Pause()  { it.paused.Store(true) }
func (it *Interpreter) Resume() { it.paused.Store(false) }
func (it *Interpreter) Paused() bool { return it.paused.Load() }

// Run drives Step until the program terminates, an error is raised, or
// the instruction ceiling is hit. stop, if non-nil, is polled once per
// instruction so a Controller can cancel a batch run early.
func (it *Interpreter) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stopOrNever(stop):
			return nil
		default:
		}
		if it.paused.Load() {
			continue
		}
		done, err := it.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func stopOrNever(stop <-chan struct{}) <-chan struct{} {
	if stop == nil {
		return nil
	}
	return stop
}

// Step fetches and executes a single instruction, reporting whether the
// program has terminated (sentinel fetched, or exit/exit2 syscall).
func (it *Interpreter) Step() (done bool, err error) {
	if it.terminated {
		return true, nil
	}
	if it.cfg.MaxInstructions > 0 && it.instrCount >= it.cfg.MaxInstructions {
		return false, newErr(KindInstrCountExceed, "exceeded the maximum instruction count of %d", it.cfg.MaxInstructions)
	}

	pc := it.reg.PC()
	instr, ferr := it.mem.FetchText(pc)
	if ferr != nil {
		return false, ferr
	}

	if _, ok := instr.(TerminateSentinel); ok {
		it.terminated = true
		return true, nil
	}

	tag := TagOf(instr)
	it.reg.SetPC(pc + 4)
	it.instrCount++

	if err := it.exec(instr); err != nil {
		if err == errProgramFinished {
			return true, nil
		}
		if se, ok := err.(*SimError); ok {
			it.lastErr = se.WithTag(tag)
			return false, it.lastErr
		}
		return false, err
	}
	return it.terminated, nil
}

func (it *Interpreter) exec(instr Instr) error {
	switch v := instr.(type) {
	case Nop, Label, Declaration:
		return nil
	case Break:
		return newErr(KindBreakpointException, "break %d", v.Code)
	case Syscall:
		return it.execSyscall()
	case RType:
		return it.execRType(v)
	case IType:
		return it.execIType(v)
	case JType:
		return it.execJType(v)
	case Branch:
		return it.execBranch(v)
	case LoadImm:
		return it.reg.Set(v.Reg, v.Imm<<16)
	case LoadMem:
		return it.execLoadMem(v)
	case Move:
		return it.execMove(v)
	case MoveFloat:
		return it.execMoveFloat(v)
	case MoveCond:
		return it.execMoveCond(v)
	case Compare:
		return it.execCompare(v)
	case Convert:
		return it.execConvert(v)
	case BranchFloat:
		return it.execBranchFloat(v)
	case PseudoInstr:
		for _, sub := range v.Instrs {
			if err := it.exec(sub); err != nil {
				return err
			}
		}
		return nil
	}
	return newErr(KindSyntaxError, "unexecutable instruction")
}

func (it *Interpreter) execSyscall() error {
	code := int(it.reg.Get("$v0"))
	if !it.cfg.EnabledSyscalls[code] {
		return newErr(KindInvalidSyscall, "syscall %d is not enabled", code)
	}
	handler, ok := syscallTable[code]
	if !ok {
		return newErr(KindInvalidSyscall, "syscall %d is not implemented", code)
	}
	return handler(it)
}

func (it *Interpreter) execRType(v RType) error {
	switch v.Op {
	case "mult", "multu":
		hi, lo := mul64(it.reg.Get(v.Regs[0]), it.reg.Get(v.Regs[1]), v.Op == "mult")
		it.reg.SetHI(hi)
		it.reg.SetLO(lo)
		return nil
	case "madd", "maddu":
		hi, lo := mul64(it.reg.Get(v.Regs[0]), it.reg.Get(v.Regs[1]), v.Op == "madd")
		sum := uint64(uint32(it.reg.LO()))|uint64(uint32(it.reg.HI()))<<32
		prod := uint64(uint32(lo))|uint64(uint32(hi))<<32
		total := sum + prod
		it.reg.SetHI(int32(uint32(total >> 32)))
		it.reg.SetLO(int32(uint32(total)))
		return nil
	case "msub", "msubu":
		hi, lo := mul64(it.reg.Get(v.Regs[0]), it.reg.Get(v.Regs[1]), v.Op == "msub")
		sum := uint64(uint32(it.reg.LO()))|uint64(uint32(it.reg.HI()))<<32
		prod := uint64(uint32(lo))|uint64(uint32(hi))<<32
		total := sum - prod
		it.reg.SetHI(int32(uint32(total >> 32)))
		it.reg.SetLO(int32(uint32(total)))
		return nil
	case "div", "divu":
		a, b := it.reg.Get(v.Regs[0]), it.reg.Get(v.Regs[1])
		if b == 0 {
			return newErr(KindDivisionByZero, "division by zero")
		}
		q, r := div32(a, b, v.Op == "div")
		it.reg.SetLO(q)
		it.reg.SetHI(r)
		return nil
	case "clo", "clz":
		r, err := aluUnary(v.Op, it.reg.Get(v.Regs[1]))
		if err != nil {
			return err
		}
		return it.reg.Set(v.Regs[0], r)
	case "movn":
		if it.reg.Get(v.Regs[2]) != 0 {
			return it.reg.Set(v.Regs[0], it.reg.Get(v.Regs[1]))
		}
		return nil
	case "movz":
		if it.reg.Get(v.Regs[2]) == 0 {
			return it.reg.Set(v.Regs[0], it.reg.Get(v.Regs[1]))
		}
		return nil
	case "sllv", "srav":
		r, err := aluBinary(v.Op, it.reg.Get(v.Regs[1]), it.reg.Get(v.Regs[2]))
		if err != nil {
			return err
		}
		return it.reg.Set(v.Regs[0], r)
	default:
		r, err := aluBinary(v.Op, it.reg.Get(v.Regs[1]), it.reg.Get(v.Regs[2]))
		if err != nil {
			return err
		}
		return it.reg.Set(v.Regs[0], r)
	}
}

func (it *Interpreter) execIType(v IType) error {
	switch v.Op {
	case "sll", "srl", "sra":
		r, err := aluBinary(v.Op, it.reg.Get(v.Rs), v.Imm)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Rd, r)
	default:
		r, err := aluBinary(v.Op, it.reg.Get(v.Rs), v.Imm)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Rd, r)
	}
}

func (it *Interpreter) execJType(v JType) error {
	switch v.Op {
	case "j":
		addr, ok := it.mem.GetLabel(v.TargetLabel)
		if !ok {
			return newErr(KindInvalidLabel, "undefined label %s", v.TargetLabel)
		}
		it.reg.SetPC(addr)
	case "jal":
		addr, ok := it.mem.GetLabel(v.TargetLabel)
		if !ok {
			return newErr(KindInvalidLabel, "undefined label %s", v.TargetLabel)
		}
		if err := it.reg.Set("$ra", int32(it.reg.PC())); err != nil {
			return err
		}
		it.reg.SetPC(addr)
	case "jr":
		it.reg.SetPC(uint32(it.reg.Get(v.TargetReg)))
	case "jalr":
		ret := int32(it.reg.PC())
		target := uint32(it.reg.Get(v.TargetReg))
		if err := it.reg.Set("$ra", ret); err != nil {
			return err
		}
		it.reg.SetPC(target)
	}
	return nil
}

func (it *Interpreter) execBranch(v Branch) error {
	rs := it.reg.Get(v.Rs)
	var taken bool
	var link bool
	switch v.Op {
	case "beq", "bne", "blez", "bgtz", "bltz", "bgez":
		taken = branchTaken(v.Op, rs, it.reg.Get(orZero(v.Rt)))
	case "bgezal":
		taken = rs >= 0
		link = true
	case "bltzal":
		taken = rs < 0
		link = true
	}
	if link {
		if err := it.reg.Set("$ra", int32(it.reg.PC())); err != nil {
			return err
		}
	}
	if taken {
		addr, ok := it.mem.GetLabel(v.Label)
		if !ok {
			return newErr(KindInvalidLabel, "undefined label %s", v.Label)
		}
		it.reg.SetPC(addr)
	}
	return nil
}

func orZero(reg string) string {
	if reg == "" {
		return "$zero"
	}
	return reg
}

func (it *Interpreter) execLoadMem(v LoadMem) error {
	addr := uint32(it.reg.Get(v.Base) + v.Imm)
	switch v.Op {
	case "lb":
		val, err := it.mem.GetByte(addr, true)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Reg, val)
	case "lbu":
		val, err := it.mem.GetByte(addr, false)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Reg, val)
	case "lh":
		val, err := it.mem.GetHWord(addr, true)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Reg, val)
	case "lhu":
		val, err := it.mem.GetHWord(addr, false)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Reg, val)
	case "lw":
		val, err := it.mem.GetWord(addr)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Reg, val)
	case "sb":
		return it.mem.AddByte(byte(it.reg.Get(v.Reg)), addr)
	case "sh":
		return it.mem.AddHWord(int16(it.reg.Get(v.Reg)), addr)
	case "sw":
		return it.mem.AddWord(it.reg.Get(v.Reg), addr)
	case "lwl", "lwr":
		return it.execUnalignedLoad(v, addr)
	case "swl", "swr":
		return it.execUnalignedStore(v, addr)
	case "l.s":
		f, err := it.mem.GetFloat32(addr)
		if err != nil {
			return err
		}
		return it.reg.SetFloat32(v.Reg, f)
	case "l.d":
		f, err := it.mem.GetFloat64(addr)
		if err != nil {
			return err
		}
		return it.reg.SetFloat64(v.Reg, f)
	case "s.s":
		f, err := it.reg.GetFloat32(v.Reg)
		if err != nil {
			return err
		}
		return it.mem.AddFloat32(f, addr)
	case "s.d":
		f, err := it.reg.GetFloat64(v.Reg)
		if err != nil {
			return err
		}
		return it.mem.AddFloat64(f, addr)
	}
	return newErr(KindSyntaxError, "unknown memory opcode %s", v.Op)
}

// execUnalignedLoad implements the classic little-endian lwl/lwr pair:
// lwl merges the bytes from the word's start up to addr into rt's
// high-order bytes (the byte at addr lands in bits 31..24), lwr merges
// the bytes from addr up to the word's end into rt's low-order bytes
// (the byte at addr lands in bits 7..0), each leaving rt's untouched
// bytes alone.
func (it *Interpreter) execUnalignedLoad(v LoadMem, addr uint32) error {
	word := addr &^ 3
	offset := addr & 3
	cur := uint32(it.reg.Get(v.Reg))
	first, last := uint32(0), offset
	if v.Op == "lwr" {
		first, last = offset, 3
	}
	for i := first; i <= last; i++ {
		b, err := it.mem.GetByte(word+i, false)
		if err != nil {
			return err
		}
		if v.Op == "lwl" {
			shift := 8 * (3 - offset + i)
			cur = cur&^(0xFF<<shift) | uint32(byte(b))<<shift
		} else {
			shift := 8 * (i - offset)
			cur = cur&^(0xFF<<shift) | uint32(byte(b))<<shift
		}
	}
	return it.reg.Set(v.Reg, int32(cur))
}

func (it *Interpreter) execUnalignedStore(v LoadMem, addr uint32) error {
	word := addr &^ 3
	offset := addr & 3
	val := uint32(it.reg.Get(v.Reg))
	first, last := uint32(0), offset
	if v.Op == "swr" {
		first, last = offset, 3
	}
	for i := first; i <= last; i++ {
		var b byte
		if v.Op == "swl" {
			shift := 8 * (3 - offset + i)
			b = byte(val >> shift)
		} else {
			shift := 8 * (i - offset)
			b = byte(val >> shift)
		}
		if err := it.mem.AddByte(b, word+i); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execMove(v Move) error {
	switch v.Op {
	case "mfhi":
		return it.reg.Set(v.Reg, it.reg.HI())
	case "mflo":
		return it.reg.Set(v.Reg, it.reg.LO())
	case "mthi":
		it.reg.SetHI(it.reg.Get(v.Reg))
	case "mtlo":
		it.reg.SetLO(it.reg.Get(v.Reg))
	}
	return nil
}

func (it *Interpreter) getF(name, fmtc string) (float64, error) {
	if fmtc == "d" {
		return it.reg.GetFloat64(name)
	}
	v, err := it.reg.GetFloat32(name)
	return float64(v), err
}

func (it *Interpreter) setF(name, fmtc string, val float64) error {
	if fmtc == "d" {
		return it.reg.SetFloat64(name, val)
	}
	return it.reg.SetFloat32(name, float32(val))
}

func (it *Interpreter) execMoveFloat(v MoveFloat) error {
	a, err := it.getF(v.Fs, v.Fmt)
	if err != nil {
		return err
	}
	if v.Ft == "" {
		r, err := fpUnaryOp(v.Op, a)
		if err != nil {
			return err
		}
		return it.setF(v.Fd, v.Fmt, r)
	}
	b, err := it.getF(v.Ft, v.Fmt)
	if err != nil {
		return err
	}
	r, err := fpBinaryOp(v.Op, a, b)
	if err != nil {
		return err
	}
	return it.setF(v.Fd, v.Fmt, r)
}

func (it *Interpreter) execMoveCond(v MoveCond) error {
	var gate bool
	switch {
	case v.Rt != "":
		gr := it.reg.Get(v.Rt)
		if v.Op[len(v.Op)-3] == 'n' { // movn.fmt
			gate = gr != 0
		} else { // movz.fmt
			gate = gr == 0
		}
	default:
		onTrue := v.Op[:4] == "movt"
		gate = it.reg.Cond(v.Flag) == onTrue
	}
	if !gate {
		return nil
	}
	a, err := it.getF(v.Fs, v.Fmt)
	if err != nil {
		return err
	}
	return it.setF(v.Fd, v.Fmt, a)
}

func (it *Interpreter) execCompare(v Compare) error {
	a, err := it.getF(v.Fs, v.Fmt)
	if err != nil {
		return err
	}
	b, err := it.getF(v.Ft, v.Fmt)
	if err != nil {
		return err
	}
	it.reg.SetCond(v.Flag, fpCompare(v.Op, a, b))
	return nil
}

func (it *Interpreter) execConvert(v Convert) error {
	switch v.Op {
	case "mfc1":
		bits, err := it.reg.GetRawFPR(v.Src)
		if err != nil {
			return err
		}
		return it.reg.Set(v.Dst, int32(bits))
	case "mtc1":
		return it.reg.SetRawFPR(v.Dst, uint32(it.reg.Get(v.Src)))
	case "cvt.w.s":
		f, err := it.reg.GetFloat32(v.Src)
		if err != nil {
			return err
		}
		return it.reg.SetRawFPR(v.Dst, uint32(int32(f)))
	case "cvt.w.d":
		f, err := it.reg.GetFloat64(v.Src)
		if err != nil {
			return err
		}
		return it.reg.SetRawFPR(v.Dst, uint32(int32(f)))
	case "cvt.s.w":
		bits, err := it.reg.GetRawFPR(v.Src)
		if err != nil {
			return err
		}
		return it.reg.SetFloat32(v.Dst, float32(int32(bits)))
	case "cvt.s.d":
		f, err := it.reg.GetFloat64(v.Src)
		if err != nil {
			return err
		}
		return it.reg.SetFloat32(v.Dst, float32(f))
	case "cvt.d.w":
		bits, err := it.reg.GetRawFPR(v.Src)
		if err != nil {
			return err
		}
		return it.reg.SetFloat64(v.Dst, float64(int32(bits)))
	case "cvt.d.s":
		f, err := it.reg.GetFloat32(v.Src)
		if err != nil {
			return err
		}
		return it.reg.SetFloat64(v.Dst, float64(f))
	}
	return newErr(KindSyntaxError, "unknown conversion opcode %s", v.Op)
}

func (it *Interpreter) execBranchFloat(v BranchFloat) error {
	if it.reg.Cond(v.Flag) != v.OnTrue {
		return nil
	}
	addr, ok := it.mem.GetLabel(v.Label)
	if !ok {
		return newErr(KindInvalidLabel, "undefined label %s", v.Label)
	}
	it.reg.SetPC(addr)
	return nil
}
