package mips

import "fmt"

// change is one entry in the undo journal: enough state to reverse a
// single instruction's side effects. Grounded on
// original_source/interpreter/interpreter.py's Debug class, which keeps
// a parallel "reverse" stack of (kind, old-value) tuples pushed right
// before each mutation.
type change interface {
	undo(it *Interpreter)
}

type regChange struct {
	name string
	old  int32
}

func (c regChange) undo(it *Interpreter) { it.reg.gpr[gprIndex[c.name]] = c.old }

type pcChange struct {
	old uint32
}

func (c pcChange) undo(it *Interpreter) { it.reg.pc = c.old }

type hiloChange struct {
	hi, lo int32
}

func (c hiloChange) undo(it *Interpreter) {
	it.reg.hi = c.hi
	it.reg.lo = c.lo
}

type memChange struct {
	addr uint32
	old  byte
	had  bool
}

func (c memChange) undo(it *Interpreter) {
	if c.had {
		it.mem.data[c.addr] = c.old
	} else {
		delete(it.mem.data, c.addr)
	}
}

type fprChange struct {
	idx int
	old uint32
}

func (c fprChange) undo(it *Interpreter) { it.reg.fpr[c.idx] = c.old }

type condChange struct {
	flag int
	old  bool
}

func (c condChange) undo(it *Interpreter) { it.reg.cond[c.flag] = c.old }

// step is one instruction's worth of undo records, popped as a unit by
// reverse so a single "step back" restores every register and memory
// cell the instruction touched.
type step struct {
	changes []change
}

// Breakpoint identifies a source line a debugger driver wants to halt
// before executing, keyed the way interpreter.py's breakpoints set is:
// by (file, line) rather than by text address, since pseudo-op
// expansion means one source line can cover several addresses.
type Breakpoint struct {
	File string
	Line int
}

// Debugger wraps an Interpreter with a reversible undo journal and a
// breakpoint set, giving a driver thread single-step, continue, and
// step-back control. Grounded on interpreter.py's nested Debug class:
// push becomes snapshotAll/recordMem, reverse becomes StepBack, and the
// debug breakpoint check sits at the top of StepForward; the listen/
// handle command loop lives in main.go's runDebugSession.
type Debugger struct {
	it      *Interpreter
	history []step
	current *step

	breakpoints map[Breakpoint]bool
}

func NewDebugger(it *Interpreter) *Debugger {
	return &Debugger{it: it, breakpoints: make(map[Breakpoint]bool)}
}

func (d *Debugger) AddBreakpoint(bp Breakpoint)    { d.breakpoints[bp] = true }
func (d *Debugger) RemoveBreakpoint(bp Breakpoint) { delete(d.breakpoints, bp) }

func (d *Debugger) atBreakpoint(tag Tag) bool {
	return d.breakpoints[Breakpoint{File: tag.File, Line: tag.Line}]
}

// recordReg/recordMem/recordPC/recordHiLo/recordFpr/recordCond snapshot
// a value into the in-progress step before it's overwritten.
// recordReg/recordPC/recordHiLo/recordFpr/recordCond are driven by
// snapshotAll before every instruction; recordMem is instead installed
// as Memory's write hook for the instruction's duration, so it fires
// once per byte actually written rather than once per instruction.
func (d *Debugger) recordReg(name string)      { d.current.changes = append(d.current.changes, regChange{name, d.it.reg.Get(name)}) }
func (d *Debugger) recordPC()                  { d.current.changes = append(d.current.changes, pcChange{d.it.reg.PC()}) }
func (d *Debugger) recordHiLo()                { d.current.changes = append(d.current.changes, hiloChange{d.it.reg.HI(), d.it.reg.LO()}) }
func (d *Debugger) recordCond(flag int)        { d.current.changes = append(d.current.changes, condChange{flag, d.it.reg.Cond(flag)}) }
func (d *Debugger) recordFpr(idx int)          { d.current.changes = append(d.current.changes, fprChange{idx, d.it.reg.fpr[idx]}) }
func (d *Debugger) recordMem(addr uint32) {
	old, had := d.it.mem.data[addr]
	d.current.changes = append(d.current.changes, memChange{addr: addr, old: old, had: had})
}

// snapshotAll records every register, PC, HI/LO, FPR, and condition
// flag as a coarse but correct over-approximation: cheaper to implement
// than tracing each opcode's exact write set, and the cost only matters
// for interactive debug runs which are already single-stepped one
// instruction at a time. Memory is handled precisely instead of by
// snapshot: StepForward installs recordMem as Memory's write hook so
// every byte a store instruction or syscall actually overwrites is
// journaled individually.
func (d *Debugger) snapshotAll() {
	for _, name := range GPRNames {
		d.recordReg(name)
	}
	d.recordPC()
	d.recordHiLo()
	for i := range d.it.reg.fpr {
		d.recordFpr(i)
	}
	for i := range d.it.reg.cond {
		d.recordCond(i)
	}
}

// StepForward executes exactly one instruction, journaling its full
// register/PC/HI-LO/FPR/condition-flag state plus every memory byte it
// writes (via the Memory write hook wired to recordMem for the
// duration of the call) so StepBack can undo it.
func (d *Debugger) StepForward() (done bool, err error) {
	if d.it.terminated {
		return true, nil
	}
	pc := d.it.reg.PC()
	instr, ferr := d.it.mem.FetchText(pc)
	if ferr != nil {
		return false, ferr
	}
	if bp := d.atBreakpoint(TagOf(instr)); bp {
		return false, newErr(KindBreakpointException, "stopped at breakpoint")
	}

	d.current = &step{}
	d.snapshotAll()
	d.it.mem.SetWriteHook(d.recordMem)
	done, err = d.it.Step()
	d.it.mem.SetWriteHook(nil)
	d.history = append(d.history, *d.current)
	d.current = nil
	return done, err
}

// StepBack pops the most recent journaled step and replays its undo
// records in reverse order, restoring the machine to the state it was
// in immediately before that instruction ran - the "reverse" debugger
// command named in spec.md §4.6.
func (d *Debugger) StepBack() error {
	if len(d.history) == 0 {
		return newErr(KindInvalidArgument, "nothing to reverse")
	}
	last := d.history[len(d.history)-1]
	d.history = d.history[:len(d.history)-1]
	for i := len(last.changes) - 1; i >= 0; i-- {
		last.changes[i].undo(d.it)
	}
	d.it.terminated = false
	d.it.instrCount--
	return nil
}

func (d *Debugger) CanStepBack() bool { return len(d.history) > 0 }

// FormatRegister renders one register the way spec.md §4.6's `print`
// command and syscalls.py's reg_dump both do: name, hex, and signed
// decimal on one line.
func FormatRegister(name string, value int32) string {
	return fmt.Sprintf("%-4s %s %d", name, formatHex32(value), value)
}
