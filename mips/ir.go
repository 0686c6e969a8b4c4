package mips

// Tag is the source-location/provenance metadata attached to every IR
// node, replacing the original's post-hoc dynamic attribute attachment
// (filetag/original_text/is_from_pseudoinstr bolted onto Python objects
// after construction) with one struct every variant embeds.
type Tag struct {
	File         string
	Line         int
	IsPseudo     bool
	OriginalText string
}

// Instr is the tagged sum of every IR node the parser can produce. Go's
// type switch over the concrete types below gives the interpreter
// exhaustive, compiler-checked dispatch in place of the source's
// type(instr) == X chain.
type Instr interface {
	meta() Tag
}

// RType is a 2- or 3-register integer instruction: Regs[0] is the
// destination for the 3-register forms and clo/clz; for the 2-register
// mult/div/madd/msub family Regs holds the two source operands and the
// result goes to hi/lo.
type RType struct {
	Tag
	Op   string
	Regs []string
}

func (r RType) meta() Tag { return r.Tag }

// IType is a register-register-immediate instruction (addi, andi, sll, ...).
type IType struct {
	Tag
	Op  string
	Rd  string
	Rs  string
	Imm int32
}

func (i IType) meta() Tag { return i.Tag }

// JType is j/jal (label target) or jr/jalr (register target).
type JType struct {
	Tag
	Op          string
	TargetLabel string
	TargetReg   string
}

func (j JType) meta() Tag { return j.Tag }

// Branch covers beq/bne and the zero-branch family (blez/bgtz/bltz/bgez
// and their -al variants), with Rt left empty for the zero-branch forms.
type Branch struct {
	Tag
	Op    string
	Rs    string
	Rt    string
	Label string
}

func (b Branch) meta() Tag { return b.Tag }

// LoadImm is lui.
type LoadImm struct {
	Tag
	Reg string
	Imm int32
}

func (l LoadImm) meta() Tag { return l.Tag }

// LoadMem covers lw/lh/lb/lhu/lbu/lwl/lwr and their store counterparts,
// plus l.s/l.d/s.s/s.d. The parser leaves Label empty: a load/store
// from a label becomes a PseudoInstr (lui $at + this node with Base
// $at and Imm 0) whose label BuildProgram's patch pass resolves into
// the hi/lo immediates.
type LoadMem struct {
	Tag
	Op    string
	Reg   string
	Base  string
	Imm   int32
	Label string
}

func (l LoadMem) meta() Tag { return l.Tag }

// Move is mfhi/mflo/mthi/mtlo.
type Move struct {
	Tag
	Op  string
	Reg string
}

func (m Move) meta() Tag { return m.Tag }

// MoveFloat covers the floating-point ALU family: binary add/sub/mul/div
// and unary abs/neg/sqrt/mov, in single (.s) or double (.d) format. Ft is
// empty for the unary forms.
type MoveFloat struct {
	Tag
	Op  string
	Fmt string
	Fd  string
	Fs  string
	Ft  string
}

func (m MoveFloat) meta() Tag { return m.Tag }

// MoveCond is movz.fmt/movn.fmt (conditional fp-register copy gated on a
// GPR's value, Rt set / Flag -1) or movt.fmt/movf.fmt (gated on a
// condition flag, Flag set / Rt empty).
type MoveCond struct {
	Tag
	Op   string
	Fmt  string
	Fd   string
	Fs   string
	Rt   string
	Flag int
}

func (m MoveCond) meta() Tag { return m.Tag }

// Compare is c.eq/le/lt.s/.d, writing a numbered condition flag.
type Compare struct {
	Tag
	Op   string
	Fmt  string
	Fs   string
	Ft   string
	Flag int
}

func (c Compare) meta() Tag { return c.Tag }

// Convert is cvt.{w,s,d}.{s,d,w} plus mfc1/mtc1 (raw bit-pattern moves
// between a GPR and an fp register).
type Convert struct {
	Tag
	Op  string
	Dst string
	Src string
}

func (c Convert) meta() Tag { return c.Tag }

// BranchFloat is bc1t/bc1f.
type BranchFloat struct {
	Tag
	Flag    int
	Label   string
	OnTrue  bool
}

func (b BranchFloat) meta() Tag { return b.Tag }

type Syscall struct {
	Tag
}

func (s Syscall) meta() Tag { return s.Tag }

type Nop struct {
	Tag
}

func (n Nop) meta() Tag { return n.Tag }

type Break struct {
	Tag
	Code int
}

func (b Break) meta() Tag { return b.Tag }

// PseudoInstr wraps the basic instructions a pseudo-op expands into,
// carrying the original mnemonic for display and, for the label-bound
// forms (la, load/store-from-label), the label name BuildProgram's
// back-patch pass resolves after the text/label pass completes.
type PseudoInstr struct {
	Tag
	Op     string
	Instrs []Instr
	Label  string
}

func (p PseudoInstr) meta() Tag { return p.Tag }

// Declaration is a .data directive: .word/.half/.byte/.ascii/.asciiz/
// .float/.double/.space/.align, optionally preceded by a label.
type Declaration struct {
	Tag
	Label string
	Type  string // "word","half","byte","ascii","asciiz","float","double","space","align"
	Ints  []int32
	Str   string
}

func (d Declaration) meta() Tag { return d.Tag }

// Label is a bare `name:` line.
type Label struct {
	Tag
	Name string
}

func (l Label) meta() Tag { return l.Tag }

// TerminateSentinel is the synthetic instruction appended after the
// last real one; fetching it ends the run normally (spec.md glossary).
type TerminateSentinel struct {
	Tag
}

func (t TerminateSentinel) meta() Tag { return t.Tag }

// TagOf extracts the common metadata from any Instr via the package-
// private meta() method, giving callers outside this file read access
// without exporting the interface method itself.
func TagOf(i Instr) Tag { return i.meta() }
