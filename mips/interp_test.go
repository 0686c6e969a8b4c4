package mips

import (
	"strings"
	"testing"
)

func TestAbsPseudoOp(t *testing.T) {
	cfg := DefaultConfig()
	src := `
main:
	li $t0, 30000
	li $t1, -30000
	abs $a0, $t0
	li $v0, 1
	syscall
	li $a0, ' '
	li $v0, 11
	syscall
	abs $a0, $t1
	li $v0, 1
	syscall
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, stdout(it) == "30000 30000", "unexpected output: %q", stdout(it))
}

func TestNegPseudoOp(t *testing.T) {
	cfg := DefaultConfig()
	src := `
main:
	li $t0, 30000
	neg $a0, $t0
	li $v0, 1
	syscall
	li $a0, ' '
	li $v0, 11
	syscall
	li $t1, -30000
	neg $a0, $t1
	li $v0, 1
	syscall
	li $a0, ' '
	li $v0, 11
	syscall
	li $t2, 0
	neg $a0, $t2
	li $v0, 1
	syscall
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, stdout(it) == "-30000 30000 0", "unexpected output: %q", stdout(it))
}

func TestSeqSne(t *testing.T) {
	cfg := DefaultConfig()
	src := `
main:
	li $t0, 5
	li $t1, 5
	li $t2, 9

	seq $a0, $t0, $t1
	addi $a0, $a0, 48
	li $v0, 11
	syscall

	seq $a0, $t0, $t2
	addi $a0, $a0, 48
	li $v0, 11
	syscall

	sne $a0, $t0, $t1
	addi $a0, $a0, 48
	li $v0, 11
	syscall

	sne $a0, $t0, $t2
	addi $a0, $a0, 48
	li $v0, 11
	syscall

	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, stdout(it) == "1001", "unexpected output: %q", stdout(it))
}

func TestLiPseudoOp(t *testing.T) {
	cfg := DefaultConfig()
	src := `
main:
	li $t0, 300
	li $t1, -300
	li $t2, 3000000
	li $t3, -3000000

	move $a0, $t0
	li $v0, 1
	syscall
	li $a0, ' '
	li $v0, 11
	syscall

	move $a0, $t1
	li $v0, 1
	syscall
	li $a0, ' '
	li $v0, 11
	syscall

	move $a0, $t2
	li $v0, 1
	syscall
	li $a0, ' '
	li $v0, 11
	syscall

	move $a0, $t3
	li $v0, 1
	syscall

	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, stdout(it) == "300 -300 3000000 -3000000", "unexpected output: %q", stdout(it))
}

func TestAtoiValid(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
buf: .asciiz "02113"
.text
main:
	la $a0, buf
	li $v0, 6
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, it.Registers().Get("$v0") == 2113, "expected 2113, got %d", it.Registers().Get("$v0"))
}

func TestAtoiNegative(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
buf: .asciiz "-12345"
.text
main:
	la $a0, buf
	li $v0, 6
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, it.Registers().Get("$v0") == -12345, "expected -12345, got %d", it.Registers().Get("$v0"))
}

func TestAtoiInvalidCharacter(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
buf: .asciiz "123e45"
.text
main:
	la $a0, buf
	li $v0, 6
	syscall
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	se, ok := err.(*SimError)
	assert(t, ok && se.Kind == KindInvalidCharacter, "expected InvalidCharacter, got %v", err)
}

func TestAtoiEmpty(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
buf: .asciiz ""
.text
main:
	la $a0, buf
	li $v0, 6
	syscall
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	se, ok := err.(*SimError)
	assert(t, ok && se.Kind == KindInvalidCharacter, "expected InvalidCharacter, got %v", err)
}

func TestSbrk(t *testing.T) {
	cfg := DefaultConfig()
	src := `
main:
	li $a0, 5
	li $v0, 9
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	assert(t, uint32(it.Registers().Get("$v0")) == HeapInitial, "expected heap base 0x%x, got 0x%x", HeapInitial, it.Registers().Get("$v0"))
	assert(t, it.Memory().HeapPtr() == HeapInitial+8, "expected heap ptr 0x%x, got 0x%x", HeapInitial+8, it.Memory().HeapPtr())
}

func TestMemDumpAddressOrder(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
buf: .asciiz "abcdefgh"
.text
main:
	la $a0, buf
	addi $a1, $a0, 8
	li $v0, 30
	syscall
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	err := runToCompletion(t, it)
	assert(t, err == nil, "run failed: %v", err)
	out := stdout(it)
	assert(t, strings.Contains(out, "61  62  63  64"), "expected ascending byte order in first row, got:\n%s", out)
	assert(t, strings.Contains(out, "a  b  c  d"), "expected ascii row in ascending order, got:\n%s", out)
}

func TestDeclarationAlignment(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
b: .byte 1
w: .word 0xdeadbeef
h: .half 0
d: .double 0, 0
.text
main:
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	bAddr, ok := it.Memory().GetLabel("b")
	assert(t, ok, "expected label b")
	wAddr, ok := it.Memory().GetLabel("w")
	assert(t, ok, "expected label w")
	hAddr, ok := it.Memory().GetLabel("h")
	assert(t, ok, "expected label h")
	dAddr, ok := it.Memory().GetLabel("d")
	assert(t, ok, "expected label d")

	assert(t, wAddr > bAddr && wAddr%4 == 0, "expected w (0x%x) word-aligned after b (0x%x)", wAddr, bAddr)
	assert(t, hAddr%2 == 0, "expected h (0x%x) half-aligned", hAddr)
	assert(t, dAddr%8 == 0, "expected d (0x%x) double-aligned", dAddr)

	v, err := it.Memory().GetWord(wAddr)
	assert(t, err == nil, "read of w failed: %v", err)
	assert(t, uint32(v) == 0xdeadbeef, "expected 0xdeadbeef, got 0x%x", uint32(v))
}

func TestReversibility(t *testing.T) {
	cfg := DefaultConfig()
	src := `
main:
	li $t0, 7
	addi $t0, $t0, 5
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	dbg := NewDebugger(it)
	startPC := it.Registers().PC()

	// execute only li and addi, the two instructions reversed below
	for i := 0; i < 2; i++ {
		_, err := dbg.StepForward()
		assert(t, err == nil, "step failed: %v", err)
	}
	assert(t, it.Registers().Get("$t0") == 12, "expected $t0 == 12, got %d", it.Registers().Get("$t0"))

	assert(t, dbg.CanStepBack(), "expected history to be non-empty")
	assert(t, dbg.StepBack() == nil, "first reverse failed")
	assert(t, dbg.StepBack() == nil, "second reverse failed")

	assert(t, it.Registers().Get("$t0") == 0, "expected $t0 == 0 after two reverses, got %d", it.Registers().Get("$t0"))
	assert(t, it.Registers().PC() == startPC, "expected pc == %d, got %d", startPC, it.Registers().PC())
}

func TestReversibilityRestoresMemory(t *testing.T) {
	cfg := DefaultConfig()
	src := `
.data
buf: .word 0
.text
main:
	la $t0, buf
	li $t1, 111
	sw $t1, 0($t0)
	li $v0, 10
	syscall
`
	it := assembleSource(t, cfg, src)
	dbg := NewDebugger(it)

	addr, ok := it.Memory().GetLabel("buf")
	assert(t, ok, "expected buf label to be defined")
	before, err := it.Memory().GetWord(addr)
	assert(t, err == nil, "read before store failed: %v", err)

	for {
		done, err := dbg.StepForward()
		assert(t, err == nil, "step failed: %v", err)
		if done {
			break
		}
	}
	after, err := it.Memory().GetWord(addr)
	assert(t, err == nil, "read after store failed: %v", err)
	assert(t, after == 111, "expected store to take effect, got %d", after)

	for dbg.CanStepBack() {
		assert(t, dbg.StepBack() == nil, "reverse failed")
	}

	restored, err := it.Memory().GetWord(addr)
	assert(t, err == nil, "read after reverse failed: %v", err)
	assert(t, restored == before, "expected memory restored to %d, got %d", before, restored)
}
