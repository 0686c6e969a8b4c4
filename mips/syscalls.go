package mips

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
)

// SyscallHandler runs one enumerated syscall (selector in $v0) against
// the interpreter's registers, memory, and output sink. Grounded line-
// for-line on original_source/syscalls.py.
type SyscallHandler func(it *Interpreter) error

var syscallTable = map[int]SyscallHandler{
	1:  scPrintInt,
	4:  scPrintString,
	5:  scReadInt,
	6:  scAtoi,
	8:  scReadString,
	9:  scSbrk,
	10: scExit,
	11: scPrintChar,
	13: scOpenFile,
	14: scReadFile,
	15: scWriteFile,
	16: scCloseFile,
	17: scExit2,
	30: scMemDump,
	31: scRegDump,
	32: scFileDump,
	34: scPrintHex,
	35: scPrintBin,
	36: scPrintUint,
	40: scSeedRand,
	41: scRandInt,
}

func scPrintInt(it *Interpreter) error {
	fmt.Fprintf(it.out, "%d", it.reg.Get("$a0"))
	return nil
}

func scPrintHex(it *Interpreter) error {
	fmt.Fprint(it.out, formatHex32(it.reg.Get("$a0")))
	return nil
}

func scPrintBin(it *Interpreter) error {
	fmt.Fprint(it.out, formatBin32(it.reg.Get("$a0")))
	return nil
}

func scPrintUint(it *Interpreter) error {
	fmt.Fprintf(it.out, "%d", toUnsignedDecimal(it.reg.Get("$a0")))
	return nil
}

// getCString reads a nul-terminated string from memory, refusing any
// byte outside the printable set (spec.md §6 "Invalid characters").
func getCString(mem *Memory, addr uint32, limit int) (string, error) {
	var buf []byte
	for limit != 0 {
		b, err := mem.GetByte(addr, false)
		if err != nil {
			return "", err
		}
		c := byte(b)
		if c == 0 {
			break
		}
		if !isPrintable(c) {
			return "", newErr(KindInvalidCharacter, "character with ASCII code %d can't be printed", c)
		}
		buf = append(buf, c)
		addr++
		if limit > 0 {
			limit--
		}
	}
	return string(buf), nil
}

func scPrintString(it *Interpreter) error {
	s, err := getCString(it.mem, uint32(it.reg.Get("$a0")), -1)
	if err != nil {
		return err
	}
	fmt.Fprint(it.out, s)
	return nil
}

func scPrintChar(it *Interpreter) error {
	c := byte(it.reg.Get("$a0"))
	if !isPrintable(c) {
		return newErr(KindInvalidCharacter, "character with ASCII code %d can't be printed", c)
	}
	fmt.Fprint(it.out, string(rune(c)))
	return nil
}

func scAtoi(it *Interpreter) error {
	addr := uint32(it.reg.Get("$a0"))
	sign := int64(1)
	b, err := it.mem.GetByte(addr, false)
	if err != nil {
		return err
	}
	if byte(b) == '-' {
		sign = -1
		addr++
	}
	b, err = it.mem.GetByte(addr, false)
	if err != nil {
		return err
	}
	if byte(b) == 0 {
		return newErr(KindInvalidCharacter, "empty string passed to atoi syscall")
	}
	var result int64
	for {
		b, err = it.mem.GetByte(addr, false)
		if err != nil {
			return err
		}
		c := byte(b)
		if c == 0 {
			break
		}
		if c < '0' || c > '9' {
			return newErr(KindInvalidCharacter, "character with ASCII code %d is not a number", c)
		}
		result = result*10 + int64(c-'0')
		addr++
	}
	return it.reg.Set("$v0", overflowDetect(result*sign))
}

func scReadInt(it *Interpreter) error {
	line, err := it.readLine()
	if err != nil {
		return newErr(KindInvalidInput, "%v", err)
	}
	var v int64
	_, scanErr := fmt.Sscanf(line, "%d", &v)
	if scanErr != nil {
		return newErr(KindInvalidInput, "%s", line)
	}
	return it.reg.Set("$v0", overflowDetect(v))
}

func scReadString(it *Interpreter) error {
	line, err := it.readLine()
	if err != nil {
		return newErr(KindInvalidInput, "%v", err)
	}
	max := int(it.reg.Get("$a1"))
	if len(line) > max {
		line = line[:max]
	}
	return it.mem.AddAsciiz(line, uint32(it.reg.Get("$a0")))
}

func scSbrk(it *Interpreter) error {
	if it.mem.HeapPtr() > uint32(it.cfg.InitialSP) {
		return newErr(KindMemoryOutOfBounds, "heap has exceeded the upper limit of 0x%08x", it.cfg.InitialSP)
	}
	bytes := it.reg.Get("$a0")
	if bytes < 0 {
		return newErr(KindInvalidArgument, "$a0 must be a non-negative number")
	}
	base := it.mem.HeapPtr()
	newPtr := base + uint32(bytes)
	if newPtr%4 != 0 {
		newPtr += 4 - newPtr%4
	}
	it.mem.SetHeapPtr(newPtr)
	return it.reg.Set("$v0", int32(base))
}

func scExit(it *Interpreter) error {
	it.terminated = true
	it.exitCode = 0
	return errProgramFinished
}

func scExit2(it *Interpreter) error {
	it.terminated = true
	it.exitCode = int(it.reg.Get("$a0"))
	return errProgramFinished
}

func scOpenFile(it *Interpreter) error {
	name, err := getCString(it.mem, uint32(it.reg.Get("$a0")), -1)
	if err != nil || name == "" {
		return it.reg.Set("$v0", -1)
	}
	fd, err := it.mem.OpenFile(name, int(it.reg.Get("$a1")))
	if err != nil {
		return err
	}
	return it.reg.Set("$v0", int32(fd))
}

func scReadFile(it *Interpreter) error {
	fd := int(it.reg.Get("$a0"))
	n := int(it.reg.Get("$a2"))
	buf := make([]byte, n)
	read, err := it.mem.ReadFile(fd, buf)
	if err != nil && err != io.EOF {
		return it.reg.Set("$v0", -1)
	}
	if read < 0 {
		return it.reg.Set("$v0", -1)
	}
	if err := it.mem.AddAsciiz(string(buf[:read]), uint32(it.reg.Get("$a1"))); err != nil {
		return err
	}
	if read < n {
		return it.reg.Set("$v0", 0)
	}
	return it.reg.Set("$v0", int32(read))
}

func scWriteFile(it *Interpreter) error {
	fd := int(it.reg.Get("$a0"))
	n := int(it.reg.Get("$a2"))
	s, err := getCString(it.mem, uint32(it.reg.Get("$a1")), n)
	if err != nil {
		return err
	}
	written, err := it.mem.WriteFile(fd, []byte(s))
	if err != nil {
		return it.reg.Set("$v0", -1)
	}
	return it.reg.Set("$v0", int32(written))
}

func scCloseFile(it *Interpreter) error {
	return it.mem.CloseFile(int(it.reg.Get("$a0")))
}

func scFileDump(it *Interpreter) error {
	for _, line := range it.mem.DumpFiles() {
		fmt.Fprintln(it.out, line)
	}
	return nil
}

func scMemDump(it *Interpreter) error {
	low := uint32(it.reg.Get("$a0"))
	high := uint32(it.reg.Get("$a1"))
	if low%4 != 0 {
		low -= low % 4
	}
	if high%4 != 0 {
		high += 4 - high%4
	}
	fmt.Fprintf(it.out, "%-12s%-16s%-12s\n", "addr", "hex", "ascii")
	for i := low; i < high; i += 4 {
		fmt.Fprintf(it.out, "0x%x  ", i)
		var bytes [4]byte
		for step := 0; step < 4; step++ {
			b, err := it.mem.GetByte(i+uint32(step), false)
			if err != nil {
				return err
			}
			bytes[step] = byte(b)
		}
		for step := 0; step < 4; step++ {
			fmt.Fprintf(it.out, "%02x  ", bytes[step])
		}
		for step := 0; step < 4; step++ {
			c := bytes[step]
			switch {
			case c == 0:
				fmt.Fprint(it.out, "\\0 ")
			case c == 9:
				fmt.Fprint(it.out, "\\t ")
			case c == 10:
				fmt.Fprint(it.out, "\\n ")
			case c >= 32 && c < 127:
				fmt.Fprintf(it.out, "%c  ", c)
			default:
				fmt.Fprint(it.out, ".  ")
			}
		}
		fmt.Fprintln(it.out)
	}
	return nil
}

func scRegDump(it *Interpreter) error {
	fmt.Fprintf(it.out, "%-4s %-10s %s\n", "reg", "hex", "dec")
	for _, name := range GPRNames {
		v := it.reg.Get(name)
		fmt.Fprintf(it.out, "%-4s %s %d\n", name, formatHex32(v), v)
	}
	fmt.Fprintf(it.out, "%-4s %s %d\n", "pc", formatHex32(int32(it.reg.PC())), it.reg.PC())
	fmt.Fprintf(it.out, "%-4s %s %d\n", "hi", formatHex32(it.reg.HI()), it.reg.HI())
	fmt.Fprintf(it.out, "%-4s %s %d\n", "lo", formatHex32(it.reg.LO()), it.reg.LO())
	return nil
}

func scSeedRand(it *Interpreter) error {
	it.rng = rand.New(rand.NewSource(int64(it.reg.Get("$a0"))))
	return nil
}

func scRandInt(it *Interpreter) error {
	upper := it.reg.Get("$a0")
	if upper < 0 {
		return newErr(KindInvalidArgument, "upper value for randInt must be nonnegative")
	}
	if it.rng == nil {
		it.rng = rand.New(rand.NewSource(1))
	}
	return it.reg.Set("$v0", it.rng.Int31n(upper+1))
}

// readLine reads one line from the interpreter's input source, the
// suspension point spec.md §5 names for read_int/read_string.
func (it *Interpreter) readLine() (string, error) {
	if it.stdin == nil {
		it.stdin = bufio.NewReader(it.in)
	}
	line, err := it.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}
