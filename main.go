package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kevintmcdonnell/STARS/mips"
)

// cliOptions mirrors the flag set spec.md §6 names; parsed by hand
// rather than with package flag since -pa must swallow every remaining
// argument as program arguments instead of being parsed as more flags.
type cliOptions struct {
	filename       string
	assembleOnly   bool
	debug          bool
	garbage        bool
	maxInstrs      int
	hasMaxInstrs   bool
	dispInstrCount bool
	warnings       bool
	programArgs    []string
}

func parseArgs(argv []string) (*cliOptions, error) {
	opts := &cliOptions{}
	if len(argv) == 0 {
		return nil, fmt.Errorf("usage: assembler FILENAME [-a|--assemble] [-d|--debug] [-g|--garbage] [-n N|--max_instructions N] [-i|--disp_instr_count] [-w|--warnings] [-pa ARG...]")
	}
	opts.filename = argv[0]
	i := 1
	for i < len(argv) {
		switch argv[i] {
		case "-a", "--assemble":
			opts.assembleOnly = true
			i++
		case "-d", "--debug":
			opts.debug = true
			i++
		case "-g", "--garbage":
			opts.garbage = true
			i++
		case "-i", "--disp_instr_count":
			opts.dispInstrCount = true
			i++
		case "-w", "--warnings":
			opts.warnings = true
			i++
		case "-n", "--max_instructions":
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("%s requires a value", argv[i])
			}
			n, err := strconv.Atoi(argv[i+1])
			if err != nil {
				return nil, fmt.Errorf("invalid max_instructions value %q", argv[i+1])
			}
			opts.maxInstrs = n
			opts.hasMaxInstrs = true
			i += 2
		case "-pa":
			opts.programArgs = argv[i+1:]
			i = len(argv)
		default:
			return nil, fmt.Errorf("unknown option %q", argv[i])
		}
	}
	return opts, nil
}

func buildConfig(opts *cliOptions) *mips.Config {
	cfg := mips.DefaultConfig()
	cfg.GarbageRegisters = opts.garbage
	cfg.GarbageMemory = opts.garbage
	cfg.Warnings = opts.warnings
	cfg.Assemble = opts.assembleOnly
	cfg.Debug = opts.debug
	cfg.DispInstrCount = opts.dispInstrCount
	if opts.hasMaxInstrs {
		cfg.MaxInstructions = opts.maxInstrs
	}
	return cfg
}

// assemble runs the preprocessor/lexer/parser/build pipeline, returning
// a ready-to-run Interpreter or the first error encountered.
func assemble(cfg *mips.Config, filename string, in *os.File, out *os.File) (*mips.Interpreter, error) {
	pre := mips.NewPreprocessor(cfg)
	text, _, err := pre.Run(filename)
	if err != nil {
		return nil, err
	}

	lx := mips.NewLexer(cfg)
	lines, err := lx.Tokenize(text)
	if err != nil {
		return nil, err
	}

	parser := mips.NewParser(cfg)
	items, err := parser.Parse(lines)
	if err != nil {
		return nil, err
	}

	it := mips.NewInterpreter(cfg, in, out)
	if err := it.BuildProgram(items); err != nil {
		return nil, err
	}
	return it, nil
}

// packArgs lays the program's command-line arguments out on the
// emulated machine per spec.md §6: argv strings packed downward from
// data_max-3, an argc word plus argc pointers placed just below the
// initial stack pointer, and $sp/$a0/$a1 updated to match.
func packArgs(it *mips.Interpreter, cfg *mips.Config, args []string) error {
	if len(args) == 0 {
		return nil
	}
	mem := it.Memory()
	cursor := cfg.DataMax - 3
	addrs := make([]uint32, len(args))
	for i, arg := range args {
		bytes := append([]byte(arg), 0)
		cursor -= uint32(len(bytes))
		for j, b := range bytes {
			if err := mem.SetByte(cursor+uint32(j), b); err != nil {
				return err
			}
		}
		addrs[i] = cursor
	}

	argc := uint32(len(args))
	sp0 := cfg.InitialSP - 4 - 4*argc
	if err := mem.AddWord(int32(argc), sp0); err != nil {
		return err
	}
	for i, addr := range addrs {
		if err := mem.AddWord(int32(addr), sp0+4+4*uint32(i)); err != nil {
			return err
		}
	}

	reg := it.Registers()
	if err := reg.Set("$sp", int32(sp0)); err != nil {
		return err
	}
	if err := reg.Set("$a0", int32(argc)); err != nil {
		return err
	}
	return reg.Set("$a1", int32(sp0+4))
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := buildConfig(opts)
	it, err := assemble(cfg, opts.filename, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer it.Memory().CloseAll()

	if cfg.Assemble {
		fmt.Println("assembled successfully")
		return
	}

	if err := it.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := packArgs(it, cfg, opts.programArgs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var runErr error
	if cfg.Debug {
		runErr = runDebugSession(cfg, it)
	} else {
		runErr = it.Run(nil)
	}

	if cfg.DispInstrCount {
		fmt.Fprintf(os.Stderr, "instructions executed: %d\n", it.InstrCount())
	}
	if cfg.Warnings {
		for _, w := range it.Warnings() {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
	os.Exit(it.ExitCode())
}

// runDebugSession drives an interactive break/next/continue/print/
// reverse/kill session over stdin, grounded on
// original_source/interpreter/interpreter.py's Debug.listen command
// loop.
func runDebugSession(cfg *mips.Config, it *mips.Interpreter) error {
	ctrl := mips.NewController(cfg, it)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("entering debug mode - type 'help' for commands")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]

		switch cmd {
		case "break", "b":
			if len(fields) < 3 {
				fmt.Println("usage: break FILE LINE")
				continue
			}
			lineno, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("invalid line number:", fields[2])
				continue
			}
			ctrl.AddBreakpoint(fields[1], lineno)
		case "delete", "d":
			if len(fields) < 3 {
				fmt.Println("usage: delete FILE LINE")
				continue
			}
			lineno, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("invalid line number:", fields[2])
				continue
			}
			ctrl.RemoveBreakpoint(fields[1], lineno)
		case "next", "n":
			done, err := ctrl.StepOnce()
			if err != nil {
				fmt.Println(err)
			}
			if done {
				return nil
			}
		case "continue", "c":
			if err := ctrl.Continue(); err != nil {
				fmt.Println(err)
			}
			if it.Terminated() {
				return nil
			}
		case "reverse", "r":
			if err := ctrl.Reverse(); err != nil {
				fmt.Println(err)
			}
		case "kill":
			ctrl.Kill()
			return nil
		case "print", "p":
			if len(fields) < 2 {
				fmt.Println("usage: print <reg|label> [format]")
				continue
			}
			printTarget(it, fields[1])
		case "info":
			fmt.Printf("instructions executed: %d\n", it.InstrCount())
		case "help":
			fmt.Println("break|b FILE LINE, delete|d FILE LINE, next|n, continue|c, reverse|r, kill, print|p NAME, info")
		default:
			fmt.Println("unknown command:", cmd)
		}
	}
	return nil
}

func printTarget(it *mips.Interpreter, name string) {
	if strings.HasPrefix(name, "$") {
		fmt.Println(mips.FormatRegister(name, it.Registers().Get(name)))
		return
	}
	addr, ok := it.Memory().GetLabel(name)
	if !ok {
		fmt.Println("unknown register or label:", name)
		return
	}
	s, err := it.Memory().GetString(addr, 256)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s (0x%08x): %s\n", name, addr, s)
}
