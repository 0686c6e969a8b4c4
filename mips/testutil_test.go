package mips

import (
	"bytes"
	"fmt"
	"os"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

// assembleSource writes source to a temp file and runs it through the
// preprocessor/lexer/parser/build pipeline, the way compileAndCheckSource
// built a *VM from a source string in the teacher's test harness.
func assembleSource(t *testing.T, cfg *Config, source string) *Interpreter {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.asm")
	assert(t, err == nil, "failed to create temp file: %v", err)
	_, err = f.WriteString(source)
	assert(t, err == nil, "failed to write temp file: %v", err)
	f.Close()

	pre := NewPreprocessor(cfg)
	text, _, err := pre.Run(f.Name())
	assert(t, err == nil, "preprocess failed: %v", err)

	lx := NewLexer(cfg)
	lines, err := lx.Tokenize(text)
	assert(t, err == nil, "tokenize failed: %v", err)

	p := NewParser(cfg)
	items, err := p.Parse(lines)
	assert(t, err == nil, "parse failed: %v", err)

	out := &bytes.Buffer{}
	it := NewInterpreter(cfg, bytes.NewReader(nil), out)
	err = it.BuildProgram(items)
	assert(t, err == nil, "build failed: %v", err)
	err = it.Start()
	assert(t, err == nil, "start failed: %v", err)
	return it
}

// runToCompletion drives Step until termination or a reported error,
// capping iterations so a test bug can't hang the suite.
func runToCompletion(t *testing.T, it *Interpreter) error {
	t.Helper()
	for i := 0; i < 100000; i++ {
		done, err := it.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	t.Fatalf("program did not terminate within 100000 steps")
	return nil
}

func stdout(it *Interpreter) string {
	return it.out.(*bytes.Buffer).String()
}
