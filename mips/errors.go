package mips

import "fmt"

// Kind enumerates the error taxonomy used across assembly and execution.
type Kind int

const (
	KindInvalidEQV Kind = iota
	KindFileAlreadyIncluded
	KindFileNotFound
	KindInvalidLabel
	KindInvalidImmediate
	KindInvalidArgument
	KindNoMainLabel
	KindSyntaxError

	KindMemoryOutOfBounds
	KindMemoryAlignment
	KindInvalidCharacter
	KindInvalidSyscall
	KindWritingToZeroRegister
	KindArithmeticOverflow
	KindDivisionByZero
	KindInvalidInput
	KindInstrCountExceed
	KindBreakpointException
	KindInvalidRegister
)

var kindNames = map[Kind]string{
	KindInvalidEQV:            "InvalidEQV",
	KindFileAlreadyIncluded:   "FileAlreadyIncluded",
	KindFileNotFound:          "FileNotFound",
	KindInvalidLabel:          "InvalidLabel",
	KindInvalidImmediate:      "InvalidImmediate",
	KindInvalidArgument:       "InvalidArgument",
	KindNoMainLabel:           "NoMainLabel",
	KindSyntaxError:           "SyntaxError",
	KindMemoryOutOfBounds:     "MemoryOutOfBounds",
	KindMemoryAlignment:       "MemoryAlignment",
	KindInvalidCharacter:      "InvalidCharacter",
	KindInvalidSyscall:        "InvalidSyscall",
	KindWritingToZeroRegister: "WritingToZeroRegister",
	KindArithmeticOverflow:    "ArithmeticOverflow",
	KindDivisionByZero:        "DivisionByZero",
	KindInvalidInput:          "InvalidInput",
	KindInstrCountExceed:      "InstrCountExceed",
	KindBreakpointException:  "BreakpointException",
	KindInvalidRegister:       "InvalidRegister",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownError"
}

// SimError is the single error type raised anywhere in the pipeline. It
// carries enough context to reproduce the driver's "TypeName: message
// (file, line)" format from spec.md §7.
type SimError struct {
	Kind Kind
	Msg  string
	File string
	Line int
}

func (e *SimError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s (%s, %d)", e.Kind, e.Msg, e.File, e.Line)
}

// WithTag returns a copy of e with file/line set from t, leaving an
// already-tagged error untouched (mirrors the original's line_info
// appended once at the point of the first catch).
func (e *SimError) WithTag(t Tag) *SimError {
	if e.File != "" {
		return e
	}
	cp := *e
	cp.File = t.File
	cp.Line = t.Line
	return &cp
}

func newErr(k Kind, format string, args ...any) *SimError {
	return &SimError{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
