package mips

// Config is built once by the driver and injected by reference into the
// assembler pipeline, the Interpreter, Memory, the RegisterFile, and the
// Controller (the Debugger reaches the run state only through its
// Interpreter). Nothing in
// this package reads from a package-level global: every consumer takes a
// *Config explicitly, per the "no mutable singleton" redesign.
type Config struct {
	DataMin uint32
	DataMax uint32

	InitialZero uint32
	InitialGP   uint32
	InitialSP   uint32
	InitialFP   uint32
	InitialPC   uint32
	InitialHI   uint32
	InitialLO   uint32
	InitialRA   uint32

	MaxInstructions int

	GarbageRegisters bool
	GarbageMemory    bool
	Warnings         bool

	// PseudoOps groups opcode names by lexer/parser category, exactly the
	// table settings.py builds its pseudo-op regexes from.
	PseudoOps map[string][]string

	EnabledSyscalls map[int]bool

	Assemble       bool
	Debug          bool
	DispInstrCount bool
}

// DefaultConfig mirrors settings.py's defaults.
func DefaultConfig() *Config {
	return &Config{
		DataMin: 0x10010000,
		DataMax: 0x80000000,

		InitialZero: 0,
		InitialGP:   0x10008000,
		InitialSP:   0x7FFFEFFC,
		InitialFP:   0,
		InitialPC:   0x00400000,
		InitialHI:   0,
		InitialLO:   0,
		InitialRA:   0,

		MaxInstructions: 1000000,

		PseudoOps: map[string][]string{
			"R_TYPE3": {"seq", "sne", "sge", "sgeu", "sgt", "sgtu", "sle", "sleu", "rolv", "rorv"},
			"R_TYPE2": {"move", "neg", "not", "abs"},
			"I_TYPE":  {"rol", "ror"},
			"LOADS_I": {"li"},
			"LOADS_A": {"la"},
			"BRANCH":  {"bge", "bgeu", "bgt", "bgtu", "ble", "bleu", "blt", "bltu", "b"},
			"ZERO_BRANCH": {"beqz", "bnez"},
		},

		EnabledSyscalls: map[int]bool{
			1: true, 4: true, 5: true, 6: true, 8: true, 9: true, 10: true,
			11: true, 13: true, 14: true, 15: true, 16: true, 17: true,
			30: true, 31: true, 32: true, 34: true, 35: true, 36: true,
			40: true, 41: true,
		},
	}
}

const (
	MMIOBase    = 0xFFFF0000
	HeapInitial = 0x10040000
)
