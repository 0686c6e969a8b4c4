package mips

import "sync"

// Controller is the single thread-safe entry point a CLI driver (batch
// or interactive) and a debugger command loop both talk to; every
// method except Pause and Resume (which only flip the interpreter's
// atomic paused flag) takes the lock so the executor goroutine and the
// driver goroutine can never observe or mutate interpreter state at the
// same time. Grounded on original_source/controller.py's Controller class,
// restructured around an explicit sync.Mutex in place of the Python
// original's GIL-backed implicit safety.
type Controller struct {
	mu sync.Mutex

	it  *Interpreter
	dbg *Debugger
	cfg *Config

	running bool
	good    bool
}

func NewController(cfg *Config, it *Interpreter) *Controller {
	return &Controller{
		cfg: cfg,
		it:  it,
		dbg: NewDebugger(it),
		good: true,
	}
}

// SetInterp swaps in a freshly built interpreter, e.g. after a reload.
func (c *Controller) SetInterp(it *Interpreter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.it = it
	c.dbg = NewDebugger(it)
}

func (c *Controller) AddBreakpoint(file string, line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbg.AddBreakpoint(Breakpoint{File: file, Line: line})
}

func (c *Controller) RemoveBreakpoint(file string, line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbg.RemoveBreakpoint(Breakpoint{File: file, Line: line})
}

// Pause requests that an in-flight batch Run suspend before its next
// instruction; safe to call from a different goroutine than the one
// running the interpreter.
func (c *Controller) Pause() {
	c.it.Pause()
}

func (c *Controller) Resume() {
	c.it.Resume()
}

// StepOnce advances exactly one instruction under the debugger's undo
// journal, reporting whether the program has now terminated.
func (c *Controller) StepOnce() (done bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	done, err = c.dbg.StepForward()
	if err != nil {
		if se, ok := err.(*SimError); ok && se.Kind != KindBreakpointException {
			c.good = false
		}
	}
	return done, err
}

// Reverse undoes the most recently executed instruction.
func (c *Controller) Reverse() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dbg.StepBack()
}

func (c *Controller) CanReverse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dbg.CanStepBack()
}

// Continue runs to completion or the next breakpoint, stepping through
// the debugger (so the journal and breakpoint set both stay live)
// rather than calling the interpreter's bare Run.
func (c *Controller) Continue() error {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if !c.running {
			c.mu.Unlock()
			return nil
		}
		done, err := c.dbg.StepForward()
		c.mu.Unlock()
		if err != nil {
			c.mu.Lock()
			c.running = false
			if se, ok := err.(*SimError); ok && se.Kind == KindBreakpointException {
				c.mu.Unlock()
				return nil
			}
			c.good = false
			c.mu.Unlock()
			return err
		}
		if done {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			return nil
		}
	}
}

func (c *Controller) Kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

func (c *Controller) GetByte(addr uint32) (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.it.mem.GetByte(addr, false)
}

func (c *Controller) GetRegWord(name string) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.it.reg.Get(name)
}

func (c *Controller) GetLabels() map[string]uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint32, len(c.it.mem.labels))
	for k, v := range c.it.mem.labels {
		out[k] = v
	}
	return out
}

func (c *Controller) GetInstrCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.it.InstrCount()
}

// SetSetting flips one of the small set of boolean run options a
// debugger session can toggle mid-run (garbage mode, warnings);
// unrecognized names are a no-op, matching controller.py's lenient
// settings dict update.
func (c *Controller) SetSetting(name string, val bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "garbage_registers":
		c.cfg.GarbageRegisters = val
	case "garbage_memory":
		c.cfg.GarbageMemory = val
	case "warnings":
		c.cfg.Warnings = val
	}
}

// Good reports whether every instruction executed so far succeeded
// (no uncaught SimError other than hitting a breakpoint).
func (c *Controller) Good() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.good
}

func (c *Controller) Interpreter() *Interpreter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.it
}
