package vm

import (
	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/slotvm/pkg/script"
)

// Options configures a VM.
type Options struct {
	// Trace logs every executed instruction at debug level.
	Trace bool

	// MaxCallDepth limits nested calls. Zero or anything above
	// script.CallStackSize means script.CallStackSize.
	MaxCallDepth int

	// Logger receives load, fault and trace messages. Defaults to the
	// "slotvm.vm" commonlog logger.
	Logger commonlog.Logger
}

// VM holds a loaded script and all runtime state. A VM is not safe for
// concurrent use; it is driven by a single owner through Load, Step and Run.
type VM struct {
	id uuid.UUID

	// loaded program
	script    script.Script
	functions *functionTable

	// runtime state
	ip         script.InstrPtr
	cmp        script.ComparisonResult
	cond       bool
	regs       [script.RegisterCount]script.Value
	callStack  [script.CallStackSize]script.InstrPtr
	callDepth  int
	maxDepth   int
	inCallback bool

	// host bindings, preserved across loads
	slots    [script.SlotCount]slotData
	registry []registeredFunc

	trace bool
	log   commonlog.Logger
}

// New creates a VM with no script loaded. Stepping it reports
// EndOfExecution until Load succeeds.
func New() *VM {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a VM configured by opts.
func NewWithOptions(opts Options) *VM {
	vm := &VM{
		id:       uuid.New(),
		trace:    opts.Trace,
		maxDepth: opts.MaxCallDepth,
		log:      opts.Logger,
	}
	if vm.maxDepth <= 0 || vm.maxDepth > script.CallStackSize {
		vm.maxDepth = script.CallStackSize
	}
	if vm.log == nil {
		vm.log = commonlog.GetLogger("slotvm.vm")
	}
	vm.reset()
	return vm
}

// SetTrace enables or disables per-instruction trace logging.
func (vm *VM) SetTrace(on bool) {
	vm.trace = on
}

// reset clears runtime state. Slots and the function registry are host
// bindings and are left alone.
func (vm *VM) reset() {
	vm.ip = 0
	vm.cmp = script.Unknown
	vm.cond = false
	vm.regs = [script.RegisterCount]script.Value{}
	for i := range vm.callStack {
		vm.callStack[i] = script.InvalidInstrPtr
	}
	vm.callDepth = 0
}

// Load resets runtime state, takes a private copy of s and binds its
// symbols to registered host functions. If any symbol is unresolved the
// VM is left reset with no script loaded and a MissingSymbol error is
// returned; a script that fails (*script.Script).Validate is rejected the
// same way with InvalidScript. Register every function the script needs
// before calling Load.
func (vm *VM) Load(s script.Script) error {
	if vm.inCallback {
		return fault(ReentrantCall, vm.ip)
	}

	vm.reset()
	vm.script = script.Script{}
	vm.functions = nil

	table, err := resolve(s.Symbols, vm.registry)
	if err == nil {
		if verr := s.Validate(); verr != nil {
			err = &Error{Code: InvalidScript, Err: verr}
		}
	}
	if err != nil {
		vm.log.Errorf("vm %s: load failed: %s", vm.id, err)
		return err
	}

	vm.script = s.Clone()
	vm.functions = table
	vm.log.Infof("vm %s: loaded %d instructions, %d constants, %d markers, %d symbols",
		vm.id, len(vm.script.Code), len(vm.script.Constants), len(vm.script.Markers), len(vm.script.Symbols))
	return nil
}

// ID returns the VM's instance identifier, used in log messages and snapshots.
func (vm *VM) ID() uuid.UUID {
	return vm.id
}

// Script returns a copy of the loaded script.
func (vm *VM) Script() script.Script {
	return vm.script.Clone()
}

// IP returns the instruction pointer.
func (vm *VM) IP() script.InstrPtr {
	return vm.ip
}

// SetIP moves the instruction pointer, for diagnostic tooling that needs
// to continue past a fault.
func (vm *VM) SetIP(ip script.InstrPtr) {
	vm.ip = ip
}

// Reg returns the value of register r.
func (vm *VM) Reg(r script.Register) script.Value {
	return vm.regs[r&script.RegisterMask]
}

// SetReg overwrites register r.
func (vm *VM) SetReg(r script.Register, v script.Value) {
	vm.regs[r&script.RegisterMask] = v
}

// Registers returns a copy of the register file.
func (vm *VM) Registers() [script.RegisterCount]script.Value {
	return vm.regs
}

// Comparison returns the result of the last CMP.
func (vm *VM) Comparison() script.ComparisonResult {
	return vm.cmp
}

// Condition returns the condition flag.
func (vm *VM) Condition() bool {
	return vm.cond
}

// CallDepth returns the number of active call stack entries.
func (vm *VM) CallDepth() int {
	return vm.callDepth
}

// CallStack returns the active return addresses, outermost first.
func (vm *VM) CallStack() []script.InstrPtr {
	out := make([]script.InstrPtr, vm.callDepth)
	copy(out, vm.callStack[:vm.callDepth])
	return out
}

// Halted reports whether the instruction pointer is at or past the end of the code.
func (vm *VM) Halted() bool {
	return int(vm.ip) >= len(vm.script.Code)
}
