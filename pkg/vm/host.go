package vm

import "github.com/chazu/slotvm/pkg/script"

// SlotObserver is notified when a script writes a slot with MVR2S.
// It runs synchronously inside Step and must not step the same VM.
type SlotObserver interface {
	SlotChanged(slot script.Slot, value script.Value)
}

// SlotFunc adapts a plain function to SlotObserver.
type SlotFunc func(slot script.Slot, value script.Value)

// SlotChanged calls f.
func (f SlotFunc) SlotChanged(slot script.Slot, value script.Value) {
	f(slot, value)
}

// Function is a host function callable from a script with XCALL.
// args holds the registers from the base register to the end of the
// register file. It runs synchronously inside Step and must not step the
// same VM.
type Function interface {
	Call(args []script.Value) script.Value
}

// HostFunc adapts a plain function to Function.
type HostFunc func(args ...script.Value) script.Value

// Call calls f.
func (f HostFunc) Call(args []script.Value) script.Value {
	return f(args...)
}

type slotData struct {
	value    script.Value
	observer SlotObserver
}

type registeredFunc struct {
	name string
	fn   Function
}

// Bind installs observer for slot, replacing any previous one (nil
// removes it), and returns a pointer to the slot's value cell. The pointer
// stays valid for the life of the VM; the host may read it at any time or
// pre-seed it before running.
func (vm *VM) Bind(slot script.Slot, observer SlotObserver) *script.Value {
	vm.slots[slot].observer = observer
	return &vm.slots[slot].value
}

// Slot returns the current value of slot.
func (vm *VM) Slot(slot script.Slot) script.Value {
	return vm.slots[slot].value
}

// Register appends a host function to the registry consulted by Load.
// Registering a name twice is allowed; the first registration wins.
func (vm *VM) Register(name string, fn Function) {
	vm.registry = append(vm.registry, registeredFunc{name: name, fn: fn})
}

// RegisterFunc is shorthand for Register(name, HostFunc(fn)).
func (vm *VM) RegisterFunc(name string, fn func(args ...script.Value) script.Value) {
	vm.Register(name, HostFunc(fn))
}

// Registered returns the names in the host function registry, in order.
func (vm *VM) Registered() []string {
	names := make([]string, len(vm.registry))
	for i, r := range vm.registry {
		names[i] = r.name
	}
	return names
}

// notifySlot runs the observer for slot, if any, with the reentrancy guard held.
func (vm *VM) notifySlot(slot script.Slot) {
	obs := vm.slots[slot].observer
	if obs == nil {
		return
	}
	vm.inCallback = true
	defer func() { vm.inCallback = false }()
	obs.SlotChanged(slot, vm.slots[slot].value)
}

// callExternal runs fn with the guard held.
func (vm *VM) callExternal(fn Function, args []script.Value) script.Value {
	vm.inCallback = true
	defer func() { vm.inCallback = false }()
	return fn.Call(args)
}
