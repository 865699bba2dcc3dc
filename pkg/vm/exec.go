package vm

import (
	"errors"

	"github.com/tliron/commonlog"

	"github.com/chazu/slotvm/pkg/script"
)

// Run steps until the script ends or faults. Running off the end of the
// code is a normal termination and returns nil; any other error is
// returned as produced by Step, with Offset at the faulting instruction.
func (vm *VM) Run() error {
	for {
		if err := vm.Step(); err != nil {
			if errors.Is(err, ErrEndOfExecution) {
				return nil
			}
			return err
		}
	}
}

// Step executes one instruction. When the instruction pointer is at or
// past the end of the code it returns an EndOfExecution error carrying
// the pointer. On success the pointer always advances by one, even after
// a jump, call or return has repositioned it; encoded targets therefore
// name the address before their destination (see script.JumpTarget).
// On failure the pointer is left on the faulting instruction, so stepping
// again reports the same fault.
func (vm *VM) Step() error {
	if vm.inCallback {
		return fault(ReentrantCall, vm.ip)
	}
	if vm.Halted() {
		return fault(EndOfExecution, vm.ip)
	}

	w := vm.script.Code[vm.ip]
	if vm.trace && vm.log.AllowLevel(commonlog.Debug) {
		vm.log.Debugf("vm %s: %04X  %-20s cmp=%s cond=%t depth=%d",
			vm.id, vm.ip, script.DisassembleInstr(w), vm.cmp, vm.cond, vm.callDepth)
	}

	var err *Error
	if script.IsExtended(w) {
		err = vm.execEx(script.DecodeExtended(w))
	} else {
		err = vm.exec(script.DecodeStandard(w))
	}
	if err != nil {
		vm.log.Warningf("vm %s: %s", vm.id, err)
		return err
	}

	vm.ip++
	return nil
}

// exec runs a standard-form instruction.
func (vm *VM) exec(in script.InstrS) *Error {
	switch op := in.Opcode(); op {
	case script.OpNop:

	case script.OpMov:
		vm.regs[in.Hi()] = vm.regs[in.Lo()]

	case script.OpCmp:
		a, b := vm.regs[in.Hi()], vm.regs[in.Lo()]
		switch {
		case a < b:
			vm.cmp = script.Lesser
		case a > b:
			vm.cmp = script.Greater
		default:
			vm.cmp = script.Equal
		}
		vm.cond = a == b

	case script.OpTest:
		vm.cond = vm.regs[in.Hi()] != 0

	case script.OpBool:
		vm.cond = vm.slots[in.Arg].value != 0

	case script.OpJmp:
		target, err := vm.marker(in.Arg)
		if err != nil {
			return err
		}
		vm.ip = target

	case script.OpJSA:
		vm.ip = script.InstrPtr(in.Arg)

	case script.OpJSR:
		vm.ip += script.InstrPtr(in.Arg)

	case script.OpJL, script.OpJE, script.OpJG, script.OpJNE, script.OpJGE, script.OpJLE, script.OpJT, script.OpJF:
		if !vm.branchTaken(op) {
			break
		}
		target, err := vm.marker(in.Arg)
		if err != nil {
			return err
		}
		vm.ip = target

	case script.OpCall:
		target, err := vm.marker(in.Arg)
		if err != nil {
			return err
		}
		if err := vm.push(); err != nil {
			return err
		}
		vm.ip = target

	case script.OpCallSA:
		if err := vm.push(); err != nil {
			return err
		}
		vm.ip = script.InstrPtr(in.Arg)

	case script.OpCallSR:
		if err := vm.push(); err != nil {
			return err
		}
		vm.ip += script.InstrPtr(in.Arg)

	case script.OpRet:
		if vm.callDepth == 0 {
			return fault(InvalidReturn, vm.ip)
		}
		vm.callDepth--
		vm.ip = vm.callStack[vm.callDepth]
		vm.callStack[vm.callDepth] = script.InvalidInstrPtr

	default:
		return fault(IllegalInstr, vm.ip)
	}
	return nil
}

// execEx runs an extended-form instruction.
func (vm *VM) execEx(in script.InstrEx) *Error {
	switch in.Opcode() {
	case script.OpMvS2R:
		vm.regs[in.Reg] = vm.slots[in.Arg].value

	case script.OpMvR2S:
		slot := script.Slot(in.Arg)
		vm.slots[slot].value = vm.regs[in.Reg]
		vm.notifySlot(slot)

	case script.OpLdI:
		vm.regs[in.Reg] = script.Value(in.Arg)

	case script.OpLdC:
		if int(in.Arg) >= len(vm.script.Constants) {
			return fault(ConstantOutOfRange, vm.ip)
		}
		vm.regs[in.Reg] = vm.script.Constants[in.Arg]

	case script.OpXCall:
		fn := vm.function(in.Arg)
		if fn == nil {
			return fault(IllegalExternalCall, vm.ip)
		}
		args := make([]script.Value, script.RegisterCount-int(in.Reg))
		copy(args, vm.regs[in.Reg:])
		vm.regs[0] = vm.callExternal(fn, args)

	default:
		return fault(IllegalInstr, vm.ip)
	}
	return nil
}

// branchTaken evaluates the predicate of a conditional jump.
func (vm *VM) branchTaken(op script.Opcode) bool {
	switch op {
	case script.OpJL:
		return vm.cmp == script.Lesser
	case script.OpJE:
		return vm.cmp == script.Equal
	case script.OpJG:
		return vm.cmp == script.Greater
	case script.OpJNE:
		return vm.cmp != script.Equal
	case script.OpJGE:
		return vm.cmp == script.Greater || vm.cmp == script.Equal
	case script.OpJLE:
		return vm.cmp == script.Lesser || vm.cmp == script.Equal
	case script.OpJT:
		return vm.cond
	case script.OpJF:
		return !vm.cond
	}
	return false
}

func (vm *VM) marker(idx uint8) (script.InstrPtr, *Error) {
	if int(idx) >= len(vm.script.Markers) {
		return 0, fault(MarkerOutOfRange, vm.ip)
	}
	return vm.script.Markers[idx], nil
}

// push saves the current instruction pointer as a return address.
func (vm *VM) push() *Error {
	if vm.callDepth >= vm.maxDepth {
		return fault(CallStackOverflow, vm.ip)
	}
	vm.callStack[vm.callDepth] = vm.ip
	vm.callDepth++
	return nil
}

func (vm *VM) function(idx uint8) Function {
	if vm.functions == nil || int(idx) >= len(vm.script.Symbols) {
		return nil
	}
	return vm.functions[idx]
}
