package main

import (
	"fmt"

	"github.com/chazu/slotvm/manifest"
	"github.com/chazu/slotvm/pkg/script"
	"github.com/chazu/slotvm/pkg/vm"
)

// Default slot numbers when the manifest does not name them.
const (
	defaultCounterSlot script.Slot = 10
	defaultDoneSlot    script.Slot = 11
)

// builtins are the host functions offered to scripts. Arguments are the
// registers from the call's base register upward.
var builtins = map[string]vm.HostFunc{
	"add": func(args ...script.Value) script.Value { return args[0] + args[1] },
	"sub": func(args ...script.Value) script.Value { return args[0] - args[1] },
	"mul": func(args ...script.Value) script.Value { return args[0] * args[1] },
	"neg": func(args ...script.Value) script.Value { return -args[0] },
}

// registerBuiltins adds every builtin, then every alias from the manifest.
// An alias may not reuse a builtin's name, since the builtin would win
// resolution and the alias would never be called.
func registerBuiltins(machine *vm.VM, m *manifest.Manifest) error {
	for alias, target := range m.Functions {
		if _, shadows := builtins[alias]; shadows {
			return fmt.Errorf("function alias %q: shadows the builtin of the same name", alias)
		}
		if _, ok := builtins[target]; !ok {
			return fmt.Errorf("function alias %q: no builtin %q", alias, target)
		}
	}

	for name, fn := range builtins {
		machine.Register(name, fn)
	}
	for alias, target := range m.Functions {
		machine.Register(alias, builtins[target])
	}
	return nil
}

// countdown builds a script that publishes start, start-1, ... 1 to the
// counter slot, using the host "sub" function to decrement, then calls a
// subroutine that sets the done slot and halts.
func countdown(start script.Value, counter, done script.Slot) script.Script {
	b := script.NewBuilder()
	c := b.AddConstant(start)
	sub := b.AddSymbol("sub")
	loop := b.AddMarker(0)
	finish := b.AddMarker(0)

	b.EmitEx(script.OpLdC, 1, uint8(c))
	b.EmitEx(script.OpLdI, 2, 0)
	b.EmitEx(script.OpLdI, 4, 1)

	b.SetMarker(loop, script.JumpTarget(b.Here()))
	b.EmitEx(script.OpMvR2S, 1, uint8(counter))
	b.EmitRR(script.OpMov, 3, 1)
	b.EmitEx(script.OpXCall, 3, sub)
	b.EmitRR(script.OpMov, 1, 0)
	b.EmitRR(script.OpCmp, 1, 2)
	b.Emit(script.OpJG, uint8(loop))
	b.Emit(script.OpCall, uint8(finish))
	b.Emit(script.OpJSA, 0xFE) // lands past the end

	b.SetMarker(finish, script.JumpTarget(b.Here()))
	b.EmitEx(script.OpLdI, 5, 1)
	b.EmitEx(script.OpMvR2S, 5, uint8(done))
	b.Emit(script.OpRet, 0)

	return b.Build()
}

// slotOrDefault resolves a named slot from the manifest.
func slotOrDefault(m *manifest.Manifest, name string, def script.Slot) script.Slot {
	if s, ok := m.Slot(name); ok {
		return s
	}
	return def
}
