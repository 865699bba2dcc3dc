package main

import (
	"testing"

	"github.com/chazu/slotvm/manifest"
	"github.com/chazu/slotvm/pkg/script"
	"github.com/chazu/slotvm/pkg/vm"
)

func TestCountdown(t *testing.T) {
	machine := vm.New()
	if err := registerBuiltins(machine, manifest.Default()); err != nil {
		t.Fatal(err)
	}

	var seen []script.Value
	machine.Bind(defaultCounterSlot, vm.SlotFunc(func(slot script.Slot, v script.Value) {
		seen = append(seen, v)
	}))
	done := machine.Bind(defaultDoneSlot, nil)

	if err := machine.Load(countdown(5, defaultCounterSlot, defaultDoneSlot)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := machine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []script.Value{5, 4, 3, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("counter updates = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("update %d = %d, want %d", i, seen[i], want[i])
		}
	}
	if *done != 1 {
		t.Errorf("done = %d, want 1", *done)
	}
	if machine.CallDepth() != 0 {
		t.Errorf("call depth = %d after run", machine.CallDepth())
	}
}

func TestRegisterBuiltinsAliases(t *testing.T) {
	m := manifest.Default()
	m.Functions = map[string]string{"minus": "sub"}

	machine := vm.New()
	if err := registerBuiltins(machine, m); err != nil {
		t.Fatal(err)
	}

	b := script.NewBuilder()
	minus := b.AddSymbol("minus")
	b.EmitEx(script.OpLdI, 1, 9)
	b.EmitEx(script.OpLdI, 2, 4)
	b.EmitEx(script.OpXCall, 1, minus)
	if err := machine.Load(b.Build()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := machine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := machine.Reg(0); got != 5 {
		t.Errorf("r0 = %d, want 5", got)
	}

	m.Functions = map[string]string{"bad": "nosuch"}
	if err := registerBuiltins(vm.New(), m); err == nil {
		t.Error("expected error for alias to unknown builtin")
	}
}

func TestRegisterBuiltinsRejectsShadowingAlias(t *testing.T) {
	m := manifest.Default()
	m.Functions = map[string]string{"sub": "add"}

	machine := vm.New()
	if err := registerBuiltins(machine, m); err == nil {
		t.Fatal("expected error for alias named like a builtin")
	}
	if n := len(machine.Registered()); n != 0 {
		t.Errorf("%d functions registered after rejected manifest", n)
	}
}

func TestSlotOrDefault(t *testing.T) {
	m := manifest.Default()
	m.Slots = map[string]int{"counter": 42}
	if s := slotOrDefault(m, "counter", defaultCounterSlot); s != 42 {
		t.Errorf("counter = %d, want 42", s)
	}
	if s := slotOrDefault(m, "done", defaultDoneSlot); s != defaultDoneSlot {
		t.Errorf("done = %d, want %d", s, defaultDoneSlot)
	}
}
