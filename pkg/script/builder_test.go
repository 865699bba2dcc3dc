package script

import (
	"fmt"
	"testing"
)

func TestBuilderEmit(t *testing.T) {
	b := NewBuilder()
	if at := b.Emit(OpNop, 0); at != 0 {
		t.Errorf("first Emit at %d, want 0", at)
	}
	b.EmitRR(OpMov, 1, 2)
	b.EmitEx(OpLdI, 3, 100)
	s := b.Build()

	want := []Instr{0x0000, 0x0112, 0xA364}
	if len(s.Code) != len(want) {
		t.Fatalf("code length = %d, want %d", len(s.Code), len(want))
	}
	for i, w := range want {
		if s.Code[i] != w {
			t.Errorf("code[%d] = %04X, want %04X", i, uint16(s.Code[i]), uint16(w))
		}
	}
}

func TestBuilderDeduplicates(t *testing.T) {
	b := NewBuilder()
	c1 := b.AddConstant(-7)
	c2 := b.AddConstant(300)
	if again := b.AddConstant(-7); again != c1 {
		t.Errorf("AddConstant(-7) again = %d, want %d", again, c1)
	}
	if c2 != 1 {
		t.Errorf("second constant index = %d, want 1", c2)
	}

	s1 := b.AddSymbol("print")
	b.AddSymbol("add")
	if again := b.AddSymbol("print"); again != s1 {
		t.Errorf("AddSymbol(print) again = %d, want %d", again, s1)
	}

	s := b.Build()
	if len(s.Constants) != 2 || len(s.Symbols) != 2 {
		t.Errorf("tables = %d constants, %d symbols, want 2, 2", len(s.Constants), len(s.Symbols))
	}
}

func TestBuilderMarkers(t *testing.T) {
	b := NewBuilder()
	m := b.AddMarker(0)
	b.Emit(OpJmp, uint8(m))
	b.Emit(OpNop, 0)
	b.SetMarker(m, JumpTarget(b.Here()))
	b.Emit(OpNop, 0)

	s := b.Build()
	if s.Markers[m] != 1 {
		t.Errorf("marker = %d, want 1", s.Markers[m])
	}
}

func TestBuilderPanicsOnWrongForm(t *testing.T) {
	assertPanics := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		f()
	}
	b := NewBuilder()
	assertPanics("Emit(LDI)", func() { b.Emit(OpLdI, 0) })
	assertPanics("EmitEx(NOP)", func() { b.EmitEx(OpNop, 0, 0) })
}

func TestBuilderPanicsWhenTablesFull(t *testing.T) {
	expectPanic := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		f()
	}

	b := NewBuilder()
	for i := 0; i < TableLimit; i++ {
		if idx := b.AddConstant(Value(i)); int(idx) != i {
			t.Fatalf("constant %d got index %d", i, idx)
		}
		b.AddSymbol(fmt.Sprintf("f%d", i))
		b.AddMarker(InstrPtr(i))
	}

	// Existing entries still deduplicate into a full pool.
	if idx := b.AddConstant(43); idx != 43 {
		t.Errorf("AddConstant(43) = %d, want 43", idx)
	}
	if idx := b.AddSymbol("f7"); idx != 7 {
		t.Errorf("AddSymbol(f7) = %d, want 7", idx)
	}

	expectPanic("257th constant", func() { b.AddConstant(Value(TableLimit)) })
	expectPanic("257th symbol", func() { b.AddSymbol("overflow") })
	expectPanic("257th marker", func() { b.AddMarker(0) })

	s := b.Build()
	if err := s.Validate(); err != nil {
		t.Errorf("full tables fail Validate: %v", err)
	}
}

func TestBuilderPanicsWhenCodeFull(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < int(InvalidInstrPtr); i++ {
		b.EmitWord(0)
	}
	defer func() {
		if recover() == nil {
			t.Error("EmitWord past the addressable size did not panic")
		}
	}()
	b.Emit(OpNop, 0)
}

func TestBuildReturnsCopy(t *testing.T) {
	b := NewBuilder()
	b.Emit(OpNop, 0)
	s := b.Build()
	s.Code[0] = 0xFFFF
	if b.Build().Code[0] != 0 {
		t.Error("mutating a built script changed the builder")
	}
}

func TestJumpTarget(t *testing.T) {
	if got := JumpTarget(5); got != 4 {
		t.Errorf("JumpTarget(5) = %d, want 4", got)
	}
	if got := JumpTarget(0); got+1 != 0 {
		t.Errorf("JumpTarget(0)+1 = %d, want 0", got+1)
	}
}

func TestScriptValidateAndStats(t *testing.T) {
	s := Script{
		Symbols: make([]string, FunctionTableSize+1),
	}
	if err := s.Validate(); err == nil {
		t.Error("expected error for too many symbols")
	}

	s = Script{
		Constants: []Value{1, 2},
		Code:      []Instr{EncodeStandard(OpNop, 0), EncodeExtended(OpLdI, 0, 1)},
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	st := s.Stats()
	if st.InstructionCount != 2 || st.ExtendedCount != 1 || st.ConstantCount != 2 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := Script{Symbols: []string{"a"}, Constants: []Value{1}, Markers: []InstrPtr{2}, Code: []Instr{3}}
	c := s.Clone()
	c.Symbols[0], c.Constants[0], c.Markers[0], c.Code[0] = "b", 9, 9, 9
	if s.Symbols[0] != "a" || s.Constants[0] != 1 || s.Markers[0] != 2 || s.Code[0] != 3 {
		t.Errorf("Clone shares storage: %+v", s)
	}

	var nilScript *Script
	if got := nilScript.Clone(); got.Len() != 0 {
		t.Errorf("nil Clone has %d instructions", got.Len())
	}
}
