// Package script defines the compiled program representation executed by
// the slotvm interpreter: the value and index types, the opcode set, the
// packed 16-bit instruction encoding and the Script container itself.
//
// A Script is produced elsewhere (there is no compiler here) and handed
// to vm.VM.Load, which takes its own copy. The Builder type is a thin
// emitter for tests and embedders that assemble code programmatically.
package script

import (
	"fmt"
	"slices"
)

// Script is a compiled program.
type Script struct {
	// Symbols names the external functions the script calls, indexed by XCALL's argument.
	Symbols []string

	// Constants is the read-only value pool, indexed by LDC's argument.
	Constants []Value

	// Markers holds jump and call targets, indexed by the marker forms of JMP/Jcc/CALL.
	Markers []InstrPtr

	// Code is the instruction stream, indexed by the instruction pointer.
	Code []Instr
}

// Clone returns a deep copy of s.
func (s *Script) Clone() Script {
	if s == nil {
		return Script{}
	}
	return Script{
		Symbols:   slices.Clone(s.Symbols),
		Constants: slices.Clone(s.Constants),
		Markers:   slices.Clone(s.Markers),
		Code:      slices.Clone(s.Code),
	}
}

// Len returns the number of instruction words.
func (s *Script) Len() int {
	return len(s.Code)
}

// Stats summarises a script for auditing before it is loaded.
type Stats struct {
	InstructionCount int
	ExtendedCount    int
	ConstantCount    int
	MarkerCount      int
	SymbolCount      int
}

// Stats counts the entries of each table.
func (s *Script) Stats() Stats {
	st := Stats{
		InstructionCount: len(s.Code),
		ConstantCount:    len(s.Constants),
		MarkerCount:      len(s.Markers),
		SymbolCount:      len(s.Symbols),
	}
	for _, w := range s.Code {
		if IsExtended(w) {
			st.ExtendedCount++
		}
	}
	return st
}

// Validate reports tables too large to be addressed by an 8-bit argument
// and code too long for a 16-bit instruction pointer. Out-of-range
// indices inside instructions are caught by the engine when executed.
func (s *Script) Validate() error {
	if len(s.Symbols) > FunctionTableSize {
		return fmt.Errorf("script: %d symbols exceeds function table size %d", len(s.Symbols), FunctionTableSize)
	}
	if len(s.Constants) > TableLimit {
		return fmt.Errorf("script: %d constants exceeds limit %d", len(s.Constants), TableLimit)
	}
	if len(s.Markers) > TableLimit {
		return fmt.Errorf("script: %d markers exceeds limit %d", len(s.Markers), TableLimit)
	}
	if len(s.Code) > int(InvalidInstrPtr) {
		return fmt.Errorf("script: %d instructions exceeds addressable code size", len(s.Code))
	}
	return nil
}

// JumpTarget converts a destination address into the value a marker or
// short jump literal must hold. The engine advances the instruction
// pointer after every successful instruction, branches included, so the
// encoded target is the address immediately preceding the destination.
// JumpTarget(0) wraps to InvalidInstrPtr, which the increment wraps back to 0.
func JumpTarget(dest InstrPtr) InstrPtr {
	return dest - 1
}
