package script

import "fmt"

// Builder appends instructions and table entries to a Script.
type Builder struct {
	s Script
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		s: Script{
			Code: make([]Instr, 0, 32),
		},
	}
}

// Here returns the address the next emitted instruction will occupy.
func (b *Builder) Here() InstrPtr {
	return InstrPtr(len(b.s.Code))
}

// Emit appends a standard-form instruction and returns its address.
// Panics if op is an extended opcode.
func (b *Builder) Emit(op Opcode, arg uint8) InstrPtr {
	if op.IsExtended() {
		panic(fmt.Sprintf("script: %s is an extended opcode", op))
	}
	return b.EmitWord(EncodeStandard(op, arg))
}

// EmitRR appends a standard-form instruction taking two register operands.
func (b *Builder) EmitRR(op Opcode, hi, lo Register) InstrPtr {
	return b.Emit(op, uint8(hi&RegisterMask)<<4|uint8(lo&RegisterMask))
}

// EmitEx appends an extended-form instruction and returns its address.
// Panics if op is a standard opcode.
func (b *Builder) EmitEx(op Opcode, reg Register, arg uint8) InstrPtr {
	if !op.IsExtended() {
		panic(fmt.Sprintf("script: %s is not an extended opcode", op))
	}
	return b.EmitWord(EncodeExtended(op, reg, arg))
}

// EmitWord appends a raw instruction word. Panics once the code fills
// every address below InvalidInstrPtr.
func (b *Builder) EmitWord(w Instr) InstrPtr {
	if len(b.s.Code) >= int(InvalidInstrPtr) {
		panic("script: code exceeds addressable size")
	}
	at := b.Here()
	b.s.Code = append(b.s.Code, w)
	return at
}

// AddConstant adds a value to the constant pool and returns its index.
// If the value already exists, returns the existing index.
// Panics when the pool already holds TableLimit values.
func (b *Builder) AddConstant(v Value) ConstIdx {
	for i, c := range b.s.Constants {
		if c == v {
			return ConstIdx(i)
		}
	}
	if len(b.s.Constants) >= TableLimit {
		panic(fmt.Sprintf("script: constant pool full (%d entries)", TableLimit))
	}
	idx := ConstIdx(len(b.s.Constants))
	b.s.Constants = append(b.s.Constants, v)
	return idx
}

// AddSymbol declares an external function name and returns its index.
// If the name was already declared, returns the existing index.
// Panics when FunctionTableSize names are already declared.
func (b *Builder) AddSymbol(name string) uint8 {
	for i, s := range b.s.Symbols {
		if s == name {
			return uint8(i)
		}
	}
	if len(b.s.Symbols) >= FunctionTableSize {
		panic(fmt.Sprintf("script: symbol table full (%d entries)", FunctionTableSize))
	}
	idx := uint8(len(b.s.Symbols))
	b.s.Symbols = append(b.s.Symbols, name)
	return idx
}

// AddMarker appends a raw marker table entry.
// Use JumpTarget to convert a destination address.
// Panics when the table already holds TableLimit markers.
func (b *Builder) AddMarker(ip InstrPtr) MarkerIdx {
	if len(b.s.Markers) >= TableLimit {
		panic(fmt.Sprintf("script: marker table full (%d entries)", TableLimit))
	}
	idx := MarkerIdx(len(b.s.Markers))
	b.s.Markers = append(b.s.Markers, ip)
	return idx
}

// SetMarker overwrites a marker entry, for forward references.
func (b *Builder) SetMarker(idx MarkerIdx, ip InstrPtr) {
	b.s.Markers[idx] = ip
}

// Build returns a copy of the assembled script.
func (b *Builder) Build() Script {
	return b.s.Clone()
}
