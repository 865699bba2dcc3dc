package script

import "fmt"

// Opcode identifies an instruction.
// Standard opcodes live in 0x00-0x7F; extended opcodes have the high bit
// set and occupy 0x80-0x87, mirroring the form-selector bit of the word.
type Opcode uint8

const (
	// ========================================================================
	// Standard form: 8-bit opcode, 8-bit argument
	// ========================================================================

	OpNop    Opcode = 0x00 // No operation
	OpMov    Opcode = 0x01 // regs[hi] = regs[lo]
	OpCmp    Opcode = 0x02 // Compare regs[hi] with regs[lo]
	OpTest   Opcode = 0x03 // cond = regs[hi] != 0
	OpBool   Opcode = 0x04 // cond = slots[arg] != 0
	OpJmp    Opcode = 0x05 // ip = markers[arg]
	OpJSA    Opcode = 0x06 // ip = arg
	OpJSR    Opcode = 0x07 // ip += arg
	OpJL     Opcode = 0x08 // Jump to marker if Lesser
	OpJE     Opcode = 0x09 // Jump to marker if Equal
	OpJG     Opcode = 0x0A // Jump to marker if Greater
	OpJNE    Opcode = 0x0B // Jump to marker if not Equal
	OpJGE    Opcode = 0x0C // Jump to marker if Greater or Equal
	OpJLE    Opcode = 0x0D // Jump to marker if Lesser or Equal
	OpJT     Opcode = 0x0E // Jump to marker if cond
	OpJF     Opcode = 0x0F // Jump to marker if !cond
	OpCall   Opcode = 0x10 // Push ip, ip = markers[arg]
	OpCallSA Opcode = 0x11 // Push ip, ip = arg
	OpCallSR Opcode = 0x12 // Push ip, ip += arg
	OpRet    Opcode = 0x13 // Pop ip

	// ========================================================================
	// Extended form: 4-bit opcode, 4-bit register, 8-bit argument
	// ========================================================================

	OpMvS2R Opcode = 0x80 // reg = slots[arg]
	OpMvR2S Opcode = 0x81 // slots[arg] = reg, notify observer
	OpLdI   Opcode = 0x82 // reg = zero-extended arg
	OpLdC   Opcode = 0x83 // reg = constants[arg]
	OpXCall Opcode = 0x84 // regs[0] = functions[arg](regs[reg:]...)
)

// extendedBit marks opcodes that use the extended encoding.
const extendedBit Opcode = 0x80

// Operand layout of an instruction's argument byte.
type Operand uint8

const (
	OperandNone      Operand = iota // argument unused
	OperandRegPair                  // two register nibbles
	OperandRegHi                    // one register in the high nibble
	OperandSlot                     // slot number
	OperandMarker                   // marker table index
	OperandAbsolute                 // literal instruction pointer
	OperandRelative                 // literal forward offset
	OperandImmediate                // zero-extended literal value
	OperandConstant                 // constant table index
	OperandSymbol                   // function table index
)

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name     string  // Mnemonic
	Extended bool    // Uses the extended encoding
	Operand  Operand // How the argument byte is interpreted
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpNop:  {"NOP", false, OperandNone},
	OpMov:  {"MOV", false, OperandRegPair},
	OpCmp:  {"CMP", false, OperandRegPair},
	OpTest: {"TEST", false, OperandRegHi},
	OpBool: {"BOOL", false, OperandSlot},

	// Unconditional jumps
	OpJmp: {"JMP", false, OperandMarker},
	OpJSA: {"JSA", false, OperandAbsolute},
	OpJSR: {"JSR", false, OperandRelative},

	// Conditional jumps
	OpJL:  {"JL", false, OperandMarker},
	OpJE:  {"JE", false, OperandMarker},
	OpJG:  {"JG", false, OperandMarker},
	OpJNE: {"JNE", false, OperandMarker},
	OpJGE: {"JGE", false, OperandMarker},
	OpJLE: {"JLE", false, OperandMarker},
	OpJT:  {"JT", false, OperandMarker},
	OpJF:  {"JF", false, OperandMarker},

	// Calls
	OpCall:   {"CALL", false, OperandMarker},
	OpCallSA: {"CALLSA", false, OperandAbsolute},
	OpCallSR: {"CALLSR", false, OperandRelative},
	OpRet:    {"RET", false, OperandNone},

	// Extended
	OpMvS2R: {"MVS2R", true, OperandSlot},
	OpMvR2S: {"MVR2S", true, OperandSlot},
	OpLdI:   {"LDI", true, OperandImmediate},
	OpLdC:   {"LDC", true, OperandConstant},
	OpXCall: {"XCALL", true, OperandSymbol},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN(0xNN)" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op)), Extended: op&extendedBit != 0}
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// IsKnown reports whether the engine has a handler for op.
func (op Opcode) IsKnown() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// IsExtended reports whether op is encoded in the extended form.
func (op Opcode) IsExtended() bool {
	return op&extendedBit != 0
}

// IsJump returns true for every jump, conditional or not.
func (op Opcode) IsJump() bool {
	return op >= OpJmp && op <= OpJF
}

// IsConditional returns true for jumps that depend on the comparison or condition state.
func (op Opcode) IsConditional() bool {
	return op >= OpJL && op <= OpJF
}

// IsCall returns true for the three call forms.
func (op Opcode) IsCall() bool {
	return op >= OpCall && op <= OpCallSR
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
