package script

// Instruction word layout.
//
// Standard form (bit 15 clear):
//
//	15      8 7       0
//	[ opcode ][  arg   ]
//
// Extended form (bit 15 set):
//
//	15  12 11  8 7       0
//	[ op ][ reg ][  arg   ]
//
// The extended opcode field includes the form-selector bit, so its value is
// always in 0x8-0xF. Field n corresponds to Opcode 0x80|(n&7).
const (
	formBit       Instr = 0x8000
	exOpcodeShift       = 12
	exRegShift          = 8
)

// InstrS is a decoded standard-form instruction.
type InstrS struct {
	Op  uint8
	Arg uint8
}

// InstrEx is a decoded extended-form instruction.
type InstrEx struct {
	Op  uint8 // 4-bit field, 0x8-0xF
	Reg Register
	Arg uint8
}

// IsExtended reports whether w uses the extended encoding.
func IsExtended(w Instr) bool {
	return w&formBit == formBit
}

// DecodeStandard splits w into its opcode and argument bytes.
func DecodeStandard(w Instr) InstrS {
	return InstrS{
		Op:  uint8(w >> 8),
		Arg: uint8(w),
	}
}

// DecodeExtended splits w into its opcode nibble, register nibble and argument byte.
func DecodeExtended(w Instr) InstrEx {
	return InstrEx{
		Op:  uint8(w>>exOpcodeShift) & 0xF,
		Reg: Register(w>>exRegShift) & RegisterMask,
		Arg: uint8(w),
	}
}

// Opcode returns the opcode named by a standard instruction.
func (i InstrS) Opcode() Opcode {
	return Opcode(i.Op)
}

// Hi returns the register in the high nibble of the argument.
func (i InstrS) Hi() Register {
	return Register(i.Arg>>4) & RegisterMask
}

// Lo returns the register in the low nibble of the argument.
func (i InstrS) Lo() Register {
	return Register(i.Arg) & RegisterMask
}

// Opcode returns the opcode named by an extended instruction.
func (i InstrEx) Opcode() Opcode {
	return extendedBit | Opcode(i.Op&0x7)
}

// EncodeStandard packs a standard-form word. op must not have the extended bit set.
func EncodeStandard(op Opcode, arg uint8) Instr {
	return Instr(op)<<8 | Instr(arg)
}

// EncodeRegPair packs a standard-form word whose argument holds two register nibbles.
func EncodeRegPair(op Opcode, hi, lo Register) Instr {
	return EncodeStandard(op, uint8(hi&RegisterMask)<<4|uint8(lo&RegisterMask))
}

// EncodeExtended packs an extended-form word. op must be an extended opcode.
func EncodeExtended(op Opcode, reg Register, arg uint8) Instr {
	field := Instr(0x8 | (op & 0x7))
	return field<<exOpcodeShift | Instr(reg&RegisterMask)<<exRegShift | Instr(arg)
}

// Encode re-packs a decoded standard instruction.
func (i InstrS) Encode() Instr {
	return EncodeStandard(Opcode(i.Op), i.Arg)
}

// Encode re-packs a decoded extended instruction.
func (i InstrEx) Encode() Instr {
	return EncodeExtended(i.Opcode(), i.Reg, i.Arg)
}

// Opcode returns the opcode a word names in whichever form it uses.
func (w Instr) Opcode() Opcode {
	if IsExtended(w) {
		return DecodeExtended(w).Opcode()
	}
	return DecodeStandard(w).Opcode()
}
