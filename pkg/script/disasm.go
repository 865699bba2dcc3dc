package script

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing for the script.
func (s *Script) Disassemble() string {
	return s.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable listing with a name header.
func (s *Script) DisassembleWithName(name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	st := s.Stats()
	sb.WriteString(fmt.Sprintf("; %d instructions (%d extended)\n\n", st.InstructionCount, st.ExtendedCount))

	if len(s.Symbols) > 0 {
		sb.WriteString("; Symbols:\n")
		for i, sym := range s.Symbols {
			sb.WriteString(fmt.Sprintf(";   [%3d] %s\n", i, sym))
		}
		sb.WriteString("\n")
	}

	if len(s.Constants) > 0 {
		sb.WriteString("; Constants:\n")
		for i, c := range s.Constants {
			sb.WriteString(fmt.Sprintf(";   [%3d] %d\n", i, c))
		}
		sb.WriteString("\n")
	}

	if len(s.Markers) > 0 {
		sb.WriteString("; Markers:\n")
		for i, m := range s.Markers {
			// markers point one before their destination
			sb.WriteString(fmt.Sprintf(";   [%3d] %04X -> %04X\n", i, m, m+1))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("; Code:\n")
	for ip, w := range s.Code {
		sb.WriteString(fmt.Sprintf("%04X  %04X  %s\n", ip, uint16(w), s.disassembleInstr(InstrPtr(ip), w)))
	}

	return sb.String()
}

// DisassembleInstr renders a single word without table context.
func DisassembleInstr(w Instr) string {
	var s Script
	return s.disassembleInstr(0, w)
}

func (s *Script) disassembleInstr(ip InstrPtr, w Instr) string {
	if IsExtended(w) {
		ex := DecodeExtended(w)
		op := ex.Opcode()
		if !op.IsKnown() {
			return fmt.Sprintf("ILLEGAL ; ext op 0x%X", ex.Op)
		}
		switch op {
		case OpMvS2R:
			return fmt.Sprintf("MVS2R r%d, s%d", ex.Reg, ex.Arg)
		case OpMvR2S:
			return fmt.Sprintf("MVR2S s%d, r%d", ex.Arg, ex.Reg)
		case OpLdI:
			return fmt.Sprintf("LDI r%d, #%d", ex.Reg, ex.Arg)
		case OpLdC:
			if int(ex.Arg) < len(s.Constants) {
				return fmt.Sprintf("LDC r%d, c%d ; %d", ex.Reg, ex.Arg, s.Constants[ex.Arg])
			}
			return fmt.Sprintf("LDC r%d, c%d", ex.Reg, ex.Arg)
		case OpXCall:
			if int(ex.Arg) < len(s.Symbols) {
				return fmt.Sprintf("XCALL r%d.., f%d ; %s", ex.Reg, ex.Arg, s.Symbols[ex.Arg])
			}
			return fmt.Sprintf("XCALL r%d.., f%d", ex.Reg, ex.Arg)
		}
	}

	in := DecodeStandard(w)
	op := in.Opcode()
	if !op.IsKnown() {
		return fmt.Sprintf("ILLEGAL ; op 0x%02X", in.Op)
	}
	info := GetOpcodeInfo(op)

	switch info.Operand {
	case OperandNone:
		return info.Name
	case OperandRegPair:
		return fmt.Sprintf("%s r%d, r%d", info.Name, in.Hi(), in.Lo())
	case OperandRegHi:
		return fmt.Sprintf("%s r%d", info.Name, in.Hi())
	case OperandSlot:
		return fmt.Sprintf("%s s%d", info.Name, in.Arg)
	case OperandMarker:
		if int(in.Arg) < len(s.Markers) {
			return fmt.Sprintf("%s m%d ; -> %04X", info.Name, in.Arg, s.Markers[in.Arg]+1)
		}
		return fmt.Sprintf("%s m%d", info.Name, in.Arg)
	case OperandAbsolute:
		return fmt.Sprintf("%s %d ; -> %04X", info.Name, in.Arg, InstrPtr(in.Arg)+1)
	case OperandRelative:
		return fmt.Sprintf("%s +%d ; -> %04X", info.Name, in.Arg, ip+InstrPtr(in.Arg)+1)
	default:
		return fmt.Sprintf("%s %d", info.Name, in.Arg)
	}
}
