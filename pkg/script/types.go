package script

// Value is the only runtime datum the VM knows about.
type Value int16

// Register addresses one of the general purpose registers.
type Register uint8

// Slot addresses one of the host-visible value cells.
type Slot uint8

// MarkerIdx indexes the marker table.
type MarkerIdx uint8

// ConstIdx indexes the constant table.
type ConstIdx uint8

// Instr is a packed 16-bit instruction word.
type Instr uint16

// InstrPtr is an index into the code section.
type InstrPtr uint16

const (
	// RegisterCount is the size of the register file.
	RegisterCount = 16
	// RegisterMask extracts a register index from a nibble.
	RegisterMask = 0xF

	// SlotCount is the number of host-visible slots.
	SlotCount = 256

	// CallStackSize is the maximum call depth.
	CallStackSize = 16

	// FunctionTableSize bounds the number of external symbols a script may declare.
	FunctionTableSize = 256

	// TableLimit is the number of entries an 8-bit instruction argument can address.
	TableLimit = 256
)

// InvalidInstrPtr marks unused call stack entries.
const InvalidInstrPtr InstrPtr = 0xFFFF

// ComparisonResult is the tri-state outcome of the last CMP.
type ComparisonResult uint8

const (
	Unknown ComparisonResult = iota
	Lesser
	Equal
	Greater
)

// String returns a human-readable name for a ComparisonResult.
func (c ComparisonResult) String() string {
	switch c {
	case Unknown:
		return "unknown"
	case Lesser:
		return "lesser"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "invalid"
	}
}
