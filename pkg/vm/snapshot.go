package vm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/slotvm/pkg/script"
)

// Snapshot is a point-in-time copy of a VM's runtime state, for
// post-mortem inspection after a fault. It does not include the script.
type Snapshot struct {
	ID         string                                `cbor:"1,keyasint"`
	IP         script.InstrPtr                       `cbor:"2,keyasint"`
	Comparison script.ComparisonResult               `cbor:"3,keyasint"`
	Condition  bool                                  `cbor:"4,keyasint"`
	Registers  [script.RegisterCount]script.Value    `cbor:"5,keyasint"`
	CallStack  [script.CallStackSize]script.InstrPtr `cbor:"6,keyasint"`
	CallDepth  int                                   `cbor:"7,keyasint"`
	Slots      map[script.Slot]script.Value          `cbor:"8,keyasint,omitempty"`
	CodeLen    int                                   `cbor:"9,keyasint"`
}

// Snapshot captures the current runtime state. Only non-zero slots are recorded.
func (vm *VM) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         vm.id.String(),
		IP:         vm.ip,
		Comparison: vm.cmp,
		Condition:  vm.cond,
		Registers:  vm.regs,
		CallStack:  vm.callStack,
		CallDepth:  vm.callDepth,
		CodeLen:    len(vm.script.Code),
	}
	for i := range vm.slots {
		if v := vm.slots[i].value; v != 0 {
			if snap.Slots == nil {
				snap.Slots = make(map[script.Slot]script.Value)
			}
			snap.Slots[script.Slot(i)] = v
		}
	}
	return snap
}

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return snapshotEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vm: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// Diagnose renders encoded snapshot bytes in CBOR diagnostic notation.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
