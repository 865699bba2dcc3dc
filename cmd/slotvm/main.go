// slotvm CLI - runs the countdown example script against host bindings
// configured by slotvm.toml.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/slotvm/manifest"
	"github.com/chazu/slotvm/pkg/script"
	"github.com/chazu/slotvm/pkg/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	configDir := flag.String("config", ".", "Directory to search upward from for slotvm.toml")
	trace := flag.Bool("trace", false, "Log every executed instruction (overrides manifest)")
	disasm := flag.Bool("disasm", false, "Print the script listing before running")
	snapshot := flag.Bool("snapshot", false, "Print the final VM state in CBOR diagnostic notation")
	start := flag.Int("start", 5, "Countdown start value (1..32767)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slotvm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the countdown example script, printing every slot change.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  slotvm -disasm            # Show the listing, then run\n")
		fmt.Fprintf(os.Stderr, "  slotvm -trace -v          # Trace each instruction\n")
		fmt.Fprintf(os.Stderr, "  slotvm -start 3 -snapshot # Dump final state\n")
	}
	flag.Parse()

	m, err := manifest.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = manifest.Default()
	}

	verbosity := m.Log.Verbosity
	if *verbose && verbosity < 2 {
		verbosity = 2
	}
	commonlog.Configure(verbosity, m.LogPath())

	if *start < 1 || *start > 32767 {
		fmt.Fprintf(os.Stderr, "Error: -start %d out of range\n", *start)
		os.Exit(2)
	}

	opts := m.Options()
	if *trace {
		opts.Trace = true
	}

	if err := run(m, opts, script.Value(*start), *disasm, *snapshot); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(m *manifest.Manifest, opts vm.Options, start script.Value, disasm, snapshot bool) error {
	machine := vm.NewWithOptions(opts)
	if err := registerBuiltins(machine, m); err != nil {
		return err
	}

	counter := slotOrDefault(m, "counter", defaultCounterSlot)
	done := slotOrDefault(m, "done", defaultDoneSlot)

	machine.Bind(counter, vm.SlotFunc(func(slot script.Slot, v script.Value) {
		fmt.Printf("counter (s%d) = %d\n", slot, v)
	}))
	finished := machine.Bind(done, nil)

	s := countdown(start, counter, done)
	if disasm {
		fmt.Print(s.DisassembleWithName("countdown"))
		fmt.Println()
	}

	if err := machine.Load(s); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := machine.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	fmt.Printf("done (s%d) = %d\n", done, *finished)

	if snapshot {
		snap := machine.Snapshot()
		data, err := vm.MarshalSnapshot(&snap)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		diag, err := vm.Diagnose(data)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		fmt.Println(diag)
	}
	return nil
}
