// Package manifest handles slotvm.toml host configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/slotvm/pkg/script"
	"github.com/chazu/slotvm/pkg/vm"
)

// FileName is the name of the configuration file.
const FileName = "slotvm.toml"

// Manifest represents a slotvm.toml configuration.
type Manifest struct {
	VM  VMConfig  `toml:"vm"`
	Log LogConfig `toml:"log"`

	// Slots names host-visible slots, name -> slot number.
	Slots map[string]int `toml:"slots"`

	// Functions aliases script symbol names to host function names.
	Functions map[string]string `toml:"functions"`

	// Dir is the directory containing the slotvm.toml file (set at load time).
	Dir string `toml:"-"`
}

// VMConfig configures the interpreter.
type VMConfig struct {
	Trace        bool `toml:"trace"`
	MaxCallDepth int  `toml:"max-call-depth"`
}

// LogConfig configures the commonlog backend.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Load parses a slotvm.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, err
	}

	// Defaults
	if m.VM.MaxCallDepth == 0 {
		m.VM.MaxCallDepth = script.CallStackSize
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Default returns the configuration used when no slotvm.toml is found.
func Default() *Manifest {
	return &Manifest{
		VM: VMConfig{MaxCallDepth: script.CallStackSize},
	}
}

// FindAndLoad walks up from startDir to find a slotvm.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (m *Manifest) Validate() error {
	if m.VM.MaxCallDepth < 0 || m.VM.MaxCallDepth > script.CallStackSize {
		return fmt.Errorf("vm.max-call-depth %d out of range 1..%d", m.VM.MaxCallDepth, script.CallStackSize)
	}
	for name, n := range m.Slots {
		if n < 0 || n >= script.SlotCount {
			return fmt.Errorf("slot %q: number %d out of range 0..%d", name, n, script.SlotCount-1)
		}
	}
	return nil
}

// Slot looks up a named slot.
func (m *Manifest) Slot(name string) (script.Slot, bool) {
	n, ok := m.Slots[name]
	if !ok {
		return 0, false
	}
	return script.Slot(n), true
}

// FunctionName returns the host function a script symbol resolves to,
// which is the symbol itself unless aliased.
func (m *Manifest) FunctionName(symbol string) string {
	if target, ok := m.Functions[symbol]; ok {
		return target
	}
	return symbol
}

// Options converts the [vm] section to VM options.
func (m *Manifest) Options() vm.Options {
	return vm.Options{
		Trace:        m.VM.Trace,
		MaxCallDepth: m.VM.MaxCallDepth,
	}
}

// LogPath returns the log file path, or nil for stderr.
func (m *Manifest) LogPath() *string {
	if m.Log.Path == "" {
		return nil
	}
	p := m.Log.Path
	if !filepath.IsAbs(p) && m.Dir != "" {
		p = filepath.Join(m.Dir, p)
	}
	return &p
}
