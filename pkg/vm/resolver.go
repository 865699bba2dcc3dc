package vm

import "github.com/chazu/slotvm/pkg/script"

// functionTable maps symbol indices to bound host functions.
type functionTable [script.FunctionTableSize]Function

// resolve binds every symbol to the first registry entry with the same
// name. It stops at the first unresolved symbol and returns nil with the
// error so no partially bound table escapes.
func resolve(symbols []string, registry []registeredFunc) (*functionTable, error) {
	if len(symbols) > script.FunctionTableSize {
		return nil, &Error{Code: SymbolTableFull}
	}

	var table functionTable
	for i, name := range symbols {
		fn := lookup(registry, name)
		if fn == nil {
			return nil, &Error{Code: MissingSymbol, Symbol: name, Index: i}
		}
		table[i] = fn
	}
	return &table, nil
}

func lookup(registry []registeredFunc, name string) Function {
	for _, r := range registry {
		if r.name == name {
			return r.fn
		}
	}
	return nil
}
