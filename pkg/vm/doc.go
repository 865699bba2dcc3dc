// Package vm executes scripts from package script.
//
// A VM has a fixed footprint: 16 registers, a 16-entry call stack, 256
// host-visible slots and a 256-entry function table. Nothing is allocated
// while stepping except the argument copy passed to host functions.
//
// # Lifecycle
//
// The embedding application:
//
//   - registers host functions with Register (before Load)
//   - binds slots with Bind (before or after Load; bindings survive Load)
//   - calls Load, which resets runtime state and resolves every symbol
//     the script declares against the registered functions
//   - drives execution with Step or Run
//
// # Branch targets
//
// Every successful instruction advances the instruction pointer by one,
// including jumps, calls and returns. A marker or short jump literal must
// therefore name the address immediately before the intended destination,
// and a call resumes at the instruction after the call on return. Code
// producers must honour this; script.JumpTarget performs the conversion.
//
// # Callbacks
//
// Slot observers and host functions run synchronously inside Step. While
// one is running, Step, Run and Load on the same VM fail with
// ReentrantCall rather than recursing.
package vm
