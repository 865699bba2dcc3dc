package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/slotvm/pkg/script"
)

// ErrorCode classifies the outcome of a VM operation.
type ErrorCode uint8

const (
	OK                  ErrorCode = iota // no error
	EndOfExecution                       // the script ran off the end of its code
	IllegalInstr                         // an illegal or unknown instruction was encountered
	InvalidReturn                        // call stack underflow
	IllegalExternalCall                  // XCALL reached an unbound function table entry
	MissingSymbol                        // a script symbol has no registered host function
	Unimplemented                        // not yet implemented
	CallStackOverflow                    // call depth limit exceeded
	MarkerOutOfRange                     // marker index past the end of the marker table
	ConstantOutOfRange                   // constant index past the end of the constant table
	SymbolTableFull                      // more symbols than the function table can hold
	ReentrantCall                        // VM entered from inside one of its own host callbacks
	InvalidScript                        // script tables or code exceed what the encoding can address

	errorCodeCount
)

var errorMessages = [errorCodeCount]string{
	OK:                  "no error",
	EndOfExecution:      "end of execution",
	IllegalInstr:        "illegal instruction",
	InvalidReturn:       "return with empty call stack",
	IllegalExternalCall: "call to unresolved external function",
	MissingSymbol:       "unresolved external symbol",
	Unimplemented:       "not implemented",
	CallStackOverflow:   "call stack overflow",
	MarkerOutOfRange:    "marker index out of range",
	ConstantOutOfRange:  "constant index out of range",
	SymbolTableFull:     "too many external symbols",
	ReentrantCall:       "VM re-entered from a host callback",
	InvalidScript:       "invalid script",
}

// ErrorMessage returns the fixed description of code.
func ErrorMessage(code ErrorCode) string {
	if code >= errorCodeCount {
		return fmt.Sprintf("unknown error code %d", uint8(code))
	}
	return errorMessages[code]
}

// String returns the description of the code.
func (c ErrorCode) String() string {
	return ErrorMessage(c)
}

// Error is returned by Load, Step and Run. For Step and Run, Offset is
// the instruction pointer at the time of the result; after an execution
// fault it still designates the faulting instruction. Load failures carry
// no offset: a missing symbol is identified by Symbol and Index, and a
// rejected script by Err.
type Error struct {
	Code   ErrorCode
	Offset script.InstrPtr
	Symbol string // set for MissingSymbol
	Index  int    // symbol table index, set for MissingSymbol
	Err    error  // validation failure, set for InvalidScript
}

func (e *Error) Error() string {
	switch {
	case e.Symbol != "":
		return fmt.Sprintf("%s %q (symbol %d)", ErrorMessage(e.Code), e.Symbol, e.Index)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrorMessage(e.Code), e.Err)
	case e.Code.loadTime():
		return ErrorMessage(e.Code)
	}
	return fmt.Sprintf("%s at %04X", ErrorMessage(e.Code), e.Offset)
}

// Unwrap returns the validation failure behind an InvalidScript error.
func (e *Error) Unwrap() error {
	return e.Err
}

func (c ErrorCode) loadTime() bool {
	return c == MissingSymbol || c == SymbolTableFull || c == InvalidScript
}

// Is matches on Code so that errors.Is(err, ErrInvalidReturn) works
// regardless of Offset.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrEndOfExecution      = &Error{Code: EndOfExecution}
	ErrIllegalInstr        = &Error{Code: IllegalInstr}
	ErrInvalidReturn       = &Error{Code: InvalidReturn}
	ErrIllegalExternalCall = &Error{Code: IllegalExternalCall}
	ErrMissingSymbol       = &Error{Code: MissingSymbol}
	ErrUnimplemented       = &Error{Code: Unimplemented}
	ErrCallStackOverflow   = &Error{Code: CallStackOverflow}
	ErrMarkerOutOfRange    = &Error{Code: MarkerOutOfRange}
	ErrConstantOutOfRange  = &Error{Code: ConstantOutOfRange}
	ErrSymbolTableFull     = &Error{Code: SymbolTableFull}
	ErrReentrantCall       = &Error{Code: ReentrantCall}
	ErrInvalidScript       = &Error{Code: InvalidScript}
)

// CodeOf extracts the ErrorCode from err. nil maps to OK. Errors that did
// not come from a VM map to a code outside the defined range, which
// ErrorMessage reports as unknown.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return errorCodeCount
}

func fault(code ErrorCode, ip script.InstrPtr) *Error {
	return &Error{Code: code, Offset: ip}
}
