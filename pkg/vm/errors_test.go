package vm

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessageTable(t *testing.T) {
	seen := make(map[string]ErrorCode)
	for code := OK; code < errorCodeCount; code++ {
		msg := ErrorMessage(code)
		if msg == "" {
			t.Errorf("code %d has no message", code)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("codes %d and %d share message %q", prev, code, msg)
		}
		seen[msg] = code
	}
	if ErrorMessage(OK) != "no error" {
		t.Errorf("ErrorMessage(OK) = %q, want \"no error\"", ErrorMessage(OK))
	}
	if got := ErrorMessage(errorCodeCount); !strings.HasPrefix(got, "unknown error code") {
		t.Errorf("ErrorMessage(out of range) = %q", got)
	}
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{Code: InvalidReturn, Offset: 0x1F}
	if got := err.Error(); got != "return with empty call stack at 001F" {
		t.Errorf("Error() = %q", got)
	}

	err = &Error{Code: MissingSymbol, Symbol: "beep", Index: 2}
	if got := err.Error(); got != `unresolved external symbol "beep" (symbol 2)` {
		t.Errorf("Error() = %q", got)
	}

	err = &Error{Code: SymbolTableFull}
	if got := err.Error(); got != "too many external symbols" {
		t.Errorf("Error() = %q", got)
	}
}

func TestInvalidScriptWrapsCause(t *testing.T) {
	cause := errors.New("script: 300 constants exceeds limit 256")
	err := fmt.Errorf("load: %w", &Error{Code: InvalidScript, Err: cause})
	if !errors.Is(err, ErrInvalidScript) {
		t.Error("does not match ErrInvalidScript")
	}
	if !errors.Is(err, cause) {
		t.Error("cause is not reachable through Unwrap")
	}
	if got := err.Error(); got != "load: invalid script: script: 300 constants exceeds limit 256" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("run: %w", &Error{Code: CallStackOverflow, Offset: 9})
	if !errors.Is(err, ErrCallStackOverflow) {
		t.Error("wrapped overflow does not match ErrCallStackOverflow")
	}
	if errors.Is(err, ErrInvalidReturn) {
		t.Error("overflow matches ErrInvalidReturn")
	}
	if errors.Is(err, errors.New("call stack overflow")) {
		t.Error("matched a foreign error")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != OK {
		t.Errorf("CodeOf(nil) = %s", CodeOf(nil))
	}
	wrapped := fmt.Errorf("load: %w", &Error{Code: MissingSymbol})
	if CodeOf(wrapped) != MissingSymbol {
		t.Errorf("CodeOf(wrapped) = %s", CodeOf(wrapped))
	}
	if c := CodeOf(errors.New("other")); c < errorCodeCount {
		t.Errorf("CodeOf(foreign) = %d, want out of range", c)
	}
}
