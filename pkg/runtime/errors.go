package runtime

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrScopeUnderflow reports an attempt to pop the global scope. It always
	// indicates an interpreter defect.
	ErrScopeUnderflow = errors.New("scope underflow: cannot pop the global scope")
	ErrDivisionByZero = errors.New("division by zero")
)

// UndefinedSymbolError reports a name with no visible binding.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol '%s'", e.Name)
}

// ArityMismatchError reports a call whose argument count differs from the
// callee's parameter count.
type ArityMismatchError struct {
	Name     string
	Expected int
	Actual   int
}

// Direction is "too few" or "too many".
func (e *ArityMismatchError) Direction() string {
	if e.Actual < e.Expected {
		return "too few"
	}
	return "too many"
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s arguments to '%s': expected %d, got %d", e.Direction(), e.Name, e.Expected, e.Actual)
}

// TypeMismatchError reports an operation applied to kinds it cannot handle.
type TypeMismatchError struct {
	Operation string
	Kinds     []Kind
}

func (e *TypeMismatchError) Error() string {
	names := make([]string, 0, len(e.Kinds))
	for _, k := range e.Kinds {
		names = append(names, k.String())
	}
	return fmt.Sprintf("%s does not support %s", e.Operation, strings.Join(names, " and "))
}

// ConversionError reports text that does not parse as a base-10 integer.
type ConversionError struct {
	Source string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to integer", e.Source)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// StackExhaustedError reports a call nesting deeper than the configured limit.
type StackExhaustedError struct {
	Depth int
}

func (e *StackExhaustedError) Error() string {
	return fmt.Sprintf("stack exhausted at call depth %d", e.Depth)
}

// InvalidDeclarationError reports a malformed function or variable declaration.
type InvalidDeclarationError struct {
	Name   string
	Reason string
}

func (e *InvalidDeclarationError) Error() string {
	if e.Name == "" {
		return "invalid declaration: " + e.Reason
	}
	return fmt.Sprintf("invalid declaration of '%s': %s", e.Name, e.Reason)
}

// ErrorKindOf returns a stable name for the error taxonomy entry that err
// belongs to, or "" when err is not an evaluation error.
func ErrorKindOf(err error) string {
	var (
		undefined  *UndefinedSymbolError
		arity      *ArityMismatchError
		mismatch   *TypeMismatchError
		conversion *ConversionError
		exhausted  *StackExhaustedError
		invalid    *InvalidDeclarationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &undefined):
		return "UndefinedSymbol"
	case errors.As(err, &arity):
		return "ArityMismatch"
	case errors.As(err, &mismatch):
		return "TypeMismatch"
	case errors.As(err, &conversion):
		return "ConversionError"
	case errors.As(err, &exhausted):
		return "StackExhausted"
	case errors.As(err, &invalid):
		return "InvalidDeclaration"
	case errors.Is(err, ErrScopeUnderflow):
		return "ScopeUnderflow"
	case errors.Is(err, ErrDivisionByZero):
		return "DivisionByZero"
	default:
		return ""
	}
}
