package runtime

import (
	"fmt"

	"mlang/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindUnit Kind = iota
	KindInteger
	KindString
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. Values are immutable
// once constructed.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// UnitValue carries no payload; the zero value is the only unit.
type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// Bool maps a Go boolean onto the integer encoding used by comparisons.
func Bool(b bool) IntegerValue {
	if b {
		return IntegerValue{Val: 1}
	}
	return IntegerValue{Val: 0}
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a named callable. It does not capture its declaration
// environment: a body sees its parameters and the globals only.
type FunctionValue struct {
	Name   string
	Params []string
	Body   ast.Expression
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Arity is the number of declared parameters.
func (v *FunctionValue) Arity() int {
	return len(v.Params)
}

// NewFunctionValue builds a function value from its declaration. Parameter
// names must be distinct.
func NewFunctionValue(def *ast.FunctionDefinition) (*FunctionValue, error) {
	if def == nil || def.ID == nil {
		return nil, &InvalidDeclarationError{Reason: "function definition requires a name"}
	}
	params := def.ParamNames()
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p == "" {
			return nil, &InvalidDeclarationError{Name: def.ID.Name, Reason: "empty parameter name"}
		}
		if _, dup := seen[p]; dup {
			return nil, &InvalidDeclarationError{Name: def.ID.Name, Reason: fmt.Sprintf("duplicate parameter '%s'", p)}
		}
		seen[p] = struct{}{}
	}
	return &FunctionValue{Name: def.ID.Name, Params: params, Body: def.Body}, nil
}
