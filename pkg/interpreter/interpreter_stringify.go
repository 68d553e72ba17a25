package interpreter

import (
	"fmt"
	"io"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) stringifyValue(val runtime.Value) (string, error) {
	return runtime.Stringify(val)
}

func (i *Interpreter) evaluateToString(expr *ast.ToStringExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Argument, env)
	if err != nil {
		return nil, err
	}
	str, err := i.stringifyValue(val)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: str}, nil
}

// evaluatePrintStatement writes each argument as soon as it is evaluated, with
// no separators and no trailing newline.
func (i *Interpreter) evaluatePrintStatement(stmt *ast.PrintStatement, env *runtime.Environment) (runtime.Value, error) {
	for _, arg := range stmt.Arguments {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		str, err := i.stringifyValue(val)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(i.stdout, str); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
	}
	return runtime.UnitValue{}, nil
}

// DescribeValue renders any value for diagnostics, including functions,
// which have no program-visible string form.
func DescribeValue(val runtime.Value) string {
	switch v := val.(type) {
	case *runtime.FunctionValue:
		return fmt.Sprintf("<function %s/%d>", v.Name, v.Arity())
	case runtime.StringValue:
		return fmt.Sprintf("%q", v.Val)
	case nil:
		return "<nil>"
	default:
		str, err := runtime.Stringify(val)
		if err != nil {
			return fmt.Sprintf("[%s]", val.Kind())
		}
		return str
	}
}
