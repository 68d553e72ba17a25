package interpreter

import (
	"fmt"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateOperands(left, right ast.Expression, env *runtime.Environment) (runtime.Value, runtime.Value, error) {
	l, err := i.evaluateExpression(left, env)
	if err != nil {
		return nil, nil, err
	}
	r, err := i.evaluateExpression(right, env)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// evaluateComparison normalizes both operands with the truthiness rule and
// yields 1 or 0. Functions cannot be compared.
func (i *Interpreter) evaluateComparison(cmp *ast.Comparison, env *runtime.Environment) (runtime.Value, error) {
	left, right, err := i.evaluateOperands(cmp.Left, cmp.Right, env)
	if err != nil {
		return nil, err
	}
	mismatch := &runtime.TypeMismatchError{
		Operation: fmt.Sprintf("comparison '%s'", cmp.Operator),
		Kinds:     []runtime.Kind{left.Kind(), right.Kind()},
	}
	if left.Kind() == runtime.KindFunction || right.Kind() == runtime.KindFunction {
		return nil, mismatch
	}
	l, err := runtime.Truthiness(left)
	if err != nil {
		return nil, mismatch
	}
	r, err := runtime.Truthiness(right)
	if err != nil {
		return nil, mismatch
	}
	switch cmp.Operator {
	case ast.ComparisonEqual:
		return runtime.Bool(l == r), nil
	case ast.ComparisonNotEqual:
		return runtime.Bool(l != r), nil
	case ast.ComparisonGreater:
		return runtime.Bool(l > r), nil
	case ast.ComparisonGreaterEqual:
		return runtime.Bool(l >= r), nil
	case ast.ComparisonLess:
		return runtime.Bool(l < r), nil
	case ast.ComparisonLessEqual:
		return runtime.Bool(l <= r), nil
	default:
		return nil, fmt.Errorf("unsupported comparison operator %q", cmp.Operator)
	}
}

// evaluateBinaryExpression implements wrapping int64 arithmetic.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, right, err := i.evaluateOperands(expr.Left, expr.Right, env)
	if err != nil {
		return nil, err
	}
	l, lok := left.(runtime.IntegerValue)
	r, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		return nil, &runtime.TypeMismatchError{
			Operation: fmt.Sprintf("arithmetic '%s'", expr.Operator),
			Kinds:     []runtime.Kind{left.Kind(), right.Kind()},
		}
	}
	switch expr.Operator {
	case ast.ArithmeticAdd:
		return runtime.IntegerValue{Val: l.Val + r.Val}, nil
	case ast.ArithmeticSub:
		return runtime.IntegerValue{Val: l.Val - r.Val}, nil
	case ast.ArithmeticMul:
		return runtime.IntegerValue{Val: l.Val * r.Val}, nil
	case ast.ArithmeticDiv:
		if r.Val == 0 {
			return nil, runtime.ErrDivisionByZero
		}
		return runtime.IntegerValue{Val: l.Val / r.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %q", expr.Operator)
	}
}

func (i *Interpreter) evaluateToInteger(expr *ast.ToIntegerExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Argument, env)
	if err != nil {
		return nil, err
	}
	return runtime.ParseInteger(val)
}
