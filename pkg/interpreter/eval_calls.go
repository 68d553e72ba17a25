package interpreter

import (
	"fmt"
	"log/slog"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// evaluateFunctionCall resolves the callee and checks arity before any
// argument is evaluated; arguments are then evaluated left to right in the
// caller's scope.
func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if call.Callee == nil {
		return nil, fmt.Errorf("function call requires a callee")
	}
	name := call.Callee.Name
	callee, ok := env.Lookup(name)
	if !ok {
		return nil, &runtime.UndefinedSymbolError{Name: name}
	}
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return nil, &runtime.TypeMismatchError{Operation: fmt.Sprintf("call of '%s'", name), Kinds: []runtime.Kind{callee.Kind()}}
	}
	if fn.Arity() != len(call.Arguments) {
		return nil, &runtime.ArityMismatchError{Name: name, Expected: fn.Arity(), Actual: len(call.Arguments)}
	}

	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.invokeFunction(fn, args, env)
}

// CallFunction invokes a function value with already evaluated arguments.
func (i *Interpreter) CallFunction(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok || fn == nil {
		kind := runtime.KindUnit
		if callee != nil {
			kind = callee.Kind()
		}
		return nil, &runtime.TypeMismatchError{Operation: "call", Kinds: []runtime.Kind{kind}}
	}
	if fn.Arity() != len(args) {
		return nil, &runtime.ArityMismatchError{Name: fn.Name, Expected: fn.Arity(), Actual: len(args)}
	}
	return i.invokeFunction(fn, args, i.global)
}

// invokeFunction runs the body inside a fresh call frame. The frame binds the
// function's own name, then its parameters, so only those and the globals are
// visible to the body.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, env *runtime.Environment) (result runtime.Value, err error) {
	if err := i.checkContext(); err != nil {
		return nil, err
	}
	if i.callDepth >= i.maxDepth {
		return nil, &runtime.StackExhaustedError{Depth: i.callDepth + 1}
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	i.logger.DebugContext(i.ctx, "call", slog.String("function", fn.Name), slog.Int("arity", fn.Arity()), slog.Int("depth", i.callDepth))

	env.PushFrame()
	defer popScope(env, &err)

	env.DefineLocal(fn.Name, fn)
	for idx, param := range fn.Params {
		env.DefineLocal(param, args[idx])
	}
	return i.evaluateExpression(fn.Body, env)
}
