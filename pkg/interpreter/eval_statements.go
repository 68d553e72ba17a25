package interpreter

import (
	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// popScope unwinds a scope on every exit path, keeping the first error.
func popScope(env *runtime.Environment, errp *error) {
	if err := env.PopScope(); err != nil && *errp == nil {
		*errp = err
	}
}

func (i *Interpreter) evaluateSequence(seq *ast.Sequence, env *runtime.Environment) (result runtime.Value, err error) {
	env.PushScope()
	defer popScope(env, &err)

	result = runtime.UnitValue{}
	for _, expr := range seq.Body {
		val, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateVarDecl(decl *ast.VarDecl, env *runtime.Environment) (runtime.Value, error) {
	if decl.Name == nil || decl.Name.Name == "" {
		return nil, &runtime.InvalidDeclarationError{Reason: "variable declaration requires a name"}
	}
	val, err := i.evaluateExpression(decl.Init, env)
	if err != nil {
		return nil, err
	}
	i.bind(env, decl.Name.Name, val, decl.Global)
	return val, nil
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition, env *runtime.Environment) (runtime.Value, error) {
	fn, err := runtime.NewFunctionValue(def)
	if err != nil {
		return nil, err
	}
	i.bind(env, fn.Name, fn, false)
	return fn, nil
}

func (i *Interpreter) bind(env *runtime.Environment, name string, val runtime.Value, global bool) {
	var redeclared bool
	if global {
		redeclared = env.DefineGlobal(name, val)
	} else {
		redeclared = env.DefineLocal(name, val)
	}
	if redeclared {
		i.warnRedeclaration(name)
	}
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	truthy, err := runtime.IsTruthy(cond)
	if err != nil {
		return nil, err
	}
	if truthy {
		return i.evaluateExpression(expr.Then, env)
	}
	if expr.Else != nil {
		return i.evaluateExpression(expr.Else, env)
	}
	return runtime.UnitValue{}, nil
}

func (i *Interpreter) evaluateUntilLoop(loop *ast.UntilLoop, env *runtime.Environment) (runtime.Value, error) {
	for {
		if err := i.checkContext(); err != nil {
			return nil, err
		}
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return nil, err
		}
		truthy, err := runtime.IsTruthy(cond)
		if err != nil {
			return nil, err
		}
		if !truthy {
			return runtime.UnitValue{}, nil
		}
		if _, err := i.evaluateExpression(loop.Body, env); err != nil {
			return nil, err
		}
	}
}
