// Package resolver checks name resolution in program trees before they run.
// It reports names that cannot be bound on the path where they are used,
// calls whose argument count cannot match the function definition in scope,
// and malformed parameter lists. Values are never inspected.
package resolver

import (
	"fmt"

	"mlang/interpreter-go/pkg/ast"
)

// Resolver walks a tree mirroring the evaluator's scoping: sequences open a
// scope and function bodies see only their own name, their parameters and the
// globals.
type Resolver struct {
	global      *Environment
	globalDecls map[string]int
	conditional int
	inFunction  int
}

// Diagnostic represents a resolution error.
type Diagnostic struct {
	Message string
	Node    ast.Node
}

func (d Diagnostic) String() string {
	if d.Node == nil {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Node.NodeType(), d.Message)
}

// New returns a resolver instance.
func New() *Resolver {
	return &Resolver{
		global:      NewEnvironment(nil),
		globalDecls: make(map[string]int),
	}
}

// ResolveModule checks a program root and returns diagnostics.
func (r *Resolver) ResolveModule(module *ast.Module) ([]Diagnostic, error) {
	if module == nil {
		return nil, fmt.Errorf("resolver: module is nil")
	}
	return r.resolve(module.Body)
}

// ResolveNode accepts either a Module or a bare expression root.
func (r *Resolver) ResolveNode(node ast.Node) ([]Diagnostic, error) {
	switch n := node.(type) {
	case *ast.Module:
		return r.ResolveModule(n)
	case ast.Expression:
		return r.resolve([]ast.Expression{n})
	case nil:
		return nil, fmt.Errorf("resolver: node is nil")
	default:
		return nil, fmt.Errorf("resolver: unsupported root %s", n.NodeType())
	}
}

func (r *Resolver) resolve(body []ast.Expression) ([]Diagnostic, error) {
	r.global = NewEnvironment(nil)
	r.globalDecls = make(map[string]int)
	r.conditional = 0
	r.inFunction = 0
	for _, expr := range body {
		r.collectDeclarations(expr, true)
	}
	var diags []Diagnostic
	for _, expr := range body {
		diags = append(diags, r.resolveExpression(r.global, expr)...)
	}
	return diags, nil
}

// collectDeclarations counts every binding that can land in the global scope,
// so function bodies may refer to globals declared after them.
func (r *Resolver) collectDeclarations(expr ast.Expression, atGlobal bool) {
	switch n := expr.(type) {
	case *ast.VarDecl:
		if n.Name != nil && (atGlobal || n.Global) {
			r.globalDecls[n.Name.Name]++
		}
		r.collectDeclarations(n.Init, atGlobal)
	case *ast.FunctionDefinition:
		if n.ID != nil && atGlobal {
			r.globalDecls[n.ID.Name]++
		}
		r.collectDeclarations(n.Body, false)
	case *ast.Sequence:
		for _, child := range n.Body {
			r.collectDeclarations(child, false)
		}
	default:
		for _, child := range children(expr) {
			r.collectDeclarations(child, atGlobal)
		}
	}
}

// children lists the sub-expressions evaluated in the same scope as expr.
func children(expr ast.Expression) []ast.Expression {
	switch n := expr.(type) {
	case *ast.IfExpression:
		out := []ast.Expression{n.Condition, n.Then}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *ast.UntilLoop:
		return []ast.Expression{n.Condition, n.Body}
	case *ast.FunctionCall:
		return n.Arguments
	case *ast.Comparison:
		return []ast.Expression{n.Left, n.Right}
	case *ast.BinaryExpression:
		return []ast.Expression{n.Left, n.Right}
	case *ast.PrintStatement:
		return n.Arguments
	case *ast.ToStringExpression:
		return []ast.Expression{n.Argument}
	case *ast.ToIntegerExpression:
		return []ast.Expression{n.Argument}
	default:
		return nil
	}
}

func (r *Resolver) resolveExpression(env *Environment, expr ast.Expression) []Diagnostic {
	switch n := expr.(type) {
	case *ast.UnitLiteral, *ast.IntegerLiteral, *ast.StringLiteral:
		return nil
	case *ast.Identifier:
		_, diags := r.lookup(env, n.Name, n)
		return diags
	case *ast.Sequence:
		// Bindings in a fresh scope are definite even inside a branch.
		scope := env.Extend()
		outer := r.conditional
		r.conditional = 0
		defer func() { r.conditional = outer }()
		var diags []Diagnostic
		for _, child := range n.Body {
			diags = append(diags, r.resolveExpression(scope, child)...)
		}
		return diags
	case *ast.VarDecl:
		diags := r.resolveExpression(env, n.Init)
		if n.Name == nil || n.Name.Name == "" {
			return append(diags, Diagnostic{Message: "variable declaration requires a name", Node: n})
		}
		b := valueBinding
		if def, ok := n.Init.(*ast.FunctionDefinition); ok {
			b = functionBinding(len(def.Params))
		}
		target := env
		if n.Global {
			target = r.global
		}
		r.bind(target, n.Name.Name, b, n.Global && env != r.global)
		return diags
	case *ast.FunctionDefinition:
		return r.resolveFunctionDefinition(env, n)
	case *ast.IfExpression:
		diags := r.resolveExpression(env, n.Condition)
		r.conditional++
		defer func() { r.conditional-- }()
		diags = append(diags, r.resolveExpression(env, n.Then)...)
		if n.Else != nil {
			diags = append(diags, r.resolveExpression(env, n.Else)...)
		}
		return diags
	case *ast.UntilLoop:
		diags := r.resolveExpression(env, n.Condition)
		r.conditional++
		defer func() { r.conditional-- }()
		return append(diags, r.resolveExpression(env, n.Body)...)
	case *ast.FunctionCall:
		return r.resolveCall(env, n)
	case nil:
		return []Diagnostic{{Message: "missing expression"}}
	default:
		var diags []Diagnostic
		for _, child := range children(expr) {
			diags = append(diags, r.resolveExpression(env, child)...)
		}
		return diags
	}
}

func (r *Resolver) resolveFunctionDefinition(env *Environment, def *ast.FunctionDefinition) []Diagnostic {
	if def.ID == nil || def.ID.Name == "" {
		return []Diagnostic{{Message: "function definition requires a name", Node: def}}
	}
	name := def.ID.Name
	self := functionBinding(len(def.Params))
	var diags []Diagnostic

	frame := r.global.Extend()
	frame.Define(name, self)
	seen := make(map[string]struct{}, len(def.Params))
	for _, param := range def.Params {
		if param == nil || param.Name == "" {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("function '%s' has an unnamed parameter", name), Node: def})
			continue
		}
		if _, dup := seen[param.Name]; dup {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("function '%s' declares parameter '%s' twice", name, param.Name), Node: def})
		}
		seen[param.Name] = struct{}{}
		frame.Define(param.Name, valueBinding)
	}
	outer := r.conditional
	r.conditional = 0
	r.inFunction++
	diags = append(diags, r.resolveExpression(frame, def.Body)...)
	r.inFunction--
	r.conditional = outer

	r.bind(env, name, self, false)
	return diags
}

// resolveCall mirrors the evaluator: the callee is resolved and its arity
// checked before arguments.
func (r *Resolver) resolveCall(env *Environment, call *ast.FunctionCall) []Diagnostic {
	if call.Callee == nil {
		return []Diagnostic{{Message: "function call requires a callee", Node: call}}
	}
	name := call.Callee.Name
	callee, diags := r.lookup(env, name, call)
	if callee.Known && callee.IsFunction && callee.Arity != len(call.Arguments) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("'%s' expects %d arguments, got %d", name, callee.Arity, len(call.Arguments)),
			Node:    call,
		})
	}
	for _, arg := range call.Arguments {
		diags = append(diags, r.resolveExpression(env, arg)...)
	}
	return diags
}

func (r *Resolver) lookup(env *Environment, name string, node ast.Node) (Binding, []Diagnostic) {
	for scope := env; scope != nil; scope = scope.parent {
		b, ok := scope.symbols[name]
		if !ok {
			continue
		}
		if scope == r.global && r.inFunction > 0 && r.globalDecls[name] > 1 {
			// The global may be rebound before the body runs.
			return unknownBinding, nil
		}
		return b, nil
	}
	if r.globalDecls[name] > 0 {
		return unknownBinding, nil
	}
	return unknownBinding, []Diagnostic{{Message: fmt.Sprintf("undefined symbol '%s'", name), Node: node}}
}

func (r *Resolver) bind(env *Environment, name string, b Binding, fromNested bool) {
	if r.conditional > 0 || fromNested {
		env.Merge(name, b)
		return
	}
	env.Define(name, b)
}
