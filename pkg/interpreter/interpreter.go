package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested function calls before evaluation fails
// with a StackExhaustedError.
const DefaultMaxCallDepth = 10000

// Options configures an Interpreter.
type Options struct {
	// Stdout receives Print output. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives warnings and debug traces. Defaults to a discarding logger.
	Logger *slog.Logger
	// MaxCallDepth defaults to DefaultMaxCallDepth when zero.
	MaxCallDepth int
	// SilentRedeclare suppresses redeclaration warnings; rebinding still happens.
	SilentRedeclare bool
}

// Interpreter evaluates mlang trees against a single global environment. It is
// not safe for concurrent use; give each concurrent evaluation its own
// Interpreter.
type Interpreter struct {
	global   *runtime.Environment
	stdout   io.Writer
	logger   *slog.Logger
	maxDepth int
	silent   bool

	ctx       context.Context
	callDepth int
	warnings  []Warning
}

// New returns an interpreter with an empty global environment writing to
// os.Stdout.
func New() *Interpreter {
	return NewWithOptions(Options{})
}

// NewWithOptions returns an interpreter configured by opts.
func NewWithOptions(opts Options) *Interpreter {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxDepth := opts.MaxCallDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	return &Interpreter{
		global:   runtime.NewEnvironment(),
		stdout:   stdout,
		logger:   logger,
		maxDepth: maxDepth,
		silent:   opts.SilentRedeclare,
		ctx:      context.Background(),
	}
}

// GlobalEnvironment returns the interpreter's environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Warnings returns the non-fatal conditions recorded so far.
func (i *Interpreter) Warnings() []Warning {
	out := make([]Warning, len(i.warnings))
	copy(out, i.warnings)
	return out
}

// EvaluateModule runs a program root in the global scope and returns the last
// evaluated value.
func (i *Interpreter) EvaluateModule(module *ast.Module) (runtime.Value, error) {
	return i.EvaluateModuleContext(context.Background(), module)
}

// EvaluateModuleContext is EvaluateModule with cooperative cancellation: ctx is
// checked before every loop condition and every call.
func (i *Interpreter) EvaluateModuleContext(ctx context.Context, module *ast.Module) (runtime.Value, error) {
	if module == nil {
		return nil, fmt.Errorf("evaluate: nil module")
	}
	restore := i.bindContext(ctx)
	defer restore()

	var last runtime.Value = runtime.UnitValue{}
	for _, expr := range module.Body {
		val, err := i.evaluateExpression(expr, i.global)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

// Evaluate evaluates a single expression against the global environment.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.EvaluateContext(context.Background(), expr)
}

// EvaluateContext is Evaluate with cooperative cancellation.
func (i *Interpreter) EvaluateContext(ctx context.Context, expr ast.Expression) (runtime.Value, error) {
	restore := i.bindContext(ctx)
	defer restore()
	return i.evaluateExpression(expr, i.global)
}

// EvaluateNode dispatches on the root kind produced by the loader.
func (i *Interpreter) EvaluateNode(ctx context.Context, node ast.Node) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Module:
		return i.EvaluateModuleContext(ctx, n)
	case ast.Expression:
		return i.EvaluateContext(ctx, n)
	case nil:
		return nil, fmt.Errorf("evaluate: nil root node")
	default:
		return nil, fmt.Errorf("evaluate: unsupported root node %s", n.NodeType())
	}
}

func (i *Interpreter) bindContext(ctx context.Context) func() {
	if ctx == nil {
		ctx = context.Background()
	}
	prev := i.ctx
	i.ctx = ctx
	return func() { i.ctx = prev }
}

func (i *Interpreter) checkContext() error {
	if err := i.ctx.Err(); err != nil {
		return fmt.Errorf("evaluation cancelled: %w", err)
	}
	return nil
}

// evaluateExpression is the single dispatch point over the closed node set.
func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.UnitLiteral:
		return runtime.UnitValue{}, nil
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.Sequence:
		return i.evaluateSequence(n, env)
	case *ast.VarDecl:
		return i.evaluateVarDecl(n, env)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n, env)
	case *ast.UntilLoop:
		return i.evaluateUntilLoop(n, env)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.Comparison:
		return i.evaluateComparison(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.PrintStatement:
		return i.evaluatePrintStatement(n, env)
	case *ast.ToStringExpression:
		return i.evaluateToString(n, env)
	case *ast.ToIntegerExpression:
		return i.evaluateToInteger(n, env)
	case nil:
		return nil, fmt.Errorf("cannot evaluate nil expression")
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}
