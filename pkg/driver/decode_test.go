package driver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"mlang/interpreter-go/pkg/ast"
)

// treeOpts compares trees by their exported fields; node kinds are already
// distinguished by their Go types.
var treeOpts = cmp.Options{
	cmpopts.IgnoreUnexported(
		ast.Module{}, ast.Identifier{}, ast.UnitLiteral{}, ast.IntegerLiteral{}, ast.StringLiteral{},
		ast.Sequence{}, ast.VarDecl{}, ast.FunctionDefinition{}, ast.IfExpression{}, ast.UntilLoop{},
		ast.FunctionCall{}, ast.Comparison{}, ast.BinaryExpression{}, ast.PrintStatement{},
		ast.ToStringExpression{}, ast.ToIntegerExpression{},
	),
	cmpopts.EquateEmpty(),
}

const bareOperandYAML = `
type: Module
body:
  - type: FunctionDefinition
    id: fact
    params: [n]
    body:
      type: IfExpression
      condition:
        type: Comparison
        operator: "<="
        left: {type: Identifier, name: n}
        right: {type: IntegerLiteral, value: 1}
      then: {type: IntegerLiteral, value: 1}
      else:
        type: BinaryExpression
        operator: "*"
        left: n
        right:
          type: FunctionCall
          callee: fact
          arguments:
            - type: BinaryExpression
              operator: "-"
              left: {type: Identifier, name: n}
              right: {type: IntegerLiteral, value: 1}
  - type: PrintStatement
    arguments:
      - type: ToStringExpression
        argument:
          type: FunctionCall
          callee: {type: Identifier, name: fact}
          arguments: [{type: IntegerLiteral, value: 5}]
`

func TestParseProgramRejectsBareOperand(t *testing.T) {
	root, err := ParseProgram([]byte(bareOperandYAML), FormatYAML)
	if err == nil {
		t.Fatalf("expected an error: bare names are only accepted in identifier positions")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Path != "body[0].body.else.left" {
		t.Fatalf("unexpected error %v (root %v)", err, root)
	}
}

func TestParseProgramBuildsTree(t *testing.T) {
	src := `
type: Module
body:
  - type: VarDecl
    name: x
    global: true
    init: {type: IntegerLiteral, value: 5}
  - type: FunctionDefinition
    name: show
    params: [{type: Identifier, name: a}, b]
    body:
      type: Sequence
      body:
        - type: PrintStatement
          arguments: [{type: Identifier, name: a}, {type: StringLiteral, value: "!"}]
        - type: UnitLiteral
  - type: UntilLoop
    condition: {type: ToIntegerExpression, argument: {type: StringLiteral, value: "0"}}
    body: {type: UnitLiteral}
  - type: FunctionCall
    callee: show
    arguments: [{type: Identifier, name: x}, {type: IntegerLiteral, value: "-3"}]
`
	root, err := ParseProgram([]byte(src), FormatYAML)
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	want := ast.Mod(
		ast.LetGlobal("x", ast.Int(5)),
		ast.Fn("show", []string{"a", "b"}, ast.Seq(
			ast.Print(ast.ID("a"), ast.Str("!")),
			ast.Unit(),
		)),
		ast.Until(ast.ToInt(ast.Str("0")), ast.Unit()),
		ast.Call("show", ast.ID("x"), ast.Int(-3)),
	)
	if diff := cmp.Diff(want, root, treeOpts); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProgramJSON(t *testing.T) {
	src := `{
  "type": "Module",
  "body": [
    {"type": "IfExpression",
     "condition": {"type": "Comparison", "operator": "!=", "left": {"type": "IntegerLiteral", "value": 9007199254740993}, "right": {"type": "IntegerLiteral", "value": 0}},
     "then": {"type": "StringLiteral", "value": "yes"},
     "else": null}
  ]
}`
	root, err := ParseProgram([]byte(src), FormatJSON)
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	want := ast.Mod(ast.If(ast.Ne(ast.Int(9007199254740993), ast.Int(0)), ast.Str("yes")))
	if diff := cmp.Diff(want, root, treeOpts); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProgramAcceptsExpressionRoot(t *testing.T) {
	root, err := ParseProgram([]byte(`{"type": "StringLiteral", "value": "solo"}`), FormatJSON)
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	if diff := cmp.Diff(ast.Node(ast.Str("solo")), root, treeOpts); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		path string
	}{
		{"missing type", `{"body": []}`, ""},
		{"unknown type", `{"type": "Module", "body": [{"type": "Lambda"}]}`, "body[0]"},
		{"nested module", `{"type": "Module", "body": [{"type": "Module"}]}`, "body[0]"},
		{"missing init", `{"type": "Module", "body": [{"type": "VarDecl", "name": "x"}]}`, "body[0].init"},
		{"bad operator", `{"type": "Comparison", "operator": "<>", "left": {"type": "UnitLiteral"}, "right": {"type": "UnitLiteral"}}`, "operator"},
		{"bad arithmetic", `{"type": "BinaryExpression", "operator": "%", "left": {"type": "UnitLiteral"}, "right": {"type": "UnitLiteral"}}`, "operator"},
		{"duplicate param", `{"type": "FunctionDefinition", "id": "f", "params": ["a", "a"], "body": {"type": "UnitLiteral"}}`, "params[1]"},
		{"fractional integer", `{"type": "IntegerLiteral", "value": 1.5}`, "value"},
		{"string value type", `{"type": "StringLiteral", "value": 3}`, "value"},
		{"empty identifier", `{"type": "Identifier", "name": ""}`, "name"},
		{"arguments not a list", `{"type": "PrintStatement", "arguments": {"type": "UnitLiteral"}}`, "arguments"},
		{"global not bool", `{"type": "VarDecl", "name": "x", "global": "yes", "init": {"type": "UnitLiteral"}}`, "global"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseProgram([]byte(tc.src), FormatJSON)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if decodeErr.Path != tc.path {
				t.Fatalf("error path = %q, want %q (%v)", decodeErr.Path, tc.path, err)
			}
		})
	}
}

func TestParseProgramRejectsEmptyDocuments(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		if _, err := ParseProgram(nil, format); err == nil {
			t.Fatalf("%s: expected error for empty document", format)
		}
	}
	if _, err := ParseProgram([]byte("type: Module"), Format("toml")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
