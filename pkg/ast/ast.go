package ast

type NodeType string

const (
	NodeModule              NodeType = "Module"
	NodeIdentifier          NodeType = "Identifier"
	NodeUnitLiteral         NodeType = "UnitLiteral"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeSequence            NodeType = "Sequence"
	NodeVarDecl             NodeType = "VarDecl"
	NodeIfExpression        NodeType = "IfExpression"
	NodeUntilLoop           NodeType = "UntilLoop"
	NodeFunctionDefinition  NodeType = "FunctionDefinition"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeComparison          NodeType = "Comparison"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeToStringExpression  NodeType = "ToStringExpression"
	NodeToIntegerExpression NodeType = "ToIntegerExpression"
)

// Node is implemented by every tree node. The unexported marker keeps the set
// closed to this package.
type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

// Expression is any evaluable node. Statements such as Print and Until are
// expressions that evaluate to unit.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Module

// Module is the program root. Its body runs in the global scope.
type Module struct {
	nodeImpl

	Body []Expression `json:"body"`
}

func NewModule(body []Expression) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type UnitLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewUnitLiteral() *UnitLiteral {
	return &UnitLiteral{nodeImpl: newNodeImpl(NodeUnitLiteral)}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// Blocks and declarations

// Sequence evaluates its body in a fresh scope and yields the last value.
type Sequence struct {
	nodeImpl
	expressionMarker

	Body []Expression `json:"body"`
}

func NewSequence(body []Expression) *Sequence {
	return &Sequence{nodeImpl: newNodeImpl(NodeSequence), Body: body}
}

type VarDecl struct {
	nodeImpl
	expressionMarker

	Name   *Identifier `json:"name"`
	Init   Expression  `json:"init"`
	Global bool        `json:"global,omitempty"`
}

func NewVarDecl(name *Identifier, init Expression, global bool) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl), Name: name, Init: init, Global: global}
}

type FunctionDefinition struct {
	nodeImpl
	expressionMarker

	ID     *Identifier   `json:"id"`
	Params []*Identifier `json:"params"`
	Body   Expression    `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, body Expression) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body}
}

// ParamNames returns the declared parameter names in order.
func (f *FunctionDefinition) ParamNames() []string {
	names := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		if p == nil {
			names = append(names, "")
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

// Control flow

type IfExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else,omitempty"`
}

func NewIfExpression(condition, then, elseBranch Expression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Then: then, Else: elseBranch}
}

// UntilLoop runs Body while Condition is truthy.
type UntilLoop struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Body      Expression `json:"body"`
}

func NewUntilLoop(condition, body Expression) *UntilLoop {
	return &UntilLoop{nodeImpl: newNodeImpl(NodeUntilLoop), Condition: condition, Body: body}
}

// Calls and operators

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type ComparisonOperator string

const (
	ComparisonEqual        ComparisonOperator = "=="
	ComparisonNotEqual     ComparisonOperator = "!="
	ComparisonGreater      ComparisonOperator = ">"
	ComparisonGreaterEqual ComparisonOperator = ">="
	ComparisonLess         ComparisonOperator = "<"
	ComparisonLessEqual    ComparisonOperator = "<="
)

// IsValid reports whether the operator is recognised.
func (op ComparisonOperator) IsValid() bool {
	switch op {
	case ComparisonEqual, ComparisonNotEqual, ComparisonGreater, ComparisonGreaterEqual, ComparisonLess, ComparisonLessEqual:
		return true
	default:
		return false
	}
}

type Comparison struct {
	nodeImpl
	expressionMarker

	Operator ComparisonOperator `json:"operator"`
	Left     Expression         `json:"left"`
	Right    Expression         `json:"right"`
}

func NewComparison(operator ComparisonOperator, left, right Expression) *Comparison {
	return &Comparison{nodeImpl: newNodeImpl(NodeComparison), Operator: operator, Left: left, Right: right}
}

type ArithmeticOperator string

const (
	ArithmeticAdd ArithmeticOperator = "+"
	ArithmeticSub ArithmeticOperator = "-"
	ArithmeticMul ArithmeticOperator = "*"
	ArithmeticDiv ArithmeticOperator = "/"
)

func (op ArithmeticOperator) IsValid() bool {
	switch op {
	case ArithmeticAdd, ArithmeticSub, ArithmeticMul, ArithmeticDiv:
		return true
	default:
		return false
	}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator ArithmeticOperator `json:"operator"`
	Left     Expression         `json:"left"`
	Right    Expression         `json:"right"`
}

func NewBinaryExpression(operator ArithmeticOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Built-ins

type PrintStatement struct {
	nodeImpl
	expressionMarker

	Arguments []Expression `json:"arguments"`
}

func NewPrintStatement(args []Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Arguments: args}
}

type ToStringExpression struct {
	nodeImpl
	expressionMarker

	Argument Expression `json:"argument"`
}

func NewToStringExpression(arg Expression) *ToStringExpression {
	return &ToStringExpression{nodeImpl: newNodeImpl(NodeToStringExpression), Argument: arg}
}

type ToIntegerExpression struct {
	nodeImpl
	expressionMarker

	Argument Expression `json:"argument"`
}

func NewToIntegerExpression(arg Expression) *ToIntegerExpression {
	return &ToIntegerExpression{nodeImpl: newNodeImpl(NodeToIntegerExpression), Argument: arg}
}
