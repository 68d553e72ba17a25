package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Unit() *UnitLiteral {
	return NewUnitLiteral()
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

// Block and declaration helpers.

func Mod(body ...Expression) *Module {
	return NewModule(body)
}

func Seq(body ...Expression) *Sequence {
	return NewSequence(body)
}

func Let(name string, init Expression) *VarDecl {
	return NewVarDecl(ID(name), init, false)
}

func LetGlobal(name string, init Expression) *VarDecl {
	return NewVarDecl(ID(name), init, true)
}

func Fn(name string, params []string, body Expression) *FunctionDefinition {
	ids := make([]*Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ID(p))
	}
	return NewFunctionDefinition(ID(name), ids, body)
}

// Control flow helpers.

func If(condition, then Expression) *IfExpression {
	return NewIfExpression(condition, then, nil)
}

func IfElse(condition, then, elseBranch Expression) *IfExpression {
	return NewIfExpression(condition, then, elseBranch)
}

func Until(condition, body Expression) *UntilLoop {
	return NewUntilLoop(condition, body)
}

// Call and operator helpers.

func Call(callee string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(callee), args)
}

func Cmp(op ComparisonOperator, left, right Expression) *Comparison {
	return NewComparison(op, left, right)
}

func Eq(left, right Expression) *Comparison { return Cmp(ComparisonEqual, left, right) }
func Ne(left, right Expression) *Comparison { return Cmp(ComparisonNotEqual, left, right) }
func Gt(left, right Expression) *Comparison { return Cmp(ComparisonGreater, left, right) }
func Ge(left, right Expression) *Comparison { return Cmp(ComparisonGreaterEqual, left, right) }
func Lt(left, right Expression) *Comparison { return Cmp(ComparisonLess, left, right) }
func Le(left, right Expression) *Comparison { return Cmp(ComparisonLessEqual, left, right) }

func Bin(op ArithmeticOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

// Built-in helpers.

func Print(args ...Expression) *PrintStatement {
	return NewPrintStatement(args)
}

func ToStr(arg Expression) *ToStringExpression {
	return NewToStringExpression(arg)
}

func ToInt(arg Expression) *ToIntegerExpression {
	return NewToIntegerExpression(arg)
}
