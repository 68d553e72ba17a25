package driver

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"mlang/interpreter-go/pkg/ast"
)

// DecodeError reports a malformed serialized tree. Path locates the offending
// node, e.g. "body[2].init".
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Reason
	}
	return fmt.Sprintf("decode %s: %s", e.Path, e.Reason)
}

func decodeErr(path, format string, args ...any) error {
	return &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// DecodeNode builds a validated tree from its generic map form, as produced
// by a YAML or JSON decoder. Nodes are selected by their "type" field.
func DecodeNode(raw map[string]any) (ast.Node, error) {
	return decodeNode(raw, "")
}

func decodeNode(node map[string]any, path string) (ast.Node, error) {
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeModule:
		body, err := decodeExpressionList(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewModule(body), nil
	case "":
		return nil, decodeErr(path, "node is missing its type")
	default:
		return decodeExpression(node, path)
	}
}

func decodeExpression(node map[string]any, path string) (ast.Expression, error) {
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeUnitLiteral:
		return ast.NewUnitLiteral(), nil
	case ast.NodeIntegerLiteral:
		n, err := decodeInteger(node["value"], joinPath(path, "value"))
		if err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(n), nil
	case ast.NodeStringLiteral:
		val, ok := node["value"].(string)
		if !ok {
			if _, present := node["value"]; present {
				return nil, decodeErr(joinPath(path, "value"), "expected string, got %T", node["value"])
			}
		}
		return ast.NewStringLiteral(val), nil
	case ast.NodeIdentifier:
		id, err := decodeIdentifier(node["name"], joinPath(path, "name"))
		if err != nil {
			return nil, err
		}
		return id, nil
	case ast.NodeSequence:
		body, err := decodeExpressionList(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewSequence(body), nil
	case ast.NodeVarDecl:
		name, err := decodeIdentifier(node["name"], joinPath(path, "name"))
		if err != nil {
			return nil, err
		}
		init, err := decodeChild(node, "init", path)
		if err != nil {
			return nil, err
		}
		global, err := decodeBool(node["global"], joinPath(path, "global"))
		if err != nil {
			return nil, err
		}
		return ast.NewVarDecl(name, init, global), nil
	case ast.NodeIfExpression:
		cond, err := decodeChild(node, "condition", path)
		if err != nil {
			return nil, err
		}
		then, err := decodeChild(node, "then", path)
		if err != nil {
			return nil, err
		}
		var elseBranch ast.Expression
		if _, ok := node["else"]; ok && node["else"] != nil {
			elseBranch, err = decodeChild(node, "else", path)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIfExpression(cond, then, elseBranch), nil
	case ast.NodeUntilLoop:
		cond, err := decodeChild(node, "condition", path)
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewUntilLoop(cond, body), nil
	case ast.NodeFunctionDefinition:
		return decodeFunctionDefinition(node, path)
	case ast.NodeFunctionCall:
		callee, err := decodeIdentifier(node["callee"], joinPath(path, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressionList(node, "arguments", path)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(callee, args), nil
	case ast.NodeComparison:
		op, _ := node["operator"].(string)
		if !ast.ComparisonOperator(op).IsValid() {
			return nil, decodeErr(joinPath(path, "operator"), "unknown comparison operator %q", op)
		}
		left, right, err := decodeOperands(node, path)
		if err != nil {
			return nil, err
		}
		return ast.NewComparison(ast.ComparisonOperator(op), left, right), nil
	case ast.NodeBinaryExpression:
		op, _ := node["operator"].(string)
		if !ast.ArithmeticOperator(op).IsValid() {
			return nil, decodeErr(joinPath(path, "operator"), "unknown arithmetic operator %q", op)
		}
		left, right, err := decodeOperands(node, path)
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(ast.ArithmeticOperator(op), left, right), nil
	case ast.NodePrintStatement:
		args, err := decodeExpressionList(node, "arguments", path)
		if err != nil {
			return nil, err
		}
		return ast.NewPrintStatement(args), nil
	case ast.NodeToStringExpression:
		arg, err := decodeChild(node, "argument", path)
		if err != nil {
			return nil, err
		}
		return ast.NewToStringExpression(arg), nil
	case ast.NodeToIntegerExpression:
		arg, err := decodeChild(node, "argument", path)
		if err != nil {
			return nil, err
		}
		return ast.NewToIntegerExpression(arg), nil
	case ast.NodeModule:
		return nil, decodeErr(path, "Module is only valid as the program root")
	case "":
		return nil, decodeErr(path, "node is missing its type")
	default:
		return nil, decodeErr(path, "unknown node type %q", typ)
	}
}

func decodeFunctionDefinition(node map[string]any, path string) (*ast.FunctionDefinition, error) {
	idRaw, ok := node["id"]
	if !ok {
		idRaw = node["name"]
	}
	id, err := decodeIdentifier(idRaw, joinPath(path, "id"))
	if err != nil {
		return nil, err
	}
	paramsRaw, _ := node["params"].([]any)
	if _, present := node["params"]; present && node["params"] != nil && paramsRaw == nil {
		return nil, decodeErr(joinPath(path, "params"), "expected a list, got %T", node["params"])
	}
	params := make([]*ast.Identifier, 0, len(paramsRaw))
	seen := make(map[string]struct{}, len(paramsRaw))
	for idx, raw := range paramsRaw {
		paramPath := fmt.Sprintf("%s[%d]", joinPath(path, "params"), idx)
		param, err := decodeIdentifier(raw, paramPath)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[param.Name]; dup {
			return nil, decodeErr(paramPath, "duplicate parameter %q in function %q", param.Name, id.Name)
		}
		seen[param.Name] = struct{}{}
		params = append(params, param)
	}
	body, err := decodeChild(node, "body", path)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(id, params, body), nil
}

func decodeOperands(node map[string]any, path string) (ast.Expression, ast.Expression, error) {
	left, err := decodeChild(node, "left", path)
	if err != nil {
		return nil, nil, err
	}
	right, err := decodeChild(node, "right", path)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func decodeChild(node map[string]any, key, path string) (ast.Expression, error) {
	childPath := joinPath(path, key)
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, decodeErr(childPath, "required field is missing")
	}
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, decodeErr(childPath, "expected a node, got %T", raw)
	}
	return decodeExpression(child, childPath)
}

func decodeExpressionList(node map[string]any, key, path string) ([]ast.Expression, error) {
	listPath := joinPath(path, key)
	raw, present := node[key]
	if !present || raw == nil {
		return []ast.Expression{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, decodeErr(listPath, "expected a list, got %T", raw)
	}
	exprs := make([]ast.Expression, 0, len(items))
	for idx, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", listPath, idx)
		child, ok := item.(map[string]any)
		if !ok {
			return nil, decodeErr(itemPath, "expected a node, got %T", item)
		}
		expr, err := decodeExpression(child, itemPath)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// decodeIdentifier accepts either a bare name or an Identifier node.
func decodeIdentifier(raw any, path string) (*ast.Identifier, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, decodeErr(path, "identifier must not be empty")
		}
		return ast.NewIdentifier(v), nil
	case map[string]any:
		if typ, _ := v["type"].(string); typ != "" && typ != string(ast.NodeIdentifier) {
			return nil, decodeErr(path, "expected Identifier, got %s", typ)
		}
		return decodeIdentifier(v["name"], path)
	case nil:
		return nil, decodeErr(path, "required identifier is missing")
	default:
		return nil, decodeErr(path, "expected identifier, got %T", raw)
	}
}

func decodeInteger(raw any, path string) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, decodeErr(path, "integer %d overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, decodeErr(path, "expected integer, got %v", v)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, decodeErr(path, "invalid integer %q", v.String())
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, decodeErr(path, "invalid integer %q", v)
		}
		return n, nil
	case nil:
		return 0, decodeErr(path, "required integer is missing")
	default:
		return 0, decodeErr(path, "expected integer, got %T", raw)
	}
}

func decodeBool(raw any, path string) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, decodeErr(path, "expected bool, got %T", raw)
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
