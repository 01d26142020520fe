package ast

import (
	"encoding/json"
	"jot-lang/internal/span"
)

// Dump converts a program to a tree of maps suitable for JSON or YAML
// serialization. Every node has a "kind" and a "span" field.
func Dump(stmts []Stmt) ([]interface{}, error) {
	d := dumper{}
	return d.stmts(stmts)
}

// DumpJSON renders a program as indented JSON.
func DumpJSON(stmts []Stmt) ([]byte, error) {
	tree, err := Dump(stmts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}

type nodeMap = map[string]interface{}

// dumper implements both visitors, producing one map per node.
type dumper struct{}

func (d dumper) expr(e Expr) (interface{}, error) {
	if e == nil {
		return nil, nil
	}
	return AcceptExpr[nodeMap](e, d)
}

func (d dumper) stmt(s Stmt) (interface{}, error) {
	if s == nil {
		return nil, nil
	}
	return AcceptStmt[nodeMap](s, d)
}

func (d dumper) exprs(list []Expr) ([]interface{}, error) {
	out := make([]interface{}, len(list))
	for i, e := range list {
		v, err := d.expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d dumper) stmts(list []Stmt) ([]interface{}, error) {
	out := make([]interface{}, len(list))
	for i, s := range list {
		v, err := d.stmt(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ---- expressions ----

func (d dumper) VisitBinaryExpr(e *BinaryExpr) (nodeMap, error) {
	left, err := d.expr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := d.expr(e.Right)
	if err != nil {
		return nil, err
	}
	return m("Binary", e.Span, "op", e.Op.String(), "left", left, "right", right), nil
}

func (d dumper) VisitGroupingExpr(e *GroupingExpr) (nodeMap, error) {
	inner, err := d.expr(e.Inner)
	if err != nil {
		return nil, err
	}
	return m("Grouping", e.Span, "inner", inner), nil
}

func (d dumper) VisitLiteralExpr(e *LiteralExpr) (nodeMap, error) {
	return m("Literal", e.Span, "value", e.Value), nil
}

func (d dumper) VisitUnaryExpr(e *UnaryExpr) (nodeMap, error) {
	operand, err := d.expr(e.Operand)
	if err != nil {
		return nil, err
	}
	return m("Unary", e.Span, "op", e.Op.String(), "operand", operand), nil
}

func (d dumper) VisitVariableExpr(e *VariableExpr) (nodeMap, error) {
	return m("Variable", e.Span, "name", e.Name), nil
}

func (d dumper) VisitAssignExpr(e *AssignExpr) (nodeMap, error) {
	value, err := d.expr(e.Value)
	if err != nil {
		return nil, err
	}
	return m("Assign", e.Span, "name", e.Name, "value", value), nil
}

func (d dumper) VisitCallExpr(e *CallExpr) (nodeMap, error) {
	callee, err := d.expr(e.Callee)
	if err != nil {
		return nil, err
	}
	args, err := d.exprs(e.Args)
	if err != nil {
		return nil, err
	}
	return m("Call", e.Span, "callee", callee, "args", args), nil
}

func (d dumper) VisitGetExpr(e *GetExpr) (nodeMap, error) {
	object, err := d.expr(e.Object)
	if err != nil {
		return nil, err
	}
	return m("Get", e.Span, "object", object, "name", e.Name), nil
}

func (d dumper) VisitSetExpr(e *SetExpr) (nodeMap, error) {
	object, err := d.expr(e.Object)
	if err != nil {
		return nil, err
	}
	value, err := d.expr(e.Value)
	if err != nil {
		return nil, err
	}
	return m("Set", e.Span, "object", object, "name", e.Name, "value", value), nil
}

func (d dumper) VisitThisExpr(e *ThisExpr) (nodeMap, error) {
	return m("This", e.Span), nil
}

func (d dumper) VisitNewExpr(e *NewExpr) (nodeMap, error) {
	args, err := d.exprs(e.Args)
	if err != nil {
		return nil, err
	}
	return m("New", e.Span, "className", e.ClassName, "args", args), nil
}

// ---- statements ----

func (d dumper) VisitBlockStmt(s *BlockStmt) (nodeMap, error) {
	body, err := d.stmts(s.Stmts)
	if err != nil {
		return nil, err
	}
	return m("Block", s.Span, "stmts", body), nil
}

func (d dumper) VisitExprStmt(s *ExprStmt) (nodeMap, error) {
	expr, err := d.expr(s.Expr)
	if err != nil {
		return nil, err
	}
	return m("ExpressionStmt", s.Span, "expr", expr), nil
}

func (d dumper) VisitVarDecl(s *VarDecl) (nodeMap, error) {
	result := m("VarDecl", s.Span, "name", s.Name, "type", s.Type.Name)
	if s.Init != nil {
		init, err := d.expr(s.Init)
		if err != nil {
			return nil, err
		}
		result["init"] = init
	}
	return result, nil
}

func (d dumper) VisitPropDecl(s *PropDecl) (nodeMap, error) {
	result := m("PropertyDecl", s.Span, "name", s.Name, "type", s.Type.Name)
	if s.Default != nil {
		def, err := d.expr(s.Default)
		if err != nil {
			return nil, err
		}
		result["default"] = def
	}
	return result, nil
}

func (d dumper) VisitFuncDecl(s *FuncDecl) (nodeMap, error) {
	params := make([]interface{}, len(s.Params))
	for i, p := range s.Params {
		params[i] = nodeMap{"name": p.Name, "type": p.Type.Name}
	}
	body, err := d.stmt(s.Body)
	if err != nil {
		return nil, err
	}
	return m("FunctionDecl", s.Span,
		"name", s.Name,
		"params", params,
		"returnType", s.ReturnType.Name,
		"body", body), nil
}

func (d dumper) VisitClassDecl(s *ClassDecl) (nodeMap, error) {
	props := make([]interface{}, len(s.Props))
	for i, p := range s.Props {
		v, err := d.VisitPropDecl(p)
		if err != nil {
			return nil, err
		}
		props[i] = v
	}
	methods := make([]interface{}, len(s.Methods))
	for i, fn := range s.Methods {
		v, err := d.VisitFuncDecl(fn)
		if err != nil {
			return nil, err
		}
		methods[i] = v
	}
	return m("ClassDecl", s.Span, "name", s.Name, "props", props, "methods", methods), nil
}

func (d dumper) VisitIfStmt(s *IfStmt) (nodeMap, error) {
	cond, err := d.expr(s.Condition)
	if err != nil {
		return nil, err
	}
	then, err := d.stmt(s.Then)
	if err != nil {
		return nil, err
	}
	result := m("If", s.Span, "condition", cond, "then", then)
	if s.Else != nil {
		els, err := d.stmt(s.Else)
		if err != nil {
			return nil, err
		}
		result["else"] = els
	}
	return result, nil
}

func (d dumper) VisitWhileStmt(s *WhileStmt) (nodeMap, error) {
	cond, err := d.expr(s.Condition)
	if err != nil {
		return nil, err
	}
	body, err := d.stmt(s.Body)
	if err != nil {
		return nil, err
	}
	return m("While", s.Span, "condition", cond, "body", body), nil
}

func (d dumper) VisitReturnStmt(s *ReturnStmt) (nodeMap, error) {
	result := m("Return", s.Span)
	if s.Value != nil {
		v, err := d.expr(s.Value)
		if err != nil {
			return nil, err
		}
		result["value"] = v
	}
	return result, nil
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) nodeMap {
	result := nodeMap{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		result[kvs[i].(string)] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) nodeMap {
	return nodeMap{
		"start": nodeMap{"line": s.Start.Line, "column": s.Start.Column},
		"end":   nodeMap{"line": s.End.Line, "column": s.End.Column},
	}
}
