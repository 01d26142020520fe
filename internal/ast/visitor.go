package ast

import "fmt"

// ExprVisitor is implemented by passes over expressions. R is the result
// each visit produces.
type ExprVisitor[R any] interface {
	VisitBinaryExpr(e *BinaryExpr) (R, error)
	VisitGroupingExpr(e *GroupingExpr) (R, error)
	VisitLiteralExpr(e *LiteralExpr) (R, error)
	VisitUnaryExpr(e *UnaryExpr) (R, error)
	VisitVariableExpr(e *VariableExpr) (R, error)
	VisitAssignExpr(e *AssignExpr) (R, error)
	VisitCallExpr(e *CallExpr) (R, error)
	VisitGetExpr(e *GetExpr) (R, error)
	VisitSetExpr(e *SetExpr) (R, error)
	VisitThisExpr(e *ThisExpr) (R, error)
	VisitNewExpr(e *NewExpr) (R, error)
}

// StmtVisitor is implemented by passes over statements.
type StmtVisitor[R any] interface {
	VisitBlockStmt(s *BlockStmt) (R, error)
	VisitExprStmt(s *ExprStmt) (R, error)
	VisitVarDecl(s *VarDecl) (R, error)
	VisitPropDecl(s *PropDecl) (R, error)
	VisitFuncDecl(s *FuncDecl) (R, error)
	VisitClassDecl(s *ClassDecl) (R, error)
	VisitIfStmt(s *IfStmt) (R, error)
	VisitWhileStmt(s *WhileStmt) (R, error)
	VisitReturnStmt(s *ReturnStmt) (R, error)
}

// AcceptExpr dispatches e to the matching method of v.
func AcceptExpr[R any](e Expr, v ExprVisitor[R]) (R, error) {
	switch n := e.(type) {
	case *BinaryExpr:
		return v.VisitBinaryExpr(n)
	case *GroupingExpr:
		return v.VisitGroupingExpr(n)
	case *LiteralExpr:
		return v.VisitLiteralExpr(n)
	case *UnaryExpr:
		return v.VisitUnaryExpr(n)
	case *VariableExpr:
		return v.VisitVariableExpr(n)
	case *AssignExpr:
		return v.VisitAssignExpr(n)
	case *CallExpr:
		return v.VisitCallExpr(n)
	case *GetExpr:
		return v.VisitGetExpr(n)
	case *SetExpr:
		return v.VisitSetExpr(n)
	case *ThisExpr:
		return v.VisitThisExpr(n)
	case *NewExpr:
		return v.VisitNewExpr(n)
	}
	var zero R
	return zero, fmt.Errorf("ast: unknown expression node %T", e)
}

// AcceptStmt dispatches s to the matching method of v.
func AcceptStmt[R any](s Stmt, v StmtVisitor[R]) (R, error) {
	switch n := s.(type) {
	case *BlockStmt:
		return v.VisitBlockStmt(n)
	case *ExprStmt:
		return v.VisitExprStmt(n)
	case *VarDecl:
		return v.VisitVarDecl(n)
	case *PropDecl:
		return v.VisitPropDecl(n)
	case *FuncDecl:
		return v.VisitFuncDecl(n)
	case *ClassDecl:
		return v.VisitClassDecl(n)
	case *IfStmt:
		return v.VisitIfStmt(n)
	case *WhileStmt:
		return v.VisitWhileStmt(n)
	case *ReturnStmt:
		return v.VisitReturnStmt(n)
	}
	var zero R
	return zero, fmt.Errorf("ast: unknown statement node %T", s)
}
