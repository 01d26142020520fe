package runtime

import (
	"jot-lang/internal/ast"
	"jot-lang/internal/span"
	"jot-lang/internal/token"
)

// ============================================================
// Completions
// ============================================================

// CompletionKind tells how a statement finished.
type CompletionKind int

const (
	Normal CompletionKind = iota
	Return                // a return statement is unwinding to its function
)

// Completion is the result of executing a statement. Value is set for Return.
type Completion struct {
	Kind  CompletionKind
	Value Value
}

var normal = Completion{Kind: Normal}

var (
	_ ast.ExprVisitor[Value]      = (*Interpreter)(nil)
	_ ast.StmtVisitor[Completion] = (*Interpreter)(nil)
)

func (i *Interpreter) evaluate(e ast.Expr) (Value, error) {
	return ast.AcceptExpr[Value](e, i)
}

func (i *Interpreter) execute(s ast.Stmt) (Completion, error) {
	return ast.AcceptStmt[Completion](s, i)
}

// ============================================================
// Statements
// ============================================================

func (i *Interpreter) VisitExprStmt(s *ast.ExprStmt) (Completion, error) {
	_, err := i.evaluate(s.Expr)
	return normal, err
}

func (i *Interpreter) VisitVarDecl(s *ast.VarDecl) (Completion, error) {
	val := Nil
	if s.Init != nil {
		v, err := i.evaluate(s.Init)
		if err != nil {
			return normal, err
		}
		val = v
	}
	if !CheckType(val, s.Type.Name) {
		return normal, runtimeErr(ErrTypeMismatch, s.Span,
			"cannot initialize variable '%s' of type %s with a value of type %s", s.Name, s.Type, typeNameOf(val))
	}
	i.env.Define(i.scope, s.Name, val, s.Type.Name)
	i.logger.Debug("define variable", "name", s.Name, "type", s.Type.Name, "line", s.Span.Line())
	return normal, nil
}

// VisitPropDecl handles a prop statement outside a class body, which
// declares nothing.
func (i *Interpreter) VisitPropDecl(s *ast.PropDecl) (Completion, error) {
	return normal, nil
}

func (i *Interpreter) VisitFuncDecl(s *ast.FuncDecl) (Completion, error) {
	fn := &FunctionVal{Name: s.Name, Decl: s, Closure: i.scope}
	i.env.Capture(i.scope)
	i.env.Define(i.scope, s.Name, fn, "")
	i.logger.Debug("define function", "name", s.Name, "params", len(s.Params), "line", s.Span.Line())
	return normal, nil
}

func (i *Interpreter) VisitClassDecl(s *ast.ClassDecl) (Completion, error) {
	cls := &ClassVal{
		Name:    s.Name,
		Methods: make(map[string]*FunctionVal, len(s.Methods)),
		Props:   make([]PropInfo, 0, len(s.Props)),
	}
	for _, p := range s.Props {
		def := Nil
		if p.Default != nil {
			v, err := i.evaluate(p.Default)
			if err != nil {
				return normal, err
			}
			def = v
		}
		if !CheckType(def, p.Type.Name) {
			return normal, runtimeErr(ErrTypeMismatch, p.Span,
				"default of property '%s.%s' must be %s, got %s", s.Name, p.Name, p.Type, typeNameOf(def))
		}
		cls.Props = append(cls.Props, PropInfo{Name: p.Name, Type: p.Type.Name, Default: def})
	}
	if len(s.Methods) > 0 {
		i.env.Capture(i.scope)
	}
	for _, m := range s.Methods {
		cls.Methods[m.Name] = &FunctionVal{Name: m.Name, Decl: m, Closure: i.scope}
	}
	i.env.Define(i.scope, s.Name, cls, "")
	i.logger.Debug("define class", "name", s.Name, "props", len(cls.Props), "methods", len(cls.Methods), "line", s.Span.Line())
	return normal, nil
}

func (i *Interpreter) VisitIfStmt(s *ast.IfStmt) (Completion, error) {
	cond, err := i.evaluate(s.Condition)
	if err != nil {
		return normal, err
	}
	if IsTruthy(cond) {
		return i.execute(s.Then)
	}
	if s.Else != nil {
		return i.execute(s.Else)
	}
	return normal, nil
}

func (i *Interpreter) VisitWhileStmt(s *ast.WhileStmt) (Completion, error) {
	for {
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if !IsTruthy(cond) {
			return normal, nil
		}
		c, err := i.execute(s.Body)
		if err != nil {
			return normal, err
		}
		if c.Kind == Return {
			return c, nil
		}
	}
}

func (i *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) (Completion, error) {
	val := Nil
	if s.Value != nil {
		v, err := i.evaluate(s.Value)
		if err != nil {
			return normal, err
		}
		val = v
	}
	return Completion{Kind: Return, Value: val}, nil
}

func (i *Interpreter) VisitBlockStmt(s *ast.BlockStmt) (Completion, error) {
	return i.executeBlock(s.Stmts, i.env.Push(i.scope))
}

// executeBlock runs stmts in blockScope and restores the previous scope on
// every exit path. blockScope is released afterwards unless captured.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, blockScope Scope) (Completion, error) {
	prev := i.scope
	i.scope = blockScope
	defer func() {
		i.scope = prev
		i.env.Release(blockScope)
	}()

	for _, stmt := range stmts {
		c, err := i.execute(stmt)
		if err != nil {
			return normal, err
		}
		if c.Kind == Return {
			return c, nil
		}
	}
	return normal, nil
}

// ============================================================
// Expressions
// ============================================================

func (i *Interpreter) VisitLiteralExpr(e *ast.LiteralExpr) (Value, error) {
	switch v := e.Value.(type) {
	case int64:
		return Int(v), nil
	case float64:
		return Float(v), nil
	case string:
		return StringVal(v), nil
	case bool:
		return BoolVal(v), nil
	}
	return Nil, nil
}

func (i *Interpreter) VisitGroupingExpr(e *ast.GroupingExpr) (Value, error) {
	return i.evaluate(e.Inner)
}

func (i *Interpreter) VisitUnaryExpr(e *ast.UnaryExpr) (Value, error) {
	operand, err := i.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.BANG:
		return BoolVal(!IsTruthy(operand)), nil
	case token.MINUS:
		n, ok := operand.(NumberVal)
		if !ok {
			return nil, runtimeErr(ErrOperandType, e.Span,
				"operand of '-' must be a number on line %d, got %s", e.Span.Line(), typeNameOf(operand))
		}
		return numberResult(-n.F, n.Integer), nil
	}
	return nil, runtimeErr(ErrOperandType, e.Span, "unknown unary operator '%s'", e.Op)
}

func (i *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	// Logical operators short-circuit and yield the deciding operand.
	switch e.Op {
	case token.OR:
		if IsTruthy(left) {
			return left, nil
		}
		return i.evaluate(e.Right)
	case token.AND:
		if !IsTruthy(left) {
			return left, nil
		}
		return i.evaluate(e.Right)
	}

	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.EQ:
		return BoolVal(ValuesEqual(left, right)), nil
	case token.NEQ:
		return BoolVal(!ValuesEqual(left, right)), nil
	case token.PLUS:
		if ls, ok := left.(StringVal); ok {
			if rs, ok := right.(StringVal); ok {
				return ls + rs, nil
			}
		}
	}

	ln, lok := left.(NumberVal)
	rn, rok := right.(NumberVal)
	if !lok || !rok {
		if e.Op == token.PLUS {
			return nil, runtimeErr(ErrOperandType, e.Span,
				"operands of '+' must be two numbers or two strings on line %d, got %s and %s",
				e.Span.Line(), typeNameOf(left), typeNameOf(right))
		}
		return nil, runtimeErr(ErrOperandType, e.Span,
			"operands of '%s' must be numbers on line %d, got %s and %s",
			e.Op, e.Span.Line(), typeNameOf(left), typeNameOf(right))
	}
	return arithmetic(e.Op, ln, rn, e.Span)
}

// arithmetic applies a numeric operator. Integer operands give integer
// results for + - * and truncating /, as long as the result fits in an
// int64; larger results become floats.
func arithmetic(op token.Kind, a, b NumberVal, at span.Span) (Value, error) {
	integer := a.Integer && b.Integer
	switch op {
	case token.PLUS:
		return numberResult(a.F+b.F, integer), nil
	case token.MINUS:
		return numberResult(a.F-b.F, integer), nil
	case token.STAR:
		return numberResult(a.F*b.F, integer), nil
	case token.SLASH:
		if !integer {
			return Float(a.F / b.F), nil
		}
		if b.F == 0 {
			return nil, runtimeErr(ErrDivisionByZero, at, "division by zero on line %d", at.Line())
		}
		if b.F == -1 {
			return numberResult(-a.F, true), nil
		}
		return Int(int64(a.F) / int64(b.F)), nil
	case token.LT:
		return BoolVal(a.F < b.F), nil
	case token.LTE:
		return BoolVal(a.F <= b.F), nil
	case token.GT:
		return BoolVal(a.F > b.F), nil
	case token.GTE:
		return BoolVal(a.F >= b.F), nil
	}
	return nil, runtimeErr(ErrOperandType, at, "unknown binary operator '%s'", op)
}

func numberResult(f float64, integer bool) NumberVal {
	return NumberVal{F: f, Integer: integer && fitsInt64(f)}
}

func (i *Interpreter) VisitVariableExpr(e *ast.VariableExpr) (Value, error) {
	val, ok := i.env.Get(i.scope, e.Name)
	if !ok {
		return nil, runtimeErr(ErrUndefined, e.Span, "undefined variable '%s' on line %d", e.Name, e.Span.Line())
	}
	return val, nil
}

func (i *Interpreter) VisitAssignExpr(e *ast.AssignExpr) (Value, error) {
	val, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	declared, ok := i.env.DeclaredType(i.scope, e.Name)
	if !ok {
		return nil, runtimeErr(ErrUndefined, e.Span, "undefined variable '%s' on line %d", e.Name, e.Span.Line())
	}
	if declared != "" && !CheckType(val, declared) {
		return nil, runtimeErr(ErrTypeMismatch, e.Span,
			"cannot assign a value of type %s to variable '%s' of type %s", typeNameOf(val), e.Name, declared)
	}
	i.env.Assign(i.scope, e.Name, val)
	return val, nil
}

func (i *Interpreter) VisitThisExpr(e *ast.ThisExpr) (Value, error) {
	val, ok := i.env.Get(i.scope, "this")
	if !ok {
		return nil, runtimeErr(ErrUndefined, e.Span, "'this' used outside of a method on line %d", e.Span.Line())
	}
	return val, nil
}

func (i *Interpreter) VisitGetExpr(e *ast.GetExpr) (Value, error) {
	obj, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*InstanceVal)
	if !ok {
		return nil, runtimeErr(ErrInvalidMember, e.Span,
			"cannot read member '%s' of %s: only instances have members", e.Name, typeNameOf(obj))
	}
	if v, ok := inst.Fields[e.Name]; ok {
		return v, nil
	}
	if m, ok := inst.Class.FindMethod(e.Name); ok {
		return i.bind(m, inst), nil
	}
	return nil, runtimeErr(ErrInvalidMember, e.Span, "undefined member '%s' on class %s", e.Name, inst.Class.Name)
}

func (i *Interpreter) VisitSetExpr(e *ast.SetExpr) (Value, error) {
	obj, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*InstanceVal)
	if !ok {
		return nil, runtimeErr(ErrInvalidMember, e.Span,
			"cannot set member '%s' on %s: only instances have members", e.Name, typeNameOf(obj))
	}
	val, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if IsNil(val) {
		return nil, runtimeErr(ErrNullArgument, e.Span, "cannot assign null to member '%s' of %s", e.Name, inst.Class.Name)
	}
	inst.Fields[e.Name] = val
	return val, nil
}

func (i *Interpreter) VisitCallExpr(e *ast.CallExpr) (Value, error) {
	callee, this, err := i.evalCallee(e.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*FunctionVal)
	if !ok {
		return nil, runtimeErr(ErrNotCallable, e.Span, "%s is not callable (line %d)", typeNameOf(callee), e.Span.Line())
	}
	args, err := i.evalArgs(e.Args, fn.Name)
	if err != nil {
		return nil, err
	}
	return i.call(fn, args, this, e.Span)
}

// evalCallee evaluates a callee. For obj.method(...) the method is returned
// unbound together with its receiver, so no bound function is allocated.
func (i *Interpreter) evalCallee(callee ast.Expr) (Value, *InstanceVal, error) {
	get, ok := callee.(*ast.GetExpr)
	if !ok {
		v, err := i.evaluate(callee)
		return v, nil, err
	}
	obj, err := i.evaluate(get.Object)
	if err != nil {
		return nil, nil, err
	}
	inst, ok := obj.(*InstanceVal)
	if !ok {
		return nil, nil, runtimeErr(ErrInvalidMember, get.Span,
			"cannot read member '%s' of %s: only instances have members", get.Name, typeNameOf(obj))
	}
	if v, ok := inst.Fields[get.Name]; ok {
		return v, nil, nil
	}
	if m, ok := inst.Class.FindMethod(get.Name); ok {
		return m, inst, nil
	}
	return nil, nil, runtimeErr(ErrInvalidMember, get.Span, "undefined member '%s' on class %s", get.Name, inst.Class.Name)
}

// evalArgs evaluates call arguments left to right. A null argument fails
// the call.
func (i *Interpreter) evalArgs(exprs []ast.Expr, callee string) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for n, expr := range exprs {
		v, err := i.evaluate(expr)
		if err != nil {
			return nil, err
		}
		if IsNil(v) {
			return nil, runtimeErr(ErrNullArgument, expr.GetSpan(),
				"argument %d of %s is null on line %d", n+1, callee, expr.GetSpan().Line())
		}
		args = append(args, v)
	}
	return args, nil
}

func (i *Interpreter) VisitNewExpr(e *ast.NewExpr) (Value, error) {
	v, ok := i.env.Get(i.scope, e.ClassName)
	if !ok {
		return nil, runtimeErr(ErrUndefined, e.Span, "undefined class '%s' on line %d", e.ClassName, e.Span.Line())
	}
	cls, ok := v.(*ClassVal)
	if !ok {
		return nil, runtimeErr(ErrInvalidNew, e.Span, "'%s' is not a class, it is %s", e.ClassName, typeNameOf(v))
	}

	inst := NewInstance(cls)
	args, err := i.evalArgs(e.Args, cls.Name)
	if err != nil {
		return nil, err
	}
	if ctor, ok := cls.FindMethod("constructor"); ok {
		if _, err := i.call(ctor, args, inst, e.Span); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, runtimeErr(ErrInvalidNew, e.Span,
			"class %s has no constructor but was given %d argument(s)", cls.Name, len(args))
	}
	i.logger.Debug("construct instance", "class", cls.Name, "line", e.Span.Line())
	return inst, nil
}
