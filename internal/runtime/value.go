// Package runtime implements the Jot interpreter: scopes, runtime values,
// declared-type checks and the tree-walking evaluator.
package runtime

import (
	"fmt"
	"jot-lang/internal/ast"
	"math"
	"strconv"
)

// Value is one of NilVal, BoolVal, NumberVal, StringVal, *FunctionVal,
// *ClassVal or *InstanceVal. The set is closed.
type Value interface {
	TypeName() string
	String() string
	value()
}

// ---- Primitive values ----

// NilVal is null.
type NilVal struct{}

func (NilVal) TypeName() string { return "null" }
func (NilVal) String() string   { return "null" }
func (NilVal) value()           {}

// Nil is the shared null value.
var Nil Value = NilVal{}

// BoolVal is a boolean.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }
func (BoolVal) value()             {}

// NumberVal is a number. Integer is set for integer literals and results of
// integer-only arithmetic.
type NumberVal struct {
	F       float64
	Integer bool
}

// Int returns an integer-flagged number.
func Int(n int64) NumberVal { return NumberVal{F: float64(n), Integer: true} }

// Float returns a floating-point number.
func Float(f float64) NumberVal { return NumberVal{F: f} }

// fitsInt64 reports whether f lies inside the int64 range.
func fitsInt64(f float64) bool {
	return f >= math.MinInt64 && f < -math.MinInt64
}

func (v NumberVal) TypeName() string {
	if v.Integer {
		return "int"
	}
	return "float"
}

func (v NumberVal) String() string {
	if v.Integer && fitsInt64(v.F) {
		return strconv.FormatInt(int64(v.F), 10)
	}
	return strconv.FormatFloat(v.F, 'g', -1, 64)
}

func (NumberVal) value() {}

// StringVal is text.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }
func (StringVal) value()             {}

// ---- Callable values ----

// NativeFn is the Go signature for built-in functions.
type NativeFn func(i *Interpreter, args []Value) (Value, error)

// FunctionVal is a user-defined function with its closure scope, or a
// native function when Native is set.
type FunctionVal struct {
	Name    string
	Decl    *ast.FuncDecl
	Closure Scope
	Native  NativeFn
}

func (v *FunctionVal) TypeName() string { return "function" }
func (v *FunctionVal) String() string {
	if v.Native != nil {
		return fmt.Sprintf("<native fn: %s>", v.Name)
	}
	return fmt.Sprintf("<fn %s>", v.Name)
}
func (*FunctionVal) value() {}

// Arity returns the number of declared parameters, or -1 for natives,
// which check their own arguments.
func (v *FunctionVal) Arity() int {
	if v.Native != nil {
		return -1
	}
	return len(v.Decl.Params)
}

// ---- Class values ----

// PropInfo is a declared class property.
type PropInfo struct {
	Name    string
	Type    string
	Default Value
}

// ClassVal is a class: its methods and property defaults.
type ClassVal struct {
	Name    string
	Methods map[string]*FunctionVal
	Props   []PropInfo // declaration order
}

func (v *ClassVal) TypeName() string { return "class" }
func (v *ClassVal) String() string   { return v.Name }
func (*ClassVal) value()             {}

// FindMethod looks up a method by name.
func (v *ClassVal) FindMethod(name string) (*FunctionVal, bool) {
	m, ok := v.Methods[name]
	return m, ok
}

// InstanceVal is an object created by new.
type InstanceVal struct {
	Class  *ClassVal
	Fields map[string]Value
}

// NewInstance allocates an instance seeded with the class's property defaults.
func NewInstance(cls *ClassVal) *InstanceVal {
	fields := make(map[string]Value, len(cls.Props))
	for _, p := range cls.Props {
		fields[p.Name] = p.Default
	}
	return &InstanceVal{Class: cls, Fields: fields}
}

func (v *InstanceVal) TypeName() string { return v.Class.Name }
func (v *InstanceVal) String() string   { return v.Class.Name + " instance" }
func (*InstanceVal) value()             {}

// ---- Helpers ----

// IsNil reports whether v is null.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(NilVal)
	return ok
}

// IsTruthy reports the truthiness of v: null and false are false,
// everything else is true.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// ValuesEqual compares two values. Numbers compare by magnitude; functions,
// classes and instances by identity.
func ValuesEqual(a, b Value) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	switch av := a.(type) {
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av.F == bv.F
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case *FunctionVal:
		bv, ok := b.(*FunctionVal)
		return ok && av == bv
	case *ClassVal:
		bv, ok := b.(*ClassVal)
		return ok && av == bv
	case *InstanceVal:
		bv, ok := b.(*InstanceVal)
		return ok && av == bv
	}
	return false
}
