package runtime

import (
	"jot-lang/internal/span"
)

// bind returns method with 'this' fixed to inst. The bound function owns a
// scope holding 'this' between the method's closure and its call scope.
func (i *Interpreter) bind(method *FunctionVal, inst *InstanceVal) *FunctionVal {
	thisScope := i.env.Push(method.Closure)
	i.env.Define(thisScope, "this", inst, inst.Class.Name)
	i.env.Capture(thisScope)
	return &FunctionVal{Name: method.Name, Decl: method.Decl, Closure: thisScope}
}

// call invokes fn with already evaluated arguments. this is the receiver
// for a direct method call, or nil.
func (i *Interpreter) call(fn *FunctionVal, args []Value, this *InstanceVal, at span.Span) (Value, error) {
	if i.depth >= i.maxCallDepth {
		return nil, runtimeErr(ErrCallDepth, at,
			"maximum call depth of %d exceeded calling %s on line %d", i.maxCallDepth, fn.Name, at.Line())
	}
	if fn.Native != nil {
		return fn.Native(i, args)
	}

	decl := fn.Decl
	if len(args) != fn.Arity() {
		return nil, runtimeErr(ErrArity, at,
			"%s expects %d argument(s) but got %d on line %d", fn.Name, fn.Arity(), len(args), at.Line())
	}

	closure := fn.Closure
	if this != nil {
		closure = i.env.Push(fn.Closure)
		i.env.Define(closure, "this", this, this.Class.Name)
		defer i.env.Release(closure)
	}

	callScope := i.env.Push(closure)
	for n, param := range decl.Params {
		if !CheckType(args[n], param.Type.Name) {
			i.env.Release(callScope)
			return nil, runtimeErr(ErrTypeMismatch, at,
				"parameter '%s' of %s expects %s but got %s", param.Name, fn.Name, param.Type, typeNameOf(args[n]))
		}
		i.env.Define(callScope, param.Name, args[n], param.Type.Name)
	}

	i.logger.Debug("call", "function", fn.Name, "args", len(args), "depth", i.depth+1, "line", at.Line())
	i.depth++
	c, err := i.executeBlock(decl.Body.Stmts, callScope)
	i.depth--
	if err != nil {
		return nil, err
	}

	if c.Kind == Return {
		if !CheckType(c.Value, decl.ReturnType.Name) {
			return nil, runtimeErr(ErrTypeMismatch, decl.ReturnType.Span,
				"%s must return %s but returned %s", fn.Name, decl.ReturnType, typeNameOf(c.Value))
		}
		return c.Value, nil
	}
	if decl.ReturnType.Name == TypeVoid {
		return Nil, nil
	}
	return nil, runtimeErr(ErrMissingReturn, decl.ReturnType.Span,
		"function %s must return a value of type %s", fn.Name, decl.ReturnType)
}
