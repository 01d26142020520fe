package runtime

import (
	"fmt"
)

// registerBuiltins installs the native functions in the global scope.
func registerBuiltins(env *Environment) {
	env.Define(env.Global(), "print", &FunctionVal{Name: "print", Native: nativePrint}, "")
}

// nativePrint writes the display form of its first argument and a newline.
// Extra arguments are ignored; a call without arguments prints nothing.
func nativePrint(i *Interpreter, args []Value) (Value, error) {
	if len(args) == 0 {
		i.logger.Warn("print called without arguments")
		return Nil, nil
	}
	if _, err := fmt.Fprintln(i.output, args[0].String()); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return Nil, nil
}
