package runtime

// Built-in type names usable in annotations.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "string"
	TypeVoid   = "void"
)

// CheckType reports whether v satisfies the declared type typeName.
//
// null satisfies every type. void accepts nothing else. Any name that is
// not a built-in type matches instances of the class with that name.
func CheckType(v Value, typeName string) bool {
	if IsNil(v) {
		return true
	}
	switch typeName {
	case TypeInt:
		n, ok := v.(NumberVal)
		return ok && n.Integer
	case TypeFloat:
		n, ok := v.(NumberVal)
		return ok && !n.Integer
	case TypeBool:
		_, ok := v.(BoolVal)
		return ok
	case TypeString:
		_, ok := v.(StringVal)
		return ok
	case TypeVoid:
		return false
	}
	inst, ok := v.(*InstanceVal)
	return ok && inst.Class.Name == typeName
}
