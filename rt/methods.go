package rt

import (
	"strings"
)

// ---------------------------------------------------------------------------
// Builtin method tables
// ---------------------------------------------------------------------------

// builtinMethods returns the method table for a builtin kind.
func (r *Runtime) builtinMethods(k Kind) map[string]MethodFunc {
	return r.builtins[k]
}

// arity checks the positional argument count of a builtin method.
func arity(name string, args []Value, want int) error {
	if len(args) != want {
		return Failf(ErrCall, "%s() takes %d argument(s), got %d", name, want, len(args))
	}
	return nil
}

// registerBuiltinMethods installs the method tables for the builtin
// kinds. These back the runtime's method-call protocol for values that
// are not user-defined instances.
func (r *Runtime) registerBuiltinMethods() {
	r.builtins[KindString] = map[string]MethodFunc{
		"upper": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("upper", args, 0); err != nil {
				return Invalid, err
			}
			s, err := rt.AsString(recv)
			if err != nil {
				return Invalid, err
			}
			return rt.NewString(strings.ToUpper(s)), nil
		},
		"lower": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("lower", args, 0); err != nil {
				return Invalid, err
			}
			s, err := rt.AsString(recv)
			if err != nil {
				return Invalid, err
			}
			return rt.NewString(strings.ToLower(s)), nil
		},
		"find": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("find", args, 1); err != nil {
				return Invalid, err
			}
			s, err := rt.AsString(recv)
			if err != nil {
				return Invalid, err
			}
			sub, err := rt.AsString(args[0])
			if err != nil {
				return Invalid, err
			}
			return rt.NewInt(int64(strings.Index(s, sub))), nil
		},
	}

	r.builtins[KindList] = map[string]MethodFunc{
		"append": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("append", args, 1); err != nil {
				return Invalid, err
			}
			if err := rt.ListAppend(recv, args[0]); err != nil {
				return Invalid, err
			}
			return Nil, nil
		},
		"pop": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("pop", args, 0); err != nil {
				return Invalid, err
			}
			obj := rt.get(recv)
			if obj == nil || obj.kind != KindList {
				return Invalid, Fail(ErrType, "value is not a list")
			}
			if len(obj.elems) == 0 {
				return Invalid, Fail(ErrIndex, "pop from empty list")
			}
			last := obj.elems[len(obj.elems)-1]
			obj.elems = obj.elems[:len(obj.elems)-1]
			// The list's reference transfers to the caller.
			return last, nil
		},
	}

	r.builtins[KindDict] = map[string]MethodFunc{
		"keys": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("keys", args, 0); err != nil {
				return Invalid, err
			}
			pairs, err := rt.Items(recv)
			if err != nil {
				return Invalid, err
			}
			keys := make([]Value, 0, len(pairs))
			for _, kv := range pairs {
				keys = append(keys, kv[0])
			}
			return rt.NewList(keys), nil
		},
		"get": func(rt *Runtime, recv Value, args []Value, _ map[string]Value) (Value, error) {
			if err := arity("get", args, 1); err != nil {
				return Invalid, err
			}
			v, err := rt.GetItem(recv, args[0])
			if err != nil {
				if IsKind(err, ErrKey) {
					return Nil, nil
				}
				return Invalid, err
			}
			return v, nil
		},
	}
}
