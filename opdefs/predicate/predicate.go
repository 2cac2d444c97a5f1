package predicate

import (
	"lispy/engine/operators"
	"lispy/lib/value"
)

func init() {
	ops := []operators.Operator{
		typeOp{"number?", "Whether the argument is an int or a float", value.IsNumber},
		typeOp{"symbol?", "Whether the argument is a symbol", func(v value.Value) bool {
			_, ok := v.(value.Symbol)
			return ok
		}},
		typeOp{"string?", "Whether the argument is a string", func(v value.Value) bool {
			_, ok := v.(value.String)
			return ok
		}},
		typeOp{"procedure?", "Whether the argument can be called", value.IsProcedure},
		eqOp{}, equalOp{}, notOp{},
	}
	for _, op := range ops {
		if err := operators.Register(op); err != nil {
			panic(err)
		}
	}
}

type typeOp struct {
	name string
	help string
	test func(value.Value) bool
}

func (t typeOp) Signature() *operators.Signature {
	return operators.NewSignature(t.name).Arity(1, 1).Doc(t.help)
}

func (t typeOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return value.Bool(t.test(args[0])), nil
}

type eqOp struct{}

func (e eqOp) Signature() *operators.Signature {
	return operators.NewSignature("eq?").
		Arity(2, 2).
		Doc("Identity: atoms by value, lists and procedures only when they are the same object")
}

func (e eqOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return value.Bool(Same(args[0], args[1])), nil
}

// Same is eq? on two values. Two lists are the same when they share their
// backing storage; every empty list is the same as every other.
func Same(a, b value.Value) bool {
	la, ok := a.(value.List)
	if !ok {
		return a.Equal(b)
	}
	lb, ok := b.(value.List)
	if !ok || len(la) != len(lb) {
		return false
	}
	return len(la) == 0 || &la[0] == &lb[0]
}

type equalOp struct{}

func (e equalOp) Signature() *operators.Signature {
	return operators.NewSignature("equal?").
		Arity(2, 2).
		Doc("Structural equality; numbers compare by value across int and float")
}

func (e equalOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return value.Bool(Equivalent(args[0], args[1])), nil
}

// Equivalent is equal? on two values.
func Equivalent(a, b value.Value) bool {
	if value.IsNumber(a) && value.IsNumber(b) {
		same, err := a.Op("=", b)
		return err == nil && bool(same.(value.Bool))
	}
	la, ok := a.(value.List)
	if !ok {
		return a.Equal(b)
	}
	lb, ok := b.(value.List)
	if !ok || len(la) != len(lb) {
		return false
	}
	for k := range la {
		if !Equivalent(la[k], lb[k]) {
			return false
		}
	}
	return true
}

type notOp struct{}

func (n notOp) Signature() *operators.Signature {
	return operators.NewSignature("not").Arity(1, 1).Doc("#t for #f, #f for everything else")
}

func (n notOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return value.Bool(!value.Truthy(args[0])), nil
}
