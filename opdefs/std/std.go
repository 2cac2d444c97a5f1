package std

import (
	"fmt"
	"strings"

	"lispy/engine/operators"
	"lispy/engine/printer"
	"lispy/lib/value"
)

func init() {
	ops := []operators.Operator{beginOp{}, applyOp{}, mapOp{}, printOp{}}
	for _, op := range ops {
		if err := operators.Register(op); err != nil {
			panic(err)
		}
	}
}

type beginOp struct{}

func (b beginOp) Signature() *operators.Signature {
	return operators.NewSignature("begin").
		Arity(1, operators.Variadic).
		Doc("The last of its arguments; the arguments are evaluated in order before the call")
}

func (b beginOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return args[len(args)-1], nil
}

type applyOp struct{}

func (a applyOp) Signature() *operators.Signature {
	return operators.NewSignature("apply").
		Arity(2, 2).
		Doc("Calls a procedure with the elements of a list as its arguments")
}

func (a applyOp) Apply(c value.Caller, args []value.Value) (value.Value, error) {
	l, err := operators.AsList("apply", args[1])
	if err != nil {
		return nil, err
	}
	return c.Apply(args[0], l)
}

type mapOp struct{}

func (m mapOp) Signature() *operators.Signature {
	return operators.NewSignature("map").
		Arity(2, operators.Variadic).
		Doc("Calls a procedure on the elements of one or more lists, stopping at the shortest")
}

func (m mapOp) Apply(c value.Caller, args []value.Value) (value.Value, error) {
	if !value.IsProcedure(args[0]) {
		return nil, value.TypeErrorf("'map' expects a procedure but got %s: %s", value.TypeName(args[0]), args[0])
	}
	lists := make([]value.List, len(args)-1)
	n := -1
	for k, arg := range args[1:] {
		l, err := operators.AsList("map", arg)
		if err != nil {
			return nil, err
		}
		lists[k] = l
		if n < 0 || len(l) < n {
			n = len(l)
		}
	}
	ret := make(value.List, n)
	for k := 0; k < n; k++ {
		callArgs := make([]value.Value, len(lists))
		for j, l := range lists {
			callArgs[j] = l[k]
		}
		v, err := c.Apply(args[0], callArgs)
		if err != nil {
			return nil, err
		}
		ret[k] = v
	}
	return ret, nil
}

type printOp struct{}

func (p printOp) Signature() *operators.Signature {
	return operators.NewSignature("print").
		Doc("Writes its arguments separated by spaces and a newline; strings are written without quotes")
}

func (p printOp) Apply(c value.Caller, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for k, arg := range args {
		parts[k] = printer.Display(arg)
	}
	if _, err := fmt.Fprintln(c.Output(), strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return value.Void, nil
}
