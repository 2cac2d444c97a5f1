package list

import (
	"lispy/engine/operators"
	"lispy/lib/value"
)

func init() {
	ops := []operators.Operator{
		headOp{}, tailOp{}, consOp{}, listOp{}, appendOp{}, lengthOp{}, nullOp{}, isListOp{},
	}
	for _, op := range ops {
		if err := operators.Register(op); err != nil {
			panic(err)
		}
	}
}

type headOp struct{}

func (h headOp) Signature() *operators.Signature {
	return operators.NewSignature("head").
		Alias("car").
		Arity(1, 1).
		Doc("First element of a list; an error on the empty list")
}

func (h headOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	l, err := operators.AsList("head", args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return nil, value.ValueErrorf("'head' of an empty list")
	}
	return l[0], nil
}

type tailOp struct{}

func (t tailOp) Signature() *operators.Signature {
	return operators.NewSignature("tail").
		Alias("cdr").
		Arity(1, 1).
		Doc("Everything but the first element of a list; the tail of () is ()")
}

func (t tailOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	l, err := operators.AsList("tail", args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return value.List{}, nil
	}
	return value.NewList(l[1:]...), nil
}

type consOp struct{}

func (c consOp) Signature() *operators.Signature {
	return operators.NewSignature("cons").
		Arity(2, 2).
		Doc("Prepends the first argument to the list given as the second")
}

func (c consOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	l, err := operators.AsList("cons", args[1])
	if err != nil {
		return nil, err
	}
	return value.NewList(append([]value.Value{args[0]}, l...)...), nil
}

type listOp struct{}

func (l listOp) Signature() *operators.Signature {
	return operators.NewSignature("list").Doc("A list of the arguments")
}

func (l listOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return value.NewList(args...), nil
}

type appendOp struct{}

func (a appendOp) Signature() *operators.Signature {
	return operators.NewSignature("append").Doc("Concatenates lists")
}

func (a appendOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	ret := value.List{}
	for _, arg := range args {
		l, err := operators.AsList("append", arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, l...)
	}
	return ret, nil
}

type lengthOp struct{}

func (l lengthOp) Signature() *operators.Signature {
	return operators.NewSignature("length").Arity(1, 1).Doc("Number of elements of a list or characters of a string")
}

func (l lengthOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.List:
		return value.Int(len(v)), nil
	case value.String:
		return value.Int(len([]rune(string(v)))), nil
	}
	return nil, value.TypeErrorf("'length' expects a list or a string but got %s: %s", value.TypeName(args[0]), args[0])
}

type nullOp struct{}

func (n nullOp) Signature() *operators.Signature {
	return operators.NewSignature("null?").Arity(1, 1).Doc("Whether the argument is the empty list")
}

func (n nullOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	l, ok := args[0].(value.List)
	return value.Bool(ok && len(l) == 0), nil
}

type isListOp struct{}

func (i isListOp) Signature() *operators.Signature {
	return operators.NewSignature("list?").Arity(1, 1).Doc("Whether the argument is a list")
}

func (i isListOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	_, ok := args[0].(value.List)
	return value.Bool(ok), nil
}
