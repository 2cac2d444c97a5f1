package arith

import (
	"math"

	"lispy/engine/operators"
	"lispy/lib/value"
)

func init() {
	ops := []operators.Operator{addOp{}, subOp{}, mulOp{}, divOp{}}
	for _, op := range ops {
		if err := operators.Register(op); err != nil {
			panic(err)
		}
	}
	if err := operators.RegisterConstant("pi", value.Double(math.Pi)); err != nil {
		panic(err)
	}
}

// fold applies opt left to right, starting from the first argument.
func fold(opt string, args []value.Value) (value.Value, error) {
	acc, err := operators.AsNumber(opt, args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		if acc, err = acc.Op(opt, arg); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

type addOp struct{}

func (a addOp) Signature() *operators.Signature {
	return operators.NewSignature("+").
		Doc("Sum of the arguments; 0 when called without any")
}

func (a addOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return fold("+", append([]value.Value{value.Int(0)}, args...))
}

type subOp struct{}

func (s subOp) Signature() *operators.Signature {
	return operators.NewSignature("-").
		Arity(1, operators.Variadic).
		Doc("Subtracts the rest of the arguments from the first; negates a single argument")
}

func (s subOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	if len(args) == 1 {
		return fold("-", []value.Value{value.Int(0), args[0]})
	}
	return fold("-", args)
}

type mulOp struct{}

func (m mulOp) Signature() *operators.Signature {
	return operators.NewSignature("*").
		Doc("Product of the arguments; 1 when called without any")
}

func (m mulOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return fold("*", append([]value.Value{value.Int(1)}, args...))
}

type divOp struct{}

func (d divOp) Signature() *operators.Signature {
	return operators.NewSignature("/").
		Arity(1, operators.Variadic).
		Doc("Divides the first argument by the rest; the result is always a float")
}

func (d divOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	if len(args) == 1 {
		return fold("/", []value.Value{value.Int(1), args[0]})
	}
	return fold("/", args)
}

var _ operators.Operator = addOp{}
var _ operators.Operator = subOp{}
var _ operators.Operator = mulOp{}
var _ operators.Operator = divOp{}
