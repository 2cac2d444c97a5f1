package arith

import (
	"math"

	"lispy/engine/operators"
	"lispy/engine/reader"
	"lispy/lib/value"
)

func init() {
	ops := []operators.Operator{
		absOp{}, exptOp{}, maxOp{}, minOp{}, roundOp{}, numberOp{},
		floatFn{"sqrt", math.Sqrt, func(x float64) bool { return x >= 0 }},
		floatFn{"sin", math.Sin, nil},
		floatFn{"cos", math.Cos, nil},
	}
	for _, op := range ops {
		if err := operators.Register(op); err != nil {
			panic(err)
		}
	}
}

type absOp struct{}

func (a absOp) Signature() *operators.Signature {
	return operators.NewSignature("abs").Arity(1, 1).Doc("Absolute value")
}

func (a absOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	switch n := args[0].(type) {
	case value.Int:
		if n == math.MinInt64 {
			return value.Double(-float64(n)), nil
		}
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case value.Double:
		return value.Double(math.Abs(float64(n))), nil
	}
	return operators.AsNumber("abs", args[0])
}

type exptOp struct{}

func (e exptOp) Signature() *operators.Signature {
	return operators.NewSignature("expt").Arity(2, 2).Doc("Raises the first argument to the power of the second")
}

func (e exptOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return args[0].Op("^", args[1])
}

// extremum keeps each argument that beats the current best under opt.
func extremum(opname, opt string, args []value.Value) (value.Value, error) {
	best, err := operators.AsNumber(opname, args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		if _, err := operators.AsNumber(opname, arg); err != nil {
			return nil, err
		}
		better, err := arg.Op(opt, best)
		if err != nil {
			return nil, err
		}
		if better.(value.Bool) {
			best = arg
		}
	}
	return best, nil
}

type maxOp struct{}

func (m maxOp) Signature() *operators.Signature {
	return operators.NewSignature("max").Arity(1, operators.Variadic).Doc("Largest of the arguments")
}

func (m maxOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return extremum("max", ">", args)
}

type minOp struct{}

func (m minOp) Signature() *operators.Signature {
	return operators.NewSignature("min").Arity(1, operators.Variadic).Doc("Smallest of the arguments")
}

func (m minOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	return extremum("min", "<", args)
}

type roundOp struct{}

func (r roundOp) Signature() *operators.Signature {
	return operators.NewSignature("round").
		Arity(1, 2).
		Doc("Rounds half to even; with a digit count the result stays a float")
}

func (r roundOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	x, err := operators.AsFloat("round", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return value.Int(math.RoundToEven(x)), nil
	}
	digits, ok := args[1].(value.Int)
	if !ok {
		return nil, value.TypeErrorf("'round' expects an int digit count but got %s: %s", value.TypeName(args[1]), args[1])
	}
	scale := math.Pow(10, float64(digits))
	return value.Double(math.RoundToEven(x*scale) / scale), nil
}

// floatFn lifts a float function; domain, when set, rejects inputs.
type floatFn struct {
	name   string
	fn     func(float64) float64
	domain func(float64) bool
}

func (f floatFn) Signature() *operators.Signature {
	return operators.NewSignature(f.name).Arity(1, 1).Doc("The " + f.name + " function; the result is a float")
}

func (f floatFn) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	x, err := operators.AsFloat(f.name, args[0])
	if err != nil {
		return nil, err
	}
	if f.domain != nil && !f.domain(x) {
		return nil, value.ValueErrorf("'%s': math domain error for %s", f.name, args[0])
	}
	return value.Double(f.fn(x)), nil
}

type numberOp struct{}

func (n numberOp) Signature() *operators.Signature {
	return operators.NewSignature("number").Arity(1, 1).Doc("Parses a string into an int or a float")
}

func (n numberOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	if value.IsNumber(args[0]) {
		return args[0], nil
	}
	s, err := operators.AsString("number", args[0])
	if err != nil {
		return nil, err
	}
	ret := reader.Atom(string(s))
	if !value.IsNumber(ret) {
		return nil, value.ValueErrorf("'number' could not parse %q", string(s))
	}
	return ret, nil
}
