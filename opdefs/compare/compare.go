package compare

import (
	"lispy/engine/operators"
	"lispy/lib/value"
)

func init() {
	ops := []operators.Operator{
		chainOp{">", "Each argument is greater than the next"},
		chainOp{"<", "Each argument is less than the next"},
		chainOp{">=", "Each argument is greater than or equal to the next"},
		chainOp{"<=", "Each argument is less than or equal to the next"},
		chainOp{"=", "All arguments are numerically equal"},
	}
	for _, op := range ops {
		if err := operators.Register(op); err != nil {
			panic(err)
		}
	}
}

// chainOp compares every adjacent pair of its arguments with the same
// operator, so (< 1 2 3) is (and (< 1 2) (< 2 3)).
type chainOp struct {
	opt  string
	help string
}

func (c chainOp) Signature() *operators.Signature {
	return operators.NewSignature(c.opt).Arity(2, operators.Variadic).Doc(c.help)
}

func (c chainOp) Apply(_ value.Caller, args []value.Value) (value.Value, error) {
	ret := value.Bool(true)
	// every pair is checked, even after a false one, so a bad argument
	// anywhere is still a type error
	for k := 0; k+1 < len(args); k++ {
		v, err := args[k].Op(c.opt, args[k+1])
		if err != nil {
			return nil, err
		}
		ret = ret && v.(value.Bool)
	}
	return ret, nil
}

var _ operators.Operator = chainOp{}
