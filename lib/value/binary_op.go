package value

import (
	"math"
)

func route(l Value, opt string, other Value) (Value, error) {
	switch opt {
	case "+":
		return add(l, other)
	case "-":
		return sub(l, other)
	case "*":
		return mul(l, other)
	case "/":
		return div(l, other)
	case "=":
		return eq(l, other)
	case ">=":
		return gte(l, other)
	case ">":
		return gt(l, other)
	case "<=":
		return lte(l, other)
	case "<":
		return lt(l, other)
	case "^":
		return power(l, other)
	}
	return nil, TypeErrorf("unsupported operator '%s'", opt)
}

func numericError(opt string, left, right Value) error {
	return TypeErrorf("'%s' only supported between numbers but got: '%s' and '%s'", opt, TypeName(left), TypeName(right))
}

// promote returns both operands as floats.
func promote(opt string, left, right Value) (float64, float64, error) {
	var l, r float64
	switch left := left.(type) {
	case Int:
		l = float64(left)
	case Double:
		l = float64(left)
	default:
		return 0, 0, numericError(opt, left, right)
	}
	switch right := right.(type) {
	case Int:
		r = float64(right)
	case Double:
		r = float64(right)
	default:
		return 0, 0, numericError(opt, left, right)
	}
	return l, r, nil
}

// addInt, subInt and mulInt report false when the result does not fit in
// an int64.
func addInt(l, r Int) (Int, bool) {
	s := l + r
	return s, (l^s)&(r^s) >= 0
}

func subInt(l, r Int) (Int, bool) {
	d := l - r
	return d, (l^r)&(l^d) >= 0
}

func mulInt(l, r Int) (Int, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}
	if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
		return 0, false
	}
	p := l * r
	return p, p/r == l
}

// powInt is exponentiation by squaring; exp must not be negative.
func powInt(base, exp Int) (Int, bool) {
	ret := Int(1)
	var ok bool
	for exp > 0 {
		if exp&1 == 1 {
			if ret, ok = mulInt(ret, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return ret, true
}

// Int arithmetic that overflows int64 is redone on floats.
func add(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			if s, ok := addInt(l, r); ok {
				return s, nil
			}
		}
	}
	l, r, err := promote("+", left, right)
	if err != nil {
		return nil, err
	}
	return Double(l + r), nil
}

func sub(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			if d, ok := subInt(l, r); ok {
				return d, nil
			}
		}
	}
	l, r, err := promote("-", left, right)
	if err != nil {
		return nil, err
	}
	return Double(l - r), nil
}

func mul(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			if p, ok := mulInt(l, r); ok {
				return p, nil
			}
		}
	}
	l, r, err := promote("*", left, right)
	if err != nil {
		return nil, err
	}
	return Double(l * r), nil
}

// div is true division: the result is always a Double.
func div(left Value, right Value) (Value, error) {
	l, r, err := promote("/", left, right)
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, ValueErrorf("division by zero")
	}
	return Double(l / r), nil
}

func power(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok && r >= 0 {
			if p, ok := powInt(l, r); ok {
				return p, nil
			}
		}
	}
	l, r, err := promote("^", left, right)
	if err != nil {
		return nil, err
	}
	if l == 0 && r < 0 {
		return nil, ValueErrorf("zero raised to a negative power")
	}
	return Double(math.Pow(l, r)), nil
}

func eq(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return Bool(l == r), nil
		}
	}
	l, r, err := promote("=", left, right)
	if err != nil {
		return nil, err
	}
	return Bool(l == r), nil
}

func gt(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return Bool(l > r), nil
		}
	}
	l, r, err := promote(">", left, right)
	if err != nil {
		return nil, err
	}
	return Bool(l > r), nil
}

func gte(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return Bool(l >= r), nil
		}
	}
	l, r, err := promote(">=", left, right)
	if err != nil {
		return nil, err
	}
	return Bool(l >= r), nil
}

func lt(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return Bool(l < r), nil
		}
	}
	l, r, err := promote("<", left, right)
	if err != nil {
		return nil, err
	}
	return Bool(l < r), nil
}

func lte(left Value, right Value) (Value, error) {
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return Bool(l <= r), nil
		}
	}
	l, r, err := promote("<=", left, right)
	if err != nil {
		return nil, err
	}
	return Bool(l <= r), nil
}
