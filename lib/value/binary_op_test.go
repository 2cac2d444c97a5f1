package value

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func verifyOp(t *testing.T, left, right, expected Value, op string) {
	ret, err := left.Op(op, right)
	assert.NoError(t, err)
	assert.Equal(t, expected, ret)
}

func verifyError(t *testing.T, left, right Value, ops []string, kind error) {
	for _, op := range ops {
		_, err := left.Op(op, right)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, kind), "op: %s, err: %v", op, err)
	}
}

func TestInvalid(t *testing.T) {
	i := Int(2)
	d := Double(3.0)
	b := Bool(false)
	s := String("hi")
	sym := Symbol("x")
	l := NewList(Int(1), Double(2.0))
	ops := []string{"+", "-", "*", "/", ">", ">=", "<", "<=", "=", "^"}

	verifyError(t, i, b, ops, ErrType)
	verifyError(t, i, s, ops, ErrType)
	verifyError(t, i, sym, ops, ErrType)
	verifyError(t, i, l, ops, ErrType)
	verifyError(t, d, s, ops, ErrType)
	verifyError(t, s, s, ops, ErrType)
	verifyError(t, l, l, ops, ErrType)
	verifyError(t, b, b, ops, ErrType)
	verifyError(t, Void, i, ops, ErrType)

	// division by zero is a value error, not a type error
	verifyError(t, i, Int(0), []string{"/"}, ErrValue)
	verifyError(t, d, Double(0), []string{"/"}, ErrValue)
	verifyError(t, Int(0), Int(-1), []string{"^"}, ErrValue)

	// unknown operators are rejected
	verifyError(t, i, i, []string{"%", "and"}, ErrType)
}

func TestArithmetic(t *testing.T) {
	verifyOp(t, Int(2), Int(3), Int(5), "+")
	verifyOp(t, Int(2), Double(0.5), Double(2.5), "+")
	verifyOp(t, Double(0.5), Int(2), Double(2.5), "+")
	verifyOp(t, Int(2), Int(3), Int(-1), "-")
	verifyOp(t, Double(2), Int(3), Double(-1), "-")
	verifyOp(t, Int(4), Int(3), Int(12), "*")
	verifyOp(t, Int(4), Double(0.25), Double(1), "*")
	verifyOp(t, Int(2), Int(10), Int(1024), "^")
	verifyOp(t, Int(4), Double(0.5), Double(2), "^")
	verifyOp(t, Int(2), Int(-1), Double(0.5), "^")

	// division always promotes
	verifyOp(t, Int(6), Int(3), Double(2), "/")
	verifyOp(t, Int(1), Int(4), Double(0.25), "/")
	verifyOp(t, Double(1), Int(4), Double(0.25), "/")

	verifyOp(t, Int(math.MaxInt64), Int(0), Int(math.MaxInt64), "+")
}

func TestComparison(t *testing.T) {
	verifyOp(t, Int(3), Int(2), Bool(true), ">")
	verifyOp(t, Int(2), Int(3), Bool(false), ">")
	verifyOp(t, Int(2), Double(2.0), Bool(true), ">=")
	verifyOp(t, Double(1.5), Int(2), Bool(true), "<")
	verifyOp(t, Int(2), Int(2), Bool(true), "<=")
	verifyOp(t, Int(2), Double(2.0), Bool(true), "=")
	verifyOp(t, Int(2), Int(3), Bool(false), "=")

	// ints past 2^53 still compare exactly
	verifyOp(t, Int(9007199254740993), Int(9007199254740992), Bool(false), "=")
	verifyOp(t, Int(9007199254740993), Int(9007199254740993), Bool(true), "=")
}

func TestOverflow(t *testing.T) {
	verifyOp(t, Int(math.MaxInt64), Int(1), Double(float64(math.MaxInt64)+1), "+")
	verifyOp(t, Int(math.MinInt64), Int(-1), Double(float64(math.MinInt64)-1), "+")
	verifyOp(t, Int(math.MinInt64), Int(1), Double(float64(math.MinInt64)-1), "-")
	verifyOp(t, Int(math.MaxInt64), Int(-1), Double(float64(math.MaxInt64)+1), "-")
	verifyOp(t, Int(math.MaxInt64), Int(2), Double(float64(math.MaxInt64)*2), "*")
	verifyOp(t, Int(math.MinInt64), Int(-1), Double(-float64(math.MinInt64)), "*")
	verifyOp(t, Int(2), Int(64), Double(math.Pow(2, 64)), "^")
	verifyOp(t, Int(2), Int(63), Double(math.Pow(2, 63)), "^")

	// results that still fit stay exact
	verifyOp(t, Int(math.MaxInt64-1), Int(1), Int(math.MaxInt64), "+")
	verifyOp(t, Int(math.MinInt64+1), Int(1), Int(math.MinInt64), "-")
	verifyOp(t, Int(-1), Int(math.MaxInt64), Int(-math.MaxInt64), "*")
	verifyOp(t, Int(2), Int(62), Int(1<<62), "^")
	verifyOp(t, Int(-2), Int(63), Int(math.MinInt64), "^")
	verifyOp(t, Int(3), Int(39), Int(4052555153018976267), "^")
	verifyOp(t, Int(-3), Int(3), Int(-27), "^")
	verifyOp(t, Int(1), Int(math.MaxInt64), Int(1), "^")
	verifyOp(t, Int(-1), Int(math.MaxInt64), Int(-1), "^")
	verifyOp(t, Int(0), Int(math.MaxInt64), Int(0), "^")
	verifyOp(t, Int(7), Int(0), Int(1), "^")
}

func TestPower_LargeExponent(t *testing.T) {
	done := make(chan Value, 1)
	go func() {
		ret, err := Int(2).Op("^", Int(10000000000000))
		assert.NoError(t, err)
		done <- ret
	}()
	select {
	case ret := <-done:
		assert.Equal(t, Double(math.Inf(1)), ret)
	case <-time.After(time.Second):
		t.Fatal("power did not return")
	}
}
