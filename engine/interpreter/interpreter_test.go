package interpreter

import (
	"bytes"
	"testing"

	"lispy/engine/reader"
	"lispy/lib/value"
	_ "lispy/opdefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run evaluates each expression of src in order against the root env of i
// and returns the value of the last one.
func run(i *Interpreter, src string) (value.Value, error) {
	exprs, err := reader.ReadAll(src)
	if err != nil {
		return nil, err
	}
	var ret value.Value = value.Void
	for _, expr := range exprs {
		if ret, err = i.Eval(expr, i.Root()); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func testValid(t *testing.T, src string, expected value.Value) {
	found, err := run(NewInterpreter(), src)
	require.NoError(t, err, src)
	assert.True(t, expected.Equal(found), "%s: expected %s but found %s", src, expected, found)
}

func testError(t *testing.T, src string, target error) {
	_, err := run(NewInterpreter(), src)
	assert.ErrorIs(t, err, target, src)
}

func TestInterpreter_Atoms(t *testing.T) {
	testValid(t, "5", value.Int(5))
	testValid(t, "-2.5", value.Double(-2.5))
	testValid(t, `"hi"`, value.String("hi"))
	testValid(t, "#f", value.Bool(false))
	testValid(t, "()", value.List{})
	testValid(t, "'sym", value.Symbol("sym"))
	testValid(t, "'(1 (a))", value.NewList(value.Int(1), value.NewList(value.Symbol("a"))))
}

func TestInterpreter_EndToEnd(t *testing.T) {
	testValid(t, "(define square (lambda (x) (* x x))) (square 5)", value.Int(25))
	testValid(t, `(if (> 3 2) "yes" "no")`, value.String("yes"))
	testValid(t, "(head (list 1 2 3))", value.Int(1))
	testValid(t, "(tail (list 1 2 3))", value.NewList(value.Int(2), value.Int(3)))
	testValid(t, "(tail (list))", value.List{})
	testValid(t, "((lambda (a b) (+ a b)) 1 2)", value.Int(3))
}

func TestInterpreter_If(t *testing.T) {
	// only #f is false
	testValid(t, "(if #f 1 2)", value.Int(2))
	testValid(t, "(if 0 1 2)", value.Int(1))
	testValid(t, "(if '() 1 2)", value.Int(1))
	testValid(t, `(if "" 1 2)`, value.Int(1))

	// the branch not taken is never evaluated
	testValid(t, "(if #t 1 undefined)", value.Int(1))
	testValid(t, "(if #f undefined 2)", value.Int(2))

	testError(t, "(if #t 1)", value.ErrArity)
	testError(t, "(if #t 1 2 3)", value.ErrArity)
}

func TestInterpreter_Define(t *testing.T) {
	i := NewInterpreter()
	v, err := run(i, "(define x 10)")
	require.NoError(t, err)
	assert.True(t, value.IsVoid(v))
	x, err := i.Root().Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(10), x)

	// builtins can be shadowed
	testValid(t, "(define head 5) head", value.Int(5))

	testError(t, "(define x)", value.ErrArity)
	testError(t, "(define 1 2)", value.ErrType)
	testError(t, `(define "x" 2)`, value.ErrType)
}

func TestInterpreter_Lambda(t *testing.T) {
	i := NewInterpreter()
	v, err := run(i, "(lambda (x y) (+ x y))")
	require.NoError(t, err)
	c, ok := v.(*value.Closure)
	require.True(t, ok)
	assert.Equal(t, []value.Symbol{"x", "y"}, c.Params)
	assert.Equal(t, "#<lambda (x y)>", c.String())

	testError(t, "(lambda x x)", value.ErrType)
	testError(t, "(lambda (1) x)", value.ErrType)
	testError(t, "(lambda (x))", value.ErrArity)
	// the body is only evaluated on call
	testValid(t, "(define f (lambda () undefined)) 1", value.Int(1))
	testError(t, "(define f (lambda () undefined)) (f)", value.ErrUnboundVariable)
}

func TestInterpreter_Arity(t *testing.T) {
	testError(t, "(define f (lambda (a b) a)) (f 1)", value.ErrArity)
	testError(t, "(define f (lambda (a b) a)) (f 1 2 3)", value.ErrArity)
	testValid(t, "(define f (lambda (a b) a)) (f 1 2)", value.Int(1))
	testError(t, "(head)", value.ErrArity)
}

func TestInterpreter_LexicalScope(t *testing.T) {
	// free variables resolve in the env the closure was made in
	testValid(t, `
		(define make-adder (lambda (n) (lambda (x) (+ x n))))
		(define add2 (make-adder 2))
		(define n 100)
		(add2 5)`, value.Int(7))

	// and not in the caller's env
	testValid(t, `
		(define y 1)
		(define get-y (lambda () y))
		(define call (lambda (y) (get-y)))
		(call 50)`, value.Int(1))

	// parameters shadow outer bindings without touching them
	testValid(t, "(define x 1) ((lambda (x) x) 2) x", value.Int(1))
}

func TestInterpreter_RedefineIsSeenByClosure(t *testing.T) {
	// the closure holds the root env itself, so redefining x in place is
	// visible to it
	testValid(t, `
		(define x 1)
		(define f (lambda () x))
		(define x 2)
		(f)`, value.Int(2))
}

func TestInterpreter_Recursion(t *testing.T) {
	testValid(t, `
		(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))
		(fact 10)`, value.Int(3628800))
	testValid(t, `
		(define fib (lambda (n) (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2))))))
		(fib 15)`, value.Int(610))
}

func TestInterpreter_MaxDepth(t *testing.T) {
	i := NewInterpreter(WithMaxDepth(200))
	_, err := run(i, "(define loop (lambda (n) (loop (+ n 1)))) (loop 0)")
	assert.ErrorIs(t, err, value.ErrValue)

	// the depth counter unwinds after the failure
	v, err := run(i, "(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
	assert.Equal(t, 0, i.depth)
}

func TestInterpreter_Errors(t *testing.T) {
	testError(t, "undefined", value.ErrUnboundVariable)
	testError(t, "(undefined 1)", value.ErrUnboundVariable)
	testError(t, "(1 2)", value.ErrType)
	testError(t, `("f")`, value.ErrType)
	testError(t, "('(1) 2)", value.ErrType)
	testError(t, "(quote)", value.ErrArity)

	// a failed expression leaves earlier bindings alone
	i := NewInterpreter()
	_, err := run(i, "(define x 1)")
	require.NoError(t, err)
	_, err = run(i, "(define x (head '()))")
	assert.ErrorIs(t, err, value.ErrValue)
	x, err := i.Root().Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), x)
}

func TestInterpreter_Output(t *testing.T) {
	var out bytes.Buffer
	i := NewInterpreter(WithOutput(&out))
	_, err := run(i, `(print "x is" 42)`)
	require.NoError(t, err)
	assert.Equal(t, "x is 42\n", out.String())
}

func TestInterpreter_SeparateRoots(t *testing.T) {
	a, b := NewInterpreter(), NewInterpreter()
	_, err := run(a, "(define only-a 1)")
	require.NoError(t, err)
	_, err = run(b, "only-a")
	assert.ErrorIs(t, err, value.ErrUnboundVariable)
}
