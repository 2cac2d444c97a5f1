package std_test

import (
	"testing"

	_ "lispy/opdefs"
	"lispy/lib/value"
	"lispy/test/optest"
)

func TestBegin(t *testing.T) {
	optest.AssertEqual(t, "(begin 1 2 3)", value.Int(3))
	optest.AssertEqual(t, "(begin (define x 4) (* x x))", value.Int(16))
	optest.AssertError(t, "(begin)", value.ErrArity)
}

func TestApply(t *testing.T) {
	optest.AssertEqual(t, "(apply + '(1 2 3))", value.Int(6))
	optest.AssertEqual(t, "(apply (lambda (a b) (- a b)) (list 10 4))", value.Int(6))
	optest.AssertError(t, "(apply + 1)", value.ErrType)
	optest.AssertError(t, "(apply 1 '())", value.ErrType)
	optest.AssertError(t, "(apply (lambda (a) a) '(1 2))", value.ErrArity)
}

func TestMap(t *testing.T) {
	optest.AssertEqual(t, "(map (lambda (x) (* x x)) '(1 2 3))",
		value.NewList(value.Int(1), value.Int(4), value.Int(9)))
	optest.AssertEqual(t, "(map + '(1 2 3) '(10 20))",
		value.NewList(value.Int(11), value.Int(22)))
	optest.AssertEqual(t, "(map head '())", value.List{})
	optest.AssertError(t, "(map 1 '(1))", value.ErrType)
	optest.AssertError(t, "(map head '(1))", value.ErrType)
}

func TestPrint(t *testing.T) {
	optest.AssertOutput(t, `(print "hello" 'world 1 2.5 '(1 "a"))`, "hello world 1 2.5 (1 a)\n")
	optest.AssertOutput(t, "(print)", "\n")
	optest.AssertOutput(t, "(define x 3) (print (* x x))", "9\n")
}
