package list

import (
	"testing"

	"lispy/lib/value"
	"lispy/test/optest"
)

func ints(ns ...int64) value.List {
	ret := make(value.List, len(ns))
	for k, n := range ns {
		ret[k] = value.Int(n)
	}
	return ret
}

func TestHeadTail(t *testing.T) {
	optest.AssertScenarios(t, headOp{}, []optest.Scenario{
		{Args: []value.Value{ints(1, 2, 3)}, Expected: value.Int(1)},
		{Args: []value.Value{value.List{}}, Err: value.ErrValue},
		{Args: []value.Value{value.Int(1)}, Err: value.ErrType},
		{Args: nil, Err: value.ErrArity},
	})
	optest.AssertScenarios(t, tailOp{}, []optest.Scenario{
		{Args: []value.Value{ints(1, 2, 3)}, Expected: ints(2, 3)},
		{Args: []value.Value{ints(1)}, Expected: value.List{}},
		{Args: []value.Value{value.List{}}, Expected: value.List{}},
		{Args: []value.Value{value.String("abc")}, Err: value.ErrType},
	})
}

func TestConstruct(t *testing.T) {
	optest.AssertScenarios(t, consOp{}, []optest.Scenario{
		{Args: []value.Value{value.Int(0), ints(1, 2)}, Expected: ints(0, 1, 2)},
		{Args: []value.Value{ints(), value.List{}}, Expected: value.NewList(value.List{})},
		{Args: []value.Value{value.Int(0), value.Int(1)}, Err: value.ErrType},
	})
	optest.AssertScenarios(t, listOp{}, []optest.Scenario{
		{Args: nil, Expected: value.List{}},
		{Args: []value.Value{value.Int(1), value.String("a")}, Expected: value.NewList(value.Int(1), value.String("a"))},
	})
	optest.AssertScenarios(t, appendOp{}, []optest.Scenario{
		{Args: nil, Expected: value.List{}},
		{Args: []value.Value{ints(1), ints(), ints(2, 3)}, Expected: ints(1, 2, 3)},
		{Args: []value.Value{ints(1), value.Int(2)}, Err: value.ErrType},
	})
}

func TestInspect(t *testing.T) {
	optest.AssertScenarios(t, lengthOp{}, []optest.Scenario{
		{Args: []value.Value{ints(1, 2, 3)}, Expected: value.Int(3)},
		{Args: []value.Value{value.List{}}, Expected: value.Int(0)},
		{Args: []value.Value{value.String("héllo")}, Expected: value.Int(5)},
		{Args: []value.Value{value.Int(5)}, Err: value.ErrType},
	})
	optest.AssertScenarios(t, nullOp{}, []optest.Scenario{
		{Args: []value.Value{value.List{}}, Expected: value.Bool(true)},
		{Args: []value.Value{ints(1)}, Expected: value.Bool(false)},
		{Args: []value.Value{value.Int(0)}, Expected: value.Bool(false)},
	})
	optest.AssertScenarios(t, isListOp{}, []optest.Scenario{
		{Args: []value.Value{value.List{}}, Expected: value.Bool(true)},
		{Args: []value.Value{value.Symbol("a")}, Expected: value.Bool(false)},
	})
}

func TestFromSource(t *testing.T) {
	optest.AssertEqual(t, "(head (list 1 2 3))", value.Int(1))
	optest.AssertEqual(t, "(tail (list 1 2 3))", ints(2, 3))
	optest.AssertEqual(t, "(tail (list))", value.List{})
	optest.AssertEqual(t, "(car (cdr '(1 2 3)))", value.Int(2))
	optest.AssertEqual(t, "(cons 1 '())", ints(1))
	optest.AssertEqual(t, "(length (append '(1 2) '(3)))", value.Int(3))
	optest.AssertError(t, "(head (list))", value.ErrValue)

	// tail copies, so the original list is left alone
	optest.AssertEqual(t, "(define l (list 1 2)) (tail l) l", ints(1, 2))
}
