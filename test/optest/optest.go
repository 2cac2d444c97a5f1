package optest

import (
	"bytes"
	"testing"

	"lispy/engine/interpreter"
	"lispy/engine/operators"
	"lispy/engine/reader"
	"lispy/lib/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario is one call of an operator on already evaluated arguments.
// A nil Err means the call must succeed with Expected.
type Scenario struct {
	Args     []value.Value
	Expected value.Value
	Err      error
}

// AssertScenarios calls op through the interpreter once per scenario, so
// arity checks run exactly as they do for a call from source.
func AssertScenarios(t *testing.T, op operators.Operator, scenarios []Scenario) {
	i := interpreter.NewInterpreter()
	b := operators.Builtin(op)
	for _, scenario := range scenarios {
		found, err := i.Apply(b, scenario.Args)
		if scenario.Err != nil {
			assert.ErrorIs(t, err, scenario.Err, "%s %v", op.Signature().Name, scenario.Args)
			continue
		}
		if assert.NoError(t, err, "%s %v", op.Signature().Name, scenario.Args) {
			assert.True(t, scenario.Expected.Equal(found), "%s %v: expected %s but found %s",
				op.Signature().Name, scenario.Args, scenario.Expected, found)
		}
	}
}

// Run evaluates every expression of src in one fresh interpreter and returns
// the value of the last one along with anything printed.
func Run(src string) (value.Value, string, error) {
	var out bytes.Buffer
	i := interpreter.NewInterpreter(interpreter.WithOutput(&out))
	exprs, err := reader.ReadAll(src)
	if err != nil {
		return nil, "", err
	}
	var ret value.Value = value.Void
	for _, expr := range exprs {
		if ret, err = i.Eval(expr, i.Root()); err != nil {
			return nil, out.String(), err
		}
	}
	return ret, out.String(), nil
}

func AssertEqual(t *testing.T, src string, expected value.Value) {
	found, _, err := Run(src)
	require.NoError(t, err, src)
	assert.True(t, expected.Equal(found), "%s: expected %s but found %s", src, expected, found)
}

func AssertError(t *testing.T, src string, target error) {
	_, _, err := Run(src)
	assert.ErrorIs(t, err, target, src)
}

func AssertOutput(t *testing.T, src string, expected string) {
	_, out, err := Run(src)
	require.NoError(t, err, src)
	assert.Equal(t, expected, out)
}
