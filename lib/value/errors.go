package value

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnboundVariable = errors.New("unbound variable")
	ErrArity           = errors.New("arity error")
	ErrType            = errors.New("type error")
	ErrValue           = errors.New("value error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrSyntax, "SyntaxError"},
	{ErrUnboundVariable, "UnboundVariableError"},
	{ErrArity, "ArityError"},
	{ErrType, "TypeError"},
	{ErrValue, "ValueError"},
}

// Kind names the class of err, or "Error" when err is not one of ours.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}

func SyntaxErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

func UnboundErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnboundVariable, fmt.Sprintf(format, args...))
}

func ArityErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrArity, fmt.Sprintf(format, args...))
}

func TypeErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}

func ValueErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValue, fmt.Sprintf(format, args...))
}

// FromKind is the inverse of Kind: the sentinel named by kind, or nil when
// kind names none of them.
func FromKind(kind string) error {
	for _, k := range kinds {
		if k.name == kind {
			return k.err
		}
	}
	return nil
}
