package interpreter

import (
	"io"
	"os"

	"lispy/engine/operators"
	"lispy/lib/value"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds nested evaluation. There is no tail-call
// elimination, so every nested call costs a Go stack frame; past this depth
// the evaluation fails with a value error rather than exhausting the stack.
const DefaultMaxDepth = 10000

type Interpreter struct {
	root     *Env
	out      io.Writer
	logger   *zap.Logger
	maxDepth int
	depth    int
}

var _ value.Caller = (*Interpreter)(nil)

type Option func(*Interpreter)

func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// WithMaxDepth sets the nesting limit; zero or less disables it.
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// NewInterpreter creates an interpreter with a fresh root environment holding
// every registered operator.
func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{
		root:     NewEnv(nil),
		out:      os.Stdout,
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	operators.Install(i.root)
	return i
}

func (i *Interpreter) Root() *Env {
	return i.root
}

func (i *Interpreter) Output() io.Writer {
	return i.out
}

// SetOutput redirects print and returns the writer it replaced.
func (i *Interpreter) SetOutput(w io.Writer) io.Writer {
	prev := i.out
	i.out = w
	return prev
}

// Eval evaluates expr in env. Strings, empty lists and every other non-list
// value evaluate to themselves, symbols are looked up, and a non-empty list
// is a special form or a procedure call.
func (i *Interpreter) Eval(expr value.Value, env *Env) (value.Value, error) {
	i.depth++
	defer func() { i.depth-- }()
	if i.maxDepth > 0 && i.depth > i.maxDepth {
		return nil, value.ValueErrorf("maximum recursion depth exceeded (%d)", i.maxDepth)
	}

	switch x := expr.(type) {
	case value.String:
		return x, nil
	case value.Symbol:
		return env.Lookup(x)
	case value.List:
		if len(x) == 0 {
			return x, nil
		}
		return i.evalForm(x, env)
	default:
		return expr, nil
	}
}

func (i *Interpreter) evalForm(form value.List, env *Env) (value.Value, error) {
	op, args := form[0], form[1:]
	if sym, ok := op.(value.Symbol); ok {
		switch sym {
		case "if":
			return i.evalIf(args, env)
		case "define":
			return i.evalDefine(args, env)
		case "lambda":
			return i.evalLambda(args, env)
		case "quote":
			if len(args) != 1 {
				return nil, value.ArityErrorf("'quote' expects 1 operand but got %d", len(args))
			}
			return args[0], nil
		}
	}

	proc, err := i.Eval(op, env)
	if err != nil {
		return nil, err
	}
	vals := make([]value.Value, len(args))
	for k, arg := range args {
		if vals[k], err = i.Eval(arg, env); err != nil {
			return nil, err
		}
	}
	return i.Apply(proc, vals)
}

func (i *Interpreter) evalIf(args value.List, env *Env) (value.Value, error) {
	if len(args) != 3 {
		return nil, value.ArityErrorf("'if' expects 3 operands but got %d", len(args))
	}
	test, err := i.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	if value.Truthy(test) {
		return i.Eval(args[1], env)
	}
	return i.Eval(args[2], env)
}

func (i *Interpreter) evalDefine(args value.List, env *Env) (value.Value, error) {
	if len(args) != 2 {
		return nil, value.ArityErrorf("'define' expects 2 operands but got %d", len(args))
	}
	name, ok := args[0].(value.Symbol)
	if !ok {
		return nil, value.TypeErrorf("'define' expects a symbol but got %s: %s", value.TypeName(args[0]), args[0])
	}
	v, err := i.Eval(args[1], env)
	if err != nil {
		return nil, err
	}
	env.Define(name, v)
	i.logger.Debug("defined symbol", zap.String("name", string(name)), zap.String("type", value.TypeName(v)))
	return value.Void, nil
}

// evalLambda builds a closure over env. The body is not evaluated here.
func (i *Interpreter) evalLambda(args value.List, env *Env) (value.Value, error) {
	if len(args) != 2 {
		return nil, value.ArityErrorf("'lambda' expects 2 operands but got %d", len(args))
	}
	plist, ok := args[0].(value.List)
	if !ok {
		return nil, value.TypeErrorf("'lambda' expects a list of parameters but got %s: %s", value.TypeName(args[0]), args[0])
	}
	params := make([]value.Symbol, len(plist))
	for k, p := range plist {
		sym, ok := p.(value.Symbol)
		if !ok {
			return nil, value.TypeErrorf("lambda parameter must be a symbol but got %s: %s", value.TypeName(p), p)
		}
		params[k] = sym
	}
	return &value.Closure{Params: params, Body: args[1], Env: env}, nil
}

// Apply invokes proc with already evaluated arguments. A closure runs its body
// in a new env whose outer env is the one the closure captured, not the
// caller's.
func (i *Interpreter) Apply(proc value.Value, args []value.Value) (value.Value, error) {
	switch p := proc.(type) {
	case *value.Builtin:
		return p.Fn(i, args)
	case *value.Closure:
		captured, ok := p.Env.(*Env)
		if !ok {
			return nil, value.TypeErrorf("closure captured an environment of type %T", p.Env)
		}
		env, err := captured.Bind(p.Params, args)
		if err != nil {
			return nil, err
		}
		return i.Eval(p.Body, env)
	default:
		return nil, value.TypeErrorf("not a procedure: %s: %s", value.TypeName(proc), proc)
	}
}
