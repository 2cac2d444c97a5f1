package interpreter

import (
	"sort"

	"lispy/lib/value"

	"github.com/samber/lo"
)

// Env maps symbols to values and points at the enclosing lexical scope.
// The root env has no outer env.
type Env struct {
	outer *Env
	table map[value.Symbol]value.Value
}

var _ value.Scope = (*Env)(nil)

func NewEnv(outer *Env) *Env {
	return &Env{
		outer: outer,
		table: make(map[value.Symbol]value.Value),
	}
}

// Define binds name in this env, overwriting any binding it already has here.
func (e *Env) Define(name value.Symbol, v value.Value) {
	e.table[name] = v
}

// Find returns the innermost env in the chain that binds name, or nil.
func (e *Env) Find(name value.Symbol) *Env {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.table[name]; ok {
			return env
		}
	}
	return nil
}

func (e *Env) Lookup(name value.Symbol) (value.Value, error) {
	env := e.Find(name)
	if env == nil {
		return nil, value.UnboundErrorf("'%s'", name)
	}
	return env.table[name], nil
}

// Bind creates a child of e with params bound positionally to args.
func (e *Env) Bind(params []value.Symbol, args []value.Value) (*Env, error) {
	if len(params) != len(args) {
		return nil, value.ArityErrorf("expected %d arguments but got %d", len(params), len(args))
	}
	child := e.PushEnv()
	for i, p := range params {
		child.table[p] = args[i]
	}
	return child, nil
}

// PushEnv creates an environment that is child of the caller
func (e *Env) PushEnv() *Env {
	return NewEnv(e)
}

// Names returns every name visible from e, sorted.
func (e *Env) Names() []string {
	seen := make(map[value.Symbol]struct{})
	for env := e; env != nil; env = env.outer {
		for k := range env.table {
			seen[k] = struct{}{}
		}
	}
	names := lo.Map(lo.Keys(seen), func(s value.Symbol, _ int) string {
		return string(s)
	})
	sort.Strings(names)
	return names
}
