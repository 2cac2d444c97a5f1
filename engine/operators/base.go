package operators

import (
	"encoding/json"
	"fmt"
	"sort"

	"lispy/lib/value"

	"github.com/samber/lo"
)

func init() {
	registry = make(Registry)
	constants = make(map[string]value.Value)
}

type Registry = map[string]Operator

var registry Registry
var constants map[string]value.Value

func Locate(name string) (Operator, error) {
	if ret, ok := registry[name]; !ok {
		return nil, fmt.Errorf("unregistered operator: '%s'", name)
	} else {
		return ret, nil
	}
}

// Variadic marks a signature without an upper bound on its arguments.
const Variadic = -1

type Signature struct {
	Name    string
	Aliases []string
	MinArgs int
	MaxArgs int
	Help    string
}

func NewSignature(name string) *Signature {
	return &Signature{
		Name:    name,
		MinArgs: 0,
		MaxArgs: Variadic,
	}
}

func (s *Signature) Alias(names ...string) *Signature {
	s.Aliases = append(s.Aliases, names...)
	return s
}

func (s *Signature) Arity(min, max int) *Signature {
	s.MinArgs, s.MaxArgs = min, max
	return s
}

func (s *Signature) Doc(help string) *Signature {
	s.Help = help
	return s
}

// Names is the primary name followed by every alias.
func (s *Signature) Names() []string {
	return append([]string{s.Name}, s.Aliases...)
}

func (s *Signature) CheckArity(args []value.Value) error {
	n := len(args)
	switch {
	case s.MinArgs == s.MaxArgs && n != s.MinArgs:
		return value.ArityErrorf("'%s' expects %d arguments but got %d", s.Name, s.MinArgs, n)
	case n < s.MinArgs:
		return value.ArityErrorf("'%s' expects at least %d arguments but got %d", s.Name, s.MinArgs, n)
	case s.MaxArgs != Variadic && n > s.MaxArgs:
		return value.ArityErrorf("'%s' expects at most %d arguments but got %d", s.Name, s.MaxArgs, n)
	}
	return nil
}

type Operator interface {
	Apply(c value.Caller, args []value.Value) (value.Value, error)
	Signature() *Signature
}

func Register(op Operator) error {
	sig := op.Signature()
	for _, name := range sig.Names() {
		if _, ok := registry[name]; ok {
			return fmt.Errorf("can not register operator: name: '%s' already taken", name)
		}
	}
	for _, name := range sig.Names() {
		registry[name] = op
	}
	return nil
}

// RegisterConstant binds a plain value in every root environment.
func RegisterConstant(name string, v value.Value) error {
	if _, ok := constants[name]; ok {
		return fmt.Errorf("can not register constant: name: '%s' already taken", name)
	}
	constants[name] = v
	return nil
}

// All returns each registered operator once, ordered by primary name.
func All() []Operator {
	ops := lo.UniqBy(lo.Values(registry), func(op Operator) string {
		return op.Signature().Name
	})
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Signature().Name < ops[j].Signature().Name
	})
	return ops
}

// Builtin wraps op as a procedure value that checks arity before applying.
func Builtin(op Operator) *value.Builtin {
	sig := op.Signature()
	return &value.Builtin{
		Name: sig.Name,
		Fn: func(c value.Caller, args []value.Value) (value.Value, error) {
			if err := sig.CheckArity(args); err != nil {
				return nil, err
			}
			return op.Apply(c, args)
		},
	}
}

// Install binds every registered operator and constant into scope. An
// operator and its aliases share one procedure value.
func Install(scope value.Scope) {
	for _, op := range All() {
		b := Builtin(op)
		for _, name := range op.Signature().Names() {
			scope.Define(value.Symbol(name), b)
		}
	}
	for name, v := range constants {
		scope.Define(value.Symbol(name), v)
	}
}

func GetOperatorsJSON() ([]byte, error) {
	type opdata struct {
		Aliases []string `json:"aliases,omitempty"`
		MinArgs int      `json:"min_args"`
		MaxArgs int      `json:"max_args"`
		Help    string   `json:"help"`
	}
	ret := make(map[string]opdata)
	for _, op := range All() {
		sig := op.Signature()
		ret[sig.Name] = opdata{
			Aliases: sig.Aliases,
			MinArgs: sig.MinArgs,
			MaxArgs: sig.MaxArgs,
			Help:    sig.Help,
		}
	}
	return json.Marshal(ret)
}

// Each helper below checks one argument shape and names the operator in the
// type error.

func AsNumber(opname string, v value.Value) (value.Value, error) {
	if !value.IsNumber(v) {
		return nil, value.TypeErrorf("'%s' expects a number but got %s: %s", opname, value.TypeName(v), v)
	}
	return v, nil
}

func AsList(opname string, v value.Value) (value.List, error) {
	l, ok := v.(value.List)
	if !ok {
		return nil, value.TypeErrorf("'%s' expects a list but got %s: %s", opname, value.TypeName(v), v)
	}
	return l, nil
}

func AsString(opname string, v value.Value) (value.String, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", value.TypeErrorf("'%s' expects a string but got %s: %s", opname, value.TypeName(v), v)
	}
	return s, nil
}

func AsFloat(opname string, v value.Value) (float64, error) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), nil
	case value.Double:
		return float64(n), nil
	default:
		return 0, value.TypeErrorf("'%s' expects a number but got %s: %s", opname, value.TypeName(v), v)
	}
}
