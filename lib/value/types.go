package value

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Value interface {
	isValue()
	Equal(v Value) bool
	Op(opt string, other Value) (Value, error)
	String() string
}

var _ Value = Symbol("")
var _ Value = Int(0)
var _ Value = Double(0)
var _ Value = Bool(true)
var _ Value = String("")
var _ Value = List([]Value{Int(0), Bool(true)})
var _ Value = (*Builtin)(nil)
var _ Value = (*Closure)(nil)
var _ Value = void_{}

type Symbol string

func (s Symbol) isValue() {}
func (s Symbol) Equal(v Value) bool {
	switch v.(type) {
	case Symbol:
		return v.(Symbol) == s
	default:
		return false
	}
}
func (s Symbol) String() string {
	return string(s)
}
func (s Symbol) Op(opt string, other Value) (Value, error) {
	return route(s, opt, other)
}

type Int int64

func (I Int) isValue() {}
func (I Int) Equal(v Value) bool {
	switch v.(type) {
	case Int:
		return v.(Int) == I
	default:
		return false
	}
}
func (I Int) String() string {
	return strconv.FormatInt(int64(I), 10)
}
func (I Int) Op(opt string, other Value) (Value, error) {
	return route(I, opt, other)
}

type Double float64

func (d Double) isValue() {}
func (d Double) Equal(v Value) bool {
	switch v.(type) {
	case Double:
		return v.(Double) == d
	default:
		return false
	}
}

// String always carries a decimal point or an exponent so that the text reads
// back as a Double and never as an Int.
func (d Double) String() string {
	s := strconv.FormatFloat(float64(d), 'g', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}
func (d Double) Op(opt string, other Value) (Value, error) {
	return route(d, opt, other)
}

type Bool bool

func (b Bool) isValue() {}
func (b Bool) Equal(v Value) bool {
	switch v.(type) {
	case Bool:
		return v.(Bool) == b
	default:
		return false
	}
}
func (b Bool) String() string {
	if b {
		return "#t"
	}
	return "#f"
}
func (b Bool) Op(opt string, other Value) (Value, error) {
	return route(b, opt, other)
}

type String string

func (s String) isValue() {}
func (s String) Equal(v Value) bool {
	switch v.(type) {
	case String:
		return v.(String) == s
	default:
		return false
	}
}

// String returns the raw contents; quoting is the printer's job.
func (s String) String() string {
	return string(s)
}
func (s String) Op(opt string, other Value) (Value, error) {
	return route(s, opt, other)
}

type List []Value

func NewList(values ...Value) List {
	ret := make([]Value, 0, len(values))
	ret = append(ret, values...)
	return ret
}

func (l List) isValue() {}
func (l List) Equal(right Value) bool {
	switch right.(type) {
	case List:
		r := right.(List)
		if len(r) != len(l) {
			return false
		}
		for i, lv := range l {
			if !lv.Equal(r[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
func (l List) String() string {
	sb := strings.Builder{}
	sb.WriteString("(")
	for i, v := range l {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString(")")
	return sb.String()
}
func (l List) Op(opt string, other Value) (Value, error) {
	return route(l, opt, other)
}

// Caller is the part of the interpreter that host functions can reach: it
// invokes procedures and owns the output stream.
type Caller interface {
	Apply(proc Value, args []Value) (Value, error)
	Output() io.Writer
}

type Builtin struct {
	Name string
	Fn   func(c Caller, args []Value) (Value, error)
}

func (b *Builtin) isValue() {}

// Equal on procedures is identity.
func (b *Builtin) Equal(v Value) bool {
	other, ok := v.(*Builtin)
	return ok && other == b
}
func (b *Builtin) String() string {
	return fmt.Sprintf("#<builtin %s>", b.Name)
}
func (b *Builtin) Op(opt string, other Value) (Value, error) {
	return route(b, opt, other)
}

// Scope is the environment a closure captures. It is satisfied by the
// interpreter's environment.
type Scope interface {
	Lookup(name Symbol) (Value, error)
	Define(name Symbol, v Value)
}

type Closure struct {
	Params []Symbol
	Body   Value
	Env    Scope
}

func (c *Closure) isValue() {}
func (c *Closure) Equal(v Value) bool {
	other, ok := v.(*Closure)
	return ok && other == c
}
func (c *Closure) String() string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = string(p)
	}
	return fmt.Sprintf("#<lambda (%s)>", strings.Join(params, " "))
}
func (c *Closure) Op(opt string, other Value) (Value, error) {
	return route(c, opt, other)
}

// void_ is what define and print evaluate to. Callers print nothing for it on
// its own; inside a list it renders as #<void>.
type void_ struct{}

var Void = void_{}

func (n void_) isValue() {}
func (n void_) Equal(v Value) bool {
	_, ok := v.(void_)
	return ok
}
func (n void_) String() string {
	return "#<void>"
}
func (n void_) Op(opt string, other Value) (Value, error) {
	return route(n, opt, other)
}

func IsVoid(v Value) bool {
	_, ok := v.(void_)
	return ok
}

// Truthy reports whether v selects the consequent of an if. Only #f is false;
// zero, the empty list and the empty string are all true.
func Truthy(v Value) bool {
	b, ok := v.(Bool)
	return !ok || bool(b)
}

func IsProcedure(v Value) bool {
	switch v.(type) {
	case *Builtin, *Closure:
		return true
	default:
		return false
	}
}

func IsNumber(v Value) bool {
	switch v.(type) {
	case Int, Double:
		return true
	default:
		return false
	}
}

// TypeName is the name used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Symbol:
		return "symbol"
	case Int:
		return "int"
	case Double:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case List:
		return "list"
	case *Builtin, *Closure:
		return "procedure"
	case void_:
		return "void"
	default:
		return fmt.Sprintf("%T", v)
	}
}
