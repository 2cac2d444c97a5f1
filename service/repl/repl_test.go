package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"lispy/engine"
	"lispy/lib/history"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepl(t *testing.T) (*repl, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	store, err := history.Config{InMemory: true}.Open()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	ex := engine.NewExecutor(zap.NewNop())
	ex.SetRecorder(store)
	return &repl{
		executor: ex,
		history:  mo.Some(store),
		logger:   zap.NewNop(),
		out:      &out,
		errOut:   &errOut,
	}, &out, &errOut
}

func TestEval(t *testing.T) {
	r, out, errOut := newTestRepl(t)
	ctx := context.Background()

	assert.True(t, r.eval(ctx, "(define square (lambda (x) (* x x)))"))
	assert.Equal(t, "", out.String())
	assert.True(t, r.eval(ctx, "(square 5)"))
	assert.True(t, r.eval(ctx, `(if (> 3 2) "yes" "no")`))
	assert.True(t, r.eval(ctx, `(print "hi")`))
	assert.Equal(t, "25\n\"yes\"\nhi\n", out.String())

	assert.False(t, r.eval(ctx, "(square)"))
	assert.Contains(t, errOut.String(), "arity error")
}

func TestCommands(t *testing.T) {
	r, out, errOut := newTestRepl(t)
	ctx := context.Background()

	assert.True(t, r.command(ctx, ":quit"))
	assert.False(t, r.command(ctx, ":env"))
	assert.Contains(t, out.String(), "head")

	out.Reset()
	r.command(ctx, ":pretty")
	assert.True(t, r.pretty)
	r.eval(ctx, "'(a (b c))")
	assert.Equal(t, "pretty printing on\n(a\n  (b c))\n", out.String())

	out.Reset()
	r.eval(ctx, "(define x 1)")
	r.command(ctx, ":history")
	assert.Contains(t, out.String(), "(define x 1)")
	assert.Contains(t, out.String(), "appended this session")

	out.Reset()
	r.command(ctx, ":reset")
	assert.False(t, r.eval(ctx, "x"))
	assert.Contains(t, errOut.String(), "unbound variable")
	store, _ := r.history.Get()
	entries, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, entries)

	errOut.Reset()
	r.command(ctx, ":bogus")
	assert.Contains(t, errOut.String(), "unknown command")

	out.Reset()
	r.command(ctx, ":help")
	assert.Contains(t, out.String(), "head/car")

	out.Reset()
	errOut.Reset()
	r.command(ctx, ":help car nosuch")
	assert.Contains(t, out.String(), "head/car")
	assert.NotContains(t, out.String(), "tail/cdr")
	assert.Contains(t, errOut.String(), "unregistered operator: 'nosuch'")
}

func TestLoad(t *testing.T) {
	r, out, errOut := newTestRepl(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lisp"), []byte("(define a 2)\n---\n(* a 21)\n"), 0644))

	assert.False(t, r.command(ctx, "load "+filepath.Join(dir, "a")))
	assert.Equal(t, "42\n", out.String())
	assert.True(t, r.eval(ctx, "a"))
	store, _ := r.history.Get()
	entries, err := store.All()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "(define a 2)\n", entries[0].Src)

	assert.False(t, r.load(ctx, []string{filepath.Join(dir, "missing")}))
	assert.Contains(t, errOut.String(), "failed to open script")
}

func TestInputHelpers(t *testing.T) {
	assert.True(t, isCommand(":env"))
	assert.True(t, isCommand("  load a b"))
	assert.False(t, isCommand("(load a)"))
	assert.False(t, isCommand("loader"))

	assert.True(t, needsMore("(define x"))
	assert.True(t, needsMore(`(print "abc`))
	assert.True(t, needsMore("'"))
	assert.False(t, needsMore("(define x 1)"))
	// a stray ) can not be completed by more input
	assert.False(t, needsMore(")"))

	r, _, _ := newTestRepl(t)
	head, completions, tail := r.complete("(le 1)", 3)
	assert.Equal(t, "(", head)
	assert.Equal(t, []string{"length"}, completions)
	assert.Equal(t, " 1)", tail)
	_, completions, _ = r.complete("(", 1)
	assert.Empty(t, completions)
}
