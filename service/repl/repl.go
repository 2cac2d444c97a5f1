package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"lispy/engine"
	"lispy/engine/operators"
	"lispy/engine/printer"
	"lispy/engine/reader"
	"lispy/lib/history"
	"lispy/lib/value"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

// repl is everything of the interactive loop except the terminal, so that
// it can be driven by tests.
type repl struct {
	executor *engine.Executor
	history  mo.Option[*history.Store]
	logger   *zap.Logger
	out      io.Writer
	errOut   io.Writer
	pretty   bool
}

func (r *repl) show(ret mo.Option[value.Value]) {
	v, ok := ret.Get()
	if !ok {
		return
	}
	if r.pretty {
		fmt.Fprintln(r.out, printer.Pretty(v))
	} else {
		fmt.Fprintln(r.out, printer.Render(v))
	}
}

func (r *repl) report(err error) {
	fmt.Fprintln(r.errOut, err.Error())
	r.logger.Debug("evaluation failed", zap.String("kind", value.Kind(err)), zap.Error(err))
}

// eval evaluates src and prints its value, or the error. It reports whether
// the evaluation succeeded.
func (r *repl) eval(ctx context.Context, src string) bool {
	ret, err := r.executor.ExecTo(ctx, src, r.out)
	if err != nil {
		r.report(err)
		return false
	}
	r.show(ret)
	return true
}

// load evaluates each named script, printing the result of every block.
func (r *repl) load(ctx context.Context, names []string) bool {
	for _, name := range names {
		if err := r.executor.LoadFile(ctx, name, r.show); err != nil {
			r.report(err)
			return false
		}
	}
	return true
}

// isCommand reports whether line is handled by command instead of being
// evaluated.
func isCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, ":") || line == "load" || strings.HasPrefix(line, "load ")
}

// command runs one REPL command and reports whether the REPL should exit.
func (r *repl) command(ctx context.Context, line string) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":env":
		fmt.Fprintln(r.out, strings.Join(r.executor.Names(), " "))
	case ":pretty":
		r.pretty = !r.pretty
		fmt.Fprintf(r.out, "pretty printing %s\n", onOff(r.pretty))
	case ":help":
		ops := operators.All()
		if len(fields) > 1 {
			ops = nil
			for _, name := range fields[1:] {
				op, err := operators.Locate(name)
				if err != nil {
					r.report(err)
					continue
				}
				ops = append(ops, op)
			}
		}
		for _, op := range ops {
			sig := op.Signature()
			fmt.Fprintf(r.out, "%-12s %s\n", strings.Join(sig.Names(), "/"), sig.Help)
		}
	case ":history":
		store, ok := r.history.Get()
		if !ok {
			fmt.Fprintln(r.out, "history is off, start with --history-dir to keep it")
			break
		}
		entries, err := store.All()
		if err != nil {
			r.report(err)
			break
		}
		for _, e := range entries {
			fmt.Fprintf(r.out, "%4d  %s  %s\n", e.Seq, e.Time.Format(time.Kitchen), strings.ReplaceAll(e.Src, "\n", " "))
		}
		stats := store.Stats()
		fmt.Fprintf(r.out, "%d appended this session, %d bytes stored for %d bytes of source\n",
			stats.Appends.Load(), stats.StoredBytes.Load(), stats.SourceBytes.Load())
	case ":reset":
		if store, ok := r.history.Get(); ok {
			if err := store.Clear(); err != nil {
				r.report(err)
				break
			}
		}
		r.executor.Reset()
		fmt.Fprintln(r.out, "environment reset")
	case "load":
		if len(fields) < 2 {
			fmt.Fprintln(r.errOut, "usage: load name...")
			break
		}
		r.load(ctx, fields[1:])
	default:
		fmt.Fprintf(r.errOut, "unknown command %q. Type :help for builtins or :quit to exit.\n", fields[0])
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// needsMore reports whether src stops in the middle of an expression.
func needsMore(src string) bool {
	_, err := reader.ReadAll(src)
	return err != nil && reader.IsIncomplete(err)
}

// complete finds the bound names that start with the word ending at pos.
func (r *repl) complete(line string, pos int) (head string, completions []string, tail string) {
	start := strings.LastIndexAny(line[:pos], " \t\n()'") + 1
	prefix := line[start:pos]
	if prefix == "" {
		return line[:pos], nil, line[pos:]
	}
	completions = lo.Filter(r.executor.Names(), func(name string, _ int) bool {
		return strings.HasPrefix(name, prefix)
	})
	return line[:start], completions, line[pos:]
}
