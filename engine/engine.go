package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lispy/engine/interpreter"
	"lispy/engine/reader"
	"lispy/lib/timer"
	"lispy/lib/tracer"
	"lispy/lib/value"

	"github.com/dgraph-io/ristretto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

var evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lispy_evaluations_total",
	Help: "Top-level evaluations by outcome: ok or the error kind",
}, []string{"outcome"})

// BlockSeparator is a line that splits a loaded script into blocks.
const BlockSeparator = "---"

// Recorder keeps the source of every evaluation that succeeded.
type Recorder interface {
	Append(src string) (uint64, error)
}

// Executor owns one interpreter and serializes every call into it. The root
// env is the only state kept between calls.
type Executor struct {
	mu       sync.Mutex
	opts     []interpreter.Option
	ip       *interpreter.Interpreter
	logger   *zap.Logger
	recorder Recorder
	parsed   *ristretto.Cache
}

func NewExecutor(logger *zap.Logger, opts ...interpreter.Option) *Executor {
	opts = append([]interpreter.Option{interpreter.WithLogger(logger)}, opts...)
	return &Executor{
		opts:   opts,
		ip:     interpreter.NewInterpreter(opts...),
		logger: logger,
	}
}

// SetRecorder makes every later successful Exec append its source to r.
func (ex *Executor) SetRecorder(r Recorder) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.recorder = r
}

// SetParseCache makes the executor keep the forms read from each source in
// c, keyed by the source text. Evaluation never modifies forms, so they can
// be shared between calls.
func (ex *Executor) SetParseCache(c *ristretto.Cache) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.parsed = c
}

func (ex *Executor) read(src string) ([]value.Value, error) {
	if ex.parsed != nil {
		if cached, ok := ex.parsed.Get(src); ok {
			return cached.([]value.Value), nil
		}
	}
	exprs, err := reader.ReadAll(src)
	if err == nil && ex.parsed != nil {
		ex.parsed.Set(src, exprs, int64(len(src)))
	}
	return exprs, err
}

// Exec evaluates every form of src against the root env and returns the
// value of the last one. It is None when that form was a define, or when
// src holds no forms at all.
func (ex *Executor) Exec(ctx context.Context, src string) (mo.Option[value.Value], error) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.execAndRecord(ctx, src)
}

func (ex *Executor) execAndRecord(ctx context.Context, src string) (mo.Option[value.Value], error) {
	ret, err := ex.exec(ctx, src)
	if err == nil && ex.recorder != nil && strings.TrimSpace(src) != "" {
		if _, rerr := ex.recorder.Append(src); rerr != nil {
			ex.logger.Warn("failed to record history", zap.Error(rerr))
		}
	}
	return ret, err
}

// ExecTo is Exec with everything printed during the call written to w
// instead of the interpreter's output.
func (ex *Executor) ExecTo(ctx context.Context, src string, w io.Writer) (mo.Option[value.Value], error) {
	ex.mu.Lock()
	prev := ex.ip.SetOutput(w)
	defer func() {
		ex.ip.SetOutput(prev)
		ex.mu.Unlock()
	}()
	return ex.execAndRecord(ctx, src)
}

// Replay is Exec for source that came out of the history: it is not
// recorded again and anything it prints is dropped.
func (ex *Executor) Replay(ctx context.Context, src string) (mo.Option[value.Value], error) {
	ex.mu.Lock()
	prev := ex.ip.SetOutput(io.Discard)
	defer func() {
		ex.ip.SetOutput(prev)
		ex.mu.Unlock()
	}()
	return ex.exec(ctx, src)
}

func (ex *Executor) exec(ctx context.Context, src string) (mo.Option[value.Value], error) {
	defer timer.Start("exec").Stop()
	span := tracer.StartSpan(ctx, "engine.exec")
	defer span.End()
	ctx = span.Context()

	none := mo.None[value.Value]()
	exprs, err := ex.read(src)
	timer.Mark(ctx, "read")
	if err != nil {
		ex.observe(span, err)
		return none, err
	}
	span.SetIntAttribute("forms", len(exprs))

	var last value.Value = value.Void
	for _, expr := range exprs {
		if last, err = ex.ip.Eval(expr, ex.ip.Root()); err != nil {
			timer.Mark(ctx, "eval")
			ex.observe(span, err)
			return none, err
		}
	}
	timer.Mark(ctx, "eval")
	ex.observe(span, nil)
	ex.logger.Debug("evaluated", zap.Int("forms", len(exprs)), zap.String("type", value.TypeName(last)))
	if value.IsVoid(last) {
		return none, nil
	}
	return mo.Some(last), nil
}

func (ex *Executor) observe(span tracer.Span, err error) {
	if err == nil {
		evaluations.WithLabelValues("ok").Inc()
		return
	}
	kind := value.Kind(err)
	evaluations.WithLabelValues(kind).Inc()
	span.SetStringAttribute("kind", kind)
	span.RecordError(err)
	ex.logger.Debug("evaluation failed", zap.String("kind", kind), zap.Error(err))
}

// Load evaluates a script block by block, where blocks are separated by
// lines holding only BlockSeparator. A separator inside a line, or inside a
// string literal, does not split the block. fn gets the result of each block,
// and each block that evaluates is recorded like an Exec. The first error
// stops the load; whatever was defined before it stays defined.
func (ex *Executor) Load(ctx context.Context, r io.Reader, fn func(mo.Option[value.Value])) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	var block strings.Builder
	flush := func() error {
		src := block.String()
		block.Reset()
		if strings.TrimSpace(src) == "" {
			return nil
		}
		ret, err := ex.execAndRecord(ctx, src)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(ret)
		}
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == BlockSeparator {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return flush()
}

// LoadFile loads the script at path. A path without an extension gets
// ".lisp" appended.
func (ex *Executor) LoadFile(ctx context.Context, path string, fn func(mo.Option[value.Value])) error {
	if filepath.Ext(path) == "" {
		path += ".lisp"
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	ex.logger.Info("loading script", zap.String("path", path))
	return ex.Load(ctx, f, fn)
}

// Reset drops every definition by starting over with a fresh interpreter.
func (ex *Executor) Reset() {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.ip = interpreter.NewInterpreter(ex.opts...)
}

// Names lists every name bound in the root env.
func (ex *Executor) Names() []string {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.ip.Root().Names()
}

// Lookup returns the root env binding of name.
func (ex *Executor) Lookup(name string) (value.Value, error) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.ip.Root().Lookup(value.Symbol(name))
}
