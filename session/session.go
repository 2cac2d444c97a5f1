package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"lispy/engine"
	"lispy/engine/interpreter"
	"lispy/lib/history"
	"lispy/lib/ristretto"
	"lispy/lib/tracer"

	dristretto "github.com/dgraph-io/ristretto"
	"github.com/samber/mo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type SessionArgs struct {
	tracer.TracerArgs `json:"tracer_._tracer_args"`

	Dev        bool   `arg:"--dev,env:LISPY_DEV" default:"false" json:"dev,omitempty"`
	MaxDepth   int    `arg:"--max-depth,env:LISPY_MAX_DEPTH" default:"10000" json:"max_depth,omitempty"`
	HistoryDir string `arg:"--history-dir,env:LISPY_HISTORY_DIR" json:"history_dir,omitempty"`
	// MemoryHistory keeps history in memory only, mostly for tests
	MemoryHistory bool `arg:"--memory-history" json:"memory_history,omitempty"`
	// ParseCacheBytes bounds the cache of read source; zero turns it off
	ParseCacheBytes int64 `arg:"--parse-cache-bytes,env:LISPY_PARSE_CACHE_BYTES" default:"8388608" json:"parse_cache_bytes,omitempty"`
}

func (args SessionArgs) Valid() error {
	if args.MaxDepth < 0 {
		return fmt.Errorf("max depth can not be negative: %d", args.MaxDepth)
	}
	if args.ParseCacheBytes < 0 {
		return fmt.Errorf("parse cache size can not be negative: %d", args.ParseCacheBytes)
	}
	return nil
}

// Session is everything a caller of the interpreter needs: the executor and
// the resources around it.
type Session struct {
	Executor *engine.Executor
	History  mo.Option[*history.Store]
	Cache    mo.Option[*dristretto.Cache]
	Logger   *zap.Logger
	Args     SessionArgs

	shutdownTracer func(context.Context) error
	stopReporting  context.CancelFunc
}

func NewLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
}

func CreateFromArgs(args *SessionArgs, opts ...interpreter.Option) (session Session, err error) {
	if err = args.Valid(); err != nil {
		return session, err
	}
	// First, create a structured logger that we can then use in other places.
	log.Print("Creating logger")
	logger, err := NewLogger(args.Dev)
	if err != nil {
		return session, fmt.Errorf("failed to construct logger: %v", err)
	}
	_ = zap.ReplaceGlobals(logger)
	return createWithLogger(args, logger, opts...)
}

func createWithLogger(args *SessionArgs, logger *zap.Logger, opts ...interpreter.Option) (session Session, err error) {
	session = Session{Logger: logger, Args: *args}

	if len(args.OtlpEndpoint) > 0 {
		logger.Info("Exporting traces", zap.String("endpoint", args.OtlpEndpoint))
		if session.shutdownTracer, err = tracer.InitProvider(args.OtlpEndpoint); err != nil {
			return session, err
		}
	}

	opts = append([]interpreter.Option{interpreter.WithMaxDepth(args.MaxDepth)}, opts...)
	session.Executor = engine.NewExecutor(logger, opts...)

	if args.ParseCacheBytes > 0 {
		cache, err := ristretto.NewCache(args.ParseCacheBytes)
		if err != nil {
			_ = session.Close()
			return Session{}, fmt.Errorf("failed to create parse cache: %w", err)
		}
		session.Cache = mo.Some(cache)
		session.Executor.SetParseCache(cache)
		var ctx context.Context
		ctx, session.stopReporting = context.WithCancel(context.Background())
		ristretto.ReportPeriodically(ctx, "parse_cache", cache, time.Minute)
	}

	if len(args.HistoryDir) > 0 || args.MemoryHistory {
		logger.Info("Opening history", zap.String("dir", args.HistoryDir), zap.Bool("in_memory", args.MemoryHistory))
		store, err := history.Config{Dir: args.HistoryDir, InMemory: args.MemoryHistory, Logger: logger}.Open()
		if err != nil {
			_ = session.Close()
			return Session{}, err
		}
		session.History = mo.Some(store)
		replayed, skipped := Replay(context.Background(), session.Executor, store, logger)
		logger.Info("Replayed history", zap.Int("replayed", replayed), zap.Int("skipped", skipped))
		session.Executor.SetRecorder(store)
	}
	return session, nil
}

// Replay evaluates every stored entry in order. Entries that fail are logged
// and skipped.
func Replay(ctx context.Context, ex *engine.Executor, store *history.Store, logger *zap.Logger) (replayed, skipped int) {
	entries, err := store.All()
	if err != nil {
		logger.Warn("failed to read history", zap.Error(err))
		return 0, 0
	}
	for _, e := range entries {
		if _, err := ex.Replay(ctx, e.Src); err != nil {
			logger.Warn("skipping history entry", zap.Uint64("seq", e.Seq), zap.Error(err))
			skipped++
			continue
		}
		replayed++
	}
	return replayed, skipped
}

func (s Session) Close() error {
	var err error
	if s.stopReporting != nil {
		s.stopReporting()
	}
	if cache, ok := s.Cache.Get(); ok {
		cache.Close()
	}
	if store, ok := s.History.Get(); ok {
		err = store.Close()
	}
	if s.shutdownTracer != nil {
		if terr := s.shutdownTracer(context.Background()); terr != nil && err == nil {
			err = terr
		}
	}
	_ = s.Logger.Sync()
	return err
}
