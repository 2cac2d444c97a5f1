package fbadger

import (
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

type DB struct {
	*badger.DB
	Config Config
}

type Config struct {
	// Dir is ignored when InMemory is set
	Dir      string
	InMemory bool
	Logger   *zap.Logger
}

func (c Config) options() badger.Options {
	var opts badger.Options
	if c.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(c.Dir)
	}
	if c.Logger != nil {
		opts = opts.WithLogger(zapLogger{c.Logger.Sugar()}).WithLoggingLevel(badger.INFO)
	} else {
		opts = opts.WithLoggingLevel(badger.WARNING)
	}
	return opts
}

func (c Config) Open() (DB, error) {
	db, err := badger.Open(c.options())
	if err != nil {
		return DB{}, err
	}
	return DB{DB: db, Config: c}, nil
}
