package history

import (
	"encoding/binary"
	"time"

	"lispy/fbadger"

	"github.com/dgraph-io/badger/v3"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/raulk/clock"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	entryPrefix = []byte("h/")
	seqKey      = []byte("seq/history")
)

// sequence numbers are leased from badger this many at a time
const seqBandwidth = 100

type Config struct {
	Dir      string
	InMemory bool
	Logger   *zap.Logger
	// Clock stamps entries; the wall clock when nil
	Clock clock.Clock
}

// Entry is one piece of source that evaluated without an error.
type Entry struct {
	Seq  uint64
	Time time.Time
	Src  string
}

// Stats counts what this process appended.
type Stats struct {
	Appends     atomic.Uint64
	SourceBytes atomic.Uint64
	StoredBytes atomic.Uint64
}

// Store keeps entries in badger, keyed by a big-endian sequence number so
// that key order is insertion order. Each value is the entry's unix nano
// timestamp followed by its snappy compressed source.
type Store struct {
	db    fbadger.DB
	seq   *badger.Sequence
	clock clock.Clock
	stats Stats
}

func (c Config) Open() (*Store, error) {
	db, err := fbadger.Config{Dir: c.Dir, InMemory: c.InMemory, Logger: c.Logger}.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history")
	}
	seq, err := db.GetSequence(seqKey, seqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to open history sequence")
	}
	ck := c.Clock
	if ck == nil {
		ck = clock.New()
	}
	return &Store{db: db, seq: seq, clock: ck}, nil
}

func entryKey(seq uint64) []byte {
	key := make([]byte, len(entryPrefix)+8)
	copy(key, entryPrefix)
	binary.BigEndian.PutUint64(key[len(entryPrefix):], seq)
	return key
}

func (s *Store) Append(src string) (uint64, error) {
	seq, err := s.seq.Next()
	if err != nil {
		return 0, errors.Wrap(err, "failed to lease history sequence")
	}
	compressed := snappy.Encode(nil, []byte(src))
	val := make([]byte, 8+len(compressed))
	binary.BigEndian.PutUint64(val, uint64(s.clock.Now().UnixNano()))
	copy(val[8:], compressed)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(seq), val)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to append history entry %d", seq)
	}
	s.stats.Appends.Inc()
	s.stats.SourceBytes.Add(uint64(len(src)))
	s.stats.StoredBytes.Add(uint64(len(val)))
	fbadger.RecordSizeStats(s.db)
	return seq, nil
}

func (s *Store) Stats() *Stats {
	return &s.stats
}

// All returns every entry, oldest first.
func (s *Store) All() ([]Entry, error) {
	var ret []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = entryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if len(val) < 8 {
				return errors.Errorf("corrupt history entry: %x", item.Key())
			}
			src, err := snappy.Decode(nil, val[8:])
			if err != nil {
				return errors.Wrapf(err, "corrupt history entry: %x", item.Key())
			}
			ret = append(ret, Entry{
				Seq:  binary.BigEndian.Uint64(item.Key()[len(entryPrefix):]),
				Time: time.Unix(0, int64(binary.BigEndian.Uint64(val))),
				Src:  string(src),
			})
		}
		return nil
	})
	return ret, err
}

// Clear deletes every entry. Sequence numbers keep growing.
func (s *Store) Clear() error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = entryPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	batch := s.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	return batch.Flush()
}

func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		return err
	}
	return s.db.Close()
}
