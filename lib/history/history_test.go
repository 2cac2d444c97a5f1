package history

import (
	"strings"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ck := clock.NewMock()
	start := ck.Now()
	s, err := Config{InMemory: true, Clock: ck}.Open()
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	entries, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, entries)

	srcs := []string{"(define x 1)", "(define f (lambda (y) (+ x y)))", "(f 2)"}
	var seqs []uint64
	for _, src := range srcs {
		ck.Add(time.Minute)
		seq, err := s.Append(src)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}
	assert.True(t, seqs[0] < seqs[1] && seqs[1] < seqs[2])

	entries, err = s.All()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for k, e := range entries {
		assert.Equal(t, srcs[k], e.Src)
		assert.Equal(t, seqs[k], e.Seq)
		assert.True(t, start.Add(time.Duration(k+1)*time.Minute).Equal(e.Time))
	}

	require.NoError(t, s.Clear())
	entries, err = s.All()
	require.NoError(t, err)
	assert.Empty(t, entries)

	// appending still works after a clear
	_, err = s.Append("(+ 1 1)")
	require.NoError(t, err)
	entries, err = s.All()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Config{Dir: dir}.Open()
	require.NoError(t, err)
	_, err = s.Append("(define x 1)")
	require.NoError(t, err)
	_, err = s.Append("(define y 2)")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Config{Dir: dir}.Open()
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()
	_, err = s.Append("(define z 3)")
	require.NoError(t, err)

	entries, err := s.All()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "(define x 1)", entries[0].Src)
	assert.Equal(t, "(define z 3)", entries[2].Src)
}

func TestStore_Stats(t *testing.T) {
	s, err := Config{InMemory: true}.Open()
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	src := strings.Repeat("(+ 1 1) ", 100)
	_, err = s.Append(src)
	require.NoError(t, err)
	_, err = s.Append("(define x 1)")
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.Appends.Load())
	assert.Equal(t, uint64(len(src)+len("(define x 1)")), stats.SourceBytes.Load())
	// repeated source compresses well below its size
	assert.Less(t, stats.StoredBytes.Load(), stats.SourceBytes.Load())

	entries, err := s.All()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, src, entries[0].Src)
}
