package store

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/wabridge/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent", "json")
}

func TestMemoryGetOrCreate(t *testing.T) {
	s := NewMemoryThreadStore()

	id, err := s.GetOrCreate("whatsapp:+111", func() (string, error) {
		return "thread_1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", id)

	// Second call must not create again
	id, err = s.GetOrCreate("whatsapp:+111", func() (string, error) {
		t.Fatal("create called for known sender")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", id)
	assert.Equal(t, 1, s.Count())
}

func TestMemoryCreateErrorNotCached(t *testing.T) {
	s := NewMemoryThreadStore()

	_, err := s.GetOrCreate("whatsapp:+111", func() (string, error) {
		return "", errors.New("api down")
	})
	require.Error(t, err)
	assert.Equal(t, 0, s.Count())

	// A later attempt may succeed
	id, err := s.GetOrCreate("whatsapp:+111", func() (string, error) {
		return "thread_2", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "thread_2", id)
}

func TestMemoryConcurrentFirstContact(t *testing.T) {
	s := NewMemoryThreadStore()
	var creates atomic.Int32

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.GetOrCreate("whatsapp:+111", func() (string, error) {
				n := creates.Add(1)
				return fmt.Sprintf("thread_%d", n), nil
			})
			require.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), creates.Load(), "exactly one thread created under race")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestMemoryDistinctSenders(t *testing.T) {
	s := NewMemoryThreadStore()
	n := 0
	create := func() (string, error) {
		n++
		return fmt.Sprintf("thread_%d", n), nil
	}

	a, err := s.GetOrCreate("whatsapp:+111", create)
	require.NoError(t, err)
	b, err := s.GetOrCreate("whatsapp:+222", create)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "threads are never shared across senders")
	assert.Equal(t, 2, s.Count())
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteGetOrCreate(t *testing.T) {
	s := NewSQLiteThreadStore(openTestDB(t))

	id, err := s.GetOrCreate("whatsapp:+111", func() (string, error) {
		return "thread_1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", id)

	id, err = s.GetOrCreate("whatsapp:+111", func() (string, error) {
		t.Fatal("create called for known sender")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", id)
	assert.Equal(t, 1, s.Count())
}

func TestSQLitePersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads.db")

	db, err := Open(path, testLogger())
	require.NoError(t, err)
	s := NewSQLiteThreadStore(db)
	_, err = s.GetOrCreate("whatsapp:+111", func() (string, error) {
		return "thread_1", nil
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopen: mapping must survive
	db2, err := Open(path, testLogger())
	require.NoError(t, err)
	defer db2.Close()
	s2 := NewSQLiteThreadStore(db2)

	id, err := s2.GetOrCreate("whatsapp:+111", func() (string, error) {
		t.Fatal("create called after restart for known sender")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", id)
}

func TestSQLiteConcurrentFirstContact(t *testing.T) {
	s := NewSQLiteThreadStore(openTestDB(t))
	var creates atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.GetOrCreate("whatsapp:+111", func() (string, error) {
				n := creates.Add(1)
				return fmt.Sprintf("thread_%d", n), nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), creates.Load())
	assert.Equal(t, 1, s.Count())
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads.db")

	db, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-apply migrations
	db, err = Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
