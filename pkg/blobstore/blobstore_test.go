package blobstore_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

var greetingKey = provider.MustKey("messages/greeting@1")

func blob(t *testing.T, kv ...string) []byte {
	t.Helper()
	var pairs []zerotable.Pair
	for i := 0; i < len(kv); i += 2 {
		pairs = append(pairs, zerotable.StringPair(kv[i], []byte(kv[i+1])))
	}
	zerotable.SortPairs(pairs)
	data, err := zerotable.Marshal(pairs)
	require.NoError(t, err)
	return data
}

// memSource is a mutable in-memory source that counts fetches.
type memSource struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	fetches atomic.Int64
	delay   time.Duration
}

func newMemSource() *memSource { return &memSource{blobs: map[string][]byte{}} }

func (m *memSource) Fetch(_ context.Context, name string) ([]byte, error) {
	m.fetches.Add(1)
	time.Sleep(m.delay)
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[name]
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return data, nil
}

func (m *memSource) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = data
	return nil
}

// gatedSource blocks every fetch until release is closed or the fetch
// context ends.
type gatedSource struct {
	data    []byte
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSource(data []byte) *gatedSource {
	return &gatedSource{data: data, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedSource) Fetch(ctx context.Context, _ string) ([]byte, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestFSSource(t *testing.T) {
	t.Parallel()

	src := blobstore.NewFSSource(fstest.MapFS{
		"messages/greeting@1.ztbl": {Data: []byte("x")},
	})
	ctx := context.Background()

	data, err := src.Fetch(ctx, "messages/greeting@1.ztbl")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = src.Fetch(ctx, "missing.ztbl")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	for _, name := range []string{"", "/abs", "../up", "a/../b", "a//b"} {
		_, err = src.Fetch(ctx, name)
		assert.ErrorIs(t, err, blobstore.ErrInvalidName, name)
	}
}

func TestStore_LoadValidates(t *testing.T) {
	t.Parallel()

	src := newMemSource()
	src.blobs["bad"] = []byte("not a table")
	s, err := blobstore.New(src)
	require.NoError(t, err)

	err = s.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, blobstore.ErrInvalidBlob)
	assert.ErrorIs(t, err, zerotable.ErrCorrupt)

	err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Empty(t, s.Names())
}

func TestStore_LoadSharesFetch(t *testing.T) {
	t.Parallel()

	src := newMemSource()
	src.blobs["t"] = blob(t, "und", "Hi")
	src.delay = 20 * time.Millisecond
	s, err := blobstore.New(src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Load(context.Background(), "t"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), src.fetches.Load())
	require.NoError(t, s.Load(context.Background(), "t"))
	assert.Equal(t, int64(1), src.fetches.Load())
}

func TestStore_Leases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := newMemSource()
	src.blobs["t"] = blob(t, "en", "Hello", "und", "Hi")
	s, err := blobstore.New(src)
	require.NoError(t, err)

	_, err = s.Acquire("t")
	assert.ErrorIs(t, err, blobstore.ErrNotLoaded)

	require.NoError(t, s.Load(ctx, "t"))
	lease, err := s.Acquire("t")
	require.NoError(t, err)
	v1 := lease.Version()
	assert.Equal(t, blobstore.Checksum(src.blobs["t"]), v1)

	assert.ErrorIs(t, s.Unload("t"), blobstore.ErrInUse)

	src.blobs["t"] = blob(t, "en", "Hey", "und", "Hi")
	changed, err := s.Reload(ctx, "t")
	require.NoError(t, err)
	assert.True(t, changed)

	// The old generation is still readable through the lease.
	v, ok := lease.Table().LookupString("en")
	require.True(t, ok)
	assert.Equal(t, "Hello", string(v))

	// The new generation has no leases, so unloading succeeds.
	lease.Release()
	lease.Release()
	assert.Equal(t, int64(0), s.Tables()[0].Leases)
	assert.NotEqual(t, v1, s.Tables()[0].Version)

	changed, err = s.Reload(ctx, "t")
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, s.Unload("t"))
	assert.ErrorIs(t, s.Unload("t"), blobstore.ErrNotLoaded)
}

func TestStore_ReloadFailureKeepsTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := newMemSource()
	src.blobs["t"] = blob(t, "und", "Hi")
	s, err := blobstore.New(src)
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx, "t"))

	src.blobs["t"] = []byte("ZTBL garbage")
	_, err = s.Reload(ctx, "t")
	require.Error(t, err)

	lease, err := s.Acquire("t")
	require.NoError(t, err)
	defer lease.Release()
	v, ok := lease.Table().LookupString("und")
	require.True(t, ok)
	assert.Equal(t, "Hi", string(v))
}

func TestStore_ReloadBypassesCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := newMemSource()
	src.blobs["t"] = blob(t, "und", "one")
	s, err := blobstore.New(blobstore.NewCachedSource(src, blobstore.WithTTL(10*time.Minute)))
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx, "t"))

	require.NoError(t, src.Put(ctx, "t", blob(t, "und", "two")))
	changed, err := s.Reload(ctx, "t")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(2), src.fetches.Load())

	lease, err := s.Acquire("t")
	require.NoError(t, err)
	defer lease.Release()
	v, ok := lease.Table().LookupString("und")
	require.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestStore_SharedFetch(t *testing.T) {
	t.Parallel()

	t.Run("survives first caller cancelling", func(t *testing.T) {
		t.Parallel()
		src := newGatedSource(blob(t, "und", "Hi"))
		s, err := blobstore.New(src)
		require.NoError(t, err)

		ctx1, cancel1 := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() { first <- s.Load(ctx1, "t") }()
		<-src.started

		second := make(chan error, 1)
		go func() { second <- s.Load(context.Background(), "t") }()

		cancel1()
		require.ErrorIs(t, <-first, context.Canceled)

		close(src.release)
		require.NoError(t, <-second)
		assert.Equal(t, []string{"t"}, s.Names())
	})

	t.Run("bounded by fetch timeout", func(t *testing.T) {
		t.Parallel()
		src := newGatedSource(blob(t, "und", "Hi"))
		s, err := blobstore.New(src, blobstore.WithFetchTimeout(20*time.Millisecond))
		require.NoError(t, err)

		err = s.Load(context.Background(), "t")
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, s.Names())
	})

	t.Run("rejects non-positive timeout", func(t *testing.T) {
		t.Parallel()
		_, err := blobstore.New(newMemSource(), blobstore.WithFetchTimeout(0))
		require.ErrorIs(t, err, blobstore.ErrInvalidConfig)
	})
}

func TestStore_TableSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := newMemSource()
	name := blobstore.TableName(greetingKey)
	assert.Equal(t, "messages/greeting@1.ztbl", name)
	src.blobs[name] = blob(t, "en", "Hello", "und", "Hi")

	s, err := blobstore.New(src)
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx, name))

	l, err := provider.NewLoader(s.WithTable(greetingKey, name))
	require.NoError(t, err)

	resp, err := provider.Load(l, provider.NewRequest(greetingKey, locale.MustParse("en-GB")),
		func(b []byte) (string, error) { return zerotable.String(b), nil })
	require.NoError(t, err)

	assert.Equal(t, "Hello", resp.Payload.Get())
	assert.True(t, resp.Payload.IsBorrowed())
	assert.Equal(t, "en", resp.Metadata.Locale.String())
	assert.Equal(t, blobstore.Checksum(src.blobs[name]), resp.Metadata.Version)

	// Only the matching entry holds a lease; misses along the chain do not.
	assert.Equal(t, int64(1), s.Tables()[0].Leases)
	assert.ErrorIs(t, s.Unload(name), blobstore.ErrInUse)

	resp.Release()
	assert.Equal(t, int64(0), s.Tables()[0].Leases)
	require.NoError(t, s.Unload(name))

	_, err = provider.Load(l, provider.NewRequest(greetingKey, locale.MustParse("en")),
		func(b []byte) (string, error) { return zerotable.String(b), nil })
	assert.ErrorIs(t, err, provider.ErrSource)
	assert.ErrorIs(t, err, blobstore.ErrNotLoaded)
}

func TestCachedSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := newMemSource()
	src.blobs["a"] = []byte("A")
	src.blobs["b"] = []byte("B")
	src.blobs["c"] = []byte("C")

	now := time.Unix(0, 0)
	c := blobstore.NewCachedSource(src,
		blobstore.WithTTL(time.Minute),
		blobstore.WithMaxEntries(2),
		blobstore.WithClock(func() time.Time { return now }),
	)

	for range 3 {
		_, err := c.Fetch(ctx, "a")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), src.fetches.Load())

	_, _ = c.Fetch(ctx, "b")
	_, _ = c.Fetch(ctx, "a")
	_, _ = c.Fetch(ctx, "c") // evicts b
	assert.Equal(t, 2, c.Len())
	_, _ = c.Fetch(ctx, "a")
	assert.Equal(t, int64(3), src.fetches.Load())
	_, _ = c.Fetch(ctx, "b")
	assert.Equal(t, int64(4), src.fetches.Load())

	now = now.Add(2 * time.Minute)
	_, _ = c.Fetch(ctx, "b")
	assert.Equal(t, int64(5), src.fetches.Load())

	c.Invalidate("b")
	_, _ = c.Fetch(ctx, "b")
	assert.Equal(t, int64(6), src.fetches.Load())

	_, err := c.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestMirror(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	local, err := blobstore.OpenPebble(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	var down atomic.Bool
	primary := blobstore.SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		if down.Load() {
			return nil, blobstore.ErrFetchFailed
		}
		if name == "t" {
			return []byte("v1"), nil
		}
		return nil, blobstore.ErrNotFound
	})
	m := blobstore.NewMirror(primary, local)

	data, err := m.Fetch(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	down.Store(true)
	data, err = m.Fetch(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	_, err = m.Fetch(ctx, "other")
	assert.ErrorIs(t, err, blobstore.ErrFetchFailed)

	down.Store(false)
	_, err = m.Fetch(ctx, "other")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestPebbleSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, err := blobstore.OpenPebble(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Put(ctx, "a/b.ztbl", []byte("data")))
	got, err := p.Fetch(ctx, "a/b.ztbl")
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	_, err = p.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.ErrorIs(t, p.Put(ctx, "../x", nil), blobstore.ErrInvalidName)
}

func TestRefresher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := newMemSource()
	src.blobs["a"] = blob(t, "und", "1")
	s, err := blobstore.New(src)
	require.NoError(t, err)

	_, err = blobstore.NewRefresher(s, "not a schedule", nil, 0)
	assert.ErrorIs(t, err, blobstore.ErrInvalidConfig)

	r, err := blobstore.NewRefresher(s, "@every 1h", []string{"a", "b"}, time.Second)
	require.NoError(t, err)

	err = r.RefreshAll(ctx)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.NoError(t, r.LastError("a"))
	assert.True(t, errors.Is(r.LastError("b"), blobstore.ErrNotFound))
	assert.Equal(t, []string{"a"}, s.Names())

	src.blobs["b"] = blob(t, "und", "2")
	require.NoError(t, r.RefreshAll(ctx))
	assert.Equal(t, []string{"a", "b"}, s.Names())

	r.Start()
	require.NoError(t, r.Stop(ctx))
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	assert.Len(t, blobstore.Checksum(nil), 16)
	assert.Equal(t, blobstore.Checksum([]byte("a")), blobstore.Checksum([]byte("a")))
	assert.NotEqual(t, blobstore.Checksum([]byte("a")), blobstore.Checksum([]byte("b")))
}
