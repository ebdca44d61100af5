package log_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/tempo/pkg/log"
)

func entries(cb *log.CircularBuffer) []string {
	out := []string{}
	for _, e := range cb.Entries() {
		out = append(out, string(e))
	}

	return out
}

func TestNewCircularBuffer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		capacity int
		want     int
	}{
		"positive": {capacity: 10, want: 10},
		"zero":     {capacity: 0, want: log.DefaultBufferCapacity},
		"negative": {capacity: -5, want: log.DefaultBufferCapacity},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cb := log.NewCircularBuffer(tc.capacity)
			assert.Equal(t, tc.want, cb.Capacity())
			assert.Zero(t, cb.Size())
			assert.False(t, cb.IsFull())
			assert.Nil(t, cb.Entries())
		})
	}
}

func TestCircularBuffer_Write(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(3)

	n, err := cb.Write([]byte("one"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = cb.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, cb.Size())

	for _, s := range []string{"two", "three"} {
		_, err = cb.Write([]byte(s))
		require.NoError(t, err)
	}

	assert.True(t, cb.IsFull())
	assert.Equal(t, []string{"one", "two", "three"}, entries(cb))

	_, err = cb.Write([]byte("four"))
	require.NoError(t, err)
	_, err = cb.Write([]byte("five"))
	require.NoError(t, err)

	assert.Equal(t, 3, cb.Size())
	assert.Equal(t, []string{"three", "four", "five"}, entries(cb))
}

func TestCircularBuffer_WriteCopies(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)

	p := []byte("abc")
	_, err := cb.Write(p)
	require.NoError(t, err)

	p[0] = 'x'
	assert.Equal(t, []string{"abc"}, entries(cb))

	got := cb.Entries()
	got[0][0] = 'y'
	assert.Equal(t, []string{"abc"}, entries(cb))
}

func TestCircularBuffer_Clear(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)
	for i := range 5 {
		_, err := cb.Write([]byte(strconv.Itoa(i)))
		require.NoError(t, err)
	}

	cb.Clear()
	assert.Zero(t, cb.Size())
	assert.False(t, cb.IsFull())
	assert.Nil(t, cb.Entries())

	_, err := cb.Write([]byte("after"))
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, entries(cb))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestCircularBuffer_WriteTo(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)
	for _, s := range []string{"a\n", "b\n", "c\n"} {
		_, err := cb.Write([]byte(s))
		require.NoError(t, err)
	}

	var buf bytes.Buffer

	n, err := cb.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "b\nc\n", buf.String())

	_, err = cb.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestCircularBuffer_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(50)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			for j := range 20 {
				_, err := cb.Write([]byte(strconv.Itoa(i*100 + j)))
				assert.NoError(t, err)
				cb.Entries()
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 50, cb.Size())
	assert.True(t, cb.IsFull())
}

func TestCircularBuffer_AsHandlerOutput(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(10)
	logger := slog.New(slog.NewTextHandler(cb, nil))

	logger.Info("first")
	logger.Warn("second")

	got := entries(cb)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "msg=first")
	assert.Contains(t, got[1], "msg=second")
}
