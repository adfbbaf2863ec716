package batch

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/esfront/pkg/source"
)

func TestParseAllKeepsInputOrder(t *testing.T) {
	var sources []*source.SourceFile
	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("var x%d = async (a) => a + %d;", i, i)
		if i%5 == 0 {
			content = "1 = 2"
		}
		sources = append(sources, source.NewSourceFile(fmt.Sprintf("f%d.js", i), "", content))
	}

	results, err := ParseAll(context.Background(), sources, false, Config{Workers: 4})
	require.NoError(t, err)
	require.Len(t, results, len(sources))

	for i, res := range results {
		require.NotNil(t, res, "result %d", i)
		assert.Equal(t, i, res.ID)
		assert.Same(t, sources[i], res.Source)
		if i%5 == 0 {
			assert.Error(t, res.Err, "source %d", i)
			assert.Nil(t, res.Script)
			continue
		}
		require.NoError(t, res.Err, "source %d", i)
		assert.Len(t, res.Script.Statements, 1)
		assert.NotNil(t, res.Interner)
	}
}

func TestParseAllStrict(t *testing.T) {
	sources := []*source.SourceFile{source.NewEvalSource("var public;")}

	results, err := ParseAll(context.Background(), sources, false, Config{Workers: 1})
	require.NoError(t, err)
	assert.NoError(t, results[0].Err)

	results, err = ParseAll(context.Background(), sources, true, Config{Workers: 1})
	require.NoError(t, err)
	assert.ErrorContains(t, results[0].Err, "unexpected identifier 'public' in strict mode")
}

func TestPoolLifecycle(t *testing.T) {
	pool := NewPool(Config{Workers: 2, ResultBuffer: 4})
	assert.Error(t, pool.Submit(&Job{Source: source.NewEvalSource("a")}), "submit before start")

	ctx := context.Background()
	require.NoError(t, pool.Start(ctx))
	assert.Error(t, pool.Start(ctx), "second start")

	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Submit(&Job{ID: i, Source: source.NewEvalSource("a + b")}))
	}
	var got int
	for got < 3 {
		res := <-pool.Results()
		assert.NoError(t, res.Err)
		got++
	}
	require.NoError(t, pool.Shutdown(ctx))
	assert.Error(t, pool.Shutdown(ctx), "second shutdown")
	assert.Error(t, pool.Submit(&Job{Source: source.NewEvalSource("a")}), "submit after shutdown")

	_, open := <-pool.Results()
	assert.False(t, open, "results should be closed")

	stats := pool.Stats()
	assert.Equal(t, 3, stats.TotalJobs)
	assert.Equal(t, 3, stats.CompletedJobs)
	assert.Equal(t, 0, stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 2, stats.WorkerCount)
}

func TestParseAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sources := []*source.SourceFile{source.NewEvalSource("a"), source.NewEvalSource("b")}

	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		results, err := ParseAll(ctx, sources, false, Config{Workers: 2})
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, results)
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, time.Second, 10*time.Millisecond, "goroutines leaked")
}

func TestShutdownCancelledClosesResults(t *testing.T) {
	pool := NewPool(Config{Workers: 2, ResultBuffer: 8})
	require.NoError(t, pool.Start(context.Background()))
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(&Job{ID: i, Source: source.NewEvalSource("x = y")}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Shutdown either finishes the queue or gives up; results close both ways.
	err := pool.Shutdown(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}

	drained := make(chan int)
	go func() {
		n := 0
		for range pool.Results() {
			n++
		}
		drained <- n
	}()
	select {
	case n := <-drained:
		assert.LessOrEqual(t, n, 4)
	case <-time.After(time.Second):
		t.Fatal("results channel was not closed")
	}
}
