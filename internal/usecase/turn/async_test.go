package turn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnserver/internal/domain/turn"
	errs "turnserver/internal/errors"
)

func TestAsyncRecorder_SlowStoreDoesNotDelayTurn(t *testing.T) {
	log, _ := newObservedLogger()
	release := make(chan struct{})
	delivered := make(chan turn.Record, 1)
	slow := recorderFunc(func(ctx context.Context, rec turn.Record) error {
		<-release
		delivered <- rec
		return nil
	})

	async := NewAsyncRecorder(slow, log, 4)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		async.Run(ctx)
		close(stopped)
	}()

	uc := NewTurnUseCase(moveEngine(), log, async)
	start := time.Now()
	out, err := uc.PlayTurn(context.Background(), []byte(`{}`))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Contains(t, string(out), `"action":"move"`)
	assert.Less(t, elapsed, 500*time.Millisecond)

	close(release)
	select {
	case rec := <-delivered:
		assert.False(t, rec.Failed())
	case <-time.After(2 * time.Second):
		t.Fatal("record was not delivered")
	}

	cancel()
	<-stopped
}

func TestAsyncRecorder_DropsWhenFull(t *testing.T) {
	log, _ := newObservedLogger()
	async := NewAsyncRecorder(&captureRecorder{}, log, 1)

	require.NoError(t, async.RecordTurn(context.Background(), turn.Record{ID: "a"}))
	err := async.RecordTurn(context.Background(), turn.Record{ID: "b"})
	assert.ErrorIs(t, err, errs.ErrRecordDropped)
}

func TestAsyncRecorder_FlushesOnStop(t *testing.T) {
	log, _ := newObservedLogger()
	capture := &captureRecorder{}
	async := NewAsyncRecorder(capture, log, 4)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, async.RecordTurn(context.Background(), turn.Record{ID: id}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	async.Run(ctx)

	require.Len(t, capture.records, 3)
	assert.Equal(t, "a", capture.records[0].ID)
	assert.Equal(t, "c", capture.records[2].ID)

	err := async.RecordTurn(context.Background(), turn.Record{ID: "d"})
	assert.ErrorIs(t, err, errs.ErrRecordDropped)
}

func TestAsyncRecorder_RecoversPanic(t *testing.T) {
	log, logs := newObservedLogger()
	panicking := recorderFunc(func(ctx context.Context, rec turn.Record) error {
		panic("nil collection")
	})
	async := NewAsyncRecorder(panicking, log, 1)
	require.NoError(t, async.RecordTurn(context.Background(), turn.Record{ID: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	async.Run(ctx)

	entries := logs.FilterMessage("failed to record turn").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "nil collection")
}
