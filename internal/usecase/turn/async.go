package turn

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"turnserver/internal/domain/turn"
	errs "turnserver/internal/errors"
)

const DefaultRecordQueueSize = 256

// AsyncRecorder hands records to next from a background goroutine so a slow
// store never holds up a turn. When the queue is full the record is dropped.
type AsyncRecorder struct {
	next  TurnRecorder
	log   *zap.SugaredLogger
	queue chan turn.Record
	done  chan struct{}
}

func NewAsyncRecorder(next TurnRecorder, log *zap.SugaredLogger, size int) *AsyncRecorder {
	if size <= 0 {
		size = DefaultRecordQueueSize
	}
	return &AsyncRecorder{
		next:  next,
		log:   log,
		queue: make(chan turn.Record, size),
		done:  make(chan struct{}),
	}
}

// RecordTurn enqueues rec and returns immediately.
func (a *AsyncRecorder) RecordTurn(_ context.Context, rec turn.Record) error {
	select {
	case <-a.done:
		return fmt.Errorf("%w: turn %s: recorder stopped", errs.ErrRecordDropped, rec.ID)
	default:
	}

	select {
	case a.queue <- rec:
		return nil
	default:
		return fmt.Errorf("%w: turn %s: queue full", errs.ErrRecordDropped, rec.ID)
	}
}

// Run delivers queued records until ctx is cancelled, then flushes what is
// already queued.
func (a *AsyncRecorder) Run(ctx context.Context) {
	defer close(a.done)

	for {
		select {
		case <-ctx.Done():
			a.flush()
			return
		case rec := <-a.queue:
			a.deliver(rec)
		}
	}
}

func (a *AsyncRecorder) flush() {
	for {
		select {
		case rec := <-a.queue:
			a.deliver(rec)
		default:
			return
		}
	}
}

func (a *AsyncRecorder) deliver(rec turn.Record) {
	if err := safeRecord(context.Background(), a.next, rec); err != nil {
		a.log.Warnw("failed to record turn", "turn_id", rec.ID, "error", err)
	}
}

// safeRecord turns a recorder panic into an error.
func safeRecord(ctx context.Context, r TurnRecorder, rec turn.Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("turn recorder panicked: %v", p)
		}
	}()
	return r.RecordTurn(ctx, rec)
}
