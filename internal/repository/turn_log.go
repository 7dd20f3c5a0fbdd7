package repo

import (
	"context"

	"go.uber.org/zap"

	"turnserver/internal/domain/turn"
)

// LogRecorder writes the decoded input and the computed response of every
// turn to the logger.
type LogRecorder struct {
	log *zap.SugaredLogger
}

func NewLogRecorder(log *zap.SugaredLogger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (l *LogRecorder) RecordTurn(_ context.Context, rec turn.Record) error {
	if rec.Input != nil {
		l.log.Infow("turn input", "turn_id", rec.ID, "input", rec.Input)
	}
	if rec.Failed() {
		l.log.Infow("turn error", "turn_id", rec.ID, "error", rec.Err, "duration", rec.Duration)
		return nil
	}
	if rec.Response != nil {
		l.log.Infow("turn response", "turn_id", rec.ID, "response", rec.Response.ToMap(), "duration", rec.Duration)
	}
	return nil
}
