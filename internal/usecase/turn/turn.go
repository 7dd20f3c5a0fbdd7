package turn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"turnserver/internal/domain/turn"
	"turnserver/internal/engine"
	errs "turnserver/internal/errors"
	"turnserver/internal/utils"
)

type TurnRecorder interface {
	RecordTurn(ctx context.Context, rec turn.Record) error
}

// Recorders fans a record out to every recorder and joins their errors. A
// panicking recorder is reported as an error and does not stop the others.
type Recorders []TurnRecorder

func (rs Recorders) RecordTurn(ctx context.Context, rec turn.Record) error {
	var all []error
	for _, r := range rs {
		if err := safeRecord(ctx, r, rec); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

type TurnUseCase struct {
	engine   engine.Engine
	recorder TurnRecorder
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewTurnUseCase(e engine.Engine, log *zap.SugaredLogger, recorders ...TurnRecorder) *TurnUseCase {
	return &TurnUseCase{
		engine:   e,
		recorder: Recorders(recorders),
		log:      log,
		now:      time.Now,
	}
}

// Decode parses a raw request body into the opaque turn input.
func Decode(raw []byte) (turn.Input, error) {
	var in turn.Input
	if err := utils.DecodeJSONObject(raw, &in); err != nil {
		return nil, err
	}
	return in, nil
}

// Encode renders the wire form of a response.
func Encode(resp turn.ActionResponse) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode turn response: %w", err)
	}
	return data, nil
}

// PlayTurn decodes raw, runs the engine and returns the encoded response.
// Any error means the turn was not computed.
func (u *TurnUseCase) PlayTurn(ctx context.Context, raw []byte) ([]byte, error) {
	rec := turn.Record{ID: uuid.NewString(), ReceivedAt: u.now()}

	out, err := u.playTurn(ctx, raw, &rec)

	rec.Duration = u.now().Sub(rec.ReceivedAt)
	if err != nil {
		rec.Err = err.Error()
		u.log.Errorw("turn failed", "turn_id", rec.ID, "kind", errs.KindOf(err), "error", err)
	} else {
		u.log.Debugw("turn computed", "turn_id", rec.ID, "actions", rec.Response.Len(), "duration", rec.Duration)
	}

	if recErr := safeRecord(context.WithoutCancel(ctx), u.recorder, rec); recErr != nil {
		u.log.Warnw("failed to record turn", "turn_id", rec.ID, "error", recErr)
	}
	return out, err
}

func (u *TurnUseCase) playTurn(ctx context.Context, raw []byte, rec *turn.Record) ([]byte, error) {
	in, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	rec.Input = in

	resp, err := engine.Invoke(ctx, u.engine, in)
	if err != nil {
		return nil, err
	}
	rec.Response = &resp

	return Encode(resp)
}
