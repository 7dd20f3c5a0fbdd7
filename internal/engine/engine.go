// Package engine defines the turn engine contract: a pure function from the
// decoded game state of one turn to the actions to play. Engines must not do
// I/O and must return promptly, they run inside the request.
package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"turnserver/internal/domain/turn"
	errs "turnserver/internal/errors"
)

type Engine interface {
	TurnActions(ctx context.Context, in turn.Input) (turn.ActionResponse, error)
}

// Func adapts a plain function to Engine.
type Func func(ctx context.Context, in turn.Input) (turn.ActionResponse, error)

func (f Func) TurnActions(ctx context.Context, in turn.Input) (turn.ActionResponse, error) {
	return f(ctx, in)
}

// Invoke runs e and converts both returned errors and panics into errors
// wrapping ErrEngineFailed or ErrEnginePanic.
func Invoke(ctx context.Context, e Engine, in turn.Input) (resp turn.ActionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = turn.ActionResponse{}
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	resp, err = e.TurnActions(ctx, in)
	if err != nil {
		return turn.ActionResponse{}, fmt.Errorf("%w: %w", errs.ErrEngineFailed, err)
	}
	return resp, nil
}

type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", errs.ErrEnginePanic, p.Value)
}

func (p *PanicError) Unwrap() error {
	return errs.ErrEnginePanic
}
