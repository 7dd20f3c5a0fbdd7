package errors

import "errors"

var (
	ErrMalformedTurn        = errors.New("malformed turn input")
	ErrMissingContentLength = errors.New("missing Content-Length")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrEngineFailed         = errors.New("turn engine failed")
	ErrEnginePanic          = errors.New("turn engine panicked")
	ErrInvalidTurnInput     = errors.New("invalid turn input")
	ErrUnknownEngine        = errors.New("unknown turn engine")
	ErrUnitNotFound         = errors.New("unit not found")
	ErrRecordDropped        = errors.New("turn record dropped")
	ErrInternal             = errors.New("internal error")
)

type Kind string

const (
	KindProtocol Kind = "protocol"
	KindEngine   Kind = "engine"
	KindUnknown  Kind = "unknown"
)

func (k Kind) String() string {
	return string(k)
}

// KindOf classifies a turn failure for logging. Protocol errors come from
// reading or decoding the wire payload, engine errors from computing actions.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMalformedTurn),
		errors.Is(err, ErrMissingContentLength),
		errors.Is(err, ErrBodyTooLarge):
		return KindProtocol
	case errors.Is(err, ErrEngineFailed),
		errors.Is(err, ErrEnginePanic),
		errors.Is(err, ErrInvalidTurnInput):
		return KindEngine
	default:
		return KindUnknown
	}
}
