package turn

import "time"

// Record describes one request/response exchange for observers. Records are
// written after the response is computed and are never fed back to engines.
type Record struct {
	ID         string
	ReceivedAt time.Time
	Duration   time.Duration
	Input      Input
	Response   *ActionResponse
	Err        string
}

func (r Record) Failed() bool {
	return r.Err != ""
}

func (r Record) DurationMillis() float64 {
	return float64(r.Duration) / float64(time.Millisecond)
}

// Summary is the JSON form of a Record shown to observers.
type Summary struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"received_at"`
	DurationMs float64         `json:"duration_ms"`
	Input      Input           `json:"input,omitempty"`
	Response   *ActionResponse `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func (r Record) Summary() Summary {
	return Summary{
		ID:         r.ID,
		ReceivedAt: r.ReceivedAt.UTC(),
		DurationMs: r.DurationMillis(),
		Input:      r.Input,
		Response:   r.Response,
		Error:      r.Err,
	}
}
