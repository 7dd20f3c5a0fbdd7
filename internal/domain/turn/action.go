package turn

import "encoding/json"

// Action is one planned act of a single unit. A non-empty Error reports a
// problem with this action only; the rest of the response stays valid.
type Action struct {
	Action string   `json:"action"`
	Target Position `json:"target"`
	Error  string   `json:"error"`
}

func NewAction(kind string, target Position) Action {
	return Action{Action: kind, Target: target}
}

// FailedAction builds an action carrying a per-unit error.
func FailedAction(kind string, target Position, err error) Action {
	a := Action{Action: kind, Target: target}
	if err != nil {
		a.Error = err.Error()
	}
	return a
}

func (a Action) ToMap() map[string]any {
	return map[string]any{
		"action": a.Action,
		"target": a.Target.ToMap(),
		"error":  a.Error,
	}
}

// ActionResponse is the ordered list of actions computed for one turn.
// Order is the order the caller applies them in.
type ActionResponse struct {
	UnitActions []Action `json:"unit_action"`
}

func NewActionResponse(actions ...Action) ActionResponse {
	owned := make([]Action, len(actions))
	copy(owned, actions)
	return ActionResponse{UnitActions: owned}
}

func (r ActionResponse) ToMap() map[string]any {
	actions := make([]any, 0, len(r.UnitActions))
	for _, a := range r.UnitActions {
		actions = append(actions, a.ToMap())
	}
	return map[string]any{"unit_action": actions}
}

// MarshalJSON always emits unit_action as an array, never null.
func (r ActionResponse) MarshalJSON() ([]byte, error) {
	type wire ActionResponse
	out := wire(r)
	if out.UnitActions == nil {
		out.UnitActions = []Action{}
	}
	return json.Marshal(out)
}

func (r ActionResponse) Len() int {
	return len(r.UnitActions)
}

// HasErrors reports whether any action carries a per-unit error.
func (r ActionResponse) HasErrors() bool {
	for _, a := range r.UnitActions {
		if a.Error != "" {
			return true
		}
	}
	return false
}
