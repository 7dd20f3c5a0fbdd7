// Package skirmish is the default turn engine for the arena schema: close in
// on the nearest enemy and strike it, healers patch up wounded allies first.
package skirmish

import (
	"context"
	"fmt"

	"turnserver/internal/domain/battle"
	"turnserver/internal/domain/turn"
)

const Name = "skirmish"

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) TurnActions(_ context.Context, in turn.Input) (turn.ActionResponse, error) {
	ti, err := battle.Parse(in)
	if err != nil {
		return turn.ActionResponse{}, err
	}
	state := *ti.State

	unit, err := state.FindUnit(ti.CurrentUnitID)
	if err != nil {
		return turn.NewActionResponse(turn.FailedAction(battle.Hold, turn.Position{}, err)), nil
	}

	caps, ok := state.CapabilitiesOf(unit.Type)
	if !ok {
		return turn.NewActionResponse(
			turn.FailedAction(battle.Hold, unit.Position, fmt.Errorf("unknown unit type %q", unit.Type)),
		), nil
	}

	if caps.Skill1 != nil && caps.Skill1.Effect == battle.EffectHeal {
		if ally, ok := mostWounded(unit.Position, state.Allies(unit), caps.Skill1.Range); ok {
			return turn.NewActionResponse(turn.NewAction(battle.Skill1, ally.Position)), nil
		}
	}

	enemy, ok := battle.Nearest(unit.Position, state.Enemies(unit))
	if !ok {
		return turn.NewActionResponse(turn.NewAction(battle.Hold, unit.Position)), nil
	}

	var actions []turn.Action
	pos := unit.Position
	if !battle.InRange(pos, enemy.Position, strikeRange(caps)) {
		if dest := stepToward(state, pos, enemy.Position, caps.MoveDistance); dest != pos {
			actions = append(actions, turn.NewAction(battle.Move, dest))
			pos = dest
		}
	}

	switch {
	case caps.Skill1 != nil && caps.Skill1.Effect == battle.EffectRange && battle.InRange(pos, enemy.Position, caps.Skill1.Range):
		actions = append(actions, turn.NewAction(battle.Skill1, enemy.Position))
	case battle.InRange(pos, enemy.Position, caps.Attack1.Range):
		actions = append(actions, turn.NewAction(battle.Attack1, enemy.Position))
	}

	if len(actions) == 0 {
		actions = append(actions, turn.NewAction(battle.Hold, pos))
	}
	return turn.NewActionResponse(actions...), nil
}

func strikeRange(caps battle.Capabilities) int {
	r := caps.Attack1.Range
	if caps.Skill1 != nil && caps.Skill1.Effect == battle.EffectRange && caps.Skill1.Range > r {
		r = caps.Skill1.Range
	}
	return r
}

func mostWounded(from turn.Position, allies []battle.Unit, reach int) (battle.Unit, bool) {
	var (
		best  battle.Unit
		ratio float64
		found bool
	)
	for _, a := range allies {
		if !a.IsWounded() || a.MaxHP <= 0 || !battle.InRange(from, a.Position, reach) {
			continue
		}
		r := float64(a.HP) / float64(a.MaxHP)
		if !found || r < ratio || (r == ratio && a.ID < best.ID) {
			best, ratio, found = a, r, true
		}
	}
	return best, found
}

// stepToward picks the free in-bounds square within reach of from that is
// closest to target. Ties prefer the shorter step, then lower y, then lower x.
// It returns from when no square improves on staying put.
func stepToward(state battle.GameState, from, target turn.Position, reach int) turn.Position {
	best := from
	bestD := from.DistanceTo(target)
	bestStep := 0.0

	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			p := turn.Position{X: from.X + dx, Y: from.Y + dy}
			step := from.DistanceTo(p)
			if p == from || step > float64(reach) || !state.InBounds(p) || state.Occupied(p) {
				continue
			}
			d := p.DistanceTo(target)
			if d < bestD || (d == bestD && best != from && better(p, step, best, bestStep)) {
				best, bestD, bestStep = p, d, step
			}
		}
	}
	return best
}

func better(p turn.Position, step float64, q turn.Position, qStep float64) bool {
	if step != qStep {
		return step < qStep
	}
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}
