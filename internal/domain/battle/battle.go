package battle

import (
	"fmt"

	"turnserver/internal/domain/turn"
	errs "turnserver/internal/errors"
)

const (
	Warrior = "warrior"
	Healer  = "healer"
	Mage    = "mage"
	Rogue   = "rogue"
)

const (
	Hold    = "hold"
	Move    = "move"
	Attack1 = "attack1"
	Skill1  = "skill1"
)

const (
	EffectHeal  = "heal"
	EffectRange = "range"
)

type Attack struct {
	Range  int `json:"range,omitempty"`
	Damage int `json:"damage,omitempty"`
}

type Skill struct {
	Effect string `json:"effect"`
	Range  int    `json:"range"`
	Value  int    `json:"value"`
	Name   string `json:"name"`
}

type MoveRule struct {
	Distance int `json:"distance,omitempty"`
}

// ActionMap is the per-type rule entry the referee sends in
// state.unit_action_map.
type ActionMap struct {
	Move    *MoveRule `json:"move,omitempty"`
	Hold    *MoveRule `json:"hold,omitempty"`
	Attack1 *Attack   `json:"attack1,omitempty"`
	Skill1  *Skill    `json:"skill1,omitempty"`
}

func (m ActionMap) Capabilities() Capabilities {
	var c Capabilities
	if m.Move != nil {
		c.MoveDistance = m.Move.Distance
	}
	if m.Attack1 != nil {
		c.Attack1 = *m.Attack1
	}
	if m.Skill1 != nil {
		skill := *m.Skill1
		c.Skill1 = &skill
	}
	return c
}

// Capabilities lists what a unit type may do in a single turn.
type Capabilities struct {
	MoveDistance int
	Attack1      Attack
	Skill1       *Skill
}

var catalogue = map[string]Capabilities{
	Warrior: {MoveDistance: 3, Attack1: Attack{Range: 1, Damage: 30}},
	Healer:  {MoveDistance: 2, Attack1: Attack{Range: 1, Damage: 10}, Skill1: &Skill{Effect: EffectHeal, Range: 5, Value: 30, Name: "heal"}},
	Mage:    {MoveDistance: 2, Attack1: Attack{Range: 1, Damage: 10}, Skill1: &Skill{Effect: EffectRange, Range: 4, Value: 40, Name: "firebolt"}},
	Rogue:   {MoveDistance: 4, Attack1: Attack{Range: 1, Damage: 25}},
}

// CapabilitiesOf returns the capabilities of a unit type. Unknown types can
// only hold.
func CapabilitiesOf(unitType string) (Capabilities, bool) {
	c, ok := catalogue[unitType]
	return c, ok
}

type Unit struct {
	ID         int           `json:"id"`
	Team       int           `json:"team"`
	Type       string        `json:"type"`
	Initiative int           `json:"initiative"`
	HP         int           `json:"hp"`
	MaxHP      int           `json:"maxHp"`
	Position   turn.Position `json:"position"`
}

func (u Unit) IsAlive() bool {
	return u.HP > 0
}

func (u Unit) IsWounded() bool {
	return u.IsAlive() && u.HP < u.MaxHP
}

type GameState struct {
	Turn          int                  `json:"turn"`
	Units         []Unit               `json:"units"`
	Width         int                  `json:"width"`
	Height        int                  `json:"height"`
	UnitActionMap map[string]ActionMap `json:"unit_action_map,omitempty"`
}

// TurnInput is the payload the arena referee posts for each unit turn.
type TurnInput struct {
	State         *GameState `json:"state"`
	CurrentUnitID int        `json:"current_unit_id"`
}

// Parse binds an opaque turn input to the arena schema.
func Parse(in turn.Input) (TurnInput, error) {
	if !in.Has("state") {
		return TurnInput{}, fmt.Errorf("%w: missing required key %q", errs.ErrInvalidTurnInput, "state")
	}

	var ti TurnInput
	if err := in.Bind(&ti); err != nil {
		return TurnInput{}, fmt.Errorf("%w: %v", errs.ErrInvalidTurnInput, err)
	}
	if ti.State == nil {
		return TurnInput{}, fmt.Errorf("%w: state is null", errs.ErrInvalidTurnInput)
	}
	if ti.State.Width <= 0 || ti.State.Height <= 0 {
		return TurnInput{}, fmt.Errorf("%w: board is %dx%d", errs.ErrInvalidTurnInput, ti.State.Width, ti.State.Height)
	}
	return ti, nil
}

// CapabilitiesOf prefers the rules sent with the state and falls back to the
// built-in catalogue for types the state does not describe.
func (s GameState) CapabilitiesOf(unitType string) (Capabilities, bool) {
	if m, ok := s.UnitActionMap[unitType]; ok {
		return m.Capabilities(), true
	}
	return CapabilitiesOf(unitType)
}

func (s GameState) FindUnit(id int) (Unit, error) {
	for _, u := range s.Units {
		if u.ID == id && u.IsAlive() {
			return u, nil
		}
	}
	return Unit{}, errs.ErrUnitNotFound
}

func (s GameState) InBounds(p turn.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

func (s GameState) Occupied(p turn.Position) bool {
	for _, u := range s.Units {
		if u.IsAlive() && u.Position == p {
			return true
		}
	}
	return false
}

func (s GameState) Enemies(of Unit) []Unit {
	return s.filter(func(u Unit) bool { return u.Team != of.Team })
}

func (s GameState) Allies(of Unit) []Unit {
	return s.filter(func(u Unit) bool { return u.Team == of.Team && u.ID != of.ID })
}

func (s GameState) filter(keep func(Unit) bool) []Unit {
	out := make([]Unit, 0, len(s.Units))
	for _, u := range s.Units {
		if u.IsAlive() && keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// Nearest returns the unit closest to from, ties broken by lower ID.
func Nearest(from turn.Position, units []Unit) (Unit, bool) {
	var (
		best  Unit
		bestD float64
		found bool
	)
	for _, u := range units {
		d := from.DistanceTo(u.Position)
		if !found || d < bestD || (d == bestD && u.ID < best.ID) {
			best, bestD, found = u, d, true
		}
	}
	return best, found
}

// InRange reports whether target is within r of from.
func InRange(from, target turn.Position, r int) bool {
	return from.DistanceTo(target) <= float64(r)
}
