package turn

import "math"

// Position is a board coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo returns the Euclidean distance between p and other.
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X) - float64(other.X)
	dy := float64(p.Y) - float64(other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Position) ToMap() map[string]any {
	return map[string]any{
		"x": p.X,
		"y": p.Y,
	}
}
