package schedule

import "fmt"

// Grid is the fixed set of slots a session may start at.
type Grid struct {
	Start int // minutes past midnight of the first slot
	End   int // minutes past midnight of the last slot, inclusive
	Step  int
}

// DefaultGrid spans 08:30–20:30 on the half hour.
var DefaultGrid = Grid{Start: 8*60 + 30, End: 20*60 + 30, Step: 30}

// NewGrid builds a grid from "HH:MM" bounds.
func NewGrid(start, end string, step int) (Grid, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return Grid{}, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return Grid{}, err
	}
	if step <= 0 || e < s {
		return Grid{}, fmt.Errorf("invalid grid %s-%s every %d minutes", start, end, step)
	}
	return Grid{Start: s, End: e, Step: step}, nil
}

// Slots lists every slot on the grid in order.
func (g Grid) Slots() []string {
	if g.Step <= 0 {
		return nil
	}
	slots := make([]string, 0, (g.End-g.Start)/g.Step+1)
	for m := g.Start; m <= g.End; m += g.Step {
		slots = append(slots, FormatMinutes(m))
	}
	return slots
}

// Aligned reports whether clock lies on the grid.
func (g Grid) Aligned(clock string) bool {
	m, err := ToMinutes(clock)
	if err != nil || g.Step <= 0 {
		return false
	}
	return m >= g.Start && m <= g.End && (m-g.Start)%g.Step == 0
}
