package puzzle

import "fmt"

// defaultBoatCapacity is the boat capacity used when none is provided.
const defaultBoatCapacity = 3

// RiverCrossing is the actor/agent river crossing puzzle. N actors
// ("a_1".."a_N") and their N agents ("A_1".."A_N") start on side 0 with
// the boat and must all reach side 1. The boat carries at most k
// passengers and never crosses empty. No actor may share a side with
// another actor's agent unless their own agent is also there.
type RiverCrossing struct {
	n      int
	k      int
	actors []string
	agents []string

	boat      int
	positions map[string]int
}

// NewRiverCrossing creates an engine with all entities on side 0.
func NewRiverCrossing(n, k int) *RiverCrossing {
	r := &RiverCrossing{n: n, k: k}
	r.actors = make([]string, n)
	r.agents = make([]string, n)
	for i := 1; i <= n; i++ {
		r.actors[i-1] = fmt.Sprintf("a_%d", i)
		r.agents[i-1] = fmt.Sprintf("A_%d", i)
	}
	_ = r.Reset(nil)
	return r
}

// Kind returns KindRiverCrossing.
func (r *RiverCrossing) Kind() Kind { return KindRiverCrossing }

// Params returns the construction parameters, including boat capacity.
func (r *RiverCrossing) Params() Params { return Params{N: r.n, K: r.k} }

// State returns a copy of the boat side and entity positions.
func (r *RiverCrossing) State() State {
	return CrossingState{Boat: r.boat, Positions: copyPositions(r.positions)}
}

// Reset places the boat and every entity on side 0, or commits the
// provided state after validating it. A rejected state leaves the engine
// unchanged and returns ErrInvalidState.
func (r *RiverCrossing) Reset(state State) error {
	if state == nil {
		positions := make(map[string]int, 2*r.n)
		for _, actor := range r.actors {
			positions[actor] = 0
		}
		for _, agent := range r.agents {
			positions[agent] = 0
		}
		r.boat = 0
		r.positions = positions
		return nil
	}

	target, ok := state.(CrossingState)
	if !ok {
		return fmt.Errorf("%w: expected a river crossing state", ErrInvalidState)
	}
	if !r.validState(target.Boat, target.Positions) {
		return fmt.Errorf("%w: not a valid river crossing state for N=%d", ErrInvalidState, r.n)
	}

	r.boat = target.Boat
	r.positions = copyPositions(target.Positions)
	return nil
}

// IsValidState reports whether the boat side is 0 or 1, the positions map
// covers exactly the 2N known entities with sides 0 or 1, and no actor
// shares a side with a foreign agent without their own agent present.
func (r *RiverCrossing) IsValidState() bool {
	return r.validState(r.boat, r.positions)
}

// IsValidMove reports whether the move names between 1 and k distinct
// known entities, all on the boat's side. Moves are never valid from an
// invalid state. A mechanically valid move can still fail ExecuteMove if
// the far side would violate the chaperone rule.
func (r *RiverCrossing) IsValidMove(move Move) bool {
	if !r.IsValidState() {
		return false
	}

	m, ok := move.(CrossingMove)
	if !ok {
		return false
	}
	if len(m) == 0 || len(m) > r.k {
		return false
	}

	seen := make(map[string]bool, len(m))
	for _, passenger := range m {
		pos, known := r.positions[passenger]
		if !known {
			return false
		}
		if seen[passenger] {
			return false
		}
		seen[passenger] = true
		if pos != r.boat {
			return false
		}
	}
	return true
}

// ExecuteMove ferries the passengers to the opposite side and reports
// success. The move is applied only when it is valid and the resulting
// state is also valid; otherwise the state is untouched.
func (r *RiverCrossing) ExecuteMove(move Move) bool {
	if !r.IsValidMove(move) {
		return false
	}

	m := move.(CrossingMove)
	newBoat := 1 - r.boat
	newPositions := copyPositions(r.positions)
	for _, passenger := range m {
		newPositions[passenger] = newBoat
	}

	if !r.validState(newBoat, newPositions) {
		return false
	}

	r.boat = newBoat
	r.positions = newPositions
	return true
}

// IsGoalReached reports whether every entity is on side 1.
func (r *RiverCrossing) IsGoalReached() bool {
	if len(r.positions) != 2*r.n {
		return false
	}
	for _, pos := range r.positions {
		if pos != 1 {
			return false
		}
	}
	return true
}

func (r *RiverCrossing) validState(boat int, positions map[string]int) bool {
	if boat != 0 && boat != 1 {
		return false
	}

	if len(positions) != 2*r.n {
		return false
	}
	for _, actor := range r.actors {
		if _, ok := positions[actor]; !ok {
			return false
		}
	}
	for _, agent := range r.agents {
		if _, ok := positions[agent]; !ok {
			return false
		}
	}
	for _, pos := range positions {
		if pos != 0 && pos != 1 {
			return false
		}
	}

	// No actor may be with a foreign agent unless their own agent is on
	// the same side.
	for i, actor := range r.actors {
		actorPos := positions[actor]
		ownAgentPos := positions[r.agents[i]]
		for j, agent := range r.agents {
			if i == j {
				continue
			}
			if positions[agent] == actorPos && ownAgentPos != actorPos {
				return false
			}
		}
	}
	return true
}

// copyPositions copies an entity position map.
func copyPositions(positions map[string]int) map[string]int {
	out := make(map[string]int, len(positions))
	for entity, pos := range positions {
		out[entity] = pos
	}
	return out
}
