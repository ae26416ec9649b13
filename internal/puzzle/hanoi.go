package puzzle

import "fmt"

// TowerOfHanoi is the classic three-peg puzzle with N disks. Disks are
// numbered 1 (smallest) to N (largest); the initial configuration stacks
// all disks on peg 0 with N at the bottom, and the goal is to rebuild the
// stack on peg 2. A disk may never rest on a smaller disk.
type TowerOfHanoi struct {
	n    int
	pegs [][]int
}

// NewTowerOfHanoi creates an engine in the initial configuration.
func NewTowerOfHanoi(n int) *TowerOfHanoi {
	t := &TowerOfHanoi{n: n}
	_ = t.Reset(nil)
	return t
}

// Kind returns KindTowerOfHanoi.
func (t *TowerOfHanoi) Kind() Kind { return KindTowerOfHanoi }

// Params returns the construction parameters.
func (t *TowerOfHanoi) Params() Params { return Params{N: t.n} }

// State returns a copy of the current peg configuration.
func (t *TowerOfHanoi) State() State {
	return HanoiState(copyPegs(t.pegs))
}

// Reset restores the initial configuration, or commits the provided state
// after validating it. A rejected state leaves the engine unchanged and
// returns ErrInvalidState.
func (t *TowerOfHanoi) Reset(state State) error {
	if state == nil {
		pegs := make([][]int, 3)
		first := make([]int, 0, t.n)
		for disk := t.n; disk >= 1; disk-- {
			first = append(first, disk)
		}
		pegs[0] = first
		pegs[1] = []int{}
		pegs[2] = []int{}
		t.pegs = pegs
		return nil
	}

	target, ok := state.(HanoiState)
	if !ok {
		return fmt.Errorf("%w: expected a Tower of Hanoi state", ErrInvalidState)
	}
	if !validHanoiState(target, t.n) {
		return fmt.Errorf("%w: not a valid Tower of Hanoi state for N=%d", ErrInvalidState, t.n)
	}

	t.pegs = copyPegs(target)
	return nil
}

// IsValidState reports whether the current configuration has exactly
// three pegs, every disk strictly smaller than the disk below it, and the
// disks across all pegs forming exactly the set {1..N}.
func (t *TowerOfHanoi) IsValidState() bool {
	return validHanoiState(t.pegs, t.n)
}

// IsValidMove reports whether the move names the top disk of a non-empty
// source peg and targets a different peg whose top disk, if any, is
// larger. Moves are never valid from an invalid state.
func (t *TowerOfHanoi) IsValidMove(move Move) bool {
	if !t.IsValidState() {
		return false
	}

	m, ok := move.(HanoiMove)
	if !ok {
		return false
	}
	if m.From < 0 || m.From >= 3 || m.To < 0 || m.To >= 3 {
		return false
	}
	if m.From == m.To {
		return false
	}

	source := t.pegs[m.From]
	if len(source) == 0 {
		return false
	}
	if source[len(source)-1] != m.Disk {
		return false
	}

	dest := t.pegs[m.To]
	if len(dest) > 0 && m.Disk > dest[len(dest)-1] {
		return false
	}
	return true
}

// ExecuteMove applies the move and reports success. An invalid move
// leaves the state untouched. A valid move cannot produce an invalid
// state, so no post-move validation is needed.
func (t *TowerOfHanoi) ExecuteMove(move Move) bool {
	if !t.IsValidMove(move) {
		return false
	}

	m := move.(HanoiMove)
	source := t.pegs[m.From]
	disk := source[len(source)-1]
	t.pegs[m.From] = source[:len(source)-1]
	t.pegs[m.To] = append(t.pegs[m.To], disk)
	return true
}

// IsGoalReached reports whether all N disks sit on peg 2.
func (t *TowerOfHanoi) IsGoalReached() bool {
	if !t.IsValidState() {
		return false
	}
	return len(t.pegs[2]) == t.n
}

// validHanoiState checks peg count, disk positivity, per-peg ordering
// (bottom to top strictly descending), and that the disks across all pegs
// are exactly 1..n with no duplicates.
func validHanoiState(pegs [][]int, n int) bool {
	if len(pegs) != 3 {
		return false
	}

	seen := make([]bool, n+1)
	total := 0
	for _, peg := range pegs {
		for i, disk := range peg {
			if disk <= 0 {
				return false
			}
			if i+1 < len(peg) && disk < peg[i+1] {
				return false
			}
			if disk > n || seen[disk] {
				return false
			}
			seen[disk] = true
			total++
		}
	}
	return total == n
}

// copyPegs deep-copies a peg configuration so snapshots and committed
// resets never alias caller slices.
func copyPegs(pegs [][]int) [][]int {
	out := make([][]int, len(pegs))
	for i, peg := range pegs {
		out[i] = append([]int{}, peg...)
	}
	return out
}
