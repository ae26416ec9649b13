// Package puzzle implements the rules engines for the simulated puzzles.
//
// An Engine owns the full state of one puzzle instance and enforces its
// rules: it validates states, validates moves, applies moves, and reports
// goal attainment. Engines are not safe for concurrent use; callers must
// serialize access to a single instance.
package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind indicates an unrecognized puzzle kind tag.
	ErrUnknownKind = errors.New("unknown puzzle kind")
	// ErrInvalidSize indicates a size parameter below the minimum of 1.
	ErrInvalidSize = errors.New("size parameter must be at least 1")
	// ErrInvalidState indicates a reset target that fails validation.
	// The engine state is left unchanged when this is returned.
	ErrInvalidState = errors.New("invalid puzzle state")
)

// Kind identifies a puzzle variant.
type Kind string

const (
	// KindTowerOfHanoi is the three-peg disk relocation puzzle.
	KindTowerOfHanoi Kind = "tower_of_hanoi"
	// KindRiverCrossing is the actor/agent boat crossing puzzle.
	KindRiverCrossing Kind = "river_crossing"
)

// ParseKind resolves a caller-supplied kind tag. Tags are matched
// case-insensitively and with or without underscores, so both
// "TowerOfHanoi" and "tower_of_hanoi" resolve to KindTowerOfHanoi.
func ParseKind(tag string) (Kind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", ""))
	switch normalized {
	case "towerofhanoi":
		return KindTowerOfHanoi, nil
	case "rivercrossing":
		return KindRiverCrossing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}
}

// Params holds engine construction parameters. N is the puzzle size for
// both kinds; K is the boat capacity and applies to river crossing only,
// defaulting to 3 when zero.
type Params struct {
	N int
	K int
}

// Move is a puzzle move. Concrete types are HanoiMove and CrossingMove;
// an engine treats a move of the wrong concrete type as invalid rather
// than failing.
type Move interface {
	isMove()
}

// HanoiMove moves the named disk from one peg to another.
type HanoiMove struct {
	Disk int
	From int
	To   int
}

func (HanoiMove) isMove() {}

// CrossingMove ferries the named entities across the river. Every entry
// must be a known actor or agent currently on the boat's side.
type CrossingMove []string

func (CrossingMove) isMove() {}

// State is a puzzle state snapshot. Concrete types are HanoiState and
// CrossingState.
type State interface {
	isState()
}

// HanoiState lists the pegs left to right; within a peg the first element
// is the bottom disk. A valid state has exactly three pegs.
type HanoiState [][]int

func (HanoiState) isState() {}

// CrossingState records the boat side and every entity's side. Side 0 is
// the starting bank, side 1 the far bank.
type CrossingState struct {
	Boat      int
	Positions map[string]int
}

func (CrossingState) isState() {}

// Engine is the contract shared by all puzzle variants.
//
// Reset with a nil state restores the canonical initial configuration.
// Reset with an explicit state validates it first and commits only when
// valid; on rejection the prior state is retained and ErrInvalidState is
// returned.
//
// IsValidMove reports whether a move can be taken from the current state.
// ExecuteMove applies a move and reports success; a false return means
// the state was not mutated. For river crossing a move can pass
// IsValidMove yet fail ExecuteMove when the resulting state would break
// the chaperone rule; callers must treat the ExecuteMove result as
// authoritative.
type Engine interface {
	Kind() Kind
	Params() Params
	State() State
	Reset(state State) error
	IsValidState() bool
	IsValidMove(move Move) bool
	ExecuteMove(move Move) bool
	IsGoalReached() bool
}

// New constructs an engine for the given kind. K defaults to 3 for river
// crossing when unset. Returns ErrUnknownKind for unrecognized kinds and
// ErrInvalidSize when N or K is below 1.
func New(kind Kind, params Params) (Engine, error) {
	if params.N < 1 {
		return nil, fmt.Errorf("%w: N=%d", ErrInvalidSize, params.N)
	}

	switch kind {
	case KindTowerOfHanoi:
		return NewTowerOfHanoi(params.N), nil
	case KindRiverCrossing:
		k := params.K
		if k == 0 {
			k = defaultBoatCapacity
		}
		if k < 1 {
			return nil, fmt.Errorf("%w: k=%d", ErrInvalidSize, k)
		}
		return NewRiverCrossing(params.N, k), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
