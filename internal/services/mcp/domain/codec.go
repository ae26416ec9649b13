package domain

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/puzzlebox/internal/puzzle"
)

// decodeMove parses a caller-supplied JSON move into the canonical move
// type for the session's puzzle kind. Tower of Hanoi moves are
// [disk, from_peg, to_peg] integer triples; river crossing moves are
// arrays of entity names.
func decodeMove(kind puzzle.Kind, raw json.RawMessage) (puzzle.Move, error) {
	switch kind {
	case puzzle.KindTowerOfHanoi:
		var triple []int
		if err := json.Unmarshal(raw, &triple); err != nil {
			return nil, fmt.Errorf("parse move: %w", err)
		}
		if len(triple) != 3 {
			return nil, fmt.Errorf("parse move: expected [disk, from_peg, to_peg], got %d elements", len(triple))
		}
		return puzzle.HanoiMove{Disk: triple[0], From: triple[1], To: triple[2]}, nil
	case puzzle.KindRiverCrossing:
		var passengers []string
		if err := json.Unmarshal(raw, &passengers); err != nil {
			return nil, fmt.Errorf("parse move: %w", err)
		}
		return puzzle.CrossingMove(passengers), nil
	default:
		return nil, fmt.Errorf("%w: %q", puzzle.ErrUnknownKind, kind)
	}
}

// decodeState parses a caller-supplied JSON state into the canonical
// state type for the session's puzzle kind. Tower of Hanoi states are
// arrays of pegs; river crossing states are [boat_side, {entity: side}]
// pairs, matching the wire shape the state snapshots use.
func decodeState(kind puzzle.Kind, raw json.RawMessage) (puzzle.State, error) {
	switch kind {
	case puzzle.KindTowerOfHanoi:
		var pegs [][]int
		if err := json.Unmarshal(raw, &pegs); err != nil {
			return nil, fmt.Errorf("parse state: %w", err)
		}
		return puzzle.HanoiState(pegs), nil
	case puzzle.KindRiverCrossing:
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil {
			return nil, fmt.Errorf("parse state: %w", err)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("parse state: expected [boat_side, positions], got %d elements", len(pair))
		}
		var boat int
		if err := json.Unmarshal(pair[0], &boat); err != nil {
			return nil, fmt.Errorf("parse boat side: %w", err)
		}
		var positions map[string]int
		if err := json.Unmarshal(pair[1], &positions); err != nil {
			return nil, fmt.Errorf("parse entity positions: %w", err)
		}
		return puzzle.CrossingState{Boat: boat, Positions: positions}, nil
	default:
		return nil, fmt.Errorf("%w: %q", puzzle.ErrUnknownKind, kind)
	}
}

// encodeState serializes an engine state snapshot to its wire shape.
func encodeState(state puzzle.State) (json.RawMessage, error) {
	switch s := state.(type) {
	case puzzle.HanoiState:
		return json.Marshal([][]int(s))
	case puzzle.CrossingState:
		return json.Marshal([]any{s.Boat, s.Positions})
	default:
		return nil, fmt.Errorf("unsupported state type %T", state)
	}
}

// paramsPayload serializes engine params for tool results. The boat
// capacity is present only for river crossing.
func paramsPayload(engine puzzle.Engine) map[string]int {
	params := engine.Params()
	payload := map[string]int{"N": params.N}
	if engine.Kind() == puzzle.KindRiverCrossing {
		payload["k"] = params.K
	}
	return payload
}
