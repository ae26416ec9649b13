package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/puzzlebox/internal/puzzle"
	"github.com/louisbranch/puzzlebox/internal/puzzle/session"
)

// tracer records spans for MCP tool invocations. Spans are no-ops unless
// tracing is enabled at startup.
var tracer = otel.Tracer("github.com/louisbranch/puzzlebox/internal/services/mcp/domain")

// defaultStateSentinel is the reset-state value that requests the
// canonical initial configuration, alongside an omitted state.
var defaultStateSentinel = []byte(`"default"`)

// SimulatorInitInput represents the MCP tool input for creating a
// simulator session.
type SimulatorInitInput struct {
	SimulatorType string `json:"simulator_type" jsonschema:"puzzle kind (TowerOfHanoi or RiverCrossing)"`
	N             int    `json:"N" jsonschema:"size parameter defining the scale of the simulation"`
	K             *int   `json:"k,omitempty" jsonschema:"for RiverCrossing, the maximum number of boat passengers (default 3)"`
}

// SimulatorInitResult represents the MCP tool output for session creation.
type SimulatorInitResult struct {
	SessionID       string         `json:"session_id" jsonschema:"opaque session identifier"`
	SimulatorType   string         `json:"simulator_type" jsonschema:"puzzle kind"`
	SimulatorParams map[string]int `json:"simulator_params" jsonschema:"echoed construction parameters"`
}

// ExecuteMovesInput represents the MCP tool input for batch move execution.
type ExecuteMovesInput struct {
	SessionID string            `json:"session_id" jsonschema:"session identifier from simulator_init"`
	Moves     []json.RawMessage `json:"moves" jsonschema:"moves to execute in order; [disk, from_peg, to_peg] for TowerOfHanoi, entity name arrays for RiverCrossing"`
}

// MoveResult reports the outcome of one move within a batch.
type MoveResult struct {
	MoveIndex  int             `json:"move_index" jsonschema:"position of the move in the request"`
	Move       json.RawMessage `json:"move" jsonschema:"the move as submitted"`
	Successful bool            `json:"successful" jsonschema:"whether the move was applied"`
}

// ExecuteMovesResult represents the MCP tool output for batch execution.
// Execution halts at the first failing move; unattempted moves have no
// entry in MoveResults.
type ExecuteMovesResult struct {
	MoveResults        []MoveResult    `json:"move_results" jsonschema:"per-move outcomes up to and including the first failure"`
	FinalState         json.RawMessage `json:"final_state" jsonschema:"state snapshot after execution stopped"`
	GoalReached        bool            `json:"goal_reached" jsonschema:"whether the puzzle goal is reached"`
	AllMovesSuccessful bool            `json:"all_moves_successful" jsonschema:"whether every submitted move was applied"`
}

// ResetInput represents the MCP tool input for resetting a session.
type ResetInput struct {
	SessionID string          `json:"session_id" jsonschema:"session identifier from simulator_init"`
	State     json.RawMessage `json:"state,omitempty" jsonschema:"optional explicit state; omit or pass \"default\" for the initial configuration"`
}

// ResetResult represents the MCP tool output for a reset.
type ResetResult struct {
	ResetSuccessful bool            `json:"reset_successful" jsonschema:"whether the reset was applied"`
	CurrentState    json.RawMessage `json:"current_state" jsonschema:"state snapshot after the reset"`
}

// GetStateInput represents the MCP tool input for inspecting a session.
type GetStateInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier from simulator_init"`
}

// GetStateResult represents the MCP tool output for inspection.
type GetStateResult struct {
	SimulatorType   string          `json:"simulator_type" jsonschema:"puzzle kind"`
	SimulatorParams map[string]int  `json:"simulator_params" jsonschema:"construction parameters"`
	State           json.RawMessage `json:"state" jsonschema:"current state snapshot"`
	GoalReached     bool            `json:"goal_reached" jsonschema:"whether the puzzle goal is reached"`
}

// DeleteInput represents the MCP tool input for deleting a session.
type DeleteInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier from simulator_init"`
}

// DeleteResult represents the MCP tool output for deletion.
type DeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether the session existed and was removed"`
}

// SimulatorInitTool defines the MCP tool schema for creating sessions.
func SimulatorInitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulator_init",
		Description: "Initializes a puzzle simulator session (TowerOfHanoi or RiverCrossing) and returns its session id",
	}
}

// ExecuteMovesTool defines the MCP tool schema for batch move execution.
func ExecuteMovesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulator_execute_moves",
		Description: "Executes a list of moves in order, stopping at the first move that is rejected",
	}
}

// ResetTool defines the MCP tool schema for resets.
func ResetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulator_reset",
		Description: "Resets a simulator to its initial configuration or to an explicit state",
	}
}

// GetStateTool defines the MCP tool schema for inspection.
func GetStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulator_get_state",
		Description: "Returns the simulator's kind, parameters, current state, and goal status",
	}
}

// DeleteTool defines the MCP tool schema for deleting sessions.
func DeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulator_delete",
		Description: "Deletes a simulator session",
	}
}

// SimulatorInitHandler creates a session for the requested puzzle kind.
func SimulatorInitHandler(registry *session.Registry) mcp.ToolHandlerFor[SimulatorInitInput, SimulatorInitResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SimulatorInitInput) (*mcp.CallToolResult, SimulatorInitResult, error) {
		_, span := tracer.Start(ctx, "simulator_init")
		defer span.End()
		span.SetAttributes(attribute.String("simulator.type", input.SimulatorType), attribute.Int("simulator.n", input.N))

		kind, err := puzzle.ParseKind(input.SimulatorType)
		if err != nil {
			return nil, SimulatorInitResult{}, fmt.Errorf("invalid simulator type %q: must be TowerOfHanoi or RiverCrossing", input.SimulatorType)
		}
		if input.N < 1 {
			return nil, SimulatorInitResult{}, fmt.Errorf("N must be at least 1")
		}

		params := puzzle.Params{N: input.N}
		if input.K != nil {
			if *input.K < 1 {
				return nil, SimulatorInitResult{}, fmt.Errorf("k must be at least 1")
			}
			params.K = *input.K
		}

		created, err := registry.Create(kind, params)
		if err != nil {
			return nil, SimulatorInitResult{}, fmt.Errorf("create simulator: %w", err)
		}

		result := SimulatorInitResult{
			SessionID:       created.ID,
			SimulatorType:   string(created.Engine.Kind()),
			SimulatorParams: paramsPayload(created.Engine),
		}
		return nil, result, nil
	}
}

// ExecuteMovesHandler runs a batch of moves against a session's engine.
// A move that fails to parse counts as an unsuccessful move, not a tool
// error, and halts the batch like any other rejection.
func ExecuteMovesHandler(registry *session.Registry) mcp.ToolHandlerFor[ExecuteMovesInput, ExecuteMovesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ExecuteMovesInput) (*mcp.CallToolResult, ExecuteMovesResult, error) {
		_, span := tracer.Start(ctx, "simulator_execute_moves")
		defer span.End()
		span.SetAttributes(attribute.String("session.id", input.SessionID), attribute.Int("moves.count", len(input.Moves)))

		sess, ok := registry.Get(input.SessionID)
		if !ok {
			return nil, ExecuteMovesResult{}, fmt.Errorf("session %q not found", input.SessionID)
		}
		engine := sess.Engine

		allSuccessful := true
		results := make([]MoveResult, 0, len(input.Moves))
		for i, raw := range input.Moves {
			successful := false
			if move, err := decodeMove(engine.Kind(), raw); err == nil {
				successful = engine.ExecuteMove(move)
			}
			results = append(results, MoveResult{MoveIndex: i, Move: raw, Successful: successful})
			if !successful {
				allSuccessful = false
				break
			}
		}

		finalState, err := encodeState(engine.State())
		if err != nil {
			return nil, ExecuteMovesResult{}, fmt.Errorf("encode final state: %w", err)
		}

		result := ExecuteMovesResult{
			MoveResults:        results,
			FinalState:         finalState,
			GoalReached:        engine.IsGoalReached(),
			AllMovesSuccessful: allSuccessful,
		}
		return nil, result, nil
	}
}

// ResetHandler resets a session's engine to its initial configuration or
// to an explicit state. A rejected state leaves the engine unchanged and
// surfaces a tool error.
func ResetHandler(registry *session.Registry) mcp.ToolHandlerFor[ResetInput, ResetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ResetInput) (*mcp.CallToolResult, ResetResult, error) {
		_, span := tracer.Start(ctx, "simulator_reset")
		defer span.End()
		span.SetAttributes(attribute.String("session.id", input.SessionID))

		sess, ok := registry.Get(input.SessionID)
		if !ok {
			return nil, ResetResult{}, fmt.Errorf("session %q not found", input.SessionID)
		}
		engine := sess.Engine

		var target puzzle.State
		if !isDefaultState(input.State) {
			decoded, err := decodeState(engine.Kind(), input.State)
			if err != nil {
				return nil, ResetResult{}, fmt.Errorf("%w: %v", puzzle.ErrInvalidState, err)
			}
			target = decoded
		}

		if err := engine.Reset(target); err != nil {
			return nil, ResetResult{}, err
		}

		currentState, err := encodeState(engine.State())
		if err != nil {
			return nil, ResetResult{}, fmt.Errorf("encode state: %w", err)
		}
		return nil, ResetResult{ResetSuccessful: true, CurrentState: currentState}, nil
	}
}

// GetStateHandler returns a session's kind, parameters, state snapshot,
// and goal status.
func GetStateHandler(registry *session.Registry) mcp.ToolHandlerFor[GetStateInput, GetStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetStateInput) (*mcp.CallToolResult, GetStateResult, error) {
		_, span := tracer.Start(ctx, "simulator_get_state")
		defer span.End()
		span.SetAttributes(attribute.String("session.id", input.SessionID))

		sess, ok := registry.Get(input.SessionID)
		if !ok {
			return nil, GetStateResult{}, fmt.Errorf("session %q not found", input.SessionID)
		}
		engine := sess.Engine

		state, err := encodeState(engine.State())
		if err != nil {
			return nil, GetStateResult{}, fmt.Errorf("encode state: %w", err)
		}

		result := GetStateResult{
			SimulatorType:   string(engine.Kind()),
			SimulatorParams: paramsPayload(engine),
			State:           state,
			GoalReached:     engine.IsGoalReached(),
		}
		return nil, result, nil
	}
}

// DeleteHandler removes a session from the registry.
func DeleteHandler(registry *session.Registry) mcp.ToolHandlerFor[DeleteInput, DeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteResult, error) {
		_, span := tracer.Start(ctx, "simulator_delete")
		defer span.End()
		span.SetAttributes(attribute.String("session.id", input.SessionID))

		return nil, DeleteResult{Deleted: registry.Delete(input.SessionID)}, nil
	}
}

// isDefaultState reports whether the reset state requests the canonical
// initial configuration: omitted, JSON null, or the "default" sentinel.
func isDefaultState(raw json.RawMessage) bool {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true
	}
	return bytes.Equal(bytes.TrimSpace(raw), defaultStateSentinel)
}
