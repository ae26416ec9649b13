package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/puzzlebox/internal/puzzle/session"
)

// SessionListEntry describes one live simulator session. Entries carry
// only immutable metadata; engine state is read through the
// simulator_get_state tool, which serializes access per session.
type SessionListEntry struct {
	SessionID       string         `json:"session_id"`
	SimulatorType   string         `json:"simulator_type"`
	SimulatorParams map[string]int `json:"simulator_params"`
}

// SessionListPayload represents the MCP resource payload for the session
// listing.
type SessionListPayload struct {
	Sessions []SessionListEntry `json:"sessions"`
}

// SessionListResource defines the MCP resource for live sessions.
func SessionListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "simulator_sessions",
		Title:       "Simulator sessions",
		Description: "Readable listing of live simulator sessions",
		MIMEType:    "application/json",
		URI:         "sessions://list",
	}
}

// SessionListResourceHandler returns the live session listing.
func SessionListResourceHandler(registry *session.Registry) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if registry == nil {
			return nil, fmt.Errorf("session registry is not configured")
		}

		uri := SessionListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		payload := SessionListPayload{}
		for _, sess := range registry.List() {
			payload.Sessions = append(payload.Sessions, SessionListEntry{
				SessionID:       sess.ID,
				SimulatorType:   string(sess.Engine.Kind()),
				SimulatorParams: paramsPayload(sess.Engine),
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
