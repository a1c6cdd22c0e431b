package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/viewmodel"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) routines(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	routines, err := api.Routines(ctx, h.svc, api.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, routines)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := api.Sessions(ctx, h.svc, viewmodel.SessionPageSize)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, sessions)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
