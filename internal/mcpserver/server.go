// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Wunjo journaling tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wunjo/internal/analytics"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/moodjournal"
)

// Server wraps the MCP server with Wunjo tools.
type Server struct {
	mcp  *server.MCPServer
	repo *moodjournal.Repository
}

// New creates a new MCP server with all Wunjo tools registered.
func New(repo *moodjournal.Repository) *Server {
	s := &Server{repo: repo}

	s.mcp = server.NewMCPServer(
		"Wunjo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("log_mood",
		mcp.WithDescription("Log a new mood entry. Read the mood catalog first via "+
			"the get_mood_catalog tool or the wunjo://mood-catalog resource."),
		mcp.WithString("mood", mcp.Required(), mcp.Description("Mood label (e.g. Happy, Calm, Neutral, Sad, Angry)")),
		mcp.WithNumber("intensity", mcp.Required(), mcp.Description("Intensity from 1 (mild) to 5 (strong)")),
		mcp.WithNumber("sleep", mcp.Description("Hours slept last night, 0-24 (default 0)")),
		mcp.WithString("tags", mcp.Description("Comma-separated context tags (e.g. Work,Family)")),
		mcp.WithString("note", mcp.Description("Free-text reflection")),
	), s.logMood)

	s.mcp.AddTool(mcp.NewTool("list_moods",
		mcp.WithDescription("List journaled mood entries, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum entries to return (0 for all)")),
	), s.listMoods)

	s.mcp.AddTool(mcp.NewTool("delete_mood",
		mcp.WithDescription("Delete a mood entry by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id as returned by list_moods")),
	), s.deleteMood)

	s.mcp.AddTool(mcp.NewTool("weekly_insights",
		mcp.WithDescription("Compute the last-7-days intensity and sleep trends plus the "+
			"full-history mood distribution."),
	), s.weeklyInsights)

	s.mcp.AddTool(mcp.NewTool("get_mood_catalog",
		mcp.WithDescription("Returns the selectable moods with their emoji."),
	), s.getMoodCatalog)

	// Resource: mood catalog.
	s.mcp.AddResource(
		mcp.NewResource("wunjo://mood-catalog", "Mood Catalog",
			mcp.WithResourceDescription("Selectable moods and the entry fields they accept."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMoodCatalogResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) logMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := req.RequireString("mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	intensity, err := req.RequireFloat("intensity")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := models.MoodEntryInput{
		Mood:      mood,
		Intensity: int(intensity),
	}
	if sleep, serr := req.RequireFloat("sleep"); serr == nil {
		input.Sleep = int(sleep)
	}
	if note, nerr := req.RequireString("note"); nerr == nil {
		input.Note = note
	}
	raw := ""
	if tags, terr := req.RequireString("tags"); terr == nil {
		raw = tags
	}
	if raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				input.Tags = append(input.Tags, t)
			}
		}
	}

	if err := s.repo.Create(ctx, input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("logged %s entry", mood)), nil
}

func (s *Server) listMoods(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := 0
	if l, lerr := req.RequireFloat("limit"); lerr == nil {
		limit = int(l)
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted entry %s", id)), nil
}

func (s *Server) weeklyInsights(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(analytics.ComputeWeekly(entries, time.Now()), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMoodCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MoodCatalogContract), nil
}

func (s *Server) readMoodCatalogResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "wunjo://mood-catalog",
			MIMEType: "text/markdown",
			Text:     MoodCatalogContract,
		},
	}, nil
}
