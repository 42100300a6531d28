// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes a user's journal for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mindcare/internal/ai"
	"github.com/starford/mindcare/internal/apperr"
	"github.com/starford/mindcare/internal/auth"
	"github.com/starford/mindcare/internal/models"
	"github.com/starford/mindcare/internal/thoughts"
)

// Analyzer is the AI client as seen by the MCP tools.
type Analyzer interface {
	Suggest(ctx context.Context, text string) ai.Outcome[string]
	AnalyzeMood(ctx context.Context, text string) ai.Outcome[models.MoodAnalysis]
}

// Server wraps the MCP server with journal tools scoped to one owner.
type Server struct {
	mcp   *server.MCPServer
	svc   *thoughts.Service
	ai    Analyzer
	owner auth.Identity
}

// New creates a new MCP server acting as owner.
func New(svc *thoughts.Service, analyzer Analyzer, owner auth.Identity) *Server {
	s := &Server{svc: svc, ai: analyzer, owner: owner}

	moods := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		moods[i] = string(m)
	}

	s.mcp = server.NewMCPServer(
		"Mindcare",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_thoughts",
		mcp.WithDescription("List the user's thoughts, newest first."),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 10, max 100)")),
		mcp.WithString("mood", mcp.Description("Only thoughts with this mood, or 'all'")),
		mcp.WithString("query", mcp.Description("Case-insensitive text to look for in content")),
	), s.listThoughts)

	s.mcp.AddTool(mcp.NewTool("get_thought",
		mcp.WithDescription("Read one thought with its AI suggestion."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Thought ID")),
	), s.getThought)

	s.mcp.AddTool(mcp.NewTool("create_thought",
		mcp.WithDescription("Record a new thought. An AI suggestion is attached automatically. "+
			"Read the journal guide resource for field rules."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The thought, 1-2000 characters")),
		mcp.WithString("mood", mcp.Enum(moods...), mcp.Description("Mood label (default neutral)")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Optional labels")),
	), s.createThought)

	s.mcp.AddTool(mcp.NewTool("delete_thought",
		mcp.WithDescription("Permanently delete a thought."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Thought ID")),
	), s.deleteThought)

	s.mcp.AddTool(mcp.NewTool("suggest",
		mcp.WithDescription("Get supportive guidance for a piece of text without saving it."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to respond to")),
	), s.suggest)

	s.mcp.AddTool(mcp.NewTool("analyze_mood",
		mcp.WithDescription("Classify the mood of a piece of text. Returns mood, confidence and keywords."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to analyse")),
	), s.analyzeMood)

	// Resource: journal guide.
	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Journal Guide",
			mcp.WithResourceDescription("Field rules and AI behaviour for journal thoughts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
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

func (s *Server) listThoughts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.svc.List(ctx, s.owner.ID, thoughts.ListParams{
		Page:   req.GetInt("page", 1),
		Limit:  req.GetInt("limit", thoughts.DefaultLimit),
		Mood:   req.GetString("mood", ""),
		Search: req.GetString("query", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	views := make([]models.ThoughtView, len(page.Thoughts))
	for i, t := range page.Thoughts {
		views[i] = t.View(s.owner.Owner())
	}
	return jsonResult(map[string]any{
		"thoughts":      views,
		"totalPages":    page.TotalPages,
		"currentPage":   page.CurrentPage,
		"totalThoughts": page.Total,
	})
}

func (s *Server) getThought(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.Get(ctx, s.owner.ID, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(t.View(s.owner.Owner()))
}

func (s *Server) createThought(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := thoughts.Input{
		Content: content,
		Mood:    models.Mood(req.GetString("mood", "")),
	}
	if _, ok := req.GetArguments()["tags"]; ok {
		tags := req.GetStringSlice("tags", nil)
		in.Tags = &tags
	}

	t, err := s.svc.Create(ctx, s.owner.ID, in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(t.View(s.owner.Owner()))
}

func (s *Server) deleteThought(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, s.owner.ID, id); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText("deleted: " + id), nil
}

func (s *Server) suggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := thoughts.ValidateText(content)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(s.ai.Suggest(ctx, text).Value), nil
}

func (s *Server) analyzeMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := thoughts.ValidateText(content)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(s.ai.AnalyzeMood(ctx, text).Value)
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     JournalGuide,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError turns workflow errors into tool-level errors the model can read.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrInvalidID):
		return mcp.NewToolResultError("invalid thought id")
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("thought not found")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
