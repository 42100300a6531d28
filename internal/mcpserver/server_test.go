package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/mindcare/internal/auth"
	"github.com/starford/mindcare/internal/models"
	"github.com/starford/mindcare/internal/testutil"
	"github.com/starford/mindcare/internal/thoughts"
)

func testServer(t *testing.T, owner string) (*Server, *testutil.Enricher) {
	t.Helper()
	db := testutil.TestDB(t)
	enr := &testutil.Enricher{
		Suggestion: "Be gentle with yourself.",
		Analysis:   models.MoodAnalysis{Mood: "worried", Confidence: 0.7, Keywords: []string{"exam", "sleep"}},
	}
	return New(thoughts.NewService(db, enr), enr, auth.Identity{ID: owner, Name: "Tester"}), enr
}

// sharedServers returns two servers for different owners over one store.
func sharedServers(t *testing.T) (*Server, *Server) {
	t.Helper()
	db := testutil.TestDB(t)
	enr := &testutil.Enricher{Suggestion: "ok"}
	svc := thoughts.NewService(db, enr)
	return New(svc, enr, auth.Identity{ID: "alice"}), New(svc, enr, auth.Identity{ID: "bob"})
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_thoughts":
		result, err = srv.listThoughts(ctx, req)
	case "get_thought":
		result, err = srv.getThought(ctx, req)
	case "create_thought":
		result, err = srv.createThought(ctx, req)
	case "delete_thought":
		result, err = srv.deleteThought(ctx, req)
	case "suggest":
		result, err = srv.suggest(ctx, req)
	case "analyze_mood":
		result, err = srv.analyzeMood(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func createThought(t *testing.T, srv *Server, args map[string]any) models.ThoughtView {
	t.Helper()
	r := callTool(t, srv, "create_thought", args)
	if r.IsError {
		t.Fatalf("create_thought failed: %s", resultText(r))
	}
	var v models.ThoughtView
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestCreateAndGetThought(t *testing.T) {
	srv, _ := testServer(t, "u1")

	th := createThought(t, srv, map[string]any{
		"content": "Long day, but I finished the draft",
		"mood":    "calm",
		"tags":    []any{"work", "writing"},
	})
	if th.OwnerID != "u1" || th.Mood != models.MoodCalm {
		t.Errorf("thought = %+v", th)
	}
	if th.AISuggestion != "Be gentle with yourself." {
		t.Errorf("aiSuggestion = %q", th.AISuggestion)
	}
	if len(th.Tags) != 2 || th.Tags[0] != "work" || th.Tags[1] != "writing" {
		t.Errorf("tags = %v", th.Tags)
	}

	r := callTool(t, srv, "get_thought", map[string]any{"id": th.ID})
	if r.IsError {
		t.Fatalf("get_thought failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "finished the draft") {
		t.Errorf("get result = %s", resultText(r))
	}
}

func TestCreateThoughtValidation(t *testing.T) {
	srv, enr := testServer(t, "u1")

	r := callTool(t, srv, "create_thought", map[string]any{"content": "   "})
	if !r.IsError {
		t.Error("expected error for blank content")
	}
	r = callTool(t, srv, "create_thought", map[string]any{"content": "ok", "mood": "furious"})
	if !r.IsError || !strings.Contains(resultText(r), "mood") {
		t.Errorf("bad mood result = %q", resultText(r))
	}
	if len(enr.Calls()) != 0 {
		t.Error("AI called on invalid input")
	}
}

func TestListThoughts(t *testing.T) {
	srv, _ := testServer(t, "u1")
	createThought(t, srv, map[string]any{"content": "morning run", "mood": "happy"})
	createThought(t, srv, map[string]any{"content": "evening worries", "mood": "anxious"})

	r := callTool(t, srv, "list_thoughts", map[string]any{"mood": "anxious"})
	var page struct {
		Thoughts      []models.ThoughtView `json:"thoughts"`
		TotalThoughts int                  `json:"totalThoughts"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &page); err != nil {
		t.Fatal(err)
	}
	if page.TotalThoughts != 1 || page.Thoughts[0].Content != "evening worries" {
		t.Errorf("page = %+v", page)
	}
}

func TestOwnerScoping(t *testing.T) {
	alice, bob := sharedServers(t)
	th := createThought(t, alice, map[string]any{"content": "alice only"})

	if r := callTool(t, bob, "get_thought", map[string]any{"id": th.ID}); !r.IsError || resultText(r) != "thought not found" {
		t.Errorf("bob get = %q", resultText(r))
	}
	if r := callTool(t, bob, "delete_thought", map[string]any{"id": th.ID}); !r.IsError {
		t.Error("bob delete should fail")
	}
	if r := callTool(t, alice, "delete_thought", map[string]any{"id": th.ID}); r.IsError {
		t.Errorf("alice delete failed: %s", resultText(r))
	}
}

func TestGetThoughtMalformedID(t *testing.T) {
	srv, _ := testServer(t, "u1")
	r := callTool(t, srv, "get_thought", map[string]any{"id": "nope"})
	if !r.IsError || resultText(r) != "invalid thought id" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestAITools(t *testing.T) {
	srv, enr := testServer(t, "u1")

	r := callTool(t, srv, "suggest", map[string]any{"content": "exam tomorrow"})
	if resultText(r) != "Be gentle with yourself." {
		t.Errorf("suggest = %q", resultText(r))
	}

	r = callTool(t, srv, "analyze_mood", map[string]any{"content": "exam tomorrow"})
	var got models.MoodAnalysis
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Mood != "worried" || len(got.Keywords) != 2 {
		t.Errorf("analysis = %+v", got)
	}

	enr.SetFail(true)
	r = callTool(t, srv, "analyze_mood", map[string]any{"content": "exam tomorrow"})
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Mood != "neutral" || got.Confidence != 0.5 {
		t.Errorf("fallback analysis = %+v", got)
	}

	if r := callTool(t, srv, "suggest", map[string]any{}); !r.IsError {
		t.Error("expected error for missing content")
	}
}

func TestGuideResource(t *testing.T) {
	srv, _ := testServer(t, "u1")
	contents, err := srv.readGuideResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != guideURI {
		t.Fatalf("contents = %+v", contents)
	}
	for _, m := range models.Moods {
		if !strings.Contains(tc.Text, "`"+string(m)+"`") {
			t.Errorf("guide missing mood %q", m)
		}
	}
}
