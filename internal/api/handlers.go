package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mindcare/internal/ai"
	"github.com/starford/mindcare/internal/models"
	"github.com/starford/mindcare/internal/thoughts"
)

// Analyzer is the AI client as seen by the HTTP layer.
type Analyzer interface {
	Suggest(ctx context.Context, text string) ai.Outcome[string]
	AnalyzeMood(ctx context.Context, text string) ai.Outcome[models.MoodAnalysis]
}

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds API route handlers.
type Handler struct {
	svc   *thoughts.Service
	ai    Analyzer
	store Pinger
}

// NewHandler creates a new Handler.
func NewHandler(svc *thoughts.Service, analyzer Analyzer, store Pinger) *Handler {
	return &Handler{svc: svc, ai: analyzer, store: store}
}

func (req ThoughtRequest) input() thoughts.Input {
	return thoughts.Input{Content: req.Content, Mood: req.Mood, Tags: req.Tags}
}

// ListThoughts handles GET /api/thoughts.
//
//	@Summary		List the caller's thoughts, newest first
//	@Tags			thoughts
//	@Produce		json
//	@Param			page	query		int		false	"Page number (1-based)"
//	@Param			limit	query		int		false	"Page size (max 100)"
//	@Param			mood	query		string	false	"Mood filter, or all"
//	@Param			q		query		string	false	"Case-insensitive content search"
//	@Success		200		{object}	ThoughtListResponse
//	@Failure		401		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thoughts [get]
func (h *Handler) ListThoughts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	id := identity(r)
	res, err := h.svc.List(r.Context(), id.ID, thoughts.ListParams{
		Page:   page,
		Limit:  limit,
		Mood:   q.Get("mood"),
		Search: q.Get("q"),
	})
	if err != nil {
		writeError(w, r, "list thoughts", err)
		return
	}

	owner := id.Owner()
	views := make([]ThoughtView, len(res.Thoughts))
	for i, t := range res.Thoughts {
		views[i] = t.View(owner)
	}
	writeJSON(w, http.StatusOK, ThoughtListResponse{
		Thoughts:      views,
		TotalPages:    res.TotalPages,
		CurrentPage:   res.CurrentPage,
		TotalThoughts: res.Total,
	})
}

// GetThought handles GET /api/thoughts/{id}.
//
//	@Summary		Get one of the caller's thoughts
//	@Tags			thoughts
//	@Produce		json
//	@Param			id	path		string	true	"Thought ID"
//	@Success		200	{object}	ThoughtResponse
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thoughts/{id} [get]
func (h *Handler) GetThought(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	t, err := h.svc.Get(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "get thought", err)
		return
	}
	writeJSON(w, http.StatusOK, ThoughtResponse{Thought: t.View(id.Owner())})
}

// CreateThought handles POST /api/thoughts.
//
//	@Summary		Create a thought and attach an AI suggestion
//	@Tags			thoughts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ThoughtRequest	true	"Thought to create"
//	@Success		201		{object}	ThoughtResponse
//	@Failure		400		{object}	validationResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thoughts [post]
func (h *Handler) CreateThought(w http.ResponseWriter, r *http.Request) {
	var req ThoughtRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := identity(r)
	t, err := h.svc.Create(r.Context(), id.ID, req.input())
	if err != nil {
		writeError(w, r, "create thought", err)
		return
	}
	writeJSON(w, http.StatusCreated, ThoughtResponse{
		Message: "Thought created successfully",
		Thought: t.View(id.Owner()),
	})
}

// UpdateThought handles PUT /api/thoughts/{id}.
//
//	@Summary		Update a thought, regenerating the suggestion if the content changed
//	@Tags			thoughts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Thought ID"
//	@Param			body	body		ThoughtRequest	true	"Updated fields"
//	@Success		200		{object}	ThoughtResponse
//	@Failure		400		{object}	validationResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thoughts/{id} [put]
func (h *Handler) UpdateThought(w http.ResponseWriter, r *http.Request) {
	var req ThoughtRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := identity(r)
	t, err := h.svc.Update(r.Context(), id.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, r, "update thought", err)
		return
	}
	writeJSON(w, http.StatusOK, ThoughtResponse{
		Message: "Thought updated successfully",
		Thought: t.View(id.Owner()),
	})
}

// DeleteThought handles DELETE /api/thoughts/{id}.
//
//	@Summary		Delete a thought permanently
//	@Tags			thoughts
//	@Produce		json
//	@Param			id	path		string	true	"Thought ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thoughts/{id} [delete]
func (h *Handler) DeleteThought(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), identity(r).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "delete thought", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Thought deleted successfully"})
}

// Suggest handles POST /api/ai/suggest.
//
//	@Summary		Get supportive guidance for a piece of text
//	@Tags			ai
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TextRequest	true	"Text to respond to"
//	@Success		200		{object}	SuggestionResponse
//	@Failure		400		{object}	validationResponse
//	@Security		BearerAuth
//	@Router			/ai/suggest [post]
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text, err := thoughts.ValidateText(req.Content)
	if err != nil {
		writeError(w, r, "suggest", err)
		return
	}
	out := h.ai.Suggest(r.Context(), text)
	writeJSON(w, http.StatusOK, SuggestionResponse{Suggestion: out.Value, Timestamp: time.Now().UTC()})
}

// AnalyzeMood handles POST /api/ai/analyze-mood.
//
//	@Summary		Classify the mood of a piece of text
//	@Tags			ai
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TextRequest	true	"Text to analyse"
//	@Success		200		{object}	MoodResponse
//	@Failure		400		{object}	validationResponse
//	@Security		BearerAuth
//	@Router			/ai/analyze-mood [post]
func (h *Handler) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text, err := thoughts.ValidateText(req.Content)
	if err != nil {
		writeError(w, r, "analyze mood", err)
		return
	}
	out := h.ai.AnalyzeMood(r.Context(), text)
	writeJSON(w, http.StatusOK, MoodResponse{Mood: out.Value, Timestamp: time.Now().UTC()})
}

// Me handles GET /api/me.
//
//	@Summary		Return the authenticated user
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserResponse{User: identity(r).Owner()})
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready. It fails while the store is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
