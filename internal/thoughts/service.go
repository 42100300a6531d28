// Package thoughts implements the thought lifecycle: validation, owner-scoped
// persistence and best-effort AI enrichment.
package thoughts

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/mindcare/internal/ai"
	"github.com/starford/mindcare/internal/apperr"
	"github.com/starford/mindcare/internal/models"
	"github.com/starford/mindcare/internal/store"
)

// SuggestionUnavailable is stored when enrichment falls back.
const SuggestionUnavailable = "Unable to generate AI suggestion at this time."

// Paging defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Enricher produces an AI suggestion for thought content.
type Enricher interface {
	Suggest(ctx context.Context, text string) ai.Outcome[string]
}

// Input is the owner-supplied part of a thought. A nil Tags leaves existing
// tags untouched on update; an empty slice clears them.
type Input struct {
	Content string
	Mood    models.Mood
	Tags    *[]string
}

// ListParams selects a page of thoughts.
type ListParams struct {
	Page   int
	Limit  int
	Mood   string // "all" or empty means any mood
	Search string
}

// Page is one page of an owner's thoughts.
type Page struct {
	Thoughts    []models.Thought
	Total       int
	TotalPages  int
	CurrentPage int
}

// Service coordinates the store and the enricher.
type Service struct {
	repo     store.Repository
	enricher Enricher
}

// NewService creates a thought service.
func NewService(repo store.Repository, enricher Enricher) *Service {
	return &Service{repo: repo, enricher: enricher}
}

// Create validates in, enriches it and persists a new thought for ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (*models.Thought, error) {
	d, err := prepare(in)
	if err != nil {
		return nil, err
	}

	t := &models.Thought{
		OwnerID: ownerID,
		Content: d.Content,
		Mood:    models.MoodNeutral,
		Tags:    models.Tags{},
	}
	if d.Mood != "" {
		t.Mood = d.Mood
	}
	if d.hasTags {
		t.Tags = d.Tags
	}
	t.AISuggestion = s.suggest(ctx, t.Content)

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies in to the thought id owned by ownerID. The suggestion is
// regenerated only when the content changed.
func (s *Service) Update(ctx context.Context, ownerID, id string, in Input) (*models.Thought, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	d, err := prepare(in)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	previous := t.Content
	t.Content = d.Content
	if d.Mood != "" {
		t.Mood = d.Mood
	}
	if d.hasTags {
		t.Tags = d.Tags
	}
	if t.Content != previous {
		t.AISuggestion = s.suggest(ctx, t.Content)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns one thought owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.Thought, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repo.FindByIDForOwner(ctx, id, ownerID)
}

// Delete permanently removes one thought owned by ownerID.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repo.DeleteForOwner(ctx, id, ownerID)
}

// List returns a newest-first page of ownerID's thoughts.
func (s *Service) List(ctx context.Context, ownerID string, p ListParams) (*Page, error) {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	mood := strings.TrimSpace(p.Mood)
	if mood == "all" {
		mood = ""
	}

	rows, total, err := s.repo.List(ctx, store.ListQuery{
		OwnerID: ownerID,
		Mood:    models.Mood(mood),
		Search:  strings.TrimSpace(p.Search),
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &Page{
		Thoughts:    rows,
		Total:       total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

func (s *Service) suggest(ctx context.Context, content string) string {
	out := s.enricher.Suggest(ctx, content)
	if out.Fallback {
		return SuggestionUnavailable
	}
	return out.Value
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.ErrInvalidID
	}
	return nil
}
