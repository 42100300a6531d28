package api

import (
	"time"

	"github.com/starford/mindcare/internal/models"
)

// ThoughtRequest is the request body for creating or updating a thought.
// Omitting tags on update keeps the current tags; an empty array clears them.
type ThoughtRequest struct {
	Content string      `json:"content" example:"Felt calmer after a long walk." validate:"required"`
	Mood    models.Mood `json:"mood,omitempty" example:"calm"`
	Tags    *[]string   `json:"tags,omitempty" example:"walk,evening"`
}

// TextRequest is the request body of the AI endpoints.
type TextRequest struct {
	Content string `json:"content" example:"I can't stop worrying about tomorrow." validate:"required"`
}

// ThoughtView is a thought as returned to its owner.
type ThoughtView = models.ThoughtView

// ThoughtResponse wraps a single thought.
type ThoughtResponse struct {
	Message string      `json:"message,omitempty" example:"Thought created successfully"`
	Thought ThoughtView `json:"thought" validate:"required"`
}

// ThoughtListResponse is one page of thoughts.
type ThoughtListResponse struct {
	Thoughts      []ThoughtView `json:"thoughts" validate:"required"`
	TotalPages    int           `json:"totalPages" example:"3"`
	CurrentPage   int           `json:"currentPage" example:"1"`
	TotalThoughts int           `json:"totalThoughts" example:"25"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message" example:"Thought deleted successfully"`
}

// SuggestionResponse is returned by POST /api/ai/suggest.
type SuggestionResponse struct {
	Suggestion string    `json:"suggestion" validate:"required"`
	Timestamp  time.Time `json:"timestamp"`
}

// MoodResponse is returned by POST /api/ai/analyze-mood.
type MoodResponse struct {
	Mood      models.MoodAnalysis `json:"mood"`
	Timestamp time.Time           `json:"timestamp"`
}

// UserResponse is returned by GET /api/me.
type UserResponse struct {
	User models.Owner `json:"user"`
}
