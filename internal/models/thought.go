// Package models defines the domain types for mindcare.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Mood is the owner-chosen label of a thought.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodAnxious  Mood = "anxious"
	MoodExcited  Mood = "excited"
	MoodCalm     Mood = "calm"
	MoodStressed Mood = "stressed"
	MoodNeutral  Mood = "neutral"
)

// Moods lists every value a thought's mood may take.
var Moods = []Mood{MoodHappy, MoodSad, MoodAnxious, MoodExcited, MoodCalm, MoodStressed, MoodNeutral}

// Valid reports whether m belongs to the closed mood set.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// Tags is an ordered list of labels stored as a JSON array column.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("tags: unsupported scan type %T", value)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}

// Thought is a user-authored journal entry.
type Thought struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"owner_id" json:"ownerId"`
	Content      string    `db:"content" json:"content"`
	AISuggestion string    `db:"ai_suggestion" json:"aiSuggestion"`
	Mood         Mood      `db:"mood" json:"mood"`
	Tags         Tags      `db:"tags" json:"tags"`
	IsPrivate    bool      `db:"is_private" json:"isPrivate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Owner is the display-safe projection of a thought's author.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ThoughtView is a thought as returned to its owner.
type ThoughtView struct {
	Thought
	Owner         Owner  `json:"owner"`
	FormattedDate string `json:"formattedDate"`
}

const formattedDateLayout = "January 2, 2006 at 03:04 PM"

// View projects t for its owner.
func (t Thought) View(owner Owner) ThoughtView {
	if t.Tags == nil {
		t.Tags = Tags{}
	}
	return ThoughtView{
		Thought:       t,
		Owner:         owner,
		FormattedDate: t.CreatedAt.UTC().Format(formattedDateLayout),
	}
}

// AnalysisMood is the wider label set produced by mood analysis.
type AnalysisMood string

// AnalysisMoods lists the labels mood analysis may return.
var AnalysisMoods = []AnalysisMood{
	"happy", "sad", "anxious", "angry", "neutral",
	"excited", "worried", "calm", "frustrated", "grateful",
}

// MoodAnalysis is the structured result of analysing a text's mood.
// It is never persisted.
type MoodAnalysis struct {
	Mood       AnalysisMood `json:"mood"`
	Confidence float64      `json:"confidence"`
	Keywords   []string     `json:"keywords"`
}

// NeutralAnalysis is returned whenever analysis cannot be trusted.
func NeutralAnalysis() MoodAnalysis {
	return MoodAnalysis{Mood: "neutral", Confidence: 0.5, Keywords: []string{"neutral"}}
}
