// Package testutil provides shared test helpers for databases and the AI client.
package testutil

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/starford/mindcare/internal/ai"
	"github.com/starford/mindcare/internal/models"
	"github.com/starford/mindcare/internal/store"
)

// TestDB creates a temporary SQLite store that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "mindcare-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(store.DriverSQLite, dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ErrEnrichment is the cause reported by a failing Enricher.
var ErrEnrichment = errors.New("enrichment unavailable")

// Enricher is a scripted stand-in for the AI client. It records every text
// it is asked about.
type Enricher struct {
	mu         sync.Mutex
	Suggestion string
	Analysis   models.MoodAnalysis
	Fail       bool
	calls      []string
}

// Suggest returns e.Suggestion, or the client fallback when e.Fail is set.
func (e *Enricher) Suggest(_ context.Context, text string) ai.Outcome[string] {
	if e.record(text) {
		return ai.Outcome[string]{Value: ai.SuggestionFallback, Fallback: true, Cause: ErrEnrichment}
	}
	return ai.Outcome[string]{Value: e.Suggestion}
}

// AnalyzeMood returns e.Analysis, or the neutral fallback when e.Fail is set.
func (e *Enricher) AnalyzeMood(_ context.Context, text string) ai.Outcome[models.MoodAnalysis] {
	if e.record(text) {
		return ai.Outcome[models.MoodAnalysis]{Value: models.NeutralAnalysis(), Fallback: true, Cause: ErrEnrichment}
	}
	return ai.Outcome[models.MoodAnalysis]{Value: e.Analysis}
}

// Calls returns the texts seen so far.
func (e *Enricher) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// SetFail toggles failure mode.
func (e *Enricher) SetFail(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Fail = fail
}

// record logs text and reports whether the call should fail.
func (e *Enricher) record(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, text)
	return e.Fail
}
