package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/mindcare/internal/apperr"
	"github.com/starford/mindcare/internal/models"
)

// Repository defines the thought persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Repository interface {
	Create(ctx context.Context, t *models.Thought) error
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Thought, error)
	Update(ctx context.Context, t *models.Thought) error
	DeleteForOwner(ctx context.Context, id, ownerID string) error
	List(ctx context.Context, q ListQuery) ([]models.Thought, int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Verify *DB satisfies Repository at compile time.
var _ Repository = (*DB)(nil)

// ListQuery selects one page of an owner's thoughts.
type ListQuery struct {
	OwnerID string
	Mood    models.Mood // empty means any mood
	Search  string      // case-insensitive substring of content
	Limit   int
	Offset  int
}

const thoughtColumns = `id, owner_id, content, ai_suggestion, mood, tags, is_private, created_at, updated_at`

// Create inserts t, assigning its id and timestamps.
func (db *DB) Create(ctx context.Context, t *models.Thought) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("store: new id: %w", err)
	}
	now := db.timestamp()
	t.ID = id.String()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Tags == nil {
		t.Tags = models.Tags{}
	}

	_, err = db.conn.ExecContext(ctx, db.conn.Rebind(`
		INSERT INTO thoughts (`+thoughtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), t.ID, t.OwnerID, t.Content, t.AISuggestion, t.Mood, t.Tags, t.IsPrivate, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert thought: %w", err)
	}
	return nil
}

// FindByIDForOwner returns the thought only when it belongs to ownerID.
// A thought owned by someone else is reported exactly like a missing one.
func (db *DB) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Thought, error) {
	var t models.Thought
	err := db.conn.GetContext(ctx, &t, db.conn.Rebind(`
		SELECT `+thoughtColumns+`
		FROM thoughts
		WHERE id = ? AND owner_id = ?
	`), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get thought: %w", err)
	}
	return &t, nil
}

// Update overwrites the mutable fields of t and refreshes UpdatedAt.
func (db *DB) Update(ctx context.Context, t *models.Thought) error {
	now := db.timestamp()
	res, err := db.conn.ExecContext(ctx, db.conn.Rebind(`
		UPDATE thoughts
		SET content = ?, ai_suggestion = ?, mood = ?, tags = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`), t.Content, t.AISuggestion, t.Mood, t.Tags, now, t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("store: update thought: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

// DeleteForOwner permanently removes one thought owned by ownerID.
func (db *DB) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	res, err := db.conn.ExecContext(ctx, db.conn.Rebind(`
		DELETE FROM thoughts WHERE id = ? AND owner_id = ?
	`), id, ownerID)
	if err != nil {
		return fmt.Errorf("store: delete thought: %w", err)
	}
	return expectOneRow(res)
}

// List returns one page of thoughts, newest first, and the total match count.
func (db *DB) List(ctx context.Context, q ListQuery) ([]models.Thought, int, error) {
	where := []string{"owner_id = ?"}
	args := []any{q.OwnerID}
	if q.Mood != "" {
		where = append(where, "mood = ?")
		args = append(args, q.Mood)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		where = append(where, `LOWER(content) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.conn.GetContext(ctx, &total, db.conn.Rebind(`SELECT COUNT(*) FROM thoughts WHERE `+cond), args...); err != nil {
		return nil, 0, fmt.Errorf("store: count thoughts: %w", err)
	}

	out := []models.Thought{}
	err := db.conn.SelectContext(ctx, &out, db.conn.Rebind(`
		SELECT `+thoughtColumns+`
		FROM thoughts
		WHERE `+cond+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`), append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list thoughts: %w", err)
	}
	return out, total, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
