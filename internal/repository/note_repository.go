package repository

import (
	"context"
	"errors"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type INoteRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) INoteRepository
	Create(ctx context.Context, note *entity.Note) error
	GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	GetVisibleById(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*entity.Note, error)
	ListVisible(ctx context.Context, userId uuid.UUID, view string) ([]*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	DeleteById(ctx context.Context, id uuid.UUID) error
}

type noteRepository struct {
	db database.DatabaseQueryer
}

func NewNoteRepository(db *pgxpool.Pool) INoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) INoteRepository {
	return &noteRepository{db: tx}
}

const noteColumns = `id, title, description, color, image_key, is_archived, is_trashed, reminder, user_id, created_at, updated_at`

// visiblePredicate selects notes the user owns or holds a collaborator
// grant on. The note id placeholder is $1, the user id $2; the list
// variant binds the user id as $1.
const visiblePredicate = `(n.user_id = $2 OR EXISTS (
	SELECT 1 FROM collaborator c WHERE c.note_id = n.id AND c.user_id = $2
))`

const visiblePredicateList = `(n.user_id = $1 OR EXISTS (
	SELECT 1 FROM collaborator c WHERE c.note_id = n.id AND c.user_id = $1
))`

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO note (id, title, description, color, image_key, is_archived, is_trashed, reminder, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		note.Id,
		note.Title,
		note.Description,
		note.Color,
		note.ImageKey,
		note.IsArchived,
		note.IsTrashed,
		note.Reminder,
		note.UserId,
		note.CreatedAt,
	)
	return err
}

func (r *noteRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE id = $1`,
		id,
	)
	return scanNote(row)
}

// GetVisibleById resolves a note only when the user may see it; an
// existing but inaccessible note comes back as ErrNotFound on purpose.
func (r *noteRepository) GetVisibleById(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*entity.Note, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+noteColumns+` FROM note n WHERE n.id = $1 AND `+visiblePredicate,
		id,
		userId,
	)
	return scanNote(row)
}

func (r *noteRepository) ListVisible(ctx context.Context, userId uuid.UUID, view string) ([]*entity.Note, error) {
	// trash wins over archive so a trashed note never leaks into the
	// archived view
	var lifecycleFilter string
	switch view {
	case constant.NoteViewArchived:
		lifecycleFilter = `n.is_archived AND NOT n.is_trashed`
	case constant.NoteViewTrashed:
		lifecycleFilter = `n.is_trashed`
	default:
		lifecycleFilter = `NOT n.is_archived AND NOT n.is_trashed`
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+noteColumns+` FROM note n
		 WHERE `+visiblePredicateList+` AND `+lifecycleFilter+`
		 ORDER BY n.created_at DESC`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*entity.Note, 0)
	for rows.Next() {
		var n entity.Note
		err := rows.Scan(
			&n.Id,
			&n.Title,
			&n.Description,
			&n.Color,
			&n.ImageKey,
			&n.IsArchived,
			&n.IsTrashed,
			&n.Reminder,
			&n.UserId,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}

	return notes, rows.Err()
}

func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	now := time.Now()
	note.UpdatedAt = &now

	_, err := r.db.Exec(
		ctx,
		`UPDATE note SET title = $2, description = $3, color = $4, image_key = $5,
		 is_archived = $6, is_trashed = $7, reminder = $8, updated_at = $9
		 WHERE id = $1`,
		note.Id,
		note.Title,
		note.Description,
		note.Color,
		note.ImageKey,
		note.IsArchived,
		note.IsTrashed,
		note.Reminder,
		note.UpdatedAt,
	)
	return err
}

func (r *noteRepository) DeleteById(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM note WHERE id = $1`, id)
	return err
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var n entity.Note
	err := row.Scan(
		&n.Id,
		&n.Title,
		&n.Description,
		&n.Color,
		&n.ImageKey,
		&n.IsArchived,
		&n.IsTrashed,
		&n.Reminder,
		&n.UserId,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}
