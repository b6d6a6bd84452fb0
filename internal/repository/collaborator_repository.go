package repository

import (
	"context"
	"errors"

	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ICollaboratorRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) ICollaboratorRepository
	Create(ctx context.Context, collaborator *entity.Collaborator) error
	GetByNoteAndUser(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) (*entity.Collaborator, error)
	ListUserIdsByNote(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error)
	DeleteByNoteAndUser(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
}

type collaboratorRepository struct {
	db database.DatabaseQueryer
}

func NewCollaboratorRepository(db *pgxpool.Pool) ICollaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) ICollaboratorRepository {
	return &collaboratorRepository{db: tx}
}

func (r *collaboratorRepository) Create(ctx context.Context, collaborator *entity.Collaborator) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO collaborator (id, note_id, user_id, access_type, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		collaborator.Id,
		collaborator.NoteId,
		collaborator.UserId,
		collaborator.AccessType,
		collaborator.CreatedAt,
	)
	return err
}

func (r *collaboratorRepository) GetByNoteAndUser(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) (*entity.Collaborator, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, note_id, user_id, access_type, created_at
		 FROM collaborator
		 WHERE note_id = $1 AND user_id = $2`,
		noteId,
		userId,
	)

	var c entity.Collaborator
	err := row.Scan(
		&c.Id,
		&c.NoteId,
		&c.UserId,
		&c.AccessType,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListUserIdsByNote returns everyone holding a grant on the note, used to
// invalidate every affected cache entry on mutation.
func (r *collaboratorRepository) ListUserIdsByNote(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT user_id FROM collaborator WHERE note_id = $1`,
		noteId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *collaboratorRepository) DeleteByNoteAndUser(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM collaborator WHERE note_id = $1 AND user_id = $2`,
		noteId,
		userId,
	)
	return err
}

func (r *collaboratorRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM collaborator WHERE note_id = $1`,
		noteId,
	)
	return err
}
