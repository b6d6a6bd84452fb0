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

// NoteLabel is one edge of the note<->label many-to-many relation.
type NoteLabel struct {
	NoteId uuid.UUID
	Label  entity.Label
}

type ILabelRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) ILabelRepository
	Create(ctx context.Context, label *entity.Label) error
	GetById(ctx context.Context, id uuid.UUID) (*entity.Label, error)
	ListByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Label, error)
	Update(ctx context.Context, label *entity.Label) error
	DeleteById(ctx context.Context, id uuid.UUID) error
	Attach(ctx context.Context, noteId uuid.UUID, labelId uuid.UUID) error
	Detach(ctx context.Context, noteId uuid.UUID, labelId uuid.UUID) error
	GetByNoteIds(ctx context.Context, noteIds []uuid.UUID) ([]*NoteLabel, error)
	DeleteEdgesByNoteId(ctx context.Context, noteId uuid.UUID) error
	ListCollaboratorUserIdsByLabel(ctx context.Context, labelId uuid.UUID) ([]uuid.UUID, error)
}

type labelRepository struct {
	db database.DatabaseQueryer
}

func NewLabelRepository(db *pgxpool.Pool) ILabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) ILabelRepository {
	return &labelRepository{db: tx}
}

func (r *labelRepository) Create(ctx context.Context, label *entity.Label) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO label (id, name, color, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		label.Id,
		label.Name,
		label.Color,
		label.UserId,
		label.CreatedAt,
	)
	return err
}

func (r *labelRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Label, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, color, user_id, created_at FROM label WHERE id = $1`,
		id,
	)

	var l entity.Label
	err := row.Scan(&l.Id, &l.Name, &l.Color, &l.UserId, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *labelRepository) ListByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Label, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, color, user_id, created_at FROM label
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]*entity.Label, 0)
	for rows.Next() {
		var l entity.Label
		if err := rows.Scan(&l.Id, &l.Name, &l.Color, &l.UserId, &l.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, &l)
	}

	return labels, rows.Err()
}

func (r *labelRepository) Update(ctx context.Context, label *entity.Label) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE label SET name = $2, color = $3 WHERE id = $1`,
		label.Id,
		label.Name,
		label.Color,
	)
	return err
}

// DeleteById removes the label and its note edges; the notes themselves
// stay untouched.
func (r *labelRepository) DeleteById(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM note_label WHERE label_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `DELETE FROM label WHERE id = $1`, id)
	return err
}

func (r *labelRepository) Attach(ctx context.Context, noteId uuid.UUID, labelId uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO note_label (note_id, label_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		noteId,
		labelId,
	)
	return err
}

func (r *labelRepository) Detach(ctx context.Context, noteId uuid.UUID, labelId uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM note_label WHERE note_id = $1 AND label_id = $2`,
		noteId,
		labelId,
	)
	return err
}

func (r *labelRepository) GetByNoteIds(ctx context.Context, noteIds []uuid.UUID) ([]*NoteLabel, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT nl.note_id, l.id, l.name, l.color, l.user_id, l.created_at
		 FROM note_label nl
		 JOIN label l ON l.id = nl.label_id
		 WHERE nl.note_id = ANY($1)`,
		noteIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]*NoteLabel, 0)
	for rows.Next() {
		var e NoteLabel
		err := rows.Scan(
			&e.NoteId,
			&e.Label.Id,
			&e.Label.Name,
			&e.Label.Color,
			&e.Label.UserId,
			&e.Label.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, &e)
	}

	return edges, rows.Err()
}

// ListCollaboratorUserIdsByLabel finds collaborators whose cached views
// embed the label through a shared note.
func (r *labelRepository) ListCollaboratorUserIdsByLabel(ctx context.Context, labelId uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT c.user_id
		 FROM collaborator c
		 JOIN note_label nl ON nl.note_id = c.note_id
		 WHERE nl.label_id = $1`,
		labelId,
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

func (r *labelRepository) DeleteEdgesByNoteId(ctx context.Context, noteId uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM note_label WHERE note_id = $1`, noteId)
	return err
}
