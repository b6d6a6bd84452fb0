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

type IUserRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) IUserRepository
	Create(ctx context.Context, user *entity.User) error
	GetById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db database.DatabaseQueryer
}

func NewUserRepository(db *pgxpool.Pool) IUserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) IUserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO app_user (id, username, email, password_hash, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.Id,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.CreatedAt,
	)
	return err
}

func (r *userRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, is_verified, created_at
		 FROM app_user WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, is_verified, created_at
		 FROM app_user WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET is_verified = true WHERE id = $1`,
		id,
	)
	return err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsVerified,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
