package service

import (
	"context"
	"errors"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/repository"

	"github.com/google/uuid"
)

// IAccessPolicy decides whether a user may see or change a note. Callers
// must report a failed read check as not-found, never as forbidden, so the
// existence of other users' notes is not disclosed.
type IAccessPolicy interface {
	CanRead(ctx context.Context, userId uuid.UUID, note *entity.Note) (bool, error)
	CanWrite(ctx context.Context, userId uuid.UUID, note *entity.Note) (bool, error)
}

type accessPolicy struct {
	collaboratorRepository repository.ICollaboratorRepository
}

func NewAccessPolicy(collaboratorRepository repository.ICollaboratorRepository) IAccessPolicy {
	return &accessPolicy{collaboratorRepository: collaboratorRepository}
}

func (p *accessPolicy) CanRead(ctx context.Context, userId uuid.UUID, note *entity.Note) (bool, error) {
	if note.UserId == userId {
		return true, nil
	}

	_, err := p.collaboratorRepository.GetByNoteAndUser(ctx, note.Id, userId)
	if err != nil {
		if errors.Is(err, serverutils.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanWrite grants the owner and READ_WRITE collaborators. A READ_ONLY
// grant sees the note but may not change it.
func (p *accessPolicy) CanWrite(ctx context.Context, userId uuid.UUID, note *entity.Note) (bool, error) {
	if note.UserId == userId {
		return true, nil
	}

	grant, err := p.collaboratorRepository.GetByNoteAndUser(ctx, note.Id, userId)
	if err != nil {
		if errors.Is(err, serverutils.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return grant.AccessType == constant.AccessReadWrite, nil
}
