package service

import (
	"context"
	"time"

	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/repository"

	"github.com/google/uuid"
)

type ILabelService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateLabelRequest) (*dto.LabelView, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.LabelView, error)
	Show(ctx context.Context, userId uuid.UUID, labelId uuid.UUID) (*dto.LabelView, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateLabelRequest) (*dto.LabelView, error)
	Delete(ctx context.Context, userId uuid.UUID, labelId uuid.UUID) error
}

type labelService struct {
	labelRepository repository.ILabelRepository
	noteCache       INoteCacheService
}

func NewLabelService(labelRepository repository.ILabelRepository, noteCache INoteCacheService) ILabelService {
	return &labelService{
		labelRepository: labelRepository,
		noteCache:       noteCache,
	}
}

func (s *labelService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateLabelRequest) (*dto.LabelView, error) {
	label := entity.Label{
		Id:        uuid.New(),
		Name:      req.Name,
		Color:     req.Color,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := s.labelRepository.Create(ctx, &label); err != nil {
		return nil, err
	}

	return toLabelView(&label), nil
}

func (s *labelService) List(ctx context.Context, userId uuid.UUID) ([]*dto.LabelView, error) {
	labels, err := s.labelRepository.ListByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.LabelView, 0, len(labels))
	for _, l := range labels {
		views = append(views, toLabelView(l))
	}
	return views, nil
}

func (s *labelService) Show(ctx context.Context, userId uuid.UUID, labelId uuid.UUID) (*dto.LabelView, error) {
	label, err := s.loadOwned(ctx, userId, labelId)
	if err != nil {
		return nil, err
	}
	return toLabelView(label), nil
}

// Update renames or recolors a label; cached note views embed the label,
// so the owner's entry is invalidated.
func (s *labelService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateLabelRequest) (*dto.LabelView, error) {
	label, err := s.loadOwned(ctx, userId, req.Id)
	if err != nil {
		return nil, err
	}

	label.Name = req.Name
	label.Color = req.Color

	if err := s.labelRepository.Update(ctx, label); err != nil {
		return nil, err
	}

	s.invalidateAffected(ctx, userId, label.Id)
	return toLabelView(label), nil
}

// Delete removes the label and its note edges; the notes survive.
func (s *labelService) Delete(ctx context.Context, userId uuid.UUID, labelId uuid.UUID) error {
	label, err := s.loadOwned(ctx, userId, labelId)
	if err != nil {
		return err
	}

	// resolve the audience before the edges are gone
	affected, err := s.labelRepository.ListCollaboratorUserIdsByLabel(ctx, label.Id)
	if err != nil {
		return err
	}

	if err := s.labelRepository.DeleteById(ctx, label.Id); err != nil {
		return err
	}

	s.noteCache.Invalidate(ctx, append(affected, userId)...)
	return nil
}

// invalidateAffected drops the owner's entry plus every collaborator who
// sees the label through a shared note.
func (s *labelService) invalidateAffected(ctx context.Context, userId uuid.UUID, labelId uuid.UUID) {
	userIds := []uuid.UUID{userId}
	if affected, err := s.labelRepository.ListCollaboratorUserIdsByLabel(ctx, labelId); err == nil {
		userIds = append(userIds, affected...)
	}
	s.noteCache.Invalidate(ctx, userIds...)
}

func (s *labelService) loadOwned(ctx context.Context, userId uuid.UUID, labelId uuid.UUID) (*entity.Label, error) {
	label, err := s.labelRepository.GetById(ctx, labelId)
	if err != nil {
		return nil, err
	}
	if label.UserId != userId {
		// labels are never shared; someone else's label reads as absent
		return nil, serverutils.ErrNotFound
	}
	return label, nil
}

func toLabelView(label *entity.Label) *dto.LabelView {
	return &dto.LabelView{
		Id:    label.Id,
		Name:  label.Name,
		Color: label.Color,
	}
}
