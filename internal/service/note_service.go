package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/repository"
	"fundoo-notes-be/pkg/objectstore"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, view string) ([]*dto.NoteView, error)
	Show(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.NoteView, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	ToggleArchive(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.ToggleNoteResponse, error)
	ToggleTrash(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.ToggleNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error
	AddCollaborator(ctx context.Context, userId uuid.UUID, req *dto.AddCollaboratorRequest) error
	RemoveCollaborator(ctx context.Context, userId uuid.UUID, req *dto.RemoveCollaboratorRequest) error
	AddLabel(ctx context.Context, userId uuid.UUID, req *dto.NoteLabelRequest) error
	RemoveLabel(ctx context.Context, userId uuid.UUID, req *dto.NoteLabelRequest) error
	AttachImage(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, fileName string, content io.ReadSeeker) (*dto.AttachImageResponse, error)
}

type noteService struct {
	noteRepository         repository.INoteRepository
	collaboratorRepository repository.ICollaboratorRepository
	labelRepository        repository.ILabelRepository
	userRepository         repository.IUserRepository
	accessPolicy           IAccessPolicy
	noteCache              INoteCacheService
	reminderPublisher      IPublisherService
	objectStore            *objectstore.ObjectStore
	imageBucket            string
	db                     *pgxpool.Pool
}

func NewNoteService(
	noteRepository repository.INoteRepository,
	collaboratorRepository repository.ICollaboratorRepository,
	labelRepository repository.ILabelRepository,
	userRepository repository.IUserRepository,
	accessPolicy IAccessPolicy,
	noteCache INoteCacheService,
	reminderPublisher IPublisherService,
	objectStore *objectstore.ObjectStore,
	imageBucket string,
	db *pgxpool.Pool,
) INoteService {
	return &noteService{
		noteRepository:         noteRepository,
		collaboratorRepository: collaboratorRepository,
		labelRepository:        labelRepository,
		userRepository:         userRepository,
		accessPolicy:           accessPolicy,
		noteCache:              noteCache,
		reminderPublisher:      reminderPublisher,
		objectStore:            objectStore,
		imageBucket:            imageBucket,
		db:                     db,
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	note := entity.Note{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Reminder:    req.Reminder,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}

	if err := s.noteRepository.Create(ctx, &note); err != nil {
		return nil, err
	}

	s.noteCache.Invalidate(ctx, userId)
	s.scheduleReminder(ctx, &note, nil)

	return &dto.CreateNoteResponse{Id: note.Id}, nil
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID, view string) ([]*dto.NoteView, error) {
	return s.noteCache.ListView(ctx, userId, view)
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.NoteView, error) {
	return s.noteCache.GetOne(ctx, userId, noteId)
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	note, err := s.loadWritable(ctx, userId, req.Id)
	if err != nil {
		return nil, err
	}

	prevReminder := note.Reminder
	note.Title = req.Title
	note.Description = req.Description
	note.Color = req.Color
	note.Reminder = req.Reminder

	if err := s.noteRepository.Update(ctx, note); err != nil {
		return nil, err
	}

	s.invalidateAffected(ctx, note)
	s.scheduleReminder(ctx, note, prevReminder)

	return &dto.UpdateNoteResponse{Id: note.Id}, nil
}

func (s *noteService) ToggleArchive(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.ToggleNoteResponse, error) {
	note, err := s.loadWritable(ctx, userId, noteId)
	if err != nil {
		return nil, err
	}

	note.IsArchived = !note.IsArchived
	if err := s.noteRepository.Update(ctx, note); err != nil {
		return nil, err
	}

	s.invalidateAffected(ctx, note)

	return &dto.ToggleNoteResponse{
		Id:         note.Id,
		IsArchived: note.IsArchived,
		IsTrashed:  note.IsTrashed,
	}, nil
}

func (s *noteService) ToggleTrash(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.ToggleNoteResponse, error) {
	note, err := s.loadWritable(ctx, userId, noteId)
	if err != nil {
		return nil, err
	}

	note.IsTrashed = !note.IsTrashed
	if err := s.noteRepository.Update(ctx, note); err != nil {
		return nil, err
	}

	s.invalidateAffected(ctx, note)

	return &dto.ToggleNoteResponse{
		Id:         note.Id,
		IsArchived: note.IsArchived,
		IsTrashed:  note.IsTrashed,
	}, nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error {
	note, err := s.loadOwned(ctx, userId, noteId)
	if err != nil {
		return err
	}

	// collect the affected users before their grants are gone
	collaboratorIds, err := s.collaboratorRepository.ListUserIdsByNote(ctx, note.Id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	noteRepository := s.noteRepository.UsingTx(ctx, tx)
	collaboratorRepository := s.collaboratorRepository.UsingTx(ctx, tx)
	labelRepository := s.labelRepository.UsingTx(ctx, tx)

	if err := collaboratorRepository.DeleteByNoteId(ctx, note.Id); err != nil {
		return err
	}
	if err := labelRepository.DeleteEdgesByNoteId(ctx, note.Id); err != nil {
		return err
	}
	if err := noteRepository.DeleteById(ctx, note.Id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if note.ImageKey != "" && s.objectStore != nil {
		if err := s.objectStore.Delete(ctx, s.imageBucket, note.ImageKey); err != nil {
			log.Errorf("[Note] failed to delete image %s: %v", note.ImageKey, err)
		}
	}

	s.noteCache.Invalidate(ctx, append(collaboratorIds, note.UserId)...)
	return nil
}

func (s *noteService) AddCollaborator(ctx context.Context, userId uuid.UUID, req *dto.AddCollaboratorRequest) error {
	note, err := s.loadOwned(ctx, userId, req.NoteId)
	if err != nil {
		return err
	}

	// the owner already sees their own notes
	if req.UserId == note.UserId {
		return serverutils.ErrBadRequest
	}

	if _, err := s.userRepository.GetById(ctx, req.UserId); err != nil {
		return err
	}

	accessType := req.AccessType
	if accessType == "" {
		accessType = constant.AccessReadWrite
	}

	err = s.collaboratorRepository.Create(ctx, &entity.Collaborator{
		Id:         uuid.New(),
		NoteId:     note.Id,
		UserId:     req.UserId,
		AccessType: accessType,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	// both visible sets changed
	s.noteCache.Invalidate(ctx, note.UserId, req.UserId)
	return nil
}

func (s *noteService) RemoveCollaborator(ctx context.Context, userId uuid.UUID, req *dto.RemoveCollaboratorRequest) error {
	note, err := s.loadOwned(ctx, userId, req.NoteId)
	if err != nil {
		return err
	}

	if _, err := s.collaboratorRepository.GetByNoteAndUser(ctx, note.Id, req.UserId); err != nil {
		return err
	}

	if err := s.collaboratorRepository.DeleteByNoteAndUser(ctx, note.Id, req.UserId); err != nil {
		return err
	}

	s.noteCache.Invalidate(ctx, note.UserId, req.UserId)
	return nil
}

func (s *noteService) AddLabel(ctx context.Context, userId uuid.UUID, req *dto.NoteLabelRequest) error {
	note, err := s.loadWritable(ctx, userId, req.NoteId)
	if err != nil {
		return err
	}

	label, err := s.labelRepository.GetById(ctx, req.LabelId)
	if err != nil {
		return err
	}
	if label.UserId != userId {
		// labels are private: someone else's label is indistinguishable
		// from a missing one
		return serverutils.ErrNotFound
	}

	if err := s.labelRepository.Attach(ctx, note.Id, label.Id); err != nil {
		return err
	}

	s.invalidateAffected(ctx, note)
	return nil
}

func (s *noteService) RemoveLabel(ctx context.Context, userId uuid.UUID, req *dto.NoteLabelRequest) error {
	note, err := s.loadWritable(ctx, userId, req.NoteId)
	if err != nil {
		return err
	}

	label, err := s.labelRepository.GetById(ctx, req.LabelId)
	if err != nil {
		return err
	}
	if label.UserId != userId {
		return serverutils.ErrNotFound
	}

	if err := s.labelRepository.Detach(ctx, note.Id, label.Id); err != nil {
		return err
	}

	s.invalidateAffected(ctx, note)
	return nil
}

func (s *noteService) AttachImage(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, fileName string, content io.ReadSeeker) (*dto.AttachImageResponse, error) {
	note, err := s.loadWritable(ctx, userId, noteId)
	if err != nil {
		return nil, err
	}

	allowed, _, err := s.objectStore.ValidateAllowedMime(content, []string{"image/jpeg", "image/png", "image/gif", "image/webp"})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, serverutils.ErrInvalidFile
	}

	key, err := s.objectStore.Upload(ctx, s.imageBucket, fileName, content)
	if err != nil {
		return nil, err
	}

	previousKey := note.ImageKey
	note.ImageKey = key
	if err := s.noteRepository.Update(ctx, note); err != nil {
		return nil, err
	}

	if previousKey != "" {
		if err := s.objectStore.Delete(ctx, s.imageBucket, previousKey); err != nil {
			log.Errorf("[Note] failed to delete replaced image %s: %v", previousKey, err)
		}
	}

	s.invalidateAffected(ctx, note)

	return &dto.AttachImageResponse{Id: note.Id, ImageKey: key}, nil
}

// loadWritable resolves a note for mutation. Inaccessible notes surface as
// not-found; a read-only collaborator gets forbidden, since read access
// already disclosed the note's existence.
func (s *noteService) loadWritable(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*entity.Note, error) {
	note, err := s.noteRepository.GetById(ctx, noteId)
	if err != nil {
		return nil, err
	}

	canRead, err := s.accessPolicy.CanRead(ctx, userId, note)
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, serverutils.ErrNotFound
	}

	canWrite, err := s.accessPolicy.CanWrite(ctx, userId, note)
	if err != nil {
		return nil, err
	}
	if !canWrite {
		return nil, serverutils.ErrForbidden
	}

	return note, nil
}

// loadOwned gates owner-only operations: delete and collaborator
// management.
func (s *noteService) loadOwned(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*entity.Note, error) {
	note, err := s.noteRepository.GetById(ctx, noteId)
	if err != nil {
		return nil, err
	}

	if note.UserId != userId {
		canRead, err := s.accessPolicy.CanRead(ctx, userId, note)
		if err != nil {
			return nil, err
		}
		if canRead {
			return nil, serverutils.ErrForbidden
		}
		return nil, serverutils.ErrNotFound
	}

	return note, nil
}

// invalidateAffected drops the cache entry of the owner and every
// collaborator, synchronously, after the store write and before the
// response.
func (s *noteService) invalidateAffected(ctx context.Context, note *entity.Note) {
	userIds := []uuid.UUID{note.UserId}

	collaboratorIds, err := s.collaboratorRepository.ListUserIdsByNote(ctx, note.Id)
	if err != nil {
		// cannot resolve the full audience; the owner's entry is still
		// dropped and the rest self-heal via their next mutation or TTL
		log.Errorf("[Note] failed to list collaborators of %s: %v", note.Id, err)
	} else {
		userIds = append(userIds, collaboratorIds...)
	}

	s.noteCache.Invalidate(ctx, userIds...)
}

// scheduleReminder publishes a deferred reminder job when the mutation set
// or changed the reminder on a note that is neither archived nor trashed.
// The consumer re-checks note state at fire time.
func (s *noteService) scheduleReminder(ctx context.Context, note *entity.Note, prevReminder *time.Time) {
	if note.Reminder == nil || note.IsArchived || note.IsTrashed {
		return
	}
	if prevReminder != nil && prevReminder.Equal(*note.Reminder) {
		return
	}

	payload, err := json.Marshal(dto.ScheduleReminderMessage{
		NoteId: note.Id,
		FireAt: *note.Reminder,
	})
	if err != nil {
		log.Errorf("[Reminder] failed to marshal schedule message for %s: %v", note.Id, err)
		return
	}

	if err := s.reminderPublisher.Publish(ctx, payload); err != nil {
		// scheduling is best-effort; the store already holds the reminder
		log.Errorf("[Reminder] failed to schedule for note %s: %v", note.Id, err)
	}
}
