package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/repository"
	"fundoo-notes-be/pkg/cache"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// INoteCacheService mediates every note read through a per-user cache
// entry holding the user's active visible set, and deletes that entry on
// every mutation. The store stays the source of truth; the cache is a
// disposable derived view, so any cache failure falls back to the store.
type INoteCacheService interface {
	GetCollection(ctx context.Context, userId uuid.UUID) ([]*dto.NoteView, error)
	ListView(ctx context.Context, userId uuid.UUID, view string) ([]*dto.NoteView, error)
	GetOne(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.NoteView, error)
	Invalidate(ctx context.Context, userIds ...uuid.UUID)
}

type noteCacheService struct {
	noteRepository  repository.INoteRepository
	labelRepository repository.ILabelRepository
	cache           cache.ICache
	ttl             time.Duration
}

// NewNoteCacheService takes an injected cache handle; ttl = 0 keeps
// entries until invalidation, a positive ttl bounds staleness after a
// missed invalidation.
func NewNoteCacheService(
	noteRepository repository.INoteRepository,
	labelRepository repository.ILabelRepository,
	cacheClient cache.ICache,
	ttl time.Duration,
) INoteCacheService {
	return &noteCacheService{
		noteRepository:  noteRepository,
		labelRepository: labelRepository,
		cache:           cacheClient,
		ttl:             ttl,
	}
}

func collectionKey(userId uuid.UUID) string {
	return fmt.Sprintf("notes:%s", userId)
}

func (s *noteCacheService) GetCollection(ctx context.Context, userId uuid.UUID) ([]*dto.NoteView, error) {
	key := collectionKey(userId)

	payload, hit, err := s.cache.Get(ctx, key)
	if err == nil && hit {
		var views []*dto.NoteView
		if err := json.Unmarshal(payload, &views); err == nil {
			return views, nil
		}
		// a malformed entry is dropped and rebuilt from the store
		log.Warnf("[NoteCache] malformed entry for user %s, rebuilding", userId)
		_ = s.cache.Delete(ctx, key)
	}

	views, err := s.loadCollection(ctx, userId)
	if err != nil {
		return nil, err
	}

	s.populate(ctx, key, views)
	return views, nil
}

// ListView serves the active view through the cache; archived and trashed
// views are read straight from the store and stay uncached.
func (s *noteCacheService) ListView(ctx context.Context, userId uuid.UUID, view string) ([]*dto.NoteView, error) {
	if view == "" || view == constant.NoteViewActive {
		return s.GetCollection(ctx, userId)
	}

	notes, err := s.noteRepository.ListVisible(ctx, userId, view)
	if err != nil {
		return nil, err
	}
	return s.assembleViews(ctx, notes)
}

// GetOne short-circuits through the cached collection before touching the
// store. A note missing from the cache entry can still be visible (the
// entry only holds the active view), so absence falls through to a
// predicate-filtered store lookup.
func (s *noteCacheService) GetOne(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.NoteView, error) {
	payload, hit, err := s.cache.Get(ctx, collectionKey(userId))
	if err == nil && hit {
		var views []*dto.NoteView
		if err := json.Unmarshal(payload, &views); err == nil {
			for _, view := range views {
				if view.Id == noteId {
					return view, nil
				}
			}
		}
	}

	note, err := s.noteRepository.GetVisibleById(ctx, noteId, userId)
	if err != nil {
		// absent and inaccessible both surface as ErrNotFound
		return nil, err
	}

	views, err := s.assembleViews(ctx, []*entity.Note{note})
	if err != nil {
		return nil, err
	}

	// store hit with a cold or stale entry: repopulate so the next list
	// read is served from cache
	if fresh, err := s.loadCollection(ctx, userId); err == nil {
		s.populate(ctx, collectionKey(userId), fresh)
	}

	return views[0], nil
}

// Invalidate drops the cache entries of every affected user. Deleting an
// absent key is a no-op, so repeated invalidation is harmless. Cache
// errors are logged and swallowed: the next read degrades to the store.
func (s *noteCacheService) Invalidate(ctx context.Context, userIds ...uuid.UUID) {
	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, collectionKey(id))
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Errorf("[NoteCache] invalidation failed for %v: %v", userIds, err)
	}
}

func (s *noteCacheService) loadCollection(ctx context.Context, userId uuid.UUID) ([]*dto.NoteView, error) {
	notes, err := s.noteRepository.ListVisible(ctx, userId, constant.NoteViewActive)
	if err != nil {
		return nil, err
	}
	return s.assembleViews(ctx, notes)
}

func (s *noteCacheService) populate(ctx context.Context, key string, views []*dto.NoteView) {
	payload, err := json.Marshal(views)
	if err != nil {
		log.Errorf("[NoteCache] serialization failed for %s: %v", key, err)
		return
	}

	// no locking: concurrent misses may both write, last writer wins;
	// every subsequent mutation still invalidates
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		log.Errorf("[NoteCache] population failed for %s: %v", key, err)
	}
}

func (s *noteCacheService) assembleViews(ctx context.Context, notes []*entity.Note) ([]*dto.NoteView, error) {
	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.Id)
	}

	labelsByNote := make(map[uuid.UUID][]dto.LabelView)
	if len(ids) > 0 {
		edges, err := s.labelRepository.GetByNoteIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			labelsByNote[edge.NoteId] = append(labelsByNote[edge.NoteId], dto.LabelView{
				Id:    edge.Label.Id,
				Name:  edge.Label.Name,
				Color: edge.Label.Color,
			})
		}
	}

	views := make([]*dto.NoteView, 0, len(notes))
	for _, n := range notes {
		labels := labelsByNote[n.Id]
		if labels == nil {
			labels = make([]dto.LabelView, 0)
		}
		views = append(views, &dto.NoteView{
			Id:          n.Id,
			Title:       n.Title,
			Description: n.Description,
			Color:       n.Color,
			ImageKey:    n.ImageKey,
			IsArchived:  n.IsArchived,
			IsTrashed:   n.IsTrashed,
			Reminder:    n.Reminder,
			OwnerId:     n.UserId,
			Labels:      labels,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
	}

	return views, nil
}
