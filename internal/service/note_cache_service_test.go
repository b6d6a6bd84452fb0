package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type cacheHarness struct {
	notes         *fakeNoteRepository
	collaborators *fakeCollaboratorRepository
	labels        *fakeLabelRepository
	cache         *fakeCache
	service       INoteCacheService
}

func newCacheHarness() *cacheHarness {
	collaborators := newFakeCollaboratorRepository()
	notes := newFakeNoteRepository(collaborators)
	labels := newFakeLabelRepository()
	fc := newFakeCache()
	return &cacheHarness{
		notes:         notes,
		collaborators: collaborators,
		labels:        labels,
		cache:         fc,
		service:       NewNoteCacheService(notes, labels, fc, 0),
	}
}

func (h *cacheHarness) seedNote(owner uuid.UUID, title string, archived, trashed bool) *entity.Note {
	note := &entity.Note{
		Id:         uuid.New(),
		Title:      title,
		UserId:     owner,
		IsArchived: archived,
		IsTrashed:  trashed,
		CreatedAt:  time.Now(),
	}
	h.notes.notes[note.Id] = note
	return note
}

func TestGetCollectionPopulatesAndServesFromCache(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	note := h.seedNote(owner, "groceries", false, false)

	views, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, note.Id, views[0].Id)
	require.True(t, h.cache.has(collectionKey(owner)))
	require.Equal(t, 1, h.notes.listVisibleCalls)

	// second read is a cache hit, the store stays untouched
	views, err = h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, 1, h.notes.listVisibleCalls)
}

func TestGetCollectionHoldsOnlyActiveNotes(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	active := h.seedNote(owner, "active", false, false)
	h.seedNote(owner, "archived", true, false)
	h.seedNote(owner, "trashed", false, true)
	h.seedNote(owner, "archived then trashed", true, true)

	views, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, active.Id, views[0].Id)
}

func TestListViewArchivedAndTrashedBypassCache(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	h.seedNote(owner, "archived", true, false)
	trashed := h.seedNote(owner, "trashed", true, true)

	archived, err := h.service.ListView(ctx, owner, constant.NoteViewArchived)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, "archived", archived[0].Title)

	// trash wins over archive
	trash, err := h.service.ListView(ctx, owner, constant.NoteViewTrashed)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	require.Equal(t, trashed.Id, trash[0].Id)

	require.Zero(t, h.cache.setCalls)
	require.False(t, h.cache.has(collectionKey(owner)))
}

func TestGetOneServedFromCachedCollection(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	noteId := uuid.New()

	// only the cache knows this note; a store round trip would miss
	payload, err := json.Marshal([]*dto.NoteView{{Id: noteId, Title: "cached only", OwnerId: owner}})
	require.NoError(t, err)
	h.cache.data[collectionKey(owner)] = payload

	view, err := h.service.GetOne(ctx, owner, noteId)
	require.NoError(t, err)
	require.Equal(t, "cached only", view.Title)
}

func TestGetOneFallsThroughForArchivedNote(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	archived := h.seedNote(owner, "archived", true, false)

	// warm the cache so the entry exists but excludes the archived note
	_, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)

	view, err := h.service.GetOne(ctx, owner, archived.Id)
	require.NoError(t, err)
	require.Equal(t, archived.Id, view.Id)
	require.True(t, view.IsArchived)
}

func TestGetOneNotFoundIsUniform(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	stranger := uuid.New()
	note := h.seedNote(owner, "private", false, false)

	// absent note
	_, err := h.service.GetOne(ctx, owner, uuid.New())
	require.ErrorIs(t, err, serverutils.ErrNotFound)

	// existing but inaccessible note reads exactly the same
	_, err = h.service.GetOne(ctx, stranger, note.Id)
	require.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestMalformedCacheEntryIsRebuilt(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	note := h.seedNote(owner, "fresh", false, false)

	h.cache.data[collectionKey(owner)] = []byte("{not json")

	views, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, note.Id, views[0].Id)

	// the bad entry was replaced with a well formed one
	var rebuilt []*dto.NoteView
	require.NoError(t, json.Unmarshal(h.cache.data[collectionKey(owner)], &rebuilt))
	require.Len(t, rebuilt, 1)
}

func TestCacheFailureDegradesToStore(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	note := h.seedNote(owner, "resilient", false, false)

	h.cache.failGet = true
	h.cache.failSet = true

	views, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, note.Id, views[0].Id)

	view, err := h.service.GetOne(ctx, owner, note.Id)
	require.NoError(t, err)
	require.Equal(t, note.Id, view.Id)
}

func TestInvalidateIsIdempotentAndSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	h.seedNote(owner, "note", false, false)

	_, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.True(t, h.cache.has(collectionKey(owner)))

	h.service.Invalidate(ctx, owner)
	require.False(t, h.cache.has(collectionKey(owner)))

	// deleting an absent key is a no-op
	h.service.Invalidate(ctx, owner)
	h.service.Invalidate(ctx, owner, uuid.New())

	// an unreachable cache does not surface to the caller
	h.cache.failDelete = true
	h.service.Invalidate(ctx, owner)
}

func TestCollectionViewsCarryLabels(t *testing.T) {
	ctx := context.Background()
	h := newCacheHarness()
	owner := uuid.New()
	note := h.seedNote(owner, "labelled", false, false)

	label := &entity.Label{Id: uuid.New(), Name: "work", Color: "#fff", UserId: owner, CreatedAt: time.Now()}
	require.NoError(t, h.labels.Create(ctx, label))
	require.NoError(t, h.labels.Attach(ctx, note.Id, label.Id))

	views, err := h.service.GetCollection(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Labels, 1)
	require.Equal(t, "work", views[0].Labels[0].Name)
}
