package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/repository"
	"fundoo-notes-be/pkg/database"

	"github.com/google/uuid"
)

var errCacheDown = errors.New("cache engine unavailable")

// fakeCache is an in-memory stand-in for the Redis wrapper with failure
// injection for the degradation paths.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte

	failGet    bool
	failSet    bool
	failDelete bool

	getCalls    int
	setCalls    int
	deleteCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if c.failGet {
		return nil, false, errCacheDown
	}
	val, ok := c.data[key]
	return val, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	if c.failSet {
		return errCacheDown
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteCalls++
	if c.failDelete {
		return errCacheDown
	}
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeCollaboratorRepository struct {
	grants map[uuid.UUID]map[uuid.UUID]*entity.Collaborator
}

func newFakeCollaboratorRepository() *fakeCollaboratorRepository {
	return &fakeCollaboratorRepository{grants: make(map[uuid.UUID]map[uuid.UUID]*entity.Collaborator)}
}

func (r *fakeCollaboratorRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.ICollaboratorRepository {
	return r
}

func (r *fakeCollaboratorRepository) Create(ctx context.Context, collaborator *entity.Collaborator) error {
	byUser, ok := r.grants[collaborator.NoteId]
	if !ok {
		byUser = make(map[uuid.UUID]*entity.Collaborator)
		r.grants[collaborator.NoteId] = byUser
	}
	byUser[collaborator.UserId] = collaborator
	return nil
}

func (r *fakeCollaboratorRepository) GetByNoteAndUser(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) (*entity.Collaborator, error) {
	if grant, ok := r.grants[noteId][userId]; ok {
		return grant, nil
	}
	return nil, serverutils.ErrNotFound
}

func (r *fakeCollaboratorRepository) ListUserIdsByNote(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	for userId := range r.grants[noteId] {
		ids = append(ids, userId)
	}
	return ids, nil
}

func (r *fakeCollaboratorRepository) DeleteByNoteAndUser(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) error {
	delete(r.grants[noteId], userId)
	return nil
}

func (r *fakeCollaboratorRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	delete(r.grants, noteId)
	return nil
}

type fakeNoteRepository struct {
	notes         map[uuid.UUID]*entity.Note
	collaborators *fakeCollaboratorRepository

	listVisibleCalls int
}

func newFakeNoteRepository(collaborators *fakeCollaboratorRepository) *fakeNoteRepository {
	return &fakeNoteRepository{
		notes:         make(map[uuid.UUID]*entity.Note),
		collaborators: collaborators,
	}
}

func (r *fakeNoteRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.INoteRepository {
	return r
}

func (r *fakeNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	copied := *note
	r.notes[note.Id] = &copied
	return nil
}

func (r *fakeNoteRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	note, ok := r.notes[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (r *fakeNoteRepository) GetVisibleById(ctx context.Context, id uuid.UUID, userId uuid.UUID) (*entity.Note, error) {
	note, ok := r.notes[id]
	if !ok || !r.visibleTo(note, userId) {
		return nil, serverutils.ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (r *fakeNoteRepository) ListVisible(ctx context.Context, userId uuid.UUID, view string) ([]*entity.Note, error) {
	r.listVisibleCalls++
	result := make([]*entity.Note, 0)
	for _, note := range r.notes {
		if !r.visibleTo(note, userId) {
			continue
		}
		switch view {
		case constant.NoteViewArchived:
			if !note.IsArchived || note.IsTrashed {
				continue
			}
		case constant.NoteViewTrashed:
			if !note.IsTrashed {
				continue
			}
		default:
			if note.IsArchived || note.IsTrashed {
				continue
			}
		}
		copied := *note
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	if _, ok := r.notes[note.Id]; !ok {
		return serverutils.ErrNotFound
	}
	copied := *note
	r.notes[note.Id] = &copied
	return nil
}

func (r *fakeNoteRepository) DeleteById(ctx context.Context, id uuid.UUID) error {
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepository) visibleTo(note *entity.Note, userId uuid.UUID) bool {
	if note.UserId == userId {
		return true
	}
	_, ok := r.collaborators.grants[note.Id][userId]
	return ok
}

type fakeLabelRepository struct {
	labels map[uuid.UUID]*entity.Label
	edges  map[uuid.UUID]map[uuid.UUID]bool

	affectedUserIds []uuid.UUID
}

func newFakeLabelRepository() *fakeLabelRepository {
	return &fakeLabelRepository{
		labels: make(map[uuid.UUID]*entity.Label),
		edges:  make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *fakeLabelRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.ILabelRepository {
	return r
}

func (r *fakeLabelRepository) Create(ctx context.Context, label *entity.Label) error {
	copied := *label
	r.labels[label.Id] = &copied
	return nil
}

func (r *fakeLabelRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Label, error) {
	label, ok := r.labels[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	copied := *label
	return &copied, nil
}

func (r *fakeLabelRepository) ListByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Label, error) {
	result := make([]*entity.Label, 0)
	for _, label := range r.labels {
		if label.UserId == userId {
			copied := *label
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeLabelRepository) Update(ctx context.Context, label *entity.Label) error {
	if _, ok := r.labels[label.Id]; !ok {
		return serverutils.ErrNotFound
	}
	copied := *label
	r.labels[label.Id] = &copied
	return nil
}

func (r *fakeLabelRepository) DeleteById(ctx context.Context, id uuid.UUID) error {
	delete(r.labels, id)
	for noteId := range r.edges {
		delete(r.edges[noteId], id)
	}
	return nil
}

func (r *fakeLabelRepository) Attach(ctx context.Context, noteId uuid.UUID, labelId uuid.UUID) error {
	byLabel, ok := r.edges[noteId]
	if !ok {
		byLabel = make(map[uuid.UUID]bool)
		r.edges[noteId] = byLabel
	}
	byLabel[labelId] = true
	return nil
}

func (r *fakeLabelRepository) Detach(ctx context.Context, noteId uuid.UUID, labelId uuid.UUID) error {
	delete(r.edges[noteId], labelId)
	return nil
}

func (r *fakeLabelRepository) GetByNoteIds(ctx context.Context, noteIds []uuid.UUID) ([]*repository.NoteLabel, error) {
	result := make([]*repository.NoteLabel, 0)
	for _, noteId := range noteIds {
		for labelId := range r.edges[noteId] {
			if label, ok := r.labels[labelId]; ok {
				result = append(result, &repository.NoteLabel{NoteId: noteId, Label: *label})
			}
		}
	}
	return result, nil
}

func (r *fakeLabelRepository) ListCollaboratorUserIdsByLabel(ctx context.Context, labelId uuid.UUID) ([]uuid.UUID, error) {
	return r.affectedUserIds, nil
}

func (r *fakeLabelRepository) DeleteEdgesByNoteId(ctx context.Context, noteId uuid.UUID) error {
	delete(r.edges, noteId)
	return nil
}

type fakeUserRepository struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.IUserRepository {
	return r
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	copied := *user
	r.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, serverutils.ErrNotFound
}

func (r *fakeUserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	user, ok := r.users[id]
	if !ok {
		return serverutils.ErrNotFound
	}
	user.IsVerified = true
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	failNext bool
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext {
		p.failNext = false
		return errors.New("publish failed")
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu        sync.Mutex
	sent      []sentMail
	failTimes int
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTimes > 0 {
		m.failTimes--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) sentMails() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}
