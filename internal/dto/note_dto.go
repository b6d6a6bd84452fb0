package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Reminder    *time.Time `json:"reminder"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateNoteRequest struct {
	Id          uuid.UUID
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Reminder    *time.Time `json:"reminder"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// NoteView is the representation stored in the per-user cache entry and
// returned from list/detail endpoints.
type NoteView struct {
	Id          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Color       string      `json:"color"`
	ImageKey    string      `json:"image_key,omitempty"`
	IsArchived  bool        `json:"is_archived"`
	IsTrashed   bool        `json:"is_trashed"`
	Reminder    *time.Time  `json:"reminder"`
	OwnerId     uuid.UUID   `json:"owner_id"`
	Labels      []LabelView `json:"labels"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at"`
}

type AddCollaboratorRequest struct {
	NoteId     uuid.UUID
	UserId     uuid.UUID `json:"user_id" validate:"required"`
	AccessType string    `json:"access_type" validate:"omitempty,oneof=READ_WRITE READ_ONLY"`
}

type RemoveCollaboratorRequest struct {
	NoteId uuid.UUID
	UserId uuid.UUID `json:"user_id" validate:"required"`
}

type NoteLabelRequest struct {
	NoteId  uuid.UUID
	LabelId uuid.UUID `json:"label_id" validate:"required"`
}

type ToggleNoteResponse struct {
	Id         uuid.UUID `json:"id"`
	IsArchived bool      `json:"is_archived"`
	IsTrashed  bool      `json:"is_trashed"`
}

type AttachImageResponse struct {
	Id       uuid.UUID `json:"id"`
	ImageKey string    `json:"image_key"`
}

// ScheduleReminderMessage travels over the reminder topic.
type ScheduleReminderMessage struct {
	NoteId uuid.UUID `json:"note_id"`
	FireAt time.Time `json:"fire_at"`
}
