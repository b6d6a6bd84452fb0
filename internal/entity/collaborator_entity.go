package entity

import (
	"time"

	"github.com/google/uuid"
)

// Collaborator grants a user access to a note they do not own. The grant's
// user must never be the note's owner.
type Collaborator struct {
	Id         uuid.UUID
	NoteId     uuid.UUID
	UserId     uuid.UUID
	AccessType string
	CreatedAt  time.Time
}
