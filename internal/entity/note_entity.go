package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id          uuid.UUID
	Title       string
	Description string
	Color       string
	ImageKey    string
	IsArchived  bool
	IsTrashed   bool
	Reminder    *time.Time
	UserId      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
