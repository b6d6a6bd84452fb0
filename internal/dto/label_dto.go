package dto

import "github.com/google/uuid"

type CreateLabelRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

type UpdateLabelRequest struct {
	Id    uuid.UUID
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

type LabelView struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}
