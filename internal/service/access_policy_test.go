package service

import (
	"context"
	"testing"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicy(t *testing.T) {
	ctx := context.Background()

	owner := uuid.New()
	editor := uuid.New()
	viewer := uuid.New()
	stranger := uuid.New()

	collaborators := newFakeCollaboratorRepository()
	note := &entity.Note{Id: uuid.New(), Title: "shared", UserId: owner, CreatedAt: time.Now()}

	require.NoError(t, collaborators.Create(ctx, &entity.Collaborator{
		Id: uuid.New(), NoteId: note.Id, UserId: editor, AccessType: constant.AccessReadWrite,
	}))
	require.NoError(t, collaborators.Create(ctx, &entity.Collaborator{
		Id: uuid.New(), NoteId: note.Id, UserId: viewer, AccessType: constant.AccessReadOnly,
	}))

	policy := NewAccessPolicy(collaborators)

	cases := []struct {
		name     string
		userId   uuid.UUID
		canRead  bool
		canWrite bool
	}{
		{"owner", owner, true, true},
		{"read write collaborator", editor, true, true},
		{"read only collaborator", viewer, true, false},
		{"stranger", stranger, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			canRead, err := policy.CanRead(ctx, tc.userId, note)
			require.NoError(t, err)
			require.Equal(t, tc.canRead, canRead)

			canWrite, err := policy.CanWrite(ctx, tc.userId, note)
			require.NoError(t, err)
			require.Equal(t, tc.canWrite, canWrite)
		})
	}
}
