package serverutils

import (
	"testing"

	"fundoo-notes-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestValidateRequestAcceptsValidPayload(t *testing.T) {
	err := ValidateRequest(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "long enough",
	})
	require.NoError(t, err)
}

func TestValidateRequestReportsFieldDetails(t *testing.T) {
	err := ValidateRequest(dto.RegisterRequest{
		Username: "alice",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	details := validationErr.ToErrorDetails()
	require.Len(t, details, 2)

	fields := []string{details[0].Field, details[1].Field}
	require.ElementsMatch(t, []string{"email", "password"}, fields)
}

func TestValidateRequestRejectsBadAccessType(t *testing.T) {
	err := ValidateRequest(dto.AddCollaboratorRequest{
		UserId:     uuid.New(),
		AccessType: "ADMIN",
	})
	require.Error(t, err)
}
