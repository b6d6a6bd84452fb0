package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/require"
)

type authHarness struct {
	users     *fakeUserRepository
	tokens    *serverutils.TokenManager
	publisher *fakePublisher
	service   IAuthService
}

func newAuthHarness() *authHarness {
	users := newFakeUserRepository()
	tokens := serverutils.NewTokenManager("test-secret", time.Hour, time.Hour)
	publisher := &fakePublisher{}
	return &authHarness{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		service:   NewAuthService(users, tokens, publisher, "http://localhost:3000"),
	}
}

func (h *authHarness) register(t *testing.T) *dto.RegisterResponse {
	t.Helper()
	res, err := h.service.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return res
}

// verificationToken digs the token out of the queued mail link.
func (h *authHarness) verificationToken(t *testing.T) string {
	t.Helper()
	published := h.publisher.published()
	require.NotEmpty(t, published)

	var mail dto.VerificationMailMessage
	require.NoError(t, json.Unmarshal(published[len(published)-1], &mail))

	_, token, found := strings.Cut(mail.Link, "token=")
	require.True(t, found)
	return token
}

func TestRegisterQueuesVerificationMail(t *testing.T) {
	h := newAuthHarness()
	res := h.register(t)
	require.Equal(t, "alice@example.com", res.Email)

	published := h.publisher.published()
	require.Len(t, published, 1)

	var mail dto.VerificationMailMessage
	require.NoError(t, json.Unmarshal(published[0], &mail))
	require.Equal(t, "alice@example.com", mail.Email)
	require.Contains(t, mail.Link, "/api/v1/user/verify?token=")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h := newAuthHarness()
	h.register(t)

	_, err := h.service.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice again",
		Email:    "alice@example.com",
		Password: "another pass",
	})
	require.ErrorIs(t, err, serverutils.ErrBadRequest)
}

func TestRegisterSurvivesQueueFailure(t *testing.T) {
	h := newAuthHarness()
	h.publisher.failNext = true

	res, err := h.service.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestLoginRequiresVerifiedAccount(t *testing.T) {
	ctx := context.Background()
	h := newAuthHarness()
	h.register(t)

	login := &dto.LoginRequest{Email: "alice@example.com", Password: "correct horse"}

	// unverified account
	_, err := h.service.Login(ctx, login)
	require.ErrorIs(t, err, serverutils.ErrUnauthorized)

	require.NoError(t, h.service.VerifyEmail(ctx, h.verificationToken(t)))

	res, err := h.service.Login(ctx, login)
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	h := newAuthHarness()
	h.register(t)
	require.NoError(t, h.service.VerifyEmail(ctx, h.verificationToken(t)))

	_, err := h.service.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, serverutils.ErrUnauthorized)

	_, err = h.service.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	require.ErrorIs(t, err, serverutils.ErrUnauthorized)
}

func TestVerifyEmailRejectsAccessTokens(t *testing.T) {
	ctx := context.Background()
	h := newAuthHarness()
	res := h.register(t)

	// an access token carries the wrong purpose claim
	accessToken, err := h.tokens.IssueAccessToken(res.Id)
	require.NoError(t, err)

	err = h.service.VerifyEmail(ctx, accessToken)
	require.ErrorIs(t, err, serverutils.ErrUnauthorized)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newAuthHarness()
	res := h.register(t)
	require.NoError(t, h.service.VerifyEmail(ctx, h.verificationToken(t)))

	login, err := h.service.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	userId, err := h.tokens.Parse(login.AccessToken, constant.TokenPurposeAccess)
	require.NoError(t, err)
	require.Equal(t, res.Id, userId)
}
