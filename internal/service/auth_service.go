package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/entity"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/repository"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepository repository.IUserRepository
	tokens         *serverutils.TokenManager
	mailPublisher  IPublisherService
	verifyBaseURL  string
}

func NewAuthService(
	userRepository repository.IUserRepository,
	tokens *serverutils.TokenManager,
	mailPublisher IPublisherService,
	verifyBaseURL string,
) IAuthService {
	return &authService{
		userRepository: userRepository,
		tokens:         tokens,
		mailPublisher:  mailPublisher,
		verifyBaseURL:  verifyBaseURL,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	_, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, serverutils.ErrBadRequest
	}
	if !errors.Is(err, serverutils.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsVerified:   false,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepository.Create(ctx, &user); err != nil {
		return nil, err
	}

	s.publishVerificationMail(ctx, &user)

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	userId, err := s.tokens.Parse(token, constant.TokenPurposeVerification)
	if err != nil {
		return err
	}

	if _, err := s.userRepository.GetById(ctx, userId); err != nil {
		return err
	}

	return s.userRepository.MarkVerified(ctx, userId)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, serverutils.ErrNotFound) {
			// wrong email and wrong password look the same
			return nil, serverutils.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.ErrUnauthorized
	}

	if !user.IsVerified {
		return nil, serverutils.ErrUnauthorized
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{AccessToken: accessToken}, nil
}

// publishVerificationMail is best-effort: registration succeeds even when
// the mail job cannot be queued, the user can request a fresh link later.
func (s *authService) publishVerificationMail(ctx context.Context, user *entity.User) {
	token, err := s.tokens.IssueVerificationToken(user.Id)
	if err != nil {
		log.Errorf("[Auth] failed to issue verification token for %s: %v", user.Id, err)
		return
	}

	payload, err := json.Marshal(dto.VerificationMailMessage{
		Email: user.Email,
		Link:  fmt.Sprintf("%s/api/v1/user/verify?token=%s", s.verifyBaseURL, token),
	})
	if err != nil {
		log.Errorf("[Auth] failed to marshal verification mail for %s: %v", user.Id, err)
		return
	}

	if err := s.mailPublisher.Publish(ctx, payload); err != nil {
		log.Errorf("[Auth] failed to queue verification mail for %s: %v", user.Id, err)
	}
}
