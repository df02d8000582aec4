package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"pharmacy-backend/internal/config"
	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Get(ctx context.Context, userID uint) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetActive(ctx context.Context, userID uint, active bool) error
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	authCfg  *config.Auth
}

func NewUserService(userRepo repository.UserRepository, authCfg *config.Auth) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		authCfg:  authCfg,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Wrap(apperr.ErrValidation, "invalid email address")
	}
	if len(password) < 8 {
		return nil, apperr.Wrap(apperr.ErrValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         "customer",
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrValidation, "invalid credentials")
	}
	if !user.Active {
		return "", apperr.Wrap(apperr.ErrValidation, "account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperr.Wrap(apperr.ErrValidation, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"exp":  time.Now().Add(time.Duration(s.authCfg.TokenTTLHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *userServiceImpl) Get(ctx context.Context, userID uint) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userServiceImpl) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userServiceImpl) SetActive(ctx context.Context, userID uint, active bool) error {
	return s.userRepo.SetActive(ctx, userID, active)
}
