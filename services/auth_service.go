package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/costaendriw/delivery-system/models"
	repositories "github.com/costaendriw/delivery-system/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ITokenService interface {
	GenerateToken(userID, email string) (string, error)
}

type AuthService struct {
	userRepo     repositories.UserRepository
	tokenService ITokenService
}

func NewAuthService(userRepo repositories.UserRepository, tokenService ITokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokenService: tokenService}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password")
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid email or password")
	}

	return s.tokenService.GenerateToken(user.ID.String(), user.Email)
}
