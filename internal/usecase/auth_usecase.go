package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/validator"
	"sunushop-backend/pkg/utils"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=20"`
	Role      string `json:"role" validate:"omitempty,oneof=customer vendor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *domain.User `json:"user"`
}

type AuthUsecase struct {
	userRepo          domain.UserRepository
	accessTokenExpiry time.Duration
}

func NewAuthUsecase(userRepo domain.UserRepository, atExpiry time.Duration) *AuthUsecase {
	return &AuthUsecase{
		userRepo:          userRepo,
		accessTokenExpiry: atExpiry,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	user := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			appErr := domain.NewConflictError(domain.CodeEmailTaken, "Un compte existe déjà avec cette adresse e-mail")
			appErr.Field = "email"
			return nil, appErr
		}
		slog.Error("Usecase: Register - create user failed", "error", err)
		return nil, err
	}

	slog.Info("Usecase: Register", "userId", user.ID, "role", user.Role)
	return u.issue(user)
}

func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	invalid := &domain.AppError{
		Code:     domain.CodeInvalidCredentials,
		Category: domain.CategoryUnauthorized,
		Message:  "E-mail ou mot de passe incorrect",
		Err:      domain.ErrUnauthorized,
	}

	user, err := u.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		slog.Warn("Usecase: Login - bad password", "userId", user.ID)
		return nil, invalid
	}

	return u.issue(user)
}

func (u *AuthUsecase) issue(user *domain.User) (*AuthResult, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, u.accessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(u.accessTokenExpiry),
		User:        user,
	}, nil
}

func (u *AuthUsecase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Utilisateur")
	}
	return user, nil
}

func (u *AuthUsecase) GetAllUsers(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.userRepo.GetAll(ctx, limit, offset)
}
