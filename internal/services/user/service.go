// Package user handles registration and login. Registration creates the user
// row and their wallet in one atomic unit, so no user ever exists without a
// wallet.
package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"kobo/internal/models"
	"kobo/internal/repositories"
	"kobo/internal/services/auth"
)

var (
	ErrBlacklisted        = errors.New("user is blacklisted")
	ErrDuplicateUser      = errors.New("email or phone already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const bcryptCost = 10

// RegisterInput carries the registration fields after shape validation.
type RegisterInput struct {
	Email     string
	Phone     string
	FirstName string
	LastName  string
	BVN       string
	Password  string
}

// Service manages users and their sessions.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, *models.Wallet, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type service struct {
	users     repositories.UserRepository
	units     repositories.UnitOfWork
	blacklist BlacklistChecker
	auth      auth.Service
}

func NewService(users repositories.UserRepository, units repositories.UnitOfWork, blacklist BlacklistChecker, authService auth.Service) Service {
	if users == nil {
		panic("user repository is required")
	}
	if units == nil {
		panic("unit of work is required")
	}
	if authService == nil {
		panic("auth service is required")
	}
	if blacklist == nil {
		blacklist = AllowAll{}
	}
	return &service{
		users:     users,
		units:     units,
		blacklist: blacklist,
		auth:      authService,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, *models.Wallet, error) {
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, input.BVN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, nil, ErrBlacklisted
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		Phone:        input.Phone,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		BVN:          input.BVN,
	}

	var wallet *models.Wallet
	err = s.units.Atomically(ctx, func(tx repositories.Stores) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		wallet, err = tx.Wallets.CreateForUser(ctx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, nil, ErrDuplicateUser
		}
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, wallet, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsBlacklisted {
		return nil, "", ErrBlacklisted
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
