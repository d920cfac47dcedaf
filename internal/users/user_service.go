package users

import (
	"context"
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserDisabled     = errors.New("user account is disabled")
	ErrWrongCredentials = errors.New("wrong email or password")
)

type CreateUserOptions struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserService struct {
	userRepo UserRepository
}

func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Authenticate verifies credentials and rejects disabled accounts. The
// credential error is deliberately the same for unknown email and wrong
// password.
func (s *UserService) Authenticate(ctx context.Context, email string, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrWrongCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrWrongCredentials
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := model.User{
		Name:     opts.Name,
		Email:    opts.Email,
		Password: string(passwordHash),
		Role:     opts.Role,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetDisabled flips the active flag; a disabled user is forced out on their
// next request by the role middleware.
func (s *UserService) SetDisabled(ctx context.Context, userID uint, disabled bool) error {
	return s.userRepo.Updates(ctx, userID, map[string]interface{}{"disabled": disabled})
}
