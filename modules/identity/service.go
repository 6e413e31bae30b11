package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/google/uuid"
)

// IdentityService holds account rules: registration, lookup and
// credential verification.
type IdentityService struct {
	repo   *UserRepository
	hasher *PasswordHasher
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(repo *UserRepository, hasher *PasswordHasher) *IdentityService {
	return &IdentityService{
		repo:   repo,
		hasher: hasher,
	}
}

// Register creates an account. The username is normalized before it is
// validated and stored, so "Bob" and "bob" name the same account.
// Rejected input is returned as a *domain.ValidationError.
func (s *IdentityService) Register(ctx context.Context, username, password1, password2 string) (*domain.User, error) {
	username = NormalizeUsername(username)

	verr := domain.NewValidationError()
	validateUsername(username, verr)
	validatePasswords(password1, password2, verr)

	if _, bad := verr.Fields["username"]; !bad {
		exists, err := s.repo.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username existence: %w", err)
		}
		if exists {
			verr.Add("username", MsgUsernameTaken)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	passwordHash, err := s.hasher.Hash(password1)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			// Lost a race with a concurrent registration.
			verr.Add("username", MsgUsernameTaken)
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Lookup finds an account by username, normalizing it first.
func (s *IdentityService) Lookup(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.ErrUserDoesNotExist
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username and password pair.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *IdentityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
