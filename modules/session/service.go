package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	nanoid "github.com/jaevor/go-nanoid"
)

// SessionIDLength is the nanoid length used for session ids.
const SessionIDLength = 21

// SessionService issues, resolves and destroys sessions.
type SessionService struct {
	store  Store
	tokens *TokenManager
	newID  func() string
	now    func() time.Time
}

// NewSessionService creates a SessionService.
func NewSessionService(store Store, tokens *TokenManager) (*SessionService, error) {
	gen, err := nanoid.Standard(SessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create session id generator: %w", err)
	}
	return &SessionService{
		store:  store,
		tokens: tokens,
		newID:  gen,
		now:    time.Now,
	}, nil
}

// Create starts a session for the user and returns the bound Session value.
func (s *SessionService) Create(ctx context.Context, userID, username string) (domain.Session, error) {
	if userID == "" {
		return domain.Session{}, fmt.Errorf("user id is required")
	}

	now := s.now()
	record := &Record{
		ID:        s.newID(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	if err := s.store.Save(ctx, record); err != nil {
		return domain.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.tokens.Issue(record.ID, userID, username, now)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return domain.Session{Token: token, UserID: userID, Username: username}, nil
}

// Resolve maps a token onto its Session. Unusable tokens resolve to the
// anonymous session without error; only store failures are returned.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Session{}, nil
	}

	record, err := s.store.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	if record.UserID != claims.UserID {
		return domain.Session{}, nil
	}

	return domain.Session{Token: token, UserID: record.UserID, Username: record.Username}, nil
}

// Destroy ends the session behind a token. It always succeeds from the
// caller's point of view; store errors are logged.
func (s *SessionService) Destroy(ctx context.Context, token string) {
	if token == "" {
		return
	}
	// Expired or forged tokens have nothing live to delete.
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return
	}
	if err := s.store.Delete(ctx, claims.SessionID); err != nil {
		log.Printf("[session] Warning: failed to delete session %s: %v", claims.SessionID, err)
	}
}
