package session

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SessionPort is what the web layer uses to manage sessions.
type SessionPort interface {
	Create(ctx context.Context, userID, username string) (domain.Session, error)
	Resolve(ctx context.Context, token string) (domain.Session, error)
	Destroy(ctx context.Context, token string) error
}

// SessionAdapter implements SessionPort using the service container.
type SessionAdapter struct {
	container mono.ServiceContainer
}

var _ SessionPort = (*SessionAdapter)(nil)

// NewSessionAdapter creates a new SessionAdapter.
func NewSessionAdapter(container mono.ServiceContainer) *SessionAdapter {
	return &SessionAdapter{container: container}
}

// Create starts a session.
func (a *SessionAdapter) Create(ctx context.Context, userID, username string) (domain.Session, error) {
	req := CreateRequest{UserID: userID, Username: username}
	var resp SessionReply

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return domain.Session{}, fmt.Errorf("create request failed: %w", err)
	}
	return domain.Session{Token: resp.Token, UserID: resp.UserID, Username: resp.Username}, nil
}

// Resolve maps a token onto a session.
func (a *SessionAdapter) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, nil
	}
	req := TokenRequest{Token: token}
	var resp SessionReply

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"resolve",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return domain.Session{}, fmt.Errorf("resolve request failed: %w", err)
	}
	return domain.Session{Token: resp.Token, UserID: resp.UserID, Username: resp.Username}, nil
}

// Destroy ends a session.
func (a *SessionAdapter) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	req := TokenRequest{Token: token}
	var resp DestroyReply

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"destroy",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	return nil
}
