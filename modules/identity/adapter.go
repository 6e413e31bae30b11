package identity

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// IdentityPort is what other modules use to reach the identity store.
type IdentityPort interface {
	Register(ctx context.Context, username, password1, password2 string) (*domain.User, error)
	Lookup(ctx context.Context, username string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// IdentityAdapter implements IdentityPort using the service container.
type IdentityAdapter struct {
	container mono.ServiceContainer
}

var _ IdentityPort = (*IdentityAdapter)(nil)

// NewIdentityAdapter creates a new IdentityAdapter.
func NewIdentityAdapter(container mono.ServiceContainer) *IdentityAdapter {
	return &IdentityAdapter{container: container}
}

// Register creates an account.
func (a *IdentityAdapter) Register(ctx context.Context, username, password1, password2 string) (*domain.User, error) {
	req := RegisterRequest{Username: username, Password1: password1, Password2: password2}
	return callUser(ctx, a.container, "register", &req)
}

// Lookup finds an account by username.
func (a *IdentityAdapter) Lookup(ctx context.Context, username string) (*domain.User, error) {
	req := LookupRequest{Username: username}
	return callUser(ctx, a.container, "lookup", &req)
}

// Authenticate verifies credentials.
func (a *IdentityAdapter) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	req := AuthenticateRequest{Username: username, Password: password}
	return callUser(ctx, a.container, "authenticate", &req)
}

// GetUser retrieves a user by ID.
func (a *IdentityAdapter) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	req := GetUserRequest{UserID: userID}
	return callUser(ctx, a.container, "get-user", &req)
}

func callUser[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*domain.User, error) {
	var resp UserReply
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	return replyToUser(resp)
}

// replyToUser turns a UserReply back into a user or a domain error.
func replyToUser(resp UserReply) (*domain.User, error) {
	if err := domain.FromCode(resp.Error, resp.Fields); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("empty identity reply")
	}
	return &domain.User{
		ID:        resp.User.ID,
		Username:  resp.User.Username,
		CreatedAt: resp.User.CreatedAt,
	}, nil
}
