package identity

import (
	"context"
	"errors"
	"testing"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"golang.org/x/crypto/bcrypt"
)

func startTestModule(t *testing.T) *IdentityModule {
	t.Helper()

	m := NewModuleWithConfig(
		database.Config{Driver: database.DriverSQLite, Path: ":memory:"},
		NewPasswordHasherWithCost(bcrypt.MinCost),
	)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { m.Stop(context.Background()) })
	return m
}

func TestIdentityModule_Handlers(t *testing.T) {
	m := startTestModule(t)
	ctx := context.Background()

	reply, err := m.handleRegister(ctx, RegisterRequest{Username: "Erin", Password1: "correct-horse", Password2: "correct-horse"}, nil)
	if err != nil {
		t.Fatalf("handleRegister() error = %v", err)
	}
	if reply.Error != "" || reply.User == nil || reply.User.Username != "erin" {
		t.Fatalf("handleRegister() = %+v, want user erin", reply)
	}

	dup, err := m.handleRegister(ctx, RegisterRequest{Username: "ERIN", Password1: "correct-horse", Password2: "correct-horse"}, nil)
	if err != nil {
		t.Fatalf("handleRegister() duplicate error = %v", err)
	}
	if dup.Error != domain.CodeValidation || len(dup.Fields["username"]) == 0 {
		t.Errorf("handleRegister() duplicate = %+v, want validation failure on username", dup)
	}

	lookup, _ := m.handleLookup(ctx, LookupRequest{Username: "nobody"}, nil)
	if lookup.Error != domain.CodeUserDoesNotExist {
		t.Errorf("handleLookup() error code = %q, want %q", lookup.Error, domain.CodeUserDoesNotExist)
	}

	auth, _ := m.handleAuthenticate(ctx, AuthenticateRequest{Username: "erin", Password: "nope-nope"}, nil)
	if auth.Error != domain.CodeNotAuthenticated {
		t.Errorf("handleAuthenticate() error code = %q, want %q", auth.Error, domain.CodeNotAuthenticated)
	}

	got, _ := m.handleGetUser(ctx, GetUserRequest{UserID: reply.User.ID}, nil)
	if got.User == nil || got.User.ID != reply.User.ID {
		t.Errorf("handleGetUser() = %+v, want user %s", got, reply.User.ID)
	}

	health := m.Health(ctx)
	if !health.Healthy {
		t.Errorf("Health() = %+v, want healthy", health)
	}
	if health.Details["users"] != int64(1) {
		t.Errorf("Health().Details[users] = %v, want 1", health.Details["users"])
	}
}

func TestReplyToUser(t *testing.T) {
	tests := []struct {
		name    string
		reply   UserReply
		wantErr error
	}{
		{name: "user", reply: UserReply{User: &UserResponse{ID: "u1", Username: "alice"}}},
		{name: "not found", reply: UserReply{Error: domain.CodeNotFound}, wantErr: domain.ErrNotFound},
		{name: "not authenticated", reply: UserReply{Error: domain.CodeNotAuthenticated}, wantErr: domain.ErrNotAuthenticated},
		{
			name:    "validation with fields",
			reply:   UserReply{Error: domain.CodeValidation, Fields: map[string][]string{"username": {MsgUsernameTaken}}},
			wantErr: domain.ErrValidationFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := replyToUser(tt.reply)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("replyToUser() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("replyToUser() error = %v", err)
			}
			if user.ID != tt.reply.User.ID {
				t.Errorf("replyToUser().ID = %q, want %q", user.ID, tt.reply.User.ID)
			}
		})
	}

	if _, err := replyToUser(UserReply{}); err == nil {
		t.Error("replyToUser(empty) error = nil, want error")
	}
}
