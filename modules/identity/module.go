package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/events"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/config"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// IdentityModule owns user accounts and credential verification.
type IdentityModule struct {
	db       *gorm.DB
	service  *IdentityService
	hasher   *PasswordHasher
	dbConfig database.Config
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*IdentityModule)(nil)
var _ mono.ServiceProviderModule = (*IdentityModule)(nil)
var _ mono.HealthCheckableModule = (*IdentityModule)(nil)
var _ mono.EventEmitterModule = (*IdentityModule)(nil)

// NewModule creates an IdentityModule configured from the environment.
func NewModule() *IdentityModule {
	return NewModuleWithConfig(database.LoadConfig(), NewPasswordHasherWithCost(config.GetEnvAsInt("BCRYPT_COST", DefaultBcryptCost)))
}

// NewModuleWithConfig creates an IdentityModule with explicit settings.
func NewModuleWithConfig(dbConfig database.Config, hasher *PasswordHasher) *IdentityModule {
	return &IdentityModule{
		dbConfig: dbConfig,
		hasher:   hasher,
	}
}

// Name returns the module name.
func (m *IdentityModule) Name() string {
	return "identity"
}

// SetEventBus receives the event bus from the framework.
func (m *IdentityModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *IdentityModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserRegisteredV1.ToBase(),
	}
}

// Start opens the user store.
func (m *IdentityModule) Start(_ context.Context) error {
	db, err := database.OpenAndMigrate(m.dbConfig, &domain.User{})
	if err != nil {
		return err
	}
	m.db = db
	m.service = NewIdentityService(NewUserRepository(db), m.hasher)

	log.Printf("[identity] Module started (database: %s)", m.dbConfig.Describe())
	return nil
}

// Stop closes the user store.
func (m *IdentityModule) Stop(_ context.Context) error {
	database.Close(m.db)
	log.Println("[identity] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *IdentityModule) Health(ctx context.Context) mono.HealthStatus {
	if err := database.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	details := map[string]any{"database": m.dbConfig.Describe()}
	if count, err := NewUserRepository(m.db).Count(ctx); err == nil {
		details["users"] = count
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *IdentityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "lookup", json.Unmarshal, json.Marshal, m.handleLookup,
	); err != nil {
		return fmt.Errorf("failed to register lookup service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "authenticate", json.Unmarshal, json.Marshal, m.handleAuthenticate,
	); err != nil {
		return fmt.Errorf("failed to register authenticate service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	log.Printf("[identity] Registered services: register, lookup, authenticate, get-user")
	return nil
}

func (m *IdentityModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (UserReply, error) {
	user, err := m.service.Register(ctx, req.Username, req.Password1, req.Password2)
	if err != nil {
		return errorReply(err)
	}

	if m.eventBus != nil {
		event := events.UserRegisteredEvent{
			UserID:       user.ID,
			Username:     user.Username,
			RegisteredAt: user.CreatedAt,
		}
		if err := events.UserRegisteredV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[identity] Warning: failed to publish UserRegistered event for user %s: %v", user.ID, err)
		}
	}

	return userReply(user), nil
}

func (m *IdentityModule) handleLookup(ctx context.Context, req LookupRequest, _ *mono.Msg) (UserReply, error) {
	user, err := m.service.Lookup(ctx, req.Username)
	if err != nil {
		return errorReply(err)
	}
	return userReply(user), nil
}

func (m *IdentityModule) handleAuthenticate(ctx context.Context, req AuthenticateRequest, _ *mono.Msg) (UserReply, error) {
	user, err := m.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return errorReply(err)
	}
	return userReply(user), nil
}

func (m *IdentityModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserReply, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return errorReply(err)
	}
	return userReply(user), nil
}

func userReply(user *domain.User) UserReply {
	return UserReply{
		User: &UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
		},
	}
}

// errorReply reports domain failures in the reply body and anything else
// as a transport error.
func errorReply(err error) (UserReply, error) {
	code := domain.ErrorCode(err)
	if code == "" {
		return UserReply{}, err
	}
	reply := UserReply{Error: code}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		reply.Fields = verr.Fields
	}
	return reply, nil
}
