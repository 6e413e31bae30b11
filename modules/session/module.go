package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/config"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Config configures the session module.
type Config struct {
	Token TokenConfig
	// RedisAddr selects the Redis store when non-empty.
	RedisAddr     string
	Database      database.Config
	PurgeInterval time.Duration
}

// LoadConfig reads SESSION_* variables and the shared database settings.
func LoadConfig() Config {
	token := DefaultTokenConfig()
	token.SecretKey = config.GetEnvAsString("SESSION_SECRET_KEY", token.SecretKey)
	token.Issuer = config.GetEnvAsString("SESSION_ISSUER", token.Issuer)
	token.TTL = config.GetEnvAsDuration("SESSION_TTL", token.TTL)

	return Config{
		Token:         token,
		RedisAddr:     config.GetEnvAsString("SESSION_REDIS_ADDR", ""),
		Database:      database.LoadConfig(),
		PurgeInterval: config.GetEnvAsDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
	}
}

// SessionModule provides session services.
type SessionModule struct {
	config  Config
	store   Store
	service *SessionService
	stop    chan struct{}
	wg      sync.WaitGroup
}

// Compile-time interface checks.
var _ mono.Module = (*SessionModule)(nil)
var _ mono.ServiceProviderModule = (*SessionModule)(nil)
var _ mono.HealthCheckableModule = (*SessionModule)(nil)

// NewModule creates a SessionModule configured from the environment.
func NewModule() *SessionModule {
	return NewModuleWithConfig(LoadConfig())
}

// NewModuleWithConfig creates a SessionModule with explicit settings.
func NewModuleWithConfig(cfg Config) *SessionModule {
	return &SessionModule{config: cfg}
}

// Name returns the module name.
func (m *SessionModule) Name() string {
	return "session"
}

// Start opens the configured store.
func (m *SessionModule) Start(_ context.Context) error {
	if m.config.RedisAddr != "" {
		store, err := NewRedisStore(m.config.RedisAddr, "session:")
		if err != nil {
			return err
		}
		m.store = store
	} else {
		db, err := database.OpenAndMigrate(m.config.Database, &Record{})
		if err != nil {
			return err
		}
		sqlStore := NewSQLStore(db)
		m.store = sqlStore
		m.startPurger(sqlStore)
	}

	service, err := NewSessionService(m.store, NewTokenManager(m.config.Token))
	if err != nil {
		m.store.Close()
		return err
	}
	m.service = service

	log.Printf("[session] Module started (store: %s, ttl: %s)", m.store.Kind(), m.config.Token.TTL)
	return nil
}

func (m *SessionModule) startPurger(store *SQLStore) {
	if m.config.PurgeInterval <= 0 {
		return
	}
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.PurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				n, err := store.PurgeExpired(context.Background())
				if err != nil {
					log.Printf("[session] Warning: purge failed: %v", err)
				} else if n > 0 {
					log.Printf("[session] Purged %d expired sessions", n)
				}
			}
		}
	}()
}

// Stop halts the purger and closes the store.
func (m *SessionModule) Stop(_ context.Context) error {
	if m.stop != nil {
		close(m.stop)
		m.wg.Wait()
		m.stop = nil
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			log.Printf("[session] Error closing store: %v", err)
		}
	}
	log.Println("[session] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *SessionModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"store": m.store.Kind(),
			"ttl":   m.config.Token.TTL.String(),
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *SessionModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "resolve", json.Unmarshal, json.Marshal, m.handleResolve,
	); err != nil {
		return fmt.Errorf("failed to register resolve service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "destroy", json.Unmarshal, json.Marshal, m.handleDestroy,
	); err != nil {
		return fmt.Errorf("failed to register destroy service: %w", err)
	}

	log.Printf("[session] Registered services: create, resolve, destroy")
	return nil
}

func (m *SessionModule) handleCreate(ctx context.Context, req CreateRequest, _ *mono.Msg) (SessionReply, error) {
	sess, err := m.service.Create(ctx, req.UserID, req.Username)
	if err != nil {
		return SessionReply{}, err
	}
	return SessionReply{Token: sess.Token, UserID: sess.UserID, Username: sess.Username}, nil
}

func (m *SessionModule) handleResolve(ctx context.Context, req TokenRequest, _ *mono.Msg) (SessionReply, error) {
	sess, err := m.service.Resolve(ctx, req.Token)
	if err != nil {
		return SessionReply{}, err
	}
	return SessionReply{Token: sess.Token, UserID: sess.UserID, Username: sess.Username}, nil
}

func (m *SessionModule) handleDestroy(ctx context.Context, req TokenRequest, _ *mono.Msg) (DestroyReply, error) {
	m.service.Destroy(ctx, req.Token)
	return DestroyReply{Destroyed: true}, nil
}
