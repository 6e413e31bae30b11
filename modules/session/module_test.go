package session

import (
	"context"
	"testing"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionModule_Lifecycle(t *testing.T) {
	m := NewModuleWithConfig(Config{
		Token:         testTokenConfig(),
		Database:      database.Config{Driver: database.DriverSQLite, Path: ":memory:"},
		PurgeInterval: 10 * time.Millisecond,
	})
	ctx := context.Background()

	require.NoError(t, m.Start(ctx))
	defer m.Stop(ctx)

	created, err := m.handleCreate(ctx, CreateRequest{UserID: "u1", Username: "alice"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)

	resolved, err := m.handleResolve(ctx, TokenRequest{Token: created.Token}, nil)
	require.NoError(t, err)
	assert.Equal(t, created, resolved)

	destroyed, err := m.handleDestroy(ctx, TokenRequest{Token: created.Token}, nil)
	require.NoError(t, err)
	assert.True(t, destroyed.Destroyed)

	anon, err := m.handleResolve(ctx, TokenRequest{Token: created.Token}, nil)
	require.NoError(t, err)
	assert.Empty(t, anon.Token)

	again, err := m.handleDestroy(ctx, TokenRequest{Token: "not-a-token"}, nil)
	require.NoError(t, err)
	assert.True(t, again.Destroyed)

	health := m.Health(ctx)
	assert.True(t, health.Healthy)
	assert.Equal(t, "sql", health.Details["store"])
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SESSION_SECRET_KEY", "s3cret")
	t.Setenv("SESSION_ISSUER", "issuer")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_REDIS_ADDR", "redis:6379")

	cfg := LoadConfig()
	assert.Equal(t, "s3cret", cfg.Token.SecretKey)
	assert.Equal(t, "issuer", cfg.Token.Issuer)
	assert.Equal(t, 2*time.Hour, cfg.Token.TTL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestSessionModule_HealthBeforeStart(t *testing.T) {
	m := NewModuleWithConfig(Config{Token: testTokenConfig()})
	assert.False(t, m.Health(context.Background()).Healthy)
}
