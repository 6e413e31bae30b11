package forum

import (
	"context"
	"testing"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestModule(t *testing.T) *ForumModule {
	t.Helper()

	m := NewModuleWithConfig(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	m.identityPort = newMockIdentityPort(alice, bob)
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { m.Stop(context.Background()) })
	return m
}

func TestForumModule_StartRequiresIdentity(t *testing.T) {
	m := NewModuleWithConfig(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	assert.Error(t, m.Start(context.Background()))
}

func TestForumModule_Handlers(t *testing.T) {
	m := startTestModule(t)
	ctx := context.Background()

	created, err := m.createRoom(ctx, CreateRoomRequest{HostID: alice.ID, TopicName: "go", Name: "golang"}, nil)
	require.NoError(t, err)
	require.NotNil(t, created.Room)

	rejected, err := m.createRoom(ctx, CreateRoomRequest{HostID: alice.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeValidation, rejected.Error)
	assert.NotEmpty(t, rejected.Fields["topic"])
	assert.NotEmpty(t, rejected.Fields["name"])

	posted, err := m.postMessage(ctx, PostMessageRequest{UserID: bob.ID, RoomID: created.Room.ID, Body: "hi"}, nil)
	require.NoError(t, err)
	require.NotNil(t, posted.Message)

	missingRoom, err := m.getRoom(ctx, GetRoomRequest{RoomID: "missing"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeNotFound, missingRoom.Error)

	missingUser, err := m.userProfile(ctx, UserProfileRequest{UserID: "ghost"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeNotFound, missingUser.Error)

	home, err := m.home(ctx, HomeRequest{Q: "GOLANG"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, home.RoomCount)
	assert.Len(t, home.RoomMessages, 1)

	topics, err := m.listTopics(ctx, ListTopicsRequest{Q: "g"}, nil)
	require.NoError(t, err)
	assert.Len(t, topics.Topics, 1)

	health := m.Health(ctx)
	assert.True(t, health.Healthy)
	assert.Equal(t, int64(1), health.Details["rooms"])
	assert.Equal(t, int64(1), health.Details["messages"])
}
