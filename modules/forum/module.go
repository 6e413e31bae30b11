package forum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/events"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/identity"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// ForumModule owns topics, rooms and messages.
type ForumModule struct {
	db           *gorm.DB
	dbConfig     database.Config
	service      *ForumService
	identityPort identity.IdentityPort
	eventBus     mono.EventBus
}

var _ mono.Module = (*ForumModule)(nil)
var _ mono.ServiceProviderModule = (*ForumModule)(nil)
var _ mono.DependentModule = (*ForumModule)(nil)
var _ mono.EventEmitterModule = (*ForumModule)(nil)
var _ mono.HealthCheckableModule = (*ForumModule)(nil)

// NewModule creates a ForumModule configured from the environment.
func NewModule() *ForumModule {
	return NewModuleWithConfig(database.LoadConfig())
}

// NewModuleWithConfig creates a ForumModule with explicit database settings.
func NewModuleWithConfig(dbConfig database.Config) *ForumModule {
	return &ForumModule{dbConfig: dbConfig}
}

func (m *ForumModule) Name() string {
	return "forum"
}

func (m *ForumModule) Dependencies() []string {
	return []string{"identity"}
}

func (m *ForumModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "identity" {
		m.identityPort = identity.NewIdentityAdapter(container)
	}
}

func (m *ForumModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *ForumModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomCreatedV1.ToBase(),
		events.MessagePostedV1.ToBase(),
	}
}

func (m *ForumModule) Start(_ context.Context) error {
	if m.identityPort == nil {
		return fmt.Errorf("identityPort dependency not set")
	}
	if m.eventBus == nil {
		log.Println("[forum] Warning: eventBus not set, events will not be published")
	}

	db, err := database.OpenAndMigrate(m.dbConfig, &domain.Topic{}, &domain.Room{}, &domain.Message{})
	if err != nil {
		return err
	}
	m.db = db
	m.service = NewForumService(NewRepository(db), m.identityPort)

	log.Printf("[forum] Module started (database: %s, depends on: identity)", m.dbConfig.Describe())
	return nil
}

func (m *ForumModule) Stop(_ context.Context) error {
	database.Close(m.db)
	log.Println("[forum] Module stopped")
	return nil
}

func (m *ForumModule) Health(ctx context.Context) mono.HealthStatus {
	if err := database.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	details := map[string]any{"database": m.dbConfig.Describe()}
	if counts, err := NewRepository(m.db).Counts(ctx); err == nil {
		for k, v := range counts {
			details[k] = v
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

func (m *ForumModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "home", json.Unmarshal, json.Marshal, m.home,
	); err != nil {
		return fmt.Errorf("failed to register home service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "user-profile", json.Unmarshal, json.Marshal, m.userProfile,
	); err != nil {
		return fmt.Errorf("failed to register user-profile service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-room", json.Unmarshal, json.Marshal, m.getRoom,
	); err != nil {
		return fmt.Errorf("failed to register get-room service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-room", json.Unmarshal, json.Marshal, m.createRoom,
	); err != nil {
		return fmt.Errorf("failed to register create-room service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "post-message", json.Unmarshal, json.Marshal, m.postMessage,
	); err != nil {
		return fmt.Errorf("failed to register post-message service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-topics", json.Unmarshal, json.Marshal, m.listTopics,
	); err != nil {
		return fmt.Errorf("failed to register list-topics service: %w", err)
	}

	log.Printf("[forum] Registered services: home, user-profile, get-room, create-room, post-message, list-topics")
	return nil
}

func (m *ForumModule) home(ctx context.Context, req HomeRequest, _ *mono.Msg) (HomeReply, error) {
	reply, err := m.service.Home(ctx, req.Q)
	if err != nil {
		return HomeReply{}, err
	}
	return *reply, nil
}

func (m *ForumModule) userProfile(ctx context.Context, req UserProfileRequest, _ *mono.Msg) (UserProfileReply, error) {
	reply, err := m.service.UserProfile(ctx, req.UserID)
	if err != nil {
		code, err := codeOrError(err)
		return UserProfileReply{Error: code}, err
	}
	return *reply, nil
}

func (m *ForumModule) getRoom(ctx context.Context, req GetRoomRequest, _ *mono.Msg) (RoomReply, error) {
	reply, err := m.service.GetRoom(ctx, req.RoomID)
	if err != nil {
		code, err := codeOrError(err)
		return RoomReply{Error: code}, err
	}
	return *reply, nil
}

func (m *ForumModule) createRoom(ctx context.Context, req CreateRoomRequest, _ *mono.Msg) (CreateRoomReply, error) {
	room, err := m.service.CreateRoom(ctx, req)
	if err != nil {
		fields := validationFields(err)
		code, err := codeOrError(err)
		return CreateRoomReply{Error: code, Fields: fields}, err
	}

	if m.eventBus != nil {
		event := events.RoomCreatedEvent{
			RoomID:    room.ID,
			Name:      room.Name,
			TopicName: room.TopicName,
			HostID:    room.HostID,
			CreatedAt: room.CreatedAt,
		}
		if err := events.RoomCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[forum] Warning: failed to publish RoomCreated event for room %s: %v", room.ID, err)
		}
	}

	return CreateRoomReply{Room: room}, nil
}

func (m *ForumModule) postMessage(ctx context.Context, req PostMessageRequest, _ *mono.Msg) (PostMessageReply, error) {
	message, err := m.service.PostMessage(ctx, req)
	if err != nil {
		fields := validationFields(err)
		code, err := codeOrError(err)
		return PostMessageReply{Error: code, Fields: fields}, err
	}

	if m.eventBus != nil {
		event := events.MessagePostedEvent{
			MessageID: message.ID,
			RoomID:    message.RoomID,
			RoomName:  message.RoomName,
			UserID:    message.UserID,
			Body:      message.Body,
			PostedAt:  message.CreatedAt,
		}
		if err := events.MessagePostedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[forum] Warning: failed to publish MessagePosted event for message %s: %v", message.ID, err)
		}
	}

	return PostMessageReply{Message: message}, nil
}

func (m *ForumModule) listTopics(ctx context.Context, req ListTopicsRequest, _ *mono.Msg) (ListTopicsReply, error) {
	topics, err := m.service.ListTopics(ctx, req.Q, req.Limit)
	if err != nil {
		return ListTopicsReply{}, err
	}
	return ListTopicsReply{Topics: topics}, nil
}

// codeOrError splits domain failures, reported as a code with a nil error,
// from internal failures, which stay errors.
func codeOrError(err error) (string, error) {
	if code := domain.ErrorCode(err); code != "" {
		return code, nil
	}
	return "", err
}

func validationFields(err error) map[string][]string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
