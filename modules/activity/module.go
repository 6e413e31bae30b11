package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/events"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityModule listens to identity and forum events and keeps the
// recent-activity feed shown next to the room listing.
type ActivityModule struct {
	feed *Feed
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)
var _ mono.HealthCheckableModule = (*ActivityModule)(nil)

// NewModule creates an ActivityModule sized by ACTIVITY_FEED_SIZE.
func NewModule() *ActivityModule {
	return NewModuleWithSize(config.GetEnvAsInt("ACTIVITY_FEED_SIZE", DefaultFeedSize))
}

// NewModuleWithSize creates an ActivityModule keeping at most size entries.
func NewModuleWithSize(size int) *ActivityModule {
	return &ActivityModule{feed: NewFeed(size)}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.RoomCreatedV1, m.handleRoomCreated, m); err != nil {
		return fmt.Errorf("failed to register RoomCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.MessagePostedV1, m.handleMessagePosted, m); err != nil {
		return fmt.Errorf("failed to register MessagePosted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: UserRegistered, RoomCreated, MessagePosted")
	return nil
}

func (m *ActivityModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		Kind:    KindUserRegistered,
		UserID:  event.UserID,
		Summary: fmt.Sprintf("%s joined", event.Username),
		At:      event.RegisteredAt,
	})
	return nil
}

func (m *ActivityModule) handleRoomCreated(_ context.Context, event events.RoomCreatedEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		Kind:     KindRoomCreated,
		UserID:   event.HostID,
		RoomID:   event.RoomID,
		RoomName: event.Name,
		Summary:  fmt.Sprintf("room %q opened under %s", event.Name, event.TopicName),
		At:       event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleMessagePosted(_ context.Context, event events.MessagePostedEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		Kind:     KindMessagePosted,
		UserID:   event.UserID,
		RoomID:   event.RoomID,
		RoomName: event.RoomName,
		Summary:  summarize(event.Body, 80),
		At:       event.PostedAt,
	})
	return nil
}

// summarize cuts body to at most n runes.
func summarize(body string, n int) string {
	runes := []rune(body)
	if len(runes) <= n {
		return body
	}
	return string(runes[:n]) + "..."
}

func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent", json.Unmarshal, json.Marshal, m.handleRecent,
	); err != nil {
		return fmt.Errorf("failed to register recent service: %w", err)
	}

	log.Printf("[activity] Registered services: recent")
	return nil
}

func (m *ActivityModule) handleRecent(_ context.Context, req RecentRequest, _ *mono.Msg) (RecentReply, error) {
	return RecentReply{Entries: m.feed.Recent(req.Limit)}, nil
}

// Feed exposes the in-memory feed.
func (m *ActivityModule) Feed() *Feed {
	return m.feed
}

func (m *ActivityModule) Start(_ context.Context) error {
	log.Printf("[activity] Module started (feed size: %d)", m.feed.Cap())
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

func (m *ActivityModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"entries":  m.feed.Len(),
			"capacity": m.feed.Cap(),
		},
	}
}
