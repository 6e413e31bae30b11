package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted when a new account is created.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for account creation.
// Subject: events.identity.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"identity", "UserRegistered", "v1",
)

// RoomCreatedEvent is emitted when a room is opened.
type RoomCreatedEvent struct {
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	TopicName string    `json:"topic_name"`
	HostID    string    `json:"host_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomCreatedV1 is the typed event definition for room creation.
// Subject: events.forum.v1.room-created
var RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
	"forum", "RoomCreated", "v1",
)

// MessagePostedEvent is emitted when a message is written into a room.
type MessagePostedEvent struct {
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	RoomName  string    `json:"room_name"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	PostedAt  time.Time `json:"posted_at"`
}

// MessagePostedV1 is the typed event definition for new messages.
// Subject: events.forum.v1.message-posted
var MessagePostedV1 = helper.EventDefinition[MessagePostedEvent](
	"forum", "MessagePosted", "v1",
)
