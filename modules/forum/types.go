package forum

import (
	"time"
)

// TopicView is a topic as shown in side lists.
type TopicView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RoomCount int64  `json:"room_count"`
}

// RoomView is a room with its topic and host resolved.
type RoomView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	TopicID      string    `json:"topic_id"`
	TopicName    string    `json:"topic_name"`
	HostID       string    `json:"host_id"`
	HostUsername string    `json:"host_username,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MessageView is a message with its room and author resolved.
type MessageView struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	RoomID    string    `json:"room_id"`
	RoomName  string    `json:"room_name,omitempty"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserView is the public part of an account.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// HomeRequest carries the raw search text.
type HomeRequest struct {
	Q string `json:"q"`
}

// HomeReply is the listing page context.
type HomeReply struct {
	Query        string        `json:"q"`
	Rooms        []RoomView    `json:"rooms"`
	RoomCount    int           `json:"room_count"`
	Topics       []TopicView   `json:"topics"`
	RoomMessages []MessageView `json:"room_messages"`
}

// UserProfileRequest names an identity key.
type UserProfileRequest struct {
	UserID string `json:"user_id"`
}

// UserProfileReply is the profile page context.
type UserProfileReply struct {
	User         *UserView     `json:"user,omitempty"`
	Rooms        []RoomView    `json:"rooms,omitempty"`
	RoomMessages []MessageView `json:"room_messages,omitempty"`
	Topics       []TopicView   `json:"topics,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// GetRoomRequest names a room.
type GetRoomRequest struct {
	RoomID string `json:"room_id"`
}

// RoomReply is the room page context.
type RoomReply struct {
	Room         *RoomView     `json:"room,omitempty"`
	Messages     []MessageView `json:"messages,omitempty"`
	Participants []UserView    `json:"participants,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// CreateRoomRequest opens a room, creating the topic if needed.
type CreateRoomRequest struct {
	HostID      string `json:"host_id"`
	TopicName   string `json:"topic_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateRoomReply returns the new room or why it was rejected.
type CreateRoomReply struct {
	Room   *RoomView           `json:"room,omitempty"`
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// PostMessageRequest writes a message into a room.
type PostMessageRequest struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
	Body   string `json:"body"`
}

// PostMessageReply returns the stored message or why it was rejected.
type PostMessageReply struct {
	Message *MessageView        `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ListTopicsRequest filters topics by name.
type ListTopicsRequest struct {
	Q     string `json:"q"`
	Limit int    `json:"limit"`
}

// ListTopicsReply lists matching topics.
type ListTopicsReply struct {
	Topics []TopicView `json:"topics"`
}
