package forum

import (
	"time"
)

// User is a registered account. Usernames are stored lower-cased.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Username     string `gorm:"uniqueIndex;not null;size:150"`
	PasswordHash string `gorm:"not null;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Topic groups rooms by subject.
type Topic struct {
	ID        string `gorm:"primaryKey;type:text"`
	Name      string `gorm:"uniqueIndex;not null;size:200"`
	CreatedAt time.Time
}

// TableName returns the table name for the Topic entity.
func (Topic) TableName() string {
	return "topics"
}

// Room is a discussion space belonging to exactly one topic.
type Room struct {
	ID          string `gorm:"primaryKey;type:text"`
	HostID      string `gorm:"index;not null;type:text"`
	TopicID     string `gorm:"index;not null;type:text"`
	Topic       Topic  `gorm:"foreignKey:TopicID"`
	Name        string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Room entity.
func (Room) TableName() string {
	return "rooms"
}

// Message is a post written by a user inside a room.
type Message struct {
	ID        string `gorm:"primaryKey;type:text"`
	UserID    string `gorm:"index;not null;type:text"`
	RoomID    string `gorm:"index;not null;type:text"`
	Room      Room   `gorm:"foreignKey:RoomID"`
	Body      string `gorm:"not null;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the Message entity.
func (Message) TableName() string {
	return "messages"
}

// Session is the per-client session value threaded explicitly through every
// view. The zero value is an anonymous session.
type Session struct {
	Token    string `json:"token,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Authenticated reports whether the session is bound to a user.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.UserID != ""
}
