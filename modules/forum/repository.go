package forum

import (
	"context"
	"errors"
	"time"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	roomMatch    = `LOWER(topics.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(rooms.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(rooms.description) LIKE LOWER(?) ESCAPE '\'`
	messageMatch = `LOWER(topics.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(rooms.name) LIKE LOWER(?) ESCAPE '\'`

	roomOrder    = "rooms.updated_at DESC, rooms.created_at DESC"
	messageOrder = "messages.created_at DESC"
)

// TopicCount is a topic with the number of rooms filed under it.
type TopicCount struct {
	ID        string
	Name      string
	RoomCount int64
}

// Repository handles rooms, topics and messages using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SearchRooms returns rooms whose topic name, name or description contains
// q, ignoring case, newest activity first.
func (r *Repository) SearchRooms(ctx context.Context, q string) ([]domain.Room, error) {
	p := likePattern(q)
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Select("rooms.*").
		Joins("JOIN topics ON topics.id = rooms.topic_id").
		Where(roomMatch, p, p, p).
		Preload("Topic").
		Order(roomOrder).
		Find(&rooms).Error
	return rooms, err
}

// SearchMessages returns messages whose room matches q by topic name or
// room name, newest first. Room descriptions are not searched.
func (r *Repository) SearchMessages(ctx context.Context, q string) ([]domain.Message, error) {
	p := likePattern(q)
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Select("messages.*").
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Joins("JOIN topics ON topics.id = rooms.topic_id").
		Where(messageMatch, p, p).
		Preload("Room").
		Preload("Room.Topic").
		Order(messageOrder).
		Find(&messages).Error
	return messages, err
}

// ListTopics returns up to limit topics whose name contains q (all topics
// when q is empty), each with its room count. limit <= 0 means no limit.
func (r *Repository) ListTopics(ctx context.Context, q string, limit int) ([]TopicCount, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Topic{}).
		Select("topics.id, topics.name, (SELECT COUNT(*) FROM rooms WHERE rooms.topic_id = topics.id) AS room_count")
	if q != "" {
		tx = tx.Where(`LOWER(topics.name) LIKE LOWER(?) ESCAPE '\'`, likePattern(q))
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var topics []TopicCount
	err := tx.Scan(&topics).Error
	return topics, err
}

// EnsureTopic returns the topic with the given name, creating it if needed.
func (r *Repository) EnsureTopic(ctx context.Context, name string) (*domain.Topic, error) {
	var topic domain.Topic
	err := r.db.WithContext(ctx).
		Where(domain.Topic{Name: name}).
		Attrs(domain.Topic{ID: uuid.New().String(), CreatedAt: time.Now()}).
		FirstOrCreate(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// CreateRoom inserts a room under an existing topic.
func (r *Repository) CreateRoom(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Omit("Topic").Create(room).Error
}

// FindRoom loads a room with its topic.
func (r *Repository) FindRoom(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	result := r.db.WithContext(ctx).Preload("Topic").First(&room, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return &room, nil
}

// RoomMessages returns a room's messages, oldest first.
func (r *Repository) RoomMessages(ctx context.Context, roomID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// RoomParticipants returns the distinct authors of a room's messages.
func (r *Repository) RoomParticipants(ctx context.Context, roomID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("room_id = ?", roomID).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

// RoomsByHost returns rooms created by a user, newest activity first.
func (r *Repository) RoomsByHost(ctx context.Context, userID string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("host_id = ?", userID).
		Preload("Topic").
		Order("updated_at DESC, created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

// MessagesByUser returns messages written by a user, newest first.
func (r *Repository) MessagesByUser(ctx context.Context, userID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Room").
		Preload("Room.Topic").
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// CreateMessage inserts a message and bumps its room's activity time.
func (r *Repository) CreateMessage(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Room").Create(message).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.Room{}).
			Where("id = ?", message.RoomID).
			UpdateColumn("updated_at", message.CreatedAt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Counts returns the number of rooms, topics and messages.
func (r *Repository) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 3)
	for name, model := range map[string]any{
		"rooms":    &domain.Room{},
		"topics":   &domain.Topic{},
		"messages": &domain.Message{},
	} {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}
