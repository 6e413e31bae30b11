package forum

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/identity"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// MaxNameLength bounds topic and room names.
const MaxNameLength = 200

// homeTimeout bounds one shared listing computation.
const homeTimeout = 10 * time.Second

// ForumService implements the content store operations.
type ForumService struct {
	repo     *Repository
	identity identity.IdentityPort
	sfGroup  singleflight.Group // coalesces identical concurrent listings
	now      func() time.Time
}

// NewForumService creates a new ForumService.
func NewForumService(repo *Repository, identityPort identity.IdentityPort) *ForumService {
	return &ForumService{
		repo:     repo,
		identity: identityPort,
		now:      time.Now,
	}
}

// Home computes the listing page for a search query. Rooms match when the
// query occurs in the topic name, room name or description; messages match
// on topic name or room name only.
func (s *ForumService) Home(ctx context.Context, q string) (*HomeReply, error) {
	q = NormalizeQuery(q)

	// The shared listing outlives any one caller's cancellation; each
	// caller still stops waiting when its own context ends.
	ch := s.sfGroup.DoChan("home:"+q, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), homeTimeout)
		defer cancel()
		return s.home(shared, q)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*HomeReply), nil
	}
}

func (s *ForumService) home(ctx context.Context, q string) (*HomeReply, error) {
	rooms, err := s.repo.SearchRooms(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search rooms: %w", err)
	}
	messages, err := s.repo.SearchMessages(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	topics, err := s.topics(ctx, "", HomeTopicLimit)
	if err != nil {
		return nil, err
	}

	names := s.usernames(ctx, hostIDs(rooms), authorIDs(messages))
	return &HomeReply{
		Query:        q,
		Rooms:        toRoomViews(rooms, names),
		RoomCount:    len(rooms),
		Topics:       topics,
		RoomMessages: toMessageViews(messages, names),
	}, nil
}

// UserProfile returns a user's rooms and messages. Unknown ids yield
// domain.ErrNotFound.
func (s *ForumService) UserProfile(ctx context.Context, userID string) (*UserProfileReply, error) {
	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.RoomsByHost(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	messages, err := s.repo.MessagesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	topics, err := s.topics(ctx, "", HomeTopicLimit)
	if err != nil {
		return nil, err
	}

	names := map[string]string{user.ID: user.Username}
	return &UserProfileReply{
		User:         &UserView{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt},
		Rooms:        toRoomViews(rooms, names),
		RoomMessages: toMessageViews(messages, names),
		Topics:       topics,
	}, nil
}

// GetRoom returns a room with its conversation and participants.
func (s *ForumService) GetRoom(ctx context.Context, roomID string) (*RoomReply, error) {
	room, err := s.repo.FindRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.RoomMessages(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	participantIDs, err := s.repo.RoomParticipants(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	names := s.usernames(ctx, []string{room.HostID}, participantIDs)
	for i := range messages {
		messages[i].Room = *room
	}

	participants := make([]UserView, 0, len(participantIDs))
	for _, id := range participantIDs {
		participants = append(participants, UserView{ID: id, Username: names[id]})
	}

	view := toRoomView(*room, names)
	return &RoomReply{
		Room:         &view,
		Messages:     toMessageViews(messages, names),
		Participants: participants,
	}, nil
}

// CreateRoom opens a room for an existing host, creating the topic on
// first use.
func (s *ForumService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomView, error) {
	topicName := strings.TrimSpace(req.TopicName)
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)

	verr := domain.NewValidationError()
	checkName("topic", topicName, verr)
	checkName("name", name, verr)
	if !verr.Empty() {
		return nil, verr
	}

	host, err := s.identity.GetUser(ctx, req.HostID)
	if err != nil {
		return nil, err
	}

	topic, err := s.repo.EnsureTopic(ctx, topicName)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure topic: %w", err)
	}

	now := s.now()
	room := &domain.Room{
		ID:          uuid.New().String(),
		HostID:      host.ID,
		TopicID:     topic.ID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	room.Topic = *topic

	view := toRoomView(*room, map[string]string{host.ID: host.Username})
	return &view, nil
}

// PostMessage appends a message to a room.
func (s *ForumService) PostMessage(ctx context.Context, req PostMessageRequest) (*MessageView, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		verr := domain.NewValidationError()
		verr.Add("body", "This field is required.")
		return nil, verr
	}

	author, err := s.identity.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.FindRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	message := &domain.Message{
		ID:        uuid.New().String(),
		UserID:    author.ID,
		RoomID:    room.ID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	message.Room = *room

	view := toMessageView(*message, map[string]string{author.ID: author.Username})
	return &view, nil
}

// ListTopics returns topics whose name contains q.
func (s *ForumService) ListTopics(ctx context.Context, q string, limit int) ([]TopicView, error) {
	return s.topics(ctx, q, limit)
}

func (s *ForumService) topics(ctx context.Context, q string, limit int) ([]TopicView, error) {
	counts, err := s.repo.ListTopics(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	views := make([]TopicView, 0, len(counts))
	for _, t := range counts {
		views = append(views, TopicView{ID: t.ID, Name: t.Name, RoomCount: t.RoomCount})
	}
	return views, nil
}

// usernames resolves user ids through the identity port. Unresolvable ids
// are left out; the listing still renders.
func (s *ForumService) usernames(ctx context.Context, idSets ...[]string) map[string]string {
	names := make(map[string]string)
	for _, ids := range idSets {
		for _, id := range ids {
			if _, seen := names[id]; seen {
				continue
			}
			names[id] = ""
			user, err := s.identity.GetUser(ctx, id)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Printf("[forum] Warning: failed to resolve user %s: %v", id, err)
				}
				continue
			}
			names[id] = user.Username
		}
	}
	return names
}

func checkName(field, value string, verr *domain.ValidationError) {
	if value == "" {
		verr.Add(field, "This field is required.")
		return
	}
	if n := utf8.RuneCountInString(value); n > MaxNameLength {
		verr.Add(field, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", MaxNameLength, n))
	}
}

func hostIDs(rooms []domain.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.HostID)
	}
	return ids
}

func authorIDs(messages []domain.Message) []string {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.UserID)
	}
	return ids
}

func toRoomView(room domain.Room, names map[string]string) RoomView {
	return RoomView{
		ID:           room.ID,
		Name:         room.Name,
		Description:  room.Description,
		TopicID:      room.TopicID,
		TopicName:    room.Topic.Name,
		HostID:       room.HostID,
		HostUsername: names[room.HostID],
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

func toRoomViews(rooms []domain.Room, names map[string]string) []RoomView {
	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, toRoomView(r, names))
	}
	return views
}

func toMessageView(m domain.Message, names map[string]string) MessageView {
	return MessageView{
		ID:        m.ID,
		Body:      m.Body,
		RoomID:    m.RoomID,
		RoomName:  m.Room.Name,
		UserID:    m.UserID,
		Username:  names[m.UserID],
		CreatedAt: m.CreatedAt,
	}
}

func toMessageViews(messages []domain.Message, names map[string]string) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, toMessageView(m, names))
	}
	return views
}
