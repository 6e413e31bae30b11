package forum

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ForumPort is what the web layer uses to read and write content.
type ForumPort interface {
	Home(ctx context.Context, q string) (*HomeReply, error)
	UserProfile(ctx context.Context, userID string) (*UserProfileReply, error)
	GetRoom(ctx context.Context, roomID string) (*RoomReply, error)
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomView, error)
	PostMessage(ctx context.Context, req PostMessageRequest) (*MessageView, error)
	ListTopics(ctx context.Context, q string, limit int) ([]TopicView, error)
}

// ForumAdapter implements ForumPort using the service container.
type ForumAdapter struct {
	container mono.ServiceContainer
}

var _ ForumPort = (*ForumAdapter)(nil)
var _ ForumPort = (*ForumService)(nil)

// NewForumAdapter creates a new ForumAdapter.
func NewForumAdapter(container mono.ServiceContainer) *ForumAdapter {
	return &ForumAdapter{container: container}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Home returns the listing for a query.
func (a *ForumAdapter) Home(ctx context.Context, q string) (*HomeReply, error) {
	req := HomeRequest{Q: q}
	var resp HomeReply
	if err := call(ctx, a.container, "home", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserProfile returns a user's profile page.
func (a *ForumAdapter) UserProfile(ctx context.Context, userID string) (*UserProfileReply, error) {
	req := UserProfileRequest{UserID: userID}
	var resp UserProfileReply
	if err := call(ctx, a.container, "user-profile", &req, &resp); err != nil {
		return nil, err
	}
	if err := domain.FromCode(resp.Error, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRoom returns a room page.
func (a *ForumAdapter) GetRoom(ctx context.Context, roomID string) (*RoomReply, error) {
	req := GetRoomRequest{RoomID: roomID}
	var resp RoomReply
	if err := call(ctx, a.container, "get-room", &req, &resp); err != nil {
		return nil, err
	}
	if err := domain.FromCode(resp.Error, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateRoom opens a room.
func (a *ForumAdapter) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomView, error) {
	var resp CreateRoomReply
	if err := call(ctx, a.container, "create-room", &req, &resp); err != nil {
		return nil, err
	}
	if err := domain.FromCode(resp.Error, resp.Fields); err != nil {
		return nil, err
	}
	return resp.Room, nil
}

// PostMessage writes a message.
func (a *ForumAdapter) PostMessage(ctx context.Context, req PostMessageRequest) (*MessageView, error) {
	var resp PostMessageReply
	if err := call(ctx, a.container, "post-message", &req, &resp); err != nil {
		return nil, err
	}
	if err := domain.FromCode(resp.Error, resp.Fields); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// ListTopics lists topics matching q.
func (a *ForumAdapter) ListTopics(ctx context.Context, q string, limit int) ([]TopicView, error) {
	req := ListTopicsRequest{Q: q, Limit: limit}
	var resp ListTopicsReply
	if err := call(ctx, a.container, "list-topics", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Topics, nil
}
