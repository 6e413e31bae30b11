package web

import (
	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/activity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/forum"
)

// Request is everything a view reads from an inbound HTTP request.
type Request struct {
	Method  string
	Form    map[string]string
	Query   map[string]string
	Params  map[string]string
	Session domain.Session
}

// View is a rendered page: its name, its context and any flash messages.
type View struct {
	Page     string   `json:"page"`
	Context  any      `json:"context,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// Response is the outcome of a view. Exactly one of Redirect or View is set.
// Session is the session the client holds after the request.
type Response struct {
	Redirect string
	View     *View
	Session  domain.Session
}

// ErrorResponse is the body sent when a view produced no page.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AuthPageContext is the context of the login and register pages.
type AuthPageContext struct {
	Page     string `json:"page"`
	Username string `json:"username,omitempty"`
}

// HomePageContext is the listing page plus the recent-activity column.
type HomePageContext struct {
	*forum.HomeReply
	Activity []activity.Entry `json:"activity,omitempty"`
}

// RoomFormContext is the context of the room creation form.
type RoomFormContext struct {
	Topics []forum.TopicView `json:"topics"`
}

// TopicsPageContext lists topics matching a query.
type TopicsPageContext struct {
	Query  string            `json:"q"`
	Topics []forum.TopicView `json:"topics"`
}

// ActivityPageContext is the standalone recent-activity page.
type ActivityPageContext struct {
	Entries []activity.Entry `json:"entries"`
}
