package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/activity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/identity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/session"
)

// Flash messages shown to the user.
const (
	MsgUserDoesNotExist   = "User does not exist"
	MsgBadCredentials     = "User Name OR Password doesn't exist"
	MsgRegistrationFailed = "An error occurred during registration"
	MsgLoginFailed        = "An error occurred during login"
	MsgLoginRequired      = "Please log in to continue"
)

// Page names.
const (
	PageLogin    = "login"
	PageRegister = "register"
	PageHome     = "home"
	PageProfile  = "profile"
	PageRoom     = "room"
	PageRoomForm = "room_form"
	PageTopics   = "topics"
	PageActivity = "activity"
)

// HomeActivityLimit is how many feed entries the listing page shows.
const HomeActivityLimit = 5

// Views holds the page handlers. Each view takes the session explicitly
// in the Request and returns the resulting session in the Response.
type Views struct {
	identity identity.IdentityPort
	sessions session.SessionPort
	forum    forum.ForumPort
	activity activity.ActivityPort
}

// NewViews creates Views over the given ports. activityPort may be nil.
func NewViews(identityPort identity.IdentityPort, sessionPort session.SessionPort, forumPort forum.ForumPort, activityPort activity.ActivityPort) *Views {
	return &Views{
		identity: identityPort,
		sessions: sessionPort,
		forum:    forumPort,
		activity: activityPort,
	}
}

func redirect(to string, sess domain.Session) Response {
	return Response{Redirect: to, Session: sess}
}

func render(page string, ctx any, sess domain.Session, messages ...string) Response {
	return Response{View: &View{Page: page, Context: ctx, Messages: messages}, Session: sess}
}

// LoginPage shows the login form and signs users in.
//
// A failed lookup is recorded and authentication is still attempted, so a
// failed login may carry both ErrUserDoesNotExist and ErrNotAuthenticated.
func (v *Views) LoginPage(ctx context.Context, req Request) (Response, error) {
	if req.Session.Authenticated() {
		return redirect("/", req.Session), nil
	}

	page := AuthPageContext{Page: PageLogin}
	if req.Method != http.MethodPost {
		return render(PageLogin, page, req.Session), nil
	}

	username := identity.NormalizeUsername(req.Form["username"])
	password := req.Form["password"]
	page.Username = username

	var messages []string
	_, lookupErr := v.identity.Lookup(ctx, username)
	switch {
	case lookupErr == nil:
	case errors.Is(lookupErr, domain.ErrUserDoesNotExist):
		messages = append(messages, MsgUserDoesNotExist)
	default:
		return render(PageLogin, page, req.Session, MsgLoginFailed), fmt.Errorf("lookup user: %w", lookupErr)
	}

	user, authErr := v.identity.Authenticate(ctx, username, password)
	if authErr != nil {
		if !errors.Is(authErr, domain.ErrNotAuthenticated) {
			return render(PageLogin, page, req.Session, MsgLoginFailed), fmt.Errorf("authenticate: %w", authErr)
		}
		messages = append(messages, MsgBadCredentials)
		return render(PageLogin, page, req.Session, messages...), errors.Join(lookupErr, authErr)
	}

	sess, err := v.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return render(PageLogin, page, req.Session, MsgLoginFailed), fmt.Errorf("create session: %w", err)
	}
	return redirect("/", sess), nil
}

// LogOut ends the session and sends the user home. It never fails.
func (v *Views) LogOut(ctx context.Context, req Request) (Response, error) {
	if req.Session.Token != "" {
		if err := v.sessions.Destroy(ctx, req.Session.Token); err != nil {
			log.Printf("[web] Warning: failed to destroy session: %v", err)
		}
	}
	return redirect("/", domain.Session{}), nil
}

// RegisterPage shows the registration form and creates accounts. A new
// account is signed in immediately.
func (v *Views) RegisterPage(ctx context.Context, req Request) (Response, error) {
	page := AuthPageContext{Page: PageRegister}
	if req.Method != http.MethodPost {
		return render(PageLogin, page, req.Session), nil
	}

	page.Username = identity.NormalizeUsername(req.Form["username"])
	user, err := v.identity.Register(ctx, req.Form["username"], req.Form["password1"], req.Form["password2"])
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			messages := append([]string{MsgRegistrationFailed}, verr.Messages()...)
			return render(PageLogin, page, req.Session, messages...), err
		case errors.Is(err, domain.ErrValidationFailure):
			return render(PageLogin, page, req.Session, MsgRegistrationFailed), err
		default:
			return render(PageLogin, page, req.Session, MsgRegistrationFailed), fmt.Errorf("register: %w", err)
		}
	}

	sess, err := v.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return render(PageLogin, page, req.Session, MsgRegistrationFailed), fmt.Errorf("create session: %w", err)
	}
	return redirect("/", sess), nil
}

// Home lists rooms matching the q query parameter.
func (v *Views) Home(ctx context.Context, req Request) (Response, error) {
	reply, err := v.forum.Home(ctx, req.Query["q"])
	if err != nil {
		return Response{}, err
	}

	page := HomePageContext{HomeReply: reply}
	if v.activity != nil {
		entries, err := v.activity.Recent(ctx, HomeActivityLimit)
		if err != nil {
			log.Printf("[web] Warning: activity feed unavailable: %v", err)
		}
		page.Activity = entries
	}
	return render(PageHome, page, req.Session), nil
}

// UserProfile shows a user's rooms and messages. Unknown users yield ErrNotFound.
func (v *Views) UserProfile(ctx context.Context, req Request) (Response, error) {
	reply, err := v.forum.UserProfile(ctx, req.Params["pk"])
	if err != nil {
		return Response{}, err
	}
	return render(PageProfile, reply, req.Session), nil
}

// Room shows a room. POST writes a message into it and requires a session.
func (v *Views) Room(ctx context.Context, req Request) (Response, error) {
	roomID := req.Params["pk"]

	if req.Method == http.MethodPost {
		if !req.Session.Authenticated() {
			return loginRequired(req.Session)
		}
		_, err := v.forum.PostMessage(ctx, forum.PostMessageRequest{
			UserID: req.Session.UserID,
			RoomID: roomID,
			Body:   req.Form["body"],
		})
		if err == nil {
			return redirect("/room/"+roomID, req.Session), nil
		}
		if !errors.Is(err, domain.ErrValidationFailure) {
			return Response{}, err
		}

		reply, getErr := v.forum.GetRoom(ctx, roomID)
		if getErr != nil {
			return Response{}, getErr
		}
		return render(PageRoom, reply, req.Session, validationMessages(err)...), err
	}

	reply, err := v.forum.GetRoom(ctx, roomID)
	if err != nil {
		return Response{}, err
	}
	return render(PageRoom, reply, req.Session), nil
}

// CreateRoom shows the room form and opens rooms. It requires a session.
func (v *Views) CreateRoom(ctx context.Context, req Request) (Response, error) {
	if !req.Session.Authenticated() {
		return loginRequired(req.Session)
	}

	if req.Method == http.MethodPost {
		room, err := v.forum.CreateRoom(ctx, forum.CreateRoomRequest{
			HostID:      req.Session.UserID,
			TopicName:   req.Form["topic"],
			Name:        req.Form["name"],
			Description: req.Form["description"],
		})
		if err == nil {
			return redirect("/room/"+room.ID, req.Session), nil
		}
		if !errors.Is(err, domain.ErrValidationFailure) {
			return Response{}, err
		}

		topics, listErr := v.forum.ListTopics(ctx, "", 0)
		if listErr != nil {
			return Response{}, listErr
		}
		return render(PageRoomForm, RoomFormContext{Topics: topics}, req.Session, validationMessages(err)...), err
	}

	topics, err := v.forum.ListTopics(ctx, "", 0)
	if err != nil {
		return Response{}, err
	}
	return render(PageRoomForm, RoomFormContext{Topics: topics}, req.Session), nil
}

// Topics lists every topic whose name contains q.
func (v *Views) Topics(ctx context.Context, req Request) (Response, error) {
	q := req.Query["q"]
	topics, err := v.forum.ListTopics(ctx, q, 0)
	if err != nil {
		return Response{}, err
	}
	return render(PageTopics, TopicsPageContext{Query: q, Topics: topics}, req.Session), nil
}

// Activity shows the recent-activity feed. The optional limit query
// parameter caps the number of entries.
func (v *Views) Activity(ctx context.Context, req Request) (Response, error) {
	limit := 0
	if raw := req.Query["limit"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			verr := domain.NewValidationError()
			verr.Add("limit", "Enter a whole number.")
			return render(PageActivity, ActivityPageContext{}, req.Session, verr.Messages()...), verr
		}
		limit = n
	}

	var entries []activity.Entry
	if v.activity != nil {
		var err error
		if entries, err = v.activity.Recent(ctx, limit); err != nil {
			return Response{}, err
		}
	}
	return render(PageActivity, ActivityPageContext{Entries: entries}, req.Session), nil
}

func loginRequired(sess domain.Session) (Response, error) {
	return render(PageLogin, AuthPageContext{Page: PageLogin}, sess, MsgLoginRequired), domain.ErrNotAuthenticated
}

func validationMessages(err error) []string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Messages()
	}
	return []string{err.Error()}
}
