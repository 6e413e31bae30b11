package web

import (
	"context"
	"errors"
	"log"
	"time"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/session"
	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "sessionid"

// ViewFunc is the shape of every page handler in Views.
type ViewFunc func(ctx context.Context, req Request) (Response, error)

// Handlers adapts Views to Fiber.
type Handlers struct {
	sessions     session.SessionPort
	cookieSecure bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions session.SessionPort, cookieSecure bool) *Handlers {
	return &Handlers{
		sessions:     sessions,
		cookieSecure: cookieSecure,
	}
}

// Wrap turns a view into a Fiber handler. It resolves the session cookie,
// runs the view and writes the cookie back when the session changed.
func (h *Handlers) Wrap(view ViewFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		sess, err := h.sessions.Resolve(ctx, c.Cookies(SessionCookieName))
		if err != nil {
			log.Printf("[web] Failed to resolve session: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error:   "server_error",
				Message: "Failed to load session",
			})
		}

		req := Request{
			Method:  c.Method(),
			Form:    formValues(c),
			Query:   c.Queries(),
			Params:  c.AllParams(),
			Session: sess,
		}

		resp, viewErr := view(ctx, req)
		if resp.View == nil && resp.Redirect == "" && viewErr != nil {
			return h.writeError(c, viewErr)
		}

		h.writeSession(c, sess, resp.Session)

		if resp.Redirect != "" {
			return c.Redirect(resp.Redirect, fiber.StatusFound)
		}
		status := statusFor(viewErr)
		if status == fiber.StatusInternalServerError {
			log.Printf("[web] %s %s failed: %v", c.Method(), c.Path(), viewErr)
		}
		return c.Status(status).JSON(resp.View)
	}
}

// writeSession sets or clears the cookie when the session token changed.
func (h *Handlers) writeSession(c *fiber.Ctx, before, after domain.Session) {
	if before.Token == after.Token && c.Cookies(SessionCookieName) == after.Token {
		return
	}
	cookie := &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    after.Token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if after.Token == "" {
		cookie.Expires = time.Unix(0, 0)
	}
	c.Cookie(cookie)
}

func (h *Handlers) writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[web] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(ErrorResponse{
			Error:   "server_error",
			Message: "Internal Server Error",
		})
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:   domain.ErrorCode(err),
		Message: err.Error(),
	})
}

// statusFor maps a view error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, domain.ErrValidationFailure):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrUserDoesNotExist):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// formValues collects url-encoded and multipart form fields. The first
// value wins for repeated keys.
func formValues(c *fiber.Ctx) map[string]string {
	values := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if _, ok := values[k]; !ok {
			values[k] = string(value)
		}
	})
	if form, err := c.MultipartForm(); err == nil {
		for k, vs := range form.Value {
			if _, ok := values[k]; !ok && len(vs) > 0 {
				values[k] = vs[0]
			}
		}
	}
	return values
}

// customErrorHandler handles errors that escape a handler.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
