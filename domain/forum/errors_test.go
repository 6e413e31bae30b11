package forum

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_IsValidationFailure(t *testing.T) {
	verr := NewValidationError()
	verr.Add("username", "A user with that username already exists.")

	wrapped := fmt.Errorf("register: %w", verr)
	if !errors.Is(wrapped, ErrValidationFailure) {
		t.Errorf("errors.Is(%v, ErrValidationFailure) = false, want true", wrapped)
	}

	var target *ValidationError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As() did not find *ValidationError")
	}
	if got := target.Fields["username"]; len(got) != 1 {
		t.Errorf("Fields[username] = %v, want one message", got)
	}
}

func TestValidationError_Messages(t *testing.T) {
	verr := NewValidationError()
	verr.Add("password2", "The two password fields didn't match.")
	verr.Add("username", "This field is required.")

	got := verr.Messages()
	want := []string{"The two password fields didn't match.", "This field is required."}
	if len(got) != len(want) {
		t.Fatalf("Messages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestErrorCodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "nil", err: nil, code: ""},
		{name: "not authenticated", err: ErrNotAuthenticated, code: CodeNotAuthenticated},
		{name: "user does not exist", err: ErrUserDoesNotExist, code: CodeUserDoesNotExist},
		{name: "not found", err: fmt.Errorf("room: %w", ErrNotFound), code: CodeNotFound},
		{name: "validation", err: ErrValidationFailure, code: CodeValidation},
		{name: "joined login failure", err: errors.Join(ErrUserDoesNotExist, ErrNotAuthenticated), code: CodeUserDoesNotExist},
		{name: "unknown", err: errors.New("boom"), code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := ErrorCode(tt.err)
			if code != tt.code {
				t.Fatalf("ErrorCode() = %q, want %q", code, tt.code)
			}
			back := FromCode(code, nil)
			if tt.code == "" {
				if back != nil {
					t.Errorf("FromCode(%q) = %v, want nil", code, back)
				}
				return
			}
			if ErrorCode(back) != code {
				t.Errorf("FromCode(%q) = %v, code does not round trip", code, back)
			}
		})
	}
}

func TestSession_Authenticated(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{name: "anonymous", session: Session{}, want: false},
		{name: "token only", session: Session{Token: "abc"}, want: false},
		{name: "bound", session: Session{Token: "abc", UserID: "u1", Username: "alice"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Authenticated(); got != tt.want {
				t.Errorf("Authenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}
