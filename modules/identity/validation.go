package identity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
)

const (
	// MaxUsernameLength bounds usernames in characters.
	MaxUsernameLength = 150
	// MinPasswordLength is the shortest accepted password in characters.
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// Field error messages.
const (
	MsgRequired         = "This field is required."
	MsgInvalidUsername  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgUsernameTaken    = "A user with that username already exists."
	MsgPasswordMismatch = "The two password fields didn't match."
	MsgPasswordShort    = "This password is too short. It must contain at least 8 characters."
	MsgPasswordLong     = "This password is too long. It must contain at most 72 bytes."
	MsgPasswordNumeric  = "This password is entirely numeric."
)

// NormalizeUsername trims surrounding whitespace and lower-cases the name.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// validateUsername checks an already normalized username.
func validateUsername(username string, verr *domain.ValidationError) {
	if username == "" {
		verr.Add("username", MsgRequired)
		return
	}
	if n := utf8.RuneCountInString(username); n > MaxUsernameLength {
		verr.Add("username", fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", MaxUsernameLength, n))
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '@', '.', '+', '-', '_':
			continue
		}
		verr.Add("username", MsgInvalidUsername)
		return
	}
}

func validatePasswords(password1, password2 string, verr *domain.ValidationError) {
	if password1 == "" {
		verr.Add("password1", MsgRequired)
	}
	if password2 == "" {
		verr.Add("password2", MsgRequired)
	}
	if password1 == "" || password2 == "" {
		return
	}
	if password1 != password2 {
		verr.Add("password2", MsgPasswordMismatch)
		return
	}
	if utf8.RuneCountInString(password2) < MinPasswordLength {
		verr.Add("password2", MsgPasswordShort)
	}
	if len(password2) > MaxPasswordBytes {
		verr.Add("password2", MsgPasswordLong)
	}
	if isNumeric(password2) {
		verr.Add("password2", MsgPasswordNumeric)
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
