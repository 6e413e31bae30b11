package identity

import (
	"strings"
	"testing"

	domain "github.com/NiramayThaker/studemt-hub-atmiya-hackathon/domain/forum"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "alice"},
		{in: "  BOB  ", want: "bob"},
		{in: "carol.d+x@site", want: "carol.d+x@site"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeUsername(tt.in); got != tt.want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantMsg  string
	}{
		{name: "valid", username: "alice_01", wantMsg: ""},
		{name: "allowed punctuation", username: "a.b+c-d@e", wantMsg: ""},
		{name: "unicode letters", username: "élodie", wantMsg: ""},
		{name: "empty", username: "", wantMsg: MsgRequired},
		{name: "space", username: "al ice", wantMsg: MsgInvalidUsername},
		{name: "slash", username: "al/ice", wantMsg: MsgInvalidUsername},
		{name: "too long", username: strings.Repeat("a", 151), wantMsg: "at most 150 characters"},
		{name: "max length", username: strings.Repeat("a", 150), wantMsg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := domain.NewValidationError()
			validateUsername(tt.username, verr)

			if tt.wantMsg == "" {
				if !verr.Empty() {
					t.Errorf("validateUsername(%q) = %v, want no errors", tt.username, verr.Messages())
				}
				return
			}
			msgs := verr.Fields["username"]
			if len(msgs) == 0 || !strings.Contains(msgs[0], tt.wantMsg) {
				t.Errorf("validateUsername(%q) = %v, want message containing %q", tt.username, msgs, tt.wantMsg)
			}
		})
	}
}

func TestValidatePasswords(t *testing.T) {
	tests := []struct {
		name      string
		password1 string
		password2 string
		field     string
		wantMsg   string
	}{
		{name: "valid", password1: "s3cretpass", password2: "s3cretpass"},
		{name: "8 characters exactly", password1: "abcd1234", password2: "abcd1234"},
		{name: "mismatch", password1: "s3cretpass", password2: "s3cretpasz", field: "password2", wantMsg: MsgPasswordMismatch},
		{name: "missing first", password1: "", password2: "s3cretpass", field: "password1", wantMsg: MsgRequired},
		{name: "missing second", password1: "s3cretpass", password2: "", field: "password2", wantMsg: MsgRequired},
		{name: "too short", password1: "abc123", password2: "abc123", field: "password2", wantMsg: MsgPasswordShort},
		{name: "entirely numeric", password1: "1234567890", password2: "1234567890", field: "password2", wantMsg: MsgPasswordNumeric},
		{
			name:      "over bcrypt limit",
			password1: strings.Repeat("ab", 37),
			password2: strings.Repeat("ab", 37),
			field:     "password2",
			wantMsg:   MsgPasswordLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := domain.NewValidationError()
			validatePasswords(tt.password1, tt.password2, verr)

			if tt.wantMsg == "" {
				if !verr.Empty() {
					t.Errorf("validatePasswords() = %v, want no errors", verr.Messages())
				}
				return
			}
			found := false
			for _, msg := range verr.Fields[tt.field] {
				if msg == tt.wantMsg {
					found = true
				}
			}
			if !found {
				t.Errorf("validatePasswords() field %s = %v, want %q", tt.field, verr.Fields[tt.field], tt.wantMsg)
			}
		})
	}
}
