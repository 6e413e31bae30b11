package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty-two")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_LIST", " a, ,b ,c")

	if got := GetEnvAsString("TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnvAsString() = %q, want %q", got, "value")
	}
	if got := GetEnvAsString("TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetEnvAsString() default = %q, want %q", got, "x")
	}
	if got := GetEnvAsInt("TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvAsInt() = %d, want 42", got)
	}
	if got := GetEnvAsInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvAsInt() malformed = %d, want 7", got)
	}
	if got := GetEnvAsDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvAsDuration() = %v, want 90s", got)
	}
	if got := GetEnvAsBool("TEST_BOOL", false); !got {
		t.Error("GetEnvAsBool() = false, want true")
	}

	list := GetEnvAsList("TEST_LIST", nil)
	want := []string{"a", "b", "c"}
	if len(list) != len(want) {
		t.Fatalf("GetEnvAsList() = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("GetEnvAsList()[%d] = %q, want %q", i, list[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STUDYHUB_TEST_LOADED=yes\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("STUDYHUB_TEST_LOADED", "")
	os.Unsetenv("STUDYHUB_TEST_LOADED")

	Load(path)

	if got := os.Getenv("STUDYHUB_TEST_LOADED"); got != "yes" {
		t.Errorf("after Load() STUDYHUB_TEST_LOADED = %q, want %q", got, "yes")
	}

	// A missing file is not fatal.
	Load(filepath.Join(dir, "missing.env"))
}
