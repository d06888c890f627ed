package config

import (
	"reflect"
	"testing"
	"time"
)

func TestEnvList(t *testing.T) {
	def := []string{"archive.org"}
	tests := []struct {
		value string
		want  []string
	}{
		{"", def},
		{"example.com", []string{"example.com"}},
		{" a.org , b.org ,, ", []string{"a.org", "b.org"}},
		{" , ", def},
	}
	for _, tt := range tests {
		t.Setenv("TEST_LIST", tt.value)
		got := envList("TEST_LIST", def)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("envList(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("TEST_INT", "nope")
	if got := envInt("TEST_INT", 5); got != 5 {
		t.Errorf("envInt invalid: got %d, want 5", got)
	}
	t.Setenv("TEST_INT", "12")
	if got := envInt("TEST_INT", 5); got != 12 {
		t.Errorf("envInt: got %d, want 12", got)
	}

	t.Setenv("TEST_DURATION", "90s")
	if got := envDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("envDuration: got %v", got)
	}
	t.Setenv("TEST_DURATION", "soon")
	if got := envDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("envDuration invalid: got %v", got)
	}

	t.Setenv("TEST_BOOL", "false")
	if envBool("TEST_BOOL", true) {
		t.Error("envBool: got true, want false")
	}

	t.Setenv("TEST_INT64", "1048576")
	if got := envInt64("TEST_INT64", 1); got != 1<<20 {
		t.Errorf("envInt64: got %d", got)
	}
}

func TestUsesDefaultCredentials(t *testing.T) {
	cfg := &Config{AdminUsername: DefaultAdminUsername, AdminPassword: DefaultAdminPassword}
	if !cfg.UsesDefaultCredentials() {
		t.Fatal("expected built-in credentials to be detected")
	}
	cfg.AdminPasswordHash = "$2a$10$abc"
	if cfg.UsesDefaultCredentials() {
		t.Fatal("password hash should override built-in credentials")
	}
}
