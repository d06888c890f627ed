package ctxkeys

import (
	"context"
	"testing"
)

func TestToken(t *testing.T) {
	ctx := context.Background()
	if got := Token(ctx); got != "" {
		t.Errorf("empty context: got %q", got)
	}
	ctx = WithToken(ctx, "abc")
	if got := Token(ctx); got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
	ctx = WithClientIP(ctx, "10.0.0.1")
	if got := ClientIP(ctx); got != "10.0.0.1" {
		t.Errorf("client ip: got %q", got)
	}
}
