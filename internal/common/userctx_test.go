package common

import (
	"context"
	"testing"
)

func TestResolveUserID(t *testing.T) {
	ctx := context.Background()

	if got := ResolveUserID(ctx, ""); got != DefaultUserID {
		t.Errorf("no context: got %q, want %q", got, DefaultUserID)
	}

	ctx = WithUserContext(ctx, &UserContext{UserID: "alice"})
	if got := ResolveUserID(ctx, ""); got != "alice" {
		t.Errorf("context user: got %q, want alice", got)
	}
	if got := ResolveUserID(ctx, "  bob "); got != "bob" {
		t.Errorf("explicit user: got %q, want bob", got)
	}
}

func TestResolveLanguage(t *testing.T) {
	ctx := context.Background()

	if got := ResolveLanguage(ctx, "", "en"); got != "en" {
		t.Errorf("fallback: got %q", got)
	}

	ctx = WithUserContext(ctx, &UserContext{Language: "HI"})
	if got := ResolveLanguage(ctx, "", "en"); got != "hi" {
		t.Errorf("context language: got %q, want hi", got)
	}
	if got := ResolveLanguage(ctx, "EN", "hi"); got != "en" {
		t.Errorf("explicit language: got %q, want en", got)
	}
}

func TestUserContextFromContext_Absent(t *testing.T) {
	if uc := UserContextFromContext(context.Background()); uc != nil {
		t.Errorf("expected nil, got %+v", uc)
	}
}
