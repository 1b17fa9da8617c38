package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}

func TestRequestIDForReusesValidHeader(t *testing.T) {
	want := "5f0c7e1a-7f7d-4b43-9a57-0b9c3c1d2e4f"

	r := httptest.NewRequest(http.MethodGet, "/calculator/keypad", nil)
	r.Header.Set(RequestIDHeader, want)
	if got := requestIDFor(r); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	r.Header.Set(RequestIDHeader, "not-a-uuid")
	got := requestIDFor(r)
	if got == "not-a-uuid" {
		t.Fatal("expected malformed header to be replaced")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", got, err)
	}
}
