package ctxutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

type foreignKey struct{}

func TestUserID(t *testing.T) {
	t.Parallel()

	learner := uuid.New()
	tests := []struct {
		name   string
		ctx    context.Context
		want   uuid.UUID
		wantOK bool
	}{
		{"set", WithUserID(context.Background(), learner), learner, true},
		{"missing", context.Background(), uuid.Nil, false},
		{"nil uuid", WithUserID(context.Background(), uuid.Nil), uuid.Nil, false},
		{"foreign key type", context.WithValue(context.Background(), foreignKey{}, learner), uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := UserIDFromCtx(tt.ctx)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("UserIDFromCtx = (%s, %v), want (%s, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRequestIDAndClientIP(t *testing.T) {
	t.Parallel()

	ctx := WithClientIP(WithRequestID(context.Background(), "req-123"), "203.0.113.7")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Errorf("RequestIDFromCtx = %q", got)
	}
	if got := ClientIPFromCtx(ctx); got != "203.0.113.7" {
		t.Errorf("ClientIPFromCtx = %q", got)
	}
	if RequestIDFromCtx(context.Background()) != "" || ClientIPFromCtx(context.Background()) != "" {
		t.Error("expected empty values on a bare context")
	}
}

func TestLogAttrs(t *testing.T) {
	t.Parallel()

	if attrs := LogAttrs(context.Background()); len(attrs) != 0 {
		t.Errorf("bare context: got %v", attrs)
	}

	learner := uuid.New()
	ctx := WithRequestID(context.Background(), "req-9")
	ctx = WithUserID(ctx, learner)
	ctx = WithClientIP(ctx, "198.51.100.4")

	want := []slog.Attr{
		slog.String("request_id", "req-9"),
		slog.String("user_id", learner.String()),
		slog.String("client_ip", "198.51.100.4"),
	}
	got := LogAttrs(ctx)
	if len(got) != len(want) {
		t.Fatalf("LogAttrs = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("attr %d = %v, want %v", i, got[i], want[i])
		}
	}
}
