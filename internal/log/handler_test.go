package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	ctxlog "github.com/ErlanBelekov/passauth/internal/log"
	"github.com/ErlanBelekov/passauth/internal/requestid"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(ctxlog.NewContextHandler(slog.NewJSONHandler(buf, nil)))
}

func TestContextHandler_AddsRequestAndUserID(t *testing.T) {
	var buf bytes.Buffer
	ctx := requestid.WithRequestID(context.Background(), "req-1")
	ctx = ctxlog.WithUserID(ctx, "user-1")

	newLogger(&buf).InfoContext(ctx, "hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Errorf("missing request_id in %s", out)
	}
	if !strings.Contains(out, `"user_id":"user-1"`) {
		t.Errorf("missing user_id in %s", out)
	}
}

func TestContextHandler_NoValues(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf).InfoContext(context.Background(), "hello")

	out := buf.String()
	if strings.Contains(out, "request_id") || strings.Contains(out, "user_id") {
		t.Errorf("unexpected context attrs in %s", out)
	}
}

func TestContextHandler_WithAttrsKeepsEnrichment(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf).With("component", "test")
	logger.InfoContext(requestid.WithRequestID(context.Background(), "req-2"), "hello")

	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) || !strings.Contains(out, `"request_id":"req-2"`) {
		t.Errorf("log = %s", out)
	}
}
