// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q", got)
	}
}

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if got := len(GenerateCorrelationID()); got != 8 {
		t.Errorf("correlation id length = %d, want 8", got)
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Error("request ids should be unique")
	}
}

func TestCtx_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithNewCorrelationID(ctx)
	Ctx(ctx).Info().Msg("handled")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) {
		t.Errorf("missing request_id: %s", out)
	}
	if !strings.Contains(out, `"correlation_id":"`) {
		t.Errorf("missing correlation_id: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	l := WithComponent("poster")
	l.Info().Msg("x")

	if !strings.Contains(buf.String(), `"component":"poster"`) {
		t.Errorf("missing component field: %s", buf.String())
	}
}
