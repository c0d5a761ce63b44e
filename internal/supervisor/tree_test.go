// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockService runs until canceled, failing the first failures starts.
type mockService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

var _ suture.Service = (*mockService)(nil)

func (m *mockService) Serve(ctx context.Context) error {
	if n := m.starts.Add(1); n <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewSupervisorTree(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults for zero config", func(t *testing.T) {
		t.Parallel()
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("NewSupervisorTree() error = %v", err)
		}
		if tree.Root() == nil {
			t.Fatal("root supervisor is nil")
		}
		if got, want := tree.Config(), DefaultTreeConfig(); got != want {
			t.Errorf("config = %+v, want %+v", got, want)
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second, ShutdownTimeout: 3 * time.Second})
		if err != nil {
			t.Fatal(err)
		}
		if c := tree.Config(); c.FailureBackoff != time.Second || c.ShutdownTimeout != 3*time.Second || c.FailureThreshold != 5 {
			t.Errorf("config = %+v", c)
		}
	})

	t.Run("requires logger", func(t *testing.T) {
		t.Parallel()
		if _, err := NewSupervisorTree(nil, TreeConfig{}); err == nil {
			t.Error("expected error for nil logger")
		}
	})
}

func TestSupervisorTree_Lifecycle(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	apiSvc := &mockService{name: "api"}
	monitorSvc := &mockService{name: "monitor"}
	tree.AddAPIService(apiSvc)
	tree.AddMonitorService(monitorSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return apiSvc.starts.Load() > 0 && monitorSvc.starts.Load() > 0 })
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil || len(report) != 0 {
		t.Errorf("unstopped services = %v, err = %v", report, err)
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	failing := &mockService{name: "failing", failures: 2}
	stable := &mockService{name: "stable"}
	tree.AddMonitorService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return failing.starts.Load() >= 3 })
	if stable.starts.Load() != 1 {
		t.Errorf("stable service starts = %d, want 1 (failure must stay in its layer)", stable.starts.Load())
	}

	cancel()
	<-errCh
}
