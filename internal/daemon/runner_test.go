package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewAppliesDefaults(t *testing.T) {
	r := New(nil, nil)
	if r.Config().ServiceName != DefaultServiceName {
		t.Fatalf("ServiceName = %s", r.Config().ServiceName)
	}
	if r.Config().DisplayName != DefaultDisplayName {
		t.Fatalf("DisplayName = %s", r.Config().DisplayName)
	}
}

func TestStartAndShutdown(t *testing.T) {
	var cleaned atomic.Bool
	r := New(nil, &Dependencies{
		ShutdownFunc: func() error {
			cleaned.Store(true)
			return nil
		},
	})

	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for !r.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !r.Running() {
		t.Fatal("expected daemon running")
	}

	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Start returned %v", err)
	}
	if !cleaned.Load() {
		t.Fatal("expected shutdown func to run")
	}
	if r.Running() {
		t.Fatal("expected daemon stopped")
	}
}

func TestShutdownWhenNotRunning(t *testing.T) {
	r := New(nil, nil)
	if err := r.Shutdown(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestStartTwice(t *testing.T) {
	r := New(nil, nil)
	go r.Start(context.Background())

	deadline := time.Now().Add(time.Second)
	for !r.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	_ = r.Shutdown()
}

func TestShutdownTimeout(t *testing.T) {
	r := New(&Config{ShutdownTimeout: 20 * time.Millisecond}, &Dependencies{
		ShutdownFunc: func() error {
			time.Sleep(200 * time.Millisecond)
			return nil
		},
	})
	go r.Start(context.Background())

	deadline := time.Now().Add(time.Second)
	for !r.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Shutdown(); !errors.Is(err, ErrShutdownTimeout) {
		t.Fatalf("expected ErrShutdownTimeout, got %v", err)
	}
}

func TestRunFuncDrivesLifecycle(t *testing.T) {
	bodyErr := errors.New("body done")
	r := New(nil, &Dependencies{
		RunFunc: func(ctx context.Context) error {
			<-ctx.Done()
			return bodyErr
		},
	})

	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for !r.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; !errors.Is(err, bodyErr) {
		t.Fatalf("expected body error, got %v", err)
	}
}
