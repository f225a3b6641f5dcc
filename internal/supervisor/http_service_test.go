// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeServer implements HTTPServer with controllable behaviour.
type fakeServer struct {
	listenErr  error
	listenDone chan struct{}
	shutdownCh chan struct{}
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{
		listenErr:  listenErr,
		listenDone: make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.shutdownCh
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	close(f.shutdownCh)
	return nil
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	boom := errors.New("bind: address already in use")
	svc := NewHTTPService(newFakeServer(boom), time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("Serve() = %v, want wrapped %v", err, boom)
	}
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	svc := NewHTTPService(newFakeServer(nil), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the server goroutine a moment to start blocking.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestHTTPServiceString(t *testing.T) {
	svc := NewHTTPService(newFakeServer(nil), 0)
	if got := svc.String(); got != "api.http" {
		t.Fatalf("String() = %q", got)
	}
}
