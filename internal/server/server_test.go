package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Addr(t *testing.T) {
	srv := New(http.NewServeMux(), Options{Port: 8000}, testLogger())
	if srv.Addr() != ":8000" {
		t.Errorf("Addr = %q, want :8000", srv.Addr())
	}
}

func TestGracefulShutdown_LIFO(t *testing.T) {
	srv := New(http.NewServeMux(), Options{Port: 0, ShutdownTimeout: time.Second}, testLogger())

	var order []string
	srv.OnShutdown("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	srv.OnShutdown("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	if err := srv.gracefulShutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("shutdown order = %v, want [second first]", order)
	}
}

func TestGracefulShutdown_CollectsErrors(t *testing.T) {
	srv := New(http.NewServeMux(), Options{Port: 0, ShutdownTimeout: time.Second}, testLogger())

	wantErr := errors.New("drain failed")
	srv.OnShutdown("worker", func(ctx context.Context) error {
		return wantErr
	})
	srv.OnShutdown("pool", func(ctx context.Context) error {
		return nil
	})

	if err := srv.gracefulShutdown(); !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}
