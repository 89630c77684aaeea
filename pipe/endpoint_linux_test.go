//go:build linux
// +build linux

// Package pipe tests the socketpair endpoint.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipe

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/momentics/hioload-pipe/api"
)

func TestPair_RoundTrip(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	defer a.Close()
	defer b.Close()

	if a.Handle() == 0 || b.Handle() == 0 {
		t.Errorf("expected non-zero handles, got %d and %d", a.Handle(), b.Handle())
	}

	msg := []byte("ping")
	if _, err := a.Write(msg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	buf := make([]byte, 16)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Errorf("expected %q, got %q", msg, buf[:n])
	}
}

func TestRead_EmptyWouldBlock(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	defer a.Close()
	defer b.Close()

	buf := make([]byte, 16)
	if _, err := b.Read(buf); !errors.Is(err, api.ErrWouldBlock) {
		t.Errorf("expected ErrWouldBlock on empty pipe, got %v", err)
	}
}

func TestRead_PeerClosedEOF(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	buf := make([]byte, 16)
	if _, err := b.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after peer close, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	a, b, err := Pair()
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("repeated Close must be a no-op, got %v", err)
	}
	if _, err := a.Read(make([]byte, 4)); !errors.Is(err, api.ErrEndpointClosed) {
		t.Errorf("Read on closed endpoint: expected ErrEndpointClosed, got %v", err)
	}
	if _, err := a.Write([]byte("x")); !errors.Is(err, api.ErrEndpointClosed) {
		t.Errorf("Write on closed endpoint: expected ErrEndpointClosed, got %v", err)
	}
}
