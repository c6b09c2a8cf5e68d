package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["listings"] != CheckOK {
		t.Errorf("expected listings %q, got %q", CheckOK, r.Checks["listings"])
	}
}

func TestCheck_SourceDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["listings"] != CheckError {
		t.Errorf("expected listings %q, got %q", CheckError, r.Checks["listings"])
	}
}
