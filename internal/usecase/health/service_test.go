package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockBackend struct {
	err error
}

func (m *mockBackend) Health(_ context.Context) error { return m.err }

type mockCache struct {
	err error
}

func (m *mockCache) Ping(_ context.Context) error { return m.err }

type mockRecognizer struct {
	err error
}

func (m *mockRecognizer) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")
	tests := []struct {
		name       string
		backend    error
		cache      error
		recognizer error
		want       Status
		failing    string
	}{
		{"all healthy", nil, nil, nil, Healthy, ""},
		{"backend down", down, nil, nil, Unhealthy, ComponentBackend},
		{"cache down", nil, down, nil, Degraded, ComponentCache},
		{"recognizer down", nil, nil, down, Degraded, ComponentRecognizer},
		{"backend and cache down", down, down, nil, Unhealthy, ComponentBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockBackend{err: tt.backend}, &mockCache{err: tt.cache}).
				WithRecognizer(&mockRecognizer{err: tt.recognizer})
			r := svc.Check(context.Background())

			if r.Status != tt.want {
				t.Errorf("expected %q, got %q", tt.want, r.Status)
			}
			if len(r.Checks) != 3 {
				t.Errorf("expected 3 checks, got %v", r.Checks)
			}
			if tt.failing != "" && r.Checks[tt.failing] != CheckError {
				t.Errorf("expected %s %q, got %q", tt.failing, CheckError, r.Checks[tt.failing])
			}
		})
	}
}

func TestCheck_OptionalComponents(t *testing.T) {
	r := New(&mockBackend{}, nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentCache]; ok {
		t.Error("cache check should be absent when no cache is configured")
	}
	if _, ok := r.Checks[ComponentRecognizer]; ok {
		t.Error("recognizer check should be absent when none is configured")
	}
}
