package core

import (
	"sync"
	"testing"
)

func TestSessionLifecycle(t *testing.T) {
	r := NewMemorySessionRegistry()

	token, err := r.Create("alice")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if token == "" {
		t.Fatal("Create returned empty token")
	}

	owner, ok := r.Resolve(token)
	if !ok || owner != "alice" {
		t.Fatalf("Resolve = (%q, %v), want (alice, true)", owner, ok)
	}

	if !r.Revoke(token) {
		t.Fatal("Revoke reported no entry for a live token")
	}
	if _, ok := r.Resolve(token); ok {
		t.Fatal("Resolve succeeded after Revoke")
	}
}

func TestRevokeTwiceReportsMissingEntry(t *testing.T) {
	r := NewMemorySessionRegistry()
	token, err := r.Create("alice")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if !r.Revoke(token) {
		t.Fatal("first Revoke reported no entry")
	}
	if r.Revoke(token) {
		t.Fatal("second Revoke reported an entry for an already revoked token")
	}
}

func TestResolveUnknownToken(t *testing.T) {
	r := NewMemorySessionRegistry()
	if _, ok := r.Resolve(""); ok {
		t.Fatal("Resolve accepted an empty token")
	}
	if _, ok := r.Resolve("no-such-token"); ok {
		t.Fatal("Resolve accepted an unknown token")
	}
}

func TestCreateProducesDistinctTokens(t *testing.T) {
	r := NewMemorySessionRegistry()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := r.Create("alice")
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token after %d creates", i)
		}
		seen[token] = struct{}{}
	}
	if got := r.ActiveCount(); got != 100 {
		t.Fatalf("ActiveCount = %d, want 100", got)
	}
}

func TestConcurrentCreateResolveRevoke(t *testing.T) {
	r := NewMemorySessionRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				token, err := r.Create("alice")
				if err != nil {
					t.Errorf("Create error: %v", err)
					return
				}
				owner, ok := r.Resolve(token)
				if !ok || owner != "alice" {
					t.Errorf("Resolve = (%q, %v) for a freshly created token", owner, ok)
					return
				}
				if !r.Revoke(token) {
					t.Errorf("Revoke reported no entry for a live token")
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := r.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount = %d after revoking everything, want 0", got)
	}
}
