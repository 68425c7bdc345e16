package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ck1 := k.CompileKey("1+2", false)
	ck2 := k.CompileKey("1+2", true)
	if ck1 == ck2 {
		t.Error("strict mode should produce a different compile key")
	}
	if !strings.HasPrefix(ck1, KeyTypeCompile+":") {
		t.Errorf("CompileKey missing type prefix: %s", ck1)
	}
	if k.CompileKey("1+2", false) != ck1 {
		t.Error("CompileKey should be deterministic")
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 800, Height: 600})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 800, Height: 601})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "simple"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Style: "simple"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "session:abc:")

	if got, want := scoped.CompileKey("1", false), "session:abc:"+inner.CompileKey("1", false); got != want {
		t.Errorf("CompileKey = %s, want %s", got, want)
	}
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "session:abc:layout:") {
		t.Errorf("LayoutKey should be prefixed: %s", got)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "session:abc:artifact:") {
		t.Errorf("ArtifactKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.CompileKey("1", false); got != "prefix:"+NewDefaultKeyer().CompileKey("1", false) {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if !errors.Is(err, errPermanent) {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Should return context error: %v", err)
	}
}

var errPermanent = errors.New("permanent failure")
