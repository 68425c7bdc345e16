package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("empty cache Get = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("svg bytes"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(data, []byte("svg bytes")) {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = hit %v, err %v; want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", nil, 0); err == nil {
		t.Error("Set with canceled context should fail")
	}
}
