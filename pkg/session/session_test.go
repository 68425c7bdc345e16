package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/exprtree/pkg/expr"
)

func TestSessionCompile(t *testing.T) {
	s := New("abc", time.Hour)
	if s.Tree() != nil {
		t.Fatal("new session should have no tree")
	}
	if _, err := s.Layout(100, 100); !errors.Is(err, ErrNoTree) {
		t.Fatalf("Layout() error = %v, want ErrNoTree", err)
	}

	tree, err := s.Compile("2+3*4", false)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if got := tree.ResultString(); got != "14" {
		t.Errorf("result = %s, want 14", got)
	}
	if s.Tree() != tree {
		t.Error("Tree() should return the compiled tree")
	}

	rec := s.Record()
	if rec.ID != "abc" || rec.Expression != "2+3*4" || rec.Strict {
		t.Errorf("Record() = %+v", rec)
	}
}

func TestSessionFailedCompileKeepsTree(t *testing.T) {
	s := New("abc", 0)
	first, err := s.Compile("(2+3)*4", false)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	tests := []struct {
		name   string
		input  string
		strict bool
	}{
		{"empty", "", false},
		{"dangling", "1+", false},
		{"strict unexpected", "12$", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Compile(tt.input, tt.strict); err == nil {
				t.Fatal("expected error")
			}
			if s.Tree() != first {
				t.Error("failed compile replaced the tree")
			}
			if got := s.Record().Expression; got != "(2+3)*4" {
				t.Errorf("record expression = %q", got)
			}
		})
	}
}

func TestSessionLayoutAndEdges(t *testing.T) {
	s := New("abc", 0)
	if _, err := s.Compile("1+2*3", false); err != nil {
		t.Fatal(err)
	}
	l, err := s.Layout(500, 300)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 5 {
		t.Errorf("got %d nodes, want 5", len(l.Nodes))
	}
	edges, err := s.Edges()
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 4 {
		t.Errorf("got %d edges, want 4", len(edges))
	}
}

func TestSessionConcurrentReaders(t *testing.T) {
	s := New("abc", 0)
	if _, err := s.Compile("1+1", false); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Compile("2*3", false)
		}()
		go func() {
			defer wg.Done()
			tree := s.Tree()
			if tree == nil {
				t.Error("nil tree")
				return
			}
			// Every observed tree is complete.
			if tree.Count() != 3 {
				t.Errorf("Count() = %d, want 3", tree.Count())
			}
		}()
	}
	wg.Wait()
}

func TestRestore(t *testing.T) {
	rec := Record{ID: "r1", Expression: "12$", Strict: false}
	s, err := Restore(rec)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if got := s.Tree().ResultString(); got != "12" {
		t.Errorf("result = %s, want 12", got)
	}

	rec.Strict = true
	if _, err := Restore(rec); !errors.Is(err, expr.UnexpectedCharacter) {
		t.Errorf("strict Restore() error = %v, want UnexpectedCharacter", err)
	}

	empty, err := Restore(Record{ID: "r2"})
	if err != nil || empty.Tree() != nil {
		t.Errorf("Restore(empty) = %v, %v", empty.Tree(), err)
	}
}

func TestRecordIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"never", time.Time{}, false},
		{"future", time.Now().Add(time.Hour), false},
		{"past", time.Now().Add(-time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{ExpiresAt: tt.expiresAt}
			if got := r.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, time.Hour)

	s, err := m.Create(ctx, "2*-3", false)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if got := s.Tree().ResultString(); got != "-6" {
		t.Errorf("result = %s, want -6", got)
	}
	if rec, _ := store.Get(ctx, s.ID()); rec == nil {
		t.Fatal("record was not persisted")
	}

	got, err := m.Get(ctx, s.ID())
	if err != nil || got != s {
		t.Fatalf("Get() = %v, %v", got, err)
	}

	if _, err := m.Update(ctx, s.ID(), "1+", false); err == nil {
		t.Fatal("Update() with bad expression should fail")
	}
	if got := s.Tree().ResultString(); got != "-6" {
		t.Errorf("failed update changed result to %s", got)
	}

	if _, err := m.Update(ctx, s.ID(), "10/4", false); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	rec, _ := store.Get(ctx, s.ID())
	if rec.Expression != "10/4" {
		t.Errorf("stored expression = %q", rec.Expression)
	}

	if err := m.Delete(ctx, s.ID()); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := m.Get(ctx, s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestManagerCreateInvalid(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, time.Hour)
	if _, err := m.Create(context.Background(), "()", false); err == nil {
		t.Fatal("expected error")
	}
	if m.Len() != 0 || len(store.records) != 0 {
		t.Error("failed create left state behind")
	}
}

func TestManagerRestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, err := NewManager(store, time.Hour).Create(ctx, "(1+2)*3", false)
	if err != nil {
		t.Fatal(err)
	}

	// A second manager sharing the store, as another server instance would.
	other := NewManager(store, time.Hour)
	got, err := other.Get(ctx, s.ID())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Tree().ResultString() != "9" {
		t.Errorf("restored result = %s, want 9", got.Tree().ResultString())
	}
}

func TestManagerExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), time.Millisecond)
	s, err := m.Create(ctx, "1", false)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Get(ctx, s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := m.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", m.Len())
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("IDs should be unique")
	}
	if len(a) != 36 {
		t.Errorf("len = %d, want 36", len(a))
	}
}
