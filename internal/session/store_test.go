package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	s, err := New(castle, Options{TickEvery: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("get: %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("len = %d", st.Len())
	}
	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("delete did not close the session")
	}
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	s, err := New(castle, Options{TickEvery: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	_ = st.Save(ctx, s)

	if n := st.Sweep(time.Hour); n != 0 {
		t.Fatalf("swept %d fresh sessions", n)
	}
	time.Sleep(10 * time.Millisecond)
	if n := st.Sweep(time.Millisecond); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("sweep did not close the session")
	}
	if st.Len() != 0 {
		t.Fatalf("len = %d", st.Len())
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Janitor(ctx, NewMemoryStore(), time.Millisecond, time.Minute)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	st := NewMemoryStore()
	var all []*Session
	for i := 0; i < 3; i++ {
		s, err := New(castle, Options{TickEvery: time.Hour})
		if err != nil {
			t.Fatal(err)
		}
		_ = st.Save(context.Background(), s)
		all = append(all, s)
	}
	if n := st.Clear(); n != 3 || st.Len() != 0 {
		t.Fatalf("cleared %d, left %d", n, st.Len())
	}
	for _, s := range all {
		select {
		case <-s.Done():
		default:
			t.Fatal("session left running")
		}
	}
}
