package aiclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDoubling(t *testing.T) {
	b := newBackoff(10*time.Millisecond, 40*time.Millisecond)
	ctx := context.Background()

	// cur grows 10 -> 20 -> 40 and then stays capped at max.
	wantCur := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		40 * time.Millisecond,
	}
	for i, want := range wantCur {
		if err := b.Sleep(ctx); err != nil {
			t.Fatalf("sleep %d: %v", i, err)
		}
		if b.cur != want {
			t.Errorf("after sleep %d: cur = %v, want %v", i, b.cur, want)
		}
	}

	b.Reset()
	if err := b.Sleep(ctx); err != nil {
		t.Fatalf("sleep after reset: %v", err)
	}
	if b.cur != 10*time.Millisecond {
		t.Errorf("after reset: cur = %v, want base", b.cur)
	}
}

func TestBackoffCanceledContext(t *testing.T) {
	b := newBackoff(time.Minute, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := b.Sleep(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("canceled sleep should return immediately")
	}
}
