package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/catalog-tools/catqa/internal/keypool"
)

func newTestCleaner(t *testing.T, keys []string, cap int) (*GeminiCleaner, *keypool.Pool) {
	t.Helper()
	pool, err := keypool.New(keys, cap)
	if err != nil {
		t.Fatalf("keypool.New: %v", err)
	}
	c := New(pool, Config{
		Model:     "test-model",
		RetryBase: time.Millisecond,
		RetryMax:  2 * time.Millisecond,
	}, zerolog.Nop())
	return c, pool
}

func TestTitleCaseBatchSuccess(t *testing.T) {
	c, pool := newTestCleaner(t, []string{"k1", "k2"}, 5)
	c.generate = func(_ context.Context, credential, prompt string) ([]string, error) {
		if !strings.Contains(prompt, "1. BG ZERO") {
			t.Errorf("prompt missing numbered name list:\n%s", prompt)
		}
		return []string{"BG Zero", "Hydraulic Dock Leveler"}, nil
	}

	got, err := c.TitleCaseBatch(context.Background(), []string{"BG ZERO", "HYDRAULIC DOCK LEVELER"})
	if err != nil {
		t.Fatalf("TitleCaseBatch: %v", err)
	}
	if got["BG ZERO"] != "BG Zero" {
		t.Errorf("mapping[BG ZERO] = %q", got["BG ZERO"])
	}
	if st := pool.Status(); st.TotalCalls != 1 {
		t.Errorf("total calls = %d, want 1", st.TotalCalls)
	}
}

func TestTitleCaseBatchRotatesOnQuotaError(t *testing.T) {
	c, _ := newTestCleaner(t, []string{"k1", "k2"}, 5)
	var used []string
	c.generate = func(_ context.Context, credential, _ string) ([]string, error) {
		used = append(used, credential)
		if credential == "k1" {
			return nil, errors.New("googleapi: Error 429: quota exceeded")
		}
		return []string{"Dock Leveler"}, nil
	}

	got, err := c.TitleCaseBatch(context.Background(), []string{"DOCK LEVELER"})
	if err != nil {
		t.Fatalf("TitleCaseBatch: %v", err)
	}
	if got["DOCK LEVELER"] != "Dock Leveler" {
		t.Errorf("mapping = %v", got)
	}
	if len(used) != 2 || used[0] != "k1" || used[1] != "k2" {
		t.Errorf("credential order = %v, want [k1 k2]", used)
	}
}

func TestTitleCaseBatchDegradesToIdentity(t *testing.T) {
	c, _ := newTestCleaner(t, []string{"k1", "k2"}, 5)
	c.generate = func(context.Context, string, string) ([]string, error) {
		return nil, fmt.Errorf("connection refused")
	}

	names := []string{"BG-40", "ASM SERIES"}
	got, err := c.TitleCaseBatch(context.Background(), names)
	if err == nil {
		t.Fatal("expected degradation error")
	}
	for _, n := range names {
		if got[n] != n {
			t.Errorf("mapping[%q] = %q, want identity", n, got[n])
		}
	}
}

func TestTitleCaseBatchRejectsLengthMismatch(t *testing.T) {
	c, _ := newTestCleaner(t, []string{"k1"}, 5)
	c.generate = func(context.Context, string, string) ([]string, error) {
		return []string{"only one"}, nil
	}

	got, err := c.TitleCaseBatch(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error on length mismatch")
	}
	if got["a"] != "a" || got["b"] != "b" {
		t.Errorf("mapping = %v, want identity", got)
	}
}

func TestTitleCaseBatchEmptyInput(t *testing.T) {
	c, pool := newTestCleaner(t, []string{"k1"}, 1)
	c.generate = func(context.Context, string, string) ([]string, error) {
		t.Fatal("generate must not be called for empty input")
		return nil, nil
	}
	got, err := c.TitleCaseBatch(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
	if st := pool.Status(); st.TotalCalls != 0 {
		t.Errorf("total calls = %d, want 0", st.TotalCalls)
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Resource has been exhausted"), true},
		{errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), true},
		{errors.New("googleapi: Error 429"), true},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := isQuotaError(tt.err); got != tt.want {
			t.Errorf("isQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
