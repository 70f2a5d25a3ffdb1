package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/shelfsense/pidash/internal/api"
)

func TestFetchCachesWithinTTL(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	for i := 0; i < 5; i++ {
		v, err := Fetch(context.Background(), s, "k", time.Minute, fn)
		if err != nil || v != "value" {
			t.Fatalf("Fetch #%d: %v, %v", i, v, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
}

func TestFetchRefetchesAfterStaleness(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	fn := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	if v, _ := Fetch(context.Background(), s, "k", 20*time.Millisecond, fn); v != 1 {
		t.Fatalf("first fetch = %d", v)
	}
	time.Sleep(50 * time.Millisecond)
	if v, _ := Fetch(context.Background(), s, "k", 20*time.Millisecond, fn); v != 2 {
		t.Errorf("stale entry not refetched")
	}
}

// N concurrent fetches for one key produce exactly one upstream request.
func TestFetchDeduplicatesInflight(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	release := make(chan struct{})
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), s, "k", time.Minute, fn)
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
			}
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond) // let all goroutines join the flight
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("upstream called %d times, want 1", calls.Load())
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("goroutine %d got %q", i, v)
		}
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	fn := func(context.Context) (int64, error) {
		return calls.Add(1), nil
	}

	_, _ = Fetch(context.Background(), s, "k", time.Minute, fn)
	s.Invalidate("k")
	v, _ := Fetch(context.Background(), s, "k", time.Minute, fn)
	if v != 2 {
		t.Errorf("invalidated key served stale value %d", v)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	fn := func(context.Context) (int64, error) {
		return calls.Add(1), nil
	}

	_, _ = Fetch(context.Background(), s, "sessions:a", time.Minute, fn)
	_, _ = Fetch(context.Background(), s, "sessions:b", time.Minute, fn)
	_, _ = Fetch(context.Background(), s, "door", time.Minute, fn)

	s.InvalidatePrefix("sessions:")

	_, _ = Fetch(context.Background(), s, "sessions:a", time.Minute, fn)
	_, _ = Fetch(context.Background(), s, "sessions:b", time.Minute, fn)
	if n := calls.Load(); n != 5 {
		t.Errorf("calls = %d, want 5 (both session keys refetched)", n)
	}

	_, _ = Fetch(context.Background(), s, "door", time.Minute, fn)
	if n := calls.Load(); n != 5 {
		t.Errorf("calls = %d, prefix eviction must not touch other keys", n)
	}
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	fn := func(context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", &api.Error{Code: api.CodeServer, Retryable: true, Message: "boom"}
		}
		return "recovered", nil
	}

	v, err := Fetch(context.Background(), s, "k", time.Minute, fn)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if v != "recovered" || calls.Load() != 3 {
		t.Errorf("v=%q calls=%d", v, calls.Load())
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	s := NewStore(time.Minute, zaptest.NewLogger(t))
	var calls atomic.Int64
	clientErr := &api.Error{Code: api.CodeClient, Retryable: false, Message: "bad request"}
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		return "", clientErr
	}

	_, err := Fetch(context.Background(), s, "k", time.Minute, fn)
	if !errors.Is(err, clientErr) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("client error retried: %d calls", calls.Load())
	}
}

func TestShouldRetryTable(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		err     error
		want    bool
	}{
		{"nil error", 1, nil, false},
		{"network retryable", 1, &api.Error{Code: api.CodeNetwork, Retryable: true}, true},
		{"server retryable", 2, &api.Error{Code: api.CodeServer, Retryable: true}, true},
		{"client not retryable", 1, &api.Error{Code: api.CodeClient, Retryable: false}, false},
		{"validation not retryable", 1, &api.Error{Code: api.CodeValidation, Retryable: false}, false},
		{"unavailable not retryable", 1, &api.Error{Code: api.CodeUnavailable, Retryable: false}, false},
		{"cap reached", MaxAttempts, &api.Error{Code: api.CodeServer, Retryable: true}, false},
		{"unknown error retryable", 1, errors.New("dial tcp: timeout"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.attempt, tt.err); got != tt.want {
				t.Errorf("ShouldRetry(%d, %v) = %v, want %v", tt.attempt, tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoffCapped(t *testing.T) {
	if Backoff(1) != 250*time.Millisecond {
		t.Errorf("Backoff(1) = %v", Backoff(1))
	}
	if Backoff(2) != 500*time.Millisecond {
		t.Errorf("Backoff(2) = %v", Backoff(2))
	}
	if Backoff(10) != 2*time.Second {
		t.Errorf("Backoff(10) = %v, want cap", Backoff(10))
	}
}
