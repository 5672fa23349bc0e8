package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "boards", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "board:global", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "boards" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "board:k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "board:k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "board:a", 1)
	if v, ok := store.Get(ctx, "board:a"); !ok || v != 1 {
		t.Fatalf("expected to read back the stored value, got %v %v", v, ok)
	}

	store.Delete(ctx, "board:a")
	if _, ok := store.Get(ctx, "board:a"); ok {
		t.Fatalf("expected the key to be gone after delete")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "board:a", 1)
	store.Set(ctx, "board:b", 2)
	store.Set(ctx, "other:c", 3)

	store.DeletePrefix(ctx, "board:")

	if _, ok := store.Get(ctx, "board:a"); ok {
		t.Fatalf("expected board:a to be gone")
	}
	if _, ok := store.Get(ctx, "board:b"); ok {
		t.Fatalf("expected board:b to be gone")
	}
	if _, ok := store.Get(ctx, "other:c"); !ok {
		t.Fatalf("expected other:c to survive")
	}
}

func TestDisabledStore_NeverRetains(t *testing.T) {
	t.Parallel()

	store := NewDisabledStore()
	ctx := context.Background()

	store.Set(ctx, "board:a", 1)
	if _, ok := store.Get(ctx, "board:a"); ok {
		t.Fatalf("disabled store must not retain values")
	}

	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "fresh", nil
	}
	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(ctx, "board:a", loader); err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected the loader to run every time, got %d", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
