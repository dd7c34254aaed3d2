package md2typst

import (
	"errors"
	"sync"
	"testing"
)

func TestNewConverterPool(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(3)
	defer pool.Close()

	if pool.Size() != 3 {
		t.Errorf("Size() = %d, want 3", pool.Size())
	}
}

func TestNewConverterPoolClampsToOne(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(0)
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}
}

func TestPoolAcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2)
	defer pool.Close()

	c1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	c2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if c1 == c2 {
		t.Error("pool handed out the same converter twice")
	}

	pool.Release(c1)
	c3, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if c3 != c1 {
		t.Error("released converter was not reused")
	}
	pool.Release(c2)
	pool.Release(c3)
}

func TestPoolAcquireInvalidOptions(t *testing.T) {
	t.Parallel()

	bad := DefaultConfig()
	bad.Links.Color = "nope"
	pool := NewConverterPool(1, WithConfig(bad))
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidLinkColor) {
		t.Fatalf("Acquire() error = %v, want ErrInvalidLinkColor", err)
	}

	// A failed creation must not leak capacity.
	if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidLinkColor) {
		t.Errorf("second Acquire() error = %v, want ErrInvalidLinkColor", err)
	}
}

func TestPoolConcurrentUse(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			c, err := pool.Acquire()
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			_ = Markup("# doc\n", nil)
			pool.Release(c)
		}()
	}
	wg.Wait()
}

func TestPoolCloseIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestPoolReleaseAfterCloseDoesNotPanic(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1)
	c, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	pool.Release(c)
}

func TestPoolCloseRacingReleaseDoesNotPanic(t *testing.T) {
	t.Parallel()

	// Close must never interleave between Release's closed-check and its
	// channel send; a lost race panics on send to a closed channel.
	for i := 0; i < 200; i++ {
		pool := NewConverterPool(1)
		c, err := pool.Acquire()
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			pool.Release(c)
		}()
		go func() {
			defer wg.Done()
			_ = pool.Close()
		}()
		wg.Wait()
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit workers win", 5, 5},
		{"explicit one", 1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSizeAutoBounds(t *testing.T) {
	t.Parallel()

	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}
}
