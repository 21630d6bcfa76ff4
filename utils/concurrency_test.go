package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(3)
	var ran int64

	for i := 0; i < 20; i++ {
		pool.Submit(func() error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}
	if errs := pool.Wait(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if ran != 20 {
		t.Errorf("ran: got %d, want 20", ran)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var active, peak int64

	for i := 0; i < 8; i++ {
		pool.Submit(func() error {
			n := atomic.AddInt64(&active, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&active, -1)
			return nil
		})
	}
	pool.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency: got %d, want <= 2", peak)
	}
}

func TestWorkerPoolCollectsErrors(t *testing.T) {
	pool := NewWorkerPool(2)
	boom := errors.New("boom")

	pool.Submit(func() error { return boom })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return boom })

	errs := pool.Wait()
	if len(errs) != 2 {
		t.Fatalf("errors: got %d, want 2", len(errs))
	}
	for _, err := range errs {
		if !errors.Is(err, boom) {
			t.Errorf("unexpected error %v", err)
		}
	}
}
