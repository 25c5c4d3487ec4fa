package watcher

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidEvents(t *testing.T) {
	var callCount atomic.Int32

	delay := 100 * time.Millisecond
	d := NewDebouncer(delay, func(path string) {
		callCount.Add(1)
	})

	// An editor saving repeatedly keeps resetting the timer.
	for i := 0; i < 5; i++ {
		d.Add("/scripts/1.seed.sql")
		time.Sleep(20 * time.Millisecond)
	}
	if !d.IsPending("/scripts/1.seed.sql") {
		t.Error("file should still be pending")
	}

	time.Sleep(delay + 50*time.Millisecond)

	if callCount.Load() != 1 {
		t.Errorf("expected callback once, got %d", callCount.Load())
	}
	if d.IsPending("/scripts/1.seed.sql") {
		t.Error("file should not be pending after callback")
	}
}

func TestDebouncer_MultipleFiles(t *testing.T) {
	var mu sync.Mutex
	called := make(map[string]int)

	delay := 50 * time.Millisecond
	d := NewDebouncer(delay, func(path string) {
		mu.Lock()
		called[path]++
		mu.Unlock()
	})

	d.Add("/scripts/1.a.sql")
	d.Add("/scripts/2.b.sql")
	d.Add("/scripts/3.c.sql")
	if d.PendingCount() != 3 {
		t.Errorf("expected 3 pending, got %d", d.PendingCount())
	}

	time.Sleep(delay + 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(called) != 3 {
		t.Errorf("expected 3 paths called, got %d", len(called))
	}
	for path, count := range called {
		if count != 1 {
			t.Errorf("%s called %d times", path, count)
		}
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var called atomic.Int32

	delay := 100 * time.Millisecond
	d := NewDebouncer(delay, func(path string) {
		called.Add(1)
	})

	d.Add("/scripts/1.a.sql")
	d.Add("/scripts/2.b.sql")
	d.Cancel("/scripts/1.a.sql")
	d.Cancel("/scripts/missing.sql")

	if d.IsPending("/scripts/1.a.sql") {
		t.Error("file should not be pending after Cancel")
	}

	d.CancelAll()
	if d.PendingCount() != 0 {
		t.Errorf("expected 0 pending after CancelAll, got %d", d.PendingCount())
	}

	time.Sleep(delay + 50*time.Millisecond)
	if called.Load() != 0 {
		t.Errorf("cancelled files fired %d callbacks", called.Load())
	}
}

func TestDebouncer_ConcurrentAccess(t *testing.T) {
	var callCount atomic.Int32

	delay := 50 * time.Millisecond
	d := NewDebouncer(delay, func(path string) {
		callCount.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				d.Add("/scripts/concurrent.sql")
				time.Sleep(5 * time.Millisecond)
			}
		}()
	}
	wg.Wait()

	time.Sleep(delay + 50*time.Millisecond)

	if callCount.Load() != 1 {
		t.Errorf("expected callback once, got %d", callCount.Load())
	}
}
