package wakequeue

import (
	"sync"
	"testing"
	"time"
)

func TestQueueFiresEarliestFirst(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	q := New(func(key string) {
		mu.Lock()
		fired = append(fired, key)
		mu.Unlock()
	})

	done := make(chan struct{})
	go q.Run(done)
	defer close(done)

	now := time.Now()
	q.Put("slow", now.Add(150*time.Millisecond))
	q.Put("fast", now.Add(20*time.Millisecond))

	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 2 {
		t.Fatalf("expected both wake-ups to fire, got %v", fired)
	}
	if fired[0] != "fast" {
		t.Fatalf("expected the earlier deadline to fire first, got %v", fired)
	}
}

func TestQueueReplacesExistingKey(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	q := New(func(key string) {
		mu.Lock()
		fired = append(fired, key)
		mu.Unlock()
	})

	done := make(chan struct{})
	go q.Run(done)
	defer close(done)

	now := time.Now()
	q.Put("match", now.Add(500*time.Millisecond))
	q.Put("match", now.Add(30*time.Millisecond))

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("expected exactly one fire after replacing the deadline, got %v", fired)
	}
}

func TestQueueCancel(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	q := New(func(key string) {
		mu.Lock()
		fired = append(fired, key)
		mu.Unlock()
	})

	done := make(chan struct{})
	go q.Run(done)
	defer close(done)

	q.Put("match", time.Now().Add(30*time.Millisecond))
	q.Cancel("match")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 0 {
		t.Fatalf("expected the cancelled wake-up to never fire, got %v", fired)
	}
}
