package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerManager_FiresOnceAfterDelay(t *testing.T) {
	m := NewTimerManagerWithResolution(time.Millisecond)
	defer m.Stop()

	fired := make(chan time.Time, 2)
	start := time.Now()
	m.AddTimer(20*time.Millisecond, 0, func() { fired <- time.Now() })

	select {
	case at := <-fired:
		if at.Sub(start) < 20*time.Millisecond {
			t.Errorf("Timer fired too early: %v", at.Sub(start))
		}
	case <-time.After(time.Second):
		t.Fatal("Timer never fired")
	}

	select {
	case <-fired:
		t.Fatal("One-shot timer fired twice")
	case <-time.After(50 * time.Millisecond):
	}
	if m.Pending() != 0 {
		t.Errorf("Expected empty queue, got %d", m.Pending())
	}
}

func TestTimerManager_RemoveTimer(t *testing.T) {
	m := NewTimerManagerWithResolution(time.Millisecond)
	defer m.Stop()

	var count int32
	id := m.AddTimer(30*time.Millisecond, 0, func() { atomic.AddInt32(&count, 1) })
	m.RemoveTimer(id)

	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&count) != 0 {
		t.Error("Removed timer should not fire")
	}
}

func TestTimerManager_Interval(t *testing.T) {
	m := NewTimerManagerWithResolution(time.Millisecond)
	defer m.Stop()

	var wg sync.WaitGroup
	wg.Add(3)
	var count int32
	var id int64
	id = m.AddTimer(time.Millisecond, 5*time.Millisecond, func() {
		if atomic.AddInt32(&count, 1) <= 3 {
			wg.Done()
		}
	})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Interval timer fired %d times, expected at least 3", atomic.LoadInt32(&count))
	}
	m.RemoveTimer(id)
}

func TestTimerQueue_OrdersByTimeThenId(t *testing.T) {
	now := time.Now()
	q := TimerQueue{
		{Id: 2, Execute: now},
		{Id: 1, Execute: now},
		{Id: 3, Execute: now.Add(-time.Second)},
	}
	if !q.Less(2, 0) {
		t.Error("Earlier task should sort first")
	}
	if !q.Less(1, 0) {
		t.Error("Same-time tasks should sort by id")
	}
}
