package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

func TestStepClock_FirstNowIsStart(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_Advances(t *testing.T) {
	clock := NewStepClock(epoch, time.Minute)

	clock.Now()
	clock.Now()

	assert.Equal(t, epoch.Add(2*time.Minute), clock.Peek())
	assert.Equal(t, epoch.Add(2*time.Minute), clock.Now())
}

func TestStepClock_ZeroStepIsFrozen(t *testing.T) {
	clock := NewStepClock(epoch, 0)
	assert.Equal(t, clock.Now(), clock.Now())
}

func TestStepClock_Set(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)
	earlier := epoch.Add(-time.Hour)

	clock.Set(earlier)

	assert.Equal(t, earlier, clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var mu sync.Mutex
	seen := make(map[time.Time]bool)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				ts := clock.Now()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every call observed a distinct instant.
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}
