package game

import (
	"sync"
	"time"
)

// MorphTimer posts a morph request on a fixed interval, independent of the
// frame rate. It never touches particle data: requests are drained by the
// frame loop, which applies the same re-entrancy guard as manual triggers.
type MorphTimer struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartMorphTimer starts posting into requests every interval.
// A non-positive interval returns a stopped timer.
func StartMorphTimer(interval time.Duration, requests chan<- struct{}) *MorphTimer {
	t := &MorphTimer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if interval <= 0 {
		close(t.done)
		return t
	}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				post(requests)
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// Stop cancels the timer and waits for its goroutine to exit. Safe to call repeatedly.
func (t *MorphTimer) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

// post sends without blocking; a pending request already covers this one.
func post(requests chan<- struct{}) {
	select {
	case requests <- struct{}{}:
	default:
	}
}
