package service

import (
	"sync"
	"testing"
	"time"
)

func TestProfessionalLocksMutualExclusion(t *testing.T) {
	locks := newProfessionalLocks()

	const goroutines = 32
	var inSection, maxInSection int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release := locks.Acquire("prof-1")
			defer release()

			mu.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxInSection != 1 {
		t.Errorf("expected at most 1 goroutine in the exclusive section, observed %d", maxInSection)
	}
}

func TestProfessionalLocksIndependentKeys(t *testing.T) {
	locks := newProfessionalLocks()

	releaseA := locks.Acquire("prof-a")
	defer releaseA()

	// Must not block while prof-a is held.
	done := make(chan struct{})
	go func() {
		release := locks.Acquire("prof-b")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("acquiring an unrelated professional's lock blocked")
	}
}

func TestProfessionalLocksReentryAfterRelease(t *testing.T) {
	locks := newProfessionalLocks()

	release := locks.Acquire("prof-1")
	release()

	done := make(chan struct{})
	go func() {
		release := locks.Acquire("prof-1")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock was not released")
	}
}
