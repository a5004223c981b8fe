package donate

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestService_Load(t *testing.T) {
	charities := &mockCharities{charities: testCharities()}
	svc := NewDonateService(charities, time.Second, discardLogger())

	got := svc.Load(context.Background(), "session-1", &mockLocation{location: testLocation()})

	if got.Kind() != KindLoaded {
		t.Fatalf("Kind() = %v, want %v", got.Kind(), KindLoaded)
	}
	if got.Charities()[0].Name != "Red Cross" {
		t.Errorf("Charities()[0].Name = %q, want Red Cross", got.Charities()[0].Name)
	}
}

func TestService_LoadWithoutKey(t *testing.T) {
	charities := &mockCharities{charities: testCharities()}
	svc := NewDonateService(charities, time.Second, discardLogger())

	for i := 0; i < 2; i++ {
		svc.Load(context.Background(), "", &mockLocation{location: testLocation()})
	}
	if charities.calls.Load() != 2 {
		t.Errorf("charity calls = %d, want 2", charities.calls.Load())
	}
}

func TestService_ConcurrentLoadsForOneSession(t *testing.T) {
	location := &mockLocation{location: testLocation()}
	charities := &mockCharities{charities: testCharities(), release: make(chan struct{})}
	svc := NewDonateService(charities, 5*time.Second, discardLogger())

	first := make(chan State, 1)
	go func() {
		first <- svc.Load(context.Background(), "session-1", location)
	}()
	for charities.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	const callers = 4
	results := make([]State, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Load(context.Background(), "session-1", location)
		}()
	}

	// give the followers time to join the pending run
	time.Sleep(100 * time.Millisecond)
	close(charities.release)
	wg.Wait()
	leader := <-first

	if location.calls.Load() != 1 || charities.calls.Load() != 1 {
		t.Errorf("provider calls = %d/%d, want 1/1", location.calls.Load(), charities.calls.Load())
	}
	for i, s := range append(results, leader) {
		if s.Kind() != KindLoaded || len(s.Charities()) != 1 {
			t.Errorf("caller %d got %v with %d charities", i, s.Kind(), len(s.Charities()))
		}
	}
}

func TestService_SessionsAreIndependent(t *testing.T) {
	charities := &mockCharities{charities: testCharities()}
	svc := NewDonateService(charities, time.Second, discardLogger())

	a := svc.Load(context.Background(), "a", &mockLocation{location: testLocation()})
	b := svc.Load(context.Background(), "b", &mockLocation{err: context.Canceled})

	if a.Kind() != KindLoaded {
		t.Errorf("session a Kind() = %v, want %v", a.Kind(), KindLoaded)
	}
	if b.Kind() != KindLocationFailed {
		t.Errorf("session b Kind() = %v, want %v", b.Kind(), KindLocationFailed)
	}
}

func TestService_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	location := &mockLocation{location: testLocation(), release: make(chan struct{})}
	charities := &mockCharities{charities: testCharities()}
	svc := NewDonateService(charities, 5*time.Second, discardLogger())

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()

	first := make(chan State, 1)
	go func() {
		first <- svc.Load(ctx1, "session-1", location)
	}()
	for location.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := make(chan State, 1)
	go func() {
		second <- svc.Load(context.Background(), "session-1", location)
	}()

	// give the second caller time to join the pending run
	time.Sleep(100 * time.Millisecond)
	cancel1()

	select {
	case got := <-first:
		if got.Kind() != KindUnexpectedFailure {
			t.Errorf("cancelled caller Kind() = %v, want %v", got.Kind(), KindUnexpectedFailure)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the shared run")
	}

	close(location.release)

	got := <-second
	if got.Kind() != KindLoaded {
		t.Errorf("joined caller Kind() = %v (%q), want %v", got.Kind(), got.ErrorMessage(), KindLoaded)
	}
	if len(got.Charities()) != 1 {
		t.Errorf("joined caller got %d charities, want 1", len(got.Charities()))
	}
	if location.calls.Load() != 1 || charities.calls.Load() != 1 {
		t.Errorf("provider calls = %d/%d, want 1/1", location.calls.Load(), charities.calls.Load())
	}
}

func TestService_LoadWithoutKeyHonoursCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewDonateService(&mockCharities{charities: testCharities()}, time.Second, discardLogger())
	got := svc.Load(ctx, "", &mockLocation{block: true})

	if got.Kind() != KindUnexpectedFailure {
		t.Errorf("Kind() = %v, want %v", got.Kind(), KindUnexpectedFailure)
	}
}
