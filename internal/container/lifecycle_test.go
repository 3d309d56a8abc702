package container

import (
	"context"
	"errors"
	"testing"
)

type fakeComponent struct {
	name     string
	startErr error
	log      *[]string
}

func (f *fakeComponent) Start(ctx context.Context) error {
	*f.log = append(*f.log, "start:"+f.name)
	return f.startErr
}

func (f *fakeComponent) Stop() error {
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

func (f *fakeComponent) Health() error { return nil }

func TestLifecycleStartRollbackOnFailure(t *testing.T) {
	var log []string
	m := NewLifecycleManager()
	m.Register(&fakeComponent{name: "a", log: &log})
	m.Register(&fakeComponent{name: "b", startErr: errors.New("boom"), log: &log})
	m.Register(&fakeComponent{name: "c", log: &log})

	if err := m.StartAll(context.Background()); err == nil {
		t.Fatal("expected start failure")
	}
	want := []string{"start:a", "start:b", "stop:a"}
	if len(log) != len(want) {
		t.Fatalf("unexpected sequence %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("unexpected sequence %v", log)
		}
	}
}

func TestLifecycleStopReverseOrder(t *testing.T) {
	var log []string
	m := NewLifecycleManager()
	m.Register(&fakeComponent{name: "a", log: &log})
	m.Register(&fakeComponent{name: "b", log: &log})

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.StopAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("unexpected sequence %v", log)
		}
	}
}
