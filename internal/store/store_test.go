package store

import (
	"errors"
	"testing"
	"time"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Current(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Current() error = %v, want ErrNoSnapshot", err)
	}
	if v := s.Version(); v != 0 {
		t.Errorf("Version() = %d, want 0", v)
	}
}

func TestMemoryStorePublish(t *testing.T) {
	s := NewMemoryStore()
	s.Publish(domain.Snapshot{Account: domain.AccountScope{Addresses: []string{"a"}}})
	s.Publish(domain.Snapshot{Account: domain.AccountScope{Addresses: []string{"b"}}})

	snap, err := s.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if snap.Account.Addresses[0] != "b" {
		t.Errorf("Current() = %v, want latest snapshot", snap.Account.Addresses)
	}
	if v := s.Version(); v != 2 {
		t.Errorf("Version() = %d, want 2", v)
	}
}

func TestMemoryStoreSubscribeCoalesces(t *testing.T) {
	s := NewMemoryStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Publish(domain.Snapshot{})
	s.Publish(domain.Snapshot{})
	s.Publish(domain.Snapshot{})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after Publish")
	}
	select {
	case <-ch:
		t.Error("received a second notification, want coalesced")
	default:
	}
}

func TestMemoryStoreCancel(t *testing.T) {
	s := NewMemoryStore()
	ch, cancel := s.Subscribe()
	other, cancelOther := s.Subscribe()
	defer cancelOther()

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}

	s.Publish(domain.Snapshot{})
	select {
	case <-other:
	case <-time.After(time.Second):
		t.Error("remaining subscriber not notified")
	}
}
