package review

import (
	"strings"
	"testing"

	"teambot/internal/knowledge"
)

func TestNewActionIDPrefixAndUniqueness(t *testing.T) {
	a, b := NewActionID(), NewActionID()
	if !strings.HasPrefix(a, "review_") {
		t.Fatalf("got %q", a)
	}
	if a == b {
		t.Fatal("action IDs must be unique")
	}
}

func TestPendingStoreTakeConsumes(t *testing.T) {
	store := NewPendingStore(nil)
	id := NewActionID()
	store.Put(id, PendingRegistration{TeamKey: "dev", Kind: knowledge.KindLearning, Original: "원본"})

	reg, ok := store.Take(id)
	if !ok || reg.Original != "원본" {
		t.Fatalf("got %+v ok=%v", reg, ok)
	}
	if _, ok := store.Take(id); ok {
		t.Fatal("second take must miss")
	}
}

func TestPendingStoreGetDoesNotConsume(t *testing.T) {
	store := NewPendingStore(nil)
	id := NewActionID()
	store.Put(id, PendingRegistration{TeamKey: "marketing", Kind: knowledge.KindStandard})

	if _, ok := store.Get(id); !ok {
		t.Fatal("expected hit")
	}
	if _, ok := store.Get(id); !ok {
		t.Fatal("get must not consume the entry")
	}
}

func TestPendingStoreRemove(t *testing.T) {
	store := NewPendingStore(nil)
	id := NewActionID()
	store.Put(id, PendingRegistration{TeamKey: "design"})
	store.Remove(id)
	if _, ok := store.Get(id); ok {
		t.Fatal("expected miss after remove")
	}
}

func TestPendingStoreMissingID(t *testing.T) {
	store := NewPendingStore(nil)
	if _, ok := store.Get("review_missing"); ok {
		t.Fatal("expected miss")
	}
}
