package telemetry

import (
	"testing"

	"github.com/google/uuid"
)

func TestLifetimeTrackerCreditsParents(t *testing.T) {
	lt := NewLifetimeTracker()
	mother, father := uuid.New(), uuid.New()
	lt.Register(LifetimeStats{ID: mother})
	lt.Register(LifetimeStats{ID: father})

	for i := 0; i < 3; i++ {
		lt.Register(LifetimeStats{ID: uuid.New(), MotherID: mother, FatherID: father})
	}

	if got := lt.Get(mother).Children; got != 3 {
		t.Errorf("mother children = %d, want 3", got)
	}
	if got := lt.Get(father).Children; got != 3 {
		t.Errorf("father children = %d, want 3", got)
	}
	if lt.Count() != 5 {
		t.Errorf("Count = %d, want 5", lt.Count())
	}
}

func TestLifetimeTrackerFoundersHaveNoParents(t *testing.T) {
	lt := NewLifetimeTracker()
	// Zero parent ids must not create or credit anything.
	lt.Register(LifetimeStats{ID: uuid.New()})
	if lt.Get(uuid.UUID{}) != nil {
		t.Error("zero uuid should not be tracked")
	}
}

func TestLifetimeTrackerRemove(t *testing.T) {
	lt := NewLifetimeTracker()
	id := uuid.New()
	lt.Register(LifetimeStats{ID: id, Name: "Fiver"})

	s := lt.Remove(id)
	if s == nil || s.Name != "Fiver" {
		t.Fatalf("Remove returned %+v", s)
	}
	if lt.Get(id) != nil {
		t.Error("stats still present after Remove")
	}
	if lt.Remove(id) != nil {
		t.Error("second Remove should return nil")
	}
}
