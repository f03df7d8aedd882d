package presence

import (
	"fmt"
	"testing"
	"time"
)

// newTestStore returns a store with a controllable clock.
func newTestStore(start time.Time) (*Store, *time.Time) {
	clock := start
	s := NewStore()
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestNormalizeRoom(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"adults-only", "adult"},
		{"kids-only", "kids"},
		{"adult", "adult"},
		{"general", "general"},
		{"tyop-room", "tyop-room"},
		{"", ""},
	}

	for _, c := range cases {
		if got := NormalizeRoom(c.in); got != c.want {
			t.Errorf("NormalizeRoom(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUpsert_CreatesWithDefaults(t *testing.T) {
	s, _ := newTestStore(time.Now())

	rec := s.Upsert("sess-1", Update{})

	if rec.ID != "sess-1" {
		t.Errorf("Expected id sess-1, got %q", rec.ID)
	}
	if rec.Room != RoomGeneral {
		t.Errorf("Expected default room %q, got %q", RoomGeneral, rec.Room)
	}
	if rec.Character != DefaultCharacter {
		t.Errorf("Expected default character %q, got %q", DefaultCharacter, rec.Character)
	}
	if rec.Position.X != SpawnX || rec.Position.Y != SpawnY {
		t.Errorf("Expected spawn position (%v,%v), got %+v", SpawnX, SpawnY, rec.Position)
	}
	if len(rec.Messages) != 0 {
		t.Errorf("Expected empty message log, got %d entries", len(rec.Messages))
	}
}

func TestUpsert_PartialUpdateLeavesOtherFieldsAlone(t *testing.T) {
	s, _ := newTestStore(time.Now())

	s.Upsert("sess-1", Update{
		Room:      "adults-only",
		Character: "playerFemale",
		Message:   "hello",
	})

	rec := s.Upsert("sess-1", Update{Position: &Position{X: 12, Y: 34}})

	if rec.Position.X != 12 || rec.Position.Y != 34 {
		t.Errorf("Position not applied, got %+v", rec.Position)
	}
	if rec.Room != RoomAdult {
		t.Errorf("Room changed by position-only push: got %q", rec.Room)
	}
	if rec.Character != "playerFemale" {
		t.Errorf("Character changed by position-only push: got %q", rec.Character)
	}
	if len(rec.Messages) != 1 || rec.Messages[0].Text != "hello" {
		t.Errorf("Message log changed by position-only push: %+v", rec.Messages)
	}
}

func TestUpsert_MessageCapAndOrder(t *testing.T) {
	s, _ := newTestStore(time.Now())

	for i := 1; i <= 11; i++ {
		s.Upsert("sess-1", Update{Message: fmt.Sprintf("msg-%d", i)})
	}

	rec := s.Upsert("sess-1", Update{})

	if len(rec.Messages) != MaxMessages {
		t.Fatalf("Expected %d messages, got %d", MaxMessages, len(rec.Messages))
	}
	if rec.Messages[0].Text != "msg-2" {
		t.Errorf("Expected oldest surviving message msg-2, got %q", rec.Messages[0].Text)
	}
	if rec.Messages[len(rec.Messages)-1].Text != "msg-11" {
		t.Errorf("Expected newest message msg-11, got %q", rec.Messages[len(rec.Messages)-1].Text)
	}
	for i := 1; i < len(rec.Messages); i++ {
		if rec.Messages[i-1].Timestamp > rec.Messages[i].Timestamp {
			t.Errorf("Messages out of order at index %d", i)
		}
	}
}

func TestUpsert_AliasNormalizedAcrossWriteAndRead(t *testing.T) {
	s, _ := newTestStore(time.Now())

	rec := s.Upsert("sess-1", Update{Room: "adults-only"})
	if rec.Room != RoomAdult {
		t.Fatalf("Expected stored room %q, got %q", RoomAdult, rec.Room)
	}

	inRoom, _ := s.List(RoomAdult, "someone-else")
	if len(inRoom) != 1 || inRoom[0].ID != "sess-1" {
		t.Errorf("Expected sess-1 listed under canonical room, got %+v", inRoom)
	}

	// The alias works on the read side too.
	inRoom, _ = s.List("adults-only", "someone-else")
	if len(inRoom) != 1 {
		t.Errorf("Expected alias listing to match, got %d records", len(inRoom))
	}
}

func TestList_ExcludesCaller(t *testing.T) {
	s, _ := newTestStore(time.Now())

	s.Upsert("A", Update{Room: RoomGeneral})
	s.Upsert("B", Update{Room: RoomGeneral})

	inRoom, others := s.List(RoomGeneral, "A")

	for _, rec := range inRoom {
		if rec.ID == "A" {
			t.Errorf("Filtered list contains the excluded caller")
		}
	}
	for _, rec := range others {
		if rec.ID == "A" {
			t.Errorf("Diagnostic list contains the excluded caller")
		}
	}
	if len(inRoom) != 1 || inRoom[0].ID != "B" {
		t.Errorf("Expected exactly B in room, got %+v", inRoom)
	}
}

func TestList_TwoSessionsSeeEachOther(t *testing.T) {
	s, _ := newTestStore(time.Now())

	s.Upsert("A", Update{Room: "general", Position: &Position{X: 10, Y: 10}})
	s.Upsert("B", Update{Room: "general", Position: &Position{X: 20, Y: 20}})

	inRoom, _ := s.List("general", "A")

	if len(inRoom) != 1 {
		t.Fatalf("Expected exactly one peer, got %d", len(inRoom))
	}
	if inRoom[0].ID != "B" {
		t.Errorf("Expected peer B, got %q", inRoom[0].ID)
	}
	if inRoom[0].Position.X != 20 || inRoom[0].Position.Y != 20 {
		t.Errorf("Expected peer position (20,20), got %+v", inRoom[0].Position)
	}
}

func TestSweep_ExpiresStaleSessions(t *testing.T) {
	start := time.Now()
	s, clock := newTestStore(start)

	s.Upsert("stale", Update{})
	s.Upsert("fresh", Update{})

	// Keep one session alive partway through the window.
	*clock = start.Add(3 * time.Minute)
	s.Upsert("fresh", Update{})

	*clock = start.Add(5*time.Minute + time.Second)
	s.Upsert("other", Update{}) // any write triggers the sweep

	if s.Count() != 2 {
		t.Errorf("Expected 2 live sessions after sweep, got %d", s.Count())
	}

	inRoom, others := s.List(RoomGeneral, "")
	for _, rec := range append(inRoom, others...) {
		if rec.ID == "stale" {
			t.Errorf("Expired session still listed")
		}
	}
}

func TestSweep_IsLazyNotTimed(t *testing.T) {
	start := time.Now()
	s, clock := newTestStore(start)

	s.Upsert("A", Update{})

	// Time passes but nothing touches the store, so the record is still
	// counted: nothing swept it.
	*clock = start.Add(time.Hour)
	if s.Count() != 1 {
		t.Fatalf("Expected untouched store to keep its record, got %d", s.Count())
	}

	s.Touch("B", RoomGeneral)
	if s.Count() != 1 {
		t.Errorf("Expected touch to sweep the stale record, got %d live", s.Count())
	}
}

func TestTouch_CreatesButNeverMutatesExisting(t *testing.T) {
	start := time.Now()
	s, clock := newTestStore(start)

	created := s.Touch("A", "adults-only")
	if created.Room != RoomAdult {
		t.Errorf("Expected touch-created record in room %q, got %q", RoomAdult, created.Room)
	}

	*clock = start.Add(time.Minute)
	touched := s.Touch("A", "kids-only")

	if touched.Room != RoomAdult {
		t.Errorf("Touch changed the stored room of an existing record: %q", touched.Room)
	}
	if touched.LastUpdate <= created.LastUpdate {
		t.Errorf("Touch did not refresh lastUpdate")
	}
}

func TestUpsert_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(time.Now())

	rec := s.Upsert("A", Update{Message: "one"})
	rec.Messages[0].Text = "tampered"
	rec.Room = "elsewhere"

	stored := s.Upsert("A", Update{})
	if stored.Messages[0].Text != "one" {
		t.Errorf("Caller mutation leaked into the store")
	}
	if stored.Room != RoomGeneral {
		t.Errorf("Caller mutation leaked into the stored room")
	}
}

func TestUpsert_ConcurrentMessageAppends(t *testing.T) {
	s, _ := newTestStore(time.Now())

	const writers = 8
	done := make(chan struct{})
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			s.Upsert("A", Update{Message: fmt.Sprintf("w%d", n)})
		}(i)
	}
	for i := 0; i < writers; i++ {
		<-done
	}

	rec := s.Upsert("A", Update{})
	if len(rec.Messages) != writers {
		t.Errorf("Lost message appends under concurrency: got %d of %d", len(rec.Messages), writers)
	}
}
