package schedule

import "testing"

func TestSampleIndexOctober15(t *testing.T) {
	ix := SampleIndex()
	entries := ix.For("2025-10-15")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantIDs := []string{"sch-002", "sch-003", "sch-004"}
	for i, want := range wantIDs {
		if entries[i].ID != want {
			t.Fatalf("entry %d out of order: got %s want %s", i, entries[i].ID, want)
		}
	}
}

func TestIndexForReturnsCopy(t *testing.T) {
	ix := NewIndex()
	ix.Add("2025-01-01", Entry{ID: "a", Time: "08:00", Status: StatusScheduled})
	got := ix.For("2025-01-01")
	got[0].ID = "mutated"
	if again := ix.For("2025-01-01"); again[0].ID != "a" {
		t.Fatalf("index exposed internal slice")
	}
}

func TestIndexForUnknownDay(t *testing.T) {
	ix := NewIndex()
	if got := ix.For("1999-01-01"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if ix.Has("1999-01-01") {
		t.Fatalf("unexpected Has for empty day")
	}
}

func TestEntryValidate(t *testing.T) {
	ok := Entry{ID: "x", Time: "07:45", Status: StatusInProgress}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Entry{Time: "7am", Status: StatusScheduled}).Validate(); err == nil {
		t.Fatalf("expected invalid time error")
	}
	if err := (Entry{Time: "07:45", Status: "done"}).Validate(); err == nil {
		t.Fatalf("expected invalid status error")
	}
}
