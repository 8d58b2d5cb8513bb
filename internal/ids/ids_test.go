package ids

import "testing"

func TestNewIsSortableAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 1000; i++ {
		id := New()
		if len(id) != 26 {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		if id < prev {
			t.Fatalf("ids out of order: %q after %q", id, prev)
		}
		prev = id
	}
}
