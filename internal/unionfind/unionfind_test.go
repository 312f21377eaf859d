package unionfind

import "testing"

func TestUnionMergesFindResults(t *testing.T) {
	u := New(5)
	u.Union(0, 1)
	u.Union(1, 2)

	if u.Find(0) != u.Find(2) {
		t.Error("0 and 2 should share a representative after chained unions")
	}
	if u.Find(3) == u.Find(0) {
		t.Error("3 should remain its own singleton")
	}
}

func TestGroupsPartitionsAllElements(t *testing.T) {
	u := New(6)
	u.Union(0, 1)
	u.Union(2, 3)
	u.Union(3, 4)

	groups := u.Groups()
	seen := make(map[int]bool)
	for _, members := range groups {
		for _, m := range members {
			if seen[m] {
				t.Fatalf("element %d appears in more than one group", m)
			}
			seen[m] = true
		}
	}
	if len(seen) != 6 {
		t.Fatalf("groups cover %d elements, want 6", len(seen))
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3 ({0,1}, {2,3,4}, {5})", len(groups))
	}
}

func TestUnionOfSameSetIsNoop(t *testing.T) {
	u := New(2)
	u.Union(0, 1)
	before := u.Find(0)
	u.Union(1, 0)
	if u.Find(0) != before {
		t.Error("re-unioning an already-merged pair should not change the representative")
	}
}
