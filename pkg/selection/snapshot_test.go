package selection

import (
	"reflect"
	"testing"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

func intPtr(i int) *int { return &i }

func TestSnapshotRestore(t *testing.T) {
	store, g := loadedStore(t, abcDataset)
	c := New(store)
	c.NodeClick(g.Nodes[0])
	c.LinkClick(g.Links[1])

	snap := c.Snapshot()
	want := Snapshot{
		Kind:           "link",
		Link:           intPtr(1),
		HighlightNodes: []string{"A", "B"},
		HighlightLinks: []int{0},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("Snapshot() = %+v, want %+v", snap, want)
	}

	other := New(store)
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if l, ok := other.Selection().Link(); !ok || l != g.Links[1] {
		t.Error("restored selection should be link B-C")
	}
	if !other.Highlight().Same(c.Highlight()) {
		t.Errorf("restored highlight = %v", other.Highlight().NodeIDs())
	}
	if !reflect.DeepEqual(other.Snapshot(), snap) {
		t.Error("snapshot of restored controller differs")
	}
}

func TestSnapshotIdle(t *testing.T) {
	store, _ := loadedStore(t, abcDataset)
	c := New(store)
	if got := c.Snapshot(); !reflect.DeepEqual(got, Snapshot{Kind: "none"}) {
		t.Errorf("idle snapshot = %+v", got)
	}
}

func TestRestoreRejects(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"UnknownKind", Snapshot{Kind: "edge"}},
		{"UnknownNode", Snapshot{Kind: "node", Node: "Z"}},
		{"LinkWithoutIndex", Snapshot{Kind: "link"}},
		{"LinkOutOfRange", Snapshot{Kind: "link", Link: intPtr(9)}},
		{"HighlightOutOfRange", Snapshot{Kind: "none", HighlightLinks: []int{-1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, g := loadedStore(t, abcDataset)
			c := New(store)
			c.NodeClick(g.Nodes[0])
			before := c.Snapshot()

			err := c.Restore(tt.snap)
			if !kgerrors.Is(err, kgerrors.ErrCodeMalformedSelection) {
				t.Fatalf("err = %v, want MALFORMED_SELECTION", err)
			}
			if !reflect.DeepEqual(c.Snapshot(), before) {
				t.Error("failed restore must leave state untouched")
			}
		})
	}
}
