package ranking

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryLookup(t *testing.T) {
	reg := testRegistry(t, 3)
	if reg.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", reg.Len())
	}
	item, ok := reg.Lookup("opt2")
	if !ok || item.Label != "Option 2" {
		t.Fatalf("unexpected lookup result %+v %v", item, ok)
	}
	if reg.Has("opt9") {
		t.Fatalf("opt9 should not be registered")
	}
	if diff := cmp.Diff([]string{"opt1", "opt2", "opt3"}, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsBadIDs(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"duplicate", []Item{{ID: "a"}, {ID: "a"}}},
		{"empty", []Item{{ID: "a"}, {ID: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.items); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestRegistryItemsIsCopy(t *testing.T) {
	reg := testRegistry(t, 2)
	items := reg.Items()
	items[0].Label = "changed"
	if got, _ := reg.Lookup("opt1"); got.Label != "Option 1" {
		t.Fatalf("registry mutated through Items(): %+v", got)
	}
}

func TestParseContainerID(t *testing.T) {
	tests := []struct {
		in      string
		want    ContainerID
		wantErr bool
	}{
		{in: "pool", want: Pool},
		{in: "slot-1", want: Slot(1)},
		{in: "slot-10", want: Slot(10)},
		{in: "slot-0", wantErr: true},
		{in: "slot-x", wantErr: true},
		{in: "bench", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseContainerID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: got %v, %v", tt.in, got, err)
		}
		if got.String() != tt.in {
			t.Fatalf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}
