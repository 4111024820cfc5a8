package update

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewInventoryDeduplicates(t *testing.T) {
	inv := NewInventory("2.0.0", "2.1.1", "2.0.0", "3.0.0-alpha.1", "2.1.1")

	want := []string{"2.0.0", "2.1.1", "3.0.0-alpha.1"}
	if diff := cmp.Diff(want, inv.Tags()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
	if inv.Len() != 3 {
		t.Errorf("Len() = %d, want 3", inv.Len())
	}

	// Tags returns a copy.
	tags := inv.Tags()
	tags[0] = "9.9.9"
	if inv.Tags()[0] != "2.0.0" {
		t.Error("mutating Tags() result changed the inventory")
	}
}

func TestEmptyInventory(t *testing.T) {
	var inv Inventory
	if !inv.Empty() || !NewInventory().Empty() {
		t.Error("zero and empty inventories should report Empty()")
	}
	for _, ch := range []Channel{ChannelRelease, ChannelAlpha, ChannelBeta} {
		if _, ok := LatestInChannel(inv, ch); ok {
			t.Errorf("LatestInChannel(empty, %s) reported a version", ch)
		}
	}
}

func TestPartition(t *testing.T) {
	inv := NewInventory("1.0.0", "1.1.0-beta.1", "v1.2.0", "1.1.0-alpha.3", "1.1.0", "nightly", "1.1.0-rc.1")
	got := Partition(inv)

	want := Buckets{
		Releases:  []Version{MustParseVersion("1.0.0"), MustParseVersion("1.1.0")},
		Alphas:    []Version{MustParseVersion("1.1.0-alpha.3")},
		Betas:     []Version{MustParseVersion("1.1.0-beta.1")},
		Malformed: []string{"v1.2.0", "nightly", "1.1.0-rc.1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Partition() mismatch (-want +got):\n%s", diff)
	}
}

func TestLatestInChannel(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		channel Channel
		want    string
		wantOK  bool
	}{
		{
			name:    "same line ordered by number",
			tags:    []string{"3.0.0-alpha.1", "3.0.0-alpha.5", "3.0.0-alpha.3"},
			channel: ChannelAlpha,
			want:    "3.0.0-alpha.5", wantOK: true,
		},
		{
			name:    "triple before number",
			tags:    []string{"3.1.0-beta.1", "3.0.0-beta.9"},
			channel: ChannelBeta,
			want:    "3.1.0-beta.1", wantOK: true,
		},
		{
			name:    "lexicographic across lines",
			tags:    []string{"3.0.5-alpha.1", "3.1.0-alpha.1"},
			channel: ChannelAlpha,
			want:    "3.1.0-alpha.1", wantOK: true,
		},
		{
			name:    "releases",
			tags:    []string{"2.1.1", "2.0.0", "10.0.0", "9.9.9"},
			channel: ChannelRelease,
			want:    "10.0.0", wantOK: true,
		},
		{
			name:    "channel absent",
			tags:    []string{"2.0.0", "3.0.0-alpha.1"},
			channel: ChannelBeta,
			wantOK:  false,
		},
		{
			name:    "malformed entries ignored",
			tags:    []string{"3.0.0-alpha.x", "2.0.0-alpha.1"},
			channel: ChannelAlpha,
			want:    "2.0.0-alpha.1", wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LatestInChannel(NewInventory(tt.tags...), tt.channel)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("LatestInChannel() = %s, want %s", got, tt.want)
			}

			// Order independence.
			reversed := make([]string, len(tt.tags))
			for i, tag := range tt.tags {
				reversed[len(tt.tags)-1-i] = tag
			}
			again, _ := LatestInChannel(NewInventory(reversed...), tt.channel)
			if again != got {
				t.Errorf("result depends on inventory order: %s vs %s", again, got)
			}
		})
	}
}

func TestLatest(t *testing.T) {
	inv := NewInventory("2.0.0", "2.1.1", "3.0.0-alpha.2", "2.1.1-beta.4", "2.2.0-beta.1")

	if v, ok := Latest(inv, false); !ok || v.String() != "2.1.1" {
		t.Errorf("Latest(releases) = %s, %v; want 2.1.1", v, ok)
	}
	if v, ok := Latest(inv, true); !ok || v.String() != "3.0.0-alpha.2" {
		t.Errorf("Latest(pre) = %s, %v; want 3.0.0-alpha.2", v, ok)
	}

	sameLine := NewInventory("2.1.1", "2.1.1-beta.4")
	if v, _ := Latest(sameLine, true); v.String() != "2.1.1" {
		t.Errorf("release should beat its own pre-releases, got %s", v)
	}

	alphasOnly := NewInventory("3.0.0-alpha.1", "3.0.0-alpha.2")
	if _, ok := Latest(alphasOnly, false); ok {
		t.Error("Latest without pre-releases should be absent for alpha-only inventory")
	}
	if v, _ := Latest(alphasOnly, true); v.String() != "3.0.0-alpha.2" {
		t.Errorf("Latest(alphas only, pre) = %s, want 3.0.0-alpha.2", v)
	}
}
