package styling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRemoveRequest(t *testing.T) {
	tests := []struct {
		name       string
		properties any
		media      string
		want       RemoveRequest
	}{
		{"all", "all", "", RemoveAll{}},
		{"all ignores media", "all", "print", RemoveAll{}},
		{"string is media", "min-width: 70em", "", RemoveEntry{Media: "min-width: 70em"}},
		{"string with media", "display", "print", RemoveEntry{Media: "print"}},
		{"nil", nil, "", RemoveEntry{}},
		{"nil with media", nil, "m1", RemoveEntry{Media: "m1"}},
		{"empty string", "", "m1", RemoveEntry{Media: "m1"}},
		{"bool", true, "", RemoveEntry{}},
		{"string list", []string{"display", "color"}, "min-width:70em", RemoveProperties{Names: []string{"display", "color"}, Media: "min-width:70em"}},
		{"any list", []any{"display", 3, "color"}, "", RemoveProperties{Names: []string{"display", "color"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRemoveRequest(tt.properties, tt.media)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRemoveRequest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDebugClass(t *testing.T) {
	tests := []struct {
		selector, media, want string
	}{
		{".example", "", "vstyle--inserted--style__.example"},
		{".example", NoMedia, "vstyle--inserted--style__.example"},
		{".a .b", "", "vstyle--inserted--style__.a-.b"},
		{".x", "(min-width: 40em) and (max-width: 60em)", "vstyle--inserted--style__.x-min-width-40em-and-max-width-60em-"},
		{".x", "screen/[a]", "vstyle--inserted--style__.xscreen-a-"},
	}
	for _, tt := range tests {
		if got := DebugClass(tt.selector, tt.media); got != tt.want {
			t.Errorf("DebugClass(%q, %q) = %q, want %q", tt.selector, tt.media, got, tt.want)
		}
	}
}

func TestFromMapIsSorted(t *testing.T) {
	got := FromMap(map[string]string{"z": "1", "a": "2", "m": "3"})
	want := Props("a", "2", "m", "3", "z", "1")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromMap() mismatch (-want +got):\n%s", diff)
	}
}
