package resolve

import "testing"

func TestResolvePosition(t *testing.T) {
	vinylSides := []string{"A1", "A2", "A3", "B1", "B2"}

	tests := []struct {
		name      string
		token     string
		siblings  []string
		index     int
		wantDisc  int
		wantTrack int
	}{
		{"disc-track token", "1-3", nil, 0, 1, 3},
		{"second disc", "2-5", nil, 7, 2, 5},
		{"a side", "A1", vinylSides, 0, 1, 1},
		{"a side later track", "A3", vinylSides, 2, 1, 3},
		{"b side continues numbering", "B1", vinylSides, 3, 1, 4},
		{"b side second track", "B2", vinylSides, 4, 1, 5},
		{"c side starts second disc", "C2", []string{"C1", "C2"}, 1, 2, 2},
		{"d side offsets by c side", "D1", []string{"C1", "C2", "D1"}, 2, 2, 3},
		{"plain number falls back to ordinal", "3", []string{"1", "2", "3"}, 2, 1, 3},
		{"empty token falls back to ordinal", "", []string{"", ""}, 1, 1, 2},
		{"negative index clamps", "", nil, -1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disc, track := ResolvePosition(tt.token, tt.siblings, tt.index)
			if disc != tt.wantDisc || track != tt.wantTrack {
				t.Errorf("ResolvePosition(%q) = (%d, %d), want (%d, %d)",
					tt.token, disc, track, tt.wantDisc, tt.wantTrack)
			}
		})
	}
}

func TestNormalizeArtistName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tom Waits", "Tom Waits"},
		{"Tom Waits (2)", "Tom Waits"},
		{"  Tom Waits  ", "Tom Waits"},
		{"Matmos (12)", "Matmos"},
		// Only a trailing parenthesized number is a disambiguation suffix
		{"Blink (182) Tribute", "Blink (182) Tribute"},
		{"30 Seconds (To Mars)", "30 Seconds (To Mars)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeArtistName(tt.input); got != tt.want {
				t.Errorf("NormalizeArtistName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
