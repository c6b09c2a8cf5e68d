package category

import "testing"

func TestKeywords(t *testing.T) {
	kws := Keywords("Coaching & Training")
	if len(kws) == 0 {
		t.Fatal("expected keywords for known category")
	}
	found := false
	for _, kw := range kws {
		if kw == "coach" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in keyword set, got %v", "coach", kws)
	}
}

func TestKeywords_UnknownFallsBackToName(t *testing.T) {
	kws := Keywords("Catering")
	if len(kws) != 1 || kws[0] != "catering" {
		t.Errorf("expected lowercased name fallback, got %v", kws)
	}
}

func TestKeywords_Empty(t *testing.T) {
	if kws := Keywords("  "); kws != nil {
		t.Errorf("expected nil for blank name, got %v", kws)
	}
}

func TestIsIdentity(t *testing.T) {
	if !IsIdentity("") || !IsIdentity(All) {
		t.Error("empty and All must be identity")
	}
	if IsIdentity("Coaching & Training") {
		t.Error("a concrete category is not identity")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		cat    string
		fields []string
		want   bool
	}{
		{"identity matches anything", All, []string{"whatever"}, true},
		{"keyword in field", "Coaching & Training", []string{"Batting Coach"}, true},
		{"keyword case-insensitive", "Coaching & Training", []string{"STRENGTH TRAINING"}, true},
		{"no keyword", "Coaching & Training", []string{"Net Bowler"}, false},
		{"second field matches", "Grounds & Nets", []string{"Bowler", "Practice Nets"}, true},
		{"empty fields", "Grounds & Nets", []string{"", ""}, false},
		{"unknown category by name", "Catering", []string{"Wedding Catering Service"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.cat, tt.fields...); got != tt.want {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.cat, tt.fields, got, tt.want)
			}
		})
	}
}
