package models

import "testing"

func TestPlanFeatureList(t *testing.T) {
	tests := []struct {
		name     string
		features string
		want     int
	}{
		{name: "empty column", features: "", want: 0},
		{name: "empty list", features: "[]", want: 0},
		{name: "two features", features: `["analytics","premium_filters"]`, want: 2},
		{name: "malformed json", features: `["analytics"`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Plan{Features: tt.features}
			if got := len(p.FeatureList()); got != tt.want {
				t.Fatalf("FeatureList() returned %d entries, want %d", got, tt.want)
			}
		})
	}
}

func TestPlanHasFeature(t *testing.T) {
	p := &Plan{}
	p.SetFeatures([]string{"analytics", "premium_filters"})

	if !p.HasFeature("analytics") {
		t.Fatal("expected analytics feature")
	}
	if !p.HasFeature("ANALYTICS") {
		t.Fatal("expected case-insensitive feature match")
	}
	if p.HasFeature("export") {
		t.Fatal("did not expect export feature")
	}
}

func TestPlanSetFeaturesRoundTrip(t *testing.T) {
	p := &Plan{}
	p.SetFeatures([]string{"analytics"})

	got := p.FeatureList()
	if len(got) != 1 || got[0] != "analytics" {
		t.Fatalf("round trip = %v", got)
	}
}
