//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package profiles

import (
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		wantName  string
		wantError bool
	}{
		{"flat", "flat", "flat", false},
		{"holiday-peak", "holiday-peak", "holiday-peak", false},
		{"weekend-retail", "weekend-retail", "weekend-retail", false},
		{"empty selects default", "", Default, false},
		{"invalid profile", "invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := Get(tt.profile)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if profile.Name() != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, profile.Name())
			}
			if profile.Description() == "" {
				t.Error("Expected a description")
			}
		})
	}
}

func TestList(t *testing.T) {
	names := List()

	expected := []string{"flat", "holiday-peak", "weekend-retail"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d profiles, got %v", len(expected), names)
	}
	for i, exp := range expected {
		if names[i] != exp {
			t.Errorf("Expected profile %s at %d, got %s", exp, i, names[i])
		}
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeights(t *testing.T) {
	// 2024-03-06 is a Wednesday, 2024-03-09 a Saturday,
	// 2024-11-13 a Wednesday and 2024-12-14 a Saturday.
	tests := []struct {
		profile string
		day     time.Time
		want    float64
	}{
		{"flat", date(2024, 3, 6), 1.0},
		{"flat", date(2024, 12, 14), 1.0},
		{"holiday-peak", date(2024, 3, 9), 1.0},
		{"holiday-peak", date(2024, 11, 13), 1.5},
		{"holiday-peak", date(2024, 12, 14), 1.5},
		{"weekend-retail", date(2024, 3, 6), 1.0},
		{"weekend-retail", date(2024, 3, 9), 1.2},
		{"weekend-retail", date(2024, 11, 13), 1.5},
		{"weekend-retail", date(2024, 12, 14), 1.8},
	}

	for _, tt := range tests {
		t.Run(tt.profile+" "+tt.day.Format("2006-01-02"), func(t *testing.T) {
			p, err := Get(tt.profile)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got := p.Weight(tt.day)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Expected weight %.2f, got %.2f", tt.want, got)
			}
		})
	}
}

func TestPeakBoundsWeight(t *testing.T) {
	for _, name := range List() {
		p, err := Get(name)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for d := date(2024, 1, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
			w := p.Weight(d)
			if w <= 0 {
				t.Errorf("%s: expected positive weight on %s, got %f", name, d.Format("2006-01-02"), w)
			}
			if w > p.Peak()+1e-9 {
				t.Errorf("%s: weight %f on %s exceeds peak %f", name, w, d.Format("2006-01-02"), p.Peak())
			}
		}
	}
}
