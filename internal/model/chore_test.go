package model

import "testing"

func TestChoreIsAssignedTo(t *testing.T) {
	sam := "m-sam"
	tests := []struct {
		name     string
		assigned *string
		member   string
		want     bool
	}{
		{"unassigned", nil, "m-sam", false},
		{"same member", &sam, "m-sam", true},
		{"other member", &sam, "m-alex", false},
		{"empty id", &sam, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chore{ID: "c1", AssignedTo: tt.assigned}
			if got := c.IsAssignedTo(tt.member); got != tt.want {
				t.Errorf("IsAssignedTo(%q) = %v, want %v", tt.member, got, tt.want)
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	tests := map[string]Frequency{
		"daily":   FrequencyDaily,
		"weekly":  FrequencyWeekly,
		"monthly": FrequencyMonthly,
		"once":    FrequencyOnce,
		"":        FrequencyOnce,
		"hourly":  FrequencyOnce,
	}
	for in, want := range tests {
		if got := ParseFrequency(in); got != want {
			t.Errorf("ParseFrequency(%q) = %q, want %q", in, got, want)
		}
	}
}
