package main

import (
	"slices"
	"testing"
)

func TestTogglePreference(t *testing.T) {
	tests := []struct {
		name   string
		active []string
		id     string
		want   []string
	}{
		{"enable on empty", nil, "keto", []string{"keto"}},
		{"disable only one", []string{"keto"}, "keto", []string{}},
		{"keeps catalogue order", []string{"nut-free", "keto"}, "vegan", []string{"vegan", "keto", "nut-free"}},
		{"disable from middle", []string{"vegan", "paleo", "dairy-free"}, "paleo", []string{"vegan", "dairy-free"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := togglePreference(tt.active, tt.id)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("togglePreference(%v, %q) = %v, want %v", tt.active, tt.id, got, tt.want)
			}
		})
	}
}

func TestIsDietaryPreference(t *testing.T) {
	for _, id := range []string{"vegan", "gluten-free", "nut-free"} {
		if !isDietaryPreference(id) {
			t.Errorf("expected %q to be a dietary preference", id)
		}
	}
	for _, id := range []string{"", "Vegan", "carnivore"} {
		if isDietaryPreference(id) {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}
