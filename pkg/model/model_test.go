package model

import (
	"math"
	"testing"
)

func TestConnection(t *testing.T) {
	c := Connection{StartID: "a", EndID: "b"}
	if !c.Touches("a") || !c.Touches("b") {
		t.Error("Touches should match both endpoints")
	}
	if c.Touches("c") {
		t.Error("Touches matched a non-endpoint")
	}
	if c.Key() != (Connection{StartID: "a", EndID: "b"}).Key() {
		t.Error("equal connections should share a key")
	}
	if c.Key() == (Connection{StartID: "a", EndID: "c"}).Key() {
		t.Error("distinct connections should not share a key")
	}
}

func TestQualityTier(t *testing.T) {
	cases := []struct {
		tier   QualityTier
		name   string
		lights int
		detail int
	}{
		{QualityHigh, "high", 2, 24},
		{QualityMedium, "medium", 1, 16},
		{QualityLow, "low", 1, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.tier.String() != tc.name {
				t.Errorf("String = %q, want %q", tc.tier.String(), tc.name)
			}
			if tc.tier.Lights() != tc.lights {
				t.Errorf("Lights = %d, want %d", tc.tier.Lights(), tc.lights)
			}
			if tc.tier.SphereDetail() != tc.detail {
				t.Errorf("SphereDetail = %d, want %d", tc.tier.SphereDetail(), tc.detail)
			}
		})
	}
	if QualityLow >= QualityMedium || QualityMedium >= QualityHigh {
		t.Error("tiers must be ordered low < medium < high")
	}
}

func TestParseQualityTier(t *testing.T) {
	cases := []struct {
		in   string
		want QualityTier
		ok   bool
	}{
		{"low", QualityLow, true},
		{"Medium", QualityMedium, true},
		{" high ", QualityHigh, true},
		{"", QualityHigh, false},
		{"ultra", QualityHigh, false},
	}
	for _, tc := range cases {
		got, ok := ParseQualityTier(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseQualityTier(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestVec3(t *testing.T) {
	v := Vec3{3, 4, 0}
	if v.Length() != 5 {
		t.Errorf("Length = %v, want 5", v.Length())
	}
	if d := v.DistanceTo(Vec3{3, 4, 12}); d != 12 {
		t.Errorf("DistanceTo = %v, want 12", d)
	}

	n := v.Normalized()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v", n.Length())
	}
	if (Vec3{}).Normalized() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}

	if got := (Vec3{1, 2, 3}).Add(Vec3{1, 1, 1}); got != (Vec3{2, 3, 4}) {
		t.Errorf("Add = %v", got)
	}
	if got := (Vec3{1, 2, 3}).Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestVec3_Lerp(t *testing.T) {
	from := Vec3{0, 0, 0}
	to := Vec3{10, -10, 4}

	mid := from.Lerp(to, 0.5)
	if mid != (Vec3{5, -5, 2}) {
		t.Errorf("Lerp(0.5) = %v", mid)
	}
	if from.Lerp(to, 0) != from {
		t.Error("Lerp(0) should stay put")
	}
	if from.Lerp(to, 1) != to {
		t.Error("Lerp(1) should land on target")
	}

	// Repeated partial lerps approach but never pass the target.
	p := from
	for i := 0; i < 100; i++ {
		p = p.Lerp(to, 0.05)
		if p.DistanceTo(to) > from.DistanceTo(to) {
			t.Fatal("lerp overshot")
		}
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	bad := []Vec3{
		{math.NaN(), 0, 0},
		{0, math.Inf(1), 0},
		{0, 0, math.Inf(-1)},
	}
	for _, v := range bad {
		if v.IsFinite() {
			t.Errorf("%v reported finite", v)
		}
	}
}

func TestDuplicateIDError(t *testing.T) {
	err := &DuplicateIDError{ID: "redis"}
	if err.Error() != `duplicate item id "redis"` {
		t.Errorf("Error = %q", err.Error())
	}
}

func TestStyleTable(t *testing.T) {
	cats := []string{"language", "database", "cache"}
	tbl := NewStyleTable(cats)

	if tbl.Len() != 3 {
		t.Errorf("Len = %d, want 3", tbl.Len())
	}

	seen := make(map[string]bool)
	for _, c := range cats {
		s := tbl.Style(c)
		if s.Color == "" || s.Glyph == "" {
			t.Errorf("category %q has empty style", c)
		}
		if seen[s.Color] {
			t.Errorf("category %q reuses color %s", c, s.Color)
		}
		seen[s.Color] = true
	}

	// Stable: same order, same assignment.
	again := NewStyleTable(cats)
	for _, c := range cats {
		if tbl.Style(c) != again.Style(c) {
			t.Errorf("style for %q not stable", c)
		}
	}

	fallback := tbl.Style("unknown")
	if fallback.Color == "" {
		t.Error("fallback style empty")
	}
}

func TestStyleTable_PaletteWraps(t *testing.T) {
	cats := make([]string, len(categoryPalette)+2)
	for i := range cats {
		cats[i] = string(rune('a' + i))
	}
	tbl := NewStyleTable(cats)
	if tbl.Style(cats[0]) != tbl.Style(cats[len(categoryPalette)]) {
		t.Error("palette should wrap around")
	}
}
