package advanced

import (
	"testing"

	"colstats/domain/field"
)

func TestInferSimpleTypes(t *testing.T) {
	tests := []struct {
		typ  field.Type
		want string
	}{
		{field.Null, ""},
		{field.Boolean, "boolean"},
		{field.Date, "date"},
		{field.DateTime, "dateTime"},
		{field.Float, "decimal"},
		{field.String, "string"},
	}
	for _, tt := range tests {
		if got := Infer(tt.typ, 0, 0, nil, FastScan); got != tt.want {
			t.Errorf("Infer(%v) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestInferIntegerNarrowing(t *testing.T) {
	tests := []struct {
		min, max float64
		want     string
	}{
		{0, 200, "unsignedByte"},
		{0, 60000, "unsignedShort"},
		{-100, 100, "byte"},
		{-30000, 30000, "short"},
		{-2000000000, 2000000000, "int"},
		{-1, -1, "byte"},
		{0, 4000000000, "unsignedInt"},
		{1, 4000000000, "unsignedInt"},
	}
	for _, tt := range tests {
		if got := Infer(field.Integer, tt.min, tt.max, nil, FastScan); got != tt.want {
			t.Errorf("Infer(Integer, %v, %v) = %q, want %q", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestInferGregorianYearFromRange(t *testing.T) {
	if got := Infer(field.Integer, 1999, 2024, nil, FastScan); got != "gYear??" {
		t.Errorf("Infer(1999..2024, FastScan) = %q, want gYear??", got)
	}
	if got := Infer(field.Integer, 1999, 2024, nil, ComprehensiveScan); got != "gYear?" {
		t.Errorf("Infer(1999..2024, ComprehensiveScan) = %q, want gYear?", got)
	}
}

func TestInferGregorianFromStrings(t *testing.T) {
	samples := []string{"2024-01", "2023-12", "2022-06"}
	// Out of the gYear numeric fast-path range so the string check kicks in.
	if got := Infer(field.Integer, -5000, 5000, samples, FastScan); got != "gYearMonth??" {
		t.Errorf("Infer with gYearMonth-shaped samples (FastScan) = %q, want gYearMonth??", got)
	}
	if got := Infer(field.Integer, -5000, 5000, samples, ComprehensiveScan); got != "gYearMonth?" {
		t.Errorf("Infer with gYearMonth-shaped samples (ComprehensiveScan) = %q, want gYearMonth?", got)
	}
}

func TestInferFallsBackToNarrowestInteger(t *testing.T) {
	samples := []string{"not-a-date"}
	got := Infer(field.Integer, -5000, 5000, samples, FastScan)
	if got != "short" {
		t.Errorf("Infer fallback = %q, want short", got)
	}
}

func TestGregorianFromStringsEmptyIsFalse(t *testing.T) {
	if _, ok := gregorianFromStrings(nil); ok {
		t.Error("expected ok=false for empty sample slice")
	}
}

func TestNarrowestIntegerBoundary(t *testing.T) {
	if got := narrowestInteger(0, 255); got != "unsignedByte" {
		t.Errorf("narrowestInteger(0,255) = %q, want unsignedByte", got)
	}
	if got := narrowestInteger(0, 256); got != "unsignedShort" {
		t.Errorf("narrowestInteger(0,256) = %q, want unsignedShort", got)
	}
}
