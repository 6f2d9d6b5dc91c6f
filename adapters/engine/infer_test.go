package engine

import (
	"testing"

	"colstats/domain/field"
	"colstats/internal/config"
)

func TestClassifyEmpty(t *testing.T) {
	s := Classify(nil, field.Null, true, config.MonthFirst)
	if s.Type != field.Null {
		t.Errorf("Classify(nil) = %v, want Null", s.Type)
	}
}

func TestClassifyInteger(t *testing.T) {
	s := Classify([]byte("42"), field.Null, true, config.MonthFirst)
	if s.Type != field.Integer || s.IntVal != 42 {
		t.Errorf("Classify(42) = %+v, want Integer/42", s)
	}
}

func TestClassifyLeadingZeroIsString(t *testing.T) {
	s := Classify([]byte("00123"), field.Null, true, config.MonthFirst)
	if s.Type != field.String {
		t.Errorf("Classify(00123) = %v, want String", s.Type)
	}
	// A bare zero is still an integer.
	s = Classify([]byte("0"), field.Null, true, config.MonthFirst)
	if s.Type != field.Integer {
		t.Errorf("Classify(0) = %v, want Integer", s.Type)
	}
}

func TestClassifyFloat(t *testing.T) {
	s := Classify([]byte("3.14"), field.Null, true, config.MonthFirst)
	if s.Type != field.Float || s.FloatVal != 3.14 {
		t.Errorf("Classify(3.14) = %+v, want Float/3.14", s)
	}
}

func TestClassifyDate(t *testing.T) {
	s := Classify([]byte("2024-01-15"), field.Null, true, config.MonthFirst)
	if s.Type != field.Date {
		t.Errorf("Classify(2024-01-15) = %v, want Date", s.Type)
	}
}

func TestClassifyDateTime(t *testing.T) {
	s := Classify([]byte("2024-01-15T10:30:00Z"), field.Null, true, config.MonthFirst)
	if s.Type != field.DateTime {
		t.Errorf("Classify(datetime) = %v, want DateTime", s.Type)
	}
}

func TestClassifyDateInferenceDisabled(t *testing.T) {
	s := Classify([]byte("2024-01-15"), field.Null, false, config.MonthFirst)
	if s.Type != field.String {
		t.Errorf("Classify with date inference disabled = %v, want String", s.Type)
	}
}

func TestClassifyCurrentTypeString(t *testing.T) {
	// Once a column has widened to String, every further sample is
	// classified String without re-parsing.
	s := Classify([]byte("42"), field.String, true, config.MonthFirst)
	if s.Type != field.String {
		t.Errorf("Classify with currentType=String = %v, want String", s.Type)
	}
}

func TestClassifyAmbiguousDateOrder(t *testing.T) {
	monthFirst := Classify([]byte("01/02/2024"), field.Null, true, config.MonthFirst)
	dayFirst := Classify([]byte("01/02/2024"), field.Null, true, config.DayFirst)
	if monthFirst.Type != field.Date || dayFirst.Type != field.Date {
		t.Fatalf("expected both to classify as Date, got %v / %v", monthFirst.Type, dayFirst.Type)
	}
	if monthFirst.MillisVal == dayFirst.MillisVal {
		t.Error("expected month-first and day-first preferences to disagree on an ambiguous date")
	}
}

func TestClassifyUnparsableIsString(t *testing.T) {
	s := Classify([]byte("not a number"), field.Null, true, config.MonthFirst)
	if s.Type != field.String {
		t.Errorf("Classify(garbage) = %v, want String", s.Type)
	}
}

func TestParseDateMillisRoundTrip(t *testing.T) {
	sample := Classify([]byte("2024-01-15T10:30:00Z"), field.Null, true, config.MonthFirst)
	ms, ok := ParseDateMillis("2024-01-15T10:30:00Z", config.MonthFirst)
	if !ok {
		t.Fatal("ParseDateMillis returned ok=false")
	}
	if ms != sample.MillisVal {
		t.Errorf("ParseDateMillis = %d, want %d (matching Classify)", ms, sample.MillisVal)
	}
}

func TestParseDateMillisUnparsable(t *testing.T) {
	if _, ok := ParseDateMillis("not a date", config.MonthFirst); ok {
		t.Error("expected ok=false for unparsable date text")
	}
}
