package util

import (
	"reflect"
	"testing"
)

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("expected default for invalid, got %d", got)
	}
}

func TestParseBoolDefault(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !ParseBoolDefault(s, false) {
			t.Fatalf("expected true for %q", s)
		}
	}
	for _, s := range []string{"0", "false", "off"} {
		if ParseBoolDefault(s, true) {
			t.Fatalf("expected false for %q", s)
		}
	}
	if !ParseBoolDefault("maybe", true) {
		t.Fatalf("expected default for unknown value")
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV("AAPL, MSFT ,,NVDA")
	want := []string{"AAPL", "MSFT", "NVDA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected split %v", got)
	}
	if SplitCSV("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
