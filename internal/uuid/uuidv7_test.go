package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	first := New()
	second := New()

	if first == second {
		t.Fatal("expected distinct ids")
	}
	if !IsValid(first) {
		t.Fatalf("expected a valid id, got %q", first)
	}
	if first[14] != '7' {
		t.Errorf("expected version 7, got %q", first)
	}
	if strings.Compare(first, second) > 0 {
		t.Errorf("expected %s to sort before %s", first, second)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190A0A0-0000-7000-8000-000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a0a0-0000-7000-8000-000000000001" {
		t.Errorf("expected the lowercase form, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected an error for an invalid id")
	}
	if IsValid("12") {
		t.Error("expected a short string to be invalid")
	}
}
