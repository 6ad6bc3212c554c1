package phone

import "testing"

func TestNormalizeE164_AustralianMobile(t *testing.T) {
	got := NormalizeE164("0412 345 678")
	if got != "+61412345678" {
		t.Fatalf("expected +61412345678, got %q", got)
	}
}

func TestNormalizeE164_AlreadyInternational(t *testing.T) {
	got := NormalizeE164("+61 2 9374 4000")
	if got != "+61293744000" {
		t.Fatalf("expected +61293744000, got %q", got)
	}
}

func TestNormalizeE164_GarbageReturnsTrimmedInput(t *testing.T) {
	got := NormalizeE164("  not-a-number ")
	if got != "not-a-number" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}
