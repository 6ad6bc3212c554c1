package cities

import "testing"

func TestDetect_PickupAddressWins(t *testing.T) {
	city, ok := Detect("12 Collins St, Melbourne VIC 3000", "Sydney Airport T1")
	if !ok {
		t.Fatalf("expected a match")
	}
	if city.Name != "Melbourne" {
		t.Fatalf("expected Melbourne, got %s", city.Name)
	}
	if city.Timezone != "Australia/Melbourne" {
		t.Fatalf("expected Australia/Melbourne, got %s", city.Timezone)
	}
}

func TestDetect_FallsBackToSecondAddress(t *testing.T) {
	city, ok := Detect("1 Harbour View Dr", "Brisbane Airport, QLD")
	if !ok || city.Name != "Brisbane" {
		t.Fatalf("expected Brisbane, got %s (ok=%v)", city.Name, ok)
	}
}

func TestDetect_NoMatchReturnsDefault(t *testing.T) {
	city, ok := Detect("Somewhere remote")
	if ok {
		t.Fatalf("expected no match")
	}
	if city.Name != Default().Name {
		t.Fatalf("expected default city %s, got %s", Default().Name, city.Name)
	}
}

func TestLocalPickupTime(t *testing.T) {
	ts, err := LocalPickupTime("2026-03-14", "09:30", "Australia/Sydney")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 {
		t.Fatalf("expected 09:30 wall clock, got %s", ts)
	}
	if zone, _ := ts.Zone(); zone == "UTC" {
		t.Fatalf("expected city-local zone, got UTC")
	}
}

func TestLocalPickupTime_BadZone(t *testing.T) {
	if _, err := LocalPickupTime("2026-03-14", "09:30", "Mars/OlympusMons"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}
