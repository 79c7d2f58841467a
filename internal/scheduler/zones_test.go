package scheduler

import (
	"testing"
	"time"
)

func TestZones_Contains(t *testing.T) {
	t.Parallel()

	zones := DefaultZones()

	if !zones.Contains("Asia/Tokyo") {
		t.Fatal("Asia/Tokyo should be allowed by default")
	}
	if zones.Contains("Europe/Madrid") {
		t.Fatal("Europe/Madrid is not on the default allow-list")
	}
}

func TestToUTC_InterpretsWallClockInZone(t *testing.T) {
	t.Parallel()

	// Tokyo is UTC+9 year round.
	got, err := ToUTC("2024-03-04T19:00", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("ToUTC returned error: %v", err)
	}
	want := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ToUTC = %v, want %v", got, want)
	}
}

func TestToUTC_AcceptsSecondsAndRFC3339(t *testing.T) {
	t.Parallel()

	withSeconds, err := ToUTC("2024-03-04T19:00:00", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("ToUTC with seconds returned error: %v", err)
	}
	explicitOffset, err := ToUTC("2024-03-04T19:00:00+09:00", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("ToUTC with offset returned error: %v", err)
	}
	if !withSeconds.Equal(explicitOffset) {
		t.Fatalf("layouts disagree: %v vs %v", withSeconds, explicitOffset)
	}
}

func TestToUTC_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := ToUTC("next tuesday", "Asia/Tokyo"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ToUTC("2024-03-04T10:00", "Not/AZone"); err == nil {
		t.Fatal("expected zone load error")
	}
}

func TestRoundTripLaw(t *testing.T) {
	t.Parallel()

	for _, zone := range DefaultZones() {
		instant, err := ToUTC("2024-03-04T10:30", zone)
		if err != nil {
			t.Fatalf("ToUTC(%s) returned error: %v", zone, err)
		}
		local, err := FromUTC(instant, zone)
		if err != nil {
			t.Fatalf("FromUTC(%s) returned error: %v", zone, err)
		}
		if local.Format("2006-01-02T15:04") != "2024-03-04T10:30" {
			t.Fatalf("round trip through %s lost the wall clock: got %v", zone, local)
		}
	}
}
