package dates

import (
	"testing"
	"time"
)

// noon UTC = morning Eastern, same calendar date on both sides.
var refNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func TestTodayEastern(t *testing.T) {
	if got := TodayEastern(refNow); got != "20260105" {
		t.Fatalf("got %q, want %q", got, "20260105")
	}

	// 2am UTC is still the previous evening in New York.
	lateNight := time.Date(2026, 1, 5, 2, 0, 0, 0, time.UTC)
	if got := TodayEastern(lateNight); got != "20260104" {
		t.Fatalf("got %q, want %q", got, "20260104")
	}
}

func TestToDashed(t *testing.T) {
	cases := []struct{ in, want string }{
		{"20260105", "2026-01-05"},
		{"2026-01-05", "2026-01-05"},
		{"", ""},
		{"garbage", "garbage"},
		{"2026010a", "2026010a"},
	}
	for _, tc := range cases {
		if got := ToDashed(tc.in); got != tc.want {
			t.Fatalf("ToDashed(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsFutureEastern(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"20260106", true},
		{"20260105", false},
		{"20260104", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsFutureEastern(tc.in, refNow); got != tc.want {
			t.Fatalf("IsFutureEastern(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTTLFor(t *testing.T) {
	short := time.Minute
	long := 24 * time.Hour

	if got := TTLFor("20260104", refNow, short, long); got != long {
		t.Fatalf("past date: got %v, want %v", got, long)
	}
	if got := TTLFor("20260105", refNow, short, long); got != short {
		t.Fatalf("today: got %v, want %v", got, short)
	}
	if got := TTLFor("20260106", refNow, short, long); got != short {
		t.Fatalf("future: got %v, want %v", got, short)
	}
	if got := TTLFor("2026-01-04", refNow, short, long); got != long {
		t.Fatalf("dashed past date: got %v, want %v", got, long)
	}
	if got := TTLFor("bogus", refNow, short, long); got != short {
		t.Fatalf("unparseable: got %v, want %v", got, short)
	}
}
