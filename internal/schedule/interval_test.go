package schedule

import "testing"

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in        string
		minutes   int
		defaulted bool
	}{
		{"09:00", 540, false},
		{"08:15", 495, false},
		{"00:00", 0, false},
		{"23:45", 1425, false},
		{" 9:30", 570, false},
		{"9", 540, true},      // missing minute component reads as :00
		{"garbage", 0, true},  // unparseable hour reads as 00:00
		{"", 0, true},
		{"10:xx", 600, true},  // bad minutes keep the hour
	}

	for _, c := range cases {
		got := ParseHHMM(c.in)
		if got.Minutes != c.minutes {
			t.Errorf("ParseHHMM(%q).Minutes = %d, want %d", c.in, got.Minutes, c.minutes)
		}
		if got.Defaulted != c.defaulted {
			t.Errorf("ParseHHMM(%q).Defaulted = %v, want %v", c.in, got.Defaulted, c.defaulted)
		}
		if got.Defaulted && got.Reason == "" {
			t.Errorf("ParseHHMM(%q) defaulted without a reason", c.in)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		540:  "09:00",
		585:  "09:45",
		1079: "17:59",
	}
	for min, want := range cases {
		if got := FormatMinutes(min); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", min, got, want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"disjoint", 540, 570, 600, 630, false},
		{"contained", 540, 600, 550, 560, true},
		{"partial", 540, 570, 560, 590, true},
		{"identical", 540, 570, 540, 570, true},
		{"touching end-to-start does not overlap", 540, 570, 570, 600, false},
		{"touching start-to-end does not overlap", 570, 600, 540, 570, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(c.s1, c.e1, c.s2, c.e2); got != c.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", c.s1, c.e1, c.s2, c.e2, got, c.want)
			}
		})
	}
}

func TestBookingDefaults(t *testing.T) {
	b := Booking{Time: "09:00"}
	if got := b.EffectiveDuration(); got != DisplayStep {
		t.Fatalf("zero duration should fall back to %d, got %d", DisplayStep, got)
	}
	if got := b.EndMinute(); got != 540+DisplayStep {
		t.Fatalf("EndMinute = %d, want %d", got, 540+DisplayStep)
	}

	b = Booking{Time: "broken", Duration: 45}
	if got := b.StartMinute(); got != 0 {
		t.Fatalf("malformed time should read as 00:00, got %d", got)
	}
	if got := b.EndMinute(); got != 45 {
		t.Fatalf("EndMinute = %d, want 45", got)
	}
}
