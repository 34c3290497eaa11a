package timeslot

import "testing"

func TestNewComputesEnd(t *testing.T) {
	iv := New(10*MinutesPerHour, 2)
	if iv.Start != 600 || iv.End != 720 {
		t.Fatalf("New(600, 2h) = %+v, want [600,720)", iv)
	}
	if iv.Duration() != 120 {
		t.Fatalf("Duration = %d, want 120", iv.Duration())
	}
}

func TestOverlaps(t *testing.T) {
	base := New(600, 2) // [10:00, 12:00)
	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", New(600, 2), true},
		{"nested", New(630, 1), true},
		{"overlap left edge", New(540, 2), true},   // [09:00,11:00)
		{"overlap right edge", New(660, 2), true},  // [11:00,13:00)
		{"adjacent before", New(480, 2), false},    // [08:00,10:00)
		{"adjacent after", New(720, 2), false},     // [12:00,14:00)
		{"disjoint before", New(300, 1), false},    // [05:00,06:00)
		{"disjoint after", New(780, 3), false},     // [13:00,16:00)
		{"surrounding", New(540, 4), true},         // [09:00,13:00)
		{"single minute inside", Interval{Start: 719, End: 720}, true},
		{"starts at end", Interval{Start: 720, End: 721}, false},
		{"ends at start", Interval{Start: 599, End: 600}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", base, tc.other, got, tc.want)
			}
			// overlap is symmetric
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v (symmetry)", tc.other, base, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	iv := New(600, 2)
	if !iv.Contains(600) {
		t.Error("start offset should be inside (half-open)")
	}
	if iv.Contains(720) {
		t.Error("end offset should be outside (half-open)")
	}
	if !iv.Contains(719) {
		t.Error("last minute should be inside")
	}
	if iv.Contains(599) {
		t.Error("minute before start should be outside")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"10:00", 600, false},
		{"23:59", 1439, false},
		{"09:30", 570, false},
		{"24:00", 0, true},
		{"10:60", 0, true},
		{"1:00", 0, true},
		{"10.00", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"10:00:00", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "10:00", "21:30", "23:59"} {
		min, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if back := Clock(min); back != s {
			t.Errorf("Clock(ParseClock(%q)) = %q", s, back)
		}
	}
	// an interval running to close of day renders past 23:59
	if got := Clock(New(23*MinutesPerHour, 1).End); got != "24:00" {
		t.Errorf("end-of-day clock = %q, want 24:00", got)
	}
}

func TestSlots(t *testing.T) {
	slots := Slots(10, 22)
	if len(slots) != 12 {
		t.Fatalf("Slots(10,22) yielded %d slots, want 12", len(slots))
	}
	if slots[0].Start != 600 || slots[0].End != 660 {
		t.Errorf("first slot = %+v, want [600,660)", slots[0])
	}
	if last := slots[len(slots)-1]; last.Start != 1260 || last.End != 1320 {
		t.Errorf("last slot = %+v, want [1260,1320)", last)
	}
	if got := Slots(22, 10); got != nil {
		t.Errorf("inverted window should yield nil, got %v", got)
	}
}
