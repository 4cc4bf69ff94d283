package schedule

import (
	"reflect"
	"testing"
	"time"
)

var dayOpts = Options{Opening: 480, Closing: 1080, Step: 15} // 08:00-18:00

func at(t *testing.T, day string, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", day+" "+hhmm)
	if err != nil {
		t.Fatalf("bad test time %s %s: %v", day, hhmm, err)
	}
	return ts
}

func slotAt(slots []Slot, hhmm string) *Slot {
	for i := range slots {
		if slots[i].Time == hhmm {
			return &slots[i]
		}
	}
	return nil
}

func TestClassifyDayScenario(t *testing.T) {
	// One 45-minute booking on bay A at 09:00, viewed at 09:10 the same day.
	snapshot := []Booking{
		{ID: "appt-1", Bay: BayA, Time: "09:00", Duration: 45, ClientName: "Dupont"},
	}
	day := "2026-03-10"
	now := at(t, day, "09:10")

	slots := Classify(snapshot, day, BayA, 30, now, dayOpts)

	// Two interior cells of the merged booking are suppressed.
	if len(slots) != 38 {
		t.Fatalf("got %d slots, want 38", len(slots))
	}

	if s := slotAt(slots, "08:00"); s == nil || s.State != SlotPast {
		t.Errorf("08:00 = %+v, want past", s)
	}

	s := slotAt(slots, "09:00")
	if s == nil || s.State != SlotBusy {
		t.Fatalf("09:00 = %+v, want busy", s)
	}
	if !s.FirstOfGroup || !s.LastOfGroup {
		t.Errorf("09:00 group flags = first=%v last=%v, want both true", s.FirstOfGroup, s.LastOfGroup)
	}
	if s.SlotCount != 3 || s.Duration != 45 {
		t.Errorf("09:00 slotCount=%d duration=%d, want 3 and 45", s.SlotCount, s.Duration)
	}
	if s.EndTime != "09:45" {
		t.Errorf("09:00 endTime = %q, want 09:45", s.EndTime)
	}
	if s.BookingID != "appt-1" || s.ClientName != "Dupont" {
		t.Errorf("09:00 metadata = %+v", s)
	}

	if s := slotAt(slots, "09:15"); s != nil {
		t.Errorf("09:15 should be suppressed, got %+v", s)
	}
	if s := slotAt(slots, "09:30"); s != nil {
		t.Errorf("09:30 should be suppressed, got %+v", s)
	}

	if s := slotAt(slots, "09:45"); s == nil || s.State != SlotFree {
		t.Errorf("09:45 = %+v, want free", s)
	}
}

func TestClassifyAttributesBusyToCoveringBooking(t *testing.T) {
	snapshot := []Booking{
		{ID: "a", Bay: BayA, Time: "09:00", Duration: 30},
		{ID: "b", Bay: BayA, Time: "10:00", Duration: 30},
	}
	now := at(t, "2026-03-09", "12:00") // day before: nothing past

	slots := Classify(snapshot, "2026-03-10", BayA, 15, now, dayOpts)

	if s := slotAt(slots, "09:00"); s == nil || s.BookingID != "a" {
		t.Errorf("09:00 attributed to %+v, want booking a", s)
	}
	if s := slotAt(slots, "10:00"); s == nil || s.BookingID != "b" {
		t.Errorf("10:00 attributed to %+v, want booking b", s)
	}
}

func TestClassifyEmitsEachBookingOnce(t *testing.T) {
	snapshot := []Booking{
		{ID: "long", Bay: BayA, Time: "10:00", Duration: 120},
	}
	now := at(t, "2026-03-09", "12:00")

	slots := Classify(snapshot, "2026-03-10", BayA, 15, now, dayOpts)

	var first int
	for _, s := range slots {
		if s.BookingID == "long" {
			if !s.FirstOfGroup {
				t.Errorf("emitted cell for booking without FirstOfGroup: %+v", s)
			}
			first++
		}
	}
	if first != 1 {
		t.Fatalf("booking emitted %d times, want exactly once", first)
	}
	// 120 minutes = 8 cells, 7 of them suppressed.
	if len(slots) != 40-7 {
		t.Fatalf("got %d slots, want %d", len(slots), 40-7)
	}
}

func TestClassifyIgnoresOtherBay(t *testing.T) {
	snapshot := []Booking{
		{ID: "b-side", Bay: BayB, Time: "09:00", Duration: 60},
	}
	now := at(t, "2026-03-09", "12:00")

	slots := Classify(snapshot, "2026-03-10", BayA, 15, now, dayOpts)

	if len(slots) != 40 {
		t.Fatalf("got %d slots, want full 40-cell grid", len(slots))
	}
	for _, s := range slots {
		if s.State != SlotFree {
			t.Fatalf("cell %s = %s, want free", s.Time, s.State)
		}
	}
}

func TestClassifyNoRoomBeforeLaterBooking(t *testing.T) {
	snapshot := []Booking{
		{ID: "x", Bay: BayA, Time: "10:00", Duration: 30},
	}
	now := at(t, "2026-03-09", "12:00")

	slots := Classify(snapshot, "2026-03-10", BayA, 60, now, dayOpts)

	// A 60-minute candidate at 09:15 would run into the 10:00 booking.
	for _, hhmm := range []string{"09:15", "09:30", "09:45"} {
		if s := slotAt(slots, hhmm); s == nil || s.State != SlotNoRoom {
			t.Errorf("%s = %+v, want no-room", hhmm, s)
		}
	}
	if s := slotAt(slots, "09:00"); s == nil || s.State != SlotFree {
		t.Errorf("09:00 = %+v, want free (60-minute window ends exactly at 10:00)", s)
	}
	// Near closing the candidate window runs past 18:00.
	if s := slotAt(slots, "17:15"); s == nil || s.State != SlotNoRoom {
		t.Errorf("17:15 = %+v, want no-room", s)
	}
	if s := slotAt(slots, "17:00"); s == nil || s.State != SlotFree {
		t.Errorf("17:00 = %+v, want free", s)
	}
}

func TestClassifyReadOnlyCollapsesNoRoom(t *testing.T) {
	snapshot := []Booking{
		{ID: "x", Bay: BayA, Time: "10:00", Duration: 30},
	}
	now := at(t, "2026-03-09", "12:00")

	ro := dayOpts
	ro.ReadOnly = true
	slots := Classify(snapshot, "2026-03-10", BayA, 60, now, ro)

	if s := slotAt(slots, "09:30"); s == nil || s.State != SlotFree {
		t.Errorf("readOnly 09:30 = %+v, want free", s)
	}
}

func TestClassifyDateBoundaries(t *testing.T) {
	now := at(t, "2026-03-10", "12:00")

	// Whole day strictly before today: every unbooked cell is past.
	slots := Classify(nil, "2026-03-09", BayA, 15, now, dayOpts)
	for _, s := range slots {
		if s.State != SlotPast {
			t.Fatalf("yesterday cell %s = %s, want past", s.Time, s.State)
		}
	}

	// Future dates are never past.
	slots = Classify(nil, "2026-03-11", BayA, 15, now, dayOpts)
	for _, s := range slots {
		if s.State == SlotPast {
			t.Fatalf("tomorrow cell %s classified past", s.Time)
		}
	}
}

func TestClassifyUnalignedAndCorruptBookings(t *testing.T) {
	snapshot := []Booking{
		{ID: "off-grid", Bay: BayA, Time: "09:05", Duration: 20},
		{Bay: BayA, Time: "11:00", Duration: 30},    // no id: never rendered
		{ID: "bad", Bay: BayA, Time: "garbage"},     // parses to 00:00, off the grid
	}
	now := at(t, "2026-03-09", "12:00")

	slots := Classify(snapshot, "2026-03-10", BayA, 15, now, dayOpts)

	// Off-grid start: covered cells are suppressed, no cell matches the
	// booking's own start minute, so nothing busy is emitted for it.
	for _, s := range slots {
		if s.BookingID == "off-grid" || s.State == SlotBusy {
			t.Fatalf("unexpected busy cell %+v", s)
		}
	}
	if slotAt(slots, "09:00") != nil || slotAt(slots, "09:15") != nil {
		t.Error("cells covered by the unaligned booking should be suppressed")
	}
	if slotAt(slots, "11:00") != nil || slotAt(slots, "11:15") != nil {
		t.Error("cells covered by the id-less booking should be suppressed")
	}
	if s := slotAt(slots, "09:30"); s == nil || s.State != SlotFree {
		t.Errorf("09:30 = %+v, want free", s)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	snapshot := []Booking{
		{ID: "a", Bay: BayA, Time: "09:00", Duration: 45, ClientName: "Martin"},
		{ID: "b", Bay: BayA, Time: "14:00", Duration: 30},
	}
	day := "2026-03-10"
	now := at(t, day, "09:10")

	first := Classify(snapshot, day, BayA, 30, now, dayOpts)
	second := Classify(snapshot, day, BayA, 30, now, dayOpts)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("two passes over the same inputs produced different grids")
	}
}
