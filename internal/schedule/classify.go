package schedule

import "time"

// SlotState is the display state of one grid cell.
type SlotState string

const (
	SlotFree SlotState = "free"
	SlotBusy SlotState = "busy"
	SlotPast SlotState = "past"
	// SlotNoRoom marks a cell where the requested duration does not fit:
	// the candidate window runs past closing or into a later booking.
	SlotNoRoom SlotState = "indispo"
)

// Slot is one rendered grid cell. Busy cells that start a multi-cell booking
// carry the whole group's metadata; a booking's interior cells are not
// emitted at all, so the output is shorter than the raw grid whenever merged
// bookings exist.
type Slot struct {
	Time        string
	EndTime     string // set on busy groups only
	State       SlotState
	BookingID   string
	ClientName  string
	ServiceType string
	CarInfo     string

	FirstOfGroup bool
	LastOfGroup  bool
	SlotCount    int // display cells covered by the booking
	Duration     int // total booking duration in minutes
}

// Options bound and parameterize one classification pass.
type Options struct {
	Opening int // first bookable minute of the day
	Closing int // exclusive end bound, in minutes
	Step    int // grid resolution; <=0 falls back to DisplayStep
	// ReadOnly suppresses the no-room state: dashboard callers render
	// those cells as free and disable booking themselves.
	ReadOnly bool
}

func (o Options) step() int {
	if o.Step <= 0 {
		return DisplayStep
	}
	return o.Step
}

// LocalDate formats t's local calendar day as "YYYY-MM-DD" from its
// wall-clock parts. Going through UTC here shifts the day near midnight in
// non-UTC timezones, so the "is this cell today" comparison must use this,
// never a UTC serialization.
func LocalDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Classify assigns a display state to every grid cell of one day and bay,
// given a consistent snapshot of that day's bookings and the caller-chosen
// duration for new bookings. Precedence per cell: busy, past, no-room, free.
// Busy wins over past so a booking already under way still renders as one
// block instead of dissolving into past cells. Pure: identical inputs,
// including now, produce identical output.
func Classify(snapshot []Booking, day string, bay Bay, requestedDuration int, now time.Time, opts Options) []Slot {
	step := opts.step()
	if requestedDuration <= 0 {
		requestedDuration = step
	}

	today := LocalDate(now)
	nowMin := now.Hour()*60 + now.Minute()

	// Each booking id renders once per pass. Local to this call.
	emitted := make(map[string]bool)

	var out []Slot
	for cell := range Times(opts.Opening, opts.Closing, step) {
		displayEnd := cell + step
		reserveEnd := cell + requestedDuration

		past := day < today || (day == today && cell < nowMin)

		busy := findOverlap(snapshot, bay, cell, displayEnd)

		switch {
		case busy != nil:
			start := busy.StartMinute()
			dur := busy.EffectiveDuration()

			// Only the cell matching the booking's own start minute
			// produces output; the rest of its span is suppressed.
			if cell != start || busy.ID == "" || emitted[busy.ID] {
				continue
			}
			emitted[busy.ID] = true

			out = append(out, Slot{
				Time:         FormatMinutes(cell),
				EndTime:      FormatMinutes(start + dur),
				State:        SlotBusy,
				BookingID:    busy.ID,
				ClientName:   busy.ClientName,
				ServiceType:  busy.ServiceType,
				CarInfo:      busy.CarInfo,
				FirstOfGroup: true,
				LastOfGroup:  true,
				SlotCount:    (dur + step - 1) / step,
				Duration:     dur,
			})

		case past:
			out = append(out, Slot{Time: FormatMinutes(cell), State: SlotPast})

		case !windowFree(snapshot, bay, cell, reserveEnd, opts) && !opts.ReadOnly:
			out = append(out, Slot{Time: FormatMinutes(cell), State: SlotNoRoom})

		default:
			out = append(out, Slot{Time: FormatMinutes(cell), State: SlotFree})
		}
	}

	return out
}

// findOverlap returns the first booking on bay whose interval intersects
// [startMin, endMin), or nil.
func findOverlap(snapshot []Booking, bay Bay, startMin, endMin int) *Booking {
	for i := range snapshot {
		b := &snapshot[i]
		if b.Bay != bay {
			continue
		}
		if Overlaps(startMin, endMin, b.StartMinute(), b.EndMinute()) {
			return b
		}
	}
	return nil
}

func windowFree(snapshot []Booking, bay Bay, startMin, endMin int, opts Options) bool {
	if startMin < opts.Opening || endMin > opts.Closing {
		return false
	}
	return findOverlap(snapshot, bay, startMin, endMin) == nil
}
