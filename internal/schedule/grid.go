package schedule

import "iter"

// Times yields the cell start minutes of one business day:
// opening, opening+step, ... strictly below closing. The closing minute is a
// bound, never a bookable cell. The sequence is finite, deterministic, and
// restartable.
func Times(opening, closing, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if step <= 0 {
			return
		}
		for t := opening; t < closing; t += step {
			if !yield(t) {
				return
			}
		}
	}
}

// GridTimes materializes Times into a slice, for callers that want the
// whole axis up front (the dashboard header row).
func GridTimes(opening, closing, step int) []int {
	var out []int
	for t := range Times(opening, closing, step) {
		out = append(out, t)
	}
	return out
}
