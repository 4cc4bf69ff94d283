package schedule

// IsAvailable reports whether a new booking of requestedDuration minutes may
// start at startMin on the given bay without running outside opening hours
// or overlapping an existing booking. It only gates the attempt; the service
// re-checks under a lock at create time and stays the final authority.
func IsAvailable(snapshot []Booking, bay Bay, startMin, requestedDuration, opening, closing int) bool {
	if requestedDuration <= 0 {
		requestedDuration = DisplayStep
	}
	endMin := startMin + requestedDuration
	if startMin < opening || endMin > closing {
		return false
	}
	return findOverlap(snapshot, bay, startMin, endMin) == nil
}
