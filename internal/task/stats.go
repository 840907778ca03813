package task

// Stats is a read-only aggregation of queue contents by status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Paused     int `json:"paused"`
}

// Stats recomputes the per-status counts from the current queue contents.
// Counting on demand rather than maintaining incremental counters keeps the
// totals immune to drift.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s Stats
	for _, rec := range m.tasks {
		s.Total++
		switch rec.Status {
		case StatusPending:
			s.Pending++
		case StatusProcessing:
			s.Processing++
		case StatusCompleted:
			s.Completed++
		case StatusFailed:
			s.Failed++
		case StatusCancelled:
			s.Cancelled++
		case StatusPaused:
			s.Paused++
		}
	}
	return s
}
