package tasklist

// Stats summarizes the collection. Total, Completed, and Pending cover
// the active view unless archived tasks were included; Active and
// Archived always count the whole collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Archived  int `json:"archived"`
	Active    int `json:"active"`
}

// Stats computes summary counts. With includeArchived false (the
// default view) the totals are taken over non-archived tasks only.
func (m *Model) Stats(includeArchived bool) Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Stats
	for _, task := range m.tasks {
		if task.Archived {
			s.Archived++
		} else {
			s.Active++
		}
		if task.Archived && !includeArchived {
			continue
		}
		s.Total++
		if task.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
