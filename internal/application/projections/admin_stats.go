package projections

// AdminStats aggregates progress across every listed profile.
type AdminStats struct {
	AverageProgress  int `json:"average_progress"`
	ActiveClients    int `json:"active_clients"`
	CompletedClients int `json:"completed_clients"`
	TotalClients     int `json:"total_clients"`
}

// ComputeAdminStats summarizes per-profile progress percentages.
// AverageProgress is the mean rounded half up, 0 for an empty list.
// Active means any progress at all; completed means exactly 100.
func ComputeAdminStats(percentages []int) AdminStats {
	stats := AdminStats{TotalClients: len(percentages)}
	if len(percentages) == 0 {
		return stats
	}

	sum := 0
	for _, pct := range percentages {
		sum += pct
		if pct > 0 {
			stats.ActiveClients++
		}
		if pct == 100 {
			stats.CompletedClients++
		}
	}
	n := len(percentages)
	stats.AverageProgress = (2*sum + n) / (2 * n)
	return stats
}
