package task

// Progress colour tiers.
const (
	TierGreen  = "green"
	TierYellow = "yellow"
	TierOrange = "orange"
	TierRed    = "red"
)

// Summary is the progress of one profile's checklist.
type Summary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Progress returns round(100*completed/total) with halves rounded up,
// or 0 when total is 0.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	return (200*completed + total) / (2 * total)
}

// Summarize builds a Summary from completed and total counts.
func Summarize(completed, total int) Summary {
	return Summary{Total: total, Completed: completed, Percentage: Progress(completed, total)}
}

// SummarizeTasks builds a Summary for a task slice.
func SummarizeTasks(tasks []Task) Summary {
	return Summarize(CountCompleted(tasks), len(tasks))
}

// TierFor classifies a percentage: >=80 green, >=50 yellow, >=25 orange, else red.
func TierFor(percentage int) string {
	switch {
	case percentage >= 80:
		return TierGreen
	case percentage >= 50:
		return TierYellow
	case percentage >= 25:
		return TierOrange
	default:
		return TierRed
	}
}
