package task

import (
	"errors"
	"time"
)

// Checklist phases, in calendar order.
const (
	Phase12PlusMonths = "12+ Months Before"
	Phase8To12Months  = "8-12 Months Before"
	Phase4To8Months   = "4-8 Months Before"
	Phase2To4Months   = "2-4 Months Before"
	Phase1To2Months   = "1-2 Months Before"
	Phase1Week        = "1 Week Before"
)

// Phases lists every phase in display order. The list is fixed and does not depend on data.
var Phases = []string{
	Phase12PlusMonths,
	Phase8To12Months,
	Phase4To8Months,
	Phase2To4Months,
	Phase1To2Months,
	Phase1Week,
}

// Domain errors
var (
	ErrEmptyName    = errors.New("task name is required")
	ErrEmptyOwnerID = errors.New("task owner is required")
	ErrInvalidPhase = errors.New("phase must be one of the six checklist phases")
)

// Task is one checklist item owned by a profile.
type Task struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Phase     string    `json:"phase"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// PhaseGroup holds the tasks of a single phase.
type PhaseGroup struct {
	Phase string `json:"phase"`
	Tasks []Task `json:"tasks"`
}

// Validate checks if the Task has valid data.
// PRE: Task struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Task) Validate() error {
	if t.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if t.Name == "" {
		return ErrEmptyName
	}
	if !IsValidPhase(t.Phase) {
		return ErrInvalidPhase
	}
	return nil
}

// IsValidPhase reports whether phase is one of Phases (exact match).
func IsValidPhase(phase string) bool {
	for _, p := range Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// GroupByPhase buckets tasks into the fixed phase list.
// Every phase is present, in Phases order, even when empty. Within a phase the
// input order is preserved. Tasks with an unknown phase are left out.
func GroupByPhase(tasks []Task) []PhaseGroup {
	groups := make([]PhaseGroup, len(Phases))
	index := make(map[string]int, len(Phases))
	for i, p := range Phases {
		groups[i] = PhaseGroup{Phase: p, Tasks: []Task{}}
		index[p] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Phase]; ok {
			groups[i].Tasks = append(groups[i].Tasks, t)
		}
	}
	return groups
}

// CountCompleted returns how many tasks are marked completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
