package task

import "time"

// Template is one seeded checklist entry.
type Template struct {
	Phase string
	Name  string
}

// TasksPerPhase is the number of seeded tasks in each phase.
const TasksPerPhase = 10

// DefaultTemplate is the checklist every new profile starts with, in insertion order.
// Phase and name text are literal and must not be reworded.
var DefaultTemplate = []Template{
	{Phase12PlusMonths, "Set your overall wedding budget"},
	{Phase12PlusMonths, "Draft a preliminary guest list"},
	{Phase12PlusMonths, "Choose a wedding date"},
	{Phase12PlusMonths, "Research and book the ceremony venue"},
	{Phase12PlusMonths, "Research and book the reception venue"},
	{Phase12PlusMonths, "Hire a wedding planner or coordinator"},
	{Phase12PlusMonths, "Choose your wedding party"},
	{Phase12PlusMonths, "Start a wedding website"},
	{Phase12PlusMonths, "Research photographers and videographers"},
	{Phase12PlusMonths, "Purchase wedding insurance"},

	{Phase8To12Months, "Book the photographer"},
	{Phase8To12Months, "Book the videographer"},
	{Phase8To12Months, "Book the caterer"},
	{Phase8To12Months, "Book the band or DJ"},
	{Phase8To12Months, "Book the officiant"},
	{Phase8To12Months, "Shop for the wedding attire"},
	{Phase8To12Months, "Send save-the-date cards"},
	{Phase8To12Months, "Reserve hotel room blocks for guests"},
	{Phase8To12Months, "Register for gifts"},
	{Phase8To12Months, "Book the florist"},

	{Phase4To8Months, "Order the wedding cake"},
	{Phase4To8Months, "Choose bridesmaid and groomsmen attire"},
	{Phase4To8Months, "Plan the honeymoon"},
	{Phase4To8Months, "Book wedding day transportation"},
	{Phase4To8Months, "Order the invitations"},
	{Phase4To8Months, "Plan the rehearsal dinner"},
	{Phase4To8Months, "Arrange rentals for tables, chairs and linens"},
	{Phase4To8Months, "Book hair and makeup artists"},
	{Phase4To8Months, "Schedule dress fittings"},
	{Phase4To8Months, "Choose the ceremony music"},

	{Phase2To4Months, "Mail the invitations"},
	{Phase2To4Months, "Finalize the reception menu"},
	{Phase2To4Months, "Purchase wedding rings"},
	{Phase2To4Months, "Write your vows"},
	{Phase2To4Months, "Plan the ceremony order of service"},
	{Phase2To4Months, "Order favors and welcome bags"},
	{Phase2To4Months, "Schedule the hair and makeup trial"},
	{Phase2To4Months, "Buy gifts for the wedding party"},
	{Phase2To4Months, "Confirm the honeymoon bookings"},
	{Phase2To4Months, "Apply for the marriage license"},

	{Phase1To2Months, "Track RSVPs and follow up with late guests"},
	{Phase1To2Months, "Create the seating chart"},
	{Phase1To2Months, "Give the final headcount to the caterer"},
	{Phase1To2Months, "Confirm all vendor bookings"},
	{Phase1To2Months, "Create the day-of timeline"},
	{Phase1To2Months, "Have the final dress fitting"},
	{Phase1To2Months, "Break in your wedding shoes"},
	{Phase1To2Months, "Prepare vendor payment envelopes"},
	{Phase1To2Months, "Send the shot list to the photographer"},
	{Phase1To2Months, "Send the song list to the band or DJ"},

	{Phase1Week, "Confirm arrival times with all vendors"},
	{Phase1Week, "Pack for the honeymoon"},
	{Phase1Week, "Pick up the wedding attire"},
	{Phase1Week, "Deliver decor and favors to the venue"},
	{Phase1Week, "Hold the ceremony rehearsal"},
	{Phase1Week, "Assign day-of tasks to the wedding party"},
	{Phase1Week, "Prepare final payments and tips"},
	{Phase1Week, "Get a manicure and pampering"},
	{Phase1Week, "Print the seating cards and programs"},
	{Phase1Week, "Relax and get a good night's sleep"},
}

// NewIDFunc produces row ids for seeded tasks.
type NewIDFunc func() string

// SeedTasks materializes DefaultTemplate for ownerID. All tasks start incomplete.
// CreatedAt is stamped in strictly increasing order so creation-time ordering
// reproduces template order.
func SeedTasks(ownerID string, now time.Time, newID NewIDFunc) []Task {
	tasks := make([]Task, 0, len(DefaultTemplate))
	for i, tpl := range DefaultTemplate {
		tasks = append(tasks, Task{
			ID:        newID(),
			OwnerID:   ownerID,
			Name:      tpl.Name,
			Phase:     tpl.Phase,
			Completed: false,
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return tasks
}
