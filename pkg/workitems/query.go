package workitems

import "fmt"

const assignedToMe = "SELECT [System.Id] FROM WorkItems WHERE [System.AssignedTo] = @Me"

// QueryAssignedToMe selects the caller's work items, most recently changed first.
func QueryAssignedToMe() string {
	return assignedToMe + " ORDER BY [System.ChangedDate] DESC"
}

// QueryAssignedToMeBy narrows QueryAssignedToMe with a raw WIQL condition such
// as "[System.State] = 'Active'". The condition is inserted verbatim: callers
// must only pass trusted WIQL fragments.
func QueryAssignedToMeBy(condition string) string {
	return fmt.Sprintf("%s AND %s ORDER BY [System.Id] DESC", assignedToMe, condition)
}

// QueryAssignedToMeByPlannedDate selects the caller's work items whose planned
// date field equals date (e.g. "2025-07-02").
func QueryAssignedToMeByPlannedDate(field, date string) string {
	return fmt.Sprintf("%s AND %s = '%s' ORDER BY [System.Id] DESC", assignedToMe, field, date)
}
