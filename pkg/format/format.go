// Package format renders work item service results as the plain text returned
// by every tool.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/joshcarp/workitems-mcp/pkg/workitems"
)

// Sentinels returned instead of an empty rendering.
const (
	NoWorkItemsFound     = "No workitems found"
	NoWorkItemTypesFound = "No workitem types found"
	NoStatesFound        = "No workitem type states found"
	NoTransitionsFound   = "No transitions found for this workitem type"
	NoTransitionsAllowed = "No transitions allowed for this workitem state"
)

// IDs renders an ID list as "Workitems ids found: 1,2,3".
func IDs(ids []string) string {
	if len(ids) == 0 {
		return NoWorkItemsFound
	}
	return "Workitems ids found: " + strings.Join(ids, ",")
}

// WorkItems renders each work item, separated by a blank line.
func WorkItems(items []workitems.WorkItem, plannedDateField string) string {
	if len(items) == 0 {
		return NoWorkItemsFound
	}
	out := make([]string, 0, len(items))
	for _, wi := range items {
		out = append(out, WorkItem(wi, plannedDateField))
	}
	return strings.Join(out, "\n\n")
}

// WorkItem renders one work item. Fields the item lacks render empty.
func WorkItem(wi workitems.WorkItem, plannedDateField string) string {
	f := wi.Fields

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", wi.ID)
	fmt.Fprintf(&b, "Title: %s\n", field(f, workitems.FieldTitle))
	fmt.Fprintf(&b, "Work Item Type: %s\n", field(f, workitems.FieldWorkItemType))
	fmt.Fprintf(&b, "State: %s (%s)\n", field(f, workitems.FieldState), field(f, workitems.FieldReason))
	fmt.Fprintf(&b, "Assigned To: %s\n", identity(f, workitems.FieldAssignedTo))
	fmt.Fprintf(&b, "Priority: %s\n", field(f, workitems.FieldPriority))
	fmt.Fprintf(&b, "Planned Start: %s\n", Date(field(f, plannedDateField)))
	fmt.Fprintf(&b, "Effort: %s\n", Effort(field(f, workitems.FieldEffort)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Created By: %s on %s\n", identity(f, workitems.FieldCreatedBy), field(f, workitems.FieldCreatedDate))
	fmt.Fprintf(&b, "Last Changed By: %s on %s\n", identity(f, workitems.FieldChangedBy), field(f, workitems.FieldChangedDate))
	b.WriteString("\n")
	fmt.Fprintf(&b, "URL: %s", wi.URL)
	return b.String()
}

// WorkItemTypes renders each type, separated by a blank line.
func WorkItemTypes(types []workitems.WorkItemType) string {
	if len(types) == 0 {
		return NoWorkItemTypesFound
	}
	out := make([]string, 0, len(types))
	for i := range types {
		out = append(out, WorkItemType(&types[i]))
	}
	return strings.Join(out, "\n\n")
}

// WorkItemType renders a type with its fields, states and transitions.
func WorkItemType(t *workitems.WorkItemType) string {
	enabled := "Yes"
	if t.IsDisabled {
		enabled = "No"
	}

	fields := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		line := fmt.Sprintf("%s (%s)", f.Name, f.ReferenceName)
		if f.AlwaysRequired {
			line += " [REQUIRED]"
		}
		fields = append(fields, line)
	}

	states := make([]string, 0, len(t.States))
	for _, s := range t.States {
		states = append(states, fmt.Sprintf("%s (%s, color: %s)", s.Name, s.Category, s.Color))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Work Item Type: %s\n", t.Name)
	fmt.Fprintf(&b, "Reference: %s\n", t.ReferenceName)
	fmt.Fprintf(&b, "Description: %s\n", t.Description)
	fmt.Fprintf(&b, "Enabled: %s\n\n", enabled)
	fmt.Fprintf(&b, "Fields:\n%s\n\n", strings.Join(fields, "\n"))
	fmt.Fprintf(&b, "States:\n%s\n\n", strings.Join(states, "\n"))
	fmt.Fprintf(&b, "Transitions:\n%s", transitionLines(t.Transitions))
	return b.String()
}

// Transitions renders every edge of a transition map in map order.
func Transitions(transitions *workitems.Transitions) string {
	lines := transitionLines(transitions)
	if lines == "" {
		return NoTransitionsFound
	}
	return lines
}

func transitionLines(transitions *workitems.Transitions) string {
	if transitions == nil {
		return ""
	}
	var lines []string
	for pair := transitions.Oldest(); pair != nil; pair = pair.Next() {
		for _, tr := range pair.Value {
			lines = append(lines, Transition(pair.Key, tr.To))
		}
	}
	return strings.Join(lines, "\n")
}

// Transition renders one edge.
func Transition(from, to string) string {
	return fmt.Sprintf("From: %s -> To: %s", from, to)
}

// AllowedTransitions renders the targets reachable from a state. The "From"
// label carries the type name, not the source state.
func AllowedTransitions(typeName string, list []workitems.Transition) string {
	if len(list) == 0 {
		return NoTransitionsAllowed
	}
	lines := make([]string, 0, len(list))
	for _, tr := range list {
		lines = append(lines, Transition(typeName, tr.To))
	}
	return strings.Join(lines, "\n")
}

// TypeStates renders each state, separated by a blank line.
func TypeStates(states []workitems.WorkItemTypeState) string {
	if len(states) == 0 {
		return NoStatesFound
	}
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, TypeState(s))
	}
	return strings.Join(out, "\n\n")
}

// TypeState renders a state; the color gets its leading '#'.
func TypeState(s workitems.WorkItemTypeState) string {
	return fmt.Sprintf("State: %s\nCategory: %s\nColor: #%s\n", s.Name, s.Category, s.Color)
}

// Update renders the outcome of a single write.
func Update(ok bool, what, id string) string {
	if ok {
		return fmt.Sprintf("Workitem %s %s updated", id, what)
	}
	return fmt.Sprintf("Failed to update %s of workitem %s", what, id)
}

// Comment renders the outcome of adding a comment.
func Comment(ok bool, id string) string {
	if ok {
		return fmt.Sprintf("Comment added to workitem %s", id)
	}
	return fmt.Sprintf("Failed to add comment to workitem %s", id)
}

// BulkUpdate renders the IDs a bulk write succeeded on.
func BulkUpdate(updated []string) string {
	if len(updated) == 0 {
		return "No workitems updated"
	}
	return "Workitems updated: " + strings.Join(updated, ",")
}

// maxEffortHours bounds the values Effort converts; larger magnitudes, NaN
// and infinities are returned as given.
const maxEffortHours = 1e15

// Effort turns decimal hours into "H h M min", truncating both parts:
// "1.5" is "1 h 30 min" and "1.999" is "1 h 59 min". Empty input stays empty
// and anything that is not a number is returned unchanged.
func Effort(effort string) string {
	effort = strings.TrimSpace(effort)
	if effort == "" {
		return ""
	}
	f, err := strconv.ParseFloat(effort, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) >= maxEffortHours {
		return effort
	}
	// Split the shortest decimal form exactly, so 2.3 is 2 h 18 min.
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return effort
	}
	hours, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	minutes := rem.Quo(rem.Mul(rem, big.NewInt(60)), r.Denom())
	return fmt.Sprintf("%d h %d min", hours, minutes)
}

// Date keeps the date part of an ISO-8601 timestamp.
func Date(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

func field(fields map[string]any, ref string) string {
	switch v := fields[ref].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// identity reads the display name of an identity reference field.
func identity(fields map[string]any, ref string) string {
	switch v := fields[ref].(type) {
	case map[string]any:
		name, _ := v["displayName"].(string)
		return name
	case string:
		return v
	default:
		return ""
	}
}
