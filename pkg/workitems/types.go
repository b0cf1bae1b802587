package workitems

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field reference names read or written by this package.
const (
	FieldTitle        = "System.Title"
	FieldWorkItemType = "System.WorkItemType"
	FieldState        = "System.State"
	FieldReason       = "System.Reason"
	FieldAssignedTo   = "System.AssignedTo"
	FieldDescription  = "System.Description"
	FieldHistory      = "System.History"
	FieldCreatedBy    = "System.CreatedBy"
	FieldCreatedDate  = "System.CreatedDate"
	FieldChangedBy    = "System.ChangedBy"
	FieldChangedDate  = "System.ChangedDate"
	FieldPriority     = "Microsoft.VSTS.Common.Priority"
	FieldEffort       = "Microsoft.VSTS.Scheduling.Effort"
)

// WorkItem is a single work item as returned by the API. Fields is keyed by
// field reference name and holds raw JSON values.
type WorkItem struct {
	ID     int            `json:"id"`
	Rev    int            `json:"rev,omitempty"`
	URL    string         `json:"url"`
	Fields map[string]any `json:"fields"`
}

// WorkItemTypeField describes one field of a work item type.
type WorkItemTypeField struct {
	Name           string `json:"name"`
	ReferenceName  string `json:"referenceName"`
	AlwaysRequired bool   `json:"alwaysRequired"`
}

// WorkItemTypeState is a state a work item type can be in. Color is hex
// without the leading '#'.
type WorkItemTypeState struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// Transition is one allowed move out of a state.
type Transition struct {
	To      string   `json:"to"`
	Actions []string `json:"actions,omitempty"`
}

// Transitions maps a source state to its outgoing transitions, in the order
// the API returned them.
type Transitions = orderedmap.OrderedMap[string, []Transition]

// NewTransitions returns an empty transition map.
func NewTransitions() *Transitions {
	return orderedmap.New[string, []Transition]()
}

// WorkItemType is the schema shared by work items of one type.
type WorkItemType struct {
	Name          string              `json:"name"`
	ReferenceName string              `json:"referenceName"`
	Description   string              `json:"description"`
	Color         string              `json:"color,omitempty"`
	IsDisabled    bool                `json:"isDisabled"`
	Fields        []WorkItemTypeField `json:"fields"`
	States        []WorkItemTypeState `json:"states"`
	Transitions   *Transitions        `json:"transitions,omitempty"`
}

// AllowedFrom returns the transitions leaving state, or nil.
func (t *WorkItemType) AllowedFrom(state string) []Transition {
	if t == nil || t.Transitions == nil {
		return nil
	}
	list, _ := t.Transitions.Get(state)
	return list
}

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []struct {
		ID  int    `json:"id"`
		URL string `json:"url"`
	} `json:"workItems"`
}

type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// PatchOperation is one entry of a JSON Patch document.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// SetField builds the single-operation patch that sets one field.
func SetField(ref string, value any) []PatchOperation {
	return []PatchOperation{
		{
			Op:    "add",
			Path:  "/fields/" + ref,
			Value: value,
		},
	}
}
