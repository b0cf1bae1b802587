package tools

import (
	"context"

	"github.com/joshcarp/workitems-mcp/pkg/format"
	"github.com/joshcarp/workitems-mcp/pkg/workitems"
)

// JSON types accepted for IDs and numeric values, which agents send either
// quoted or bare.
var (
	idTypes     = []string{"string", "integer"}
	numberTypes = []string{"string", "number"}
)

// Parameters shared by several tools.
var (
	paramWorkItemID = Param{
		Name:        "workitem_id",
		Description: "ID of the workitem (e.g. \"1234\")",
		Types:       idTypes,
	}
	paramWorkItemIDs = Param{
		Name:        "workitems_ids",
		Description: "Comma separated workitem IDs (e.g. \"1,2,3\")",
		Types:       idTypes,
	}
	paramTypeName = Param{
		Name:        "workitem_type_name",
		Description: "Name of the workitem type (e.g. \"Task\", \"Bug\", \"Feature\")",
	}
	paramPlannedDate = Param{
		Name:        "planned_date",
		Description: "Planned start date as an ISO-8601 timestamp (e.g. \"2025-07-02T00:00:00Z\")",
	}
)

// WorkItemTools returns a registry holding every work item tool bound to svc.
func WorkItemTools(svc *workitems.Service) *Registry {
	r := NewRegistry()

	r.mustRegister(Tool{
		Name:        "get_workitems_ids_assigned_to_user",
		Description: "Get the IDs of all workitems assigned to the current user. Returns e.g. \"Workitems ids found: 1,2,3\".",
		Handler: func(ctx context.Context, _ Args) (string, error) {
			ids, err := svc.ListIDsAssignedToMe(ctx)
			if err != nil {
				return "", err
			}
			return format.IDs(ids), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitems_ids_assigned_to_user_by",
		Description: "Get the IDs of the workitems assigned to the current user that match a WIQL condition.",
		Params: []Param{{
			Name:        "columns_where",
			Description: "WIQL condition on field reference names (e.g. \"System.Id = 1 AND System.Title = 'Test'\")",
		}},
		Handler: func(ctx context.Context, args Args) (string, error) {
			ids, err := svc.ListIDsAssignedToMeBy(ctx, args["columns_where"])
			if err != nil {
				return "", err
			}
			return format.IDs(ids), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitems_ids_assigned_to_user_by_planned_date",
		Description: "Get the IDs of the workitems assigned to the current user with a given planned start date (" + svc.PlannedDateField() + ").",
		Params: []Param{{
			Name:        "planned_date",
			Description: "Planned date (e.g. \"2025-07-02\")",
		}},
		Handler: func(ctx context.Context, args Args) (string, error) {
			ids, err := svc.ListIDsAssignedToMeByPlannedDate(ctx, args["planned_date"])
			if err != nil {
				return "", err
			}
			return format.IDs(ids), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitems_details_by_ids",
		Description: "Get the details of one or more workitems by ID.",
		Params:      []Param{paramWorkItemIDs},
		Handler: func(ctx context.Context, args Args) (string, error) {
			items := svc.GetDetailsByIDs(ctx, args[paramWorkItemIDs.Name])
			return format.WorkItems(items, svc.PlannedDateField()), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_all_workitems_types",
		Description: "Get all workitem types of the project with their fields, states and transitions.",
		Handler: func(ctx context.Context, _ Args) (string, error) {
			types, err := svc.ListTypes(ctx)
			if err != nil {
				return "", err
			}
			return format.WorkItemTypes(types), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitem_type_by_name",
		Description: "Get a workitem type by its name.",
		Params: []Param{{
			Name:        "name",
			Description: paramTypeName.Description,
		}},
		Handler: func(ctx context.Context, args Args) (string, error) {
			wit, err := svc.GetType(ctx, args["name"])
			if err != nil {
				return "", err
			}
			return format.WorkItemType(wit), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitem_type_states",
		Description: "Get the states a workitem type can be in.",
		Params:      []Param{paramTypeName},
		Handler: func(ctx context.Context, args Args) (string, error) {
			states, err := svc.ListTypeStates(ctx, args[paramTypeName.Name])
			if err != nil {
				return "", err
			}
			return format.TypeStates(states), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitem_type_transitions",
		Description: "Get every state transition of a workitem type.",
		Params:      []Param{paramTypeName},
		Handler: func(ctx context.Context, args Args) (string, error) {
			transitions, err := svc.GetTypeTransitions(ctx, args[paramTypeName.Name])
			if err != nil {
				return "", err
			}
			return format.Transitions(transitions), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "get_workitem_transition_list_allowed",
		Description: "Get the states a workitem of the given type can move to from the given state.",
		Params: []Param{
			paramTypeName,
			{Name: "workitem_state_name", Description: "Current state (e.g. \"To Do\")"},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			typeName := args[paramTypeName.Name]
			list, err := svc.ListTransitionsAllowed(ctx, typeName, args["workitem_state_name"])
			if err != nil {
				return "", err
			}
			return format.AllowedTransitions(typeName, list), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "update_workitem_state",
		Description: "Move a workitem to another state.",
		Params: []Param{
			paramWorkItemID,
			{Name: "workitem_state_name", Description: "Target state (e.g. \"Done\")"},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			id := args[paramWorkItemID.Name]
			return format.Update(svc.UpdateState(ctx, id, args["workitem_state_name"]), "state", id), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "update_workitem_planned_date",
		Description: "Set the planned start date of a workitem.",
		Params:      []Param{paramWorkItemID, paramPlannedDate},
		Handler: func(ctx context.Context, args Args) (string, error) {
			id := args[paramWorkItemID.Name]
			return format.Update(svc.UpdatePlannedDate(ctx, id, args[paramPlannedDate.Name]), "planned date", id), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "update_workitems_planned_date",
		Description: "Set the same planned start date on several workitems. Items are updated one by one; a failure does not stop the rest.",
		Params:      []Param{paramWorkItemIDs, paramPlannedDate},
		Handler: func(ctx context.Context, args Args) (string, error) {
			updated := svc.UpdatePlannedDateBulk(ctx, args[paramWorkItemIDs.Name], args[paramPlannedDate.Name])
			return format.BulkUpdate(updated), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "update_workitem_real_effort",
		Description: "Set the real effort of a workitem in decimal hours.",
		Params: []Param{
			paramWorkItemID,
			{Name: "real_effort", Description: "Effort in hours (e.g. \"1.5\" for 1 h 30 min)", Types: numberTypes},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			id := args[paramWorkItemID.Name]
			return format.Update(svc.UpdateRealEffort(ctx, id, args["real_effort"]), "real effort", id), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "update_workitem_description",
		Description: "Replace the description of a workitem. Basic HTML tags such as <p>, <ul>, <li> and <b> are kept.",
		Params: []Param{
			paramWorkItemID,
			{Name: "description", Description: "New description"},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			id := args[paramWorkItemID.Name]
			return format.Update(svc.UpdateDescription(ctx, id, args["description"]), "description", id), nil
		},
	})

	r.mustRegister(Tool{
		Name:        "add_workitem_comment",
		Description: "Add a comment to the discussion of a workitem.",
		Params: []Param{
			paramWorkItemID,
			{Name: "comment", Description: "Comment text"},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			id := args[paramWorkItemID.Name]
			return format.Comment(svc.AddComment(ctx, id, args["comment"]), id), nil
		},
	})

	return r
}
