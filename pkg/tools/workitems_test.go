package tools

import (
	"context"
	"net/http"
	"testing"

	"github.com/joshcarp/workitems-mcp/pkg/devops"
	"github.com/joshcarp/workitems-mcp/pkg/devops/devopstest"
	"github.com/joshcarp/workitems-mcp/pkg/format"
	"github.com/joshcarp/workitems-mcp/pkg/workitems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bugType = `{
	"name": "Bug",
	"referenceName": "Microsoft.VSTS.WorkItemTypes.Bug",
	"description": "Tracks defects",
	"fields": [{"name": "Title", "referenceName": "System.Title", "alwaysRequired": true}],
	"states": [
		{"name": "New", "category": "Proposed", "color": "b2b2b2"},
		{"name": "Active", "category": "InProgress", "color": "007acc"},
		{"name": "Closed", "category": "Completed", "color": "339933"}
	],
	"transitions": {
		"New": [{"to": "Active"}, {"to": "Closed"}],
		"Active": [{"to": "Closed"}],
		"Closed": []
	}
}`

func newTestRegistry(t *testing.T) (*Registry, *devopstest.Server) {
	t.Helper()
	srv := devopstest.NewServer()
	t.Cleanup(srv.Close)
	cfg := srv.Config()
	return WorkItemTools(workitems.NewService(devops.NewClient(cfg), cfg)), srv
}

func TestWorkItemTools_Catalogue(t *testing.T) {
	r, _ := newTestRegistry(t)

	expected := map[string][]string{
		"get_workitems_ids_assigned_to_user":                 nil,
		"get_workitems_ids_assigned_to_user_by":              {"columns_where"},
		"get_workitems_ids_assigned_to_user_by_planned_date": {"planned_date"},
		"get_workitems_details_by_ids":                       {"workitems_ids"},
		"get_all_workitems_types":                            nil,
		"get_workitem_type_by_name":                          {"name"},
		"get_workitem_type_states":                           {"workitem_type_name"},
		"get_workitem_type_transitions":                      {"workitem_type_name"},
		"get_workitem_transition_list_allowed":               {"workitem_type_name", "workitem_state_name"},
		"update_workitem_state":                              {"workitem_id", "workitem_state_name"},
		"update_workitem_planned_date":                       {"workitem_id", "planned_date"},
		"update_workitems_planned_date":                      {"workitems_ids", "planned_date"},
		"update_workitem_real_effort":                        {"workitem_id", "real_effort"},
		"update_workitem_description":                        {"workitem_id", "description"},
		"add_workitem_comment":                               {"workitem_id", "comment"},
	}

	require.Len(t, r.List(), len(expected))
	for name, params := range expected {
		tool, ok := r.Get(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, tool.Description, name)

		var got []string
		for _, p := range tool.Params {
			got = append(got, p.Name)
			assert.NotEmpty(t, p.Description, name+"."+p.Name)
		}
		assert.Equal(t, params, got, name)
	}
}

func TestWorkItemTools_ListIDs(t *testing.T) {
	r, srv := newTestRegistry(t)
	ctx := context.Background()

	out, err := r.Call(ctx, "get_workitems_ids_assigned_to_user", nil)
	require.NoError(t, err)
	assert.Equal(t, format.NoWorkItemsFound, out)

	srv.SetQueryResult(1, 2, 3)
	for _, call := range []struct {
		tool string
		args Args
	}{
		{"get_workitems_ids_assigned_to_user", nil},
		{"get_workitems_ids_assigned_to_user_by", Args{"columns_where": "[System.State] = 'Active'"}},
		{"get_workitems_ids_assigned_to_user_by_planned_date", Args{"planned_date": "2025-07-02"}},
	} {
		out, err := r.Call(ctx, call.tool, call.args)
		require.NoError(t, err, call.tool)
		assert.Equal(t, "Workitems ids found: 1,2,3", out, call.tool)
	}
}

func TestWorkItemTools_ListIDsError(t *testing.T) {
	srv := devopstest.NewServer()
	defer srv.Close()
	cfg := srv.Config()
	cfg.AccessToken = ""
	r := WorkItemTools(workitems.NewService(devops.NewClient(cfg), cfg))

	_, err := r.Call(context.Background(), "get_workitems_ids_assigned_to_user", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, devops.StatusCode(err))
}

func TestWorkItemTools_Details(t *testing.T) {
	r, srv := newTestRegistry(t)
	srv.AddWorkItem(1, map[string]any{
		workitems.FieldTitle:  "First",
		workitems.FieldEffort: 2.5,
	})
	ctx := context.Background()

	out, err := r.Call(ctx, "get_workitems_details_by_ids", Args{"workitems_ids": "1"})
	require.NoError(t, err)
	assert.Contains(t, out, "ID: 1\n")
	assert.Contains(t, out, "Title: First\n")
	assert.Contains(t, out, "Effort: 2 h 30 min\n")

	out, err = r.Call(ctx, "get_workitems_details_by_ids", Args{"workitems_ids": "404"})
	require.NoError(t, err)
	assert.Equal(t, format.NoWorkItemsFound, out)

	srv.FailWorkItemsGet(http.StatusServiceUnavailable)
	out, err = r.Call(ctx, "get_workitems_details_by_ids", Args{"workitems_ids": "1"})
	require.NoError(t, err)
	assert.Equal(t, format.NoWorkItemsFound, out)
}

func TestWorkItemTools_Types(t *testing.T) {
	r, srv := newTestRegistry(t)
	srv.AddType("Bug", bugType)
	ctx := context.Background()

	out, err := r.Call(ctx, "get_all_workitems_types", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Work Item Type: Bug\n")

	out, err = r.Call(ctx, "get_workitem_type_by_name", Args{"name": "Bug"})
	require.NoError(t, err)
	assert.Contains(t, out, "Title (System.Title) [REQUIRED]")
	assert.Contains(t, out, "Transitions:\nFrom: New -> To: Active\nFrom: New -> To: Closed\nFrom: Active -> To: Closed")

	_, err = r.Call(ctx, "get_workitem_type_by_name", Args{"name": "Epic"})
	assert.Error(t, err)

	out, err = r.Call(ctx, "get_workitem_type_states", Args{"workitem_type_name": "Bug"})
	require.NoError(t, err)
	assert.Contains(t, out, "State: Active\nCategory: InProgress\nColor: #007acc\n")

	out, err = r.Call(ctx, "get_workitem_type_transitions", Args{"workitem_type_name": "Bug"})
	require.NoError(t, err)
	assert.Equal(t, "From: New -> To: Active\nFrom: New -> To: Closed\nFrom: Active -> To: Closed", out)
}

func TestWorkItemTools_AllowedTransitions(t *testing.T) {
	r, srv := newTestRegistry(t)
	srv.AddType("Bug", bugType)
	ctx := context.Background()

	out, err := r.Call(ctx, "get_workitem_transition_list_allowed",
		Args{"workitem_type_name": "Bug", "workitem_state_name": "New"})
	require.NoError(t, err)
	assert.Equal(t, "From: Bug -> To: Active\nFrom: Bug -> To: Closed", out)

	out, err = r.Call(ctx, "get_workitem_transition_list_allowed",
		Args{"workitem_type_name": "Bug", "workitem_state_name": "Closed"})
	require.NoError(t, err)
	assert.Equal(t, format.NoTransitionsAllowed, out)
}

func TestWorkItemTools_Updates(t *testing.T) {
	r, srv := newTestRegistry(t)
	srv.AddWorkItem(5, nil)
	ctx := context.Background()

	tests := []struct {
		tool     string
		args     Args
		expected string
	}{
		{"update_workitem_state", Args{"workitem_id": "5", "workitem_state_name": "Active"}, "Workitem 5 state updated"},
		{"update_workitem_planned_date", Args{"workitem_id": "5", "planned_date": "2025-07-02T00:00:00Z"}, "Workitem 5 planned date updated"},
		{"update_workitem_real_effort", Args{"workitem_id": "5", "real_effort": "1.5"}, "Workitem 5 real effort updated"},
		{"update_workitem_description", Args{"workitem_id": "5", "description": "<p>hi</p>"}, "Workitem 5 description updated"},
		{"add_workitem_comment", Args{"workitem_id": "5", "comment": "done"}, "Comment added to workitem 5"},
		{"update_workitem_state", Args{"workitem_id": "6", "workitem_state_name": "Active"}, "Failed to update state of workitem 6"},
		{"add_workitem_comment", Args{"workitem_id": "6", "comment": "done"}, "Failed to add comment to workitem 6"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.args["workitem_id"], func(t *testing.T) {
			out, err := r.Call(ctx, tt.tool, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	fields := srv.Fields(5)
	assert.Equal(t, "Active", fields[workitems.FieldState])
	assert.Equal(t, "done", fields[workitems.FieldHistory])
}

func TestWorkItemTools_BulkPlannedDate(t *testing.T) {
	r, srv := newTestRegistry(t)
	srv.AddWorkItem(1, nil)
	srv.AddWorkItem(2, nil)
	srv.AddWorkItem(3, nil)
	srv.FailPatch("2", http.StatusConflict)

	out, err := r.Call(context.Background(), "update_workitems_planned_date",
		Args{"workitems_ids": "1,2,3", "planned_date": "2025-07-02T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "Workitems updated: 1,3", out)
}
