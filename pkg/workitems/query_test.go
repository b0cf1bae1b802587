package workitems

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryAssignedToMe(t *testing.T) {
	assert.Equal(t,
		"SELECT [System.Id] FROM WorkItems WHERE [System.AssignedTo] = @Me ORDER BY [System.ChangedDate] DESC",
		QueryAssignedToMe())
}

func TestQueryAssignedToMeBy(t *testing.T) {
	conditions := []string{
		"[System.State] = 'Active'",
		"System.Id = 1 AND System.Title = 'Test'",
		"[System.Title] CONTAINS 'it''s'",
		"",
	}

	for _, cond := range conditions {
		t.Run(cond, func(t *testing.T) {
			q := QueryAssignedToMeBy(cond)
			assert.True(t, strings.HasPrefix(q, "SELECT [System.Id] FROM WorkItems WHERE [System.AssignedTo] = @Me AND "))
			assert.Contains(t, q, "[System.AssignedTo] = @Me AND "+cond+" ORDER BY")
			assert.True(t, strings.HasSuffix(q, "ORDER BY [System.Id] DESC"))
		})
	}
}

func TestQueryAssignedToMeByPlannedDate(t *testing.T) {
	assert.Equal(t,
		"SELECT [System.Id] FROM WorkItems WHERE [System.AssignedTo] = @Me AND Custom.FechaInicioPlaneada = '2025-07-02' ORDER BY [System.Id] DESC",
		QueryAssignedToMeByPlannedDate("Custom.FechaInicioPlaneada", "2025-07-02"))
}

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"1,2,3", []string{"1", "2", "3"}},
		{" 1 , 2 ", []string{"1", "2"}},
		{"1,,2,", []string{"1", "2"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitIDs(tt.in))
		})
	}
}

func TestSetField(t *testing.T) {
	ops := SetField(FieldState, "Done")
	assert.Equal(t, []PatchOperation{{Op: "add", Path: "/fields/System.State", Value: "Done"}}, ops)
}

func TestValidID(t *testing.T) {
	tests := []struct {
		in       string
		expected bool
	}{
		{"1", true},
		{"1234", true},
		{"0", false},
		{"-1", false},
		{"+1", false},
		{"01", false},
		{"1&$expand=all", false},
		{"abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidID(tt.in))
		})
	}
}

func TestWorkItemType_AllowedFrom(t *testing.T) {
	var nilType *WorkItemType
	assert.Nil(t, nilType.AllowedFrom("New"))
	assert.Nil(t, (&WorkItemType{Name: "Bug"}).AllowedFrom("New"))

	wit := &WorkItemType{Name: "Bug", Transitions: NewTransitions()}
	wit.Transitions.Set("New", []Transition{{To: "Active"}})
	assert.Equal(t, []Transition{{To: "Active"}}, wit.AllowedFrom("New"))
	assert.Nil(t, wit.AllowedFrom("Closed"))
}
