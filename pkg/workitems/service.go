// Package workitems builds WIQL queries and JSON Patch bodies for the Azure
// DevOps work item tracking API and shapes its responses.
package workitems

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/devops"
)

var logger = xlog.NewPackageLogger("github.com/joshcarp/workitems-mcp", "workitems")

// Transport performs authenticated JSON calls relative to the work item
// tracking root. *devops.Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

var _ Transport = (*devops.Client)(nil)

// Service maps each remote capability to one method. It holds no mutable state.
type Service struct {
	transport        Transport
	plannedDateField string
	realEffortField  string
}

// NewService returns a service that talks through t and reads custom field
// names from cfg.
func NewService(t Transport, cfg config.Config) *Service {
	plannedDate := cfg.PlannedDateField
	if plannedDate == "" {
		plannedDate = config.DefaultPlannedDateField
	}
	realEffort := cfg.RealEffortField
	if realEffort == "" {
		realEffort = config.DefaultRealEffortField
	}
	return &Service{
		transport:        t,
		plannedDateField: plannedDate,
		realEffortField:  realEffort,
	}
}

// PlannedDateField returns the reference name used for planned dates.
func (s *Service) PlannedDateField() string {
	return s.plannedDateField
}

// ListIDsAssignedToMe returns the IDs of the caller's work items.
func (s *Service) ListIDsAssignedToMe(ctx context.Context) ([]string, error) {
	return s.queryIDs(ctx, QueryAssignedToMe())
}

// ListIDsAssignedToMeBy returns the IDs of the caller's work items matching
// a raw WIQL condition.
func (s *Service) ListIDsAssignedToMeBy(ctx context.Context, condition string) ([]string, error) {
	return s.queryIDs(ctx, QueryAssignedToMeBy(condition))
}

// ListIDsAssignedToMeByPlannedDate returns the IDs of the caller's work items
// planned for date.
func (s *Service) ListIDsAssignedToMeByPlannedDate(ctx context.Context, date string) ([]string, error) {
	return s.queryIDs(ctx, QueryAssignedToMeByPlannedDate(s.plannedDateField, date))
}

func (s *Service) queryIDs(ctx context.Context, query string) ([]string, error) {
	var resp wiqlResponse
	if err := s.transport.Post(ctx, "/wiql", wiqlRequest{Query: query}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to run work item query")
	}

	ids := make([]string, 0, len(resp.WorkItems))
	for _, wi := range resp.WorkItems {
		ids = append(ids, strconv.Itoa(wi.ID))
	}
	return ids, nil
}

// LookupDetails fetches work items by a comma separated ID list and reports
// how the call went.
func (s *Service) LookupDetails(ctx context.Context, ids string) Result[[]WorkItem] {
	list := SplitIDs(ids)
	if len(list) == 0 {
		return ok([]WorkItem{})
	}
	for _, id := range list {
		if !ValidID(id) {
			return failed[[]WorkItem](errors.Newf("invalid work item id %q", id))
		}
	}

	var resp listResponse[WorkItem]
	path := "/workitems?ids=" + url.QueryEscape(strings.Join(list, ","))
	if err := s.transport.Get(ctx, path, &resp); err != nil {
		if devops.IsNotFound(err) {
			return notFound[[]WorkItem](err)
		}
		return failed[[]WorkItem](err)
	}
	if resp.Value == nil {
		resp.Value = []WorkItem{}
	}
	return ok(resp.Value)
}

// GetDetailsByIDs is LookupDetails with read failures turned into an empty
// list. A 404 and any other failure look the same to the caller; both are
// logged.
func (s *Service) GetDetailsByIDs(ctx context.Context, ids string) []WorkItem {
	res := s.LookupDetails(ctx, ids)
	switch res.Outcome {
	case OutcomeNotFound:
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "workitems_not_found",
			"ids", ids,
		)
	case OutcomeFailed:
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "failed_to_get_workitems",
			"ids", ids,
			"err", res.Err.Error(),
		)
	}
	return res.ValueOr([]WorkItem{})
}

// ListTypes returns every work item type of the project.
func (s *Service) ListTypes(ctx context.Context) ([]WorkItemType, error) {
	var resp listResponse[WorkItemType]
	if err := s.transport.Get(ctx, "/workitemtypes", &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list work item types")
	}
	return resp.Value, nil
}

// GetType returns the work item type called name (e.g. "Task", "Bug").
func (s *Service) GetType(ctx context.Context, name string) (*WorkItemType, error) {
	var wit WorkItemType
	if err := s.transport.Get(ctx, "/workitemtypes/"+url.PathEscape(name), &wit); err != nil {
		return nil, errors.Wrapf(err, "failed to get work item type %q", name)
	}
	return &wit, nil
}

// ListTypeStates returns the states of the work item type called name.
func (s *Service) ListTypeStates(ctx context.Context, name string) ([]WorkItemTypeState, error) {
	var resp listResponse[WorkItemTypeState]
	if err := s.transport.Get(ctx, "/workitemtypes/"+url.PathEscape(name)+"/states", &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to list states of work item type %q", name)
	}
	return resp.Value, nil
}

// GetTypeTransitions returns the transition map of the work item type called
// name. A type without transitions yields an empty map.
func (s *Service) GetTypeTransitions(ctx context.Context, name string) (*Transitions, error) {
	wit, err := s.GetType(ctx, name)
	if err != nil {
		return nil, err
	}
	if wit.Transitions == nil {
		return NewTransitions(), nil
	}
	return wit.Transitions, nil
}

// ListTransitionsAllowed returns the transitions leaving state for the work
// item type called typeName. It is empty when state has none.
func (s *Service) ListTransitionsAllowed(ctx context.Context, typeName, state string) ([]Transition, error) {
	wit, err := s.GetType(ctx, typeName)
	if err != nil {
		return nil, err
	}
	list := wit.AllowedFrom(state)
	if list == nil {
		return []Transition{}, nil
	}
	return list, nil
}

// PatchField sets one field on one work item and reports how the call went.
func (s *Service) PatchField(ctx context.Context, id, ref string, value any) Result[WorkItem] {
	id = strings.TrimSpace(id)
	if id == "" {
		return failed[WorkItem](errors.New("work item id is required"))
	}
	if !ValidID(id) {
		return failed[WorkItem](errors.Newf("invalid work item id %q", id))
	}

	var wi WorkItem
	if err := s.transport.Patch(ctx, "/workitems/"+url.PathEscape(id), SetField(ref, value), &wi); err != nil {
		if devops.IsNotFound(err) {
			return notFound[WorkItem](err)
		}
		return failed[WorkItem](err)
	}
	return ok(wi)
}

func (s *Service) update(ctx context.Context, what, id, ref string, value any) bool {
	res := s.PatchField(ctx, id, ref, value)
	if !res.OK() {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", fmt.Sprintf("failed_to_update_%s", what),
			"id", id,
			"field", ref,
			"outcome", res.Outcome.String(),
			"err", res.Err.Error(),
		)
		return false
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", fmt.Sprintf("updated_%s", what),
		"id", id,
		"field", ref,
	)
	return true
}

// UpdateState moves a work item to state.
func (s *Service) UpdateState(ctx context.Context, id, state string) bool {
	return s.update(ctx, "state", id, FieldState, state)
}

// UpdatePlannedDate sets the planned date, an ISO-8601 timestamp such as
// "2025-07-02T00:00:00Z".
func (s *Service) UpdatePlannedDate(ctx context.Context, id, plannedDate string) bool {
	return s.update(ctx, "planned_date", id, s.plannedDateField, plannedDate)
}

// UpdateRealEffort sets the real effort in decimal hours (e.g. "1.5").
func (s *Service) UpdateRealEffort(ctx context.Context, id, effort string) bool {
	return s.update(ctx, "real_effort", id, s.realEffortField, effort)
}

// UpdateDescription replaces the description. HTML is passed through.
func (s *Service) UpdateDescription(ctx context.Context, id, description string) bool {
	return s.update(ctx, "description", id, FieldDescription, description)
}

// AddComment appends a comment; the service keeps earlier history entries.
func (s *Service) AddComment(ctx context.Context, id, comment string) bool {
	return s.update(ctx, "comment", id, FieldHistory, comment)
}

// UpdatePlannedDateBulk sets the same planned date on each ID, one request at
// a time. It is not atomic: a failed item is skipped and the rest still run.
// The returned IDs are the ones that succeeded, in input order.
func (s *Service) UpdatePlannedDateBulk(ctx context.Context, ids, plannedDate string) []string {
	updated := []string{}
	for _, id := range SplitIDs(ids) {
		if s.UpdatePlannedDate(ctx, id, plannedDate) {
			updated = append(updated, id)
		}
	}
	return updated
}

// ValidID reports whether id is a positive decimal work item ID.
func ValidID(id string) bool {
	n, err := strconv.Atoi(id)
	return err == nil && n > 0 && strconv.Itoa(n) == id
}

// SplitIDs splits a comma separated ID list, trimming blanks and dropping
// empty entries.
func SplitIDs(ids string) []string {
	parts := strings.Split(ids, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
