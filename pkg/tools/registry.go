// Package tools is the named-operation surface agents call: every tool takes
// string arguments and returns one string.
package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var logger = xlog.NewPackageLogger("github.com/joshcarp/workitems-mcp", "tools")

// ErrUnknownTool is returned by Call for a name that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Args holds the string arguments of one call, keyed by parameter name.
type Args map[string]string

// Handler runs a tool. A returned error is reported to the caller as a tool
// error rather than a text result.
type Handler func(ctx context.Context, args Args) (string, error)

// Param is a required argument. Handlers always see it as a string; Types
// lists the JSON types callers may send, and nil means string only.
type Param struct {
	Name        string
	Description string
	Types       []string
}

// Tool is a registered operation.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Registry keeps tools in registration order.
type Registry struct {
	tools *orderedmap.OrderedMap[string, *Tool]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: orderedmap.New[string, *Tool]()}
}

// Register adds t. Names must be unique and every tool needs a handler.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return errors.New("tool name is required")
	}
	if t.Handler == nil {
		return errors.Newf("tool %q has no handler", t.Name)
	}
	if _, exists := r.tools.Get(t.Name); exists {
		return errors.Newf("tool %q is already registered", t.Name)
	}
	r.tools.Set(t.Name, &t)
	return nil
}

func (r *Registry) mustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (*Tool, bool) {
	return r.tools.Get(name)
}

// List returns every tool in registration order.
func (r *Registry) List() []*Tool {
	list := make([]*Tool, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value)
	}
	return list
}

// Call runs the tool called name after checking that every parameter is
// present. Arguments the tool does not declare are ignored.
func (r *Registry) Call(ctx context.Context, name string, args Args) (string, error) {
	t, ok := r.tools.Get(name)
	if !ok {
		return "", errors.Wrapf(ErrUnknownTool, "%q", name)
	}
	for _, p := range t.Params {
		if _, present := args[p.Name]; !present {
			return "", errors.Newf("missing required parameter: %s", p.Name)
		}
	}

	logger.ContextKV(ctx, xlog.DEBUG, "status", "call_tool", "tool", name)
	out, err := t.Handler(ctx, args)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "tool_failed",
			"tool", name,
			"err", err.Error(),
		)
		return "", err
	}
	return out, nil
}
