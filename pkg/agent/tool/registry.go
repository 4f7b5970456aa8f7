package tool

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

var (
	// ErrInvalidArgument is returned when a tool argument is missing or has the wrong type.
	ErrInvalidArgument = goerr.New("invalid tool argument")

	// ErrUnknownTool is returned when no operation is registered under the requested name.
	ErrUnknownTool = goerr.New("unknown tool")
)

// Operation is a tool with a plain text result. Run wraps the text as
// {"result": text} for gollem; Invoke returns it directly.
type Operation interface {
	gollem.Tool
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// Registry is the closed set of operations exposed to the model for one call.
type Registry struct {
	ops   map[string]Operation
	names []string
}

// NewRegistry builds a Registry. A later operation with a duplicate name replaces an earlier one.
func NewRegistry(ops ...Operation) *Registry {
	r := &Registry{ops: make(map[string]Operation, len(ops))}
	for _, op := range ops {
		name := op.Spec().Name
		if _, exists := r.ops[name]; !exists {
			r.names = append(r.names, name)
		}
		r.ops[name] = op
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns registered tool names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Specs returns the schema of every operation, sorted by name.
func (r *Registry) Specs() []gollem.ToolSpec {
	specs := make([]gollem.ToolSpec, 0, len(r.names))
	for _, name := range r.names {
		specs = append(specs, r.ops[name].Spec())
	}
	return specs
}

// Tools returns the operations as gollem tools for agent registration.
func (r *Registry) Tools() []gollem.Tool {
	tools := make([]gollem.Tool, 0, len(r.names))
	for _, name := range r.names {
		tools = append(tools, r.ops[name])
	}
	return tools
}

// Invoke runs the named operation.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	op, ok := r.ops[name]
	if !ok {
		return "", goerr.Wrap(ErrUnknownTool, "tool is not registered", goerr.V("name", name))
	}
	if args == nil {
		args = map[string]any{}
	}
	return op.Invoke(ctx, args)
}

// TextResult converts an operation result into the gollem tool response shape.
func TextResult(text string, err error) (map[string]any, error) {
	if err != nil {
		return nil, err
	}
	return map[string]any{"result": text}, nil
}
