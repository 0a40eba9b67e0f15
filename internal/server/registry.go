// Package server exposes the workspace tools over a newline-delimited
// JSON transport. Each request names a tool and carries its arguments;
// the registry decodes, dispatches, and serializes the response.
package server

import (
	"context"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
)

// Tool is one callable entry in the registry.
type Tool interface {
	Name() string
	Description() string
	Schema() *jsonschema.Schema
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Declaration is the discovery record for one tool.
type Declaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Schema      *jsonschema.Schema `json:"schema"`
}

// Registry holds the tools the server dispatches to.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a Registry. Registering two tools with the same
// name panics; that is a wiring bug, not a runtime condition.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; exists {
		panic(fmt.Sprintf("duplicate tool registration: %s", t.Name()))
	}
	r.tools[t.Name()] = t
}

// Get returns the named tool, or false if unknown.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Declarations lists all tools sorted by name.
func (r *Registry) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(r.tools))
	for _, t := range r.tools {
		decls = append(decls, Declaration{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema(),
		})
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// tool binds a typed Run function into the registry surface. The
// request schema is reflected once at construction.
type tool[Req any, Resp any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	run         func(ctx context.Context, req *Req) (*Resp, error)
}

// NewTool wraps a typed tool function as a registry Tool. Arguments are
// decoded by json tag name, so the wire field names match the reflected
// schema.
func NewTool[Req any, Resp any](
	name, description string,
	run func(ctx context.Context, req *Req) (*Resp, error),
) Tool {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	return &tool[Req, Resp]{
		name:        name,
		description: description,
		schema:      reflector.Reflect(new(Req)),
		run:         run,
	}
}

func (t *tool[Req, Resp]) Name() string               { return t.name }
func (t *tool[Req, Resp]) Description() string        { return t.description }
func (t *tool[Req, Resp]) Schema() *jsonschema.Schema { return t.schema }

func (t *tool[Req, Resp]) Call(ctx context.Context, args map[string]any) (any, error) {
	var req Req
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build argument decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", t.name, err)
	}
	return t.run(ctx, &req)
}
