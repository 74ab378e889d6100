package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"portfolio_advisor/internal/analytics"
	"portfolio_advisor/internal/models"
)

// Handler executes one validated tool invocation and returns a JSON-shaped
// payload. Errors are converted to failure payloads by Dispatch; handlers
// never talk to the model directly.
type Handler func(ctx context.Context, args Args) (any, error)

// Spec declares one tool: its schema, its handler, and whether it operates
// on a portfolio that can be injected from the conversation.
type Spec struct {
	Name              string
	Description       string
	Params            []Param
	RequiresPortfolio bool
	Handler           Handler
}

// Registry maps tool names to specs and runs the validate-inject-invoke
// dispatch pipeline. Registration happens once at startup; dispatch is
// read-only afterwards, so no lock is needed.
type Registry struct {
	specs map[string]*Spec
	order []string
}

// Defaults carries configured fallbacks for optional tool parameters. Zero
// values keep the built-in defaults (1y window, SPY benchmark).
type Defaults struct {
	Window    string
	Benchmark string
}

// New returns a registry with the full advisor tool set registered against
// the given analytics service, using built-in parameter defaults.
func New(svc *analytics.Service) *Registry {
	return NewWithDefaults(svc, Defaults{})
}

// NewWithDefaults is New with configured parameter defaults.
func NewWithDefaults(svc *analytics.Service, d Defaults) *Registry {
	r := &Registry{specs: make(map[string]*Spec)}
	registerBuiltins(r, svc, d)
	return r
}

// Register adds a tool. Duplicate names are a programming error.
func (r *Registry) Register(spec *Spec) error {
	if spec == nil || spec.Name == "" {
		return fmt.Errorf("tool spec must have a name")
	}
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// Specs returns all tools in registration order, for building model-side
// function declarations.
func (r *Registry) Specs() []*Spec {
	out := make([]*Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// failurePayload is what the model sees when a tool invocation fails. The
// failure is data: the turn continues and the model explains it to the user.
type failurePayload struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// Dispatch validates the raw arguments, injects the active portfolio where
// the tool needs one, and invokes the handler. It never panics or returns an
// error past this boundary: every failure is serialized into the result.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs map[string]any, active models.Portfolio) string {
	payload, err := r.dispatch(ctx, name, rawArgs, active)
	if err != nil {
		log.Printf("tool %s failed: %v", name, err)
		return marshal(failurePayload{Success: false, Code: errorCode(err), Error: err.Error()})
	}
	return marshal(payload)
}

func (r *Registry) dispatch(ctx context.Context, name string, rawArgs map[string]any, active models.Portfolio) (payload any, err error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	args, explicit, err := coerce(spec.Params, rawArgs)
	if err != nil {
		return nil, err
	}

	if spec.RequiresPortfolio {
		switch {
		case len(explicit) > 0:
			args.Portfolio = explicit
		case len(active) > 0:
			args.Portfolio = active.Clone()
		default:
			// Never substitute an example portfolio: a made-up answer is
			// worse than asking the user for their holdings.
			return nil, fmt.Errorf("%w: supply a portfolio argument or set one for the conversation", ErrNoPortfolio)
		}
	}

	// A handler or its collaborators must not take the dispatcher down.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %s panicked: %v", name, rec)
		}
	}()

	return spec.Handler(ctx, args)
}

func marshal(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		// Payloads are our own structs; this indicates a programming error.
		return fmt.Sprintf(`{"success":false,"code":"upstream_data_unavailable","error":"encode result: %v"}`, err)
	}
	return string(b)
}
