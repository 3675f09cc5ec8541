package engine

import "github.com/smykla-skalski/codeaudit/internal/rule"

// Registry is the ordered, append-only list of active rules. Duplicate
// names are not rejected; the catalog tests guard against them.
type Registry struct {
	rules []rule.Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make([]rule.Rule, 0)}
}

// Register appends a rule.
func (r *Registry) Register(rl rule.Rule) {
	r.rules = append(r.rules, rl)
}

// RegisterAll appends rules in order.
func (r *Registry) RegisterAll(rules ...rule.Rule) {
	for _, rl := range rules {
		r.Register(rl)
	}
}

// Names returns the registered rule names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.rules))

	for i, rl := range r.rules {
		names[i] = rl.Name()
	}

	return names
}

// Rules returns a copy of the registered rules in registration order.
func (r *Registry) Rules() []rule.Rule {
	out := make([]rule.Rule, len(r.rules))
	copy(out, r.rules)

	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
