// Package catalog assembles the reference rule set.
package catalog

import (
	"github.com/smykla-skalski/codeaudit/internal/rule"
	"github.com/smykla-skalski/codeaudit/internal/rules/architecture"
	"github.com/smykla-skalski/codeaudit/internal/rules/security"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// All returns every reference rule with default thresholds, in
// registration order: nine security rules, then four architecture rules.
func All() []rule.Rule {
	return build(nil)
}

// Names returns the names of All, in registration order.
func Names() []string {
	rules := All()
	names := make([]string, len(rules))

	for i, r := range rules {
		names[i] = r.Name()
	}

	return names
}

// FromConfig returns the reference rules with disabled rules left out and
// thresholds taken from cfg. A nil cfg behaves like All.
func FromConfig(cfg *config.RulesConfig) []rule.Rule {
	all := build(cfg)
	out := make([]rule.Rule, 0, len(all))

	for _, r := range all {
		if cfg.IsDisabled(r.Name()) {
			continue
		}

		out = append(out, r)
	}

	return out
}

func build(cfg *config.RulesConfig) []rule.Rule {
	var org *config.CodeOrganizationConfig
	if cfg != nil {
		org = cfg.CodeOrganization
	}

	return []rule.Rule{
		security.NewHardcodedSecrets(),
		security.NewSQLInjection(),
		security.NewXSS(),
		security.NewAuthentication(),
		security.NewInputValidation(),
		security.NewRateLimiting(),
		security.NewCORS(),
		security.NewHeaders(),
		security.NewDeserialization(),
		architecture.NewCodeOrganization(
			architecture.WithMaxLines(org.GetMaxLines()),
			architecture.WithMaxNesting(org.GetMaxNesting()),
		),
		architecture.NewErrorHandling(),
		architecture.NewAPIDesign(),
		architecture.NewMiddleware(),
	}
}
