// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package decide

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	log "github.com/sirupsen/logrus"
)

// OverrideRule is one operator-defined rule from the config file. The
// condition is an expr expression over the decision environment; when it
// evaluates to true the rule forces or suppresses search.
type OverrideRule struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition"`
	// Action is "force_search" or "suppress_search".
	Action string `yaml:"action"`
}

// Overrides holds compiled override rules.
type Overrides struct {
	rules    []OverrideRule
	programs []*vm.Program
}

// CompileOverrides precompiles the rule conditions. A rule that fails to
// compile fails the whole set so broken config is caught at startup.
func CompileOverrides(rules []OverrideRule) (*Overrides, error) {
	o := &Overrides{rules: rules}
	for _, rule := range rules {
		switch rule.Action {
		case "force_search", "suppress_search":
		default:
			return nil, fmt.Errorf("override rule %q: unknown action %q", rule.Name, rule.Action)
		}
		program, err := expr.Compile(rule.Condition, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("override rule %q: %w", rule.Name, err)
		}
		o.programs = append(o.programs, program)
	}
	return o, nil
}

// apply runs the rules in declaration order; the last matching rule wins.
// A rule that errors at run time is skipped.
func (o *Overrides) apply(in Inputs, out *Decision) {
	env := map[string]any{
		"Question":     in.Question,
		"Domain":       out.Domain,
		"Country":      out.Country,
		"Volatility":   string(out.Volatility),
		"Future":       out.Future,
		"UseSearch":    out.UseSearch,
		"Greeting":     in.Regex.Greeting,
		"Price":        in.Regex.Price,
		"Sports":       in.Regex.Sports,
		"VersusSports": in.VersusSports,
	}
	for i, program := range o.programs {
		result, err := expr.Run(program, env)
		if err != nil {
			log.Warnf("decide: override rule %q failed: %v", o.rules[i].Name, err)
			continue
		}
		matched, ok := result.(bool)
		if !ok || !matched {
			continue
		}
		switch o.rules[i].Action {
		case "force_search":
			out.UseSearch = true
		case "suppress_search":
			out.UseSearch = false
		}
		out.Reason = "override: " + o.rules[i].Name
		env["UseSearch"] = out.UseSearch
	}
}
