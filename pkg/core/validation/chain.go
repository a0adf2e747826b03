// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     validation
// Description: Composable rule chains on top of go-playground/validator
// Created:     2026-10-15
// License:     MIT
// ============================================================================

// Package validation runs ordered, coded rule chains against a single value.
//
// A chain is a list of rules, each bound to a warning code and either a
// validator tag or a predicate. Rules marked as gates stop the chain when they
// fail (an empty value only ever reports the "required" code). The remaining
// rules either all run and accumulate their codes, or stop at the first
// failure when the chain is configured with StopOnFirstError.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule is one coded check of a chain.
type Rule struct {
	// Code is reported when the rule fails.
	Code string

	// Tag is a validator tag such as "required" or "min=3,max=20".
	Tag string

	// Compare, when set, supplies the second operand for cross-value tags
	// such as "eqcsfield".
	Compare func() any

	// Func is used instead of Tag when set.
	Func func(value any) bool

	gate bool
}

// Result is the outcome of running a chain.
type Result struct {
	Valid bool
	Codes []string
}

// HasCode reports whether code is among the failing codes.
func (r Result) HasCode(code string) bool {
	for _, c := range r.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Chain is an ordered set of rules for one value.
type Chain struct {
	name             string
	validate         *validator.Validate
	rules            []Rule
	stopOnFirstError bool
}

// NewChain creates an empty chain evaluated with v.
func NewChain(name string, v *validator.Validate) *Chain {
	return &Chain{
		name:     name,
		validate: v,
	}
}

// Require adds a gate rule using the "required" tag.
func (c *Chain) Require(code string) *Chain {
	c.rules = append(c.rules, Rule{Code: code, Tag: "required", gate: true})
	return c
}

// Add appends a tag rule.
func (c *Chain) Add(code, tag string) *Chain {
	c.rules = append(c.rules, Rule{Code: code, Tag: tag})
	return c
}

// AddCompare appends a cross-value tag rule; other is read at evaluation time.
func (c *Chain) AddCompare(code, tag string, other func() any) *Chain {
	c.rules = append(c.rules, Rule{Code: code, Tag: tag, Compare: other})
	return c
}

// AddFunc appends a predicate rule.
func (c *Chain) AddFunc(code string, fn func(value any) bool) *Chain {
	c.rules = append(c.rules, Rule{Code: code, Func: fn})
	return c
}

// StopOnFirstError makes the chain report at most one code.
// By default every non-gate rule runs and all failing codes are collected.
func (c *Chain) StopOnFirstError(stop bool) *Chain {
	c.stopOnFirstError = stop
	return c
}

// Validate runs the chain against value.
func (c *Chain) Validate(value any) Result {
	res := Result{Valid: true}

	for _, rule := range c.rules {
		if c.passes(rule, value) {
			continue
		}

		res.Valid = false
		res.Codes = append(res.Codes, rule.Code)

		if rule.gate || c.stopOnFirstError {
			break
		}
	}

	return res
}

func (c *Chain) passes(rule Rule, value any) bool {
	if rule.Func != nil {
		return rule.Func(value)
	}
	if rule.Compare != nil {
		return c.validate.VarWithValue(value, rule.Compare(), rule.Tag) == nil
	}
	return c.validate.Var(value, rule.Tag) == nil
}

// Len returns the number of rules in the chain.
func (c *Chain) Len() int {
	return len(c.rules)
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return c.name
}

// String returns a short description of the chain.
func (c *Chain) String() string {
	codes := make([]string, len(c.rules))
	for i, r := range c.rules {
		codes[i] = r.Code
	}
	return fmt.Sprintf("Chain{name: %s, rules: [%s], stopOnFirstError: %v}",
		c.name, strings.Join(codes, " "), c.stopOnFirstError)
}
