// Package severity holds the priority scale and the keyword escalation policy
// shared by emergency detection and response-time optimization. A single
// ordered rule set replaces the duplicated keyword scans that previously
// lived in two services: rules are evaluated in position order, first match
// wins, and matching is word-boundary based so "fireplace" does not trigger
// the "fire" rule.
package severity

import (
	"fmt"
	"regexp"
)

// Priority levels for maintenance requests and work orders.
const (
	Low       = "LOW"
	Medium    = "MEDIUM"
	High      = "HIGH"
	Emergency = "EMERGENCY"
)

var priorityRanks = map[string]int{
	Low:       0,
	Medium:    1,
	High:      2,
	Emergency: 3,
}

// Rank returns the ordering of a priority; unknown values rank below LOW.
func Rank(priority string) int {
	if rank, ok := priorityRanks[priority]; ok {
		return rank
	}
	return -1
}

// Valid reports whether the value is a known priority.
func Valid(priority string) bool {
	_, ok := priorityRanks[priority]
	return ok
}

// Rule maps a text pattern to the priority it escalates to.
type Rule struct {
	Pattern  string `yaml:"pattern"`
	Priority string `yaml:"priority"`
}

// RuleSet is an ordered, compiled escalation rule set.
type RuleSet struct {
	rules    []Rule
	matchers []*regexp.Regexp
}

// NewRuleSet compiles rules in the given order. Patterns are matched
// case-insensitively on word boundaries; a pattern may span multiple words.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{
		rules:    make([]Rule, 0, len(rules)),
		matchers: make([]*regexp.Regexp, 0, len(rules)),
	}
	for _, rule := range rules {
		if !Valid(rule.Priority) {
			return nil, fmt.Errorf("severity rule %q: unknown priority %q", rule.Pattern, rule.Priority)
		}
		matcher, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(rule.Pattern) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("severity rule %q: %w", rule.Pattern, err)
		}
		rs.rules = append(rs.rules, rule)
		rs.matchers = append(rs.matchers, matcher)
	}
	return rs, nil
}

// Match returns the first rule whose pattern occurs in text.
func (rs *RuleSet) Match(text string) (Rule, bool) {
	for i, matcher := range rs.matchers {
		if matcher.MatchString(text) {
			return rs.rules[i], true
		}
	}
	return Rule{}, false
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
