package interpret

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypicalTag is emitted when no rule matches any quadrant.
const TypicalTag = "typical across all quadrants"

// RuleSet is an ordered list of compiled rules plus the fallback tag.
type RuleSet struct {
	Rules    []Rule `yaml:"rules"`
	Fallback string `yaml:"fallback,omitempty"`
}

// DefaultRules tags every quadrant that resolves above typical.
const DefaultRules = `
rules:
  - when: 'level in ["MAIS", "MUITO_MAIS"]'
    tag: '"elevated " + pattern + " pattern"'
fallback: typical across all quadrants
`

// Load parses and compiles a YAML rule set.
func Load(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("error parsing interpretation rules: %w", err)
	}
	if err := rs.Init(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Init compiles every rule against a fresh environment.
func (rs *RuleSet) Init() error {
	env, err := NewEnv()
	if err != nil {
		return fmt.Errorf("error creating CEL environment: %w", err)
	}
	for i := range rs.Rules {
		if err := rs.Rules[i].Init(env); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	if rs.Fallback == "" {
		rs.Fallback = TypicalTag
	}
	return nil
}

// Default returns the built-in rule set. It panics if the built-in rules do
// not compile.
func Default() *RuleSet {
	rs, err := Load([]byte(DefaultRules))
	if err != nil {
		panic(fmt.Sprintf("interpret: built-in rules: %v", err))
	}
	return rs
}

// Tags evaluates every rule against every quadrant, in quadrant order then
// rule order, dropping duplicate tags. With no match it returns the fallback.
func (rs *RuleSet) Tags(quadrants []Quadrant) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, q := range quadrants {
		for i := range rs.Rules {
			tag, ok := rs.Rules[i].Eval(q)
			if ok && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	if len(tags) == 0 {
		return []string{rs.Fallback}
	}
	return tags
}

// Digest identifies the rule expressions and fallback. Equal rule sets share
// a digest whether or not they are compiled.
func (rs *RuleSet) Digest() string {
	h := sha256.New()
	for _, r := range rs.Rules {
		fmt.Fprintf(h, "%q %q\n", r.When, r.Tag)
	}
	fallback := rs.Fallback
	if fallback == "" {
		fallback = TypicalTag
	}
	fmt.Fprintf(h, "fallback %q", fallback)
	return hex.EncodeToString(h.Sum(nil))
}
