// Package interpret turns resolved Sensory Profile quadrant levels into
// interpretation tags using CEL rules.
//
// A rule is a pair of CEL expressions: When must evaluate to a bool, Tag to a
// string. Both see the variables quadrant, pattern, level, raw and max of the
// quadrant being interpreted.
package interpret

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule produces a tag for every quadrant its When expression matches.
type Rule struct {
	// When is a CEL expression returning bool.
	When string `yaml:"when" json:"when"`
	// Tag is a CEL expression returning the tag text.
	Tag string `yaml:"tag" json:"tag"`

	when cel.Program
	tag  cel.Program
}

// Quadrant is the evaluation input for one quadrant.
type Quadrant struct {
	Name    string
	Pattern string
	Level   string
	Raw     int
	Max     int
}

func (q Quadrant) activation() map[string]any {
	return map[string]any{
		"quadrant": q.Name,
		"pattern":  q.Pattern,
		"level":    q.Level,
		"raw":      int64(q.Raw),
		"max":      int64(q.Max),
	}
}

// NewEnv declares the variables rules may reference.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("quadrant", cel.StringType),
		cel.Variable("pattern", cel.StringType),
		cel.Variable("level", cel.StringType),
		cel.Variable("raw", cel.IntType),
		cel.Variable("max", cel.IntType),
	)
}

// Init compiles both expressions and checks their result types.
func (r *Rule) Init(env *cel.Env) error {
	var err error
	r.when, err = compile(env, r.When, cel.BoolType)
	if err != nil {
		return fmt.Errorf("when %q: %w", r.When, err)
	}
	r.tag, err = compile(env, r.Tag, cel.StringType)
	if err != nil {
		return fmt.Errorf("tag %q: %w", r.Tag, err)
	}
	return nil
}

func compile(env *cel.Env, expr string, want *cel.Type) (cel.Program, error) {
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(want) {
		return nil, fmt.Errorf("expression returns %s, want %s", ast.OutputType(), want)
	}
	return env.Program(ast)
}

// Eval returns the tag and true when the rule matches q. Evaluation errors
// count as no match.
func (r *Rule) Eval(q Quadrant) (string, bool) {
	if r.when == nil || r.tag == nil {
		return "", false
	}
	act := q.activation()
	matched, _, err := r.when.Eval(act)
	if err != nil || matched.Value() != true {
		return "", false
	}
	tag, _, err := r.tag.Eval(act)
	if err != nil {
		return "", false
	}
	s, ok := tag.Value().(string)
	return s, ok && s != ""
}
