// Package format rewrites instrument and answer documents canonically.
package format

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// Formatter formats documents canonically.
type Formatter interface {
	// Format takes raw file content and returns formatted content.
	// Returns original content and error if formatting fails.
	Format(content string) (string, error)
}

// NewFormatter returns the formatter for a document kind ("answers" or
// "instrument"); anything else only reorders top-level keys alphabetically.
func NewFormatter(kind string) Formatter {
	switch kind {
	case "answers":
		return &AnswersFormatter{}
	case "instrument":
		return &InstrumentFormatter{}
	default:
		return &GenericFormatter{}
	}
}

var (
	answerFields     = []string{"id", "instrument", "subject", "status", "finalized_at", "answers"}
	instrumentFields = []string{"code", "name", "family", "version", "age_range", "domains", "norms", "patterns", "bands"}
)

// AnswersFormatter orders document keys, normalises answer tokens, drops
// empty answers and sorts answers by item number.
type AnswersFormatter struct{}

func (f *AnswersFormatter) Format(content string) (string, error) {
	root, err := parseMapping(content)
	if err != nil {
		return content, err
	}
	orderKeys(root, answerFields)

	if answers := lookup(root, "answers"); answers != nil {
		if err := normalizeAnswers(answers); err != nil {
			return content, err
		}
	}
	return encode(root)
}

// InstrumentFormatter orders the top-level keys of an instrument document.
type InstrumentFormatter struct{}

func (f *InstrumentFormatter) Format(content string) (string, error) {
	root, err := parseMapping(content)
	if err != nil {
		return content, err
	}
	orderKeys(root, instrumentFields)
	return encode(root)
}

// GenericFormatter orders top-level keys alphabetically.
type GenericFormatter struct{}

func (f *GenericFormatter) Format(content string) (string, error) {
	root, err := parseMapping(content)
	if err != nil {
		return content, err
	}
	orderKeys(root, nil)
	return encode(root)
}

// parseMapping returns the top-level mapping node of a YAML document.
func parseMapping(content string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document is not a mapping")
	}
	return root, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

type pair struct{ key, value *yaml.Node }

func pairs(m *yaml.Node) []pair {
	out := make([]pair, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, pair{m.Content[i], m.Content[i+1]})
	}
	return out
}

func setPairs(m *yaml.Node, ps []pair) {
	m.Content = m.Content[:0]
	for _, p := range ps {
		m.Content = append(m.Content, p.key, p.value)
	}
}

// orderKeys puts priority keys first, in the given order, then the rest
// alphabetically.
func orderKeys(m *yaml.Node, priority []string) {
	rank := make(map[string]int, len(priority))
	for i, k := range priority {
		rank[k] = i
	}
	ps := pairs(m)
	sort.SliceStable(ps, func(i, j int) bool {
		ri, iok := rank[ps[i].key.Value]
		rj, jok := rank[ps[j].key.Value]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return ps[i].key.Value < ps[j].key.Value
		}
	})
	setPairs(m, ps)
}

func normalizeAnswers(m *yaml.Node) error {
	if m.Kind != yaml.MappingNode {
		if m.Tag == "!!null" {
			return nil
		}
		return fmt.Errorf("answers must be a mapping of item number to token")
	}

	type numbered struct {
		n int
		p pair
	}
	var kept []numbered
	for _, p := range pairs(m) {
		n, err := strconv.Atoi(strings.TrimSpace(p.key.Value))
		if err != nil || n < 1 {
			return fmt.Errorf("line %d: answer key %q is not an item number", p.key.Line, p.key.Value)
		}
		if p.value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: answer to item %d is not a scalar", p.value.Line, n)
		}
		tok := types.NormalizeToken(p.value.Value)
		if tok == "" || p.value.Tag == "!!null" {
			continue
		}
		p.value.Value = tok
		p.value.Style = 0
		p.key.Value = strconv.Itoa(n)
		kept = append(kept, numbered{n, p})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].n < kept[j].n })

	ps := make([]pair, 0, len(kept))
	for _, k := range kept {
		ps = append(ps, k.p)
	}
	setPairs(m, ps)
	return nil
}

func encode(root *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Diff computes a simple unified diff between original and formatted content.
// Returns empty string if contents are identical.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", filename)
	fmt.Fprintf(&buf, "+++ %s (formatted)\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := 0; i < max(len(origLines), len(fmtLines)); i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}
		if origLine == fmtLine {
			continue
		}
		if origLine != "" {
			fmt.Fprintf(&buf, "- %s\n", origLine)
		}
		if fmtLine != "" {
			fmt.Fprintf(&buf, "+ %s\n", fmtLine)
		}
	}

	return buf.String()
}
