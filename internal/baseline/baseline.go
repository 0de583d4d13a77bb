// Package baseline snapshots fingerprints of finalized scored results so
// that re-scoring after a reference-data change reports any drift.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
)

// Entry is one scored answer set, keyed by answer set id or document path.
type Entry struct {
	Key    string
	Result *scoring.ScoredResult
}

// Baseline maps entry keys to result fingerprints.
type Baseline struct {
	Version      string            `json:"version"`
	CreatedAt    string            `json:"created_at"`
	Fingerprints map[string]string `json:"fingerprints"`
}

// Report lists the keys whose results changed, disappeared or are new.
type Report struct {
	Drifted   []string `json:"drifted,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	New       []string `json:"new,omitempty"`
	Unchanged int      `json:"unchanged"`
}

// Clean reports whether nothing drifted or went missing.
func (r Report) Clean() bool {
	return len(r.Drifted) == 0 && len(r.Missing) == 0
}

// CreateBaseline fingerprints every entry.
func CreateBaseline(entries []Entry) (*Baseline, error) {
	b := &Baseline{
		Version:      "1.0",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Fingerprints: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		fp, err := Fingerprint(e.Result)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}
		b.Fingerprints[e.Key] = fp
	}
	return b, nil
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	if b.Fingerprints == nil {
		b.Fingerprints = make(map[string]string)
	}
	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// Matches reports whether res fingerprints the same as the recorded entry.
// An unknown key never matches.
func (b *Baseline) Matches(key string, res *scoring.ScoredResult) bool {
	want, ok := b.Fingerprints[key]
	if !ok {
		return false
	}
	got, err := Fingerprint(res)
	return err == nil && got == want
}

// Compare checks current results against the baseline. Keys in the baseline
// with no current entry are missing; current entries the baseline never saw
// are new.
func (b *Baseline) Compare(entries []Entry) (Report, error) {
	var r Report
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		seen[e.Key] = true
		want, ok := b.Fingerprints[e.Key]
		if !ok {
			r.New = append(r.New, e.Key)
			continue
		}
		got, err := Fingerprint(e.Result)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", e.Key, err)
		}
		if got != want {
			r.Drifted = append(r.Drifted, e.Key)
			continue
		}
		r.Unchanged++
	}
	for key := range b.Fingerprints {
		if !seen[key] {
			r.Missing = append(r.Missing, key)
		}
	}

	sort.Strings(r.Drifted)
	sort.Strings(r.Missing)
	sort.Strings(r.New)
	return r, nil
}

// Fingerprint hashes the canonical JSON of a result. The answer set id is
// left out so that the fingerprint depends only on what was scored.
func Fingerprint(res *scoring.ScoredResult) (string, error) {
	if res == nil {
		return "", fmt.Errorf("no result to fingerprint")
	}
	c := *res
	c.AnswerSet = ""
	data, err := json.Marshal(&c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
