// Package answers holds the answer sets collected during assessment intake.
//
// An AnswerSet maps global item numbers to normalised response tokens. It is
// mutable while in draft and frozen once finalized; the scoring engine only
// ever reads it.
package answers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/types"
)

// Status is the lifecycle state of an answer set.
type Status string

// Lifecycle states.
const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
)

// Lifecycle errors.
var (
	ErrFinalized   = errors.New("answer set is finalized")
	ErrIncomplete  = errors.New("answer set is incomplete")
	ErrUnknownItem = errors.New("answer references an unknown item")
)

// AnswerSet is the intake record for one administration of an instrument.
type AnswerSet struct {
	ID          uuid.UUID
	Instrument  string
	Subject     string
	Status      Status
	FinalizedAt time.Time
	answers     map[int]string
}

// New creates an empty draft answer set.
func New(instrument string) *AnswerSet {
	return &AnswerSet{
		ID:         uuid.New(),
		Instrument: instrument,
		Status:     StatusDraft,
		answers:    make(map[int]string),
	}
}

// Finalized reports whether the set is frozen.
func (a *AnswerSet) Finalized() bool { return a.Status == StatusFinalized }

// Get returns the normalised token for a global item number.
func (a *AnswerSet) Get(item int) (string, bool) {
	tok, ok := a.answers[item]
	return tok, ok
}

// NotApplicable reports whether the item was answered "not applicable".
func (a *AnswerSet) NotApplicable(item int) bool {
	return a.answers[item] == types.TokenNotApplicable
}

// Len is the number of answered items, "not applicable" included.
func (a *AnswerSet) Len() int { return len(a.answers) }

// Items returns the answered global item numbers in ascending order.
func (a *AnswerSet) Items() []int {
	items := make([]int, 0, len(a.answers))
	for n := range a.answers {
		items = append(items, n)
	}
	sort.Ints(items)
	return items
}

// Set records a symbolic token, stored normalised. An empty token clears the answer.
func (a *AnswerSet) Set(item int, token string) error {
	if a.Finalized() {
		return fmt.Errorf("set item %d: %w", item, ErrFinalized)
	}
	if a.answers == nil {
		a.answers = make(map[int]string)
	}
	tok := types.NormalizeToken(token)
	if tok == "" {
		delete(a.answers, item)
		return nil
	}
	a.answers[item] = tok
	return nil
}

// SetInt records a bounded integer answer.
func (a *AnswerSet) SetInt(item, value int) error {
	return a.Set(item, strconv.Itoa(value))
}

// SetNotApplicable marks an item as excluded from aggregation.
func (a *AnswerSet) SetNotApplicable(item int) error {
	return a.Set(item, types.TokenNotApplicable)
}

// Clear removes an answer.
func (a *AnswerSet) Clear(item int) error {
	return a.Set(item, "")
}

// Finalize freezes the set. It refuses when complete is false, leaving the
// set in draft; finalizing an already finalized set is a no-op.
func (a *AnswerSet) Finalize(complete bool) error {
	if a.Finalized() {
		return nil
	}
	if !complete {
		return ErrIncomplete
	}
	a.Status = StatusFinalized
	a.FinalizedAt = time.Now().UTC()
	return nil
}

// Unknown returns answered item numbers that are not in known, ascending.
func (a *AnswerSet) Unknown(known map[int]bool) []int {
	var unknown []int
	for _, n := range a.Items() {
		if !known[n] {
			unknown = append(unknown, n)
		}
	}
	return unknown
}

// Snapshot returns a copy of the answers keyed by global item number.
func (a *AnswerSet) Snapshot() map[int]string {
	out := make(map[int]string, len(a.answers))
	for k, v := range a.answers {
		out[k] = v
	}
	return out
}
