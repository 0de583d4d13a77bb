package answers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk YAML form of an answer set.
type Document struct {
	ID          string         `yaml:"id,omitempty"`
	Instrument  string         `yaml:"instrument"`
	Subject     string         `yaml:"subject,omitempty"`
	Status      Status         `yaml:"status,omitempty"`
	FinalizedAt string         `yaml:"finalized_at,omitempty"`
	Answers     map[int]string `yaml:"answers"`
}

// Parse decodes a YAML answer document. A missing id is generated; a
// missing status means draft.
func Parse(data []byte) (*AnswerSet, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing answer document: %w", err)
	}
	return doc.AnswerSet()
}

// AnswerSet converts the document into an AnswerSet.
func (d Document) AnswerSet() (*AnswerSet, error) {
	if d.Instrument == "" {
		return nil, fmt.Errorf("answer document has no instrument")
	}

	set := New(d.Instrument)
	set.Subject = d.Subject
	if d.ID != "" {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid answer set id %q: %w", d.ID, err)
		}
		set.ID = id
	}
	for item, tok := range d.Answers {
		if err := set.Set(item, tok); err != nil {
			return nil, err
		}
	}

	switch d.Status {
	case "", StatusDraft:
	case StatusFinalized:
		set.Status = StatusFinalized
		if d.FinalizedAt != "" {
			at, err := time.Parse(time.RFC3339, d.FinalizedAt)
			if err != nil {
				return nil, fmt.Errorf("invalid finalized_at %q: %w", d.FinalizedAt, err)
			}
			set.FinalizedAt = at
		}
	default:
		return nil, fmt.Errorf("unknown answer set status %q", d.Status)
	}
	return set, nil
}

// ToDocument converts the set into its on-disk form.
func (a *AnswerSet) ToDocument() Document {
	doc := Document{
		ID:         a.ID.String(),
		Instrument: a.Instrument,
		Subject:    a.Subject,
		Status:     a.Status,
		Answers:    a.Snapshot(),
	}
	if a.Finalized() && !a.FinalizedAt.IsZero() {
		doc.FinalizedAt = a.FinalizedAt.Format(time.RFC3339)
	}
	return doc
}

// Marshal encodes the set as YAML with answers in ascending item order.
func (a *AnswerSet) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(a.ToDocument())
	if err != nil {
		return nil, fmt.Errorf("error marshaling answer set: %w", err)
	}
	return data, nil
}
